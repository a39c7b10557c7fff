package sink

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v12/arrow"
	"github.com/apache/arrow/go/v12/arrow/array"
	"github.com/apache/arrow/go/v12/arrow/ipc"
	"github.com/apache/arrow/go/v12/arrow/memory"

	"github.com/rosskidson/iex-pcap/internal/iextp"
)

// arrowSchema is the columnar layout every ArrowSink batch shares: one row
// per decoded quote/trade/price-level event. Unused fields for a given row
// (e.g. side on a trade) are null rather than the column being omitted, so
// every batch keeps a single schema.
var arrowSchema = arrow.NewSchema([]arrow.Field{
	{Name: "timestamp", Type: arrow.FixedWidthTypes.Timestamp_ns},
	{Name: "type", Type: arrow.BinaryTypes.String},
	{Name: "symbol", Type: arrow.BinaryTypes.String},
	{Name: "side", Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: "size", Type: arrow.PrimitiveTypes.Uint32, Nullable: true},
	{Name: "price", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
}, nil)

// ArrowSink batches decoded messages into Arrow record batches and writes
// them out as an Arrow IPC file, the columnar counterpart to CSVSink and
// TimeSeriesSink for downstream analytical readers (pandas, DuckDB, and
// similar) that consume Arrow natively rather than row-oriented CSV.
type ArrowSink struct {
	w         *ipc.FileWriter
	bld       *array.RecordBuilder
	batchSize int
	rows      int
	written   int
}

// writeCounter adapts an io.Writer to io.WriteSeeker for callers (such as
// arrow/ipc.NewFileWriter) that only ever need Seek(0, io.SeekCurrent) to
// track the current write offset, not an actual repositionable stream.
type writeCounter struct {
	io.Writer
	pos int64
}

func (c *writeCounter) Write(p []byte) (int, error) {
	n, err := c.Writer.Write(p)
	c.pos += int64(n)
	return n, err
}

func (c *writeCounter) Seek(offset int64, whence int) (int64, error) {
	if whence != io.SeekCurrent || offset != 0 {
		return 0, fmt.Errorf("writeCounter: unsupported Seek(%d, %d)", offset, whence)
	}
	return c.pos, nil
}

// NewArrowSink returns an ArrowSink writing to w, flushing a record batch
// to the underlying IPC file every batchSize rows.
func NewArrowSink(w io.Writer, batchSize int) (*ArrowSink, error) {
	ws, ok := w.(io.WriteSeeker)
	if !ok {
		ws = &writeCounter{Writer: w}
	}
	fw, err := ipc.NewFileWriter(ws, ipc.WithSchema(arrowSchema), ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, err
	}
	return &ArrowSink{
		w:         fw,
		bld:       array.NewRecordBuilder(memory.NewGoAllocator(), arrowSchema),
		batchSize: batchSize,
	}, nil
}

func (s *ArrowSink) appendRow(ts iextp.Timestamp, kind, symbol, side string, size *uint32, price *float64) {
	s.bld.Field(0).(*array.TimestampBuilder).Append(arrow.Timestamp(int64(ts)))
	s.bld.Field(1).(*array.StringBuilder).Append(kind)
	s.bld.Field(2).(*array.StringBuilder).Append(symbol)
	if side == "" {
		s.bld.Field(3).(*array.StringBuilder).AppendNull()
	} else {
		s.bld.Field(3).(*array.StringBuilder).Append(side)
	}
	if size == nil {
		s.bld.Field(4).(*array.Uint32Builder).AppendNull()
	} else {
		s.bld.Field(4).(*array.Uint32Builder).Append(*size)
	}
	if price == nil {
		s.bld.Field(5).(*array.Float64Builder).AppendNull()
	} else {
		s.bld.Field(5).(*array.Float64Builder).Append(*price)
	}
	s.rows++
}

// Write appends a decoded message to the current batch, flushing it once
// batchSize rows have accumulated. Messages with no columnar mapping
// (system events, security directory entries, and the like) are ignored,
// matching CSVSink's own quote-only scope.
func (s *ArrowSink) Write(msg iextp.Message) error {
	switch m := msg.(type) {
	case *iextp.QuoteUpdate:
		bidSize, askSize := m.BidSize, m.AskSize
		bidPrice, askPrice := m.BidPrice.Float64(), m.AskPrice.Float64()
		s.appendRow(m.Timestamp(), "quote", m.Symbol, "bid", &bidSize, &bidPrice)
		s.appendRow(m.Timestamp(), "quote", m.Symbol, "ask", &askSize, &askPrice)
	case *iextp.TradeReport:
		size, price := m.Size, m.Price.Float64()
		s.appendRow(m.Timestamp(), "trade", m.Symbol, "", &size, &price)
	case *iextp.PriceLevelUpdateBuy:
		size, price := m.Size, m.Price.Float64()
		s.appendRow(m.Timestamp(), "level", m.Symbol, "bid", &size, &price)
	case *iextp.PriceLevelUpdateSell:
		size, price := m.Size, m.Price.Float64()
		s.appendRow(m.Timestamp(), "level", m.Symbol, "ask", &size, &price)
	default:
		return nil
	}
	if s.rows >= s.batchSize {
		return s.flushBatch()
	}
	return nil
}

func (s *ArrowSink) flushBatch() error {
	if s.rows == 0 {
		return nil
	}
	rec := s.bld.NewRecord()
	defer rec.Release()
	if err := s.w.Write(rec); err != nil {
		return err
	}
	s.written += s.rows
	s.rows = 0
	return nil
}

// Flush writes any pending batch and closes the IPC file footer. Callers
// still own w and must close it themselves afterward.
func (s *ArrowSink) Flush() error {
	if err := s.flushBatch(); err != nil {
		return err
	}
	return s.w.Close()
}

// Written reports the total number of rows written across all batches.
func (s *ArrowSink) Written() int { return s.written }
