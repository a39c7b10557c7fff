package sink

import (
	"github.com/nakabonne/tstorage"

	"github.com/rosskidson/iex-pcap/internal/iextp"
)

// rowInserter is the slice of tstorage.Storage this sink actually needs.
// Any tstorage.Storage value satisfies it structurally; naming it narrowly
// keeps the sink testable without a real time-series store on disk.
type rowInserter interface {
	InsertRows(rows []tstorage.Row) error
}

// TimeSeriesSink batches decoded messages into tstorage.Row records and
// inserts them into a nakabonne/tstorage time-series store: quotes
// contribute a bid and an ask point, trades and price-level updates
// contribute one point each, all under the "price" metric distinguished by
// symbol/side/type labels.
type TimeSeriesSink struct {
	db        rowInserter
	batch     []tstorage.Row
	batchSize int
}

// NewTimeSeriesSink wraps an already-opened tstorage.Storage. batchSize
// controls how many rows accumulate before Write triggers an insert;
// callers should also call Flush after the last Write.
func NewTimeSeriesSink(db rowInserter, batchSize int) *TimeSeriesSink {
	if batchSize <= 0 {
		batchSize = 1 << 12
	}
	return &TimeSeriesSink{db: db, batch: make([]tstorage.Row, 0, batchSize), batchSize: batchSize}
}

func row(symbol, side, msgType string, value float64, ts int64) tstorage.Row {
	return tstorage.Row{
		Metric: "price",
		Labels: []tstorage.Label{
			{Name: "symbol", Value: symbol},
			{Name: "side", Value: side},
			{Name: "type", Value: msgType},
		},
		DataPoint: tstorage.DataPoint{Value: value, Timestamp: ts},
	}
}

// Write converts msg to zero or more rows and appends them to the current
// batch, flushing to the store once the batch reaches its configured size.
func (s *TimeSeriesSink) Write(msg iextp.Message) error {
	ts := int64(msg.Timestamp())
	switch m := msg.(type) {
	case *iextp.QuoteUpdate:
		s.batch = append(s.batch,
			row(m.Symbol, "bid", "Q", m.BidPrice.Float64(), ts),
			row(m.Symbol, "ask", "Q", m.AskPrice.Float64(), ts),
		)
	case *iextp.TradeReport:
		s.batch = append(s.batch, row(m.Symbol, "trade", "T", m.Price.Float64(), ts))
	case *iextp.PriceLevelUpdateBuy:
		s.batch = append(s.batch, row(m.Symbol, "bid", "8", m.Price.Float64(), ts))
	case *iextp.PriceLevelUpdateSell:
		s.batch = append(s.batch, row(m.Symbol, "ask", "5", m.Price.Float64(), ts))
	default:
		return nil
	}

	if len(s.batch) >= s.batchSize {
		return s.Flush()
	}
	return nil
}

// Flush inserts any buffered rows into the store.
func (s *TimeSeriesSink) Flush() error {
	if len(s.batch) == 0 {
		return nil
	}
	if err := s.db.InsertRows(s.batch); err != nil {
		return err
	}
	s.batch = s.batch[:0]
	return nil
}
