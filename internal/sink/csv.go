// Package sink provides thin consumers of the iextp decoder: writers that
// filter decoded messages and persist them to CSV or a time-series store.
// None of this is part of the core decoder; it exists to give the CLI
// something useful to do with a decoded stream, in the spirit of the
// reference implementation's quote_csv_example.cpp.
package sink

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/rosskidson/iex-pcap/internal/iextp"
)

// CSVSink writes QuoteUpdate messages to a CSV stream, optionally
// restricted to a set of symbols, matching the column layout of the
// reference implementation's quote_csv_example.cpp:
// Timestamp,Symbol,BidSize,BidPrice,AskSize,AskPrice.
type CSVSink struct {
	w       *csv.Writer
	symbols map[string]struct{}
	written int
}

// NewCSVSink wraps w in a CSVSink and writes the header row immediately.
// If symbols is non-empty, only quotes for those symbols are written.
func NewCSVSink(w io.Writer, symbols ...string) (*CSVSink, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Timestamp", "Symbol", "BidSize", "BidPrice", "AskSize", "AskPrice"}); err != nil {
		return nil, err
	}

	var filter map[string]struct{}
	if len(symbols) > 0 {
		filter = make(map[string]struct{}, len(symbols))
		for _, s := range symbols {
			filter[s] = struct{}{}
		}
	}
	return &CSVSink{w: cw, symbols: filter}, nil
}

// Write records msg if it is a QuoteUpdate passing the symbol filter; any
// other message type is silently ignored, matching the reference tool's
// behavior of only ever caring about one message type.
func (s *CSVSink) Write(msg iextp.Message) error {
	q, ok := msg.(*iextp.QuoteUpdate)
	if !ok {
		return nil
	}
	if s.symbols != nil {
		if _, allowed := s.symbols[q.Symbol]; !allowed {
			return nil
		}
	}
	if err := s.w.Write([]string{
		fmt.Sprintf("%d", int64(q.Timestamp())),
		q.Symbol,
		fmt.Sprintf("%d", q.BidSize),
		fmt.Sprintf("%.4f", q.BidPrice.Float64()),
		fmt.Sprintf("%d", q.AskSize),
		fmt.Sprintf("%.4f", q.AskPrice.Float64()),
	}); err != nil {
		return err
	}
	s.written++
	return nil
}

// Written returns the number of rows written so far.
func (s *CSVSink) Written() int { return s.written }

// Flush flushes any buffered CSV output and returns the first write error
// encountered, if any.
func (s *CSVSink) Flush() error {
	s.w.Flush()
	return s.w.Error()
}
