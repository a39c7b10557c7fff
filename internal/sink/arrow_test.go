package sink

import (
	"bytes"
	"testing"

	"github.com/rosskidson/iex-pcap/internal/iexfixture"
)

func TestArrowSinkWritesQuoteAndTradeRows(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewArrowSink(&buf, 10)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}

	quote := decodeOne(t, iexfixture.QuoteUpdate(1517058017224122394, 0, "AMD", 100, 10000, 10100, 200))
	trade := decodeOne(t, iexfixture.TradeReport(1517058017224122394, 0, "AAPL", 10, 10000, 1))

	if err := s.Write(quote); err != nil {
		t.Fatalf("write quote: %v", err)
	}
	if err := s.Write(trade); err != nil {
		t.Fatalf("write trade: %v", err)
	}
	if err := s.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	if s.Written() != 3 {
		t.Fatalf("written = %d, want 3 (2 quote sides + 1 trade)", s.Written())
	}
	if buf.Len() == 0 {
		t.Fatalf("expected non-empty Arrow IPC output")
	}
}

func TestArrowSinkIgnoresUnmappedMessages(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewArrowSink(&buf, 10)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	sysEvent := decodeOne(t, iexfixture.SystemEvent(1517058017224122394, 'O'))
	if err := s.Write(sysEvent); err != nil {
		t.Fatalf("write: %v", err)
	}
	if s.Written() != 0 {
		t.Fatalf("written = %d, want 0", s.Written())
	}
}

func TestArrowSinkFlushesAtBatchSize(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewArrowSink(&buf, 1)
	if err != nil {
		t.Fatalf("new sink: %v", err)
	}
	trade := decodeOne(t, iexfixture.TradeReport(1517058017224122394, 0, "AAPL", 10, 10000, 1))
	if err := s.Write(trade); err != nil {
		t.Fatalf("write: %v", err)
	}
	if s.Written() != 1 {
		t.Fatalf("written = %d, want 1 (flushed immediately at batch size 1)", s.Written())
	}
}
