package main

import (
	"strings"
	"testing"

	"github.com/rosskidson/iex-pcap/internal/iextp"
)

func TestSplitSymbols(t *testing.T) {
	if got := splitSymbols(""); got != nil {
		t.Fatalf("splitSymbols(\"\") = %v, want nil", got)
	}
	got := splitSymbols("AMD,AAPL,MSFT")
	want := []string{"AMD", "AAPL", "MSFT"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("splitSymbols = %v, want %v", got, want)
	}
}

type countingWriter struct{ n int }

func (w *countingWriter) Write(iextp.Message) error { w.n++; return nil }

func TestIngestAllReportsPerFileErrors(t *testing.T) {
	out := &countingWriter{}
	err := ingestAll(nil, []string{"/nonexistent/one.pcap", "/nonexistent/two.pcap"}, false, out, 2)
	if err == nil {
		t.Fatalf("expected an error for nonexistent input files")
	}
	if out.n != 0 {
		t.Fatalf("expected no messages written, got %d", out.n)
	}
}

func TestIngestAllDefaultsWorkerCountToOne(t *testing.T) {
	out := &countingWriter{}
	// A worker count below 1 must not deadlock or panic; it should still
	// process (and fail on) every path with at least one worker.
	err := ingestAll(nil, []string{"/nonexistent/one.pcap"}, false, out, 0)
	if err == nil {
		t.Fatalf("expected an error for a nonexistent input file")
	}
}
