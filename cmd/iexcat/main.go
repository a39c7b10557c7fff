// iexcat decodes one or more IEX-TP pcap captures and fans the decoded
// messages out to a chosen sink (CSV, a tstorage time-series store, an
// Arrow IPC file, or newline-delimited JSON on stdout). It is a thin
// consumer of the iextp decoder.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/nakabonne/tstorage"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"github.com/rosskidson/iex-pcap/internal/config"
	"github.com/rosskidson/iex-pcap/internal/iextp"
	"github.com/rosskidson/iex-pcap/internal/logging"
	"github.com/rosskidson/iex-pcap/internal/pcapsource"
	"github.com/rosskidson/iex-pcap/internal/sink"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("iexcat", flag.ContinueOnError)
	sinkKind := fs.String("sink", "json", "output sink: csv, tstorage, arrow, or json")
	symbols := fs.String("symbols", "", "comma-separated symbol filter (csv sink only, empty = all)")
	outPath := fs.String("out", cfg.OutputPath, "output path for the csv/arrow sinks")
	dbPath := fs.String("db", "", "tstorage data path (tstorage sink only)")
	gzipped := fs.Bool("gzip", false, "input files are gzip-compressed")
	logLevel := fs.String("log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	workers := fs.Int("workers", cfg.Workers, "number of pcap files to decode concurrently")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log := logging.New(*logLevel)

	paths := fs.Args()
	if len(paths) == 0 {
		return errors.New("iexcat: at least one input pcap path is required")
	}

	out, closeOut, err := openSink(*sinkKind, *outPath, *dbPath, splitSymbols(*symbols))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); cerr != nil {
			log.WithError(cerr).Error("closing sink")
		}
	}()

	return ingestAll(log, paths, *gzipped, out, *workers)
}

// ingestAll fans decoding of the given pcap files across a bounded pool of
// workers, then serializes writes to out through a single dedicated
// goroutine: each worker pulls paths off a shared channel and pushes
// decoded messages onto a shared channel, and one writer goroutine drains
// that channel into the sink, so the sink itself never needs to be safe
// for concurrent use. The pool is sized by the configured worker count
// rather than the CPU count, since pcap decoding is I/O- as well as
// CPU-bound. Each worker reuses a single *iextp.Decoder across the files
// it is assigned, via Decoder.Reopen, instead of allocating a fresh one
// per file.
func ingestAll(log *logrus.Logger, paths []string, gzipped bool, out messageWriter, workers int) error {
	if workers < 1 {
		workers = 1
	}

	pathCh := make(chan string)
	msgCh := make(chan iextp.Message, 1024)
	errCh := make(chan error, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var dec *iextp.Decoder
			for path := range pathCh {
				var err error
				dec, err = ingestPath(log, dec, path, gzipped, msgCh)
				if err != nil {
					errCh <- fmt.Errorf("iexcat: %s: %w", path, err)
				}
			}
			if dec != nil {
				if err := dec.Close(); err != nil {
					errCh <- fmt.Errorf("iexcat: closing decoder: %w", err)
				}
			}
		}()
	}

	writeErr := make(chan error, 1)
	go func() {
		for msg := range msgCh {
			if err := out.Write(msg); err != nil {
				writeErr <- err
				for range msgCh {
					// drain so blocked workers can finish and exit
				}
				return
			}
		}
		writeErr <- nil
	}()

	for _, path := range paths {
		pathCh <- path
	}
	close(pathCh)
	wg.Wait()
	close(msgCh)

	if err := <-writeErr; err != nil {
		return err
	}
	close(errCh)
	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

// messageWriter is the interface every sink implementation in this command
// satisfies.
type messageWriter interface {
	Write(msg iextp.Message) error
}

type jsonWriter struct{ enc *json.Encoder }

func (w jsonWriter) Write(msg iextp.Message) error { return w.enc.Encode(msg) }

func splitSymbols(csv string) []string {
	if csv == "" {
		return nil
	}
	return strings.Split(csv, ",")
}

func openSink(kind, outPath, dbPath string, symbols []string) (messageWriter, func() error, error) {
	switch kind {
	case "csv":
		f, err := os.Create(outPath)
		if err != nil {
			return nil, nil, err
		}
		cs, err := sink.NewCSVSink(f, symbols...)
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		return cs, func() error {
			if err := cs.Flush(); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		}, nil
	case "tstorage":
		if dbPath == "" {
			return nil, nil, errors.New("iexcat: -db is required for the tstorage sink")
		}
		db, err := tstorage.NewStorage(
			tstorage.WithDataPath(dbPath),
			tstorage.WithTimestampPrecision(tstorage.Nanoseconds),
		)
		if err != nil {
			return nil, nil, err
		}
		ts := sink.NewTimeSeriesSink(db, 1<<16)
		return ts, func() error {
			if err := ts.Flush(); err != nil {
				db.Close()
				return err
			}
			return db.Close()
		}, nil
	case "arrow":
		f, err := os.Create(outPath)
		if err != nil {
			return nil, nil, err
		}
		as, err := sink.NewArrowSink(f, 1<<16)
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		return as, func() error {
			if err := as.Flush(); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		}, nil
	case "json":
		enc := json.NewEncoder(os.Stdout)
		return jsonWriter{enc: enc}, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("iexcat: unknown sink %q", kind)
	}
}

// ingestPath decodes a single pcap file end to end and pushes each decoded
// message onto msgs, returning the *iextp.Decoder to reuse for the next
// file. If dec is nil, a fresh decoder is opened; otherwise dec.Reopen
// swaps in the new file's packet source and closes the previous one.
// ingestAll's workers call ingestPath concurrently, once per file; a
// single file's messages are always decoded by one goroutine, and the
// returned decoder is only ever handed back to that same goroutine, since
// iextp.Decoder is not itself safe for concurrent use.
func ingestPath(log *logrus.Logger, dec *iextp.Decoder, path string, gzipped bool, msgs chan<- iextp.Message) (*iextp.Decoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return dec, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return dec, err
	}
	bar := progressbar.DefaultBytes(stat.Size(), fmt.Sprintf("decoding %s", path))
	defer bar.Close()

	src, err := pcapsource.Open(io.TeeReader(f, bar), f, optIf(gzipped)...)
	if err != nil {
		return dec, err
	}

	if dec == nil {
		dec, err = iextp.Open(src)
	} else {
		err = dec.Reopen(src)
	}
	if err != nil {
		// Neither Open nor Reopen retain src on failure, so it is still
		// this function's to close.
		src.Close()
		if errors.Is(err, io.EOF) {
			return dec, nil
		}
		return dec, err
	}

	for {
		msg, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return dec, nil
		}
		if err != nil {
			// Decode errors for a single block do not abort the file; the
			// decoder has already advanced past the offending block.
			log.WithError(err).WithField("path", path).Debug("skipping unreadable block")
			continue
		}
		msgs <- msg
	}
}

func optIf(gzipped bool) []pcapsource.Option {
	if gzipped {
		return []pcapsource.Option{pcapsource.Gzipped()}
	}
	return nil
}
