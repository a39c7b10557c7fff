// Package pcapsource adapts a captured pcapng file (optionally
// gzip-compressed) to the iextp.PacketSource interface, extracting the
// generic application-layer payload from each packet. The decoder never
// interprets link-layer, IP, or UDP headers itself; that is this
// package's sole job.
package pcapsource

import (
	"errors"
	"io"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcapgo"
	"github.com/klauspost/pgzip"
)

// PcapSource reads packets from an underlying file (or any io.Reader) and
// yields each packet's application-layer payload bytes. It implements
// iextp.PacketSource.
type PcapSource struct {
	closer  io.Closer
	gzip    *pgzip.Reader
	packets <-chan gopacket.Packet
}

// Option configures a PcapSource at construction time.
type Option func(*openOptions)

type openOptions struct {
	gzipped bool
}

// Gzipped tells Open to transparently decompress the input with
// klauspost/pgzip before handing it to the pcap reader, for .pcap.gz
// captures.
func Gzipped() Option {
	return func(o *openOptions) { o.gzipped = true }
}

// Open constructs a PcapSource over r, which must contain a pcapng
// capture (optionally gzip-compressed, see Gzipped); classic libpcap
// format is not read and makes Open fail. If closer is
// non-nil it is closed by PcapSource.Close alongside any gzip reader this
// function opens.
func Open(r io.Reader, closer io.Closer, opts ...Option) (*PcapSource, error) {
	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}

	src := &PcapSource{closer: closer}

	reader := r
	if o.gzipped {
		gz, err := pgzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		src.gzip = gz
		reader = gz
	}

	handle, err := pcapgo.NewNgReader(reader, pcapgo.DefaultNgReaderOptions)
	if err != nil {
		if src.gzip != nil {
			src.gzip.Close()
		}
		return nil, err
	}

	packetSource := gopacket.NewPacketSource(handle, handle.LinkType())
	packetSource.DecodeOptions.Lazy = true
	packetSource.DecodeOptions.NoCopy = true
	src.packets = packetSource.Packets()

	return src, nil
}

// ErrNoApplicationLayer is returned when a packet carries no generic
// payload layer for IEX message data to be extracted from.
var ErrNoApplicationLayer = errors.New("pcapsource: packet has no application layer")

// NextPayload implements iextp.PacketSource.
func (s *PcapSource) NextPayload() ([]byte, error) {
	packet, ok := <-s.packets
	if !ok {
		return nil, io.EOF
	}
	app := packet.ApplicationLayer()
	if app == nil {
		return nil, ErrNoApplicationLayer
	}
	// The decoder copies out anything it needs before returning owned
	// messages, so it is safe to hand back a NoCopy-backed slice here.
	return app.LayerContents(), nil
}

// Close releases the underlying gzip reader and file handle, if any.
func (s *PcapSource) Close() error {
	var err error
	if s.gzip != nil {
		err = s.gzip.Close()
	}
	if s.closer != nil {
		if cerr := s.closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
