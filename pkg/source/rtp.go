package source

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/pion/hantro/pkg/decoder"
	"github.com/pion/rtp"
	"github.com/pion/rtp/codecs"
)

const (
	rtpClockRate  = 90000
	maxPacketSize = 1 << 16
)

// ErrUnsupportedPayload is returned by NewRTP for a codec it can't depacketize.
var ErrUnsupportedPayload = errors.New("unsupported rtp payload")

// PacketReader is the subset of net.PacketConn RTP needs.
type PacketReader interface {
	ReadFrom(p []byte) (n int, addr net.Addr, err error)
}

type depacketizer interface {
	Unmarshal(payload []byte) ([]byte, error)
}

// RTP reassembles access units from an RTP stream. Payloads sharing a
// timestamp are concatenated and the access unit is complete at the packet
// carrying the marker bit. A sequence gap drops the access unit in
// progress.
type RTP struct {
	conn  PacketReader
	depkt depacketizer
	buf   []byte

	au        []byte
	timestamp uint32
	seq       uint16
	broken    bool
	started   bool
	first     uint32

	lost int
}

// NewRTP returns a reader depacketizing codec ("h264" or "vp8") payloads
// read from conn.
func NewRTP(conn PacketReader, codec string) (*RTP, error) {
	var d depacketizer
	switch codec {
	case "h264":
		d = &codecs.H264Packet{}
	case "vp8":
		d = &codecs.VP8Packet{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPayload, codec)
	}

	return &RTP{
		conn:  conn,
		depkt: d,
		buf:   make([]byte, maxPacketSize),
	}, nil
}

// Lost returns the number of access units dropped because of missing
// packets.
func (r *RTP) Lost() int {
	return r.lost
}

func (r *RTP) Read() (decoder.AccessUnit, error) {
	for {
		n, _, err := r.conn.ReadFrom(r.buf)
		if err != nil {
			return decoder.AccessUnit{}, err
		}

		var pkt rtp.Packet
		if err := pkt.Unmarshal(r.buf[:n]); err != nil {
			logger.Warnf("rtp: %v", err)
			continue
		}

		gap := r.started && pkt.SequenceNumber != r.seq+1
		switch {
		case !r.started:
			r.started = true
			r.first = pkt.Timestamp
			r.reset(pkt.Timestamp)
		case pkt.Timestamp != r.timestamp:
			if len(r.au) > 0 {
				logger.Warnf("rtp: access unit %d ended without marker, dropping %d bytes", r.timestamp, len(r.au))
				r.lost++
			}
			r.reset(pkt.Timestamp)
		}
		r.seq = pkt.SequenceNumber

		if gap && !r.broken {
			logger.Warnf("rtp: sequence gap before %d, dropping access unit %d", pkt.SequenceNumber, r.timestamp)
			r.broken = true
			r.au = r.au[:0]
			r.lost++
		}

		if r.broken {
			continue
		}

		payload := make([]byte, len(pkt.Payload))
		copy(payload, pkt.Payload)

		data, err := r.depkt.Unmarshal(payload)
		if err != nil {
			logger.Warnf("rtp: depacketize: %v", err)
			continue
		}
		r.au = append(r.au, data...)

		if !pkt.Marker || len(r.au) == 0 {
			continue
		}

		au := decoder.AccessUnit{
			Data: r.au,
			PTS:  time.Duration(pkt.Timestamp-r.first) * time.Second / rtpClockRate,
		}
		r.au = nil
		// Ignore stray packets until the timestamp changes.
		r.broken = true
		return au, nil
	}
}

func (r *RTP) reset(ts uint32) {
	r.timestamp = ts
	r.au = r.au[:0]
	r.broken = false
}
