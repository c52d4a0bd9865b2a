package source

import (
	"net"
	"testing"
	"time"

	"github.com/pion/rtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type packetQueue struct {
	packets [][]byte
}

func (q *packetQueue) ReadFrom(p []byte) (int, net.Addr, error) {
	if len(q.packets) == 0 {
		return 0, nil, net.ErrClosed
	}
	n := copy(p, q.packets[0])
	q.packets = q.packets[1:]
	return n, nil, nil
}

func (q *packetQueue) push(t *testing.T, seq uint16, ts uint32, marker bool, payload []byte) {
	t.Helper()

	pkt := rtp.Packet{
		Header: rtp.Header{
			Version:        2,
			PayloadType:    96,
			SequenceNumber: seq,
			Timestamp:      ts,
			Marker:         marker,
			SSRC:           0x1234,
		},
		Payload: payload,
	}
	raw, err := pkt.Marshal()
	require.NoError(t, err)
	q.packets = append(q.packets, raw)
}

func TestRTPH264(t *testing.T) {
	idr := []byte{0x65, 0x88, 0x84, 0x21}
	p0 := []byte{0x41, 0x9a, 0x02, 0x17}
	p1 := []byte{0x41, 0x9a, 0x03, 0x18}
	p2 := []byte{0x41, 0x9a, 0x04, 0x19}

	q := &packetQueue{}
	q.push(t, 10, 1000, false, testSPS)
	q.push(t, 11, 1000, false, testPPS)
	q.push(t, 12, 1000, true, idr)
	q.push(t, 13, 4000, true, p0)
	// 15 is missing: the access unit at 7000 is dropped.
	q.push(t, 14, 7000, false, p1)
	q.push(t, 16, 7000, true, p1)
	q.push(t, 17, 10000, true, p2)

	r, err := NewRTP(q, "h264")
	require.NoError(t, err)

	want := []struct {
		data []byte
		pts  time.Duration
	}{
		{annexB(testSPS, testPPS, idr), 0},
		{annexB(p0), 3000 * time.Second / 90000},
		{annexB(p2), 9000 * time.Second / 90000},
	}
	for _, w := range want {
		au, err := r.Read()
		require.NoError(t, err)
		assert.Equal(t, w.data, au.Data)
		assert.Equal(t, w.pts, au.PTS)
	}

	_, err = r.Read()
	assert.ErrorIs(t, err, net.ErrClosed)
	assert.Equal(t, 1, r.Lost())
}

func TestRTPMissingMarker(t *testing.T) {
	q := &packetQueue{}
	q.push(t, 1, 3000, false, []byte{0x10, 0xaa, 0xbb})
	q.push(t, 2, 6000, true, []byte{0x10, 0xcc, 0xdd})

	r, err := NewRTP(q, "vp8")
	require.NoError(t, err)

	au, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []byte{0xcc, 0xdd}, au.Data)
	assert.Equal(t, 1, r.Lost())
}

func TestRTPVP8(t *testing.T) {
	q := &packetQueue{}
	q.push(t, 100, 0, false, []byte{0x10, 0x10, 0x02, 0x00})
	q.push(t, 101, 0, true, []byte{0x00, 0x9d, 0x01, 0x2a})
	// Trailing packet of an already completed frame.
	q.push(t, 102, 0, true, []byte{0x00, 0xee})
	q.push(t, 103, 3000, true, []byte{0x10, 0x31, 0x01})

	r, err := NewRTP(q, "vp8")
	require.NoError(t, err)

	au, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x10, 0x02, 0x00, 0x9d, 0x01, 0x2a}, au.Data)

	au, err = r.Read()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x31, 0x01}, au.Data)
	assert.Equal(t, 3000*time.Second/90000, au.PTS)
	assert.Equal(t, 0, r.Lost())
}

func TestRTPUnsupportedCodec(t *testing.T) {
	_, err := NewRTP(&packetQueue{}, "mpeg4")
	assert.ErrorIs(t, err, ErrUnsupportedPayload)
}
