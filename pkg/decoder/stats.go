package decoder

import "time"

// Stats counts the work of a session since it was opened.
type Stats struct {
	AccessUnits  int
	Pictures     int
	Dropped      int
	StreamErrors int
	// DecodeTime is the time spent in HandleInput.
	DecodeTime time.Duration
	// Bitrate is the input bitrate in bits per second over the last
	// bitrateWindow of presentation time.
	Bitrate float64
}

const bitrateWindow = time.Second

// bitrateMaxEntries bounds the window for streams with very dense
// timestamps.
const bitrateMaxEntries = 1024

type bitrateTracker struct {
	windowSize time.Duration
	sizes      []int
	pts        []time.Duration
}

func newBitrateTracker(windowSize time.Duration) *bitrateTracker {
	return &bitrateTracker{
		windowSize: windowSize,
	}
}

func (bt *bitrateTracker) add(sizeBytes int, pts time.Duration) {
	if n := len(bt.pts); n > 0 {
		switch last := bt.pts[n-1]; {
		case pts == last:
			// No timestamps, or several access units of one picture.
			bt.sizes[n-1] += sizeBytes
			return
		case pts < last:
			// The clock jumped back, start over.
			bt.sizes = bt.sizes[:0]
			bt.pts = bt.pts[:0]
		}
	}

	bt.sizes = append(bt.sizes, sizeBytes)
	bt.pts = append(bt.pts, pts)

	// Drop entries outside the window
	cutoff := pts - bt.windowSize
	i := 0
	for ; i < len(bt.pts); i++ {
		if bt.pts[i] > cutoff {
			break
		}
	}
	if n := len(bt.pts) - bitrateMaxEntries; n > i {
		i = n
	}
	bt.sizes = bt.sizes[i:]
	bt.pts = bt.pts[i:]
}

func (bt *bitrateTracker) bitrate() float64 {
	if len(bt.pts) < 2 {
		return 0
	}
	total := 0
	for _, b := range bt.sizes {
		total += b
	}
	duration := (bt.pts[len(bt.pts)-1] - bt.pts[0]).Seconds()
	if duration <= 0 {
		return 0
	}
	return float64(total*8) / duration
}
