package decoder

import (
	"math"
	"testing"
	"time"
)

func TestBitrateTracker(t *testing.T) {
	packetSize := 1000
	bt := newBitrateTracker(time.Second)
	bt.add(packetSize, 0)
	bt.add(packetSize, 100*time.Millisecond)
	bt.add(packetSize, 999*time.Millisecond)
	eps := float64(packetSize*8) / 10
	if got, want := bt.bitrate(), float64(packetSize*8)*3; math.Abs(got-want) > eps {
		t.Fatalf("bitrate() = %v, want %v (|diff| <= %v)", got, want, eps)
	}

	bt.add(packetSize, 2*time.Second)
	if got := bt.bitrate(); got != 0 {
		t.Fatalf("expected a single entry in the window, got bitrate %v", got)
	}
}

func TestBitrateTrackerBounded(t *testing.T) {
	testCases := map[string]struct {
		pts       func(i int) time.Duration
		maxLen    int
		wantTotal int
	}{
		"ConstantPTS": {
			pts:       func(int) time.Duration { return 0 },
			maxLen:    1,
			wantTotal: 5000 * 10,
		},
		"BackwardsPTS": {
			pts:       func(i int) time.Duration { return time.Duration(5000-i) * time.Millisecond },
			maxLen:    1,
			wantTotal: 10,
		},
		"DensePTS": {
			pts:    func(i int) time.Duration { return time.Duration(i) * time.Microsecond },
			maxLen: bitrateMaxEntries,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			bt := newBitrateTracker(bitrateWindow)
			for i := 0; i < 5000; i++ {
				bt.add(10, testCase.pts(i))
			}
			if len(bt.pts) > testCase.maxLen || len(bt.sizes) != len(bt.pts) {
				t.Fatalf("window holds %d timestamps and %d sizes, want at most %d", len(bt.pts), len(bt.sizes), testCase.maxLen)
			}
			if testCase.wantTotal == 0 {
				return
			}
			total := 0
			for _, b := range bt.sizes {
				total += b
			}
			if total != testCase.wantTotal {
				t.Errorf("window holds %d bytes, want %d", total, testCase.wantTotal)
			}
		})
	}
}
