package source

import (
	"bufio"
	"io"
	"time"

	"github.com/pion/hantro/pkg/decoder"
)

const maxUnitSize = 8 << 20

// syntax describes how an elementary stream is cut into units and how the
// units group into access units.
type syntax interface {
	// index returns the offset of the first start code in data at or after
	// from, or -1.
	index(data []byte, from int) int
	// picture reports whether the unit carries coded picture data.
	picture(unit []byte) bool
	// boundary reports whether the unit opens a new access unit once the
	// current one holds a picture.
	boundary(unit []byte) bool
}

// Elementary reads a start code delimited video elementary stream.
type Elementary struct {
	// FrameDuration spaces the timestamps of consecutive access units.
	FrameDuration time.Duration

	syntax  syntax
	scanner *bufio.Scanner
	pending []byte
	count   int
}

// NewMPEG4 returns a reader over an MPEG-4 Part 2 elementary stream. Headers
// preceding a VOP are delivered with it.
func NewMPEG4(r io.Reader) *Elementary {
	return newElementary(r, mpeg4Syntax{})
}

// NewH263 returns a reader over an H.263 baseline stream, one picture per
// access unit.
func NewH263(r io.Reader) *Elementary {
	return newElementary(r, h263Syntax{})
}

func newElementary(r io.Reader, s syntax) *Elementary {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxUnitSize)
	scanner.Split(splitUnits(s))
	return &Elementary{syntax: s, scanner: scanner}
}

// SetFrameDuration implements FrameDurationSetter.
func (e *Elementary) SetFrameDuration(d time.Duration) {
	e.FrameDuration = d
}

func (e *Elementary) Read() (decoder.AccessUnit, error) {
	var (
		data    []byte
		picture bool
	)
	if e.pending != nil {
		data = e.pending
		picture = e.syntax.picture(data)
		e.pending = nil
	}

	for e.scanner.Scan() {
		unit := e.scanner.Bytes()
		if picture && e.syntax.boundary(unit) {
			e.pending = append([]byte(nil), unit...)
			break
		}
		data = append(data, unit...)
		if e.syntax.picture(unit) {
			picture = true
		}
	}
	if err := e.scanner.Err(); err != nil {
		return decoder.AccessUnit{}, err
	}

	if len(data) == 0 {
		return decoder.AccessUnit{}, io.EOF
	}

	au := decoder.AccessUnit{
		Data: data,
		PTS:  time.Duration(e.count) * e.FrameDuration,
	}
	e.count++
	return au, nil
}

// splitUnits returns a bufio.SplitFunc yielding one start code prefixed unit
// per token. Bytes before the first start code are discarded.
func splitUnits(s syntax) bufio.SplitFunc {
	return func(data []byte, atEOF bool) (int, []byte, error) {
		if atEOF && len(data) == 0 {
			return 0, nil, nil
		}

		start := s.index(data, 0)
		switch {
		case start < 0 && atEOF:
			logger.Warnf("dropping %d bytes without start code", len(data))
			return len(data), nil, nil
		case start < 0:
			return 0, nil, nil
		case start > 0:
			return start, nil, nil
		}

		if next := s.index(data, 3); next > 0 {
			return next, data[:next], nil
		}
		if atEOF {
			return len(data), data, nil
		}
		return 0, nil, nil
	}
}

// indexStartCode finds a 00 00 01 prefix.
func indexStartCode(data []byte, from int) int {
	for i := from; i+2 < len(data); i++ {
		if data[i] == 0 && data[i+1] == 0 && data[i+2] == 1 {
			return i
		}
	}
	return -1
}

type mpeg4Syntax struct{}

const (
	mpeg4VOSEnd   = 0xB1
	mpeg4UserData = 0xB2
	mpeg4VOP      = 0xB6
)

func (mpeg4Syntax) index(data []byte, from int) int {
	return indexStartCode(data, from)
}

func (mpeg4Syntax) picture(unit []byte) bool {
	return len(unit) > 3 && unit[3] == mpeg4VOP
}

func (mpeg4Syntax) boundary(unit []byte) bool {
	if len(unit) < 4 {
		return false
	}
	code := unit[3]
	return code != mpeg4VOSEnd && code != mpeg4UserData
}

type h263Syntax struct{}

// index finds a picture start code: 22 bits 0000 0000 0000 0000 1000 00.
func (h263Syntax) index(data []byte, from int) int {
	for i := from; i+2 < len(data); i++ {
		if data[i] == 0 && data[i+1] == 0 && data[i+2]&0xFC == 0x80 {
			return i
		}
	}
	return -1
}

func (h263Syntax) picture([]byte) bool {
	return true
}

func (h263Syntax) boundary([]byte) bool {
	return true
}
