// Package g1test provides a scripted model of the G1 hardware.
//
// Codec instances replay a list of Steps, one per Decode call, so tests
// can drive every branch of a decode loop. The post-processor records every
// configuration it is given and, when pipelined, fills the configured output
// buffer whenever a picture is popped.
package g1test

import (
	"sync"

	"github.com/pion/hantro/pkg/frame"
	"github.com/pion/hantro/pkg/g1"
	"github.com/pion/hantro/pkg/memalloc"
)

// RegionBase is the bus address of the simulated contiguous memory.
const RegionBase = 0x30000000

// Step scripts one Decode call.
type Step[R ~int] struct {
	// Ret is returned by Decode.
	Ret R
	// Left is the number of input bytes left unconsumed.
	Left int
	// Pictures become available to NextPicture after the call.
	Pictures int
}

type script[R ~int] struct {
	steps []Step[R]
	calls int
}

// next returns the next scripted step, or def once the script is exhausted.
func (s *script[R]) next(def Step[R]) Step[R] {
	s.calls++
	if len(s.steps) == 0 {
		return def
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	return step
}

// Hardware implements g1.Hardware. Codec fields preset by a test are handed
// out by the next matching New call; otherwise a default instance is built.
type Hardware struct {
	mu sync.Mutex

	Region *memalloc.Region

	PP   *PostProcessor
	H264 *H264Decoder
	MP4  *MP4Decoder
	JPEG *JPEGDecoder
	VP8  *VP8Decoder

	// NewPPErr and NewCodecErr make the matching New calls fail.
	NewPPErr    error
	NewCodecErr error

	PostProcessors []*PostProcessor
	Codecs         []g1.Codec
}

// New returns a Hardware with size bytes of contiguous memory.
func New(size int) *Hardware {
	return &Hardware{
		Region: memalloc.NewRegion(RegionBase, make([]byte, size), memalloc.DefaultAlignment),
	}
}

func (h *Hardware) NewLinearAllocator() (*memalloc.LinearAllocator, error) {
	return memalloc.NewLinearAllocator("g1test", h.Region), nil
}

func (h *Hardware) NewPostProcessor() (g1.PostProcessor, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.NewPPErr != nil {
		return nil, h.NewPPErr
	}
	pp := h.PP
	if pp == nil || pp.opened {
		pp = &PostProcessor{}
		h.PP = pp
	}
	pp.hw = h
	pp.opened = true
	h.PostProcessors = append(h.PostProcessors, pp)
	return pp, nil
}

func (h *Hardware) NewH264Decoder(cfg g1.H264Config) (g1.H264Decoder, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.NewCodecErr != nil {
		return nil, h.NewCodecErr
	}
	d := h.H264
	if d == nil || d.opened {
		d = &H264Decoder{}
		h.H264 = d
	}
	d.hw = h
	d.opened = true
	d.Config = cfg
	h.Codecs = append(h.Codecs, d)
	return d, nil
}

func (h *Hardware) NewMP4Decoder(cfg g1.MP4Config) (g1.MP4Decoder, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.NewCodecErr != nil {
		return nil, h.NewCodecErr
	}
	d := h.MP4
	if d == nil || d.opened {
		d = &MP4Decoder{}
		h.MP4 = d
	}
	d.hw = h
	d.opened = true
	d.Config = cfg
	h.Codecs = append(h.Codecs, d)
	return d, nil
}

func (h *Hardware) NewJPEGDecoder() (g1.JPEGDecoder, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.NewCodecErr != nil {
		return nil, h.NewCodecErr
	}
	d := h.JPEG
	if d == nil || d.opened {
		d = &JPEGDecoder{}
		h.JPEG = d
	}
	d.hw = h
	d.opened = true
	h.Codecs = append(h.Codecs, d)
	return d, nil
}

func (h *Hardware) NewVP8Decoder(cfg g1.VP8Config) (g1.VP8Decoder, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.NewCodecErr != nil {
		return nil, h.NewCodecErr
	}
	d := h.VP8
	if d == nil || d.opened {
		d = &VP8Decoder{}
		h.VP8 = d
	}
	d.hw = h
	d.opened = true
	d.Config = cfg
	h.Codecs = append(h.Codecs, d)
	return d, nil
}

// OpenInstances counts post-processors and codecs not yet released.
func (h *Hardware) OpenInstances() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	var n int
	for _, pp := range h.PostProcessors {
		if pp.Released == 0 {
			n++
		}
	}
	for _, c := range h.Codecs {
		if r, ok := c.(interface{ released() bool }); ok && !r.released() {
			n++
		}
	}
	return n
}

// render fills the output buffer of the pipelined post-processor with
// value, standing in for the picture the hardware would write.
func (h *Hardware) render(c g1.Codec, value byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, pp := range h.PostProcessors {
		if pp.Released != 0 || pp.Combined != c {
			continue
		}
		out := pp.Config.OutImg
		f, err := g1.FrameFormatOf(out.PixFormat)
		if err != nil {
			return
		}
		size, err := frame.Size(f, out.Width, out.Height)
		if err != nil || size == 0 {
			return
		}
		buf := h.Region.Slice(out.BufferBusAddr, int(size))
		for i := range buf {
			buf[i] = value
		}
		pp.Rendered++
	}
}

// releaseCount tracks Release calls of a codec instance.
type releaseCount struct {
	Releases int
}

func (r *releaseCount) Release() {
	r.Releases++
}

func (r *releaseCount) released() bool {
	return r.Releases > 0
}
