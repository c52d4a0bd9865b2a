package g1test

import "github.com/pion/hantro/pkg/g1"

// VP8Decoder implements g1.VP8Decoder.
type VP8Decoder struct {
	releaseCount
	hw     *Hardware
	opened bool

	Config g1.VP8Config
	Info   g1.VP8Info
	// Steps script Decode. Once exhausted Decode returns VP8PicDecoded with
	// one picture.
	Steps  []Step[g1.VP8Ret]
	ErrMBs int

	Inputs  []g1.VP8Input
	pending int
	popped  int
	script  script[g1.VP8Ret]
}

func (d *VP8Decoder) Decode(in *g1.VP8Input, out *g1.VP8Output) g1.VP8Ret {
	d.Inputs = append(d.Inputs, *in)
	if d.script.calls == 0 {
		d.script.steps = d.Steps
	}

	step := d.script.next(Step[g1.VP8Ret]{Ret: g1.VP8PicDecoded, Pictures: 1})
	out.DataLeft = min(step.Left, len(in.Stream))
	d.pending += step.Pictures
	return step.Ret
}

func (d *VP8Decoder) GetInfo(info *g1.VP8Info) g1.VP8Ret {
	*info = d.Info
	return g1.VP8OK
}

func (d *VP8Decoder) NextPicture(pic *g1.VP8Picture, flush bool) g1.VP8Ret {
	if d.pending == 0 {
		return g1.VP8OK
	}
	d.pending--
	d.popped++
	d.hw.render(d, byte(d.popped))

	*pic = g1.VP8Picture{
		FrameWidth:  d.Info.FrameWidth,
		FrameHeight: d.Info.FrameHeight,
		PicID:       uint32(d.popped),
		NbrOfErrMBs: d.ErrMBs,
	}
	return g1.VP8PicRdy
}

// Calls returns the number of Decode calls.
func (d *VP8Decoder) Calls() int {
	return d.script.calls
}
