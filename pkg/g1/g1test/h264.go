package g1test

import "github.com/pion/hantro/pkg/g1"

// H264Decoder implements g1.H264Decoder.
type H264Decoder struct {
	releaseCount
	hw     *Hardware
	opened bool

	Config g1.H264Config
	Info   g1.H264Info
	// Steps script Decode. Once exhausted Decode consumes everything and
	// returns H264StrmProcessed.
	Steps []Step[g1.H264Ret]
	// ErrMBs is reported for every popped picture.
	ErrMBs int

	Inputs  []g1.H264Input
	pending int
	popped  int
	script  script[g1.H264Ret]
}

func (d *H264Decoder) Decode(in *g1.H264Input, out *g1.H264Output) g1.H264Ret {
	d.Inputs = append(d.Inputs, *in)
	if d.script.calls == 0 {
		d.script.steps = d.Steps
	}

	step := d.script.next(Step[g1.H264Ret]{Ret: g1.H264StrmProcessed})
	left := min(step.Left, len(in.Stream))
	out.DataLeft = left
	out.StrmCurrBusAddress = in.BusAddress + uint32(len(in.Stream)-left)
	d.pending += step.Pictures
	return step.Ret
}

func (d *H264Decoder) GetInfo(info *g1.H264Info) g1.H264Ret {
	*info = d.Info
	return g1.H264OK
}

func (d *H264Decoder) NextPicture(pic *g1.H264Picture, flush bool) g1.H264Ret {
	if d.pending == 0 {
		return g1.H264OK
	}
	d.pending--
	d.popped++
	d.hw.render(d, byte(d.popped))

	*pic = g1.H264Picture{
		PicWidth:    d.Info.PicWidth,
		PicHeight:   d.Info.PicHeight,
		PicID:       uint32(d.popped),
		NbrOfErrMBs: d.ErrMBs,
	}
	return g1.H264PicRdy
}

// Calls returns the number of Decode calls.
func (d *H264Decoder) Calls() int {
	return d.script.calls
}
