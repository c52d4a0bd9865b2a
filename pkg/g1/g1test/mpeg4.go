package g1test

import "github.com/pion/hantro/pkg/g1"

// MP4Decoder implements g1.MP4Decoder.
type MP4Decoder struct {
	releaseCount
	hw     *Hardware
	opened bool

	Config g1.MP4Config
	Info   g1.MP4Info
	// Steps script Decode. Once exhausted Decode consumes everything and
	// returns MP4StrmProcessed.
	Steps  []Step[g1.MP4Ret]
	ErrMBs int

	Inputs  []g1.MP4Input
	pending int
	popped  int
	script  script[g1.MP4Ret]
}

func (d *MP4Decoder) Decode(in *g1.MP4Input, out *g1.MP4Output) g1.MP4Ret {
	d.Inputs = append(d.Inputs, *in)
	if d.script.calls == 0 {
		d.script.steps = d.Steps
	}

	step := d.script.next(Step[g1.MP4Ret]{Ret: g1.MP4StrmProcessed})
	left := min(step.Left, len(in.Stream))
	out.DataLeft = left
	out.StrmCurrBusAddress = in.BusAddress + uint32(len(in.Stream)-left)
	d.pending += step.Pictures
	return step.Ret
}

func (d *MP4Decoder) GetInfo(info *g1.MP4Info) g1.MP4Ret {
	*info = d.Info
	return g1.MP4OK
}

func (d *MP4Decoder) NextPicture(pic *g1.MP4Picture, flush bool) g1.MP4Ret {
	if d.pending == 0 {
		return g1.MP4OK
	}
	d.pending--
	d.popped++
	d.hw.render(d, byte(d.popped))

	*pic = g1.MP4Picture{
		FrameWidth:  d.Info.FrameWidth,
		FrameHeight: d.Info.FrameHeight,
		PicID:       uint32(d.popped),
		NbrOfErrMBs: d.ErrMBs,
	}
	return g1.MP4PicRdy
}

// Calls returns the number of Decode calls.
func (d *MP4Decoder) Calls() int {
	return d.script.calls
}
