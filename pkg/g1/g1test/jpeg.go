package g1test

import "github.com/pion/hantro/pkg/g1"

// JPEGDecoder implements g1.JPEGDecoder.
type JPEGDecoder struct {
	releaseCount
	hw     *Hardware
	opened bool

	Info    g1.JPEGImageInfo
	InfoRet g1.JPEGRet
	// Steps script Decode. Once exhausted Decode returns JPEGFrameReady.
	Steps []Step[g1.JPEGRet]

	Inputs []g1.JPEGInput
	frames int
	script script[g1.JPEGRet]
}

func (d *JPEGDecoder) GetImageInfo(in *g1.JPEGInput, info *g1.JPEGImageInfo) g1.JPEGRet {
	*info = d.Info
	return d.InfoRet
}

func (d *JPEGDecoder) Decode(in *g1.JPEGInput, out *g1.JPEGOutput) g1.JPEGRet {
	d.Inputs = append(d.Inputs, *in)
	if d.script.calls == 0 {
		d.script.steps = d.Steps
	}

	step := d.script.next(Step[g1.JPEGRet]{Ret: g1.JPEGFrameReady})
	if step.Ret == g1.JPEGFrameReady {
		d.frames++
		d.hw.render(d, byte(d.frames))
	}
	return step.Ret
}

// Calls returns the number of Decode calls.
func (d *JPEGDecoder) Calls() int {
	return d.script.calls
}
