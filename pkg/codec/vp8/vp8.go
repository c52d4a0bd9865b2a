// Package vp8 drives the G1 VP8 decoder.
package vp8

import (
	"fmt"
	"sync"

	"github.com/pion/hantro/internal/logging"
	"github.com/pion/hantro/pkg/codec"
	"github.com/pion/hantro/pkg/decoder"
	"github.com/pion/hantro/pkg/g1"
)

// Name is the codec name the adapter is registered under.
const Name = "vp8"

var logger = logging.NewLogger("hantro/vp8")

func init() {
	p, _ := NewParams()
	codec.Register(Name, &p, ".ivf")
}

// Adapter is the VP8 decoder.Adapter. Every input is one compressed
// frame; the decoder is called on it until the picture is decoded.
type Adapter struct {
	mu     sync.Mutex
	params Params

	dec     g1.VP8Decoder
	decoded int
}

var (
	_ decoder.Adapter       = &Adapter{}
	_ decoder.HeaderDecoder = &Adapter{}
)

// SetParams replaces the parameters used by the next Open.
func (a *Adapter) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.params = p
	return nil
}

func (a *Adapter) Params() Params {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.params
}

// Decoded returns the number of pictures decoded since Open.
func (a *Adapter) Decoded() int {
	return a.decoded
}

func (a *Adapter) Kind() decoder.CodecKind {
	return g1.DecTypeVP8
}

func (a *Adapter) Open(hw g1.Hardware) (g1.Codec, error) {
	p := a.Params()

	logger.Infof("opening VP8 decoder")
	dec, err := hw.NewVP8Decoder(g1.VP8Config{
		Format:                 p.Format,
		VideoFreezeConcealment: p.VideoFreezeConcealment,
		NumFrameBuffers:        p.NumFrameBuffers,
	})
	if err != nil {
		return nil, err
	}

	a.dec = dec
	a.decoded = 0
	return dec, nil
}

func (a *Adapter) Close() error {
	if a.dec == nil {
		return nil
	}

	logger.Infof("closing VP8 decoder")
	a.dec.Release()
	a.dec = nil
	return nil
}

func (a *Adapter) newStepper(in decoder.Input) *stepper {
	return &stepper{
		a:  a,
		in: g1.VP8Input{Stream: in.Stream, BusAddress: in.BusAddress},
	}
}

// DecodeHeader feeds a key frame carried as codec data.
func (a *Adapter) DecodeHeader(s *decoder.Session, in decoder.Input) error {
	st := a.newStepper(in)

	ret := a.dec.Decode(&st.in, &st.out)
	switch {
	case ret == g1.VP8HdrsRdy:
		info, err := st.StreamInfo()
		if err != nil {
			return decoder.NewError("stream info", decoder.KindStream, err)
		}
		return s.SetStreamInfo(info)
	case ret.Fatal():
		logger.Errorf("G1 system error: %v", ret)
		return decoder.NewError("decode header", decoder.KindFatal, ret)
	default:
		logger.Warnf("unexpected return code on codec data: %s (%d)", ret, int(ret))
		return nil
	}
}

func (a *Adapter) Decode(s *decoder.Session, in decoder.Input) error {
	return s.Run(a.newStepper(in))
}

type stepper struct {
	a   *Adapter
	in  g1.VP8Input
	out g1.VP8Output
}

func (st *stepper) Step() decoder.Status {
	ret := st.a.dec.Decode(&st.in, &st.out)
	if ret == g1.VP8PicDecoded {
		st.a.decoded++
	}
	return classify(ret)
}

func classify(ret g1.VP8Ret) decoder.Status {
	switch ret {
	case g1.VP8HdrsRdy:
		return decoder.Status{Event: decoder.EventHeaders, Code: ret}
	case g1.VP8SliceRdy:
		return decoder.Status{Event: decoder.EventPicture, Code: ret}
	case g1.VP8PicDecoded:
		return decoder.Status{Event: decoder.EventPicture, Final: true, Code: ret}
	case g1.VP8StrmProcessed:
		return decoder.Status{Event: decoder.EventProcessed, Final: true, Code: ret}
	case g1.VP8NotInitialized, g1.VP8StrmError:
		return decoder.Status{Event: decoder.EventStreamError, Final: true, Code: ret}
	case g1.VP8HWTimeout, g1.VP8HWBusError, g1.VP8SystemError, g1.VP8DWLError:
		return decoder.Status{Event: decoder.EventFatal, Final: true, Code: ret}
	default:
		panic(fmt.Sprintf("vp8: unhandled return code %s (%d)", ret, int(ret)))
	}
}

func (st *stepper) StreamInfo() (decoder.StreamInfo, error) {
	var info g1.VP8Info
	if ret := st.a.dec.GetInfo(&info); ret != g1.VP8OK {
		logger.Errorf("VP8DecGetInfo failed: %v", ret)
		return decoder.StreamInfo{}, ret
	}

	logger.Debugf("parsed VP8 headers: version %d, profile %d, coded %dx%d, frame %dx%d, scaled %dx%d, DPB mode %d, output %s",
		info.VpVersion, info.VpProfile, info.CodedWidth, info.CodedHeight,
		info.FrameWidth, info.FrameHeight, info.ScaledWidth, info.ScaledHeight,
		info.DPBMode, info.OutputFormat)

	f, err := g1.DecoderFormatOf(info.OutputFormat)
	if err != nil {
		return decoder.StreamInfo{}, err
	}
	return decoder.StreamInfo{
		Format: f,
		Width:  info.FrameWidth,
		Height: info.FrameHeight,
	}, nil
}

func (st *stepper) NextPicture() (decoder.PictureInfo, bool, error) {
	var pic g1.VP8Picture
	ret := st.a.dec.NextPicture(&pic, false)

	switch {
	case ret == g1.VP8PicRdy:
		return decoder.PictureInfo{
			ID:     pic.PicID,
			Key:    pic.IsIntraFrame,
			ErrMBs: pic.NbrOfErrMBs,
		}, true, nil
	case ret.Fatal():
		return decoder.PictureInfo{}, false, decoder.NewError("next picture", decoder.KindFatal, ret)
	default:
		logger.Tracef("%s (%d) 0x%08x", ret, int(ret), pic.OutputBusAddress)
		return decoder.PictureInfo{}, false, nil
	}
}

func (st *stepper) Remaining() int {
	return st.out.DataLeft
}
