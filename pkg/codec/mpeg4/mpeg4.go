// Package mpeg4 drives the G1 MPEG-4 Part 2 and H.263 decoder.
package mpeg4

import (
	"fmt"
	"sync"

	"github.com/pion/hantro/internal/logging"
	"github.com/pion/hantro/pkg/codec"
	"github.com/pion/hantro/pkg/decoder"
	"github.com/pion/hantro/pkg/frame"
	"github.com/pion/hantro/pkg/g1"
)

// Name is the codec name the adapter is registered under.
const Name = "mpeg4"

var logger = logging.NewLogger("hantro/mpeg4")

func init() {
	p, _ := NewParams()
	codec.Register(Name, &p, ".m4v", ".cmp", ".263")
}

// Adapter is the MPEG-4 decoder.Adapter. Codec data parsed with
// DecodeHeader configures the stream before the first access unit.
type Adapter struct {
	mu     sync.Mutex
	params Params

	dec     g1.MP4Decoder
	decoded uint32
}

var (
	_ decoder.Adapter       = &Adapter{}
	_ decoder.HeaderDecoder = &Adapter{}
)

func newAdapter(p Params) *Adapter {
	return &Adapter{params: p}
}

// SetParams replaces the parameters. StreamFormat, VideoFreezeConcealment
// and NumFrameBuffers apply on the next Open.
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

func (a *Adapter) Kind() decoder.CodecKind {
	return g1.DecTypeMPEG4
}

func (a *Adapter) Open(hw g1.Hardware) (g1.Codec, error) {
	p := a.Params()

	logger.Infof("opening MP4 decoder")
	dec, err := hw.NewMP4Decoder(g1.MP4Config{
		StreamFormat:           p.StreamFormat,
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

	logger.Infof("closing MP4 decoder")
	a.dec.Release()
	a.dec = nil
	return nil
}

func (a *Adapter) input(in decoder.Input) g1.MP4Input {
	return g1.MP4Input{
		Stream:           in.Stream,
		BusAddress:       in.BusAddress,
		PicID:            a.decoded,
		SkipNonReference: a.Params().SkipNonReference,
	}
}

// DecodeHeader feeds the VOL headers carried as codec data.
func (a *Adapter) DecodeHeader(s *decoder.Session, in decoder.Input) error {
	st := &stepper{a: a, in: a.input(in)}

	ret := a.dec.Decode(&st.in, &st.out)
	switch {
	case ret == g1.MP4HdrsRdy || ret == g1.MP4DPHdrsRdy:
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
	return s.Run(&stepper{a: a, in: a.input(in)})
}

type stepper struct {
	a   *Adapter
	in  g1.MP4Input
	out g1.MP4Output
}

func (st *stepper) Step() decoder.Status {
	st.in.PicID = st.a.decoded

	ret := st.a.dec.Decode(&st.in, &st.out)
	status := classify(ret)
	if status.Final && status.Event != decoder.EventProcessed {
		return status
	}
	if ret == g1.MP4PicDecoded {
		st.a.decoded++
	}

	consumed := len(st.in.Stream) - st.out.DataLeft
	if consumed < 0 {
		consumed = 0
	}
	st.in.Stream = st.in.Stream[consumed:]
	st.in.BusAddress = st.out.StrmCurrBusAddress

	if st.out.DataLeft == 0 {
		status.Final = true
	}
	return status
}

func classify(ret g1.MP4Ret) decoder.Status {
	switch ret {
	case g1.MP4HdrsRdy, g1.MP4DPHdrsRdy:
		return decoder.Status{Event: decoder.EventHeaders, Code: ret}
	case g1.MP4PicDecoded:
		return decoder.Status{Event: decoder.EventPicture, Code: ret}
	case g1.MP4StrmProcessed, g1.MP4VOSEnd:
		// VOP headers may carry a new geometry.
		return decoder.Status{Event: decoder.EventProcessed, Final: true, Probe: true, Code: ret}
	case g1.MP4NonrefPicSkipped:
		return decoder.Status{Event: decoder.EventContinue, Code: ret}
	case g1.MP4NotInitialized, g1.MP4FormatNotSupported, g1.MP4StrmNotSupported, g1.MP4StrmError:
		return decoder.Status{Event: decoder.EventStreamError, Final: true, Code: ret}
	case g1.MP4HWTimeout, g1.MP4HWBusError, g1.MP4SystemError, g1.MP4DWLError:
		return decoder.Status{Event: decoder.EventFatal, Final: true, Code: ret}
	default:
		panic(fmt.Sprintf("mpeg4: unhandled return code %s (%d)", ret, int(ret)))
	}
}

func (st *stepper) StreamInfo() (decoder.StreamInfo, error) {
	var info g1.MP4Info
	if ret := st.a.dec.GetInfo(&info); ret != g1.MP4OK {
		logger.Errorf("MP4DecGetInfo failed: %v", ret)
		return decoder.StreamInfo{}, ret
	}
	if info.FrameWidth == 0 || info.FrameHeight == 0 {
		return decoder.StreamInfo{}, g1.MP4HdrsNotRdy
	}

	logger.Debugf("parsed MP4 headers: frame %dx%d, coded %dx%d, format %s, profile %d, video format %d, range %d, PAR %d:%d, interlaced %v, DPB mode %d, multi buffer PP size %d, output %s",
		info.FrameWidth, info.FrameHeight, info.CodedWidth, info.CodedHeight, info.StreamFormat,
		info.ProfileAndLevel, info.VideoFormat, info.VideoRange, info.ParWidth, info.ParHeight,
		info.Interlaced, info.DPBMode, info.MultiBuffPPSize, info.OutputFormat)

	return decoder.StreamInfo{
		Format:     frame.FormatNV12,
		Width:      info.FrameWidth,
		Height:     info.FrameHeight,
		ParN:       info.ParWidth,
		ParD:       info.ParHeight,
		Interlaced: info.Interlaced,
	}, nil
}

func (st *stepper) NextPicture() (decoder.PictureInfo, bool, error) {
	var pic g1.MP4Picture
	ret := st.a.dec.NextPicture(&pic, false)

	switch {
	case ret == g1.MP4PicRdy:
		return decoder.PictureInfo{
			ID:     pic.PicID,
			Key:    pic.KeyPicture,
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
