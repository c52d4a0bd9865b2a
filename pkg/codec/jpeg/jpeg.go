// Package jpeg drives the G1 JPEG decoder. Every input is one complete
// baseline JPEG file producing one picture.
package jpeg

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
const Name = "jpeg"

var logger = logging.NewLogger("hantro/jpeg")

func init() {
	p, _ := NewParams()
	codec.Register(Name, &p, ".jpg", ".jpeg")
}

// Adapter is the JPEG decoder.Adapter.
type Adapter struct {
	mu     sync.Mutex
	params Params

	dec g1.JPEGDecoder
}

var _ decoder.Adapter = &Adapter{}

// SetParams replaces the parameters. They apply from the next input.
func (a *Adapter) SetParams(p Params) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.params = p
}

func (a *Adapter) Params() Params {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.params
}

func (a *Adapter) Kind() decoder.CodecKind {
	return g1.DecTypeJPEG
}

func (a *Adapter) Open(hw g1.Hardware) (g1.Codec, error) {
	logger.Infof("opening JPEG decoder")
	dec, err := hw.NewJPEGDecoder()
	if err != nil {
		return nil, err
	}

	a.dec = dec
	return dec, nil
}

func (a *Adapter) Close() error {
	if a.dec == nil {
		return nil
	}

	logger.Infof("closing JPEG decoder")
	a.dec.Release()
	a.dec = nil
	return nil
}

// Decode reads the image info, selects the image or its thumbnail and
// decodes it.
func (a *Adapter) Decode(s *decoder.Session, in decoder.Input) error {
	st := &stepper{
		dec: a.dec,
		in: g1.JPEGInput{
			Stream:       in.Stream,
			BusAddress:   in.BusAddress,
			DecImageType: g1.JPEGImage,
		},
	}

	var info g1.JPEGImageInfo
	if ret := a.dec.GetImageInfo(&st.in, &info); ret != g1.JPEGOK {
		logger.Errorf("JpegDecGetImageInfo failed: %v", ret)
		return decoder.NewError("image info", decoder.KindStream, ret)
	}
	logger.Debugf("image info: display %dx%d, output %dx%d, version %d, units %d, density %dx%d, output format %s, coding mode %d, thumbnail type %d, thumbnail display %dx%d, thumbnail output %dx%d, thumbnail format %s, thumbnail coding mode %d",
		info.DisplayWidth, info.DisplayHeight, info.OutputWidth, info.OutputHeight,
		info.Version, info.Units, info.XDensity, info.YDensity, info.OutputFormat, info.CodingMode,
		info.ThumbnailType, info.DisplayWidthThumb, info.DisplayHeightThumb,
		info.OutputWidthThumb, info.OutputHeightThumb, info.OutputFormatThumb, info.CodingModeThumb)

	st.info = decoder.StreamInfo{
		Format: frame.FormatNV12,
		Width:  info.OutputWidth,
		Height: info.OutputHeight,
	}
	if a.Params().PreferThumbnail && info.ThumbnailType == g1.JPEGThumbnailJPEG {
		logger.Debugf("decoding the %dx%d thumbnail", info.OutputWidthThumb, info.OutputHeightThumb)
		st.in.DecImageType = g1.JPEGThumbnail
		st.info.Width = info.OutputWidthThumb
		st.info.Height = info.OutputHeightThumb
	}

	if err := s.SetStreamInfo(st.info); err != nil {
		return err
	}
	return s.Run(st)
}

type stepper struct {
	dec   g1.JPEGDecoder
	in    g1.JPEGInput
	out   g1.JPEGOutput
	info  decoder.StreamInfo
	ready bool
}

func (st *stepper) Step() decoder.Status {
	ret := st.dec.Decode(&st.in, &st.out)
	if ret == g1.JPEGFrameReady {
		st.ready = true
	}
	return classify(ret)
}

func classify(ret g1.JPEGRet) decoder.Status {
	switch ret {
	case g1.JPEGFrameReady:
		return decoder.Status{Event: decoder.EventPicture, Final: true, Code: ret}
	case g1.JPEGSliceReady, g1.JPEGStrmProcessed, g1.JPEGScanProcessed, g1.JPEGOK:
		return decoder.Status{Event: decoder.EventContinue, Code: ret}
	case g1.JPEGError, g1.JPEGUnsupported, g1.JPEGParamError, g1.JPEGMemfail,
		g1.JPEGInitfail, g1.JPEGInvalidStreamLength, g1.JPEGStrmError,
		g1.JPEGInvalidInputBufferSize, g1.JPEGHWReserved, g1.JPEGIncreaseInputBuffer,
		g1.JPEGSliceModeUnsupported, g1.JPEGFormatNotSupported:
		return decoder.Status{Event: decoder.EventStreamError, Final: true, Code: ret}
	case g1.JPEGDWLHWTimeout, g1.JPEGDWLError, g1.JPEGHWBusError, g1.JPEGSystemError:
		return decoder.Status{Event: decoder.EventFatal, Final: true, Code: ret}
	default:
		panic(fmt.Sprintf("jpeg: unhandled return code %s (%d)", ret, int(ret)))
	}
}

func (st *stepper) StreamInfo() (decoder.StreamInfo, error) {
	return st.info, nil
}

// NextPicture hands out the frame once; the decoder has no picture queue.
func (st *stepper) NextPicture() (decoder.PictureInfo, bool, error) {
	if !st.ready {
		return decoder.PictureInfo{}, false, nil
	}
	st.ready = false
	return decoder.PictureInfo{Key: true}, true, nil
}

func (st *stepper) Remaining() int {
	return 0
}
