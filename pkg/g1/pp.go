package g1

import "fmt"

// PixelFormat is a post-processor pixel format.
type PixelFormat int

// PixelFormat values.
const (
	PixFmtUnknown PixelFormat = iota
	PixFmtYCbCr420Planar
	PixFmtYCbCr420Semiplanar
	PixFmtYCbCr420Tiled
	PixFmtYCbCr422Interleaved
	PixFmtYCbCr422Semiplanar
	PixFmtYCrYCb422Interleaved
	PixFmtCbYCrY422Interleaved
	PixFmtYCbCr400
	PixFmtRGB16_555
	PixFmtRGB16_565
	PixFmtBGR16_555
	PixFmtBGR16_565
	PixFmtRGB32
	PixFmtBGR32
)

var pixelFormatNames = map[PixelFormat]string{
	PixFmtUnknown:              "unknown",
	PixFmtYCbCr420Planar:       "ycbcr-4:2:0-planar",
	PixFmtYCbCr420Semiplanar:   "ycbcr-4:2:0-semiplanar",
	PixFmtYCbCr420Tiled:        "ycbcr-4:2:0-tiled",
	PixFmtYCbCr422Interleaved:  "ycbcr-4:2:2-interleaved",
	PixFmtYCbCr422Semiplanar:   "ycbcr-4:2:2-semiplanar",
	PixFmtYCrYCb422Interleaved: "ycrycb-4:2:2-interleaved",
	PixFmtCbYCrY422Interleaved: "cbycry-4:2:2-interleaved",
	PixFmtYCbCr400:             "ycbcr-4:0:0",
	PixFmtRGB16_555:            "rgb16-5:5:5",
	PixFmtRGB16_565:            "rgb16-5:6:5",
	PixFmtBGR16_555:            "bgr16-5:5:5",
	PixFmtBGR16_565:            "bgr16-5:6:5",
	PixFmtRGB32:                "rgb32",
	PixFmtBGR32:                "bgr32",
}

func (f PixelFormat) String() string {
	if name, ok := pixelFormatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("pixel-format(%d)", int(f))
}

// Rotation is a post-processor rotation or flip.
type Rotation int

// Rotation values.
const (
	RotationNone Rotation = iota
	RotationLeft90
	Rotation180
	RotationRight90
	RotationHorizontalFlip
	RotationVerticalFlip
)

var rotationNames = []string{
	"none", "90-ccw", "180", "90-cw", "horizontal-flip", "vertical-flip",
}

func (r Rotation) String() string {
	if r >= 0 && int(r) < len(rotationNames) {
		return rotationNames[r]
	}
	return fmt.Sprintf("rotation(%d)", int(r))
}

// ParseRotation is the inverse of Rotation.String.
func ParseRotation(s string) (Rotation, error) {
	for i, name := range rotationNames {
		if name == s {
			return Rotation(i), nil
		}
	}
	return RotationNone, fmt.Errorf("g1: unknown rotation %q", s)
}

// PPInImage describes the picture entering the post-processor.
type PPInImage struct {
	Width, Height   int
	PixFormat       PixelFormat
	BufferBusAddr   uint32
	BufferCbBusAddr uint32
	BufferCrBusAddr uint32
	VideoRange      int
}

// PPInCrop is the input crop rectangle.
type PPInCrop struct {
	Enable           bool
	OriginX, OriginY int
	Width, Height    int
}

// PPInRotation holds the rotation mode.
type PPInRotation struct {
	Rotation Rotation
}

// PPOutImage describes the picture written by the post-processor.
type PPOutImage struct {
	Width, Height       int
	PixFormat           PixelFormat
	BufferBusAddr       uint32
	BufferChromaBusAddr uint32
}

// PPOutRGB holds the video adjustment of RGB and YUV output.
type PPOutRGB struct {
	Brightness      int
	Contrast        int
	Saturation      int
	DitheringEnable bool
}

// PPOutMask is an alpha blended overlay area.
type PPOutMask struct {
	Enable             bool
	OriginX, OriginY   int
	Width, Height      int
	AlphaBlendEna      bool
	BlendComponentBase uint32
	BlendOriginX       int
	BlendOriginY       int
	BlendWidth         int
	BlendHeight        int
}

// PPOutFrameBuffer places the output inside a larger frame buffer.
type PPOutFrameBuffer struct {
	Enable            bool
	WriteOriginX      int
	WriteOriginY      int
	FrameBufferWidth  int
	FrameBufferHeight int
}

// PPConfig is the complete post-processor configuration.
type PPConfig struct {
	InImg        PPInImage
	InCrop       PPInCrop
	InRotation   PPInRotation
	OutImg       PPOutImage
	OutRGB       PPOutRGB
	OutMask1     PPOutMask
	OutMask2     PPOutMask
	OutFrmBuffer PPOutFrameBuffer
}

// PostProcessor is an open post-processor instance.
type PostProcessor interface {
	GetConfig(cfg *PPConfig) PPRet
	SetConfig(cfg *PPConfig) PPRet
	// CombinedModeEnable pipelines the post-processor with a codec instance.
	CombinedModeEnable(c Codec, t DecType) PPRet
	CombinedModeDisable(c Codec) PPRet
	// GetResult reports the outcome of the last pipelined picture.
	GetResult() PPRet
	Release()
}

// PPRet is a post-processor status code.
type PPRet int

// PPRet values.
const (
	PPOK                        PPRet = 0
	PPParamError                PPRet = -1
	PPMemfail                   PPRet = -4
	PPSetInSizeInvalid          PPRet = -64
	PPSetInAddressInvalid       PPRet = -65
	PPSetInFormatInvalid        PPRet = -66
	PPSetCropInvalid            PPRet = -67
	PPSetRotationInvalid        PPRet = -68
	PPSetOutSizeInvalid         PPRet = -69
	PPSetOutAddressInvalid      PPRet = -70
	PPSetOutFormatInvalid       PPRet = -71
	PPSetVideoAdjustInvalid     PPRet = -72
	PPSetRGBBitmaskInvalid      PPRet = -73
	PPSetFramebufferInvalid     PPRet = -74
	PPSetMask1Invalid           PPRet = -75
	PPSetMask2Invalid           PPRet = -76
	PPSetDeinterlaceInvalid     PPRet = -77
	PPSetInStructInvalid        PPRet = -78
	PPSetInRangeMapInvalid      PPRet = -79
	PPSetAblendUnsupported      PPRet = -80
	PPSetDeinterlaceUnsupported PPRet = -81
	PPSetDitheringUnsupported   PPRet = -82
	PPSetScalingUnsupported     PPRet = -83
	PPBusy                      PPRet = -128
	PPHWBusError                PPRet = -256
	PPHWTimeout                 PPRet = -257
	PPDWLError                  PPRet = -258
	PPSystemError               PPRet = -259
	PPDecCombinedModeError      PPRet = -512
	PPDecRuntimeError           PPRet = -513
)

var ppRetNames = map[PPRet]string{
	PPOK:                        "PP_OK",
	PPParamError:                "PP_PARAM_ERROR",
	PPMemfail:                   "PP_MEMFAIL",
	PPSetInSizeInvalid:          "PP_SET_IN_SIZE_INVALID",
	PPSetInAddressInvalid:       "PP_SET_IN_ADDRESS_INVALID",
	PPSetInFormatInvalid:        "PP_SET_IN_FORMAT_INVALID",
	PPSetCropInvalid:            "PP_SET_CROP_INVALID",
	PPSetRotationInvalid:        "PP_SET_ROTATION_INVALID",
	PPSetOutSizeInvalid:         "PP_SET_OUT_SIZE_INVALID",
	PPSetOutAddressInvalid:      "PP_SET_OUT_ADDRESS_INVALID",
	PPSetOutFormatInvalid:       "PP_SET_OUT_FORMAT_INVALID",
	PPSetVideoAdjustInvalid:     "PP_SET_VIDEO_ADJUST_INVALID",
	PPSetRGBBitmaskInvalid:      "PP_SET_RGB_BITMASK_INVALID",
	PPSetFramebufferInvalid:     "PP_SET_FRAMEBUFFER_INVALID",
	PPSetMask1Invalid:           "PP_SET_MASK1_INVALID",
	PPSetMask2Invalid:           "PP_SET_MASK2_INVALID",
	PPSetDeinterlaceInvalid:     "PP_SET_DEINTERLACE_INVALID",
	PPSetInStructInvalid:        "PP_SET_IN_STRUCT_INVALID",
	PPSetInRangeMapInvalid:      "PP_SET_IN_RANGE_MAP_INVALID",
	PPSetAblendUnsupported:      "PP_SET_ABLEND_UNSUPPORTED",
	PPSetDeinterlaceUnsupported: "PP_SET_DEINTERLACING_UNSUPPORTED",
	PPSetDitheringUnsupported:   "PP_SET_DITHERING_UNSUPPORTED",
	PPSetScalingUnsupported:     "PP_SET_SCALING_UNSUPPORTED",
	PPBusy:                      "PP_BUSY",
	PPHWBusError:                "PP_HW_BUS_ERROR",
	PPHWTimeout:                 "PP_HW_TIMEOUT",
	PPDWLError:                  "PP_DWL_ERROR",
	PPSystemError:               "PP_SYSTEM_ERROR",
	PPDecCombinedModeError:      "PP_DEC_COMBINED_MODE_ERROR",
	PPDecRuntimeError:           "PP_DEC_RUNTIME_ERROR",
}

func (r PPRet) String() string {
	return retName(ppRetNames, r, "PP")
}

func (r PPRet) Error() string {
	return "g1: post-processor: " + r.String()
}

// Err returns nil for PPOK and r otherwise.
func (r PPRet) Err() error {
	if r == PPOK {
		return nil
	}
	return r
}

// Fatal reports whether r means the hardware or driver failed.
func (r PPRet) Fatal() bool {
	switch r {
	case PPHWBusError, PPHWTimeout, PPDWLError, PPSystemError, PPDecRuntimeError:
		return true
	}
	return false
}

func retName[T ~int](names map[T]string, r T, prefix string) string {
	if name, ok := names[r]; ok {
		return name
	}
	return fmt.Sprintf("%s_UNKNOWN(%d)", prefix, int(r))
}
