package g1

// JPEGImageType selects the full image or its embedded thumbnail.
type JPEGImageType int

// JPEGImageType values.
const (
	JPEGImage JPEGImageType = iota
	JPEGThumbnail
)

// JPEGThumbnailType reports what kind of thumbnail a file embeds.
type JPEGThumbnailType int

// JPEGThumbnailType values.
const (
	JPEGNoThumbnail JPEGThumbnailType = iota
	JPEGThumbnailJPEG
	JPEGThumbnailNotSupported
)

// JPEGInput is one complete JPEG file.
type JPEGInput struct {
	Stream       []byte
	BusAddress   uint32
	DecImageType JPEGImageType
	SliceMbSet   int
}

// JPEGImageInfo describes the image and its thumbnail.
type JPEGImageInfo struct {
	DisplayWidth, DisplayHeight int
	OutputWidth, OutputHeight   int
	Version                     int
	Units                       int
	XDensity, YDensity          int
	OutputFormat                OutputFormat
	CodingMode                  int

	ThumbnailType                         JPEGThumbnailType
	DisplayWidthThumb, DisplayHeightThumb int
	OutputWidthThumb, OutputHeightThumb   int
	OutputFormatThumb                     OutputFormat
	CodingModeThumb                       int
}

// JPEGOutput holds the decoder's own output planes. They are unused in
// combined mode where the post-processor writes the picture.
type JPEGOutput struct {
	LumaBusAddress   uint32
	ChromaBusAddress uint32
}

// JPEGDecoder is an open JPEG codec instance.
type JPEGDecoder interface {
	Codec
	GetImageInfo(in *JPEGInput, info *JPEGImageInfo) JPEGRet
	Decode(in *JPEGInput, out *JPEGOutput) JPEGRet
}

// JPEGRet is a JPEG decoder status code.
type JPEGRet int

// JPEGRet values.
const (
	JPEGSliceReady             JPEGRet = 2
	JPEGFrameReady             JPEGRet = 1
	JPEGStrmProcessed          JPEGRet = 3
	JPEGScanProcessed          JPEGRet = 4
	JPEGOK                     JPEGRet = 0
	JPEGError                  JPEGRet = -1
	JPEGUnsupported            JPEGRet = -2
	JPEGParamError             JPEGRet = -3
	JPEGMemfail                JPEGRet = -4
	JPEGInitfail               JPEGRet = -5
	JPEGInvalidStreamLength    JPEGRet = -6
	JPEGStrmError              JPEGRet = -7
	JPEGInvalidInputBufferSize JPEGRet = -8
	JPEGHWReserved             JPEGRet = -9
	JPEGIncreaseInputBuffer    JPEGRet = -10
	JPEGSliceModeUnsupported   JPEGRet = -11
	JPEGDWLHWTimeout           JPEGRet = -253
	JPEGDWLError               JPEGRet = -254
	JPEGHWBusError             JPEGRet = -255
	JPEGSystemError            JPEGRet = -256
	JPEGFormatNotSupported     JPEGRet = -1000
)

var jpegRetNames = map[JPEGRet]string{
	JPEGSliceReady:             "JPEGDEC_SLICE_READY",
	JPEGFrameReady:             "JPEGDEC_FRAME_READY",
	JPEGStrmProcessed:          "JPEGDEC_STRM_PROCESSED",
	JPEGScanProcessed:          "JPEGDEC_SCAN_PROCESSED",
	JPEGOK:                     "JPEGDEC_OK",
	JPEGError:                  "JPEGDEC_ERROR",
	JPEGUnsupported:            "JPEGDEC_UNSUPPORTED",
	JPEGParamError:             "JPEGDEC_PARAM_ERROR",
	JPEGMemfail:                "JPEGDEC_MEMFAIL",
	JPEGInitfail:               "JPEGDEC_INITFAIL",
	JPEGInvalidStreamLength:    "JPEGDEC_INVALID_STREAM_LENGTH",
	JPEGStrmError:              "JPEGDEC_STRM_ERROR",
	JPEGInvalidInputBufferSize: "JPEGDEC_INVALID_INPUT_BUFFER_SIZE",
	JPEGHWReserved:             "JPEGDEC_HW_RESERVED",
	JPEGIncreaseInputBuffer:    "JPEGDEC_INCREASE_INPUT_BUFFER",
	JPEGSliceModeUnsupported:   "JPEGDEC_SLICE_MODE_UNSUPPORTED",
	JPEGDWLHWTimeout:           "JPEGDEC_DWL_HW_TIMEOUT",
	JPEGDWLError:               "JPEGDEC_DWL_ERROR",
	JPEGHWBusError:             "JPEGDEC_HW_BUS_ERROR",
	JPEGSystemError:            "JPEGDEC_SYSTEM_ERROR",
	JPEGFormatNotSupported:     "JPEGDEC_FORMAT_NOT_SUPPORTED",
}

func (r JPEGRet) String() string {
	return retName(jpegRetNames, r, "JPEGDEC")
}

func (r JPEGRet) Error() string {
	return "g1: jpeg: " + r.String()
}

// Fatal reports whether r means the hardware or driver failed.
func (r JPEGRet) Fatal() bool {
	switch r {
	case JPEGDWLHWTimeout, JPEGDWLError, JPEGHWBusError, JPEGSystemError:
		return true
	}
	return false
}
