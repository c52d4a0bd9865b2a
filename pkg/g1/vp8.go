package g1

// VP8Format selects the bitstream flavor of a VP8 instance.
type VP8Format int

// VP8Format values.
const (
	VP8FormatVP7 VP8Format = iota + 1
	VP8FormatVP8
	VP8FormatWebP
)

// VP8Config holds the VP8DecInit arguments.
type VP8Config struct {
	Format                 VP8Format
	VideoFreezeConcealment bool
	NumFrameBuffers        int
}

// VP8Input is one compressed VP8 frame.
type VP8Input struct {
	Stream      []byte
	BusAddress  uint32
	SliceHeight int
}

// VP8Output reports how much of the input Decode left unconsumed.
type VP8Output struct {
	DataLeft int
}

// VP8Info is the stream information available after headers are decoded.
type VP8Info struct {
	VpVersion, VpProfile      int
	CodedWidth, CodedHeight   int
	FrameWidth, FrameHeight   int
	ScaledWidth, ScaledHeight int
	DPBMode                   int
	OutputFormat              OutputFormat
}

// VP8Picture is a decoded picture.
type VP8Picture struct {
	FrameWidth, FrameHeight int
	CodedWidth, CodedHeight int
	OutputBusAddress        uint32
	PicID                   uint32
	IsIntraFrame            bool
	IsGoldenOrAlternate     bool
	NbrOfErrMBs             int
}

// VP8Decoder is an open VP8 codec instance.
type VP8Decoder interface {
	Codec
	Decode(in *VP8Input, out *VP8Output) VP8Ret
	GetInfo(info *VP8Info) VP8Ret
	NextPicture(pic *VP8Picture, flush bool) VP8Ret
}

// VP8Ret is a VP8 decoder status code.
type VP8Ret int

// VP8Ret values.
const (
	VP8OK                      VP8Ret = 0
	VP8StrmProcessed           VP8Ret = 1
	VP8PicRdy                  VP8Ret = 2
	VP8PicDecoded              VP8Ret = 3
	VP8HdrsRdy                 VP8Ret = 4
	VP8AdvancedTools           VP8Ret = 5
	VP8SliceRdy                VP8Ret = 6
	VP8ParamError              VP8Ret = -1
	VP8StrmError               VP8Ret = -2
	VP8NotInitialized          VP8Ret = -3
	VP8Memfail                 VP8Ret = -4
	VP8Initfail                VP8Ret = -5
	VP8HdrsNotRdy              VP8Ret = -6
	VP8StreamNotSupported      VP8Ret = -8
	VP8HWReserved              VP8Ret = -254
	VP8HWTimeout               VP8Ret = -255
	VP8HWBusError              VP8Ret = -256
	VP8SystemError             VP8Ret = -257
	VP8DWLError                VP8Ret = -258
	VP8EvaluationLimitExceeded VP8Ret = -999
	VP8FormatNotSupported      VP8Ret = -1000
)

var vp8RetNames = map[VP8Ret]string{
	VP8OK:                      "VP8DEC_OK",
	VP8StrmProcessed:           "VP8DEC_STRM_PROCESSED",
	VP8PicRdy:                  "VP8DEC_PIC_RDY",
	VP8PicDecoded:              "VP8DEC_PIC_DECODED",
	VP8HdrsRdy:                 "VP8DEC_HDRS_RDY",
	VP8AdvancedTools:           "VP8DEC_ADVANCED_TOOLS",
	VP8SliceRdy:                "VP8DEC_SLICE_RDY",
	VP8ParamError:              "VP8DEC_PARAM_ERROR",
	VP8StrmError:               "VP8DEC_STRM_ERROR",
	VP8NotInitialized:          "VP8DEC_NOT_INITIALIZED",
	VP8Memfail:                 "VP8DEC_MEMFAIL",
	VP8Initfail:                "VP8DEC_INITFAIL",
	VP8HdrsNotRdy:              "VP8DEC_HDRS_NOT_RDY",
	VP8StreamNotSupported:      "VP8DEC_STREAM_NOT_SUPPORTED",
	VP8HWReserved:              "VP8DEC_HW_RESERVED",
	VP8HWTimeout:               "VP8DEC_HW_TIMEOUT",
	VP8HWBusError:              "VP8DEC_HW_BUS_ERROR",
	VP8SystemError:             "VP8DEC_SYSTEM_ERROR",
	VP8DWLError:                "VP8DEC_DWL_ERROR",
	VP8EvaluationLimitExceeded: "VP8DEC_EVALUATION_LIMIT_EXCEEDED",
	VP8FormatNotSupported:      "VP8DEC_FORMAT_NOT_SUPPORTED",
}

func (r VP8Ret) String() string {
	return retName(vp8RetNames, r, "VP8DEC")
}

func (r VP8Ret) Error() string {
	return "g1: vp8: " + r.String()
}

// Fatal reports whether r means the hardware or driver failed.
func (r VP8Ret) Fatal() bool {
	switch r {
	case VP8HWTimeout, VP8HWBusError, VP8SystemError, VP8DWLError:
		return true
	}
	return false
}
