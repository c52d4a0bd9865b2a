package g1

// MP4StreamFormat selects the bitstream flavor of an MPEG-4 instance.
type MP4StreamFormat int

// MP4StreamFormat values. Short video header (H.263) streams are decoded
// as MP4StreamMPEG4.
const (
	MP4StreamMPEG4 MP4StreamFormat = iota
	MP4StreamSorenson
	MP4StreamCustom1
)

func (f MP4StreamFormat) String() string {
	switch f {
	case MP4StreamMPEG4:
		return "mpeg4"
	case MP4StreamSorenson:
		return "sorenson"
	case MP4StreamCustom1:
		return "custom1"
	default:
		return "unknown"
	}
}

// MP4Config holds the MP4DecInit arguments.
type MP4Config struct {
	StreamFormat           MP4StreamFormat
	VideoFreezeConcealment bool
	NumFrameBuffers        int
}

// MP4Input is a chunk of MPEG-4 Part 2 stream handed to Decode.
type MP4Input struct {
	Stream           []byte
	BusAddress       uint32
	PicID            uint32
	SkipNonReference bool
}

// MP4Output reports how much of the input Decode left unconsumed.
type MP4Output struct {
	DataLeft           int
	StrmCurrBusAddress uint32
}

// MP4Info is the stream information available after headers are decoded.
type MP4Info struct {
	FrameWidth, FrameHeight int
	CodedWidth, CodedHeight int
	StreamFormat            MP4StreamFormat
	ProfileAndLevel         int
	VideoFormat             int
	VideoRange              int
	ParWidth, ParHeight     int
	Interlaced              bool
	DPBMode                 int
	MultiBuffPPSize         int
	OutputFormat            OutputFormat
}

// MP4Picture is a picture popped from the decoder.
type MP4Picture struct {
	FrameWidth, FrameHeight int
	OutputBusAddress        uint32
	PicID                   uint32
	KeyPicture              bool
	NbrOfErrMBs             int
}

// MP4Decoder is an open MPEG-4 Part 2 codec instance.
type MP4Decoder interface {
	Codec
	Decode(in *MP4Input, out *MP4Output) MP4Ret
	GetInfo(info *MP4Info) MP4Ret
	NextPicture(pic *MP4Picture, flush bool) MP4Ret
}

// MP4Ret is an MPEG-4 decoder status code.
type MP4Ret int

// MP4Ret values.
const (
	MP4OK                      MP4Ret = 0
	MP4StrmProcessed           MP4Ret = 1
	MP4PicRdy                  MP4Ret = 2
	MP4PicDecoded              MP4Ret = 3
	MP4HdrsRdy                 MP4Ret = 4
	MP4DPHdrsRdy               MP4Ret = 5
	MP4NonrefPicSkipped        MP4Ret = 6
	MP4VOSEnd                  MP4Ret = 14
	MP4HdrsNotRdy              MP4Ret = 15
	MP4ParamError              MP4Ret = -1
	MP4StrmError               MP4Ret = -2
	MP4NotInitialized          MP4Ret = -4
	MP4Memfail                 MP4Ret = -5
	MP4Initfail                MP4Ret = -6
	MP4FormatNotSupported      MP4Ret = -7
	MP4StrmNotSupported        MP4Ret = -8
	MP4HWReserved              MP4Ret = -254
	MP4HWTimeout               MP4Ret = -255
	MP4HWBusError              MP4Ret = -256
	MP4SystemError             MP4Ret = -257
	MP4DWLError                MP4Ret = -258
	MP4EvaluationLimitExceeded MP4Ret = -999
)

var mp4RetNames = map[MP4Ret]string{
	MP4OK:                      "MP4DEC_OK",
	MP4StrmProcessed:           "MP4DEC_STRM_PROCESSED",
	MP4PicRdy:                  "MP4DEC_PIC_RDY",
	MP4PicDecoded:              "MP4DEC_PIC_DECODED",
	MP4HdrsRdy:                 "MP4DEC_HDRS_RDY",
	MP4DPHdrsRdy:               "MP4DEC_DP_HDRS_RDY",
	MP4NonrefPicSkipped:        "MP4DEC_NONREF_PIC_SKIPPED",
	MP4VOSEnd:                  "MP4DEC_VOS_END",
	MP4HdrsNotRdy:              "MP4DEC_HDRS_NOT_RDY",
	MP4ParamError:              "MP4DEC_PARAM_ERROR",
	MP4StrmError:               "MP4DEC_STRM_ERROR",
	MP4NotInitialized:          "MP4DEC_NOT_INITIALIZED",
	MP4Memfail:                 "MP4DEC_MEMFAIL",
	MP4Initfail:                "MP4DEC_INITFAIL",
	MP4FormatNotSupported:      "MP4DEC_FORMAT_NOT_SUPPORTED",
	MP4StrmNotSupported:        "MP4DEC_STRM_NOT_SUPPORTED",
	MP4HWReserved:              "MP4DEC_HW_RESERVED",
	MP4HWTimeout:               "MP4DEC_HW_TIMEOUT",
	MP4HWBusError:              "MP4DEC_HW_BUS_ERROR",
	MP4SystemError:             "MP4DEC_SYSTEM_ERROR",
	MP4DWLError:                "MP4DEC_DWL_ERROR",
	MP4EvaluationLimitExceeded: "MP4DEC_EVALUATION_LIMIT_EXCEEDED",
}

func (r MP4Ret) String() string {
	return retName(mp4RetNames, r, "MP4DEC")
}

func (r MP4Ret) Error() string {
	return "g1: mpeg4: " + r.String()
}

// Fatal reports whether r means the hardware or driver failed.
func (r MP4Ret) Fatal() bool {
	switch r {
	case MP4HWTimeout, MP4HWBusError, MP4SystemError, MP4DWLError:
		return true
	}
	return false
}
