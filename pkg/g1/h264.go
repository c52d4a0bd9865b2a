package g1

// DPBFlags tune the H.264 decoded picture buffer.
type DPBFlags int

// DPBFlags values.
const (
	DPBDefault            DPBFlags = 0
	DPBAllowFieldOrdering DPBFlags = 1 << 30
)

// H264Config holds the H264DecInit arguments.
type H264Config struct {
	DisableOutputReordering bool
	IntraFreezeConcealment  bool
	UseDisplaySmoothing     bool
	DPBFlags                DPBFlags
}

// H264Input is a chunk of Annex-B stream handed to Decode.
type H264Input struct {
	Stream           []byte
	BusAddress       uint32
	PicID            uint32
	SkipNonReference bool
}

// H264Output reports how much of the input Decode left unconsumed. The
// remaining bytes are the tail of the input stream.
type H264Output struct {
	DataLeft           int
	StrmCurrBusAddress uint32
}

// H264Info is the stream information available after headers are decoded.
type H264Info struct {
	PicWidth, PicHeight int
	VideoRange          int
	MatrixCoefficients  int
	OutputFormat        OutputFormat
	SarWidth, SarHeight int
	MonoChrome          bool
	Interlaced          bool
	DPBMode             int
	PicBuffSize         int
	MultiBuffPPSize     int
}

// H264Picture is a picture popped from the reorder buffer.
type H264Picture struct {
	PicWidth, PicHeight int
	OutputBusAddress    uint32
	PicID               uint32
	IsIDR               bool
	NbrOfErrMBs         int
}

// H264Decoder is an open H.264 codec instance.
type H264Decoder interface {
	Codec
	Decode(in *H264Input, out *H264Output) H264Ret
	GetInfo(info *H264Info) H264Ret
	// NextPicture pops the next picture in output order. flush drains
	// pictures held for reordering.
	NextPicture(pic *H264Picture, flush bool) H264Ret
}

// H264Ret is an H.264 decoder status code.
type H264Ret int

// H264Ret values.
const (
	H264OK                      H264Ret = 0
	H264StrmProcessed           H264Ret = 1
	H264PicRdy                  H264Ret = 2
	H264PicDecoded              H264Ret = 3
	H264HdrsRdy                 H264Ret = 4
	H264AdvancedTools           H264Ret = 5
	H264PendingFlush            H264Ret = 6
	H264NonrefPicSkipped        H264Ret = 7
	H264EndOfStream             H264Ret = 8
	H264ParamError              H264Ret = -1
	H264StrmError               H264Ret = -2
	H264NotInitialized          H264Ret = -3
	H264Memfail                 H264Ret = -4
	H264Initfail                H264Ret = -5
	H264HdrsNotRdy              H264Ret = -6
	H264StreamNotSupported      H264Ret = -8
	H264HWReserved              H264Ret = -254
	H264HWTimeout               H264Ret = -255
	H264HWBusError              H264Ret = -256
	H264SystemError             H264Ret = -257
	H264DWLError                H264Ret = -258
	H264EvaluationLimitExceeded H264Ret = -999
	H264FormatNotSupported      H264Ret = -1000
)

var h264RetNames = map[H264Ret]string{
	H264OK:                      "H264DEC_OK",
	H264StrmProcessed:           "H264DEC_STRM_PROCESSED",
	H264PicRdy:                  "H264DEC_PIC_RDY",
	H264PicDecoded:              "H264DEC_PIC_DECODED",
	H264HdrsRdy:                 "H264DEC_HDRS_RDY",
	H264AdvancedTools:           "H264DEC_ADVANCED_TOOLS",
	H264PendingFlush:            "H264DEC_PENDING_FLUSH",
	H264NonrefPicSkipped:        "H264DEC_NONREF_PIC_SKIPPED",
	H264EndOfStream:             "H264DEC_END_OF_STREAM",
	H264ParamError:              "H264DEC_PARAM_ERROR",
	H264StrmError:               "H264DEC_STRM_ERROR",
	H264NotInitialized:          "H264DEC_NOT_INITIALIZED",
	H264Memfail:                 "H264DEC_MEMFAIL",
	H264Initfail:                "H264DEC_INITFAIL",
	H264HdrsNotRdy:              "H264DEC_HDRS_NOT_RDY",
	H264StreamNotSupported:      "H264DEC_STREAM_NOT_SUPPORTED",
	H264HWReserved:              "H264DEC_HW_RESERVED",
	H264HWTimeout:               "H264DEC_HW_TIMEOUT",
	H264HWBusError:              "H264DEC_HW_BUS_ERROR",
	H264SystemError:             "H264DEC_SYSTEM_ERROR",
	H264DWLError:                "H264DEC_DWL_ERROR",
	H264EvaluationLimitExceeded: "H264DEC_EVALUATION_LIMIT_EXCEEDED",
	H264FormatNotSupported:      "H264DEC_FORMAT_NOT_SUPPORTED",
}

func (r H264Ret) String() string {
	return retName(h264RetNames, r, "H264DEC")
}

func (r H264Ret) Error() string {
	return "g1: h264: " + r.String()
}

// Fatal reports whether r means the hardware or driver failed.
func (r H264Ret) Fatal() bool {
	switch r {
	case H264HWTimeout, H264HWBusError, H264SystemError, H264DWLError:
		return true
	}
	return false
}
