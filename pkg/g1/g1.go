// Package g1 describes the Hantro G1 decoder and post-processor APIs.
//
// The types mirror the vendor headers closely enough that a cgo binding
// (see package native) is a field by field translation, while a scripted
// model (see package g1test) can stand in for the silicon in tests.
// Every call returns the vendor status code; classifying it is up to the
// caller.
package g1

import "github.com/pion/hantro/pkg/memalloc"

// DecType identifies the codec a post-processor is pipelined with.
type DecType int

// DecType values.
const (
	DecTypeH264 DecType = iota + 1
	DecTypeMPEG4
	DecTypeJPEG
	DecTypeVP8
)

func (t DecType) String() string {
	switch t {
	case DecTypeH264:
		return "h264"
	case DecTypeMPEG4:
		return "mpeg4"
	case DecTypeJPEG:
		return "jpeg"
	case DecTypeVP8:
		return "vp8"
	default:
		return "unknown"
	}
}

// OutputFormat is the picture layout a codec instance writes.
type OutputFormat int

// OutputFormat values.
const (
	OutputSemiplanar420 OutputFormat = iota
	OutputTiled420
	OutputYUV400
)

func (f OutputFormat) String() string {
	switch f {
	case OutputSemiplanar420:
		return "semiplanar-yuv420"
	case OutputTiled420:
		return "tiled-yuv420"
	case OutputYUV400:
		return "yuv400"
	default:
		return "unknown"
	}
}

// Codec is an open codec instance.
type Codec interface {
	// Release frees the instance. It must be called exactly once.
	Release()
}

// Hardware creates post-processor and codec instances.
type Hardware interface {
	NewPostProcessor() (PostProcessor, error)
	NewH264Decoder(cfg H264Config) (H264Decoder, error)
	NewMP4Decoder(cfg MP4Config) (MP4Decoder, error)
	NewJPEGDecoder() (JPEGDecoder, error)
	NewVP8Decoder(cfg VP8Config) (VP8Decoder, error)
	// NewLinearAllocator returns the driver's contiguous memory manager.
	NewLinearAllocator() (*memalloc.LinearAllocator, error)
}
