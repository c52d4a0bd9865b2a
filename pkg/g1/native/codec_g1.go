//go:build g1

package native

// #include <h264decapi.h>
// #include <mp4decapi.h>
// #include <vp8decapi.h>
// #include <jpegdecapi.h>
import "C"

import (
	"unsafe"

	"github.com/pion/hantro/pkg/g1"
)

func outputFormatOf(f C.u32) g1.OutputFormat {
	switch f {
	case C.H264DEC_TILED_YUV420:
		return g1.OutputTiled420
	case C.H264DEC_YUV400:
		return g1.OutputYUV400
	default:
		return g1.OutputSemiplanar420
	}
}

// H.264

type h264Decoder struct {
	dec C.H264DecInst
}

func (d *device) NewH264Decoder(cfg g1.H264Config) (g1.H264Decoder, error) {
	h := &h264Decoder{}
	ret := g1.H264Ret(C.H264DecInit(&h.dec,
		cbool(cfg.DisableOutputReordering),
		cbool(cfg.IntraFreezeConcealment),
		cbool(cfg.UseDisplaySmoothing),
		C.DecDpbFlags(cfg.DPBFlags)))
	if ret != g1.H264OK {
		return nil, ret
	}
	return h, nil
}

func (h *h264Decoder) inst() unsafe.Pointer {
	return unsafe.Pointer(h.dec)
}

func (h *h264Decoder) Release() {
	C.H264DecRelease(h.dec)
}

func (h *h264Decoder) Decode(in *g1.H264Input, out *g1.H264Output) g1.H264Ret {
	var cin C.H264DecInput
	var cout C.H264DecOutput
	cin.pStream = stream(in.Stream)
	cin.dataLen = C.u32(len(in.Stream))
	cin.streamBusAddress = C.g1_addr_t(in.BusAddress)
	cin.picId = C.u32(in.PicID)
	cin.skipNonReference = cbool(in.SkipNonReference)

	ret := C.H264DecDecode(h.dec, &cin, &cout)
	out.DataLeft = int(cout.dataLeft)
	out.StrmCurrBusAddress = uint32(cout.strmCurrBusAddress)
	return g1.H264Ret(ret)
}

func (h *h264Decoder) GetInfo(info *g1.H264Info) g1.H264Ret {
	var c C.H264DecInfo
	ret := g1.H264Ret(C.H264DecGetInfo(h.dec, &c))
	if ret != g1.H264OK {
		return ret
	}
	*info = g1.H264Info{
		PicWidth:           int(c.picWidth),
		PicHeight:          int(c.picHeight),
		VideoRange:         int(c.videoRange),
		MatrixCoefficients: int(c.matrixCoefficients),
		OutputFormat:       outputFormatOf(C.u32(c.outputFormat)),
		SarWidth:           int(c.sarWidth),
		SarHeight:          int(c.sarHeight),
		MonoChrome:         c.monoChrome != 0,
		Interlaced:         c.interlacedSequence != 0,
		DPBMode:            int(c.dpbMode),
		PicBuffSize:        int(c.picBuffSize),
		MultiBuffPPSize:    int(c.multiBuffPpSize),
	}
	return ret
}

func (h *h264Decoder) NextPicture(pic *g1.H264Picture, flush bool) g1.H264Ret {
	var c C.H264DecPicture
	ret := g1.H264Ret(C.H264DecNextPicture(h.dec, &c, cbool(flush)))
	*pic = g1.H264Picture{
		PicWidth:         int(c.picWidth),
		PicHeight:        int(c.picHeight),
		OutputBusAddress: uint32(c.outputPictureBusAddress),
		PicID:            uint32(c.picId),
		IsIDR:            c.isIdrPicture != 0,
		NbrOfErrMBs:      int(c.nbrOfErrMBs),
	}
	return ret
}

// MPEG-4

var mp4StreamFormats = map[g1.MP4StreamFormat]C.MP4DecStrmFmt{
	g1.MP4StreamMPEG4:    C.MP4DEC_MPEG4,
	g1.MP4StreamSorenson: C.MP4DEC_SORENSON,
	g1.MP4StreamCustom1:  C.MP4DEC_CUSTOM_1,
}

type mp4Decoder struct {
	dec C.MP4DecInst
}

func (d *device) NewMP4Decoder(cfg g1.MP4Config) (g1.MP4Decoder, error) {
	m := &mp4Decoder{}
	ret := g1.MP4Ret(C.MP4DecInit(&m.dec,
		mp4StreamFormats[cfg.StreamFormat],
		cbool(cfg.VideoFreezeConcealment),
		C.u32(cfg.NumFrameBuffers),
		C.DEC_REF_FRM_RASTER_SCAN))
	if ret != g1.MP4OK {
		return nil, ret
	}
	return m, nil
}

func (m *mp4Decoder) inst() unsafe.Pointer {
	return unsafe.Pointer(m.dec)
}

func (m *mp4Decoder) Release() {
	C.MP4DecRelease(m.dec)
}

func (m *mp4Decoder) Decode(in *g1.MP4Input, out *g1.MP4Output) g1.MP4Ret {
	var cin C.MP4DecInput
	var cout C.MP4DecOutput
	cin.pStream = stream(in.Stream)
	cin.dataLen = C.u32(len(in.Stream))
	cin.streamBusAddress = C.g1_addr_t(in.BusAddress)
	cin.picId = C.u32(in.PicID)
	cin.skipNonReference = cbool(in.SkipNonReference)

	ret := C.MP4DecDecode(m.dec, &cin, &cout)
	out.DataLeft = int(cout.dataLeft)
	out.StrmCurrBusAddress = uint32(cout.strmCurrBusAddress)
	return g1.MP4Ret(ret)
}

func (m *mp4Decoder) GetInfo(info *g1.MP4Info) g1.MP4Ret {
	var c C.MP4DecInfo
	ret := g1.MP4Ret(C.MP4DecGetInfo(m.dec, &c))
	if ret != g1.MP4OK {
		return ret
	}
	format := g1.MP4StreamMPEG4
	for f, v := range mp4StreamFormats {
		if v == C.MP4DecStrmFmt(c.streamFormat) {
			format = f
		}
	}
	*info = g1.MP4Info{
		FrameWidth:      int(c.frameWidth),
		FrameHeight:     int(c.frameHeight),
		CodedWidth:      int(c.codedWidth),
		CodedHeight:     int(c.codedHeight),
		StreamFormat:    format,
		ProfileAndLevel: int(c.profileAndLevelIndication),
		VideoFormat:     int(c.videoFormat),
		VideoRange:      int(c.videoRange),
		ParWidth:        int(c.parWidth),
		ParHeight:       int(c.parHeight),
		Interlaced:      c.interlacedSequence != 0,
		DPBMode:         int(c.dpbMode),
		MultiBuffPPSize: int(c.multiBuffPpSize),
		OutputFormat:    outputFormatOf(C.u32(c.outputFormat)),
	}
	return ret
}

func (m *mp4Decoder) NextPicture(pic *g1.MP4Picture, flush bool) g1.MP4Ret {
	var c C.MP4DecPicture
	ret := g1.MP4Ret(C.MP4DecNextPicture(m.dec, &c, cbool(flush)))
	*pic = g1.MP4Picture{
		FrameWidth:       int(c.frameWidth),
		FrameHeight:      int(c.frameHeight),
		OutputBusAddress: uint32(c.outputPictureBusAddress),
		PicID:            uint32(c.picId),
		KeyPicture:       c.keyPicture != 0,
		NbrOfErrMBs:      int(c.nbrOfErrMBs),
	}
	return ret
}

// VP8

type vp8Decoder struct {
	dec C.VP8DecInst
}

func (d *device) NewVP8Decoder(cfg g1.VP8Config) (g1.VP8Decoder, error) {
	v := &vp8Decoder{}
	ret := g1.VP8Ret(C.VP8DecInit(&v.dec,
		C.VP8DecFormat(cfg.Format),
		cbool(cfg.VideoFreezeConcealment),
		C.u32(cfg.NumFrameBuffers),
		C.DEC_REF_FRM_RASTER_SCAN))
	if ret != g1.VP8OK {
		return nil, ret
	}
	return v, nil
}

func (v *vp8Decoder) inst() unsafe.Pointer {
	return unsafe.Pointer(v.dec)
}

func (v *vp8Decoder) Release() {
	C.VP8DecRelease(v.dec)
}

func (v *vp8Decoder) Decode(in *g1.VP8Input, out *g1.VP8Output) g1.VP8Ret {
	var cin C.VP8DecInput
	var cout C.VP8DecOutput
	cin.pStream = stream(in.Stream)
	cin.dataLen = C.u32(len(in.Stream))
	cin.streamBusAddress = C.g1_addr_t(in.BusAddress)
	cin.sliceHeight = C.u32(in.SliceHeight)

	ret := C.VP8DecDecode(v.dec, &cin, &cout)
	out.DataLeft = int(cout.dataLeft)
	return g1.VP8Ret(ret)
}

func (v *vp8Decoder) GetInfo(info *g1.VP8Info) g1.VP8Ret {
	var c C.VP8DecInfo
	ret := g1.VP8Ret(C.VP8DecGetInfo(v.dec, &c))
	if ret != g1.VP8OK {
		return ret
	}
	*info = g1.VP8Info{
		VpVersion:    int(c.vpVersion),
		VpProfile:    int(c.vpProfile),
		CodedWidth:   int(c.codedWidth),
		CodedHeight:  int(c.codedHeight),
		FrameWidth:   int(c.frameWidth),
		FrameHeight:  int(c.frameHeight),
		ScaledWidth:  int(c.scaledWidth),
		ScaledHeight: int(c.scaledHeight),
		DPBMode:      int(c.dpbMode),
		OutputFormat: outputFormatOf(C.u32(c.outputFormat)),
	}
	return ret
}

func (v *vp8Decoder) NextPicture(pic *g1.VP8Picture, flush bool) g1.VP8Ret {
	var c C.VP8DecPicture
	ret := g1.VP8Ret(C.VP8DecNextPicture(v.dec, &c, cbool(flush)))
	*pic = g1.VP8Picture{
		FrameWidth:          int(c.frameWidth),
		FrameHeight:         int(c.frameHeight),
		CodedWidth:          int(c.codedWidth),
		CodedHeight:         int(c.codedHeight),
		OutputBusAddress:    uint32(c.outputFrameBusAddress),
		PicID:               uint32(c.picId),
		IsIntraFrame:        c.isIntraFrame != 0,
		IsGoldenOrAlternate: c.isGoldenOrAlternate != 0,
		NbrOfErrMBs:         int(c.nbrOfErrMBs),
	}
	return ret
}

// JPEG

type jpegDecoder struct {
	dec C.JpegDecInst
}

func (d *device) NewJPEGDecoder() (g1.JPEGDecoder, error) {
	j := &jpegDecoder{}
	if ret := g1.JPEGRet(C.JpegDecInit(&j.dec)); ret != g1.JPEGOK {
		return nil, ret
	}
	return j, nil
}

func (j *jpegDecoder) inst() unsafe.Pointer {
	return unsafe.Pointer(j.dec)
}

func (j *jpegDecoder) Release() {
	C.JpegDecRelease(j.dec)
}

func jpegInput(in *g1.JPEGInput) C.JpegDecInput {
	var cin C.JpegDecInput
	if len(in.Stream) > 0 {
		cin.streamBuffer.pVirtualAddress = (*C.u32)(unsafe.Pointer(&in.Stream[0]))
	}
	cin.streamBuffer.busAddress = C.g1_addr_t(in.BusAddress)
	cin.streamLength = C.u32(len(in.Stream))
	cin.decImageType = C.u32(in.DecImageType)
	cin.sliceMbSet = C.u32(in.SliceMbSet)
	return cin
}

func jpegOutputFormatOf(f C.u32) g1.OutputFormat {
	if f == C.JPEGDEC_YCbCr400 {
		return g1.OutputYUV400
	}
	return g1.OutputSemiplanar420
}

func (j *jpegDecoder) GetImageInfo(in *g1.JPEGInput, info *g1.JPEGImageInfo) g1.JPEGRet {
	cin := jpegInput(in)
	var c C.JpegDecImageInfo
	ret := g1.JPEGRet(C.JpegDecGetImageInfo(j.dec, &cin, &c))
	if ret != g1.JPEGOK {
		return ret
	}
	*info = g1.JPEGImageInfo{
		DisplayWidth:       int(c.displayWidth),
		DisplayHeight:      int(c.displayHeight),
		OutputWidth:        int(c.outputWidth),
		OutputHeight:       int(c.outputHeight),
		Version:            int(c.version),
		Units:              int(c.units),
		XDensity:           int(c.xDensity),
		YDensity:           int(c.yDensity),
		OutputFormat:       jpegOutputFormatOf(C.u32(c.outputFormat)),
		CodingMode:         int(c.codingMode),
		ThumbnailType:      g1.JPEGThumbnailType(c.thumbnailType),
		DisplayWidthThumb:  int(c.displayWidthThumb),
		DisplayHeightThumb: int(c.displayHeightThumb),
		OutputWidthThumb:   int(c.outputWidthThumb),
		OutputHeightThumb:  int(c.outputHeightThumb),
		OutputFormatThumb:  jpegOutputFormatOf(C.u32(c.outputFormatThumb)),
		CodingModeThumb:    int(c.codingModeThumb),
	}
	return ret
}

func (j *jpegDecoder) Decode(in *g1.JPEGInput, out *g1.JPEGOutput) g1.JPEGRet {
	cin := jpegInput(in)
	var cout C.JpegDecOutput

	ret := C.JpegDecDecode(j.dec, &cin, &cout)
	out.LumaBusAddress = uint32(cout.outputPictureY.busAddress)
	out.ChromaBusAddress = uint32(cout.outputPictureCbCr.busAddress)
	return g1.JPEGRet(ret)
}
