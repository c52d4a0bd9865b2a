//go:build g1

package native

// #cgo pkg-config: g1decoder
// #include <stdlib.h>
// #include <dwl.h>
// #include <ppapi.h>
// #include <h264decapi.h>
// #include <mp4decapi.h>
// #include <vp8decapi.h>
// #include <jpegdecapi.h>
import "C"

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/pion/hantro/pkg/g1"
	"github.com/pion/hantro/pkg/memalloc"
)

type device struct {
	mu  sync.Mutex
	dwl unsafe.Pointer
}

// Open initializes the driver wrapper layer.
func Open() (Device, error) {
	var params C.DWLInitParam_t
	params.clientType = C.DWL_CLIENT_TYPE_H264_DEC

	dwl := C.DWLInit(&params)
	if dwl == nil {
		return nil, fmt.Errorf("native: DWLInit failed")
	}
	logger.Infof("G1 driver wrapper layer initialized")
	return &device{dwl: unsafe.Pointer(dwl)}, nil
}

func (d *device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dwl == nil {
		return nil
	}
	if ret := C.DWLRelease(C.DWLInstance(d.dwl)); ret != C.DWL_OK {
		return fmt.Errorf("native: DWLRelease failed: %d", int(ret))
	}
	d.dwl = nil
	return nil
}

func cbool(b bool) C.u32 {
	if b {
		return 1
	}
	return 0
}

func stream(b []byte) *C.u8 {
	if len(b) == 0 {
		return nil
	}
	return (*C.u8)(unsafe.Pointer(&b[0]))
}

// instance is implemented by every codec instance so the post-processor
// can be pipelined with it.
type instance interface {
	inst() unsafe.Pointer
}

// Linear memory

func (d *device) NewLinearAllocator() (*memalloc.LinearAllocator, error) {
	if d.dwl == nil {
		return nil, fmt.Errorf("native: device closed")
	}
	return memalloc.NewLinearAllocator("dwl", d), nil
}

func (d *device) MallocLinear(size int) (memalloc.LinearMemory, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var mem C.DWLLinearMem_t
	if ret := C.DWLMallocLinear(C.DWLInstance(d.dwl), C.u32(size), &mem); ret != C.DWL_OK {
		return memalloc.LinearMemory{}, fmt.Errorf("DWLMallocLinear: %d", int(ret))
	}
	return memalloc.LinearMemory{
		Virtual: unsafe.Slice((*byte)(unsafe.Pointer(mem.virtualAddress)), int(mem.size)),
		Bus:     uint32(mem.busAddress),
	}, nil
}

func (d *device) FreeLinear(m memalloc.LinearMemory) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var mem C.DWLLinearMem_t
	mem.virtualAddress = (*C.u32)(unsafe.Pointer(&m.Virtual[0]))
	mem.busAddress = C.g1_addr_t(m.Bus)
	mem.size = C.u32(len(m.Virtual))
	C.DWLFreeLinear(C.DWLInstance(d.dwl), &mem)
}

// Post-processor

var pixelFormats = map[g1.PixelFormat]C.u32{
	g1.PixFmtYCbCr420Planar:       C.PP_PIX_FMT_YCBCR_4_2_0_PLANAR,
	g1.PixFmtYCbCr420Semiplanar:   C.PP_PIX_FMT_YCBCR_4_2_0_SEMIPLANAR,
	g1.PixFmtYCbCr420Tiled:        C.PP_PIX_FMT_YCBCR_4_2_0_TILED,
	g1.PixFmtYCbCr422Interleaved:  C.PP_PIX_FMT_YCBCR_4_2_2_INTERLEAVED,
	g1.PixFmtYCbCr422Semiplanar:   C.PP_PIX_FMT_YCBCR_4_2_2_SEMIPLANAR,
	g1.PixFmtYCrYCb422Interleaved: C.PP_PIX_FMT_YCRYCB_4_2_2_INTERLEAVED,
	g1.PixFmtCbYCrY422Interleaved: C.PP_PIX_FMT_CBYCRY_4_2_2_INTERLEAVED,
	g1.PixFmtYCbCr400:             C.PP_PIX_FMT_YCBCR_4_0_0,
	g1.PixFmtRGB16_555:            C.PP_PIX_FMT_RGB16_5_5_5,
	g1.PixFmtRGB16_565:            C.PP_PIX_FMT_RGB16_5_6_5,
	g1.PixFmtBGR16_555:            C.PP_PIX_FMT_BGR16_5_5_5,
	g1.PixFmtBGR16_565:            C.PP_PIX_FMT_BGR16_5_6_5,
	g1.PixFmtRGB32:                C.PP_PIX_FMT_RGB32,
	g1.PixFmtBGR32:                C.PP_PIX_FMT_BGR32,
}

func pixelFormatOf(c C.u32) g1.PixelFormat {
	for f, v := range pixelFormats {
		if v == c {
			return f
		}
	}
	return g1.PixFmtUnknown
}

var rotations = map[g1.Rotation]C.u32{
	g1.RotationNone:           C.PP_ROTATION_NONE,
	g1.RotationLeft90:         C.PP_ROTATION_LEFT_90,
	g1.Rotation180:            C.PP_ROTATION_180,
	g1.RotationRight90:        C.PP_ROTATION_RIGHT_90,
	g1.RotationHorizontalFlip: C.PP_ROTATION_HOR_FLIP,
	g1.RotationVerticalFlip:   C.PP_ROTATION_VER_FLIP,
}

func rotationOf(c C.u32) g1.Rotation {
	for r, v := range rotations {
		if v == c {
			return r
		}
	}
	return g1.RotationNone
}

var decTypes = map[g1.DecType]C.u32{
	g1.DecTypeH264:  C.PP_PIPELINED_DEC_TYPE_H264,
	g1.DecTypeMPEG4: C.PP_PIPELINED_DEC_TYPE_MPEG4,
	g1.DecTypeJPEG:  C.PP_PIPELINED_DEC_TYPE_JPEG,
	g1.DecTypeVP8:   C.PP_PIPELINED_DEC_TYPE_VP8,
}

type postProcessor struct {
	inst C.PPInst
	// cfg keeps the fields without a Go counterpart between GetConfig and
	// SetConfig.
	cfg C.PPConfig
}

func (d *device) NewPostProcessor() (g1.PostProcessor, error) {
	p := &postProcessor{}
	if ret := g1.PPRet(C.PPInit(&p.inst)); ret != g1.PPOK {
		return nil, ret
	}
	return p, nil
}

func (p *postProcessor) GetConfig(cfg *g1.PPConfig) g1.PPRet {
	ret := g1.PPRet(C.PPGetConfig(p.inst, &p.cfg))
	if ret != g1.PPOK {
		return ret
	}

	c := &p.cfg
	*cfg = g1.PPConfig{
		InImg: g1.PPInImage{
			Width:           int(c.ppInImg.width),
			Height:          int(c.ppInImg.height),
			PixFormat:       pixelFormatOf(c.ppInImg.pixFormat),
			BufferBusAddr:   uint32(c.ppInImg.bufferBusAddr),
			BufferCbBusAddr: uint32(c.ppInImg.bufferCbBusAddr),
			BufferCrBusAddr: uint32(c.ppInImg.bufferCrBusAddr),
			VideoRange:      int(c.ppInImg.videoRange),
		},
		InCrop: g1.PPInCrop{
			Enable:  c.ppInCrop.enable != 0,
			OriginX: int(c.ppInCrop.originX),
			OriginY: int(c.ppInCrop.originY),
			Width:   int(c.ppInCrop.width),
			Height:  int(c.ppInCrop.height),
		},
		InRotation: g1.PPInRotation{Rotation: rotationOf(c.ppInRotation.rotation)},
		OutImg: g1.PPOutImage{
			Width:               int(c.ppOutImg.width),
			Height:              int(c.ppOutImg.height),
			PixFormat:           pixelFormatOf(c.ppOutImg.pixFormat),
			BufferBusAddr:       uint32(c.ppOutImg.bufferBusAddr),
			BufferChromaBusAddr: uint32(c.ppOutImg.bufferChromaBusAddr),
		},
		OutRGB: g1.PPOutRGB{
			Brightness:      int(c.ppOutRgb.brightness),
			Contrast:        int(c.ppOutRgb.contrast),
			Saturation:      int(c.ppOutRgb.saturation),
			DitheringEnable: c.ppOutRgb.ditheringEnable != 0,
		},
		OutMask1: maskOf(&c.ppOutMask1),
		OutMask2: maskOf(&c.ppOutMask2),
		OutFrmBuffer: g1.PPOutFrameBuffer{
			Enable:            c.ppOutFrmBuffer.enable != 0,
			WriteOriginX:      int(c.ppOutFrmBuffer.writeOriginX),
			WriteOriginY:      int(c.ppOutFrmBuffer.writeOriginY),
			FrameBufferWidth:  int(c.ppOutFrmBuffer.frameBufferWidth),
			FrameBufferHeight: int(c.ppOutFrmBuffer.frameBufferHeight),
		},
	}
	return g1.PPOK
}

func maskOf(m *C.PPOutMask1) g1.PPOutMask {
	return g1.PPOutMask{
		Enable:             m.enable != 0,
		OriginX:            int(m.originX),
		OriginY:            int(m.originY),
		Width:              int(m.width),
		Height:             int(m.height),
		AlphaBlendEna:      m.alphaBlendEna != 0,
		BlendComponentBase: uint32(m.blendComponentBase),
		BlendOriginX:       int(m.blendOriginX),
		BlendOriginY:       int(m.blendOriginY),
		BlendWidth:         int(m.blendWidth),
		BlendHeight:        int(m.blendHeight),
	}
}

func setMask(m *C.PPOutMask1, g g1.PPOutMask) {
	m.enable = cbool(g.Enable)
	m.originX = C.i32(g.OriginX)
	m.originY = C.i32(g.OriginY)
	m.width = C.u32(g.Width)
	m.height = C.u32(g.Height)
	m.alphaBlendEna = cbool(g.AlphaBlendEna)
	m.blendComponentBase = C.u32(g.BlendComponentBase)
	m.blendOriginX = C.u32(g.BlendOriginX)
	m.blendOriginY = C.u32(g.BlendOriginY)
	m.blendWidth = C.u32(g.BlendWidth)
	m.blendHeight = C.u32(g.BlendHeight)
}

func (p *postProcessor) SetConfig(cfg *g1.PPConfig) g1.PPRet {
	c := &p.cfg

	c.ppInImg.width = C.u32(cfg.InImg.Width)
	c.ppInImg.height = C.u32(cfg.InImg.Height)
	c.ppInImg.pixFormat = pixelFormats[cfg.InImg.PixFormat]
	c.ppInImg.bufferBusAddr = C.g1_addr_t(cfg.InImg.BufferBusAddr)
	c.ppInImg.bufferCbBusAddr = C.g1_addr_t(cfg.InImg.BufferCbBusAddr)
	c.ppInImg.bufferCrBusAddr = C.g1_addr_t(cfg.InImg.BufferCrBusAddr)
	c.ppInImg.videoRange = C.u32(cfg.InImg.VideoRange)

	c.ppInCrop.enable = cbool(cfg.InCrop.Enable)
	c.ppInCrop.originX = C.u32(cfg.InCrop.OriginX)
	c.ppInCrop.originY = C.u32(cfg.InCrop.OriginY)
	c.ppInCrop.width = C.u32(cfg.InCrop.Width)
	c.ppInCrop.height = C.u32(cfg.InCrop.Height)

	c.ppInRotation.rotation = rotations[cfg.InRotation.Rotation]

	c.ppOutImg.width = C.u32(cfg.OutImg.Width)
	c.ppOutImg.height = C.u32(cfg.OutImg.Height)
	c.ppOutImg.pixFormat = pixelFormats[cfg.OutImg.PixFormat]
	c.ppOutImg.bufferBusAddr = C.g1_addr_t(cfg.OutImg.BufferBusAddr)
	c.ppOutImg.bufferChromaBusAddr = C.g1_addr_t(cfg.OutImg.BufferChromaBusAddr)

	c.ppOutRgb.brightness = C.i32(cfg.OutRGB.Brightness)
	c.ppOutRgb.contrast = C.i32(cfg.OutRGB.Contrast)
	c.ppOutRgb.saturation = C.i32(cfg.OutRGB.Saturation)
	c.ppOutRgb.ditheringEnable = cbool(cfg.OutRGB.DitheringEnable)

	setMask(&c.ppOutMask1, cfg.OutMask1)
	setMask((*C.PPOutMask1)(unsafe.Pointer(&c.ppOutMask2)), cfg.OutMask2)

	c.ppOutFrmBuffer.enable = cbool(cfg.OutFrmBuffer.Enable)
	c.ppOutFrmBuffer.writeOriginX = C.i32(cfg.OutFrmBuffer.WriteOriginX)
	c.ppOutFrmBuffer.writeOriginY = C.i32(cfg.OutFrmBuffer.WriteOriginY)
	c.ppOutFrmBuffer.frameBufferWidth = C.u32(cfg.OutFrmBuffer.FrameBufferWidth)
	c.ppOutFrmBuffer.frameBufferHeight = C.u32(cfg.OutFrmBuffer.FrameBufferHeight)

	return g1.PPRet(C.PPSetConfig(p.inst, c))
}

func (p *postProcessor) CombinedModeEnable(c g1.Codec, t g1.DecType) g1.PPRet {
	i, ok := c.(instance)
	if !ok {
		return g1.PPParamError
	}
	return g1.PPRet(C.PPDecCombinedModeEnable(p.inst, i.inst(), decTypes[t]))
}

func (p *postProcessor) CombinedModeDisable(c g1.Codec) g1.PPRet {
	i, ok := c.(instance)
	if !ok {
		return g1.PPParamError
	}
	return g1.PPRet(C.PPDecCombinedModeDisable(p.inst, i.inst()))
}

func (p *postProcessor) GetResult() g1.PPRet {
	return g1.PPRet(C.PPGetResult(p.inst))
}

func (p *postProcessor) Release() {
	C.PPRelease(p.inst)
}
