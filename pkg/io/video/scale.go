package video

import (
	"errors"
	"image"

	"golang.org/x/image/draw"
)

// Scaler represents scaling algorithm
type Scaler draw.Scaler

// List of scaling algorithms
var (
	ScalerNearestNeighbor = Scaler(draw.NearestNeighbor)
	ScalerApproxBiLinear  = Scaler(draw.ApproxBiLinear)
	ScalerBiLinear        = Scaler(draw.BiLinear)
	ScalerCatmullRom      = Scaler(draw.CatmullRom)
)

var (
	errUnsupportedImageType = errors.New("scaling: unsupported image type")
	errInvalidSize          = errors.New("scaling: width and height are both unset")
)

// Scale returns video scaling transform.
// Setting scaler=nil to use default scaler. (ScalerNearestNeighbor)
// A width or height <= 0 keeps the aspect ratio of the first image.
//
// The source image is released once scaled. The scaled image is reused by
// the next Read.
func Scale(width, height int, scaler Scaler) TransformFunc {
	return func(r Reader) Reader {
		if scaler == nil {
			scaler = ScalerNearestNeighbor
		}

		var (
			rect      image.Rectangle
			imgScaled image.Image
		)
		if width > 0 && height > 0 {
			rect = image.Rect(0, 0, width, height)
		}

		return ReaderFunc(func() (image.Image, func(), error) {
			if width <= 0 && height <= 0 {
				return nil, func() {}, errInvalidSize
			}

			img, release, err := r.Read()
			if err != nil {
				return nil, func() {}, err
			}
			defer release()

			if rect.Empty() {
				b := img.Bounds()
				switch {
				case height <= 0:
					rect = image.Rect(0, 0, width, b.Dy()*width/b.Dx())
				case width <= 0:
					rect = image.Rect(0, 0, b.Dx()*height/b.Dy(), height)
				}
				logger.Debugf("scaling %dx%d to %dx%d", b.Dx(), b.Dy(), rect.Dx(), rect.Dy())
			}

			switch v := img.(type) {
			case *image.RGBA:
				dst, ok := imgScaled.(*image.RGBA)
				if !ok {
					dst = image.NewRGBA(rect)
					imgScaled = dst
				}
				scaler.Scale(dst, rect, v, v.Bounds(), draw.Src, nil)

			case *image.Gray:
				dst, ok := imgScaled.(*image.Gray)
				if !ok {
					dst = image.NewGray(rect)
					imgScaled = dst
				}
				scaler.Scale(dst, rect, v, v.Bounds(), draw.Src, nil)

			case *image.YCbCr:
				dst, ok := imgScaled.(*image.YCbCr)
				if !ok || dst.SubsampleRatio != v.SubsampleRatio {
					dst = image.NewYCbCr(rect, v.SubsampleRatio)
					imgScaled = dst
				}
				scaleYCbCr(scaler, dst, v)

			default:
				return nil, func() {}, errUnsupportedImageType
			}

			return imgScaled, func() {}, nil
		})
	}
}

// scaleYCbCr scales each plane of src into dst on its own.
func scaleYCbCr(scaler Scaler, dst, src *image.YCbCr) {
	srcY, srcCb, srcCr := planes(src)
	dstY, dstCb, dstCr := planes(dst)

	scaler.Scale(dstY, dstY.Rect, srcY, srcY.Rect, draw.Src, nil)
	scaler.Scale(dstCb, dstCb.Rect, srcCb, srcCb.Rect, draw.Src, nil)
	scaler.Scale(dstCr, dstCr.Rect, srcCr, srcCr.Rect, draw.Src, nil)
}

func planes(img *image.YCbCr) (y, cb, cr *image.Gray) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	cw, ch := w, h
	switch img.SubsampleRatio {
	case image.YCbCrSubsampleRatio422:
		cw = (w + 1) / 2
	case image.YCbCrSubsampleRatio420:
		cw, ch = (w+1)/2, (h+1)/2
	}

	y = &image.Gray{Pix: img.Y, Stride: img.YStride, Rect: image.Rect(0, 0, w, h)}
	cb = &image.Gray{Pix: img.Cb, Stride: img.CStride, Rect: image.Rect(0, 0, cw, ch)}
	cr = &image.Gray{Pix: img.Cr, Stride: img.CStride, Rect: image.Rect(0, 0, cw, ch)}
	return y, cb, cr
}
