package video

import (
	"image"
)

// DetectChanges calls onChange before the first image and whenever the image
// geometry changes afterwards.
func DetectChanges(onChange func(Property)) TransformFunc {
	return func(r Reader) Reader {
		var (
			current Property
			started bool
		)
		return ReaderFunc(func() (image.Image, func(), error) {
			img, release, err := r.Read()
			if err != nil {
				return nil, func() {}, err
			}

			bounds := img.Bounds()
			p := Property{Width: bounds.Dx(), Height: bounds.Dy()}
			if !started || p != current {
				started = true
				current = p
				onChange(current)
			}

			return img, release, nil
		})
	}
}
