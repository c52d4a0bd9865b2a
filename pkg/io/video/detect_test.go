package video

import (
	"errors"
	"image"
	"testing"
)

func TestDetectChanges(t *testing.T) {
	sizes := []Property{
		{Width: 1920, Height: 1080},
		{Width: 1920, Height: 1080},
		{Width: 1280, Height: 720},
		{Width: 1280, Height: 720},
		{Width: 1280, Height: 1080},
	}

	var (
		i        int
		released int
	)
	src := ReaderFunc(func() (image.Image, func(), error) {
		if i == len(sizes) {
			return nil, func() {}, errors.New("done")
		}
		p := sizes[i]
		i++
		return image.NewGray(image.Rect(0, 0, p.Width, p.Height)), func() { released++ }, nil
	})

	var changes []Property
	r := DetectChanges(func(p Property) {
		changes = append(changes, p)
	})(src)

	for range sizes {
		img, release, err := r.Read()
		if err != nil {
			t.Fatal(err)
		}
		if img == nil {
			t.Fatal("expected an image")
		}
		release()
	}

	want := []Property{sizes[0], sizes[2], sizes[4]}
	if len(changes) != len(want) {
		t.Fatalf("expected %d changes, got %v", len(want), changes)
	}
	for j := range want {
		if changes[j] != want[j] {
			t.Errorf("change %d: expected %v, got %v", j, want[j], changes[j])
		}
	}

	if released != len(sizes) {
		t.Errorf("expected %d releases, got %d", len(sizes), released)
	}

	if _, _, err := r.Read(); err == nil {
		t.Error("expected the source error")
	}
}
