package video

// Property is the geometry of a video.
type Property struct {
	Width, Height int
}
