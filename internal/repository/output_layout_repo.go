package repository

// OutputLayout defines where emitted volumes and the optional cover live.
type OutputLayout interface {
	// VolumePath returns the output path for a volume title with extension ext.
	VolumePath(title, ext string) string
	// ReadCover returns the cover image, or nil when there is none.
	ReadCover() ([]byte, error)
}
