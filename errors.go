package vtview

import "errors"

var (
	// ErrInvalidItemHeight is returned when the row height is missing or not
	// positive.
	ErrInvalidItemHeight = errors.New("vtview: item height must be positive")
	// ErrInvalidBufferPadding is returned for a negative buffer padding.
	ErrInvalidBufferPadding = errors.New("vtview: buffer padding must not be negative")
	// ErrMissingCreateItem is returned when no CreateItemFunc was configured.
	ErrMissingCreateItem = errors.New("vtview: create item function is required")
	// ErrMissingFrameScheduler is returned by [NewWindow] when no
	// FrameScheduler was configured.
	ErrMissingFrameScheduler = errors.New("vtview: frame scheduler is required")
)
