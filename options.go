package vtview

import (
	"fmt"

	"github.com/go-logr/logr"
)

// DefaultBufferPadding is the number of rows kept loaded beyond the visible
// ones when no padding is configured.
const DefaultBufferPadding = 2

// CreateItemFunc creates the visual node for a new slot. It is called once per
// slot; the node is reused for every row the slot is bound to afterwards.
type CreateItemFunc func(slot *Slot) Primitive

// SlotFunc is called with a slot whose binding changed.
type SlotFunc func(slot *Slot)

// FrameScheduler runs callbacks before the next repaint. [Application]
// implements it.
type FrameScheduler interface {
	RequestFrame(fn func())
}

type config struct {
	itemHeight    int
	bufferPadding int

	createItem CreateItemFunc
	loadItem   SlotFunc
	unloadItem SlotFunc

	scheduler FrameScheduler
	logger    logr.Logger

	scrollBar bool
	keyMap    VirtualListKeyMap
}

func defaultConfig() config {
	return config{
		bufferPadding: DefaultBufferPadding,
		logger:        logr.Discard(),
		scrollBar:     true,
		keyMap:        DefaultVirtualListKeyMap(),
	}
}

func (c config) validate() error {
	if c.itemHeight <= 0 {
		return fmt.Errorf("%w (got %d)", ErrInvalidItemHeight, c.itemHeight)
	}
	if c.bufferPadding < 0 {
		return fmt.Errorf("%w (got %d)", ErrInvalidBufferPadding, c.bufferPadding)
	}
	if c.createItem == nil {
		return ErrMissingCreateItem
	}
	return nil
}

// Option configures a VirtualList or a Window.
type Option func(*config)

// WithItemHeight sets the uniform row height in cells. Required.
func WithItemHeight(height int) Option {
	return func(c *config) {
		c.itemHeight = height
	}
}

// WithBufferPadding sets how many rows are kept loaded beyond the visible
// ones. Defaults to [DefaultBufferPadding].
func WithBufferPadding(padding int) Option {
	return func(c *config) {
		c.bufferPadding = padding
	}
}

// WithCreateItemFunc sets the factory for slot nodes. Required.
func WithCreateItemFunc(fn CreateItemFunc) Option {
	return func(c *config) {
		c.createItem = fn
	}
}

// WithLoadItemFunc sets the handler called whenever a slot is bound to a row.
func WithLoadItemFunc(fn SlotFunc) Option {
	return func(c *config) {
		c.loadItem = fn
	}
}

// WithUnloadItemFunc sets the handler called whenever a slot is evicted from
// its row.
func WithUnloadItemFunc(fn SlotFunc) Option {
	return func(c *config) {
		c.unloadItem = fn
	}
}

// WithFrameScheduler routes deferred settlements through scheduler, usually
// the [Application]. Without one, settlements run at the top of the next
// Draw call.
func WithFrameScheduler(scheduler FrameScheduler) Option {
	return func(c *config) {
		c.scheduler = scheduler
	}
}

// WithLogger sets the logger used for pool diagnostics.
func WithLogger(logger logr.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithScrollBar toggles the scroll bar in the right-most column.
func WithScrollBar(show bool) Option {
	return func(c *config) {
		c.scrollBar = show
	}
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(keyMap VirtualListKeyMap) Option {
	return func(c *config) {
		c.keyMap = keyMap
	}
}
