package vtview

import (
	"math"

	"github.com/go-logr/logr"

	"github.com/xqrs/vtview/internal/frame"
)

// Trigger identifies what caused a call to [Window.Settle].
type Trigger int

const (
	// TriggerScroll carries a new scroll offset. Settlement is deferred to the
	// next frame and coalesced with other scroll triggers.
	TriggerScroll Trigger = iota
	// TriggerResize carries a new viewport height. The pool is resized
	// immediately.
	TriggerResize
)

func (t Trigger) String() string {
	switch t {
	case TriggerScroll:
		return "scroll"
	case TriggerResize:
		return "resize"
	}
	return "unknown"
}

// windowState is everything the window knows about the container.
type windowState struct {
	// Latest scroll offset reported by the container.
	scrollOffset int
	// Viewport size in cells.
	viewportHeight int
	viewportWidth  int

	itemHeight    int
	bufferPadding int

	// Snapped offset of the last settlement; only meaningful once settled.
	lastY   int
	settled bool

	// Row data changed without a length change; bindings are refreshed on the
	// next settlement.
	stale bool
}

// WindowStats counts pool activity since the window was created.
type WindowStats struct {
	Created     int
	Destroyed   int
	Loads       int
	Unloads     int
	Settlements int
}

// Window maps a scroll offset onto a small pool of recycled slots. It owns the
// dataset, the viewport geometry, the pool and the occupancy map, which are
// only ever mutated from Settle, SetItems, Resize and Update.
//
// Window is not safe for concurrent use; drive it from the UI goroutine.
type Window struct {
	cfg    config
	logger logr.Logger

	state windowState
	items []any

	pool []*Slot
	// Occupancy: row offset -> slot currently loaded there.
	loaded map[int]*Slot

	settlement *frame.Queue
	cancel     []func()

	stats WindowStats
}

// NewWindow returns a window subscribed to source. Scroll settlements are
// deferred through the scheduler configured with [WithFrameScheduler], which
// is required here; [VirtualList] brings its own.
func NewWindow(source GeometrySource, opts ...Option) (*Window, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.scheduler == nil {
		return nil, ErrMissingFrameScheduler
	}
	return newWindow(cfg, source), nil
}

func newWindow(cfg config, source GeometrySource) *Window {
	w := &Window{
		cfg:        cfg,
		logger:     cfg.logger.WithName("window"),
		loaded:     map[int]*Slot{},
		settlement: frame.NewQueue(cfg.scheduler),
	}
	w.state.itemHeight = cfg.itemHeight
	w.state.bufferPadding = cfg.bufferPadding
	if source != nil {
		w.cancel = append(w.cancel,
			source.OnResize(func(height int) { w.Settle(TriggerResize, height) }),
			source.OnScroll(func(offset int) { w.Settle(TriggerScroll, offset) }),
		)
	}
	return w
}

// Settle is the single entry point for geometry changes. Scroll triggers record
// the offset and arm at most one deferred settlement, which reads whatever
// offset is current when it runs. Resize triggers record the height and resize
// the pool right away.
func (w *Window) Settle(trigger Trigger, value int) {
	switch trigger {
	case TriggerScroll:
		w.state.scrollOffset = value
		w.scheduleUpdate()
	case TriggerResize:
		if value < 0 {
			value = 0
		}
		w.state.viewportHeight = value
		w.Resize()
	}
}

func (w *Window) scheduleUpdate() {
	w.settlement.Submit(func() {
		w.Update(false)
	})
}

// SettlementPending returns whether a deferred settlement is waiting for the
// next frame.
func (w *Window) SettlementPending() bool {
	return w.settlement.Pending()
}

// SetItems replaces the dataset. A length change resizes the pool right away;
// otherwise the current bindings are refreshed by the next settlement.
func (w *Window) SetItems(items []any) {
	changed := len(items) != len(w.items)
	w.items = items
	w.state.stale = true
	if changed {
		w.logger.V(1).Info("dataset length changed", "rows", len(items))
		w.Resize()
	}
	if w.state.stale {
		w.scheduleUpdate()
	}
}

// Items returns the current dataset.
func (w *Window) Items() []any {
	return w.items
}

// Extent returns the height of the whole virtual content, in cells.
func (w *Window) Extent() int {
	return len(w.items) * w.state.itemHeight
}

// ItemHeight returns the row height in cells.
func (w *Window) ItemHeight() int {
	return w.state.itemHeight
}

// ScrollOffset returns the latest scroll offset the window was told about.
func (w *Window) ScrollOffset() int {
	return w.state.scrollOffset
}

// Slots returns the pool. The slice is owned by the window.
func (w *Window) Slots() []*Slot {
	return w.pool
}

func (w *Window) setViewportWidth(width int) {
	w.state.viewportWidth = max(width, 0)
}

// targetSize returns the pool size for the current geometry: enough rows to
// cover the viewport plus the padding, but never more rows than exist.
func (w *Window) targetSize() int {
	visible := int(math.Ceil(float64(w.state.viewportHeight) / float64(w.state.itemHeight)))
	size := min(visible, len(w.items)) + w.state.bufferPadding
	return min(size, len(w.items))
}

// snappedOffset rounds the scroll offset to the row grid.
func (w *Window) snappedOffset() int {
	ih := w.state.itemHeight
	return int(math.Round(float64(w.state.scrollOffset)/float64(ih))) * ih
}

func (w *Window) viewport() Rect {
	return Rect{Width: w.state.viewportWidth, Height: w.state.viewportHeight}
}

func (w *Window) inRange(index int) bool {
	return index >= 0 && index < len(w.items)
}

// Resize brings the pool to its target size. It does nothing when the pool
// already has that size. Shrinking never evicts a slot whose row is on
// screen, so the pool may stay larger than the target.
func (w *Window) Resize() {
	target := w.targetSize()
	if target == len(w.pool) {
		return
	}

	if target < len(w.pool) {
		w.shrink(target)
	}
	if target > len(w.pool) {
		w.grow(target)
	}

	w.Update(true)
}

func (w *Window) shrink(target int) {
	viewport := w.viewport()
	for i := len(w.pool) - 1; i >= 0 && len(w.pool) > target; i-- {
		s := w.pool[i]
		if s.Loaded() && s.IsInside(viewport) && w.inRange(s.Index()) {
			continue
		}
		w.destroy(i)
	}
	if len(w.pool) > target {
		w.logger.V(1).Info("pool left oversized, remaining slots are visible", "size", len(w.pool), "target", target)
	} else {
		w.logger.V(1).Info("pool shrunk", "size", len(w.pool))
	}
}

// grow allocates slots for free rows, walking down from the snapped offset and
// then upwards from just above it.
func (w *Window) grow(target int) {
	ih := w.state.itemHeight
	start := min(max(w.snappedOffset()/ih, 0), len(w.items)-1)
	next := func(index int) bool {
		if !w.inRange(index) {
			return false
		}
		offset := index * ih
		if _, ok := w.loaded[offset]; ok {
			return false
		}
		s := newSlot(w)
		w.stats.Created++
		s.load(offset, w.items[index])
		w.loaded[offset] = s
		w.pool = append(w.pool, s)
		return true
	}
	for index := start; index < len(w.items) && len(w.pool) < target; index++ {
		next(index)
	}
	for index := start - 1; index >= 0 && len(w.pool) < target; index-- {
		next(index)
	}
	w.logger.V(1).Info("pool grown", "size", len(w.pool), "target", target)
}

// destroy evicts and removes the slot at pool index i.
func (w *Window) destroy(i int) {
	s := w.pool[i]
	if s.Loaded() {
		s.unload()
		delete(w.loaded, s.offset)
	}
	w.pool = append(w.pool[:i], w.pool[i+1:]...)
	w.stats.Destroyed++
}

// Update settles the pool onto the current scroll offset. It does nothing if
// the snapped offset has not moved since the last settlement, unless force is
// set or the bindings are stale.
func (w *Window) Update(force bool) {
	y := w.snappedOffset()
	if w.state.settled && w.state.lastY == y && !force && !w.state.stale {
		return
	}
	w.stats.Settlements++

	// Evict every slot that left the viewport or whose row no longer exists.
	viewport := w.viewport()
	var freed []*Slot
	for _, s := range w.pool {
		if !s.Loaded() {
			freed = append(freed, s)
			continue
		}
		if !s.IsInside(viewport) || !w.inRange(s.Index()) {
			s.unload()
			delete(w.loaded, s.offset)
			freed = append(freed, s)
		}
	}

	// Slots that stayed put pick up replaced row data.
	if w.state.stale {
		for _, s := range w.pool {
			if s.Loaded() {
				s.load(s.offset, w.items[s.Index()])
			}
		}
	}

	// Reuse freed slots for the rows around y. The floor division leaves one
	// row less above than below when the padding is odd.
	ih := w.state.itemHeight
	half := w.state.bufferPadding / 2
	starved := 0
	for i := range w.pool {
		offset := y + (i-half)*ih
		index := offset / ih
		if _, ok := w.loaded[offset]; ok || !w.inRange(index) {
			continue
		}
		s := takeFreed(&freed, offset)
		if s == nil {
			starved++
			continue
		}
		s.load(offset, w.items[index])
		w.loaded[offset] = s
	}

	// Near the edges of a list capped at its length some candidates fall out of
	// range, so on-screen rows below them can be left without a slot.
	if len(freed) > 0 {
		top := w.state.scrollOffset
		bottom := top + w.state.viewportHeight
		for index := max(top/ih, 0); index < len(w.items) && index*ih < bottom && len(freed) > 0; index++ {
			offset := index * ih
			if _, ok := w.loaded[offset]; ok {
				continue
			}
			s := takeFreed(&freed, offset)
			s.load(offset, w.items[index])
			w.loaded[offset] = s
		}
	}

	// Unused freed slots keep their row if nobody took it, otherwise they wait
	// unassigned for the next settlement.
	for _, s := range freed {
		index := s.Index()
		if _, taken := w.loaded[s.offset]; s.assigned && !taken && w.inRange(index) {
			s.load(s.offset, w.items[index])
			w.loaded[s.offset] = s
			continue
		}
		s.park()
	}

	if starved > 0 {
		w.logger.V(1).Info("settlement left rows unfilled", "rows", starved, "pool", len(w.pool))
	}
	w.logger.V(2).Info("settled", "y", y, "force", force, "pool", len(w.pool))

	w.state.lastY = y
	w.state.settled = true
	w.state.stale = false
}

// takeFreed removes a slot from freed, preferring one that is already
// positioned at offset.
func takeFreed(freed *[]*Slot, offset int) *Slot {
	list := *freed
	if len(list) == 0 {
		return nil
	}
	pick := len(list) - 1
	for i, s := range list {
		if s.assigned && s.offset == offset {
			pick = i
			break
		}
	}
	s := list[pick]
	*freed = append(list[:pick], list[pick+1:]...)
	return s
}

// Close unsubscribes from the geometry source and unloads every slot. The
// window must not be used afterwards.
func (w *Window) Close() {
	for _, cancel := range w.cancel {
		cancel()
	}
	w.cancel = nil
	for len(w.pool) > 0 {
		w.destroy(len(w.pool) - 1)
	}
}

// Stats returns pool activity counters.
func (w *Window) Stats() WindowStats {
	return w.stats
}

// SlotInfo describes one pool slot in a [WindowSnapshot].
type SlotInfo struct {
	Offset   int
	Index    int
	Assigned bool
	Loaded   bool
	Visible  bool
	Rect     Rect
	Data     any
}

// WindowSnapshot is a read-only copy of the window's state.
type WindowSnapshot struct {
	ScrollOffset   int
	LastY          int
	Settled        bool
	ViewportHeight int
	ItemHeight     int
	BufferPadding  int
	Rows           int
	Target         int
	Pending        bool
	Slots          []SlotInfo
	Stats          WindowStats
}

// Snapshot copies the current state. Nothing in the returned value aliases the
// window.
func (w *Window) Snapshot() WindowSnapshot {
	snap := WindowSnapshot{
		ScrollOffset:   w.state.scrollOffset,
		LastY:          w.state.lastY,
		Settled:        w.state.settled,
		ViewportHeight: w.state.viewportHeight,
		ItemHeight:     w.state.itemHeight,
		BufferPadding:  w.state.bufferPadding,
		Rows:           len(w.items),
		Target:         w.targetSize(),
		Pending:        w.settlement.Pending(),
		Slots:          make([]SlotInfo, 0, len(w.pool)),
		Stats:          w.stats,
	}
	viewport := w.viewport()
	for _, s := range w.pool {
		snap.Slots = append(snap.Slots, SlotInfo{
			Offset:   s.offset,
			Index:    s.Index(),
			Assigned: s.assigned,
			Loaded:   s.Loaded(),
			Visible:  s.Loaded() && s.IsInside(viewport),
			Rect:     s.Rect(),
			Data:     s.data,
		})
	}
	return snap
}
