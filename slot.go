package vtview

// Slot is a long-lived placeholder for one row. Its node is created once and
// recycled: the window moves the slot between rows by loading it with a new
// offset and data instead of creating a new node.
type Slot struct {
	window *Window
	node   Primitive

	// Row offset in cells, valid only when assigned is set.
	offset   int
	assigned bool

	data any
}

func newSlot(w *Window) *Slot {
	s := &Slot{window: w}
	s.node = w.cfg.createItem(s)
	if s.node == nil {
		s.node = NewBox()
	}
	return s
}

// Offset returns the row offset the slot is positioned at. The second value
// is false while the slot has not been assigned to any row.
func (s *Slot) Offset() (int, bool) {
	return s.offset, s.assigned
}

// Index returns the dataset index of the slot's row, or -1 if unassigned.
func (s *Slot) Index() int {
	if !s.assigned {
		return -1
	}
	return s.offset / s.window.state.itemHeight
}

// Data returns the row data the slot was last loaded with.
func (s *Slot) Data() any {
	return s.data
}

// Node returns the visual node bound to this slot.
func (s *Slot) Node() Primitive {
	return s.node
}

// Loaded returns whether the slot currently holds its row, i.e. it has been
// loaded and not evicted since.
func (s *Slot) Loaded() bool {
	return s.assigned && s.window.loaded[s.offset] == s
}

// Rect returns the slot's bounding rectangle relative to the viewport. Rows
// above the viewport have a negative Y.
func (s *Slot) Rect() Rect {
	state := &s.window.state
	return Rect{
		Y:      s.offset - state.scrollOffset,
		Width:  state.viewportWidth,
		Height: state.itemHeight,
	}
}

// IsInside returns whether the slot's row overlaps viewport. A row that only
// touches an edge of the viewport does not count.
func (s *Slot) IsInside(viewport Rect) bool {
	if !s.assigned {
		return false
	}
	rect := s.Rect()
	return rect.Top() < viewport.Bottom() && rect.Bottom() > viewport.Top()
}

// load binds the slot to the row at offset. Only the translation changes; the
// node is kept.
func (s *Slot) load(offset int, data any) {
	s.offset = offset
	s.assigned = true
	s.data = data
	s.window.stats.Loads++
	if s.window.cfg.loadItem != nil {
		s.window.cfg.loadItem(s)
	}
}

// unload notifies the owner that the slot leaves its row. The translation is
// left alone until the next load.
func (s *Slot) unload() {
	s.window.stats.Unloads++
	if s.window.cfg.unloadItem != nil {
		s.window.cfg.unloadItem(s)
	}
}

// park drops the slot's row assignment without touching its node.
func (s *Slot) park() {
	s.assigned = false
	s.offset = 0
	s.data = nil
}
