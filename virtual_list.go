package vtview

import (
	"github.com/gdamore/tcell/v2"
	"github.com/go-logr/logr"

	"github.com/xqrs/vtview/internal/frame"
	"github.com/xqrs/vtview/keybind"
)

// wheelRows is how many rows one mouse wheel step scrolls.
const wheelRows = 3

// VirtualList displays a long list of fixed-height rows while only keeping a
// small pool of row primitives alive. The pool is managed by a [Window] which
// recycles the primitives as rows scroll in and out of view.
//
// Row primitives are created with the CreateItemFunc option and bound to row
// data through the LoadItemFunc option:
//
//	list, err := vtview.NewVirtualList(
//	    vtview.WithItemHeight(1),
//	    vtview.WithCreateItemFunc(func(*vtview.Slot) vtview.Primitive {
//	        return newRow()
//	    }),
//	    vtview.WithLoadItemFunc(func(slot *vtview.Slot) {
//	        slot.Node().(*row).SetText(slot.Data().(string))
//	    }),
//	)
type VirtualList struct {
	*Box

	window   *Window
	geometry geometryEmitter

	// Used for deferred settlements when no scheduler was configured.
	frames frame.Buffer

	// Scroll offset and inner height as last announced to the window.
	scroll int
	height int

	scrollBar *ScrollBar
	keyMap    VirtualListKeyMap

	clicked func(slot *Slot)

	logger logr.Logger
}

// NewVirtualList returns a new virtual list. It fails if the options do not
// describe a usable list, see the errors in this package.
func NewVirtualList(opts ...Option) (*VirtualList, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	l := &VirtualList{
		Box:    NewBox(),
		keyMap: cfg.keyMap,
		logger: cfg.logger.WithName("list"),
	}
	if cfg.scheduler == nil {
		cfg.scheduler = &l.frames
	}
	if cfg.scrollBar {
		l.scrollBar = NewScrollBar()
	}
	l.window = newWindow(cfg, &l.geometry)
	return l, nil
}

// ItemsOf converts a typed slice into list items.
func ItemsOf[T any](rows []T) []any {
	items := make([]any, len(rows))
	for i, row := range rows {
		items[i] = row
	}
	return items
}

// SetItems replaces the rows of the list. The scroll offset is clamped to the
// new extent.
func (l *VirtualList) SetItems(items []any) *VirtualList {
	l.window.SetItems(items)
	l.scrollTo(l.scroll)
	return l
}

// Items returns the rows of the list.
func (l *VirtualList) Items() []any {
	return l.window.Items()
}

// Extent returns the height of all rows together, in cells.
func (l *VirtualList) Extent() int {
	return l.window.Extent()
}

// ScrollOffset returns the current scroll offset in cells.
func (l *VirtualList) ScrollOffset() int {
	return l.scroll
}

// ScrollTo scrolls to the given offset. The offset is clamped so the last row
// can not move above the bottom of the viewport.
func (l *VirtualList) ScrollTo(offset int) *VirtualList {
	l.scrollTo(offset)
	return l
}

// ScrollBy scrolls by delta cells. Positive values scroll down.
func (l *VirtualList) ScrollBy(delta int) *VirtualList {
	l.scrollTo(l.scroll + delta)
	return l
}

// ScrollToStart scrolls to the first row.
func (l *VirtualList) ScrollToStart() *VirtualList {
	l.scrollTo(0)
	return l
}

// ScrollToEnd scrolls so the last row sits at the bottom of the viewport.
func (l *VirtualList) ScrollToEnd() *VirtualList {
	l.scrollTo(l.maxScroll())
	return l
}

func (l *VirtualList) maxScroll() int {
	return max(l.Extent()-l.height, 0)
}

// scrollTo clamps and applies offset and reports whether it changed.
func (l *VirtualList) scrollTo(offset int) bool {
	offset = min(max(offset, 0), l.maxScroll())
	if offset == l.scroll {
		return false
	}
	l.scroll = offset
	l.logger.V(2).Info("scrolled", "offset", offset)
	l.geometry.emitScroll(offset)
	return true
}

// Window returns a copy of the window state for inspection.
func (l *VirtualList) Window() WindowSnapshot {
	return l.window.Snapshot()
}

// KeyMap returns the key bindings of the list.
func (l *VirtualList) KeyMap() VirtualListKeyMap {
	return l.keyMap
}

// SetClickedFunc sets a handler which is called with the slot of a row that
// was clicked.
func (l *VirtualList) SetClickedFunc(handler func(slot *Slot)) *VirtualList {
	l.clicked = handler
	return l
}

// ScrollBar returns the scroll bar, or nil if the list was created without one.
func (l *VirtualList) ScrollBar() *ScrollBar {
	return l.scrollBar
}

// Close releases all row primitives. The list must not be used afterwards.
func (l *VirtualList) Close() {
	l.window.Close()
}

// SetRect sets a new position of the list and resizes the pool if the height
// changed.
func (l *VirtualList) SetRect(x, y, width, height int) {
	l.Box.SetRect(x, y, width, height)
	l.syncGeometry()
}

// contentWidth returns the width left for rows next to the scroll bar.
func (l *VirtualList) contentWidth(width int) int {
	if l.scrollBar != nil && width > 1 {
		return width - 1
	}
	return width
}

func (l *VirtualList) syncGeometry() {
	_, _, width, height := l.GetInnerRect()
	l.window.setViewportWidth(l.contentWidth(width))
	if height == l.height {
		return
	}
	l.height = height
	l.geometry.emitResize(height)
	l.scrollTo(l.scroll)
}

// Draw draws this primitive onto the screen.
func (l *VirtualList) Draw(screen tcell.Screen) {
	l.DrawForSubclass(screen, l)
	l.syncGeometry()
	l.frames.Flush()

	x, y, width, height := l.GetInnerRect()
	if width <= 0 || height <= 0 {
		return
	}
	rowWidth := l.contentWidth(width)

	clipped := newClippedScreen(screen, x, y, rowWidth, height)
	for _, slot := range l.window.Slots() {
		if !slot.Loaded() {
			continue
		}
		rect := slot.Rect()
		if rect.Bottom() <= 0 || rect.Top() >= height {
			continue
		}
		slot.node.SetRect(x, y+rect.Y, rowWidth, rect.Height)
		slot.node.Draw(clipped)
	}

	if l.scrollBar != nil && rowWidth < width {
		l.scrollBar.SetRect(x+rowWidth, y, 1, height)
		l.scrollBar.SetPosition(l.Extent(), height, l.scroll)
		l.scrollBar.Draw(screen)
	}
}

// InputHandler scrolls the list according to its key map.
func (l *VirtualList) InputHandler(event *tcell.EventKey) Command {
	ih := l.window.ItemHeight()
	page := max(l.height-ih, ih)

	var changed bool
	switch {
	case keybind.Matches(event, l.keyMap.Up):
		changed = l.scrollTo(l.scroll - ih)
	case keybind.Matches(event, l.keyMap.Down):
		changed = l.scrollTo(l.scroll + ih)
	case keybind.Matches(event, l.keyMap.PageUp):
		changed = l.scrollTo(l.scroll - page)
	case keybind.Matches(event, l.keyMap.PageDown):
		changed = l.scrollTo(l.scroll + page)
	case keybind.Matches(event, l.keyMap.Top):
		changed = l.scrollTo(0)
	case keybind.Matches(event, l.keyMap.Bottom):
		changed = l.scrollTo(l.maxScroll())
	default:
		return nil
	}

	if changed {
		return RedrawCommand{}
	}
	return ConsumeEventCommand{}
}

// MouseHandler scrolls on wheel events and reports clicked rows.
func (l *VirtualList) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	x, y := event.Position()
	if !l.InRect(x, y) {
		return nil, nil
	}

	ih := l.window.ItemHeight()
	switch action {
	case MouseLeftDown:
		return nil, SetFocusCommand{Target: l}
	case MouseLeftClick:
		if slot := l.slotAt(x, y); slot != nil && l.clicked != nil {
			l.clicked(slot)
			return nil, RedrawCommand{}
		}
		return nil, ConsumeEventCommand{}
	case MouseScrollUp:
		if l.scrollTo(l.scroll - wheelRows*ih) {
			return nil, RedrawCommand{}
		}
		return nil, ConsumeEventCommand{}
	case MouseScrollDown:
		if l.scrollTo(l.scroll + wheelRows*ih) {
			return nil, RedrawCommand{}
		}
		return nil, ConsumeEventCommand{}
	}
	return nil, nil
}

// slotAt returns the loaded slot drawn at the given screen position.
func (l *VirtualList) slotAt(x, y int) *Slot {
	innerX, innerY, width, _ := l.GetInnerRect()
	if x < innerX || x >= innerX+l.contentWidth(width) {
		return nil
	}
	row := y - innerY
	for _, slot := range l.window.Slots() {
		if !slot.Loaded() {
			continue
		}
		if rect := slot.Rect(); row >= rect.Top() && row < rect.Bottom() {
			return slot
		}
	}
	return nil
}

var _ Primitive = &VirtualList{}

// clippedScreen drops every cell outside its rectangle.
type clippedScreen struct {
	tcell.Screen
	x      int
	y      int
	width  int
	height int
}

func newClippedScreen(screen tcell.Screen, x, y, width, height int) *clippedScreen {
	return &clippedScreen{
		Screen: screen,
		x:      x,
		y:      y,
		width:  width,
		height: height,
	}
}

func (s *clippedScreen) inBounds(x, y int) bool {
	return x >= s.x && x < s.x+s.width && y >= s.y && y < s.y+s.height
}

func (s *clippedScreen) SetContent(x int, y int, primary rune, combining []rune, style tcell.Style) {
	if !s.inBounds(x, y) {
		return
	}
	s.Screen.SetContent(x, y, primary, combining, style)
}

func (s *clippedScreen) ShowCursor(x int, y int) {
	if !s.inBounds(x, y) {
		s.Screen.HideCursor()
		return
	}
	s.Screen.ShowCursor(x, y)
}
