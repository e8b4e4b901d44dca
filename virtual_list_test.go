package vtview

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xqrs/vtview/internal/frame"
)

// textRow is the row primitive used by the list tests.
type textRow struct {
	*Box
	text string
}

func (r *textRow) Draw(screen tcell.Screen) {
	x, y, width, _ := r.GetRect()
	Print(screen, r.text, x, y, width, AlignmentLeft, Styles.PrimaryTextColor)
}

func newTestList(t *testing.T, rows int, opts ...Option) *VirtualList {
	t.Helper()
	opts = append([]Option{
		WithItemHeight(1),
		WithScrollBar(false),
		WithCreateItemFunc(func(*Slot) Primitive {
			return &textRow{Box: NewBox()}
		}),
		WithLoadItemFunc(func(slot *Slot) {
			slot.Node().(*textRow).text = fmt.Sprint(slot.Data())
		}),
	}, opts...)
	l, err := NewVirtualList(opts...)
	require.NoError(t, err)
	l.SetItems(makeRows(rows))
	return l
}

func lineAt(screen tcell.Screen, y, width int) string {
	var b strings.Builder
	for x := 0; x < width; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func TestNewVirtualListValidates(t *testing.T) {
	create := WithCreateItemFunc(func(*Slot) Primitive { return NewBox() })

	_, err := NewVirtualList(create)
	assert.ErrorIs(t, err, ErrInvalidItemHeight)

	_, err = NewVirtualList(create, WithItemHeight(1), WithBufferPadding(-1))
	assert.ErrorIs(t, err, ErrInvalidBufferPadding)

	_, err = NewVirtualList(WithItemHeight(1))
	assert.ErrorIs(t, err, ErrMissingCreateItem)

	l, err := NewVirtualList(create, WithItemHeight(2))
	require.NoError(t, err)
	assert.NotNil(t, l.ScrollBar())
	assert.Zero(t, l.Extent())
}

func TestVirtualListDrawsVisibleRows(t *testing.T) {
	screen := newTestScreen(t, 10, 5)
	l := newTestList(t, 100)
	l.SetRect(0, 0, 10, 5)
	l.Draw(screen)

	for y := 0; y < 5; y++ {
		assert.Equal(t, fmt.Sprintf("row %d", y), lineAt(screen, y, 10))
	}
	assert.Len(t, l.Window().Slots, 7)

	l.ScrollTo(10)
	l.Draw(screen)
	for y := 0; y < 5; y++ {
		assert.Equal(t, fmt.Sprintf("row %d", 10+y), lineAt(screen, y, 10))
	}

	snap := l.Window()
	assert.Equal(t, 10, snap.LastY)
	assert.Len(t, snap.Slots, 7)
	assert.Equal(t, 7, snap.Stats.Created)
}

func TestVirtualListTallRowsAreClipped(t *testing.T) {
	screen := newTestScreen(t, 10, 6)
	l := newTestList(t, 20, WithItemHeight(3))
	l.SetRect(0, 1, 10, 4)

	// Row 1 starts one cell above the viewport, so only its last two cells
	// and the top of row 2 are inside.
	l.ScrollTo(4)
	l.Draw(screen)

	assert.Equal(t, 60, l.Extent())
	assert.Equal(t, "", lineAt(screen, 0, 10))
	assert.Equal(t, "", lineAt(screen, 1, 10))
	assert.Equal(t, "row 2", lineAt(screen, 3, 10))
	assert.Equal(t, "", lineAt(screen, 5, 10))
}

func TestVirtualListScrollClamps(t *testing.T) {
	l := newTestList(t, 100)
	l.SetRect(0, 0, 10, 5)

	assert.Equal(t, 95, l.ScrollTo(1000).ScrollOffset())
	assert.Equal(t, 0, l.ScrollBy(-200).ScrollOffset())
	assert.Equal(t, 95, l.ScrollToEnd().ScrollOffset())
	assert.Equal(t, 0, l.ScrollToStart().ScrollOffset())

	// Fewer rows than fit never scroll.
	short := newTestList(t, 3)
	short.SetRect(0, 0, 10, 5)
	assert.Equal(t, 0, short.ScrollTo(2).ScrollOffset())
}

func TestVirtualListSetItemsClampsScroll(t *testing.T) {
	screen := newTestScreen(t, 10, 5)
	l := newTestList(t, 100)
	l.SetRect(0, 0, 10, 5)
	l.ScrollToEnd()
	l.Draw(screen)

	l.SetItems(makeRows(10))
	assert.Equal(t, 5, l.ScrollOffset())
	assert.Equal(t, 10, l.Extent())
	assert.Len(t, l.Items(), 10)

	l.Draw(screen)
	assert.Equal(t, "row 5", lineAt(screen, 0, 10))
	assert.Equal(t, "row 9", lineAt(screen, 4, 10))

	l.SetItems(nil)
	l.Draw(screen)
	assert.Equal(t, 0, l.ScrollOffset())
	assert.Empty(t, l.Window().Slots)
	assert.Equal(t, "", lineAt(screen, 0, 10))
}

func TestVirtualListFilteredWhileScrolled(t *testing.T) {
	screen := newTestScreen(t, 20, 18)
	l := newTestList(t, 100, WithItemHeight(2))
	l.SetRect(0, 0, 20, 18)
	l.ScrollTo(150)
	l.Draw(screen)

	l.SetItems(makeRows(8))
	l.Draw(screen)
	assert.Equal(t, 0, l.ScrollOffset())
	for i := 0; i < 8; i++ {
		assert.Equal(t, fmt.Sprintf("row %d", i), lineAt(screen, i*2, 20))
	}
	assert.Equal(t, "", lineAt(screen, 16, 20))
}

func TestVirtualListKeys(t *testing.T) {
	l := newTestList(t, 100)
	l.SetRect(0, 0, 10, 5)

	key := func(k tcell.Key, r rune) Command {
		return l.InputHandler(tcell.NewEventKey(k, r, tcell.ModNone))
	}

	assert.Equal(t, ConsumeEventCommand{}, key(tcell.KeyUp, 0))
	assert.Equal(t, RedrawCommand{}, key(tcell.KeyDown, 0))
	assert.Equal(t, 1, l.ScrollOffset())
	assert.Equal(t, RedrawCommand{}, key(tcell.KeyRune, 'j'))
	assert.Equal(t, 2, l.ScrollOffset())
	assert.Equal(t, RedrawCommand{}, key(tcell.KeyRune, 'k'))
	assert.Equal(t, 1, l.ScrollOffset())

	assert.Equal(t, RedrawCommand{}, key(tcell.KeyPgDn, 0))
	assert.Equal(t, 5, l.ScrollOffset())
	assert.Equal(t, RedrawCommand{}, key(tcell.KeyPgUp, 0))
	assert.Equal(t, 1, l.ScrollOffset())

	assert.Equal(t, RedrawCommand{}, key(tcell.KeyRune, 'G'))
	assert.Equal(t, 95, l.ScrollOffset())
	assert.Equal(t, RedrawCommand{}, key(tcell.KeyHome, 0))
	assert.Equal(t, 0, l.ScrollOffset())

	assert.Nil(t, key(tcell.KeyRune, 'x'))
}

func TestVirtualListDisabledKey(t *testing.T) {
	keys := DefaultVirtualListKeyMap()
	keys.Down.SetEnabled(false)
	l := newTestList(t, 100, WithKeyMap(keys))
	l.SetRect(0, 0, 10, 5)

	assert.Nil(t, l.InputHandler(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)))
	assert.Equal(t, 0, l.ScrollOffset())
}

func TestVirtualListMouse(t *testing.T) {
	screen := newTestScreen(t, 10, 5)
	l := newTestList(t, 100)
	l.SetRect(0, 0, 10, 5)
	l.Draw(screen)

	wheel := tcell.NewEventMouse(2, 2, tcell.WheelDown, tcell.ModNone)
	_, cmd := l.MouseHandler(MouseScrollDown, wheel)
	assert.Equal(t, RedrawCommand{}, cmd)
	assert.Equal(t, 3, l.ScrollOffset())

	_, cmd = l.MouseHandler(MouseScrollUp, wheel)
	assert.Equal(t, RedrawCommand{}, cmd)
	_, cmd = l.MouseHandler(MouseScrollUp, wheel)
	assert.Equal(t, ConsumeEventCommand{}, cmd)
	assert.Equal(t, 0, l.ScrollOffset())

	outside := tcell.NewEventMouse(20, 2, tcell.WheelDown, tcell.ModNone)
	capture, cmd := l.MouseHandler(MouseScrollDown, outside)
	assert.Nil(t, capture)
	assert.Nil(t, cmd)

	_, cmd = l.MouseHandler(MouseLeftDown, wheel)
	assert.Equal(t, SetFocusCommand{Target: l}, cmd)
}

func TestVirtualListClick(t *testing.T) {
	screen := newTestScreen(t, 10, 5)
	l := newTestList(t, 100)
	l.SetRect(0, 0, 10, 5)

	var clicked *Slot
	l.SetClickedFunc(func(slot *Slot) {
		clicked = slot
	})
	l.ScrollTo(10)
	l.Draw(screen)

	_, cmd := l.MouseHandler(MouseLeftClick, tcell.NewEventMouse(1, 2, tcell.ButtonNone, tcell.ModNone))
	assert.Equal(t, RedrawCommand{}, cmd)
	require.NotNil(t, clicked)
	assert.Equal(t, 12, clicked.Index())
	assert.Equal(t, "row 12", clicked.Data())
}

func TestVirtualListScrollBar(t *testing.T) {
	screen := newTestScreen(t, 10, 5)
	l := newTestList(t, 100, WithScrollBar(true))
	l.SetItems([]any{"abcdefghijkl", "b", "c", "d", "e", "f", "g", "h"})
	l.SetRect(0, 0, 10, 5)
	l.Draw(screen)

	assert.Equal(t, "abcdefghi", lineAt(screen, 0, 9))
	r, _, _, _ := screen.GetContent(9, 0)
	assert.NotEqual(t, 'j', r)
	assert.NotEqual(t, ' ', r)

	extent, viewport, offset := l.ScrollBar().Position()
	assert.Equal(t, []int{8, 5, 0}, []int{extent, viewport, offset})
	assert.Equal(t, 9, l.Window().Slots[0].Rect.Width)
}

func TestVirtualListWithScheduler(t *testing.T) {
	var frames frame.Buffer
	l := newTestList(t, 100, WithFrameScheduler(&frames))
	l.SetRect(0, 0, 10, 5)

	l.ScrollTo(10)
	l.ScrollTo(20)
	assert.Equal(t, 1, frames.Len())
	assert.True(t, l.Window().Pending)

	// Drawing does not run the settlement, the scheduler owner does.
	l.Draw(newTestScreen(t, 10, 5))
	assert.True(t, l.Window().Pending)

	frames.Flush()
	snap := l.Window()
	assert.False(t, snap.Pending)
	assert.Equal(t, 20, snap.LastY)
}

func TestVirtualListResize(t *testing.T) {
	l := newTestList(t, 100)
	l.SetRect(0, 0, 10, 5)
	require.Len(t, l.Window().Slots, 7)

	l.SetRect(0, 0, 10, 10)
	snap := l.Window()
	assert.Equal(t, 10, snap.ViewportHeight)
	assert.Equal(t, 12, snap.Target)
	assert.Len(t, snap.Slots, 12)

	// Moving the list without changing its height leaves the pool alone.
	created := snap.Stats.Created
	l.SetRect(3, 3, 10, 10)
	assert.Equal(t, created, l.Window().Stats.Created)
}

func TestVirtualListClose(t *testing.T) {
	unloaded := 0
	l := newTestList(t, 100, WithUnloadItemFunc(func(*Slot) { unloaded++ }))
	l.SetRect(0, 0, 10, 5)
	before := unloaded

	l.Close()
	assert.Equal(t, before+7, unloaded)
	resize, scroll := l.geometry.subscribers()
	assert.Zero(t, resize)
	assert.Zero(t, scroll)

	// Scrolling a closed list no longer reaches the window.
	l.ScrollTo(10)
	assert.False(t, l.Window().Pending)
}

func TestItemsOf(t *testing.T) {
	assert.Equal(t, []any{1, 2, 3}, ItemsOf([]int{1, 2, 3}))
	assert.Empty(t, ItemsOf[string](nil))
}
