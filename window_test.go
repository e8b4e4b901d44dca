package vtview

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xqrs/vtview/internal/frame"
)

type windowFixture struct {
	w       *Window
	source  *geometryEmitter
	frames  *frame.Buffer
	created int
	loads   []int
	unloads []int
}

func newWindowFixture(t *testing.T, itemHeight, padding int, opts ...Option) *windowFixture {
	t.Helper()
	f := &windowFixture{
		source: &geometryEmitter{},
		frames: &frame.Buffer{},
	}
	base := []Option{
		WithItemHeight(itemHeight),
		WithBufferPadding(padding),
		WithFrameScheduler(f.frames),
		WithCreateItemFunc(func(*Slot) Primitive {
			f.created++
			return NewBox()
		}),
		WithLoadItemFunc(func(s *Slot) {
			f.loads = append(f.loads, s.Index())
		}),
		WithUnloadItemFunc(func(s *Slot) {
			f.unloads = append(f.unloads, s.Index())
		}),
	}
	w, err := NewWindow(f.source, append(base, opts...)...)
	require.NoError(t, err)
	f.w = w
	return f
}

func makeRows(n int) []any {
	rows := make([]any, n)
	for i := range rows {
		rows[i] = fmt.Sprintf("row %d", i)
	}
	return rows
}

// loadedOffsets returns the sorted offsets of every slot holding a row.
func loadedOffsets(w *Window) []int {
	var offsets []int
	for _, s := range w.pool {
		if s.Loaded() {
			offsets = append(offsets, s.offset)
		}
	}
	slices.Sort(offsets)
	return offsets
}

func assertOccupancy(t *testing.T, w *Window) {
	t.Helper()
	seen := map[int]bool{}
	for _, s := range w.pool {
		if !s.assigned {
			continue
		}
		assert.False(t, seen[s.offset], "offset %d held by two slots", s.offset)
		seen[s.offset] = true
		assert.Same(t, s, w.loaded[s.offset], "slot at %d missing from occupancy", s.offset)
	}
	for offset, s := range w.loaded {
		assert.True(t, seen[offset], "orphaned occupancy entry %d", offset)
		assert.Contains(t, w.pool, s)
	}
}

func assertVisibleCoverage(t *testing.T, w *Window) {
	t.Helper()
	ih := w.state.itemHeight
	top := w.state.scrollOffset
	bottom := top + w.state.viewportHeight
	for i := max(top/ih-1, 0); i < len(w.items) && i*ih < bottom; i++ {
		offset := i * ih
		if offset+ih <= top {
			continue
		}
		_, ok := w.loaded[offset]
		assert.True(t, ok, "visible row %d (offset %d) has no slot at scroll %d", i, offset, top)
	}
}

func TestNewWindowValidatesOptions(t *testing.T) {
	create := WithCreateItemFunc(func(*Slot) Primitive { return NewBox() })

	_, err := NewWindow(nil, create)
	assert.True(t, errors.Is(err, ErrInvalidItemHeight))

	_, err = NewWindow(nil, create, WithItemHeight(1), WithBufferPadding(-1))
	assert.True(t, errors.Is(err, ErrInvalidBufferPadding))

	_, err = NewWindow(nil, WithItemHeight(1))
	assert.True(t, errors.Is(err, ErrMissingCreateItem))

	_, err = NewWindow(nil, create, WithItemHeight(1))
	assert.ErrorIs(t, err, ErrMissingFrameScheduler)

	w, err := NewWindow(nil, create, WithItemHeight(1), WithFrameScheduler(&frame.Buffer{}))
	require.NoError(t, err)
	assert.Equal(t, DefaultBufferPadding, w.state.bufferPadding)
}

func TestWindowInitialPool(t *testing.T) {
	f := newWindowFixture(t, 20, 2)
	f.source.emitResize(100)
	f.w.SetItems(makeRows(1000))

	assert.Len(t, f.w.pool, 7)
	assert.Equal(t, []int{0, 20, 40, 60, 80, 100, 120}, loadedOffsets(f.w))
	assert.Equal(t, 7, f.created)
	assert.Equal(t, 20000, f.w.Extent())
	assertOccupancy(t, f.w)
	assertVisibleCoverage(t, f.w)

	for _, s := range f.w.pool {
		assert.Equal(t, fmt.Sprintf("row %d", s.Index()), s.Data())
	}
}

func TestWindowItemsBeforeViewport(t *testing.T) {
	f := newWindowFixture(t, 20, 2)
	f.w.SetItems(makeRows(1000))
	assert.Len(t, f.w.pool, 2)

	f.source.emitResize(100)
	assert.Len(t, f.w.pool, 7)
	assert.Equal(t, []int{0, 20, 40, 60, 80, 100, 120}, loadedOffsets(f.w))
	assertOccupancy(t, f.w)
}

func TestWindowEmptyItems(t *testing.T) {
	f := newWindowFixture(t, 20, 2)
	f.source.emitResize(100)
	f.w.SetItems(makeRows(1000))
	require.Len(t, f.w.pool, 7)
	unloads := len(f.unloads)

	f.w.SetItems([]any{})
	assert.Empty(t, f.w.pool)
	assert.Empty(t, f.w.loaded)
	assert.Equal(t, 0, f.w.Extent())
	assert.Equal(t, 7, f.w.Stats().Destroyed)
	assert.Len(t, f.unloads, unloads+7)
	assert.Equal(t, 0, f.frames.Len())

	f.w.SetItems(nil)
	assert.Empty(t, f.w.pool)
}

func TestWindowScrollJump(t *testing.T) {
	f := newWindowFixture(t, 20, 2)
	f.source.emitResize(100)
	f.w.SetItems(makeRows(1000))
	before := f.w.Stats()

	f.source.emitScroll(10000)
	assert.Equal(t, []int{0, 20, 40, 60, 80, 100, 120}, loadedOffsets(f.w), "scroll must not settle synchronously")
	require.Equal(t, 1, f.frames.Flush())

	after := f.w.Stats()
	assert.Equal(t, 1, after.Settlements-before.Settlements)
	assert.Equal(t, 7, after.Unloads-before.Unloads)
	assert.Equal(t, 0, after.Created-before.Created)
	assert.Equal(t, 10000, f.w.state.lastY)
	assert.Equal(t, []int{9980, 10000, 10020, 10040, 10060, 10080, 10100}, loadedOffsets(f.w))
	assertOccupancy(t, f.w)
	assertVisibleCoverage(t, f.w)
}

func TestWindowShrinkKeepsVisibleSlots(t *testing.T) {
	f := newWindowFixture(t, 10, 0)
	f.source.emitResize(30)
	f.w.SetItems(makeRows(100))
	require.Equal(t, []int{0, 10, 20}, loadedOffsets(f.w))

	f.source.emitScroll(4)
	f.frames.Flush()

	// Every slot still overlaps [4, 24).
	f.source.emitResize(20)
	assert.Equal(t, 2, f.w.targetSize())
	assert.Len(t, f.w.pool, 3)
	assert.Equal(t, 0, f.w.Stats().Destroyed)
	assert.Equal(t, []int{0, 10, 20}, loadedOffsets(f.w))
	assertOccupancy(t, f.w)

	f.source.emitScroll(0)
	f.frames.Flush()
	f.w.Resize()
	assert.Len(t, f.w.pool, 2)
	assert.Equal(t, 1, f.w.Stats().Destroyed)
	assert.Equal(t, []int{0, 10}, loadedOffsets(f.w))
	assertOccupancy(t, f.w)
}

func TestWindowResizeIsIdempotent(t *testing.T) {
	f := newWindowFixture(t, 20, 2)
	f.source.emitResize(100)
	f.w.SetItems(makeRows(1000))
	f.source.emitScroll(333)
	f.frames.Flush()

	f.w.Resize()
	before := f.w.Stats()
	offsets := loadedOffsets(f.w)
	f.w.Resize()
	f.w.Resize()
	assert.Equal(t, before, f.w.Stats())
	assert.Equal(t, offsets, loadedOffsets(f.w))

	f.source.emitResize(100)
	assert.Equal(t, before, f.w.Stats())
}

func TestWindowPoolBound(t *testing.T) {
	for _, c := range []struct {
		rows, itemHeight, padding, viewport int
		expected                            int
	}{
		{rows: 1000, itemHeight: 20, padding: 2, viewport: 100, expected: 7},
		{rows: 1000, itemHeight: 3, padding: 2, viewport: 10, expected: 6},
		{rows: 1000, itemHeight: 1, padding: 0, viewport: 24, expected: 24},
		{rows: 3, itemHeight: 20, padding: 2, viewport: 100, expected: 3},
		{rows: 6, itemHeight: 20, padding: 2, viewport: 100, expected: 6},
		{rows: 1, itemHeight: 1, padding: 5, viewport: 0, expected: 1},
		{rows: 0, itemHeight: 1, padding: 5, viewport: 10, expected: 0},
	} {
		t.Run(fmt.Sprintf("%d rows x %d in %d", c.rows, c.itemHeight, c.viewport), func(t *testing.T) {
			f := newWindowFixture(t, c.itemHeight, c.padding)
			f.source.emitResize(c.viewport)
			f.w.SetItems(makeRows(c.rows))
			assert.Len(t, f.w.pool, c.expected)
			assert.LessOrEqual(t, len(f.w.pool), c.rows+c.padding)
			assertOccupancy(t, f.w)
			assertVisibleCoverage(t, f.w)
		})
	}
}

func TestWindowCoalescesScroll(t *testing.T) {
	f := newWindowFixture(t, 20, 2)
	f.source.emitResize(100)
	f.w.SetItems(makeRows(1000))
	before := f.w.Stats()

	for offset := 0; offset <= 5000; offset += 100 {
		f.source.emitScroll(offset)
	}
	f.source.emitScroll(4321)
	assert.True(t, f.w.SettlementPending())
	assert.Equal(t, 1, f.frames.Len())

	f.frames.Flush()
	assert.False(t, f.w.SettlementPending())
	assert.Equal(t, 1, f.w.Stats().Settlements-before.Settlements)
	assert.Equal(t, 4320, f.w.state.lastY)
	assertVisibleCoverage(t, f.w)

	f.source.emitScroll(4330)
	assert.Equal(t, 1, f.frames.Len())
}

func TestWindowSettleSkipsUnchangedOffset(t *testing.T) {
	f := newWindowFixture(t, 20, 2)
	f.source.emitResize(100)
	f.w.SetItems(makeRows(1000))
	before := f.w.Stats()

	// Rounds to the same grid offset as before.
	f.source.emitScroll(9)
	f.frames.Flush()
	assert.Equal(t, before, f.w.Stats())

	f.w.Update(true)
	assert.Equal(t, 1, f.w.Stats().Settlements-before.Settlements)
}

func TestWindowCoverageWhileScrolling(t *testing.T) {
	f := newWindowFixture(t, 3, 2)
	f.source.emitResize(10)
	f.w.SetItems(makeRows(50))

	check := func(offset int) {
		f.source.emitScroll(offset)
		f.frames.Flush()
		assertOccupancy(t, f.w)
		assertVisibleCoverage(t, f.w)
		assert.Len(t, f.w.pool, 6)
	}
	for offset := 0; offset <= 140; offset++ {
		check(offset)
	}
	for offset := 140; offset >= 0; offset-- {
		check(offset)
	}
	for _, offset := range []int{77, 2, 139, 60, 61, 0, 100} {
		check(offset)
	}
	assert.Equal(t, 6, f.created)
}

func TestWindowSameLengthItemsRebind(t *testing.T) {
	f := newWindowFixture(t, 20, 2)
	f.source.emitResize(100)
	f.w.SetItems(makeRows(10))
	created := f.w.Stats().Created

	replaced := make([]any, 10)
	for i := range replaced {
		replaced[i] = i * 100
	}
	f.w.SetItems(replaced)
	assert.Equal(t, 1, f.frames.Len())
	assert.Equal(t, "row 0", f.w.pool[0].Data())

	f.frames.Flush()
	for _, s := range f.w.pool {
		if s.Loaded() {
			assert.Equal(t, s.Index()*100, s.Data())
		}
	}
	assert.Equal(t, created, f.w.Stats().Created)
	assertOccupancy(t, f.w)

	// Same slice again: rebinds, nothing else.
	f.w.SetItems(replaced)
	f.frames.Flush()
	assert.Equal(t, created, f.w.Stats().Created)
	assert.Equal(t, 0, f.w.Stats().Destroyed)
}

func TestWindowShorterItemsDropVanishedRows(t *testing.T) {
	f := newWindowFixture(t, 1, 2)
	f.source.emitResize(10)
	f.w.SetItems(makeRows(100))
	f.source.emitScroll(90)
	f.frames.Flush()

	f.w.SetItems(makeRows(95))
	f.frames.Flush()
	for _, s := range f.w.pool {
		if s.assigned {
			assert.Less(t, s.Index(), 95)
		}
	}
	assertOccupancy(t, f.w)
}

func TestWindowShrinkPastExtentCoversShortList(t *testing.T) {
	f := newWindowFixture(t, 2, 2)
	f.source.emitResize(18)
	f.w.SetItems(makeRows(100))
	f.source.emitScroll(150)
	f.frames.Flush()

	// The list now fits the viewport and the container scrolls back to the top.
	f.w.SetItems(makeRows(8))
	f.source.emitScroll(0)
	f.frames.Flush()

	assert.Len(t, f.w.pool, 8)
	assert.Equal(t, []int{0, 2, 4, 6, 8, 10, 12, 14}, loadedOffsets(f.w))
	assertOccupancy(t, f.w)
	assertVisibleCoverage(t, f.w)
}

func TestWindowCallbacksAreOptional(t *testing.T) {
	frames := &frame.Buffer{}
	w, err := NewWindow(nil,
		WithItemHeight(2),
		WithFrameScheduler(frames),
		WithCreateItemFunc(func(*Slot) Primitive { return nil }),
	)
	require.NoError(t, err)

	w.Settle(TriggerResize, 10)
	w.SetItems(makeRows(20))
	require.Len(t, w.pool, 7)
	for _, s := range w.pool {
		assert.NotNil(t, s.Node())
	}

	w.Settle(TriggerScroll, 20)
	frames.Flush()
	assert.Equal(t, 20, w.state.lastY)
	assertOccupancy(t, w)
}

func TestWindowCallbacksMatchStats(t *testing.T) {
	f := newWindowFixture(t, 20, 2)
	f.source.emitResize(100)
	f.w.SetItems(makeRows(1000))
	f.source.emitScroll(500)
	f.frames.Flush()
	f.source.emitResize(40)

	stats := f.w.Stats()
	assert.Len(t, f.loads, stats.Loads)
	assert.Len(t, f.unloads, stats.Unloads)
	assert.Equal(t, f.created, stats.Created)
}

func TestWindowNegativeViewport(t *testing.T) {
	f := newWindowFixture(t, 20, 2)
	f.w.SetItems(makeRows(10))
	f.w.Settle(TriggerResize, -50)
	assert.Equal(t, 0, f.w.state.viewportHeight)
	assert.Len(t, f.w.pool, 2)
}

func TestWindowClose(t *testing.T) {
	f := newWindowFixture(t, 20, 2)
	f.source.emitResize(100)
	f.w.SetItems(makeRows(1000))

	resize, scroll := f.source.subscribers()
	require.Equal(t, 1, resize)
	require.Equal(t, 1, scroll)
	unloads := len(f.unloads)

	f.w.Close()
	resize, scroll = f.source.subscribers()
	assert.Equal(t, 0, resize)
	assert.Equal(t, 0, scroll)
	assert.Empty(t, f.w.pool)
	assert.Empty(t, f.w.loaded)
	assert.Len(t, f.unloads, unloads+7)

	f.source.emitScroll(100)
	assert.Equal(t, 0, f.frames.Len())
}

func TestWindowSnapshot(t *testing.T) {
	f := newWindowFixture(t, 20, 2)
	f.source.emitResize(100)
	f.w.setViewportWidth(30)
	f.w.SetItems(makeRows(1000))
	f.source.emitScroll(40)

	snap := f.w.Snapshot()
	assert.Equal(t, 40, snap.ScrollOffset)
	assert.Equal(t, 0, snap.LastY)
	assert.True(t, snap.Pending)
	assert.Equal(t, 7, snap.Target)
	assert.Equal(t, 1000, snap.Rows)
	require.Len(t, snap.Slots, 7)

	visible := 0
	for _, info := range snap.Slots {
		assert.True(t, info.Assigned)
		assert.Equal(t, info.Offset-40, info.Rect.Y)
		assert.Equal(t, 30, info.Rect.Width)
		assert.Equal(t, 20, info.Rect.Height)
		if info.Visible {
			visible++
		}
	}
	assert.Equal(t, 5, visible)

	snap.Slots[0].Offset = -1
	assert.NotEqual(t, -1, f.w.pool[0].offset)
}
