package vtview

import "github.com/gdamore/tcell/v2"

// ScrollBarArrows controls which endcaps are rendered.
type ScrollBarArrows uint8

const (
	ScrollBarArrowsNone ScrollBarArrows = iota
	ScrollBarArrowsStart
	ScrollBarArrowsEnd
	ScrollBarArrowsBoth
)

func (a ScrollBarArrows) hasStart() bool {
	return a == ScrollBarArrowsStart || a == ScrollBarArrowsBoth
}

func (a ScrollBarArrows) hasEnd() bool {
	return a == ScrollBarArrowsEnd || a == ScrollBarArrowsBoth
}

// Eighths of a cell the thumb can move by.
const subcell = 8

// GlyphSet defines the track, arrow and fractional thumb glyphs.
type GlyphSet struct {
	Track string

	ArrowStart string
	ArrowEnd   string

	// Index i covers i+1 eighths of a cell, from the bottom (Lower) or the
	// top (Upper) of the cell.
	ThumbLower [subcell]string
	ThumbUpper [subcell]string
}

// MinimalGlyphSet returns a blank track with eighth-cell thumb glyphs.
func MinimalGlyphSet() GlyphSet {
	g := LegacyComputingGlyphSet()
	g.Track = " "
	return g
}

// LegacyComputingGlyphSet uses the Symbols for Legacy Computing block for full
// eighth-cell fidelity at both ends of the thumb.
func LegacyComputingGlyphSet() GlyphSet {
	return GlyphSet{
		Track:      BoxDrawingsLightVertical,
		ArrowStart: "▲",
		ArrowEnd:   "▼",
		ThumbLower: [subcell]string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"},
		ThumbUpper: [subcell]string{"▔", "🮂", "🮃", "▀", "🮄", "🮅", "🮆", "█"},
	}
}

// UnicodeGlyphSet approximates the upper thumb edge for fonts without the
// legacy computing symbols.
func UnicodeGlyphSet() GlyphSet {
	g := LegacyComputingGlyphSet()
	g.ThumbUpper = [subcell]string{"▔", "▔", "▀", "▀", "▀", "▀", "█", "█"}
	return g
}

// ScrollBar renders a vertical scroll bar for content of a known extent.
type ScrollBar struct {
	*Box

	autoHide bool

	// Lengths and offset in content units, e.g. rows.
	extent   int
	viewport int
	offset   int

	trackStyle tcell.Style
	thumbStyle tcell.Style
	arrowStyle tcell.Style

	glyphs GlyphSet
	arrows ScrollBarArrows
}

// NewScrollBar returns a new vertical scroll bar.
func NewScrollBar() *ScrollBar {
	return &ScrollBar{
		Box:        NewBox(),
		autoHide:   true,
		trackStyle: tcell.StyleDefault.Foreground(Styles.BorderColor).Dim(true),
		thumbStyle: tcell.StyleDefault.Foreground(Styles.PrimaryTextColor),
		arrowStyle: tcell.StyleDefault.Foreground(Styles.BorderColor).Dim(true),
		glyphs:     MinimalGlyphSet(),
	}
}

// SetPosition updates the content extent, the visible length and the offset
// of the first visible unit.
func (s *ScrollBar) SetPosition(extent, viewport, offset int) *ScrollBar {
	s.extent = max(extent, 0)
	s.viewport = max(viewport, 0)
	s.offset = max(offset, 0)
	return s
}

// Position returns the values last passed to SetPosition.
func (s *ScrollBar) Position() (extent, viewport, offset int) {
	return s.extent, s.viewport, s.offset
}

// SetGlyphSet applies a glyph set.
func (s *ScrollBar) SetGlyphSet(g GlyphSet) *ScrollBar {
	s.glyphs = g
	return s
}

// SetArrows sets which arrow endcaps are rendered.
func (s *ScrollBar) SetArrows(arrows ScrollBarArrows) *ScrollBar {
	s.arrows = arrows
	return s
}

// SetAutoHide controls whether the bar is hidden when everything fits.
func (s *ScrollBar) SetAutoHide(autoHide bool) *ScrollBar {
	s.autoHide = autoHide
	return s
}

// SetStyles sets the track, thumb and arrow styles.
func (s *ScrollBar) SetStyles(track, thumb, arrow tcell.Style) *ScrollBar {
	s.trackStyle, s.thumbStyle, s.arrowStyle = track, thumb, arrow
	return s
}

// scrollMetrics is the bar geometry in eighths of a cell.
type scrollMetrics struct {
	cells      int
	trackLen   int
	thumbLen   int
	thumbStart int
}

func (s *ScrollBar) trackCells(height int) int {
	if s.arrows.hasStart() {
		height--
	}
	if s.arrows.hasEnd() {
		height--
	}
	return max(height, 0)
}

func computeScrollMetrics(cells, extent, viewport, offset int) scrollMetrics {
	trackLen := cells * subcell
	if trackLen == 0 {
		return scrollMetrics{}
	}

	extent = max(extent, 1)
	viewport = min(max(viewport, 1), extent)
	maxOffset := extent - viewport
	offset = min(max(offset, 0), maxOffset)

	if maxOffset == 0 {
		return scrollMetrics{cells: cells, trackLen: trackLen, thumbLen: trackLen}
	}

	thumbLen := min(max(trackLen*viewport/extent, subcell), trackLen)
	thumbStart := (trackLen - thumbLen) * offset / maxOffset
	return scrollMetrics{cells: cells, trackLen: trackLen, thumbLen: thumbLen, thumbStart: thumbStart}
}

// visible reports whether the bar has anything to show.
func (s *ScrollBar) visible(m scrollMetrics) bool {
	if m.trackLen == 0 || s.extent <= 0 {
		return false
	}
	return !s.autoHide || s.extent > s.viewport
}

// cellFill returns which part of cell index the thumb covers, relative to the
// cell's top edge.
func cellFill(m scrollMetrics, index int) (start, fill int) {
	if m.thumbLen == 0 {
		return 0, 0
	}
	cellStart := index * subcell
	from := max(m.thumbStart, cellStart)
	to := min(m.thumbStart+m.thumbLen, cellStart+subcell)
	if to <= from {
		return 0, 0
	}
	return from - cellStart, to - from
}

func (s *ScrollBar) glyph(start, fill int) (string, tcell.Style) {
	switch {
	case fill <= 0:
		return s.glyphs.Track, s.trackStyle
	case fill >= subcell:
		return s.glyphs.ThumbLower[subcell-1], s.thumbStyle
	case start == 0:
		return s.glyphs.ThumbUpper[fill-1], s.thumbStyle
	}
	return s.glyphs.ThumbLower[fill-1], s.thumbStyle
}

// Draw draws the scroll bar.
func (s *ScrollBar) Draw(screen tcell.Screen) {
	s.DrawForSubclass(screen, s)

	x, y, width, height := s.GetInnerRect()
	if width <= 0 || height <= 0 {
		return
	}
	m := computeScrollMetrics(s.trackCells(height), s.extent, s.viewport, s.offset)
	if !s.visible(m) {
		return
	}

	if s.arrows.hasStart() {
		putString(screen, x, y, s.glyphs.ArrowStart, s.arrowStyle)
		y++
	}
	for cell := 0; cell < m.cells; cell++ {
		glyph, style := s.glyph(cellFill(m, cell))
		putString(screen, x, y+cell, glyph, style)
	}
	if s.arrows.hasEnd() {
		putString(screen, x, y+m.cells, s.glyphs.ArrowEnd, s.arrowStyle)
	}
}

var _ Primitive = &ScrollBar{}
