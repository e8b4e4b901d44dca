package vtview

import (
	"github.com/rivo/uniseg"
)

// stepState represents the current state of the grapheme parser.
type stepState struct {
	unisegState int
	boundaries  int
	grossLength int
}

// Width returns the grapheme cluster's width in cells.
func (s *stepState) Width() int {
	return s.boundaries >> uniseg.ShiftWidth
}

// GrossLength returns the grapheme cluster's length in bytes.
func (s *stepState) GrossLength() int {
	return s.grossLength
}

// step iterates over grapheme clusters of a string.
func step(str string, state *stepState) (cluster, rest string, newState *stepState) {
	if state == nil {
		state = &stepState{
			unisegState: -1,
		}
	}
	if len(str) == 0 {
		newState = state
		return
	}

	preState := state.unisegState
	cluster, rest, state.boundaries, state.unisegState = uniseg.StepString(str, preState)
	state.grossLength = len(cluster)
	if rest == "" && !uniseg.HasTrailingLineBreakInString(cluster) {
		state.boundaries &^= uniseg.MaskLine
	}

	newState = state
	return
}

// TaggedStringWidth returns the width of the given string needed to print it on
// screen.
func TaggedStringWidth(text string) (width int) {
	var state *stepState
	for len(text) > 0 {
		_, text, state = step(text, state)
		width += state.Width()
	}
	return
}

// TruncateWidth shortens text so it occupies at most width cells. If text had
// to be cut and there is room, the last cell is replaced with an ellipsis.
func TruncateWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if TaggedStringWidth(text) <= width {
		return text
	}
	var (
		state *stepState
		used  int
		cut   int
	)
	rest := text
	for len(rest) > 0 {
		_, next, s := step(rest, state)
		state = s
		if used+state.Width() > width-1 {
			break
		}
		used += state.Width()
		cut += state.GrossLength()
		rest = next
	}
	return text[:cut] + SemigraphicsHorizontalEllipsis
}
