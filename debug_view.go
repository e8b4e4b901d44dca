package vtview

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// DebugView shows the slot pool of a [VirtualList]: one line per slot with
// its offset, its row and whether it is on screen. It only reads the list's
// window snapshot and never changes the list.
type DebugView struct {
	*Box

	list *VirtualList

	// Visible slots are shaded from top to bottom by their screen position.
	top, bottom colorful.Color
	hidden      tcell.Style
	header      tcell.Style
}

// NewDebugView returns a debug view for list.
func NewDebugView(list *VirtualList) *DebugView {
	d := &DebugView{
		Box:    NewBox(),
		list:   list,
		top:    hexColor("#5fd7ff"),
		bottom: hexColor("#d75fff"),
		hidden: tcell.StyleDefault.Foreground(Styles.TertiaryTextColor).Dim(true),
		header: tcell.StyleDefault.Foreground(Styles.PrimaryTextColor).Bold(true),
	}
	d.SetBorders(BordersAll).SetBorderSet(BorderSetRound()).SetTitle("window")
	return d
}

// hexColor parses a "#rrggbb" color. Malformed input yields black.
func hexColor(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}
	}
	return c
}

// SetGradient sets the colors of the first and the last visible row.
func (d *DebugView) SetGradient(top, bottom colorful.Color) *DebugView {
	d.top, d.bottom = top, bottom
	return d
}

type debugLine struct {
	text  string
	style tcell.Style
}

// Lines returns the text the view draws.
func (d *DebugView) Lines() []string {
	lines := d.lines()
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.text
	}
	return out
}

func (d *DebugView) lines() []debugLine {
	snap := d.list.Window()
	lines := []debugLine{{
		text:  fmt.Sprintf("y %d  settled %d  pool %d/%d", snap.ScrollOffset, snap.LastY, len(snap.Slots), snap.Target),
		style: d.header,
	}}

	// Assigned slots by offset, parked slots last.
	slots := slices.Clone(snap.Slots)
	slices.SortStableFunc(slots, func(a, b SlotInfo) int {
		if a.Assigned != b.Assigned {
			if a.Assigned {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.Offset, b.Offset)
	})

	for _, s := range slots {
		switch {
		case !s.Assigned:
			lines = append(lines, debugLine{text: "     - parked", style: d.hidden})
		case s.Visible:
			lines = append(lines, debugLine{
				text:  fmt.Sprintf("%6d #%-5d %s", s.Offset, s.Index, GeometricBlackCircle),
				style: d.shade(s.Rect.Y, snap.ViewportHeight),
			})
		default:
			marker := GeometricWhiteCircle
			if !s.Loaded {
				marker = "x"
			}
			lines = append(lines, debugLine{
				text:  fmt.Sprintf("%6d #%-5d %s", s.Offset, s.Index, marker),
				style: d.hidden,
			})
		}
	}
	return lines
}

// shade returns the style for a visible row starting at y in a viewport of
// the given height.
func (d *DebugView) shade(y, height int) tcell.Style {
	t := 0.0
	if height > 1 {
		t = min(max(float64(y)/float64(height-1), 0), 1)
	}
	r, g, b := d.top.BlendLab(d.bottom, t).Clamped().RGB255()
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
}

// Draw draws this primitive onto the screen.
func (d *DebugView) Draw(screen tcell.Screen) {
	d.DrawForSubclass(screen, d)

	x, y, width, height := d.GetInnerRect()
	for row, line := range d.lines() {
		if row >= height {
			break
		}
		PrintWithStyle(screen, TruncateWidth(line.text, width), x, y+row, width, AlignmentLeft, line.style)
	}
}

var _ Primitive = &DebugView{}
