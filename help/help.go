// Package help renders the key bindings of a KeyMap as a one-line summary or
// as aligned columns.
package help

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/xqrs/vtview"
	"github.com/xqrs/vtview/keybind"
)

type KeyMap interface {
	// ShortHelp returns keybinds for single-line help.
	ShortHelp() []keybind.Keybind
	// FullHelp returns keybind groups, where each top-level entry is a column.
	FullHelp() [][]keybind.Keybind
}

// Help is a primitive showing the help of a KeyMap.
type Help struct {
	*vtview.Box
	Styles Styles

	keyMap         KeyMap
	showAll        bool
	shortSeparator string
	fullSeparator  string
	ellipsis       string
}

func New() *Help {
	return &Help{
		Box:            vtview.NewBox(),
		Styles:         DefaultStyles(),
		shortSeparator: " • ",
		fullSeparator:  "    ",
		ellipsis:       vtview.SemigraphicsHorizontalEllipsis,
	}
}

func (h *Help) SetKeyMap(keyMap KeyMap) *Help {
	h.keyMap = keyMap
	return h
}

// SetShowAll switches between the one-line summary and the full columns.
func (h *Help) SetShowAll(showAll bool) *Help {
	h.showAll = showAll
	return h
}

func (h *Help) ShowAll() bool {
	return h.showAll
}

func (h *Help) SetSeparators(short, full string) *Help {
	h.shortSeparator, h.fullSeparator = short, full
	return h
}

func (h *Help) SetEllipsis(ellipsis string) *Help {
	h.ellipsis = ellipsis
	return h
}

// Height returns the number of rows Draw needs at the given width.
func (h *Help) Height(width int) int {
	return len(h.lines(width))
}

// Draw draws this primitive onto the screen.
func (h *Help) Draw(screen tcell.Screen) {
	h.DrawForSubclass(screen, h)

	x, y, width, height := h.GetInnerRect()
	for row, line := range h.lines(width) {
		if row >= height {
			break
		}
		line.draw(screen, x, y+row, width)
	}
}

// Lines returns the rendered help as plain text.
func (h *Help) Lines(width int) []string {
	lines := h.lines(width)
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line.String()
	}
	return out
}

func (h *Help) lines(width int) []line {
	if h.keyMap == nil {
		return nil
	}
	if h.showAll {
		return h.fullLines(h.keyMap.FullHelp(), width)
	}
	if l := h.shortLine(h.keyMap.ShortHelp(), width); len(l) > 0 {
		return []line{l}
	}
	return nil
}

type segment struct {
	text  string
	style tcell.Style
}

type line []segment

func (l line) width() int {
	width := 0
	for _, s := range l {
		width += vtview.TaggedStringWidth(s.text)
	}
	return width
}

func (l line) String() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.text)
	}
	return b.String()
}

// trimRight drops trailing blank segments left by short columns.
func (l line) trimRight() line {
	for len(l) > 0 && strings.TrimSpace(l[len(l)-1].text) == "" {
		l = l[:len(l)-1]
	}
	return l
}

func (l line) draw(screen tcell.Screen, x, y, width int) {
	for _, s := range l {
		if width <= 0 {
			return
		}
		_, printed := vtview.PrintWithStyle(screen, s.text, x, y, width, vtview.AlignmentLeft, s.style)
		x += printed
		width -= printed
	}
}

// withEllipsis appends the ellipsis if it still fits in width.
func (h *Help) withEllipsis(l line, width int) line {
	if width <= 0 || h.ellipsis == "" {
		return l
	}
	tail := line{{text: " " + h.ellipsis, style: h.Styles.EllipsisStyle}}
	if l.width()+tail.width() > width {
		return l
	}
	return append(l, tail...)
}

func (h *Help) shortLine(bindings []keybind.Keybind, width int) line {
	var out line
	for _, kb := range bindings {
		if !kb.Enabled() {
			continue
		}
		item := h.shortItem(kb.Help())
		if len(item) == 0 {
			continue
		}
		next := append(line(nil), out...)
		if len(next) > 0 {
			next = append(next, segment{text: h.shortSeparator, style: h.Styles.ShortSeparatorStyle})
		}
		next = append(next, item...)
		if width > 0 && next.width() > width {
			if len(out) == 0 {
				return nil
			}
			return h.withEllipsis(out, width)
		}
		out = next
	}
	return out
}

func (h *Help) shortItem(help keybind.Help) line {
	var item line
	if help.Key != "" {
		item = append(item, segment{text: help.Key, style: h.Styles.ShortKeyStyle})
	}
	if help.Key != "" && help.Desc != "" {
		item = append(item, segment{text: " ", style: h.Styles.ShortDescStyle})
	}
	if help.Desc != "" {
		item = append(item, segment{text: help.Desc, style: h.Styles.ShortDescStyle})
	}
	return item
}

type column struct {
	entries []keybind.Help
	keyW    int
	width   int
}

func newColumn(group []keybind.Keybind) column {
	var c column
	for _, kb := range group {
		help := kb.Help()
		if !kb.Enabled() || (help.Key == "" && help.Desc == "") {
			continue
		}
		c.entries = append(c.entries, help)
		c.keyW = max(c.keyW, vtview.TaggedStringWidth(help.Key))
	}
	for _, e := range c.entries {
		w := c.keyW + vtview.TaggedStringWidth(e.Desc)
		if e.Key != "" && e.Desc != "" {
			w++
		}
		c.width = max(c.width, w)
	}
	return c
}

func (h *Help) fullLines(groups [][]keybind.Keybind, width int) []line {
	var columns []column
	for _, group := range groups {
		if c := newColumn(group); len(c.entries) > 0 {
			columns = append(columns, c)
		}
	}
	if len(columns) == 0 {
		return nil
	}

	sepW := vtview.TaggedStringWidth(h.fullSeparator)
	included, total := 0, 0
	for i, c := range columns {
		next := c.width
		if i > 0 {
			next += sepW
		}
		if width > 0 && total+next > width {
			break
		}
		included++
		total += next
	}
	if included == 0 {
		return []line{{{text: h.ellipsis, style: h.Styles.EllipsisStyle}}}
	}

	rows := 0
	for _, c := range columns[:included] {
		rows = max(rows, len(c.entries))
	}

	lines := make([]line, rows)
	for row := range lines {
		var l line
		for i, c := range columns[:included] {
			if i > 0 {
				l = append(l, segment{text: h.fullSeparator, style: h.Styles.FullSeparatorStyle})
			}
			cell := h.fullCell(c, row)
			// Pad every column but the last so separators stay aligned.
			if pad := c.width - cell.width(); pad > 0 && i < included-1 {
				cell = append(cell, segment{text: strings.Repeat(" ", pad), style: h.Styles.FullDescStyle})
			}
			l = append(l, cell...)
		}
		lines[row] = l.trimRight()
	}

	if included < len(columns) {
		lines[0] = h.withEllipsis(lines[0], width)
	}
	return lines
}

func (h *Help) fullCell(c column, row int) line {
	if row >= len(c.entries) {
		return nil
	}
	e := c.entries[row]
	var cell line
	if c.keyW > 0 {
		key := e.Key + strings.Repeat(" ", c.keyW-vtview.TaggedStringWidth(e.Key))
		cell = append(cell, segment{text: key, style: h.Styles.FullKeyStyle})
	}
	if e.Key != "" && e.Desc != "" {
		cell = append(cell, segment{text: " ", style: h.Styles.FullDescStyle})
	}
	if e.Desc != "" {
		cell = append(cell, segment{text: e.Desc, style: h.Styles.FullDescStyle})
	}
	return cell
}
