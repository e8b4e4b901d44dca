package main

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/xqrs/vtview"
)

type contact struct {
	Name    string
	Email   string
	Company string
	Color   tcell.Color
}

var (
	gradientStart = colorful.Hcl(200, 0.5, 0.75)
	gradientEnd   = colorful.Hcl(330, 0.5, 0.75)
)

// generateContacts returns n fake contacts. The same seed always yields the
// same contacts.
func generateContacts(n int, seed int64) []contact {
	faker := gofakeit.New(seed)
	contacts := make([]contact, n)
	for i := range contacts {
		contacts[i] = contact{
			Name:    faker.Name(),
			Email:   faker.Email(),
			Company: faker.Company(),
			Color:   gradientColor(i, n),
		}
	}
	return contacts
}

// gradientColor returns the color of row i out of n.
func gradientColor(i, n int) tcell.Color {
	t := 0.0
	if n > 1 {
		t = float64(i) / float64(n-1)
	}
	r, g, b := gradientStart.BlendHcl(gradientEnd, t).Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// contactRow is the recycled row primitive. The first line holds the name and
// the email, a second line (if the rows are tall enough) the company.
type contactRow struct {
	*vtview.Box
	index   int
	contact contact
}

func newContactRow() *contactRow {
	return &contactRow{Box: vtview.NewBox()}
}

func (r *contactRow) load(slot *vtview.Slot) {
	r.index = slot.Index()
	r.contact, _ = slot.Data().(contact)
}

func (r *contactRow) Draw(screen tcell.Screen) {
	x, y, width, height := r.GetRect()
	if width <= 0 || height <= 0 {
		return
	}
	style := tcell.StyleDefault.Foreground(r.contact.Color)
	_, used := vtview.PrintWithStyle(screen, fmt.Sprintf("%7d ", r.index), x, y, width, vtview.AlignmentLeft, style.Dim(true))
	_, name := vtview.PrintWithStyle(screen, r.contact.Name, x+used, y, width-used, vtview.AlignmentLeft, style.Bold(true))
	vtview.PrintWithStyle(screen, "  "+r.contact.Email, x+used+name, y, width-used-name, vtview.AlignmentLeft, style)
	if height > 1 {
		vtview.PrintWithStyle(screen, r.contact.Company, x+used, y+1, width-used, vtview.AlignmentLeft, style.Italic(true))
	}
}
