package report

import "github.com/fatih/color"

// Palette holds one colour per Slot. A nil entry prints text unchanged.
type Palette [SlotWorst + 1]*color.Color

// NewPalette builds the green-to-red gradient. Colour output is forced on or
// off regardless of whether stdout is a terminal.
func NewPalette(enabled bool) Palette {
	p := Palette{
		SlotBest:    color.New(color.Bold, color.FgGreen),
		SlotGood:    color.New(color.FgGreen),
		SlotNeutral: nil,
		SlotBad:     color.New(color.FgRed),
		SlotWorst:   color.New(color.Bold, color.FgRed),
	}
	for _, c := range p {
		if c == nil {
			continue
		}
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Paint wraps text in the escape codes of slot s.
func (p Palette) Paint(s Slot, text string) string {
	c := p[s]
	if c == nil {
		return text
	}
	return c.Sprint(text)
}
