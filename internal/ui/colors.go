package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Styles is the palette used for terminal output.
var Styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// Palette renders status text and history tables for the CLI.
type Palette struct {
	heading lipgloss.Style
	good    lipgloss.Style
	bad     lipgloss.Style
	caution lipgloss.Style
	muted   lipgloss.Style
}

// NewPalette builds a palette from foreground colors for titles, success,
// failure, warnings and hints, in that order.
func NewPalette(title, success, failure, warning, hint string) *Palette {
	return &Palette{
		heading: NewBold(title),
		good:    NewBold(success),
		bad:     NewBold(failure),
		caution: NewStyle(warning),
		muted:   NewEm(hint),
	}
}

func (p *Palette) Title(s string) string { return p.heading.Render(s) }
func (p *Palette) OK(s string) string    { return p.good.Render(s) }
func (p *Palette) Error(s string) string { return p.bad.Render(s) }
func (p *Palette) Warn(s string) string  { return p.caution.Render(s) }
func (p *Palette) Help(s string) string  { return p.muted.Render(s) }

// Verdict renders yes in the success color when ok holds, otherwise no in the failure color.
func (p *Palette) Verdict(ok bool, yes, no string) string {
	if ok {
		return p.OK(yes)
	}
	return p.Error(no)
}

// Table lays out rows under a bold header row with a muted border.
func (p *Palette) Table(headers []string, rows [][]string) string {
	border := lipgloss.NewStyle().Foreground(p.muted.GetForeground())
	cell := lipgloss.NewStyle().Padding(0, 1)
	header := cell.Inherit(p.heading)

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(border).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
