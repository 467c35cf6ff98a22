// Package term draws grid views on a terminal.
package term

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"labdesk/internal/finance"
	"labdesk/internal/grid"
)

// Palette maps tone tokens to terminal colors.
type Palette map[finance.Tone]lipgloss.TerminalColor

func DefaultPalette() Palette {
	return Palette{
		finance.ToneNeutral: lipgloss.AdaptiveColor{Light: "240", Dark: "250"},
		finance.ToneInfo:    lipgloss.Color("39"),
		finance.ToneWarning: lipgloss.Color("214"),
		finance.ToneSuccess: lipgloss.Color("42"),
		finance.ToneDanger:  lipgloss.Color("196"),
	}
}

type Renderer struct {
	out     io.Writer
	re      *lipgloss.Renderer
	palette Palette

	title  lipgloss.Style
	group  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	muted  lipgloss.Style
}

// New returns a renderer writing to w. The color profile is detected from w,
// so output to a pipe or file is plain text.
func New(w io.Writer) *Renderer {
	re := lipgloss.NewRenderer(w)
	return &Renderer{
		out:     w,
		re:      re,
		palette: DefaultPalette(),
		title:   re.NewStyle().Bold(true),
		group:   re.NewStyle().Bold(true).MarginTop(1),
		header:  re.NewStyle().Bold(true).Padding(0, 1),
		cell:    re.NewStyle().Padding(0, 1),
		muted:   re.NewStyle().Faint(true),
	}
}

// WithPalette replaces the tone colors.
func (r *Renderer) WithPalette(p Palette) *Renderer {
	r.palette = p
	return r
}

// Render writes v.
func (r *Renderer) Render(v grid.View) error {
	_, err := io.WriteString(r.out, r.Format(v))
	return err
}

// Format returns what Render would write.
func (r *Renderer) Format(v grid.View) string {
	var b strings.Builder

	b.WriteString(r.title.Render(strings.ToUpper(v.TableID)))
	summary := fmt.Sprintf("  %d of %d", v.Matched, v.Total)
	if v.Query != "" {
		summary += fmt.Sprintf(" matching %q", v.Query)
	}
	b.WriteString(r.muted.Render(summary))
	b.WriteString("\n")

	if !v.Ready() {
		b.WriteString("\n")
		b.WriteString(r.muted.Render(v.Message))
		b.WriteString("\n")
		return b.String()
	}

	cols := v.TextColumns()
	for _, g := range v.Groups {
		if g.ShowHeader {
			marker := "▸"
			if g.Expanded {
				marker = "▾"
			}
			line := fmt.Sprintf("%s %s  %s", marker, g.Header.Text, r.muted.Render(g.CountLabel))
			b.WriteString(r.group.Render(line))
			b.WriteString("\n")
		}
		if len(g.Rows) > 0 {
			b.WriteString(r.table(v.Columns, cols, g.Rows))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (r *Renderer) table(headers []grid.Header, cols []int, rows []grid.Row) string {
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = headers[c].Title
	}

	data := make([][]string, len(rows))
	tones := make([][]string, len(rows))
	for i, row := range rows {
		data[i] = make([]string, len(cols))
		tones[i] = make([]string, len(cols))
		for j, c := range cols {
			if c >= len(row.Cells) {
				continue
			}
			data[i][j] = row.Cells[c].Text
			tones[i][j] = row.Cells[c].Tone
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.muted).
		Headers(titles...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.header
			}
			if row < 0 || row >= len(tones) || col >= len(tones[row]) {
				return r.cell
			}
			return r.toned(tones[row][col])
		})
	return t.Render()
}

func (r *Renderer) toned(tone string) lipgloss.Style {
	if tone == "" {
		return r.cell
	}
	color, ok := r.palette[finance.Tone(tone)]
	if !ok {
		return r.cell
	}
	return r.cell.Foreground(color)
}
