package tables

import (
	"bytes"
	_ "embed"
	"html/template"

	"labdesk/internal/grid"
)

//go:embed cells.html
var cellsHTML string

var cellTemplates = template.Must(template.New("cells").Parse(cellsHTML))

// cell renders the named cell template. Text is the plain form used by the
// terminal and the sheet export; it is also the fallback should the
// template fail.
func cell(name, text string, data any) grid.Cell {
	var buf bytes.Buffer
	if err := cellTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return grid.Text(text)
	}
	return grid.Cell{Text: text, HTML: template.HTML(buf.String())}
}

func strong(s string) grid.Cell { return cell("strong", s, s) }

func chip(c Chip) grid.Cell {
	out := cell("chip", c.Label, c)
	out.Tone = string(c.Tone)
	return out
}
