// Package summary renders and stores the post-refresh summary artifact.
//
// Rendering is a pure function from the committed refresh outcome (total
// count, top records by estimated GDP, timestamp) to an SVG document; the
// rest of the system treats the bytes as opaque.
package summary

import (
	"fmt"
	"html"
	"strings"
	"time"

	"countrypulse/feature/countries/models"

	"github.com/samber/lo"
)

const (
	svgWidth  = 720
	barMaxW   = 420
	rowHeight = 36
	headerH   = 96
)

type barRow struct {
	Label string
	Value float64
}

// Render produces the summary SVG for one committed refresh.
func Render(total int64, top []models.Country, at time.Time) []byte {
	rows := lo.FilterMap(top, func(c models.Country, _ int) (barRow, bool) {
		if c.EstimatedGdp == nil {
			return barRow{}, false
		}
		return barRow{Label: c.Name, Value: *c.EstimatedGdp}, true
	})

	maxVal := lo.MaxBy(rows, func(a, b barRow) bool { return a.Value > b.Value }).Value
	if maxVal <= 0 {
		maxVal = 1
	}

	height := headerH + rowHeight*len(rows) + 24

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" font-family="sans-serif">`, svgWidth, height)
	b.WriteString(`<rect width="100%" height="100%" fill="#0f172a"/>`)
	fmt.Fprintf(&b, `<text x="24" y="36" fill="#f8fafc" font-size="20">Top countries by estimated GDP</text>`)
	fmt.Fprintf(&b, `<text x="24" y="62" fill="#94a3b8" font-size="13">%d countries · refreshed %s</text>`,
		total, html.EscapeString(at.UTC().Format(time.RFC3339)))

	for i, row := range rows {
		y := headerH + i*rowHeight
		w := int(row.Value / maxVal * barMaxW)
		if w < 2 {
			w = 2
		}
		fmt.Fprintf(&b, `<text x="24" y="%d" fill="#e2e8f0" font-size="13">%s</text>`,
			y+17, html.EscapeString(row.Label))
		fmt.Fprintf(&b, `<rect x="200" y="%d" width="%d" height="18" rx="3" fill="#38bdf8"/>`, y+4, w)
		fmt.Fprintf(&b, `<text x="%d" y="%d" fill="#94a3b8" font-size="12">%.0f</text>`,
			200+w+8, y+17, row.Value)
	}

	if len(rows) == 0 {
		fmt.Fprintf(&b, `<text x="24" y="%d" fill="#94a3b8" font-size="13">No GDP data available</text>`, headerH+17)
	}

	b.WriteString(`</svg>`)
	return []byte(b.String())
}
