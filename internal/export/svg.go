package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/dynamo"
)

const defaultStroke = "#00ff00"

// OrbitsSVG draws one path per body track, all scaled into a shared bounding
// box with equal x and y scale so circular orbits stay circular. Each track
// ends in a dot at its last position. colors is indexed like tracks; missing
// or empty entries fall back to green.
func OrbitsSVG(tracks [][]dynamo.Vec2, colors []string, width, height int) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, tr := range tracks {
		for _, p := range tr {
			minX = math.Min(minX, p.X)
			maxX = math.Max(maxX, p.X)
			minY = math.Min(minY, p.Y)
			maxY = math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return ""
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	span := math.Max(rangeX, rangeY)
	if span == 0 {
		span = 1
	}
	pad := span * 0.1
	scale := math.Min(float64(width), float64(height)) / (span + 2*pad)
	cx := (minX + maxX) / 2
	cy := (minY + maxY) / 2

	project := func(p dynamo.Vec2) (float64, float64) {
		x := float64(width)/2 + (p.X-cx)*scale
		y := float64(height)/2 - (p.Y-cy)*scale
		return x, y
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for i, tr := range tracks {
		if len(tr) == 0 {
			continue
		}
		stroke := defaultStroke
		if i < len(colors) && colors[i] != "" {
			stroke = colors[i]
		}

		if len(tr) > 1 {
			fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, stroke)
			for k, p := range tr {
				x, y := project(p)
				if k == 0 {
					fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
				} else {
					fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
				}
			}
			sb.WriteString("\"/>\n")
		}

		x, y := project(tr[len(tr)-1])
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, x, y, stroke)
	}

	sb.WriteString("</svg>")
	return sb.String()
}
