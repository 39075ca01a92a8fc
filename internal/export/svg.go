package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/projectile/internal/sim"
	"github.com/san-kum/projectile/internal/tick"
)

// TrajectorySVG draws the viewport and the projectile's path in screen
// coordinates. A reset breaks the path so the jump back to the origin is
// not drawn.
func TrajectorySVG(frames []sim.Frame, bounds tick.Bounds, strokeColor string) string {
	w, h := bounds.Width, bounds.Height

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<rect x="0" y="%.1f" width="%.0f" height="%.1f" fill="#333344"/>
`, w, h, w, h, sim.GroundTop(bounds), w, h-sim.GroundTop(bounds)))

	origin := bounds.Origin()
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4" fill="#ffcc00"/>
`, origin.X, origin.Y))

	for _, seg := range segments(frames) {
		if len(seg) < 2 {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))
		for i, f := range seg {
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", f.Position.X, f.Position.Y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", f.Position.X, f.Position.Y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func segments(frames []sim.Frame) [][]sim.Frame {
	var out [][]sim.Frame
	start := 0
	for i, f := range frames {
		if f.Reset {
			out = append(out, frames[start:i+1])
			start = i + 1
		}
	}
	if start < len(frames) {
		out = append(out, frames[start:])
	}
	return out
}
