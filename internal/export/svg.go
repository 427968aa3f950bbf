package export

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/distgrab/internal/config"
	"github.com/san-kum/distgrab/internal/sim"
	"github.com/san-kum/distgrab/internal/viz"
)

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	writeHeader(&sb, width, height)
	sb.WriteString(`<g fill="#00ff00">` + "\n")

	dotRadius := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SceneToSVG draws a top-down view of the frame at index at: rails, object
// trails up to that frame, objects and hands.
func SceneToSVG(cfg *config.Config, frames []sim.Frame, at, width, height int) string {
	if len(frames) == 0 || width <= 0 || height <= 0 {
		return ""
	}
	at = max(0, min(at, len(frames)-1))

	pts := make([]mgl64.Vec3, 0)
	for _, f := range frames {
		for _, o := range f.Objects {
			pts = append(pts, o.Position)
		}
		for _, h := range f.Hands {
			pts = append(pts, h.Position)
		}
	}
	for _, o := range cfg.Objects {
		if o.Rail != nil {
			pts = append(pts, o.Rail.Start.Mgl(), o.Rail.End.Mgl())
		}
	}
	v := viz.Fit(pts, &viz.Canvas{Width: width / 2, Height: height / 4}, 0.5)

	var sb strings.Builder
	writeHeader(&sb, float64(width), float64(height))
	fmt.Fprintf(&sb, `<text x="8" y="16" fill="#888899" font-family="monospace" font-size="12">%s t=%.2fs</text>`+"\n",
		cfg.Name, frames[at].Time)

	for _, o := range cfg.Objects {
		if o.Rail == nil {
			continue
		}
		x0, y0 := v.Project(o.Rail.Start.Mgl())
		x1, y1 := v.Project(o.Rail.End.Mgl())
		fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#444466" stroke-width="3"/>`+"\n", x0, y0, x1, y1)
	}

	radii := make(map[string]float64, len(cfg.Objects))
	for _, o := range cfg.Objects {
		radii[o.ID] = o.Radius
		trail := make([]mgl64.Vec3, 0, at+1)
		for _, f := range frames[:at+1] {
			if of, ok := f.Object(o.ID); ok && of.Alive {
				trail = append(trail, of.Position)
			}
		}
		writePath(&sb, v, trail, "#00ccff")
	}

	for _, o := range frames[at].Objects {
		if !o.Alive {
			continue
		}
		x, y := v.Project(o.Position)
		stroke := "#00ccff"
		if o.Highlighted {
			stroke = "#ffff00"
		}
		fill := "none"
		if o.Owner != "" {
			fill = "#1a001a"
		}
		fmt.Fprintf(&sb, `<circle cx="%d" cy="%d" r="%d" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
			x, y, max(v.Length(radii[o.ID]), 2), fill, stroke)
	}

	for _, h := range frames[at].Hands {
		x, y := v.Project(h.Position)
		fmt.Fprintf(&sb, `<circle cx="%d" cy="%d" r="4" fill="#ff00ff"/>`+"\n", x, y)
		fmt.Fprintf(&sb, `<text x="%d" y="%d" fill="#ff00ff" font-family="monospace" font-size="10">%s %s</text>`+"\n",
			x+6, y-6, h.ID, h.Phase)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func writeHeader(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
}

func writePath(sb *strings.Builder, v viz.Viewport, pts []mgl64.Vec3, stroke string) {
	if len(pts) < 2 {
		return
	}
	fmt.Fprintf(sb, `<path fill="none" stroke="%s" stroke-width="1" stroke-dasharray="3,3" d="M`, stroke)
	for i, p := range pts {
		x, y := v.Project(p)
		if i == 0 {
			fmt.Fprintf(sb, "%d,%d", x, y)
		} else {
			fmt.Fprintf(sb, " L%d,%d", x, y)
		}
	}
	sb.WriteString(`"/>` + "\n")
}
