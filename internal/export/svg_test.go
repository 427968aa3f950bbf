package export

import (
	"context"
	"strings"
	"testing"

	"github.com/san-kum/distgrab/internal/config"
	"github.com/san-kum/distgrab/internal/sim"
	"github.com/san-kum/distgrab/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(4, 2)
	c.Set(1, 1)
	c.Set(7, 7)

	svg := CanvasToSVG(c, 2)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not an svg document")
	}
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("got %d dots, want 2", n)
	}
	if CanvasToSVG(nil, 1) != "" {
		t.Error("nil canvas should give empty output")
	}
}

func TestSceneToSVG(t *testing.T) {
	cfg := config.GetPreset("drawer")
	res, err := sim.RunScene(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	svg := SceneToSVG(cfg, res.Frames, len(res.Frames)-1, 400, 300)
	for _, want := range []string{"<line", "<path", "drawer t=", "right idle"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}

	if SceneToSVG(cfg, nil, 0, 400, 300) != "" {
		t.Error("no frames should give empty output")
	}
}
