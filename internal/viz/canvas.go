package viz

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the sub-pixel (x, y). The canvas is Width*2 by Height*4
// sub-pixels.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return false
	}
	return c.Grid[row][col]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle draws the outline of a circle with the midpoint algorithm.
func (c *Canvas) DrawCircle(cx, cy, r int) {
	if r <= 0 {
		c.Set(cx, cy)
		return
	}
	x, y, d := r, 0, 1-r
	for x >= y {
		for _, p := range [8][2]int{
			{x, y}, {y, x}, {-y, x}, {-x, y},
			{-x, -y}, {-y, -x}, {y, -x}, {x, -y},
		} {
			c.Set(cx+p[0], cy+p[1])
		}
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

// DrawCross marks a point with a small plus sign.
func (c *Canvas) DrawCross(cx, cy, arm int) {
	c.DrawLine(cx-arm, cy, cx+arm, cy)
	c.DrawLine(cx, cy-arm, cx, cy+arm)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Viewport maps the scene's ground plane (x right, z forward) onto canvas
// sub-pixels with z pointing up the screen.
type Viewport struct {
	MinX, MinZ float64
	Scale      float64
	PixW, PixH int
}

// Fit returns a viewport that shows every point with a margin, preserving
// aspect ratio.
func Fit(points []mgl64.Vec3, c *Canvas, margin float64) Viewport {
	v := Viewport{PixW: c.Width * 2, PixH: c.Height * 4, Scale: 1}
	if len(points) == 0 {
		return v
	}
	minX, maxX := points[0].X(), points[0].X()
	minZ, maxZ := points[0].Z(), points[0].Z()
	for _, p := range points[1:] {
		minX, maxX = math.Min(minX, p.X()), math.Max(maxX, p.X())
		minZ, maxZ = math.Min(minZ, p.Z()), math.Max(maxZ, p.Z())
	}
	minX, maxX = minX-margin, maxX+margin
	minZ, maxZ = minZ-margin, maxZ+margin

	spanX, spanZ := math.Max(maxX-minX, 1e-6), math.Max(maxZ-minZ, 1e-6)
	sx := float64(v.PixW-1) / spanX
	sz := float64(v.PixH-1) / spanZ
	v.Scale = math.Min(sx, sz)
	// center the shorter axis
	v.MinX = minX - (float64(v.PixW-1)/v.Scale-spanX)/2
	v.MinZ = minZ - (float64(v.PixH-1)/v.Scale-spanZ)/2
	return v
}

func (v Viewport) Project(p mgl64.Vec3) (int, int) {
	x := (p.X() - v.MinX) * v.Scale
	y := float64(v.PixH-1) - (p.Z()-v.MinZ)*v.Scale
	return int(math.Round(x)), int(math.Round(y))
}

func (v Viewport) Length(d float64) int {
	return int(math.Round(d * v.Scale))
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
