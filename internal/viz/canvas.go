package viz

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/particlesim/internal/geom"
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

// Canvas is a Braille raster of Width x Height cells covering the square
// domain [-Bound, Bound]². Each cell holds 2x4 sub-pixels.
type Canvas struct {
	Width, Height int
	Bound         float64
	Grid          [][]rune
}

func NewCanvas(w, h int, bound float64) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Bound:  bound,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the sub-pixel (x, y). The raster is (Width*2) x (Height*4)
// sub-pixels with y growing downwards.
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

// IsSet reports whether the sub-pixel (x, y) is lit.
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

// Project maps a world position to sub-pixel coordinates. The domain edges
// land on the first and last sub-pixel of each axis.
func (c *Canvas) Project(p mgl64.Vec2) (int, int) {
	sw, sh := float64(c.Width*2-1), float64(c.Height*4-1)
	u := (p[0] + c.Bound) / (2 * c.Bound)
	v := (c.Bound - p[1]) / (2 * c.Bound)
	return int(math.Round(u * sw)), int(math.Round(v * sh))
}

func (c *Canvas) Point(p mgl64.Vec2) {
	c.Set(c.Project(p))
}

// Disc fills every sub-pixel whose centre lies within r of p.
func (c *Canvas) Disc(p mgl64.Vec2, r float64) {
	x0, y0 := c.Project(mgl64.Vec2{p[0] - r, p[1] + r})
	x1, y1 := c.Project(mgl64.Vec2{p[0] + r, p[1] - r})
	cx, cy := c.Project(p)

	// sub-pixels are not square in world units
	sx := float64(c.Width*2-1) / (2 * c.Bound)
	sy := float64(c.Height*4-1) / (2 * c.Bound)

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x-cx) / sx
			dy := float64(y-cy) / sy
			if dx*dx+dy*dy <= r*r {
				c.Set(x, y)
			}
		}
	}
	c.Set(cx, cy)
}

// Box outlines b.
func (c *Canvas) Box(b geom.AABB) {
	x0, y0 := c.Project(mgl64.Vec2{b.MinX, b.MaxY})
	x1, y1 := c.Project(mgl64.Vec2{b.MaxX, b.MinY})
	c.DrawLine(x0, y0, x1, y0)
	c.DrawLine(x1, y0, x1, y1)
	c.DrawLine(x1, y1, x0, y1)
	c.DrawLine(x0, y1, x0, y0)
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

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
