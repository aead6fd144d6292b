package viz

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/particlesim/internal/geom"
)

func TestCanvasProjectCorners(t *testing.T) {
	c := NewCanvas(10, 5, 1)

	tests := []struct {
		p    mgl64.Vec2
		x, y int
	}{
		{mgl64.Vec2{-1, 1}, 0, 0},
		{mgl64.Vec2{1, 1}, 19, 0},
		{mgl64.Vec2{-1, -1}, 0, 19},
		{mgl64.Vec2{1, -1}, 19, 19},
		{mgl64.Vec2{0, 0}, 10, 10},
	}
	for _, tt := range tests {
		x, y := c.Project(tt.p)
		if x != tt.x || y != tt.y {
			t.Errorf("Project(%v) = (%d, %d), want (%d, %d)", tt.p, x, y, tt.x, tt.y)
		}
	}
}

func TestCanvasSetAndClear(t *testing.T) {
	c := NewCanvas(2, 1, 1)

	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(4, 0)

	if c.Grid[0][0] != blank|0x1 {
		t.Errorf("cell 0 = %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != blank|0x80 {
		t.Errorf("cell 1 = %U", c.Grid[0][1])
	}
	if !c.IsSet(0, 0) || c.IsSet(1, 0) {
		t.Error("IsSet disagrees with Set")
	}

	c.Clear()
	if strings.Trim(c.String(), "\u2800\n") != "" {
		t.Errorf("expected blank canvas, got %q", c.String())
	}
}

func TestCanvasPointOutsideIgnored(t *testing.T) {
	c := NewCanvas(4, 2, 1)
	c.Point(mgl64.Vec2{5, 5})
	c.Point(mgl64.Vec2{-5, -5})

	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank {
				t.Fatalf("expected nothing drawn, got %U", r)
			}
		}
	}
}

func TestCanvasDiscCoversCentre(t *testing.T) {
	c := NewCanvas(20, 10, 1)
	p := mgl64.Vec2{0.3, -0.4}
	c.Disc(p, 0.1)

	x, y := c.Project(p)
	if !c.IsSet(x, y) {
		t.Error("expected disc centre to be lit")
	}
	far, fy := c.Project(mgl64.Vec2{-0.3, 0.4})
	if c.IsSet(far, fy) {
		t.Error("expected distant sub-pixel to stay dark")
	}
}

func TestCanvasBoxOutline(t *testing.T) {
	c := NewCanvas(20, 10, 1)
	b := geom.NewAABB(-0.5, -0.5, 0.5, 0.5)
	c.Box(b)

	x0, y0 := c.Project(mgl64.Vec2{-0.5, 0.5})
	x1, y1 := c.Project(mgl64.Vec2{0.5, -0.5})
	for _, pt := range [][2]int{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
		if !c.IsSet(pt[0], pt[1]) {
			t.Errorf("corner %v not drawn", pt)
		}
	}
	cx, cy := c.Project(mgl64.Vec2{})
	if c.IsSet(cx, cy) {
		t.Error("box interior should stay empty")
	}
}
