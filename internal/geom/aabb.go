package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Axis selects a coordinate of the plane.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Coord returns the component of v along the axis.
func (a Axis) Coord(v mgl64.Vec2) float64 {
	return v[a]
}

// AABB is an axis-aligned box. The zero value is a degenerate box at the
// origin and is only meaningful as a placeholder.
type AABB struct {
	MinX, MinY, MaxX, MaxY float64
}

func NewAABB(minX, minY, maxX, maxY float64) AABB {
	return AABB{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// Padded returns the box p ± margin on both axes.
func Padded(p mgl64.Vec2, margin float64) AABB {
	return AABB{
		MinX: p[0] - margin,
		MinY: p[1] - margin,
		MaxX: p[0] + margin,
		MaxY: p[1] + margin,
	}
}

// Expand grows b to the union of b and other.
func (b *AABB) Expand(other AABB) {
	b.MinX = math.Min(b.MinX, other.MinX)
	b.MinY = math.Min(b.MinY, other.MinY)
	b.MaxX = math.Max(b.MaxX, other.MaxX)
	b.MaxY = math.Max(b.MaxY, other.MaxY)
}

// Union returns the smallest box containing a and b.
func Union(a, b AABB) AABB {
	a.Expand(b)
	return a
}

// Overlaps reports whether the boxes intersect. Touching edges overlap.
func (b AABB) Overlaps(other AABB) bool {
	return !(b.MinX > other.MaxX || b.MaxX < other.MinX ||
		b.MinY > other.MaxY || b.MaxY < other.MinY)
}

// Contains reports whether other lies entirely inside b.
func (b AABB) Contains(other AABB) bool {
	return other.MinX >= b.MinX && other.MaxX <= b.MaxX &&
		other.MinY >= b.MinY && other.MaxY <= b.MaxY
}

func (b AABB) Area() float64 {
	return (b.MaxX - b.MinX) * (b.MaxY - b.MinY)
}

// Extent returns the width and height of the box.
func (b AABB) Extent() (w, h float64) {
	return b.MaxX - b.MinX, b.MaxY - b.MinY
}

func (b AABB) Center() mgl64.Vec2 {
	return mgl64.Vec2{(b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2}
}

// LongestAxis returns the axis with the larger extent. Ties go to Y.
func (b AABB) LongestAxis() Axis {
	w, h := b.Extent()
	if w > h {
		return AxisX
	}
	return AxisY
}
