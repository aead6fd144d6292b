package bvh

import (
	"fmt"

	"github.com/san-kum/particlesim/internal/geom"
	"github.com/san-kum/particlesim/internal/particle"
)

// BroadPhase proposes candidate contacts for the narrow phase.
type BroadPhase interface {
	Build(ps []particle.Particle)
	Query(box geom.AABB, dst []int) []int
	Name() string
}

// BruteForce tests the query box against every particle box.
type BruteForce struct {
	margin float64
	boxes  []geom.AABB
}

func NewBruteForce(margin float64) *BruteForce {
	return &BruteForce{margin: margin}
}

func (b *BruteForce) Name() string { return "brute" }

func (b *BruteForce) Build(ps []particle.Particle) {
	b.boxes = b.boxes[:0]
	for i := range ps {
		b.boxes = append(b.boxes, ps[i].Bounds(b.margin))
	}
}

func (b *BruteForce) Query(box geom.AABB, dst []int) []int {
	for i, bb := range b.boxes {
		if bb.Overlaps(box) {
			dst = append(dst, i)
		}
	}
	return dst
}

var broadPhases = map[string]func(margin float64) BroadPhase{
	"bvh":   func(m float64) BroadPhase { return New(m) },
	"brute": func(m float64) BroadPhase { return NewBruteForce(m) },
}

// NewBroadPhase returns the broad phase registered under name.
func NewBroadPhase(name string, margin float64) (BroadPhase, error) {
	fn, ok := broadPhases[name]
	if !ok {
		return nil, fmt.Errorf("unknown broad phase: %s", name)
	}
	return fn(margin), nil
}

// BroadPhaseNames lists the registered broad phases.
func BroadPhaseNames() []string {
	return []string{"bvh", "brute"}
}
