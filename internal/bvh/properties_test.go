package bvh_test

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/particlesim/internal/bvh"
	"github.com/san-kum/particlesim/internal/geom"
	"github.com/san-kum/particlesim/internal/particle"
)

func scatter(n int, seed int64, spread float64) []particle.Particle {
	rng := rand.New(rand.NewSource(seed))
	ps := make([]particle.Particle, n)
	for i := range ps {
		ps[i] = particle.New(1,
			mgl64.Vec2{(rng.Float64()*2 - 1) * spread, (rng.Float64()*2 - 1) * spread},
			mgl64.Vec2{rng.NormFloat64() * 0.1, rng.NormFloat64() * 0.1})
	}
	return ps
}

var _ = Describe("Tree", func() {
	var tree *bvh.Tree

	BeforeEach(func() {
		tree = bvh.New(bvh.DefaultMargin)
	})

	Context("with no particles", func() {
		It("has no root and answers every query with nothing", func() {
			tree.Build([]particle.Particle{})
			_, ok := tree.Root()
			Expect(ok).To(BeFalse())
			Expect(tree.Query(geom.NewAABB(-100, -100, 100, 100), nil)).To(BeEmpty())
		})
	})

	Context("with one particle", func() {
		It("uses the leaf as the root", func() {
			ps := scatter(1, 1, 1)
			tree.Build(ps)
			root, ok := tree.Root()
			Expect(ok).To(BeTrue())
			Expect(root.IsLeaf()).To(BeTrue())
			Expect(root.Bounds).To(Equal(ps[0].Bounds(bvh.DefaultMargin)))
		})
	})

	Context("with many particles", func() {
		var ps []particle.Particle

		BeforeEach(func() {
			ps = scatter(128, 42, 1)
			tree.Build(ps)
		})

		It("holds one leaf per particle and n-1 internal nodes", func() {
			var leaves []int
			internal := 0
			tree.Walk(func(v bvh.NodeView) bool {
				if v.IsLeaf() {
					leaves = append(leaves, v.Leaf)
				} else {
					internal++
				}
				return true
			})
			want := make([]int, len(ps))
			for i := range want {
				want[i] = i
			}
			Expect(leaves).To(ConsistOf(want))
			Expect(internal).To(Equal(len(ps) - 1))
		})

		It("finds each particle with its own padded box", func() {
			for i := range ps {
				Expect(tree.Query(ps[i].Bounds(bvh.DefaultMargin), nil)).To(ContainElement(i))
			}
		})

		It("agrees with a linear scan", func() {
			brute := bvh.NewBruteForce(bvh.DefaultMargin)
			brute.Build(ps)
			for i := range ps {
				box := ps[i].Bounds(0.25)
				Expect(tree.Query(box, nil)).To(ConsistOf(brute.Query(box, nil)))
			}
		})

		It("never returns a leaf outside the query box", func() {
			box := geom.NewAABB(-0.2, -0.2, 0.1, 0.3)
			for _, i := range tree.Query(box, nil) {
				Expect(tree.LeafBounds(i).Overlaps(box)).To(BeTrue())
			}
		})

		It("stays consistent after every particle moves", func() {
			tree.UpdateParticles(ps, 0.5)
			for i := range ps {
				Expect(tree.LeafBounds(i)).To(Equal(ps[i].Bounds(bvh.DefaultMargin)))
				Expect(tree.Query(ps[i].Bounds(bvh.DefaultMargin), nil)).To(ContainElement(i))
			}
		})
	})

	Context("with clustered particles", func() {
		It("splits along the longer axis", func() {
			ps := []particle.Particle{
				particle.New(1, mgl64.Vec2{-0.9, 0}, mgl64.Vec2{}),
				particle.New(1, mgl64.Vec2{0.9, 0.01}, mgl64.Vec2{}),
				particle.New(1, mgl64.Vec2{-0.8, 0.02}, mgl64.Vec2{}),
				particle.New(1, mgl64.Vec2{0.8, 0.03}, mgl64.Vec2{}),
			}
			tree.Build(ps)
			root, _ := tree.Root()
			left := tree.Node(root.Left)
			right := tree.Node(root.Right)
			Expect(left.Bounds.MaxX).To(BeNumerically("<", 0))
			Expect(right.Bounds.MinX).To(BeNumerically(">", 0))
		})
	})
})
