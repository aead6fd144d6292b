// Package particle implements point-mass bodies for the collision simulator.
//
// A [Particle] carries mass, position, velocity and an accumulated force.
// Forces take effect only when [Particle.Update] integrates them with
// semi-implicit Euler. Walls reflect velocity through [Particle.HitBottomTop]
// and [Particle.HitLeftRight]; contacts exchange momentum through
// [Particle.CollisionResponse].
//
// Bodies are tagged [Dynamic] or [Fixed]. Fixed bodies have infinite inertia:
// forces never accelerate them and impulses never change their velocity.
package particle
