// Package viz renders a running simulation in the terminal.
//
// [Model] hosts a [sim.World] inside a Bubble Tea program, advancing it one
// tick per frame, and draws the particles on a Braille [Canvas] next to a
// kinetic energy chart and per-tick collision counters.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	N     - Advance a single tick while paused
//	R     - Reset to the initial particle set
//	B     - Toggle BVH node bounds
//	T     - Cycle color themes
//	[ ]   - Step backwards and forwards through recent history
//	?     - Show help overlay
package viz
