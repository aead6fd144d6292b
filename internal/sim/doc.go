// Package sim runs the per-tick collision pipeline.
//
// A [World] owns the particle set and its broad phase. Each call to
// [World.Advance] performs, in order:
//
//  1. integration of every particle with the fixed timestep
//  2. wall reflection against the square domain
//  3. a full rebuild of the broad phase
//  4. the narrow phase: exact distance checks and elastic impulses
//
// [Simulator] drives a World for a configured number of ticks, feeding
// [Metric] and [Observer] implementations and recording sampled frames.
//
// # Thread Safety
//
// Worlds and Simulators are single-threaded. The particle slice returned by
// Advance is owned by the World and is only valid until the next tick.
package sim
