// Package geom provides the axis-aligned bounding box used by the broad
// phase.
//
//   - [AABB]: box with [AABB.Expand], [AABB.Overlaps] and [AABB.Area]
//   - [Padded]: box around a point, the leaf volume of a particle
//   - [Axis]: split axis selection for tree construction
package geom
