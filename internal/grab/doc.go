// Package grab implements the per-hand distance-grab state machine.
//
// A [Controller] is ticked once per simulation step. While idle it sweeps a
// sphere forward from the hand's pointer, highlights what it hits and, on a
// grab-start edge, attaches to an eligible object. Free objects then fly to
// the hand with a converging lerp until they are close enough to be handed
// to the rigid-attachment collaborator; rail-constrained objects hand control
// to their [rail.Driver] until the grab ends.
//
// The engine is reached only through the interfaces in this package: [Hand]
// for pose and gesture edges, [SpatialQuery] for the sweep, [RigidAttacher]
// for the final hand-over, and [Registry] for object bookkeeping.
package grab
