// Package rail drives a scalar position along a straight segment between two
// anchors for objects that are constrained to slide instead of fly.
//
// A [Driver] maps a hand point onto the segment while attached, samples the
// per-tick rate of change, and keeps the object drifting with damped momentum
// after release:
//
//   - [Driver.Project]: raw fractional projection of a point onto the segment
//   - [Driver.OnAttach]: calibrates so the position does not jump on grab
//   - [Driver.OnHandUpdate]: follows the hand, clamped to [0,1]
//   - [Driver.OnDetach]: averages recent samples into a drift velocity
//   - [Driver.DriftTick]: decays and applies the drift velocity
package rail
