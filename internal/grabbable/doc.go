// Package grabbable tracks the objects hands can distance-grab: their grab
// eligibility, per-tick highlight flag, motion mode and exclusive owner token.
package grabbable
