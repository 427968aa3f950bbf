// Package viz plays a scene in the terminal using the Bubble Tea framework.
//
// The ground plane is drawn top-down on a [Canvas] of Braille dots: rails as
// lines, objects as circles (a second ring when highlighted) and hands as
// crosses with their pointing ray. A side panel lists hand phases, object
// state, rail position charts and recent grab events.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single step while paused
//	R     - Rebuild the scene and restart
//	+/-   - Ticks per frame
//	T     - Cycle color themes
//	Q     - Quit
package viz
