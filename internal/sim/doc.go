// Package sim drives scripted hands and grabbable objects through fixed
// timestep ticks and records a Frame after each one.
package sim
