// Package optim sweeps grab tuning parameters over a grid of scene runs.
package optim
