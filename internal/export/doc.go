// Package export renders scenes and canvases as SVG.
package export
