// Package storage keeps simulation runs on disk. Each run is a directory
// holding metadata.json, the scene as scene.yaml and one CSV row per frame.
package storage
