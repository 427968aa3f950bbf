// Package spatial is a small sphere-collider world that answers the sweep
// queries a hand uses to find what it is pointing at.
package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AllLayers matches every collider.
const AllLayers = ^uint32(0)

// Collider is a sphere owned by the scene. Its center may move between
// queries.
type Collider interface {
	ID() string
	Center() mgl64.Vec3
	Radius() float64
	Layer() uint32
	Active() bool
}

// Hit describes the first collider met by a sweep.
type Hit struct {
	Collider Collider
	// Point lies on the collider surface facing the sweep.
	Point mgl64.Vec3
	// Distance is how far the sweep traveled before contact.
	Distance float64
}

type World struct {
	colliders []Collider
	index     map[string]int
}

func NewWorld() *World {
	return &World{
		colliders: make([]Collider, 0),
		index:     make(map[string]int),
	}
}

// Add registers c, replacing any collider with the same id.
func (w *World) Add(c Collider) {
	if i, ok := w.index[c.ID()]; ok {
		w.colliders[i] = c
		return
	}
	w.index[c.ID()] = len(w.colliders)
	w.colliders = append(w.colliders, c)
}

func (w *World) Remove(id string) bool {
	i, ok := w.index[id]
	if !ok {
		return false
	}
	w.colliders = append(w.colliders[:i], w.colliders[i+1:]...)
	delete(w.index, id)
	for j := i; j < len(w.colliders); j++ {
		w.index[w.colliders[j].ID()] = j
	}
	return true
}

func (w *World) Len() int { return len(w.colliders) }

// SphereCast sweeps a sphere of the given radius from origin along dir for at
// most maxDist and returns the nearest active collider on a layer in mask.
// Colliders already overlapping the sphere at origin hit at distance 0. Ties
// go to the collider added first.
func (w *World) SphereCast(origin mgl64.Vec3, radius float64, dir mgl64.Vec3, maxDist float64, mask uint32) (Hit, bool) {
	l := dir.Len()
	if l == 0 || math.IsNaN(l) || maxDist < 0 {
		return Hit{}, false
	}
	d := dir.Mul(1 / l)

	best := Hit{Distance: math.Inf(1)}
	found := false
	for _, c := range w.colliders {
		if !c.Active() || c.Layer()&mask == 0 {
			continue
		}
		t, ok := sweep(origin, d, c.Center(), c.Radius()+radius)
		if !ok || t > maxDist || t >= best.Distance {
			continue
		}
		best = Hit{Collider: c, Distance: t}
		found = true
	}
	if !found {
		return Hit{}, false
	}

	center := best.Collider.Center()
	toSweep := origin.Add(d.Mul(best.Distance)).Sub(center)
	if n := toSweep.Len(); n > 0 {
		best.Point = center.Add(toSweep.Mul(best.Collider.Radius() / n))
	} else {
		best.Point = center
	}
	return best, true
}

// CastVolume is SphereCast reduced to the id and contact point.
func (w *World) CastVolume(origin mgl64.Vec3, radius float64, dir mgl64.Vec3, maxDist float64, mask uint32) (string, mgl64.Vec3, bool) {
	hit, ok := w.SphereCast(origin, radius, dir, maxDist, mask)
	if !ok {
		return "", mgl64.Vec3{}, false
	}
	return hit.Collider.ID(), hit.Point, true
}

// sweep returns the ray parameter at which a ray from o along unit d enters
// the sphere (c, r).
func sweep(o, d, c mgl64.Vec3, r float64) (float64, bool) {
	oc := o.Sub(c)
	cc := oc.Dot(oc) - r*r
	if cc <= 0 {
		return 0, true
	}
	b := oc.Dot(d)
	if b > 0 {
		// moving away from a sphere we start outside of
		return 0, false
	}
	disc := b*b - cc
	if disc < 0 {
		return 0, false
	}
	return -b - math.Sqrt(disc), true
}
