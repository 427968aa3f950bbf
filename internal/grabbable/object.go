package grabbable

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/distgrab/internal/rail"
)

// Mode classifies how an object moves while distance-grabbed.
type Mode int

const (
	Free Mode = iota
	RailConstrained
)

func (m Mode) String() string {
	switch m {
	case Free:
		return "free"
	case RailConstrained:
		return "rail"
	default:
		return "unknown"
	}
}

// DefaultLayer is the collision layer objects land on when none is given.
const DefaultLayer uint32 = 1

// Object is a scene object a hand can point at. Its mode is fixed when it is
// registered; the owner token records which hand, if any, holds it.
type Object struct {
	id        string
	grabbable bool
	mode      Mode
	driver    *rail.Driver

	position mgl64.Vec3
	radius   float64
	layer    uint32

	highlighted bool
	owner       string
	destroyed   bool
}

func (o *Object) ID() string               { return o.id }
func (o *Object) Grabbable() bool          { return o.grabbable }
func (o *Object) SetGrabbable(v bool)      { o.grabbable = v }
func (o *Object) Mode() Mode               { return o.mode }
func (o *Object) Rail() *rail.Driver       { return o.driver }
func (o *Object) Position() mgl64.Vec3     { return o.position }
func (o *Object) SetPosition(p mgl64.Vec3) { o.position = p }
func (o *Object) Highlighted() bool        { return o.highlighted }

// Center, Radius, Layer and Active make the object a sphere collider.
func (o *Object) Center() mgl64.Vec3 { return o.position }
func (o *Object) Radius() float64    { return o.radius }
func (o *Object) Layer() uint32      { return o.layer }
func (o *Object) Active() bool       { return !o.destroyed }

// Alive reports whether the object still exists in the scene.
func (o *Object) Alive() bool { return o != nil && !o.destroyed }

// TryAcquire takes the owner token for hand. It fails if any hand, including
// this one, already holds it, or the object is gone.
func (o *Object) TryAcquire(hand string) bool {
	if !o.Alive() || o.owner != "" || hand == "" {
		return false
	}
	o.owner = hand
	return true
}

// Release returns the token if hand holds it.
func (o *Object) Release(hand string) bool {
	if o.owner == "" || o.owner != hand {
		return false
	}
	o.owner = ""
	return true
}

func (o *Object) Owner() (string, bool) {
	return o.owner, o.owner != ""
}
