package grab

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/distgrab/internal/grabbable"
)

// Hand is the pose and gesture source of one controller.
type Hand interface {
	// Position is the hand point used for lerp targets and rail projection.
	Position() mgl64.Vec3
	// Pointer returns the origin and forward direction of the pointing ray.
	Pointer() (origin, forward mgl64.Vec3)
	GrabStarted() bool
	GrabEnded() bool
	// HoldingOther reports whether the hand already holds something through
	// another mechanism.
	HoldingOther() bool
}

// SpatialQuery sweeps a sphere and returns the first collider hit.
type SpatialQuery interface {
	CastVolume(origin mgl64.Vec3, radius float64, dir mgl64.Vec3, maxDist float64, mask uint32) (id string, point mgl64.Vec3, ok bool)
}

// RigidAttacher takes over an object that finished flying to the hand. The
// owner token passes along with the object.
type RigidAttacher interface {
	RigidlyAttach(hand string, obj *grabbable.Object)
}

type Registry interface {
	Lookup(id string) (*grabbable.Object, bool)
	Eligible(obj *grabbable.Object) bool
	MarkHighlighted(obj *grabbable.Object)
}

// HighlightPolicy decides which hovered objects light up.
type HighlightPolicy int

const (
	// HighlightAll lights anything on the grabbable layer, eligible or not.
	HighlightAll HighlightPolicy = iota
	// HighlightEligible lights only objects that could be grabbed.
	HighlightEligible
)

func (p HighlightPolicy) String() string {
	switch p {
	case HighlightAll:
		return "all"
	case HighlightEligible:
		return "eligible"
	default:
		return "unknown"
	}
}

func ParseHighlightPolicy(s string) (HighlightPolicy, error) {
	switch s {
	case "", "all":
		return HighlightAll, nil
	case "eligible":
		return HighlightEligible, nil
	default:
		return HighlightAll, fmt.Errorf("unknown highlight policy %q", s)
	}
}

type Config struct {
	PullSpeed          float64
	MaxGrabDistance    float64
	SearchSphereRadius float64
	StopLerpDistance   float64
	LayerMask          uint32
	Highlight          HighlightPolicy
}

func DefaultConfig() Config {
	return Config{
		PullSpeed:          3.0,
		MaxGrabDistance:    10.0,
		SearchSphereRadius: 0.1,
		StopLerpDistance:   0.05,
		LayerMask:          ^uint32(0),
		Highlight:          HighlightAll,
	}
}

// Phase is the externally visible state of a controller.
type Phase int

const (
	Idle Phase = iota
	Lerping
	RailAttached
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Lerping:
		return "lerping"
	case RailAttached:
		return "rail"
	default:
		return "unknown"
	}
}

type EventKind int

const (
	EventAttach EventKind = iota
	EventDetach
	EventLerpComplete
	EventRejected
	EventStale
)

func (k EventKind) String() string {
	switch k {
	case EventAttach:
		return "attach"
	case EventDetach:
		return "detach"
	case EventLerpComplete:
		return "lerp_complete"
	case EventRejected:
		return "rejected"
	case EventStale:
		return "stale"
	default:
		return "unknown"
	}
}

type Event struct {
	Kind   EventKind
	Hand   string
	Object string
	Mode   grabbable.Mode
	Time   float64
}

type Listener interface {
	OnGrabEvent(e Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(e Event)

func (f ListenerFunc) OnGrabEvent(e Event) { f(e) }
