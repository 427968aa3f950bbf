package grab_test

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/distgrab/internal/grab"
	"github.com/san-kum/distgrab/internal/grabbable"
)

type fakeHand struct {
	pos      mgl64.Vec3
	forward  mgl64.Vec3
	started  bool
	ended    bool
	holding  bool
	pointerN int
}

func (h *fakeHand) Position() mgl64.Vec3 { return h.pos }
func (h *fakeHand) Pointer() (mgl64.Vec3, mgl64.Vec3) {
	h.pointerN++
	return h.pos, h.forward
}
func (h *fakeHand) GrabStarted() bool  { return h.started }
func (h *fakeHand) GrabEnded() bool    { return h.ended }
func (h *fakeHand) HoldingOther() bool { return h.holding }

// clearEdges drops the one-tick gesture edges.
func (h *fakeHand) clearEdges() {
	h.started = false
	h.ended = false
}

type fakeQuery struct {
	hit string
}

func (q *fakeQuery) CastVolume(origin mgl64.Vec3, radius float64, dir mgl64.Vec3, maxDist float64, mask uint32) (string, mgl64.Vec3, bool) {
	if q.hit == "" {
		return "", mgl64.Vec3{}, false
	}
	return q.hit, origin.Add(dir.Mul(maxDist / 2)), true
}

type fakeAttacher struct {
	hand string
	obj  *grabbable.Object
}

func (a *fakeAttacher) RigidlyAttach(hand string, obj *grabbable.Object) {
	a.hand = hand
	a.obj = obj
}

type eventLog struct {
	events []grab.Event
}

func (l *eventLog) OnGrabEvent(e grab.Event) { l.events = append(l.events, e) }

func (l *eventLog) kinds() []grab.EventKind {
	out := make([]grab.EventKind, 0, len(l.events))
	for _, e := range l.events {
		out = append(out, e.Kind)
	}
	return out
}
