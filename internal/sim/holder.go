package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/san-kum/distgrab/internal/grabbable"
)

type hold struct {
	obj    *grabbable.Object
	offset mgl64.Vec3
}

// Holder is the ordinary hand-grab mechanism that takes over objects once
// they have flown into the hand. A held object keeps its offset from the
// hand until the grab ends.
type Holder struct {
	holds map[string]hold
	log   *zap.Logger
}

func NewHolder(log *zap.Logger) *Holder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Holder{holds: make(map[string]hold), log: log}
}

// RigidlyAttach keeps the owner token with hand for as long as it holds obj.
func (h *Holder) RigidlyAttach(hand string, obj *grabbable.Object, handPos mgl64.Vec3) {
	h.holds[hand] = hold{obj: obj, offset: obj.Position().Sub(handPos)}
	h.log.Debug("rigid hold", zap.String("hand", hand), zap.String("object", obj.ID()))
}

// Update makes the held object follow the hand, or lets go when released is
// set or the object is gone.
func (h *Holder) Update(hand string, handPos mgl64.Vec3, released bool) {
	hd, ok := h.holds[hand]
	if !ok {
		return
	}
	if released || !hd.obj.Alive() {
		hd.obj.Release(hand)
		delete(h.holds, hand)
		h.log.Debug("rigid release", zap.String("hand", hand), zap.String("object", hd.obj.ID()))
		return
	}
	hd.obj.SetPosition(handPos.Add(hd.offset))
}

func (h *Holder) Holding(hand string) bool {
	_, ok := h.holds[hand]
	return ok
}

// Held returns the id of the object hand holds, if any.
func (h *Holder) Held(hand string) (string, bool) {
	hd, ok := h.holds[hand]
	if !ok {
		return "", false
	}
	return hd.obj.ID(), true
}

// handAttacher binds a Holder to one hand's pose for grab.RigidAttacher.
type handAttacher struct {
	holder *Holder
	hand   *ScriptedHand
}

func (a handAttacher) RigidlyAttach(hand string, obj *grabbable.Object) {
	a.holder.RigidlyAttach(hand, obj, a.hand.Position())
}
