package sim

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/distgrab/internal/config"
)

const edgeEpsilon = 1e-9

type poseKey struct {
	t float64
	v mgl64.Vec3
}

type edgeKey struct {
	t     float64
	start bool
}

// ScriptedHand replays a keyframed pose and gesture timeline as a grab.Hand.
// Gesture edges are raised for exactly one tick: the first tick at or after
// their time.
type ScriptedHand struct {
	id        string
	positions []poseKey
	forwards  []poseKey
	edges     []edgeKey
	next      int

	pos, fwd       mgl64.Vec3
	started, ended bool

	holder *Holder
}

func NewScriptedHand(cfg config.HandConfig, holder *Holder) *ScriptedHand {
	h := &ScriptedHand{
		id:     cfg.ID,
		fwd:    mgl64.Vec3{0, 0, 1},
		holder: holder,
	}
	script := append([]config.Keyframe(nil), cfg.Script...)
	sort.SliceStable(script, func(a, b int) bool { return script[a].T < script[b].T })
	for _, k := range script {
		if k.Position != nil {
			h.positions = append(h.positions, poseKey{t: k.T, v: k.Position.Mgl()})
		}
		if k.Forward != nil {
			h.forwards = append(h.forwards, poseKey{t: k.T, v: k.Forward.Mgl()})
		}
		switch k.Grab {
		case config.GrabStart:
			h.edges = append(h.edges, edgeKey{t: k.T, start: true})
		case config.GrabEnd:
			h.edges = append(h.edges, edgeKey{t: k.T})
		}
	}
	h.pos = sample(h.positions, 0, h.pos)
	h.fwd = sample(h.forwards, 0, h.fwd)
	return h
}

// Advance moves the hand to time now and raises any edges that came due.
func (h *ScriptedHand) Advance(now float64) {
	h.started, h.ended = false, false
	for h.next < len(h.edges) && h.edges[h.next].t <= now+edgeEpsilon {
		if h.edges[h.next].start {
			h.started = true
		} else {
			h.ended = true
		}
		h.next++
	}
	h.pos = sample(h.positions, now, h.pos)
	h.fwd = sample(h.forwards, now, h.fwd)
}

func (h *ScriptedHand) ID() string           { return h.id }
func (h *ScriptedHand) Position() mgl64.Vec3 { return h.pos }
func (h *ScriptedHand) Forward() mgl64.Vec3  { return h.fwd }
func (h *ScriptedHand) Pointer() (mgl64.Vec3, mgl64.Vec3) {
	return h.pos, h.fwd
}
func (h *ScriptedHand) GrabStarted() bool { return h.started }
func (h *ScriptedHand) GrabEnded() bool   { return h.ended }

func (h *ScriptedHand) HoldingOther() bool {
	return h.holder != nil && h.holder.Holding(h.id)
}

func sample(keys []poseKey, t float64, fallback mgl64.Vec3) mgl64.Vec3 {
	switch {
	case len(keys) == 0:
		return fallback
	case t <= keys[0].t:
		return keys[0].v
	case t >= keys[len(keys)-1].t:
		return keys[len(keys)-1].v
	}
	for i := 1; i < len(keys); i++ {
		a, b := keys[i-1], keys[i]
		if t > b.t {
			continue
		}
		span := b.t - a.t
		if span <= 0 {
			return b.v
		}
		f := (t - a.t) / span
		return a.v.Add(b.v.Sub(a.v).Mul(f))
	}
	return keys[len(keys)-1].v
}
