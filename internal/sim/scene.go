package sim

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/distgrab/internal/config"
	"github.com/san-kum/distgrab/internal/grab"
	"github.com/san-kum/distgrab/internal/grabbable"
	"github.com/san-kum/distgrab/internal/spatial"
)

type handSlot struct {
	input *ScriptedHand
	ctrl  *grab.Controller
}

// Scene owns one hands-and-objects world and advances it tick by tick.
type Scene struct {
	name     string
	registry *grabbable.Registry
	world    *spatial.World
	holder   *Holder
	hands    []handSlot
	destroy  []config.DestroyConfig
	nextKill int

	// visible is the last set of highlights published by the registry.
	visible map[string]bool
	pending []grab.Event
	log     *zap.Logger
}

// Build creates a scene from a validated configuration.
func Build(cfg *config.Config, log *zap.Logger) (*Scene, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Scene{
		name:     cfg.Name,
		registry: grabbable.NewRegistry(log),
		world:    spatial.NewWorld(),
		holder:   NewHolder(log),
		destroy:  append([]config.DestroyConfig(nil), cfg.Destroy...),
		visible:  make(map[string]bool),
		log:      log.With(zap.String("scene", cfg.Name)),
	}
	for _, oc := range cfg.Objects {
		obj, err := s.registry.Register(oc.Spec())
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", oc.ID, err)
		}
		s.world.Add(obj)
	}
	listener := grab.ListenerFunc(func(e grab.Event) { s.pending = append(s.pending, e) })
	policy := cfg.Policy()
	for _, hc := range cfg.Hands {
		input := NewScriptedHand(hc, s.holder)
		ctrl := grab.New(hc.ID, hc.GrabConfig(policy), input, s.world, s.registry,
			handAttacher{holder: s.holder, hand: input},
			grab.WithListener(listener), grab.WithLogger(log))
		s.hands = append(s.hands, handSlot{input: input, ctrl: ctrl})
	}
	return s, nil
}

func (s *Scene) Name() string                  { return s.name }
func (s *Scene) Registry() *grabbable.Registry { return s.registry }
func (s *Scene) World() *spatial.World         { return s.world }

func (s *Scene) Controller(hand string) (*grab.Controller, bool) {
	for _, h := range s.hands {
		if h.ctrl.ID() == hand {
			return h.ctrl, true
		}
	}
	return nil, false
}

// SetHighlightVisible records the registry's published highlight set.
func (s *Scene) SetHighlightVisible(id string, visible bool) {
	s.visible[id] = visible
}

// Step advances the scene to time now. Destructions come first, then each
// hand in declaration order, then rail drift.
func (s *Scene) Step(step int, now, dt float64) Frame {
	for s.nextKill < len(s.destroy) && s.destroy[s.nextKill].T <= now+edgeEpsilon {
		id := s.destroy[s.nextKill].Object
		if s.registry.Destroy(id) {
			s.world.Remove(id)
			s.log.Info("object destroyed", zap.String("object", id), zap.Float64("t", now))
		}
		s.nextKill++
	}

	s.registry.BeginTick()
	for _, h := range s.hands {
		h.input.Advance(now)
		s.holder.Update(h.ctrl.ID(), h.input.Position(), h.input.GrabEnded())
		h.ctrl.Tick(now, dt)
	}
	s.registry.DriftTick(dt)
	s.registry.Publish(s)

	return s.snapshot(step, now)
}

// Snapshot captures the current state without advancing.
func (s *Scene) Snapshot(step int, now float64) Frame {
	return s.snapshot(step, now)
}

func (s *Scene) snapshot(step int, now float64) Frame {
	f := Frame{Step: step, Time: now, Events: s.pending}
	s.pending = nil
	for _, h := range s.hands {
		hf := HandFrame{
			ID:       h.ctrl.ID(),
			Position: h.input.Position(),
			Phase:    h.ctrl.Phase(),
		}
		if obj, ok := h.ctrl.Target(); ok {
			hf.Target = obj.ID()
		}
		if held, ok := s.holder.Held(hf.ID); ok {
			hf.Holding = held
		}
		f.Hands = append(f.Hands, hf)
	}
	for _, obj := range s.registry.Objects() {
		of := ObjectFrame{
			ID:          obj.ID(),
			Position:    obj.Position(),
			Mode:        obj.Mode(),
			Alive:       obj.Alive(),
			Highlighted: s.visible[obj.ID()],
		}
		if owner, ok := obj.Owner(); ok {
			of.Owner = owner
		}
		if d := obj.Rail(); d != nil {
			of.Rail = d.Position()
			of.Drift = d.DriftVelocity()
		}
		f.Objects = append(f.Objects, of)
	}
	return f
}
