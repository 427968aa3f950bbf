package grab

import (
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/san-kum/distgrab/internal/grabbable"
	"github.com/san-kum/distgrab/internal/rail"
)

// state is the tagged phase payload. Only the attached variants carry a
// target, so an idle hand cannot point at an object.
type state interface {
	phase() Phase
}

type idleState struct{}

type lerpState struct {
	obj       *grabbable.Object
	start     mgl64.Vec3
	startTime float64
	travel    float64
}

type railState struct {
	obj    *grabbable.Object
	driver *rail.Driver
}

func (idleState) phase() Phase  { return Idle }
func (*lerpState) phase() Phase { return Lerping }
func (*railState) phase() Phase { return RailAttached }

type Controller struct {
	id       string
	cfg      Config
	hand     Hand
	query    SpatialQuery
	registry Registry
	attacher RigidAttacher
	listener Listener
	log      *zap.Logger

	state state
}

type Option func(*Controller)

func WithListener(l Listener) Option {
	return func(c *Controller) { c.listener = l }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

func New(id string, cfg Config, hand Hand, query SpatialQuery, registry Registry, attacher RigidAttacher, opts ...Option) *Controller {
	c := &Controller{
		id:       id,
		cfg:      cfg,
		hand:     hand,
		query:    query,
		registry: registry,
		attacher: attacher,
		log:      zap.NewNop(),
		state:    idleState{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(zap.String("hand", id))
	return c
}

func (c *Controller) ID() string     { return c.id }
func (c *Controller) Config() Config { return c.cfg }
func (c *Controller) Phase() Phase   { return c.state.phase() }

// Target returns the tracked object while lerping or rail-attached.
func (c *Controller) Target() (*grabbable.Object, bool) {
	switch st := c.state.(type) {
	case *lerpState:
		return st.obj, true
	case *railState:
		return st.obj, true
	}
	return nil, false
}

// Tick runs one simulation step at time now, dt seconds after the previous one.
func (c *Controller) Tick(now, dt float64) {
	switch st := c.state.(type) {
	case *lerpState:
		c.updateLerping(st, now)
	case *railState:
		c.updateRailAttached(st, now, dt)
	default:
		c.detect(now)
	}
}

func (c *Controller) detect(now float64) {
	if c.hand.HoldingOther() {
		return
	}

	origin, forward := c.hand.Pointer()
	id, _, ok := c.query.CastVolume(origin, c.cfg.SearchSphereRadius, forward, c.cfg.MaxGrabDistance, c.cfg.LayerMask)
	if !ok {
		return
	}
	obj, ok := c.registry.Lookup(id)
	if !ok {
		return
	}

	eligible := c.registry.Eligible(obj)
	if eligible || c.cfg.Highlight == HighlightAll {
		c.registry.MarkHighlighted(obj)
	}
	if eligible && c.hand.GrabStarted() {
		c.Attach(obj, now)
	}
}

// Attach starts a distance grab of obj. It fails when the controller is not
// idle or another hand owns the object.
func (c *Controller) Attach(obj *grabbable.Object, now float64) bool {
	if _, idle := c.state.(idleState); !idle || !obj.Alive() {
		return false
	}
	if !obj.TryAcquire(c.id) {
		owner, _ := obj.Owner()
		c.log.Debug("attach rejected", zap.String("object", obj.ID()), zap.String("owner", owner))
		c.emit(EventRejected, obj, now)
		return false
	}

	handPos := c.hand.Position()
	mode, driver := obj.Mode(), obj.Rail()
	if mode == grabbable.RailConstrained && driver != nil {
		driver.OnAttach(handPos)
		c.state = &railState{obj: obj, driver: driver}
	} else {
		start := obj.Position()
		c.state = &lerpState{
			obj:       obj,
			start:     start,
			startTime: now,
			travel:    start.Sub(handPos).Len(),
		}
	}

	c.log.Debug("attached", zap.String("object", obj.ID()), zap.Stringer("mode", mode))
	c.emit(EventAttach, obj, now)
	return true
}

func (c *Controller) updateLerping(st *lerpState, now float64) {
	if !st.obj.Alive() {
		c.dropStale(st.obj, now)
		return
	}
	if c.hand.GrabEnded() {
		st.obj.Release(c.id)
		c.state = idleState{}
		c.log.Debug("lerp released", zap.String("object", st.obj.ID()))
		c.emit(EventDetach, st.obj, now)
		return
	}

	handPos := c.hand.Position()
	st.travel = st.start.Sub(handPos).Len()
	fraction := 1.0
	if st.travel > 0 {
		fraction = (now - st.startTime) * c.cfg.PullSpeed / st.travel
	}
	fraction = mgl64.Clamp(fraction, 0, 1)

	pos := st.obj.Position()
	st.obj.SetPosition(pos.Add(handPos.Sub(pos).Mul(fraction)))

	if st.obj.Position().Sub(handPos).Len() < c.cfg.StopLerpDistance {
		c.state = idleState{}
		if c.attacher != nil {
			c.attacher.RigidlyAttach(c.id, st.obj)
		} else {
			st.obj.Release(c.id)
		}
		c.log.Debug("lerp complete", zap.String("object", st.obj.ID()))
		c.emit(EventLerpComplete, st.obj, now)
	}
}

func (c *Controller) updateRailAttached(st *railState, now, dt float64) {
	if !st.obj.Alive() {
		c.dropStale(st.obj, now)
		return
	}
	if c.hand.GrabEnded() {
		c.state = idleState{}
		st.driver.OnDetach()
		st.obj.Release(c.id)
		c.log.Debug("rail detached",
			zap.String("object", st.obj.ID()),
			zap.Float64("drift", st.driver.DriftVelocity()))
		c.emit(EventDetach, st.obj, now)
		return
	}
	st.driver.OnHandUpdate(c.hand.Position(), dt)
}

// dropStale returns to idle without touching the driver of an object that
// vanished while held.
func (c *Controller) dropStale(obj *grabbable.Object, now float64) {
	c.state = idleState{}
	obj.Release(c.id)
	c.log.Warn("target no longer in scene, releasing", zap.String("object", obj.ID()))
	c.emit(EventStale, obj, now)
}

func (c *Controller) emit(kind EventKind, obj *grabbable.Object, now float64) {
	if c.listener == nil {
		return
	}
	c.listener.OnGrabEvent(Event{
		Kind:   kind,
		Hand:   c.id,
		Object: obj.ID(),
		Mode:   obj.Mode(),
		Time:   now,
	})
}
