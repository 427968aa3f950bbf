package grabbable

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/san-kum/distgrab/internal/rail"
)

// HighlightRenderer toggles the highlight mesh of an object.
type HighlightRenderer interface {
	SetHighlightVisible(id string, visible bool)
}

type Spec struct {
	ID        string
	Position  mgl64.Vec3
	Radius    float64
	Layer     uint32
	Grabbable bool
	// Rail makes the object rail-constrained when set.
	Rail *rail.Config
}

type Registry struct {
	objects map[string]*Object
	order   []string
	log     *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		objects: make(map[string]*Object),
		order:   make([]string, 0),
		log:     log,
	}
}

func (r *Registry) Register(spec Spec) (*Object, error) {
	if spec.ID == "" {
		return nil, fmt.Errorf("grabbable: empty object id")
	}
	if _, ok := r.objects[spec.ID]; ok {
		return nil, fmt.Errorf("grabbable: duplicate object id %q", spec.ID)
	}

	layer := spec.Layer
	if layer == 0 {
		layer = DefaultLayer
	}
	obj := &Object{
		id:        spec.ID,
		grabbable: spec.Grabbable,
		mode:      Free,
		position:  spec.Position,
		radius:    spec.Radius,
		layer:     layer,
	}
	if spec.Rail != nil {
		obj.mode = RailConstrained
		obj.driver = rail.New(*spec.Rail, obj, r.log.With(zap.String("object", spec.ID)))
	}

	r.objects[obj.id] = obj
	r.order = append(r.order, obj.id)
	return obj, nil
}

// Lookup resolves a collider id. Unknown and destroyed objects are not found.
func (r *Registry) Lookup(id string) (*Object, bool) {
	obj, ok := r.objects[id]
	if !ok || !obj.Alive() {
		return nil, false
	}
	return obj, true
}

// Eligible reports the author-set grab flag; unrecognized objects are never
// eligible.
func (r *Registry) Eligible(obj *Object) bool {
	return obj.Alive() && obj.grabbable
}

func (r *Registry) Classify(obj *Object) (Mode, *rail.Driver) {
	return obj.mode, obj.driver
}

// MarkHighlighted lights obj for the current tick.
func (r *Registry) MarkHighlighted(obj *Object) {
	if obj.Alive() {
		obj.highlighted = true
	}
}

// BeginTick clears every highlight. Run it once per tick before any hand
// casts.
func (r *Registry) BeginTick() {
	for _, obj := range r.objects {
		obj.highlighted = false
	}
}

// Publish pushes the highlight flags to the renderer.
func (r *Registry) Publish(renderer HighlightRenderer) {
	if renderer == nil {
		return
	}
	for _, id := range r.order {
		obj := r.objects[id]
		renderer.SetHighlightVisible(id, obj.Alive() && obj.highlighted)
	}
}

// DriftTick advances the release momentum of every live rail object.
func (r *Registry) DriftTick(dt float64) {
	for _, id := range r.order {
		obj := r.objects[id]
		if obj.Alive() && obj.driver != nil {
			obj.driver.DriftTick(dt)
		}
	}
}

// Destroy removes obj from play. Its owner token is dropped with it.
func (r *Registry) Destroy(id string) bool {
	obj, ok := r.objects[id]
	if !ok || obj.destroyed {
		return false
	}
	obj.destroyed = true
	obj.highlighted = false
	obj.owner = ""
	r.log.Debug("object destroyed", zap.String("object", id))
	return true
}

// Objects returns live and destroyed objects in registration order.
func (r *Registry) Objects() []*Object {
	out := make([]*Object, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.objects[id])
	}
	return out
}

// Rails returns the ids of rail-constrained objects, sorted.
func (r *Registry) Rails() []string {
	ids := make([]string, 0)
	for id, obj := range r.objects {
		if obj.mode == RailConstrained {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
