package sim

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/distgrab/internal/grab"
	"github.com/san-kum/distgrab/internal/grabbable"
)

type ObjectFrame struct {
	ID          string         `json:"id"`
	Position    mgl64.Vec3     `json:"position"`
	Mode        grabbable.Mode `json:"mode"`
	Alive       bool           `json:"alive"`
	Highlighted bool           `json:"highlighted"`
	Owner       string         `json:"owner,omitempty"`
	// Rail and Drift are only meaningful for rail-constrained objects.
	Rail  float64 `json:"rail"`
	Drift float64 `json:"drift"`
}

type HandFrame struct {
	ID       string     `json:"id"`
	Position mgl64.Vec3 `json:"position"`
	Phase    grab.Phase `json:"phase"`
	Target   string     `json:"target,omitempty"`
	Holding  string     `json:"holding,omitempty"`
}

// Frame is the post-tick snapshot of a scene.
type Frame struct {
	Step    int           `json:"step"`
	Time    float64       `json:"time"`
	Hands   []HandFrame   `json:"hands"`
	Objects []ObjectFrame `json:"objects"`
	Events  []grab.Event  `json:"events,omitempty"`
}

func (f *Frame) Object(id string) (ObjectFrame, bool) {
	for _, o := range f.Objects {
		if o.ID == id {
			return o, true
		}
	}
	return ObjectFrame{}, false
}

func (f *Frame) Hand(id string) (HandFrame, bool) {
	for _, h := range f.Hands {
		if h.ID == id {
			return h, true
		}
	}
	return HandFrame{}, false
}

type Metric interface {
	Name() string
	Observe(f *Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f *Frame)
}

type Config struct {
	Dt       float64
	Duration float64
}

type Result struct {
	Scene      string             `json:"scene"`
	Frames     []Frame            `json:"frames"`
	Events     []grab.Event       `json:"events"`
	Metrics    map[string]float64 `json:"metrics"`
	StepsTaken int                `json:"steps_taken"`
}
