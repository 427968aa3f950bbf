package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/distgrab/internal/grab"
	"github.com/san-kum/distgrab/internal/grabbable"
	"github.com/san-kum/distgrab/internal/rail"
)

const (
	DefaultDt                 = 1.0 / 90
	DefaultDuration           = 3.0
	DefaultPullSpeed          = 3.0
	DefaultMaxGrabDistance    = 10.0
	DefaultSearchSphereRadius = 0.1
	DefaultStopLerpDistance   = 0.05
	DefaultObjectRadius       = 0.15
)

const (
	GrabStart = "start"
	GrabEnd   = "end"
)

var (
	ErrNoHands          = errors.New("config: at least one hand is required")
	ErrDuplicateID      = errors.New("config: duplicate id")
	ErrInvalidTimestep  = errors.New("config: dt must be positive")
	ErrInvalidDuration  = errors.New("config: duration must be positive")
	ErrUnknownPolicy    = errors.New("config: unknown highlight policy")
	ErrInvalidHand      = errors.New("config: invalid hand")
	ErrInvalidObject    = errors.New("config: invalid object")
	ErrUnknownReference = errors.New("config: unknown object reference")
)

// Vec3 is written as a flow sequence: [x, y, z].
type Vec3 [3]float64

func (v Vec3) Mgl() mgl64.Vec3 { return mgl64.Vec3(v) }

type Config struct {
	Name            string          `yaml:"name"`
	Dt              float64         `yaml:"dt"`
	Duration        float64         `yaml:"duration"`
	HighlightPolicy string          `yaml:"highlight_policy,omitempty"`
	Hands           []HandConfig    `yaml:"hands"`
	Objects         []ObjectConfig  `yaml:"objects"`
	Destroy         []DestroyConfig `yaml:"destroy,omitempty"`
}

type HandConfig struct {
	ID                 string     `yaml:"id"`
	PullSpeed          float64    `yaml:"pull_speed"`
	MaxGrabDistance    float64    `yaml:"max_grab_distance"`
	SearchSphereRadius float64    `yaml:"search_sphere_radius"`
	StopLerpDistance   float64    `yaml:"stop_lerp_distance"`
	LayerMask          uint32     `yaml:"layer_mask,omitempty"`
	Script             []Keyframe `yaml:"script"`
}

// Keyframe moves the hand and optionally fires a grab edge at time T. Pose
// fields left out keep their previous values.
type Keyframe struct {
	T        float64 `yaml:"t"`
	Position *Vec3   `yaml:"position,omitempty"`
	Forward  *Vec3   `yaml:"forward,omitempty"`
	Grab     string  `yaml:"grab,omitempty"`
}

type ObjectConfig struct {
	ID        string      `yaml:"id"`
	Position  Vec3        `yaml:"position"`
	Radius    float64     `yaml:"radius"`
	Layer     uint32      `yaml:"layer,omitempty"`
	Grabbable bool        `yaml:"grabbable"`
	Rail      *RailConfig `yaml:"rail,omitempty"`
}

type RailConfig struct {
	Start            Vec3     `yaml:"start"`
	End              Vec3     `yaml:"end"`
	Position         float64  `yaml:"position"`
	Reposition       *bool    `yaml:"reposition,omitempty"`
	MaintainMomentum *bool    `yaml:"maintain_momentum,omitempty"`
	DampenRate       *float64 `yaml:"dampen_rate,omitempty"`
}

type DestroyConfig struct {
	T      float64 `yaml:"t"`
	Object string  `yaml:"object"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:            "scene",
		Dt:              DefaultDt,
		Duration:        DefaultDuration,
		HighlightPolicy: grab.HighlightAll.String(),
	}
}

func DefaultHand(id string) HandConfig {
	return HandConfig{
		ID:                 id,
		PullSpeed:          DefaultPullSpeed,
		MaxGrabDistance:    DefaultMaxGrabDistance,
		SearchSphereRadius: DefaultSearchSphereRadius,
		StopLerpDistance:   DefaultStopLerpDistance,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Normalize fills unset hand and object parameters with defaults and sorts
// scripts and destructions by time.
func (c *Config) Normalize() {
	if c.Dt == 0 {
		c.Dt = DefaultDt
	}
	if c.Duration == 0 {
		c.Duration = DefaultDuration
	}
	for i := range c.Hands {
		h := &c.Hands[i]
		def := DefaultHand(h.ID)
		if h.PullSpeed == 0 {
			h.PullSpeed = def.PullSpeed
		}
		if h.MaxGrabDistance == 0 {
			h.MaxGrabDistance = def.MaxGrabDistance
		}
		if h.SearchSphereRadius == 0 {
			h.SearchSphereRadius = def.SearchSphereRadius
		}
		if h.StopLerpDistance == 0 {
			h.StopLerpDistance = def.StopLerpDistance
		}
		sort.SliceStable(h.Script, func(a, b int) bool { return h.Script[a].T < h.Script[b].T })
	}
	for i := range c.Objects {
		if c.Objects[i].Radius == 0 {
			c.Objects[i].Radius = DefaultObjectRadius
		}
	}
	sort.SliceStable(c.Destroy, func(a, b int) bool { return c.Destroy[a].T < c.Destroy[b].T })
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w, got %f", ErrInvalidTimestep, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w, got %f", ErrInvalidDuration, c.Duration)
	}
	if _, err := grab.ParseHighlightPolicy(c.HighlightPolicy); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownPolicy, c.HighlightPolicy)
	}
	if len(c.Hands) == 0 {
		return ErrNoHands
	}

	hands := make(map[string]bool, len(c.Hands))
	for _, h := range c.Hands {
		if h.ID == "" {
			return fmt.Errorf("%w: empty id", ErrInvalidHand)
		}
		if hands[h.ID] {
			return fmt.Errorf("%w: hand %q", ErrDuplicateID, h.ID)
		}
		hands[h.ID] = true
		if err := h.validate(); err != nil {
			return err
		}
	}

	objects := make(map[string]bool, len(c.Objects))
	for _, o := range c.Objects {
		if o.ID == "" {
			return fmt.Errorf("%w: empty id", ErrInvalidObject)
		}
		if objects[o.ID] {
			return fmt.Errorf("%w: object %q", ErrDuplicateID, o.ID)
		}
		objects[o.ID] = true
		if o.Radius <= 0 {
			return fmt.Errorf("%w: object %q radius must be positive", ErrInvalidObject, o.ID)
		}
		if o.Rail != nil && o.Rail.DampenRate != nil && *o.Rail.DampenRate < 0 {
			return fmt.Errorf("%w: object %q dampen_rate must not be negative", ErrInvalidObject, o.ID)
		}
	}

	for _, d := range c.Destroy {
		if !objects[d.Object] {
			return fmt.Errorf("%w: destroy %q", ErrUnknownReference, d.Object)
		}
	}
	return nil
}

func (h HandConfig) validate() error {
	switch {
	case h.PullSpeed <= 0:
		return fmt.Errorf("%w: %q pull_speed must be positive", ErrInvalidHand, h.ID)
	case h.MaxGrabDistance <= 0:
		return fmt.Errorf("%w: %q max_grab_distance must be positive", ErrInvalidHand, h.ID)
	case h.SearchSphereRadius < 0:
		return fmt.Errorf("%w: %q search_sphere_radius must not be negative", ErrInvalidHand, h.ID)
	case h.StopLerpDistance <= 0:
		return fmt.Errorf("%w: %q stop_lerp_distance must be positive", ErrInvalidHand, h.ID)
	}
	for _, k := range h.Script {
		if k.Grab != "" && k.Grab != GrabStart && k.Grab != GrabEnd {
			return fmt.Errorf("%w: %q unknown grab edge %q at t=%.3f", ErrInvalidHand, h.ID, k.Grab, k.T)
		}
	}
	return nil
}

func (c *Config) Policy() grab.HighlightPolicy {
	p, _ := grab.ParseHighlightPolicy(c.HighlightPolicy)
	return p
}

func (c *Config) Steps() int {
	return int(c.Duration/c.Dt + 1e-9)
}

func (h HandConfig) GrabConfig(policy grab.HighlightPolicy) grab.Config {
	mask := h.LayerMask
	if mask == 0 {
		mask = ^uint32(0)
	}
	return grab.Config{
		PullSpeed:          h.PullSpeed,
		MaxGrabDistance:    h.MaxGrabDistance,
		SearchSphereRadius: h.SearchSphereRadius,
		StopLerpDistance:   h.StopLerpDistance,
		LayerMask:          mask,
		Highlight:          policy,
	}
}

func (o ObjectConfig) Spec() grabbable.Spec {
	spec := grabbable.Spec{
		ID:        o.ID,
		Position:  o.Position.Mgl(),
		Radius:    o.Radius,
		Layer:     o.Layer,
		Grabbable: o.Grabbable,
	}
	if o.Rail != nil {
		rc := rail.DefaultConfig()
		rc.Start = o.Rail.Start.Mgl()
		rc.End = o.Rail.End.Mgl()
		rc.Position = o.Rail.Position
		if o.Rail.Reposition != nil {
			rc.Reposition = *o.Rail.Reposition
		}
		if o.Rail.MaintainMomentum != nil {
			rc.MaintainMomentum = *o.Rail.MaintainMomentum
		}
		if o.Rail.DampenRate != nil {
			rc.DampenRate = *o.Rail.DampenRate
		}
		spec.Rail = &rc
	}
	return spec
}

// Clone returns a deep copy so presets can be modified safely.
func (c *Config) Clone() *Config {
	out := *c
	out.Hands = make([]HandConfig, len(c.Hands))
	for i, h := range c.Hands {
		h.Script = append([]Keyframe(nil), h.Script...)
		for j, k := range h.Script {
			if k.Position != nil {
				p := *k.Position
				h.Script[j].Position = &p
			}
			if k.Forward != nil {
				f := *k.Forward
				h.Script[j].Forward = &f
			}
		}
		out.Hands[i] = h
	}
	out.Objects = make([]ObjectConfig, len(c.Objects))
	for i, o := range c.Objects {
		if o.Rail != nil {
			r := *o.Rail
			if r.Reposition != nil {
				v := *r.Reposition
				r.Reposition = &v
			}
			if r.MaintainMomentum != nil {
				v := *r.MaintainMomentum
				r.MaintainMomentum = &v
			}
			if r.DampenRate != nil {
				v := *r.DampenRate
				r.DampenRate = &v
			}
			o.Rail = &r
		}
		out.Objects[i] = o
	}
	out.Destroy = append([]DestroyConfig(nil), c.Destroy...)
	return &out
}
