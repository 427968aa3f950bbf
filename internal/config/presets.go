package config

import "sort"

func vec(x, y, z float64) *Vec3 { return &Vec3{x, y, z} }

func flag(v bool) *bool { return &v }

func hand(id string, script ...Keyframe) HandConfig {
	h := DefaultHand(id)
	h.Script = script
	return h
}

func at(t float64, pos, fwd *Vec3) Keyframe { return Keyframe{T: t, Position: pos, Forward: fwd} }

func edge(t float64, kind string) Keyframe { return Keyframe{T: t, Grab: kind} }

var presets = map[string]func() *Config{
	// a cube three metres out flies to a still hand
	"fetch": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "fetch"
		cfg.Duration = 2.0
		cfg.Hands = []HandConfig{
			hand("right",
				at(0, vec(0, 1, 0), vec(0, 0, 1)),
				edge(0.2, GrabStart),
				edge(1.6, GrabEnd),
			),
		}
		cfg.Objects = []ObjectConfig{
			{ID: "cube", Position: Vec3{0, 1, 3}, Radius: 0.2, Grabbable: true},
			{ID: "pillar", Position: Vec3{1.5, 1, 4}, Radius: 0.5},
		}
		return cfg
	},
	// a drawer pulled toward the player and let go with momentum
	"drawer": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "drawer"
		cfg.Duration = 2.5
		cfg.Hands = []HandConfig{
			hand("right",
				at(0, vec(0, 1, 0), vec(0, 0, 1)),
				edge(0.2, GrabStart),
				at(0.3, vec(0, 1, 0), nil),
				at(0.6, vec(0, 1, -0.5), nil),
				edge(0.6, GrabEnd),
			),
		}
		cfg.Objects = []ObjectConfig{
			{ID: "drawer", Radius: 0.2, Grabbable: true, Rail: &RailConfig{
				Start: Vec3{0, 1, 3}, End: Vec3{0, 1, 2},
			}},
		}
		return cfg
	},
	// a vertical lever without momentum
	"lever": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "lever"
		cfg.Duration = 2.0
		cfg.Hands = []HandConfig{
			hand("right",
				at(0, vec(1, 1, 0), vec(0, -0.5, 2)),
				edge(0.2, GrabStart),
				at(0.3, vec(1, 1, 0), nil),
				at(0.9, vec(1, 1.6, 0), nil),
				edge(1.0, GrabEnd),
			),
		}
		cfg.Objects = []ObjectConfig{
			{ID: "lever", Radius: 0.15, Grabbable: true, Rail: &RailConfig{
				Start: Vec3{1, 0.5, 2}, End: Vec3{1, 1.5, 2},
				MaintainMomentum: flag(false),
			}},
		}
		return cfg
	},
	// both hands grab the same cube on the same tick
	"contest": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "contest"
		cfg.Duration = 2.0
		cfg.Hands = []HandConfig{
			hand("left",
				at(0, vec(-0.3, 1, 0), vec(0.1, 0, 1)),
				edge(0.2, GrabStart),
			),
			hand("right",
				at(0, vec(0.3, 1, 0), vec(-0.1, 0, 1)),
				edge(0.2, GrabStart),
			),
		}
		cfg.Objects = []ObjectConfig{
			{ID: "cube", Position: Vec3{0, 1, 3}, Radius: 0.2, Grabbable: true},
		}
		return cfg
	},
	// the grab is released halfway through the pull
	"abort": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "abort"
		cfg.Duration = 1.5
		h := hand("right",
			at(0, vec(0, 1, 0), vec(0, 0, 1)),
			edge(0.2, GrabStart),
			edge(0.4, GrabEnd),
		)
		h.PullSpeed = 1.5
		cfg.Hands = []HandConfig{h}
		cfg.Objects = []ObjectConfig{
			{ID: "cube", Position: Vec3{0, 1, 3}, Radius: 0.2, Grabbable: true},
		}
		return cfg
	},
	// the drawer is removed from the scene while the hand still holds it
	"vanish": func() *Config {
		cfg := DefaultConfig()
		cfg.Name = "vanish"
		cfg.Duration = 1.0
		cfg.Hands = []HandConfig{
			hand("right",
				at(0, vec(0, 1, 0), vec(0, 0, 1)),
				edge(0.2, GrabStart),
				at(0.3, vec(0, 1, 0), nil),
				at(0.8, vec(0, 1, -0.5), nil),
				edge(0.9, GrabEnd),
			),
		}
		cfg.Objects = []ObjectConfig{
			{ID: "drawer", Radius: 0.2, Grabbable: true, Rail: &RailConfig{
				Start: Vec3{0, 1, 3}, End: Vec3{0, 1, 2},
			}},
		}
		cfg.Destroy = []DestroyConfig{{T: 0.5, Object: "drawer"}}
		return cfg
	},
}

// GetPreset returns a fresh copy of the named scene, or nil.
func GetPreset(name string) *Config {
	fn, ok := presets[name]
	if !ok {
		return nil
	}
	cfg := fn()
	cfg.Normalize()
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
