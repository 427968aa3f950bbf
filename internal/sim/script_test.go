package sim

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/san-kum/distgrab/internal/config"
)

func vp(x, y, z float64) *config.Vec3 { return &config.Vec3{x, y, z} }

func TestScriptedHandInterpolation(t *testing.T) {
	h := NewScriptedHand(config.HandConfig{
		ID: "right",
		Script: []config.Keyframe{
			{T: 1, Position: vp(2, 0, 0)},
			{T: 0, Position: vp(0, 0, 0), Forward: vp(1, 0, 0)},
		},
	}, nil)

	assert.Equal(t, mgl64.Vec3{0, 0, 0}, h.Position())
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, h.Forward())

	h.Advance(0.25)
	assert.InDelta(t, 0.5, h.Position().X(), 1e-12)

	h.Advance(5)
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, h.Position())
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, h.Forward(), "forward holds its last key")
}

func TestScriptedHandDefaults(t *testing.T) {
	h := NewScriptedHand(config.HandConfig{ID: "left"}, nil)
	origin, fwd := h.Pointer()
	assert.Equal(t, mgl64.Vec3{}, origin)
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, fwd)
	assert.False(t, h.HoldingOther())
}

func TestScriptedHandEdgesFireOnce(t *testing.T) {
	h := NewScriptedHand(config.HandConfig{
		ID: "right",
		Script: []config.Keyframe{
			{T: 0.2, Grab: config.GrabStart},
			{T: 0.5, Grab: config.GrabEnd},
		},
	}, nil)

	h.Advance(0.1)
	assert.False(t, h.GrabStarted())

	h.Advance(0.21)
	assert.True(t, h.GrabStarted())
	assert.False(t, h.GrabEnded())

	h.Advance(0.3)
	assert.False(t, h.GrabStarted(), "start is raised for one tick only")

	h.Advance(0.5)
	assert.True(t, h.GrabEnded())
	h.Advance(0.6)
	assert.False(t, h.GrabEnded())
}
