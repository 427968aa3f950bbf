package sim

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/distgrab/internal/grabbable"
)

func TestHolderFollowAndRelease(t *testing.T) {
	reg := grabbable.NewRegistry(nil)
	obj, err := reg.Register(grabbable.Spec{ID: "cube", Position: mgl64.Vec3{0, 1, 0.02}, Radius: 0.1, Grabbable: true})
	require.NoError(t, err)
	require.True(t, obj.TryAcquire("right"))

	h := NewHolder(nil)
	h.RigidlyAttach("right", obj, mgl64.Vec3{0, 1, 0})
	assert.True(t, h.Holding("right"))
	assert.False(t, h.Holding("left"))

	h.Update("right", mgl64.Vec3{1, 1, 0}, false)
	assert.InDelta(t, 1.0, obj.Position().X(), 1e-12)
	assert.InDelta(t, 0.02, obj.Position().Z(), 1e-12, "offset is kept")

	held, ok := h.Held("right")
	assert.True(t, ok)
	assert.Equal(t, "cube", held)

	h.Update("right", mgl64.Vec3{2, 1, 0}, true)
	assert.False(t, h.Holding("right"))
	_, owned := obj.Owner()
	assert.False(t, owned)
	assert.InDelta(t, 1.0, obj.Position().X(), 1e-12, "a released object stays put")
}

func TestHolderDropsDestroyed(t *testing.T) {
	reg := grabbable.NewRegistry(nil)
	obj, err := reg.Register(grabbable.Spec{ID: "cube", Radius: 0.1, Grabbable: true})
	require.NoError(t, err)
	require.True(t, obj.TryAcquire("right"))

	h := NewHolder(nil)
	h.RigidlyAttach("right", obj, mgl64.Vec3{})
	reg.Destroy("cube")

	h.Update("right", mgl64.Vec3{1, 0, 0}, false)
	assert.False(t, h.Holding("right"))
	assert.Equal(t, mgl64.Vec3{}, obj.Position())
}
