package rail

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

const (
	// NumSamples is the size of the velocity sample ring.
	NumSamples = 5

	DefaultDampenRate = 5.0

	// driftEpsilon is the drift speed below which momentum is snapped to zero.
	driftEpsilon = 1e-6
)

// Positioner receives the world position of a rail-driven object.
type Positioner interface {
	SetPosition(p mgl64.Vec3)
}

type Config struct {
	Start            mgl64.Vec3
	End              mgl64.Vec3
	Position         float64
	Reposition       bool
	MaintainMomentum bool
	DampenRate       float64
}

func DefaultConfig() Config {
	return Config{
		End:              mgl64.Vec3{0, 0, 1},
		Reposition:       true,
		MaintainMomentum: true,
		DampenRate:       DefaultDampenRate,
	}
}

type Driver struct {
	start, end mgl64.Vec3
	dir        mgl64.Vec3
	length     float64
	degenerate bool

	position float64
	offset   float64

	samples     [NumSamples]float64
	sampleCount int
	drift       float64

	reposition       bool
	maintainMomentum bool
	dampenRate       float64

	body Positioner
	log  *zap.Logger
}

// New builds a driver and, when repositioning is enabled, places body on the
// rail at the initial position. body may be nil.
func New(cfg Config, body Positioner, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Driver{
		position:         clamp01(cfg.Position),
		reposition:       cfg.Reposition,
		maintainMomentum: cfg.MaintainMomentum,
		dampenRate:       cfg.DampenRate,
		body:             body,
		log:              log,
	}
	d.offset = d.position
	d.SetAnchors(cfg.Start, cfg.End)
	d.place()
	return d
}

// SetAnchors moves the rail end points. A zero-length segment maps every
// point to 0.
func (d *Driver) SetAnchors(start, end mgl64.Vec3) {
	d.start, d.end = start, end
	axis := end.Sub(start)
	d.length = axis.Len()
	d.degenerate = d.length == 0 || math.IsNaN(d.length)
	if d.degenerate {
		d.dir = mgl64.Vec3{}
		d.log.Warn("degenerate rail: start and end anchors coincide",
			zap.Float64s("start", start[:]),
			zap.Float64s("end", end[:]))
		return
	}
	d.dir = axis.Mul(1 / d.length)
}

// Project returns the unclamped fraction of p along the rail.
func (d *Driver) Project(p mgl64.Vec3) float64 {
	if d.degenerate {
		return 0
	}
	return p.Sub(d.start).Dot(d.dir) / d.length
}

// PointAt returns the world point at fraction t along the rail.
func (d *Driver) PointAt(t float64) mgl64.Vec3 {
	return lerpVec(d.start, d.end, t)
}

func (d *Driver) OnAttach(hand mgl64.Vec3) {
	d.offset = d.position - d.Project(hand)
	d.sampleCount = 0
	d.drift = 0
}

func (d *Driver) OnHandUpdate(hand mgl64.Vec3, dt float64) {
	prev := d.position
	d.position = clamp01(d.offset + d.Project(hand))

	rate := 0.0
	if dt > 0 {
		rate = (d.position - prev) / dt
	}
	d.samples[d.sampleCount%NumSamples] = rate
	d.sampleCount++

	d.place()
}

func (d *Driver) OnDetach() {
	d.drift = 0
	n := min(d.sampleCount, NumSamples)
	if n == 0 {
		return
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += d.samples[i]
	}
	d.drift = sum / float64(n)
}

// DriftTick decays the release momentum and advances the position by it.
// It is a no-op while there is no momentum or momentum is disabled.
func (d *Driver) DriftTick(dt float64) {
	if !d.maintainMomentum || d.drift == 0 || dt <= 0 {
		return
	}
	d.drift = lerp(d.drift, 0, d.dampenRate*dt)
	d.position = clamp01(d.position + d.drift*dt)
	if math.Abs(d.drift) < driftEpsilon {
		d.drift = 0
	}
	d.place()
}

func (d *Driver) place() {
	if d.reposition && d.body != nil {
		d.body.SetPosition(d.PointAt(d.position))
	}
}

func (d *Driver) Position() float64      { return d.position }
func (d *Driver) Offset() float64        { return d.offset }
func (d *Driver) DriftVelocity() float64 { return d.drift }
func (d *Driver) SampleCount() int       { return d.sampleCount }
func (d *Driver) Degenerate() bool       { return d.degenerate }
func (d *Driver) Anchors() (mgl64.Vec3, mgl64.Vec3) {
	return d.start, d.end
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return mgl64.Clamp(v, 0, 1)
}

// lerp clamps t to [0,1] like an engine lerp.
func lerp(a, b, t float64) float64 {
	t = clamp01(t)
	return a + (b-a)*t
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
