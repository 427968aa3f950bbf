package grab_test

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/distgrab/internal/grab"
	"github.com/san-kum/distgrab/internal/grabbable"
	"github.com/san-kum/distgrab/internal/rail"
)

const dt = 0.01

var _ = Describe("Controller", func() {
	var (
		registry *grabbable.Registry
		hand     *fakeHand
		query    *fakeQuery
		attacher *fakeAttacher
		events   *eventLog
		cfg      grab.Config
		ctrl     *grab.Controller
		cube     *grabbable.Object
		lever    *grabbable.Object
		wall     *grabbable.Object
		now      float64
	)

	tick := func() {
		now += dt
		registry.BeginTick()
		ctrl.Tick(now, dt)
		hand.clearEdges()
	}

	BeforeEach(func() {
		var err error
		registry = grabbable.NewRegistry(nil)
		cube, err = registry.Register(grabbable.Spec{ID: "cube", Position: mgl64.Vec3{0, 0, 3}, Radius: 0.2, Grabbable: true})
		Expect(err).NotTo(HaveOccurred())

		railCfg := rail.DefaultConfig()
		railCfg.Start = mgl64.Vec3{0, 0, 0}
		railCfg.End = mgl64.Vec3{0, 1, 0}
		railCfg.Position = 0.5
		lever, err = registry.Register(grabbable.Spec{ID: "lever", Radius: 0.1, Grabbable: true, Rail: &railCfg})
		Expect(err).NotTo(HaveOccurred())

		wall, err = registry.Register(grabbable.Spec{ID: "wall", Position: mgl64.Vec3{0, 0, 5}, Radius: 1})
		Expect(err).NotTo(HaveOccurred())

		hand = &fakeHand{forward: mgl64.Vec3{0, 0, 1}}
		query = &fakeQuery{}
		attacher = &fakeAttacher{}
		events = &eventLog{}
		cfg = grab.DefaultConfig()
		cfg.PullSpeed = 3
		now = 0
	})

	JustBeforeEach(func() {
		ctrl = grab.New("left", cfg, hand, query, registry, attacher, grab.WithListener(events))
	})

	Describe("detection", func() {
		It("highlights the object under the pointer for one tick", func() {
			query.hit = "cube"
			tick()
			Expect(cube.Highlighted()).To(BeTrue())
			Expect(ctrl.Phase()).To(Equal(grab.Idle))

			query.hit = ""
			tick()
			Expect(cube.Highlighted()).To(BeFalse())
		})

		It("highlights ineligible objects under the default policy", func() {
			query.hit = "wall"
			hand.started = true
			tick()
			Expect(wall.Highlighted()).To(BeTrue())
			Expect(ctrl.Phase()).To(Equal(grab.Idle))
			Expect(events.events).To(BeEmpty())
		})

		Context("with eligible-only highlighting", func() {
			BeforeEach(func() { cfg.Highlight = grab.HighlightEligible })

			It("leaves ineligible objects dark", func() {
				query.hit = "wall"
				tick()
				Expect(wall.Highlighted()).To(BeFalse())

				query.hit = "cube"
				tick()
				Expect(cube.Highlighted()).To(BeTrue())
			})
		})

		It("does not cast while the hand holds something else", func() {
			hand.holding = true
			query.hit = "cube"
			hand.started = true
			tick()
			Expect(hand.pointerN).To(BeZero())
			Expect(cube.Highlighted()).To(BeFalse())
			Expect(ctrl.Phase()).To(Equal(grab.Idle))
		})

		It("ignores colliders the registry does not know", func() {
			query.hit = "ghost"
			hand.started = true
			tick()
			Expect(ctrl.Phase()).To(Equal(grab.Idle))
		})
	})

	Describe("free objects", func() {
		BeforeEach(func() {
			query.hit = "cube"
		})

		It("starts lerping on a grab-start edge", func() {
			hand.started = true
			tick()
			Expect(ctrl.Phase()).To(Equal(grab.Lerping))
			target, ok := ctrl.Target()
			Expect(ok).To(BeTrue())
			Expect(target).To(BeIdenticalTo(cube))
			owner, held := cube.Owner()
			Expect(held).To(BeTrue())
			Expect(owner).To(Equal("left"))
			Expect(events.kinds()).To(Equal([]grab.EventKind{grab.EventAttach}))
		})

		It("reaches the hand within D/S seconds and hands it over", func() {
			hand.started = true
			tick()
			start := now
			distance := cube.Position().Len()
			deadline := start + distance/cfg.PullSpeed + dt

			for now < deadline && ctrl.Phase() == grab.Lerping {
				tick()
			}

			Expect(ctrl.Phase()).To(Equal(grab.Idle))
			Expect(cube.Position().Sub(hand.pos).Len()).To(BeNumerically("<", cfg.StopLerpDistance))
			Expect(attacher.obj).To(BeIdenticalTo(cube))
			Expect(attacher.hand).To(Equal("left"))
			_, ok := ctrl.Target()
			Expect(ok).To(BeFalse())
			Expect(events.kinds()).To(Equal([]grab.EventKind{grab.EventAttach, grab.EventLerpComplete}))

			owner, held := cube.Owner()
			Expect(held).To(BeTrue(), "token travels with the rigid hold")
			Expect(owner).To(Equal("left"))
		})

		It("releases mid-flight without snapping back", func() {
			hand.started = true
			tick()
			initial := cube.Position().Len()

			for cube.Position().Len() > 0.4*initial {
				tick()
				Expect(ctrl.Phase()).To(Equal(grab.Lerping))
			}
			held := cube.Position()

			hand.ended = true
			tick()
			Expect(ctrl.Phase()).To(Equal(grab.Idle))
			Expect(cube.Position()).To(Equal(held))

			query.hit = ""
			tick()
			tick()
			Expect(cube.Position()).To(Equal(held))
			_, owned := cube.Owner()
			Expect(owned).To(BeFalse())
			Expect(attacher.obj).To(BeNil())
		})

		It("completes immediately when the object is already at the hand", func() {
			hand.pos = cube.Position()
			hand.started = true
			tick()
			Expect(ctrl.Phase()).To(Equal(grab.Lerping))

			tick()
			Expect(ctrl.Phase()).To(Equal(grab.Idle))
			Expect(attacher.obj).To(BeIdenticalTo(cube))
		})

		It("tracks a moving hand", func() {
			hand.started = true
			tick()
			hand.pos = mgl64.Vec3{1, 0, 0}
			for i := 0; i < 200 && ctrl.Phase() == grab.Lerping; i++ {
				tick()
			}
			Expect(ctrl.Phase()).To(Equal(grab.Idle))
			Expect(cube.Position().Sub(mgl64.Vec3{1, 0, 0}).Len()).To(BeNumerically("<", cfg.StopLerpDistance))
		})
	})

	Describe("rail objects", func() {
		BeforeEach(func() {
			query.hit = "lever"
			hand.pos = mgl64.Vec3{0, 0.5, 0}
		})

		It("attaches without moving the rail", func() {
			hand.started = true
			tick()
			Expect(ctrl.Phase()).To(Equal(grab.RailAttached))

			tick()
			Expect(lever.Rail().Position()).To(BeNumerically("~", 0.5, 1e-9))
			Expect(lever.Position().ApproxEqualThreshold(mgl64.Vec3{0, 0.5, 0}, 1e-9)).To(BeTrue())
		})

		It("follows the hand and drifts after release", func() {
			hand.started = true
			tick()
			tick()
			hand.pos = mgl64.Vec3{0, 0.7, 0}
			tick()
			Expect(lever.Rail().Position()).To(BeNumerically("~", 0.7, 1e-9))

			hand.ended = true
			tick()
			Expect(ctrl.Phase()).To(Equal(grab.Idle))
			Expect(lever.Rail().DriftVelocity()).To(BeNumerically(">", 0))
			_, owned := lever.Owner()
			Expect(owned).To(BeFalse())
			Expect(events.kinds()).To(Equal([]grab.EventKind{grab.EventAttach, grab.EventDetach}))
		})

		It("drops a target destroyed while attached without calling the driver", func() {
			hand.started = true
			tick()
			tick()
			samples := lever.Rail().SampleCount()

			Expect(registry.Destroy("lever")).To(BeTrue())
			hand.pos = mgl64.Vec3{0, 0.9, 0}
			tick()

			Expect(ctrl.Phase()).To(Equal(grab.Idle))
			Expect(lever.Rail().SampleCount()).To(Equal(samples))
			Expect(lever.Rail().DriftVelocity()).To(BeZero())
			Expect(events.kinds()).To(ContainElement(grab.EventStale))
		})
	})

	Describe("competing hands", func() {
		It("lets only the first hand in a tick attach", func() {
			other := &fakeHand{forward: mgl64.Vec3{0, 0, 1}, started: true}
			rightEvents := &eventLog{}
			right := grab.New("right", cfg, other, &fakeQuery{hit: "cube"}, registry, attacher, grab.WithListener(rightEvents))

			query.hit = "cube"
			hand.started = true

			now += dt
			registry.BeginTick()
			ctrl.Tick(now, dt)
			right.Tick(now, dt)

			Expect(ctrl.Phase()).To(Equal(grab.Lerping))
			Expect(right.Phase()).To(Equal(grab.Idle))
			Expect(rightEvents.kinds()).To(Equal([]grab.EventKind{grab.EventRejected}))
			owner, _ := cube.Owner()
			Expect(owner).To(Equal("left"))
		})
	})

	It("refuses a second attach while busy", func() {
		query.hit = "cube"
		hand.started = true
		tick()
		Expect(ctrl.Attach(lever, now)).To(BeFalse())
		_, owned := lever.Owner()
		Expect(owned).To(BeFalse())
	})
})

var _ = Describe("HighlightPolicy", func() {
	DescribeTable("parsing",
		func(in string, want grab.HighlightPolicy, fails bool) {
			got, err := grab.ParseHighlightPolicy(in)
			if fails {
				Expect(err).To(HaveOccurred())
				return
			}
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("empty", "", grab.HighlightAll, false),
		Entry("all", "all", grab.HighlightAll, false),
		Entry("eligible", "eligible", grab.HighlightEligible, false),
		Entry("bogus", "sometimes", grab.HighlightAll, true),
	)
})
