package sim_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/projectile/internal/config"
	"github.com/san-kum/projectile/internal/launch"
	"github.com/san-kum/projectile/internal/metrics"
	"github.com/san-kum/projectile/internal/params"
	"github.com/san-kum/projectile/internal/sim"
	"github.com/san-kum/projectile/internal/world"
	"github.com/san-kum/projectile/internal/world/chipmunk"
	"github.com/san-kum/projectile/internal/world/worldtest"
)

type recorder struct {
	frames []sim.Frame
}

func (r *recorder) OnStep(f sim.Frame) { r.frames = append(r.frames, f) }

var _ = Describe("Session", func() {
	var (
		cfg     *config.Config
		fake    *worldtest.World
		session *sim.Session
		ball    *worldtest.Body
	)

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		fake = worldtest.New()

		var err error
		session, err = sim.New(fake, cfg)
		Expect(err).NotTo(HaveOccurred())
		ball = session.Projectile().(*worldtest.Body)
		fake.Reset()
	})

	Describe("scene layout", func() {
		It("places ground, walls and the projectile", func() {
			Expect(fake.Bodies).To(HaveLen(4))

			ground, left, right := fake.Bodies[0], fake.Bodies[1], fake.Bodies[2]
			Expect(ground.Static).To(BeTrue())
			Expect(ground.Pos).To(Equal(world.Vec{X: 400, Y: 550}))
			Expect(ground.Size).To(Equal(world.Vec{X: 800, Y: 60}))
			Expect(left.Pos).To(Equal(world.Vec{X: 0, Y: 300}))
			Expect(right.Pos).To(Equal(world.Vec{X: 800, Y: 300}))

			Expect(ball.Pos).To(Equal(world.Vec{X: 200, Y: 400}))
			Expect(ball.Radius).To(Equal(20.0))
			Expect(ball.Options.Restitution).To(Equal(0.8))
			for _, b := range fake.Bodies {
				Expect(b.Added).To(BeTrue())
			}
		})

		It("reports the ground slab's upper face", func() {
			ground := fake.Bodies[0]
			top := sim.GroundTop(session.Bounds())
			Expect(top).To(Equal(ground.Pos.Y - ground.Size.Y/2))
			Expect(top).To(Equal(520.0))
			Expect(fake.Bodies[1].Size.X).To(Equal(sim.WallThickness))
		})

		It("pushes the configured gravity to the world", func() {
			Expect(fake.GravityY()).To(Equal(1.0))

			cfg.Params.Gravity = "mars"
			w := worldtest.New()
			_, err := sim.New(w, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(w.GravityY()).To(Equal(0.38))
		})

		It("rejects an invalid config", func() {
			cfg.World.Width = 0
			_, err := sim.New(worldtest.New(), cfg)
			Expect(err).To(MatchError(config.ErrInvalid))
		})
	})

	Describe("Step", func() {
		It("applies pending input, steps the world, then runs the tick policy", func() {
			Expect(session.Submit(params.WindInput{Raw: "10"})).To(Succeed())
			Expect(session.Submit(sim.Launch{})).To(Succeed())

			_, err := session.Step()
			Expect(err).NotTo(HaveOccurred())

			Expect(fake.Ops()).To(Equal([]worldtest.Op{
				worldtest.OpApplyForce, // launch
				worldtest.OpStep,
				worldtest.OpApplyForce, // wind
			}))

			forces := fake.Forces(ball)
			Expect(forces[0].X).To(BeNumerically("~", 0.0354, 1e-4))
			Expect(forces[0].Y).To(BeNumerically("~", -0.0354, 1e-4))
			Expect(forces[1]).To(Equal(world.Vec{X: 0.01}))
		})

		It("delivers input in submission order", func() {
			Expect(session.Submit(params.AngleInput{Raw: "10"})).To(Succeed())
			Expect(session.Submit(params.AngleInput{Raw: "80"})).To(Succeed())
			Expect(session.Submit(sim.Launch{})).To(Succeed())

			f, err := session.Step()
			Expect(err).NotTo(HaveOccurred())
			Expect(session.Params().Angle()).To(Equal(80.0))
			Expect(f.Impulse).To(Equal(launch.ForceVector(80, 0.05)))
			Expect(f.Launches).To(Equal(1))
		})

		It("leaves the queue empty", func() {
			Expect(session.Submit(sim.Launch{})).To(Succeed())
			Expect(session.Pending()).To(Equal(1))
			_, _ = session.Step()
			Expect(session.Pending()).To(Equal(0))
		})

		It("still steps when an input is rejected", func() {
			Expect(session.Submit(params.ForceInput{Raw: "lots"})).To(Succeed())
			Expect(session.Submit(params.WindInput{Raw: "3"})).To(Succeed())

			f, err := session.Step()
			Expect(err).To(MatchError(params.ErrParse))
			Expect(f.Step).To(Equal(1))
			Expect(session.Params().Force()).To(Equal(0.05))
			Expect(session.Params().Wind()).To(Equal(3.0))
		})

		It("refuses messages it does not understand", func() {
			Expect(session.Submit("launch")).To(MatchError(sim.ErrUnknownCommand))
			Expect(session.Pending()).To(Equal(0))
		})

		It("resets a projectile that left the viewport", func() {
			ball.Pos = world.Vec{X: 850, Y: 300}
			ball.Vel = world.Vec{X: 12, Y: 1}

			f, err := session.Step()
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Reset).To(BeTrue())
			Expect(f.Position).To(Equal(world.Vec{X: 850, Y: 300}))
			Expect(ball.Pos).To(Equal(world.Vec{X: 200, Y: 400}))
			Expect(ball.Vel).To(Equal(world.Vec{}))
		})

		It("skips the wind below the floor line", func() {
			ball.Pos = world.Vec{X: 300, Y: 600}
			Expect(session.Submit(params.WindInput{Raw: "10"})).To(Succeed())

			f, _ := session.Step()
			Expect(f.WindApplied).To(BeFalse())
			Expect(fake.Forces(ball)).To(BeEmpty())
		})

		It("notifies observers and metrics with the same frame", func() {
			rec := &recorder{}
			resets := metrics.NewResets()
			session.AddObserver(rec)
			session.AddMetric(resets)

			ball.Pos = world.Vec{X: -5, Y: 100}
			f, _ := session.Step()

			Expect(rec.frames).To(ConsistOf(f))
			Expect(resets.Value()).To(Equal(1.0))
		})

		It("reports time from the engine step", func() {
			f, _ := session.Step()
			Expect(f.Time).To(BeNumerically("~", 1.0/60.0, 1e-12))
		})
	})

	Describe("Flush", func() {
		It("applies input without stepping", func() {
			Expect(session.Submit(params.GravityInput{Name: "moon"})).To(Succeed())
			Expect(session.Flush()).To(Succeed())

			Expect(fake.GravityY()).To(Equal(0.16))
			Expect(fake.Ops()).NotTo(ContainElement(worldtest.OpStep))
			Expect(session.Steps()).To(Equal(0))
		})
	})

	Describe("SyncParams", func() {
		It("queues only the changed fields", func() {
			p := cfg.Params
			p.Wind = 4
			p.Gravity = "moon"

			Expect(session.SyncParams(p)).To(Equal(2))
			Expect(session.Flush()).To(Succeed())
			Expect(session.Params().Wind()).To(Equal(4.0))
			Expect(session.Params().Gravity()).To(Equal(params.Moon))
			Expect(session.Params().Angle()).To(Equal(45.0))
		})

		It("ignores an unknown gravity name", func() {
			p := cfg.Params
			p.Gravity = "venus"
			Expect(session.SyncParams(p)).To(Equal(0))
		})

		It("settles on a fractional angle after one reload", func() {
			cfg.Params.Angle = 45.5
			w := worldtest.New()
			s, err := sim.New(w, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Params().Angle()).To(Equal(45.0))

			Expect(s.SyncParams(cfg.Params)).To(Equal(0))

			p := cfg.Params
			p.Angle = 60.8
			Expect(s.SyncParams(p)).To(Equal(1))
			Expect(s.Flush()).To(Succeed())
			Expect(s.Params().Angle()).To(Equal(60.0))
			Expect(s.SyncParams(p)).To(Equal(0))
		})
	})

	Describe("Run", func() {
		It("submits script entries before their step", func() {
			script := []config.ScriptEntry{
				{Step: 2, Command: "launch"},
				{Step: 0, Command: "wind", Value: "-2"},
				{Step: 2, Command: "angle", Value: "30"},
			}

			res, err := session.Run(context.Background(), 4, script)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.StepsTaken).To(Equal(4))
			Expect(res.Frames).To(HaveLen(4))

			Expect(res.Frames[0].Wind).To(Equal(world.Vec{X: -0.002}))
			Expect(res.Frames[2].Launches).To(Equal(1))
			// the launch was queued before the angle change
			Expect(res.Frames[2].Impulse).To(Equal(launch.ForceVector(45, 0.05)))
			Expect(session.Params().Angle()).To(Equal(30.0))
		})

		It("collects rejected inputs without stopping", func() {
			script := []config.ScriptEntry{{Step: 1, Command: "force", Value: "?"}}

			res, err := session.Run(context.Background(), 3, script)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.StepsTaken).To(Equal(3))
			Expect(res.Errors).To(HaveLen(1))

			var inputErr *sim.InputError
			Expect(errors.As(res.Errors[0], &inputErr)).To(BeTrue())
			Expect(inputErr.Step).To(Equal(2))
			Expect(res.Errors[0]).To(MatchError(params.ErrParse))
		})

		It("rejects unknown script commands up front", func() {
			script := []config.ScriptEntry{{Step: 0, Command: "fire"}}
			_, err := session.Run(context.Background(), 3, script)
			Expect(err).To(MatchError(sim.ErrUnknownCommand))
			Expect(session.Steps()).To(Equal(0))
		})

		It("validates the step count", func() {
			_, err := session.Run(context.Background(), 0, nil)
			Expect(err).To(MatchError(sim.ErrInvalidSteps))
		})

		It("stops on a cancelled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			res, err := session.Run(ctx, 10, nil)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.StepsTaken).To(Equal(0))
		})

		It("reports metric values", func() {
			for _, m := range metrics.Defaults(session.Bounds().Origin()) {
				session.AddMetric(m)
			}
			ball.Pos = world.Vec{X: 900, Y: 100}

			res, err := session.Run(context.Background(), 2, []config.ScriptEntry{{Step: 0, Command: "launch"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Metrics).To(HaveKeyWithValue("resets", 1.0))
			Expect(res.Metrics).To(HaveKeyWithValue("launches", 1.0))
			Expect(res.Metrics).To(HaveKeyWithValue("wind_ticks", 2.0))
			Expect(res.Metrics).To(HaveKeyWithValue("range", 700.0))
		})
	})
})

var _ = Describe("ParseCommand", func() {
	DescribeTable("maps script names to messages",
		func(name, value string, want sim.Msg) {
			msg, err := sim.ParseCommand(name, value)
			Expect(err).NotTo(HaveOccurred())
			Expect(msg).To(Equal(want))
		},
		Entry("angle", "angle", "30", params.AngleInput{Raw: "30"}),
		Entry("force", "Force", "0.1", params.ForceInput{Raw: "0.1"}),
		Entry("wind", " wind ", "-4", params.WindInput{Raw: "-4"}),
		Entry("gravity", "gravity", "mars", params.GravityInput{Name: "mars"}),
		Entry("launch", "launch", "", sim.Launch{}),
	)

	It("rejects unknown names", func() {
		_, err := sim.ParseCommand("explode", "")
		Expect(err).To(MatchError(sim.ErrUnknownCommand))
	})
})

var _ = Describe("with the chipmunk engine", func() {
	It("launches the ball up and to the right", func() {
		cfg := config.DefaultConfig()
		s, err := sim.New(chipmunk.New(chipmunk.DefaultOptions()), cfg)
		Expect(err).NotTo(HaveOccurred())

		res, err := s.Run(context.Background(), 20, []config.ScriptEntry{{Step: 0, Command: "launch"}})
		Expect(err).NotTo(HaveOccurred())

		last := res.Frames[len(res.Frames)-1].Position
		Expect(last.X).To(BeNumerically(">", 200))
		Expect(last.Y).To(BeNumerically("<", 400))
	})

	It("eventually returns the projectile to the origin after it leaves", func() {
		cfg := config.DefaultConfig()
		cfg.Params.Angle = 90
		cfg.Params.Force = 0.2
		cfg.Params.Wind = 5
		s, err := sim.New(chipmunk.New(chipmunk.DefaultOptions()), cfg)
		Expect(err).NotTo(HaveOccurred())
		resets := metrics.NewResets()
		s.AddMetric(resets)

		// straight up over the wall tops, then the wind carries it past x=W
		res, err := s.Run(context.Background(), 120, []config.ScriptEntry{{Step: 0, Command: "launch"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(resets.Value()).To(BeNumerically(">=", 1))

		for i, f := range res.Frames {
			if f.Reset && i+1 < len(res.Frames) {
				next := res.Frames[i+1].Position
				Expect(next.X).To(BeNumerically("~", 200, 5))
				break
			}
		}
	})

	It("runs sweeps in parallel with independent worlds", func() {
		var cfgs []*config.Config
		for _, angle := range []float64{30, 45, 60} {
			c := config.GetPreset("lob")
			c.Params.Angle = angle
			c.Steps = 30
			cfgs = append(cfgs, c)
		}

		results, err := sim.Sweep(context.Background(), cfgs,
			func(c *config.Config) world.World { return chipmunk.New(chipmunk.DefaultOptions()) },
			func() []sim.Metric { return metrics.Defaults(world.Vec{X: 200, Y: 400}) },
		)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		for _, r := range results {
			Expect(r.StepsTaken).To(Equal(30))
			Expect(r.Metrics).To(HaveKey("apex"))
		}
		Expect(results[2].Metrics["apex"]).To(BeNumerically(">", results[0].Metrics["apex"]))
	})
})
