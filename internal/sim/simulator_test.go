package sim_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/soup/internal/config"
	"github.com/san-kum/soup/internal/dynamo"
	"github.com/san-kum/soup/internal/physics"
	"github.com/san-kum/soup/internal/sim"
)

type countingMetric struct {
	observed int
	lastT    float64
}

func (m *countingMetric) Name() string                           { return "count" }
func (m *countingMetric) Observe(_ *dynamo.Particles, t float64) { m.observed++; m.lastT = t }
func (m *countingMetric) Value() float64                         { return float64(m.observed) }
func (m *countingMetric) Reset()                                 { m.observed = 0; m.lastT = 0 }

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Particles = 90
	cfg.World = config.WorldConfig{Width: 400, Height: 300}
	cfg.Workers = 2
	cfg.SampleEvery = 5
	return cfg
}

var _ = DescribeTable("ClampDt",
	func(elapsed, want float64) {
		Expect(sim.ClampDt(elapsed, 1.0/30)).To(Equal(want))
	},
	Entry("passes small frames through", 0.01, 0.01),
	Entry("caps long frames", 0.5, 1.0/30),
	Entry("keeps the cap itself", 1.0/30, 1.0/30),
	Entry("zeroes negative time", -0.2, 0.0),
	Entry("zeroes zero", 0.0, 0.0),
)

var _ = Describe("Simulator", func() {
	var (
		s   *sim.Simulator
		cfg *config.Config
	)

	BeforeEach(func() {
		cfg = smallConfig()
		var err error
		s, err = sim.FromConfig(cfg, dynamo.NewRand(21))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Step", func() {
		It("clamps the elapsed time before integrating", func() {
			dt, err := s.Step(2.0)
			Expect(err).NotTo(HaveOccurred())
			Expect(dt).To(Equal(cfg.MaxFrameDt))
			Expect(s.Time()).To(Equal(cfg.MaxFrameDt))
			Expect(s.Steps()).To(Equal(1))
		})

		It("leaves the population alone for a zero-length frame", func() {
			before := s.Particles().Clone()
			dt, err := s.Step(-1)
			Expect(err).NotTo(HaveOccurred())
			Expect(dt).To(BeZero())
			for i := 0; i < before.Len(); i++ {
				Expect(s.Particles().X(i)).To(Equal(before.X(i)))
				Expect(s.Particles().Y(i)).To(Equal(before.Y(i)))
			}
		})

		It("notifies observers after the update", func() {
			var seen []int
			s.AddObserver(sim.ObserverFunc(func(step int, t float64, p *dynamo.Particles) {
				Expect(p.Len()).To(Equal(cfg.Particles))
				seen = append(seen, step)
			}))
			for i := 0; i < 3; i++ {
				_, err := s.Step(0.01)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(seen).To(Equal([]int{1, 2, 3}))
		})

		It("keeps every particle in the world and under the speed cap", func() {
			for i := 0; i < 30; i++ {
				_, err := s.Step(1.0 / 60)
				Expect(err).NotTo(HaveOccurred())
			}
			p := s.Particles()
			for i := 0; i < p.Len(); i++ {
				Expect(p.X(i)).To(And(BeNumerically(">=", 0), BeNumerically("<", cfg.World.Width)))
				Expect(p.Y(i)).To(And(BeNumerically(">=", 0), BeNumerically("<", cfg.World.Height)))
				Expect(p.VX(i)*p.VX(i) + p.VY(i)*p.VY(i)).To(BeNumerically("<=", cfg.Forces.MaxSpeed*cfg.Forces.MaxSpeed+1e-6))
			}
		})
	})

	Describe("Run", func() {
		It("samples metrics on the configured stride", func() {
			m := &countingMetric{}
			s.AddMetric(m)

			res, err := s.Run(context.Background(), 20, 1.0/60)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Steps).To(Equal(20))
			Expect(res.Times).To(HaveLen(4))
			Expect(res.Series["count"]).To(Equal([]float64{5, 10, 15, 20}))
			Expect(res.Metrics["count"]).To(Equal(20.0))
			Expect(res.Time).To(BeNumerically("~", 20.0/60, 1e-12))
		})

		It("stops on cancellation with a partial result", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			res, err := s.Run(ctx, 100, 1.0/60)
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(res).NotTo(BeNil())
			Expect(res.Steps).To(BeZero())
		})

		It("rejects non-positive step counts and dt", func() {
			_, err := s.Run(context.Background(), 0, 0.1)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))

			_, err = s.Run(context.Background(), 10, 0)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})

		It("is reproducible for a fixed seed", func() {
			other, err := sim.FromConfig(cfg, dynamo.NewRand(21))
			Expect(err).NotTo(HaveOccurred())

			_, err = s.Run(context.Background(), 10, 1.0/60)
			Expect(err).NotTo(HaveOccurred())
			_, err = other.Run(context.Background(), 10, 1.0/60)
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < s.Particles().Len(); i++ {
				Expect(other.Particles().X(i)).To(Equal(s.Particles().X(i)))
				Expect(other.Particles().VY(i)).To(Equal(s.Particles().VY(i)))
			}
		})
	})

	Describe("Frame", func() {
		It("packs the current positions with the species colors", func() {
			_, err := s.Step(0.01)
			Expect(err).NotTo(HaveOccurred())

			f := s.Frame()
			defer s.Release(f)

			Expect(f.N).To(Equal(cfg.Particles))
			Expect(f.Step).To(Equal(1))
			x, y := f.Position(7)
			Expect(x).To(Equal(float32(s.Particles().X(7))))
			Expect(y).To(Equal(float32(s.Particles().Y(7))))

			r, g, b := f.Color(cfg.Particles - 1)
			Expect([]float32{r, g, b}).To(Equal([]float32{0.2, 0.2, 1}))
		})
	})

	Describe("Reset", func() {
		It("restarts the clock with a fresh population", func() {
			m := &countingMetric{}
			s.AddMetric(m)
			_, _ = s.Step(0.01)

			Expect(s.Reset(dynamo.NewRand(3))).To(Succeed())
			Expect(s.Time()).To(BeZero())
			Expect(s.Steps()).To(BeZero())
			Expect(m.observed).To(BeZero())
			Expect(s.Particles().Len()).To(Equal(cfg.Particles))
			Expect(s.Particles().CountBySpecies()).To(Equal([]int{30, 30, 30}))
		})
	})

	Describe("SetMatrix", func() {
		It("accepts a matrix of the right size", func() {
			Expect(s.SetMatrix(physics.RandomMatrix(3, dynamo.NewRand(4)))).To(Succeed())
			_, err := s.Step(0.01)
			Expect(err).NotTo(HaveOccurred())
		})

		It("starts a new run that keeps the population", func() {
			m := &countingMetric{}
			s.AddMetric(m)
			for i := 0; i < 3; i++ {
				_, err := s.Step(0.01)
				Expect(err).NotTo(HaveOccurred())
			}
			x := s.Particles().X(5)

			Expect(s.SetMatrix(physics.RandomMatrix(3, dynamo.NewRand(4)))).To(Succeed())
			Expect(s.Time()).To(BeZero())
			Expect(s.Steps()).To(BeZero())
			Expect(m.observed).To(BeZero())
			Expect(s.Particles().X(5)).To(Equal(x))
		})

		It("rejects a matrix that does not cover every species", func() {
			err := s.SetMatrix(physics.Cyclic(2, 1, 0, 0))
			Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
		})
	})
})

var _ = Describe("New", func() {
	It("rejects a negative frame clamp", func() {
		p, err := dynamo.Initialize(6, 2, 100, 100, dynamo.NewRand(1))
		Expect(err).NotTo(HaveOccurred())
		integ, err := physics.New(physics.DefaultParams(), physics.Cyclic(2, 1, 0.5, -0.5), physics.World{Width: 100, Height: 100}, 1)
		Expect(err).NotTo(HaveOccurred())

		_, err = sim.New(p, integ, config.DefaultConfig().Palette()[:2], sim.Config{MaxFrameDt: -1})
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})

	It("accepts a population that leaves species unused", func() {
		p, err := dynamo.FromPositions([]float64{10, 20}, []float64{10, 20}, []int{0, 0})
		Expect(err).NotTo(HaveOccurred())
		integ, err := physics.New(physics.DefaultParams(), physics.Cyclic(2, 1, 0.5, -0.5), physics.World{Width: 100, Height: 100}, 1)
		Expect(err).NotTo(HaveOccurred())

		s, err := sim.New(p, integ, config.DefaultConfig().Palette()[:2], sim.Config{})
		Expect(err).NotTo(HaveOccurred())
		_, err = s.Step(0.01)
		Expect(err).NotTo(HaveOccurred())
	})

	It("refuses an invalid configuration", func() {
		cfg := config.DefaultConfig()
		cfg.Particles = 7
		_, err := sim.FromConfig(cfg, dynamo.NewRand(1))
		Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
	})
})
