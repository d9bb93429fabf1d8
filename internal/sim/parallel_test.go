package sim_test

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/soup/internal/sim"
)

var _ = Describe("Ensemble", func() {
	It("runs every member with its own seed", func() {
		var (
			mu    sync.Mutex
			seeds []uint64
		)
		factory := sim.ConfigFactory(smallConfig(), nil)
		recording := func(seed uint64) (*sim.Simulator, error) {
			mu.Lock()
			seeds = append(seeds, seed)
			mu.Unlock()
			return factory(seed)
		}

		e := sim.NewEnsemble(recording, 3, 100, 2)
		results, err := e.Run(context.Background(), 5, 1.0/60)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))
		for _, r := range results {
			Expect(r.Steps).To(Equal(5))
		}
		Expect(seeds).To(ConsistOf(uint64(100), uint64(101), uint64(102)))
	})

	It("applies the setup hook to each member", func() {
		cfg := smallConfig()
		e := sim.NewEnsemble(sim.ConfigFactory(cfg, func(s *sim.Simulator) {
			s.AddMetric(&countingMetric{})
		}), 2, 1, 0)

		results, err := e.Run(context.Background(), 10, 1.0/60)
		Expect(err).NotTo(HaveOccurred())
		for _, r := range results {
			Expect(r.Metrics).To(HaveKeyWithValue("count", 10.0))
		}
	})

	It("surfaces the first failure", func() {
		boom := errors.New("boom")
		e := sim.NewEnsemble(func(seed uint64) (*sim.Simulator, error) {
			return nil, boom
		}, 2, 1, 0)

		_, err := e.Run(context.Background(), 5, 1.0/60)
		Expect(err).To(MatchError(boom))
	})

	It("needs at least one run", func() {
		e := sim.NewEnsemble(sim.ConfigFactory(smallConfig(), nil), 0, 1, 0)
		_, err := e.Run(context.Background(), 5, 1.0/60)
		Expect(err).To(HaveOccurred())
	})
})
