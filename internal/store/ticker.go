package store

import (
	"time"

	"github.com/vcscsvcscs/hope/apps/backend/internal/synth"
	"go.uber.org/zap"
)

// liveTicker is the handle of the single background goroutine that perturbs
// live metrics while a consumer session is active
type liveTicker struct {
	stop chan struct{}
	done chan struct{}
}

// startTicker must be called with the lifecycle lock held and no ticker running
func (s *Store) startTicker(generation uint64, seed int64) {
	t := &liveTicker{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	s.ticker = t
	s.activeTickers.Add(1)
	s.metrics.activeTickers.Inc()

	rng := synth.NewRandom(seed)
	interval := s.tickInterval

	go func() {
		defer close(t.done)

		tk := time.NewTicker(interval)
		defer tk.Stop()

		for {
			select {
			case <-t.stop:
				return
			case <-tk.C:
				s.tick(generation, rng)
			}
		}
	}()

	s.logger.Debug("live metrics ticker started",
		zap.Uint64("generation", generation),
		zap.Duration("interval", interval),
	)
}

// stopTicker must be called with the lifecycle lock held and without mu, since
// a tick in flight may be waiting for mu. It returns once the goroutine exited.
func (s *Store) stopTicker() {
	if s.ticker == nil {
		return
	}
	close(s.ticker.stop)
	<-s.ticker.done
	s.ticker = nil
	s.activeTickers.Add(-1)
	s.metrics.activeTickers.Dec()

	s.logger.Debug("live metrics ticker stopped")
}

// tick applies one perturbation step. Ticks from a previous session are dropped.
func (s *Store) tick(generation uint64, rng *synth.Random) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation || s.state.LiveMetrics == nil {
		return
	}

	live := synth.PerturbLiveMetrics(rng, *s.state.LiveMetrics, s.now().UTC())

	// only the live metrics pointer changes, the rest of the state is shared
	next := s.state
	next.LiveMetrics = &live
	s.commit(next, false)
	s.metrics.ticks.Inc()
}

// ActiveTickers reports how many live metric tickers are running. It is
// never more than one.
func (s *Store) ActiveTickers() int {
	return int(s.activeTickers.Load())
}
