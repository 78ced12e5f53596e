// service/match/series.go
package match

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/schnapsen/bots"
	"github.com/jason-s-yu/schnapsen/service/config"
)

// SeriesStats aggregates a series of matches between two bots. Index 0 is the
// first bot named in RunSeries, index 1 the second, whichever seat they took.
type SeriesStats struct {
	Bots       [2]string `json:"bots"`
	Matches    int       `json:"matches"`
	Wins       [2]int    `json:"wins"`
	GamePoints [2]int    `json:"gamePoints"`
	Legs       int       `json:"legs"`
	LegWins    [2]int    `json:"legWins"`
	Forfeits   [2]int    `json:"forfeits"`
}

// WinRate returns the share of matches won by bot i.
func (s SeriesStats) WinRate(i int) float64 {
	if s.Matches == 0 {
		return 0
	}
	return float64(s.Wins[i]) / float64(s.Matches)
}

// AvgLegs returns the mean number of legs per match.
func (s SeriesStats) AvgLegs() float64 {
	if s.Matches == 0 {
		return 0
	}
	return float64(s.Legs) / float64(s.Matches)
}

// seriesJob is one match of a series with its pre-drawn seed.
type seriesJob struct {
	index int
	seed  uint64
}

type seriesResult struct {
	index   int
	swapped bool // bot 0 sat in seat 1
	winner  uint8
	score   [2]int
	legs    []LegRecord
	err     error
}

// RunSeries plays n matches between the bots described by configA and configB
// (registry configuration strings such as "rdeep:samples=4") on
// cfg.SeriesWorkers goroutines. The bots swap seats every match. All match
// seeds are drawn from cfg.Seed up front, so the totals do not depend on
// scheduling. On error the stats of the matches that finished are returned
// with the first error.
func RunSeries(ctx context.Context, cfg config.Config, configA, configB string, n int, logger *logrus.Logger) (SeriesStats, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	stats := SeriesStats{Bots: [2]string{configA, configB}}
	for _, c := range stats.Bots {
		if _, err := bots.New(c, 0); err != nil {
			return stats, err
		}
	}
	if n <= 0 {
		return stats, nil
	}

	numWorkers := cfg.SeriesWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0xbb67ae8584caa73b))
	jobs := make(chan seriesJob, n)
	for i := 0; i < n; i++ {
		jobs <- seriesJob{index: i, seed: rng.Uint64()}
	}
	close(jobs)

	results := make(chan seriesResult, n)
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if ctx.Err() != nil {
					results <- seriesResult{index: job.index, err: ctx.Err()}
					continue
				}
				results <- playSeriesMatch(ctx, cfg, stats.Bots, job, logger)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	for r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		stats.add(r)
	}

	logger.WithFields(logrus.Fields{
		"bots":    fmt.Sprintf("%s vs %s", configA, configB),
		"matches": stats.Matches,
		"wins":    fmt.Sprintf("%d-%d", stats.Wins[0], stats.Wins[1]),
		"legs":    stats.Legs,
	}).Info("series finished")
	return stats, firstErr
}

func playSeriesMatch(ctx context.Context, cfg config.Config, configs [2]string, job seriesJob, logger *logrus.Logger) seriesResult {
	res := seriesResult{index: job.index, swapped: job.index%2 == 1}
	rng := rand.New(rand.NewPCG(job.seed, job.seed^0x3c6ef372fe94f82b))

	var seats [2]Seat
	for i, c := range configs {
		s, err := bots.New(c, rng.Uint64())
		if err != nil {
			res.err = err
			return res
		}
		seats[i] = Seat{Name: c, Strategy: s}
	}
	if res.swapped {
		seats[0], seats[1] = seats[1], seats[0]
	}

	mcfg := cfg
	mcfg.Seed = rng.Uint64()
	m := New(mcfg, seats, logger)
	score, err := m.Play(ctx)
	if err != nil {
		res.err = fmt.Errorf("match %d: %w", job.index, err)
		return res
	}
	res.winner, _ = m.Winner()
	res.score = score
	res.legs = m.Legs()
	return res
}

// add folds one finished match into the totals, mapping seats back to bots.
func (s *SeriesStats) add(r seriesResult) {
	bot := func(seat uint8) int {
		if r.swapped {
			return int(1 - seat)
		}
		return int(seat)
	}
	s.Matches++
	s.Wins[bot(r.winner)]++
	for seat := uint8(0); seat < 2; seat++ {
		s.GamePoints[bot(seat)] += r.score[seat]
	}
	s.Legs += len(r.legs)
	for _, l := range r.legs {
		s.LegWins[bot(l.Winner)]++
		if l.ForfeitBy >= 0 {
			s.Forfeits[bot(uint8(l.ForfeitBy))]++
		}
	}
}
