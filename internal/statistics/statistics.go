// Package statistics summarises Monte Carlo outcomes.
package statistics

import "math"

// Sample accumulates per-trial values without storing them.
type Sample struct {
	N     int
	Sum   float64
	SumSq float64
}

// AddN records count trials that each produced value.
func (s *Sample) AddN(value float64, count int) {
	if count <= 0 {
		return
	}
	s.N += count
	s.Sum += value * float64(count)
	s.SumSq += value * value * float64(count)
}

// Add records a single trial.
func (s *Sample) Add(value float64) {
	s.AddN(value, 1)
}

// Mean returns the arithmetic mean of all trials
func (s *Sample) Mean() float64 {
	if s.N == 0 {
		return 0
	}
	return s.Sum / float64(s.N)
}

// Variance returns the sample variance of all trials
func (s *Sample) Variance() float64 {
	if s.N < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.SumSq - float64(s.N)*mean*mean) / float64(s.N-1)
	// rounding can push a zero variance slightly negative
	return math.Max(v, 0)
}

// StdDev returns the sample standard deviation
func (s *Sample) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Sample) StdError() float64 {
	if s.N == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.N))
}

// Margin95 is the half-width of the 95% confidence interval.
func (s *Sample) Margin95() float64 {
	return 1.96 * s.StdError()
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Sample) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := s.Margin95()
	return mean - margin, mean + margin
}

// Showdowns builds the equity sample for one player: a win is worth 1, a
// tie 0.5 and a loss 0.
func Showdowns(wins, ties, losses int) Sample {
	var s Sample
	s.AddN(1, wins)
	s.AddN(0.5, ties)
	s.AddN(0, losses)
	return s
}
