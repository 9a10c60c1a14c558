// Package scoring aggregates rating scores and validates them against the
// range a dataset uses.
package scoring

import (
	"fmt"
	"math"
)

// Default rating range of the public dataset (half-star steps).
const (
	DefaultMin = 0.5
	DefaultMax = 5.0
)

// RunningMean folds score into a mean taken over count previous scores.
func RunningMean(mean float64, count uint32, score float64) float64 {
	n := float64(count)
	return (mean*n + score) / (n + 1)
}

// CompensatedMean keeps a Kahan-compensated sum so the mean stays accurate
// over millions of additions. The zero value is ready to use.
type CompensatedMean struct {
	sum   float64
	carry float64
	n     uint64
}

// Add folds x into the mean.
func (m *CompensatedMean) Add(x float64) {
	y := x - m.carry
	t := m.sum + y
	m.carry = (t - m.sum) - y
	m.sum = t
	m.n++
}

// Mean returns 0 before the first Add.
func (m *CompensatedMean) Mean() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}

// Count is the number of values added.
func (m *CompensatedMean) Count() uint64 { return m.n }

// Bounds is an inclusive score range.
type Bounds struct {
	Min float64
	Max float64
}

// DefaultBounds returns the range of the public dataset.
func DefaultBounds() Bounds {
	return Bounds{Min: DefaultMin, Max: DefaultMax}
}

// Validate reports whether the range itself is usable.
func (b Bounds) Validate() error {
	if math.IsNaN(b.Min) || math.IsNaN(b.Max) || b.Min > b.Max {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidBounds, b.Min, b.Max)
	}
	return nil
}

// Check returns ErrScoreOutOfRange for scores outside the range or NaN.
func (b Bounds) Check(score float64) error {
	if math.IsNaN(score) || score < b.Min || score > b.Max {
		return fmt.Errorf("%w: %v not in [%v, %v]", ErrScoreOutOfRange, score, b.Min, b.Max)
	}
	return nil
}
