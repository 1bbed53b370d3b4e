package interp

import (
	"fmt"
	"math"
)

// alphaSCubic is the LHAPDF coupling interpolation: Hermite cubic in log Q2
// between tabulated knots, constant-gradient power-law extrapolation (in a
// log10-log10 plot) below the grid, and a frozen value above it.
type alphaSCubic struct {
	q2s    []float64
	logQ2s []float64
	vals   []float64
}

// NewAlphaSCubic builds the coupling interpolator from tabulated Q2 knots
// and coupling values. Knots must be strictly increasing and positive.
func NewAlphaSCubic(q2s, vals []float64) (Strategy, error) {
	if len(q2s) < 2 || len(q2s) != len(vals) {
		return nil, fmt.Errorf("%w: coupling table needs matching Q2/value arrays with at least 2 knots", ErrInvalidGrid)
	}
	logQ2s, err := logKnots(q2s)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(q2s); i++ {
		if q2s[i] <= q2s[i-1] {
			return nil, fmt.Errorf("%w: coupling Q2 knots not strictly increasing at %d", ErrInvalidGrid, i)
		}
	}
	return &alphaSCubic{q2s: q2s, logQ2s: logQ2s, vals: vals}, nil
}

func (s *alphaSCubic) ddlogqForward(i int) float64 {
	return (s.vals[i+1] - s.vals[i]) / (s.logQ2s[i+1] - s.logQ2s[i])
}

func (s *alphaSCubic) ddlogqBackward(i int) float64 {
	return (s.vals[i] - s.vals[i-1]) / (s.logQ2s[i] - s.logQ2s[i-1])
}

func (s *alphaSCubic) ddlogqCentral(i int) float64 {
	return 0.5 * (s.ddlogqForward(i) + s.ddlogqBackward(i))
}

func (s *alphaSCubic) Interpolate(point []float64) (float64, error) {
	if len(point) != 1 {
		return 0, fmt.Errorf("%w: coupling is rank 1, got %d coordinates", ErrInvalidPoint, len(point))
	}
	q2 := point[0]
	if q2 <= 0 {
		return 0, fmt.Errorf("%w: Q2 = %g", ErrNonPositive, q2)
	}
	n := len(s.q2s)

	if q2 < s.q2s[0] {
		// Below the grid: power-law continuation with the log-log gradient
		// of the first interval.
		dlogq2 := math.Log10(s.q2s[1] / s.q2s[0])
		dlogas := math.Log10(s.vals[1] / s.vals[0])
		grad := dlogas / dlogq2
		return s.vals[0] * math.Pow(q2/s.q2s[0], grad), nil
	}
	if q2 > s.q2s[n-1] {
		return s.vals[n-1], nil
	}

	i, err := findInterval(s.q2s, q2)
	if err != nil {
		return 0, err
	}

	var d0, d1 float64
	switch {
	case i == 0:
		d0 = s.ddlogqForward(i)
		d1 = s.ddlogqCentral(i + 1)
	case i == n-2:
		d0 = s.ddlogqCentral(i)
		d1 = s.ddlogqBackward(i + 1)
	default:
		d0 = s.ddlogqCentral(i)
		d1 = s.ddlogqCentral(i + 1)
	}

	dlogq2 := s.logQ2s[i+1] - s.logQ2s[i]
	t := (math.Log(q2) - s.logQ2s[i]) / dlogq2
	return hermiteCubic(t, s.vals[i], d0*dlogq2, s.vals[i+1], d1*dlogq2), nil
}

func (s *alphaSCubic) AllowExtrapolate() bool { return true }
