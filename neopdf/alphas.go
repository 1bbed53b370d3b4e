package neopdf

import (
	"fmt"
	"math"

	"github.com/robert-malhotra/go-neopdf/internal/interp"
)

// AlphaS evaluates the strong coupling at a scale squared.
type AlphaS interface {
	AlphaSQ2(q2 float64) (float64, error)
}

// newAlphaS builds the coupling evaluator a member declares: interpolation
// over the tabulated reference values when present, the analytic running
// solution otherwise.
func newAlphaS(m *MetaData) (AlphaS, error) {
	if m.AlphaSMode == AlphaSTabulated && len(m.AlphaSVals) > 0 {
		return newAlphaSInterp(m.AlphaSQs, m.AlphaSVals)
	}
	return newAlphaSAnalytic(m), nil
}

// alphaSInterp interpolates the tabulated coupling. The metadata stores Q
// knots; they are squared once at construction.
type alphaSInterp struct {
	strategy interp.Strategy
}

func newAlphaSInterp(qs, vals []float64) (AlphaS, error) {
	if len(qs) != len(vals) {
		return nil, fmt.Errorf("%w: coupling table has %d Q knots but %d values",
			ErrInvalidAxis, len(qs), len(vals))
	}
	// LHAPDF tables duplicate the Q knot at each flavor threshold; collapse
	// duplicates keeping the above-threshold value.
	q2s := make([]float64, 0, len(qs))
	as := make([]float64, 0, len(vals))
	for i, q := range qs {
		q2 := q * q
		if n := len(q2s); n > 0 && q2 == q2s[n-1] {
			as[n-1] = vals[i]
			continue
		}
		q2s = append(q2s, q2)
		as = append(as, vals[i])
	}
	s, err := interp.NewAlphaSCubic(q2s, as)
	if err != nil {
		return nil, fmt.Errorf("coupling table: %w", mapInterpErr(err))
	}
	return &alphaSInterp{strategy: s}, nil
}

func (a *alphaSInterp) AlphaSQ2(q2 float64) (float64, error) {
	v, err := a.strategy.Interpolate([]float64{q2})
	if err != nil {
		return 0, mapInterpErr(err)
	}
	return v, nil
}

// alphaSAnalytic computes the leading-order running coupling from the QCD
// scale parameters, with the flavor number set by the quark mass
// thresholds.
type alphaSAnalytic struct {
	orderQCD                    int32
	lambda3, lambda4, lambda5   float64
	mCharmSq, mBottomSq, mTopSq float64
}

func newAlphaSAnalytic(m *MetaData) *alphaSAnalytic {
	return &alphaSAnalytic{
		orderQCD:  m.Physics.AlphaSOrderQCD,
		lambda3:   0.339,
		lambda4:   0.296,
		lambda5:   0.213,
		mCharmSq:  m.Physics.MCharm * m.Physics.MCharm,
		mBottomSq: m.Physics.MBottom * m.Physics.MBottom,
		mTopSq:    m.Physics.MTop * m.Physics.MTop,
	}
}

func (a *alphaSAnalytic) numFlavors(q2 float64) int {
	switch {
	case q2 > a.mTopSq && a.mTopSq > 0:
		return 6
	case q2 > a.mBottomSq && a.mBottomSq > 0:
		return 5
	case q2 > a.mCharmSq && a.mCharmSq > 0:
		return 4
	default:
		return 3
	}
}

func (a *alphaSAnalytic) lambdaQCD(nf int) float64 {
	switch nf {
	case 3:
		return a.lambda3
	case 4:
		return a.lambda4
	case 5, 6:
		return a.lambda5
	}
	return 0
}

func (a *alphaSAnalytic) AlphaSQ2(q2 float64) (float64, error) {
	if q2 <= 0 {
		return 0, fmt.Errorf("%w: Q2 = %g", ErrInvalidQuery, q2)
	}
	nf := a.numFlavors(q2)
	lambda := a.lambdaQCD(nf)
	if q2 <= lambda*lambda {
		return math.Inf(1), nil
	}
	if a.orderQCD == 0 {
		return 0.130, nil
	}
	beta0 := (33.0 - 2.0*float64(nf)) / (12.0 * math.Pi)
	t := math.Log(q2 / (lambda * lambda))
	return 1.0 / (beta0 * t), nil
}
