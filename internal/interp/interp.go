// Package interp implements the numerical interpolation strategies used to
// evaluate tabulated distributions: linear and Hermite-cubic bases in one
// dimension, bilinear/bicubic in two, tricubic in three, a barycentric
// Chebyshev basis, and a separable multilinear fallback for higher ranks.
//
// Strategies are constructed once per (subgrid, flavor) pair and precompute
// whatever they can (log-transformed knots, polynomial coefficients,
// barycentric weights), so the per-query path contains no kind dispatch.
package interp

import (
	"errors"
	"fmt"
	"math"
)

// Common errors.
var (
	ErrInvalidGrid  = errors.New("invalid interpolation grid")
	ErrInvalidPoint = errors.New("invalid query point")
	ErrNonPositive  = errors.New("non-positive coordinate for logarithmic scaling")
	ErrOutOfRange   = errors.New("point outside interpolation range")
)

// Kind identifies an interpolation strategy.
type Kind int

const (
	KindLinear Kind = iota
	KindCubic
	KindChebyshev
	KindBilinear
	KindLogBilinear
	KindLogBicubic
	KindLogTricubic
	KindNDLinear
)

// String returns the canonical name of the kind as it appears in metadata.
func (k Kind) String() string {
	switch k {
	case KindLinear:
		return "linear"
	case KindCubic:
		return "cubic"
	case KindChebyshev:
		return "chebyshev"
	case KindBilinear:
		return "bilinear"
	case KindLogBilinear:
		return "logbilinear"
	case KindLogBicubic:
		return "logbicubic"
	case KindLogTricubic:
		return "logtricubic"
	case KindNDLinear:
		return "ndlinear"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Grid holds the knots and values for one interpolation problem. Values are
// stored row-major over the coordinate axes: the last axis varies fastest.
type Grid struct {
	Coords  [][]float64
	Values  []float64
	strides []int
}

// NewGrid validates the coordinate arrays and value buffer and precomputes
// the value strides. Every axis must be strictly increasing with at least
// two knots, and len(values) must equal the product of the axis lengths.
func NewGrid(coords [][]float64, values []float64) (*Grid, error) {
	if len(coords) == 0 {
		return nil, fmt.Errorf("%w: no axes", ErrInvalidGrid)
	}
	size := 1
	for d, axis := range coords {
		if len(axis) < 2 {
			return nil, fmt.Errorf("%w: axis %d has %d knots, need at least 2", ErrInvalidGrid, d, len(axis))
		}
		for i := 1; i < len(axis); i++ {
			if axis[i] <= axis[i-1] {
				return nil, fmt.Errorf("%w: axis %d not strictly increasing at knot %d", ErrInvalidGrid, d, i)
			}
		}
		size *= len(axis)
	}
	if len(values) != size {
		return nil, fmt.Errorf("%w: have %d values, axes imply %d", ErrInvalidGrid, len(values), size)
	}
	g := &Grid{Coords: coords, Values: values}
	g.strides = make([]int, len(coords))
	stride := 1
	for d := len(coords) - 1; d >= 0; d-- {
		g.strides[d] = stride
		stride *= len(coords[d])
	}
	return g, nil
}

// Rank returns the number of axes.
func (g *Grid) Rank() int {
	return len(g.Coords)
}

// At returns the tabulated value at the given multi-index.
func (g *Grid) At(idx ...int) float64 {
	off := 0
	for d, i := range idx {
		off += i * g.strides[d]
	}
	return g.Values[off]
}

// Strategy evaluates one interpolation problem at arbitrary points inside
// the grid domain. Implementations are safe for concurrent use after
// construction.
type Strategy interface {
	// Interpolate evaluates at the given point. The point length must equal
	// the grid rank.
	Interpolate(point []float64) (float64, error)
	// AllowExtrapolate reports whether the strategy produces meaningful
	// values outside the knot range.
	AllowExtrapolate() bool
}

// New constructs the strategy for the given kind and grid. Kind/rank
// combinations without a specialization fail here, never at query time.
func New(kind Kind, g *Grid) (Strategy, error) {
	switch kind {
	case KindLinear:
		if g.Rank() != 1 {
			return nil, fmt.Errorf("%w: linear needs rank 1, grid has rank %d", ErrInvalidGrid, g.Rank())
		}
		return &linear1D{g: g}, nil
	case KindCubic:
		if g.Rank() != 1 {
			return nil, fmt.Errorf("%w: cubic needs rank 1, grid has rank %d", ErrInvalidGrid, g.Rank())
		}
		return newCubic1D(g)
	case KindChebyshev:
		if g.Rank() != 1 && g.Rank() != 3 {
			return nil, fmt.Errorf("%w: chebyshev supports ranks 1 and 3, grid has rank %d", ErrInvalidGrid, g.Rank())
		}
		return newChebyshev(g)
	case KindBilinear:
		if g.Rank() != 2 {
			return nil, fmt.Errorf("%w: bilinear needs rank 2, grid has rank %d", ErrInvalidGrid, g.Rank())
		}
		return &bilinear{g: g}, nil
	case KindLogBilinear:
		if g.Rank() != 2 {
			return nil, fmt.Errorf("%w: logbilinear needs rank 2, grid has rank %d", ErrInvalidGrid, g.Rank())
		}
		return newLogBilinear(g)
	case KindLogBicubic:
		if g.Rank() != 2 {
			return nil, fmt.Errorf("%w: logbicubic needs rank 2, grid has rank %d", ErrInvalidGrid, g.Rank())
		}
		return newLogBicubic(g)
	case KindLogTricubic:
		if g.Rank() != 3 {
			return nil, fmt.Errorf("%w: logtricubic needs rank 3, grid has rank %d", ErrInvalidGrid, g.Rank())
		}
		return newLogTricubic(g)
	case KindNDLinear:
		return newNDLinear(g)
	default:
		return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidGrid, int(kind))
	}
}

// findInterval returns i such that coords[i] <= x < coords[i+1]. A query
// exactly at the last knot returns the final interval. Out-of-range queries
// fail with ErrOutOfRange.
func findInterval(coords []float64, x float64) (int, error) {
	n := len(coords)
	if x < coords[0] || x > coords[n-1] {
		return 0, fmt.Errorf("%w: %g outside [%g, %g]", ErrOutOfRange, x, coords[0], coords[n-1])
	}
	if x == coords[n-1] {
		return n - 2, nil
	}
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if coords[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo, nil
}

// logKnots returns the natural logs of the knots, failing if any knot is
// not strictly positive.
func logKnots(coords []float64) ([]float64, error) {
	out := make([]float64, len(coords))
	for i, c := range coords {
		if c <= 0 {
			return nil, fmt.Errorf("%w: knot %d = %g", ErrNonPositive, i, c)
		}
		out[i] = math.Log(c)
	}
	return out, nil
}

// logPoint returns log(x), failing for non-positive x.
func logPoint(x float64) (float64, error) {
	if x <= 0 {
		return 0, fmt.Errorf("%w: query coordinate %g", ErrNonPositive, x)
	}
	return math.Log(x), nil
}

// hermiteCubic evaluates the Hermite cubic with values f0, f1 and
// derivatives d0, d1 at the unit-interval parameter t.
func hermiteCubic(t, f0, d0, f1, d1 float64) float64 {
	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	return h00*f0 + h10*d0 + h01*f1 + h11*d1
}

// checkPoint verifies the query point length against the grid rank.
func checkPoint(g *Grid, point []float64) error {
	if len(point) != g.Rank() {
		return fmt.Errorf("%w: got %d coordinates, grid has rank %d", ErrInvalidPoint, len(point), g.Rank())
	}
	return nil
}
