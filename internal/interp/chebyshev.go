package interp

import "fmt"

// chebyshev is barycentric Lagrange interpolation (Berrut-Trefethen) on
// log-transformed knots, supporting rank-1 grids and rank-3 tensor products.
// The barycentric weights are precomputed once per axis; knots need not be
// Chebyshev-distributed, though accuracy is best when they are.
type chebyshev struct {
	g       *Grid
	logs    [][]float64
	weights [][]float64
}

func newChebyshev(g *Grid) (*chebyshev, error) {
	s := &chebyshev{
		g:       g,
		logs:    make([][]float64, g.Rank()),
		weights: make([][]float64, g.Rank()),
	}
	for d := range g.Coords {
		lg, err := logKnots(g.Coords[d])
		if err != nil {
			return nil, err
		}
		s.logs[d] = lg
		s.weights[d] = barycentricWeights(lg)
	}
	return s, nil
}

// barycentricWeights computes w_j = 1 / prod_{k != j} (x_j - x_k), with the
// differences rescaled by 4/(x_max - x_min) so the products stay in range
// for large knot counts.
func barycentricWeights(xs []float64) []float64 {
	n := len(xs)
	scale := 4.0 / (xs[n-1] - xs[0])
	ws := make([]float64, n)
	for j := 0; j < n; j++ {
		w := 1.0
		for k := 0; k < n; k++ {
			if k != j {
				w /= scale * (xs[j] - xs[k])
			}
		}
		ws[j] = w
	}
	return ws
}

// bary evaluates the 1D barycentric formula at x given per-node values.
// An exact node hit returns the tabulated value without division.
func bary(xs, ws []float64, x float64, value func(j int) float64) float64 {
	var num, den float64
	for j := range xs {
		if x == xs[j] {
			return value(j)
		}
		t := ws[j] / (x - xs[j])
		num += t * value(j)
		den += t
	}
	return num / den
}

func (s *chebyshev) Interpolate(point []float64) (float64, error) {
	if err := checkPoint(s.g, point); err != nil {
		return 0, err
	}
	lp := make([]float64, len(point))
	for d, x := range point {
		v, err := logPoint(x)
		if err != nil {
			return 0, err
		}
		if v < s.logs[d][0] || v > s.logs[d][len(s.logs[d])-1] {
			return 0, fmt.Errorf("%w: %g outside [%g, %g]", ErrOutOfRange,
				x, s.g.Coords[d][0], s.g.Coords[d][len(s.g.Coords[d])-1])
		}
		lp[d] = v
	}

	switch s.g.Rank() {
	case 1:
		return bary(s.logs[0], s.weights[0], lp[0], func(j int) float64 {
			return s.g.Values[j]
		}), nil
	case 3:
		// Tensor product: collapse the last axis, then the middle, then
		// the first.
		return bary(s.logs[0], s.weights[0], lp[0], func(i int) float64 {
			return bary(s.logs[1], s.weights[1], lp[1], func(j int) float64 {
				return bary(s.logs[2], s.weights[2], lp[2], func(k int) float64 {
					return s.g.At(i, j, k)
				})
			})
		}), nil
	default:
		return 0, fmt.Errorf("%w: chebyshev rank %d", ErrInvalidGrid, s.g.Rank())
	}
}

func (s *chebyshev) AllowExtrapolate() bool { return false }
