package interp

import "fmt"

// linear1D interpolates linearly between neighbouring knots.
type linear1D struct {
	g *Grid
}

func (s *linear1D) Interpolate(point []float64) (float64, error) {
	if err := checkPoint(s.g, point); err != nil {
		return 0, err
	}
	xs := s.g.Coords[0]
	i, err := findInterval(xs, point[0])
	if err != nil {
		return 0, err
	}
	return lerp(xs[i], xs[i+1], s.g.Values[i], s.g.Values[i+1], point[0]), nil
}

func (s *linear1D) AllowExtrapolate() bool { return false }

// lerp performs linear interpolation between (x1, y1) and (x2, y2).
func lerp(x1, x2, y1, y2, x float64) float64 {
	if x1 == x2 {
		return y1
	}
	return y1 + (y2-y1)*(x-x1)/(x2-x1)
}

// bilinear interpolates on a rank-2 grid in plain coordinate space.
type bilinear struct {
	g *Grid
}

func (s *bilinear) Interpolate(point []float64) (float64, error) {
	if err := checkPoint(s.g, point); err != nil {
		return 0, err
	}
	xs, ys := s.g.Coords[0], s.g.Coords[1]
	i, err := findInterval(xs, point[0])
	if err != nil {
		return 0, err
	}
	j, err := findInterval(ys, point[1])
	if err != nil {
		return 0, err
	}
	q11 := s.g.At(i, j)
	q12 := s.g.At(i, j+1)
	q21 := s.g.At(i+1, j)
	q22 := s.g.At(i+1, j+1)

	r1 := lerp(xs[i], xs[i+1], q11, q21, point[0])
	r2 := lerp(xs[i], xs[i+1], q12, q22, point[0])
	return lerp(ys[j], ys[j+1], r1, r2, point[1]), nil
}

func (s *bilinear) AllowExtrapolate() bool { return false }

// logBilinear is bilinear interpolation after transforming both axes to
// natural-log space. Suitable for data that is linear in log-log space.
type logBilinear struct {
	g    *Grid
	logX []float64
	logY []float64
}

func newLogBilinear(g *Grid) (*logBilinear, error) {
	lx, err := logKnots(g.Coords[0])
	if err != nil {
		return nil, err
	}
	ly, err := logKnots(g.Coords[1])
	if err != nil {
		return nil, err
	}
	return &logBilinear{g: g, logX: lx, logY: ly}, nil
}

func (s *logBilinear) Interpolate(point []float64) (float64, error) {
	if err := checkPoint(s.g, point); err != nil {
		return 0, err
	}
	lx, err := logPoint(point[0])
	if err != nil {
		return 0, err
	}
	ly, err := logPoint(point[1])
	if err != nil {
		return 0, err
	}
	i, err := findInterval(s.logX, lx)
	if err != nil {
		return 0, err
	}
	j, err := findInterval(s.logY, ly)
	if err != nil {
		return 0, err
	}

	wx := (lx - s.logX[i]) / (s.logX[i+1] - s.logX[i])
	wy := (ly - s.logY[j]) / (s.logY[j+1] - s.logY[j])

	z11 := s.g.At(i, j)
	z12 := s.g.At(i, j+1)
	z21 := s.g.At(i+1, j)
	z22 := s.g.At(i+1, j+1)

	return z11*(1-wx)*(1-wy) + z21*wx*(1-wy) + z12*(1-wx)*wy + z22*wx*wy, nil
}

func (s *logBilinear) AllowExtrapolate() bool { return false }

// ndLinear is the separable multilinear fallback for grids of any rank:
// a tensor product of 1D linear bases, summed over the 2^rank cell corners.
type ndLinear struct {
	g *Grid
}

func newNDLinear(g *Grid) (*ndLinear, error) {
	if g.Rank() > 5 {
		return nil, fmt.Errorf("%w: ndlinear supports at most rank 5, grid has rank %d", ErrInvalidGrid, g.Rank())
	}
	return &ndLinear{g: g}, nil
}

func (s *ndLinear) Interpolate(point []float64) (float64, error) {
	if err := checkPoint(s.g, point); err != nil {
		return 0, err
	}
	rank := s.g.Rank()
	base := make([]int, rank)
	frac := make([]float64, rank)
	for d := 0; d < rank; d++ {
		i, err := findInterval(s.g.Coords[d], point[d])
		if err != nil {
			return 0, err
		}
		base[d] = i
		c := s.g.Coords[d]
		frac[d] = (point[d] - c[i]) / (c[i+1] - c[i])
	}

	idx := make([]int, rank)
	var sum float64
	for corner := 0; corner < 1<<rank; corner++ {
		weight := 1.0
		for d := 0; d < rank; d++ {
			if corner&(1<<d) != 0 {
				idx[d] = base[d] + 1
				weight *= frac[d]
			} else {
				idx[d] = base[d]
				weight *= 1 - frac[d]
			}
		}
		if weight != 0 {
			sum += weight * s.g.At(idx...)
		}
	}
	return sum, nil
}

func (s *ndLinear) AllowExtrapolate() bool { return false }
