package interp

import "fmt"

// cubic1D is Hermite cubic interpolation on a rank-1 grid in plain
// coordinate space. Knot derivatives come from finite differences:
// central inside the grid, one-sided at the ends.
type cubic1D struct {
	g      *Grid
	derivs []float64
}

func newCubic1D(g *Grid) (*cubic1D, error) {
	xs := g.Coords[0]
	n := len(xs)
	derivs := make([]float64, n)
	for i := 0; i < n; i++ {
		switch {
		case i == 0:
			derivs[i] = (g.Values[1] - g.Values[0]) / (xs[1] - xs[0])
		case i == n-1:
			derivs[i] = (g.Values[n-1] - g.Values[n-2]) / (xs[n-1] - xs[n-2])
		default:
			left := (g.Values[i] - g.Values[i-1]) / (xs[i] - xs[i-1])
			right := (g.Values[i+1] - g.Values[i]) / (xs[i+1] - xs[i])
			derivs[i] = 0.5 * (left + right)
		}
	}
	return &cubic1D{g: g, derivs: derivs}, nil
}

func (s *cubic1D) Interpolate(point []float64) (float64, error) {
	if err := checkPoint(s.g, point); err != nil {
		return 0, err
	}
	xs := s.g.Coords[0]
	i, err := findInterval(xs, point[0])
	if err != nil {
		return 0, err
	}
	dx := xs[i+1] - xs[i]
	t := (point[0] - xs[i]) / dx
	return hermiteCubic(t, s.g.Values[i], s.derivs[i]*dx, s.g.Values[i+1], s.derivs[i+1]*dx), nil
}

func (s *cubic1D) AllowExtrapolate() bool { return false }

// logBicubic implements the LHAPDF bicubic scheme in log space: per-cell
// cubic polynomial coefficients along log x are precomputed at construction,
// and the closure along log Q2 is a Hermite cubic with finite-difference
// derivatives evaluated on those polynomials.
type logBicubic struct {
	g      *Grid
	logX   []float64
	logY   []float64
	coeffs []float64 // (nx-1) * ny * 4, cubic a,b,c,d per (cell, y-knot)
}

func newLogBicubic(g *Grid) (*logBicubic, error) {
	nx, ny := len(g.Coords[0]), len(g.Coords[1])
	if nx < 4 || ny < 4 {
		return nil, fmt.Errorf("%w: logbicubic needs at least a 4x4 grid, got %dx%d", ErrInvalidGrid, nx, ny)
	}
	lx, err := logKnots(g.Coords[0])
	if err != nil {
		return nil, err
	}
	ly, err := logKnots(g.Coords[1])
	if err != nil {
		return nil, err
	}
	s := &logBicubic{g: g, logX: lx, logY: ly}
	s.coeffs = s.computeCoefficients()
	return s, nil
}

// ddxLog is the derivative of the values with respect to log x at knot
// (ix, iy): central difference inside the grid, one-sided at the edges.
func (s *logBicubic) ddxLog(ix, iy int) float64 {
	nx := len(s.logX)
	switch {
	case ix == 0:
		return (s.g.At(1, iy) - s.g.At(0, iy)) / (s.logX[1] - s.logX[0])
	case ix == nx-1:
		return (s.g.At(nx-1, iy) - s.g.At(nx-2, iy)) / (s.logX[nx-1] - s.logX[nx-2])
	default:
		left := (s.g.At(ix, iy) - s.g.At(ix-1, iy)) / (s.logX[ix] - s.logX[ix-1])
		right := (s.g.At(ix+1, iy) - s.g.At(ix, iy)) / (s.logX[ix+1] - s.logX[ix])
		return 0.5 * (left + right)
	}
}

func (s *logBicubic) computeCoefficients() []float64 {
	nx, ny := len(s.logX), len(s.logY)
	coeffs := make([]float64, (nx-1)*ny*4)
	for ix := 0; ix < nx-1; ix++ {
		dlogx := s.logX[ix+1] - s.logX[ix]
		for iy := 0; iy < ny; iy++ {
			vl := s.g.At(ix, iy)
			vh := s.g.At(ix+1, iy)
			vdl := s.ddxLog(ix, iy) * dlogx
			vdh := s.ddxLog(ix+1, iy) * dlogx

			base := (ix*ny + iy) * 4
			coeffs[base+0] = vdh + vdl - 2*vh + 2*vl
			coeffs[base+1] = 3*vh - 3*vl - 2*vdl - vdh
			coeffs[base+2] = vdl
			coeffs[base+3] = vl
		}
	}
	return coeffs
}

// poly evaluates the precomputed cubic for cell ix at y-knot iy at the
// unit-interval parameter u.
func (s *logBicubic) poly(ix, iy int, u float64) float64 {
	base := (ix*len(s.logY) + iy) * 4
	u2 := u * u
	return s.coeffs[base]*u2*u + s.coeffs[base+1]*u2 + s.coeffs[base+2]*u + s.coeffs[base+3]
}

func (s *logBicubic) Interpolate(point []float64) (float64, error) {
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

	u := (lx - s.logX[i]) / (s.logX[i+1] - s.logX[i])
	v := (ly - s.logY[j]) / (s.logY[j+1] - s.logY[j])

	ny := len(s.logY)
	vl := s.poly(i, j, u)
	vh := s.poly(i, j+1, u)
	dlogq1 := s.logY[j+1] - s.logY[j]

	// Hermite closure in log Q2: finite differences on the x-polynomials,
	// one-sided at the grid edges, central elsewhere.
	var vdl, vdh float64
	switch {
	case j == 0:
		vdl = vh - vl
		vhh := s.poly(i, j+2, u)
		dlogq2 := 1 / (s.logY[j+2] - s.logY[j+1])
		vdh = (vdl + (vhh-vh)*dlogq1*dlogq2) * 0.5
	case j == ny-2:
		vdh = vh - vl
		vll := s.poly(i, j-1, u)
		dlogq0 := 1 / (s.logY[j] - s.logY[j-1])
		vdl = (vdh + (vl-vll)*dlogq1*dlogq0) * 0.5
	default:
		vll := s.poly(i, j-1, u)
		vhh := s.poly(i, j+2, u)
		dlogq0 := 1 / (s.logY[j] - s.logY[j-1])
		dlogq2 := 1 / (s.logY[j+2] - s.logY[j+1])
		vdl = ((vh - vl) + (vl-vll)*dlogq1*dlogq0) * 0.5
		vdh = ((vh - vl) + (vhh-vh)*dlogq1*dlogq2) * 0.5
	}

	return hermiteCubic(v, vl, vdl, vh, vdh), nil
}

func (s *logBicubic) AllowExtrapolate() bool { return false }

// logTricubic extends the Hermite cubic scheme to rank-3 grids in log
// space, with finite-difference knot derivatives along all three axes.
type logTricubic struct {
	g    *Grid
	logs [3][]float64
}

func newLogTricubic(g *Grid) (*logTricubic, error) {
	for d := 0; d < 3; d++ {
		if len(g.Coords[d]) < 4 {
			return nil, fmt.Errorf("%w: logtricubic needs at least 4 knots per axis, axis %d has %d",
				ErrInvalidGrid, d, len(g.Coords[d]))
		}
	}
	s := &logTricubic{g: g}
	for d := 0; d < 3; d++ {
		lg, err := logKnots(g.Coords[d])
		if err != nil {
			return nil, err
		}
		s.logs[d] = lg
	}
	return s, nil
}

// deriv computes the finite-difference derivative of the values with
// respect to the log coordinate along axis d at knot (i, j, k).
func (s *logTricubic) deriv(d, i, j, k int) float64 {
	idx := [3]int{i, j, k}
	lg := s.logs[d]
	n := len(lg)
	at := func(p int) float64 {
		q := idx
		q[d] = p
		return s.g.At(q[0], q[1], q[2])
	}
	switch {
	case idx[d] == 0:
		return (at(1) - at(0)) / (lg[1] - lg[0])
	case idx[d] == n-1:
		return (at(n-1) - at(n-2)) / (lg[n-1] - lg[n-2])
	default:
		p := idx[d]
		left := (at(p) - at(p-1)) / (lg[p] - lg[p-1])
		right := (at(p+1) - at(p)) / (lg[p+1] - lg[p])
		return 0.5 * (left + right)
	}
}

func (s *logTricubic) Interpolate(point []float64) (float64, error) {
	if err := checkPoint(s.g, point); err != nil {
		return 0, err
	}
	var cell [3]int
	var t [3]float64
	for d := 0; d < 3; d++ {
		v, err := logPoint(point[d])
		if err != nil {
			return 0, err
		}
		i, err := findInterval(s.logs[d], v)
		if err != nil {
			return 0, err
		}
		cell[d] = i
		t[d] = (v - s.logs[d][i]) / (s.logs[d][i+1] - s.logs[d][i])
	}
	i, j, k := cell[0], cell[1], cell[2]
	dx := s.logs[0][i+1] - s.logs[0][i]
	dy := s.logs[1][j+1] - s.logs[1][j]
	dz := s.logs[2][k+1] - s.logs[2][k]

	// Hermite along log x at each of the four (y, z) cell corners.
	var fx [2][2]float64
	for yi := 0; yi < 2; yi++ {
		for zi := 0; zi < 2; zi++ {
			fx[yi][zi] = hermiteCubic(t[0],
				s.g.At(i, j+yi, k+zi), s.deriv(0, i, j+yi, k+zi)*dx,
				s.g.At(i+1, j+yi, k+zi), s.deriv(0, i+1, j+yi, k+zi)*dx)
		}
	}

	// Close along log y. The y-derivative at the interpolated x position
	// blends the knot derivatives linearly in t[0].
	var fy [2]float64
	for zi := 0; zi < 2; zi++ {
		d0 := lerp01(t[0], s.deriv(1, i, j, k+zi), s.deriv(1, i+1, j, k+zi)) * dy
		d1 := lerp01(t[0], s.deriv(1, i, j+1, k+zi), s.deriv(1, i+1, j+1, k+zi)) * dy
		fy[zi] = hermiteCubic(t[1], fx[0][zi], d0, fx[1][zi], d1)
	}

	// Close along log z with bilinearly blended corner derivatives.
	d0 := bilerp01(t[0], t[1],
		s.deriv(2, i, j, k), s.deriv(2, i+1, j, k),
		s.deriv(2, i, j+1, k), s.deriv(2, i+1, j+1, k)) * dz
	d1 := bilerp01(t[0], t[1],
		s.deriv(2, i, j, k+1), s.deriv(2, i+1, j, k+1),
		s.deriv(2, i, j+1, k+1), s.deriv(2, i+1, j+1, k+1)) * dz
	return hermiteCubic(t[2], fy[0], d0, fy[1], d1), nil
}

func lerp01(t, a, b float64) float64 {
	return a + t*(b-a)
}

// bilerp01 blends four corner values, u along the first axis and v along
// the second.
func bilerp01(u, v, f00, f10, f01, f11 float64) float64 {
	return lerp01(v, lerp01(u, f00, f10), lerp01(u, f01, f11))
}

func (s *logTricubic) AllowExtrapolate() bool { return false }
