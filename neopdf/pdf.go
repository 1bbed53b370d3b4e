package neopdf

import (
	"fmt"

	"github.com/robert-malhotra/go-neopdf/internal/interp"
)

// PDF is one loaded member of a set: its grid data, the shared metadata,
// and the precomputed interpolation strategies. A PDF is safe for
// concurrent queries; the force-positive policy is the only mutable piece
// of state and must be set before concurrent use begins.
type PDF struct {
	meta *MetaData
	grid *GridArray

	strategies    [][]interp.Strategy
	extrapolate   ExtrapolationPolicy
	forcePositive ForcePositivePolicy

	alphas AlphaS
}

// NewPDF binds a grid array to its set metadata and precomputes the
// interpolation strategies for every subgrid and flavor.
func NewPDF(meta *MetaData, grid *GridArray, opts ...Option) (*PDF, error) {
	if grid.NumSubgrids() == 0 {
		return nil, fmt.Errorf("%w: grid array has no subgrids", ErrEmptyCollection)
	}
	strategies, err := buildStrategies(grid, meta.InterpolatorKind)
	if err != nil {
		return nil, err
	}
	alphas, err := newAlphaS(meta)
	if err != nil {
		return nil, err
	}
	p := &PDF{
		meta:       meta,
		grid:       grid,
		strategies: strategies,
		alphas:     alphas,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// MetaData returns the shared set metadata.
func (p *PDF) MetaData() *MetaData { return p.meta }

// GridArray returns the underlying grid data.
func (p *PDF) GridArray() *GridArray { return p.grid }

// Flavors returns the flavor identifiers in storage order.
func (p *PDF) Flavors() []int32 { return p.grid.Flavors() }

// NumSubgrids returns the number of subgrids.
func (p *PDF) NumSubgrids() int { return p.grid.NumSubgrids() }

// Subgrid returns the i-th subgrid for introspection.
func (p *PDF) Subgrid(i int) *SubGrid { return p.grid.Subgrid(i) }

// SetForcePositive changes the value clipping policy. It affects only the
// emitted value, never subgrid selection or the interpolation arithmetic.
// Not safe to call concurrently with queries.
func (p *PDF) SetForcePositive(policy ForcePositivePolicy) {
	p.forcePositive = policy
}

// fullPoint expands a query of the non-degenerate coordinates into the full
// five-axis point, filling degenerate axes from their single knot.
func (p *PDF) fullPoint(coords []float64) ([numAxes]float64, error) {
	var point [numAxes]float64
	first := p.grid.Subgrid(0)
	next := 0
	for i, axis := range first.axes {
		if axis.Degenerate() {
			point[i] = axis[0]
			continue
		}
		if next >= len(coords) {
			return point, fmt.Errorf("%w: got %d coordinates, member has rank %d",
				ErrInvalidQuery, len(coords), first.Rank())
		}
		point[i] = coords[next]
		next++
	}
	if next != len(coords) {
		return point, fmt.Errorf("%w: got %d coordinates, member has rank %d",
			ErrInvalidQuery, len(coords), first.Rank())
	}
	return point, nil
}

// activePoint compresses a full five-axis point back to the non-degenerate
// coordinates of a subgrid, in canonical axis order.
func (sg *SubGrid) activePoint(point [numAxes]float64) []float64 {
	out := make([]float64, 0, sg.Rank())
	for i, axis := range sg.axes {
		if !axis.Degenerate() {
			out = append(out, point[i])
		}
	}
	return out
}

// knotMultiIndex returns the per-axis knot indices if the point lies
// exactly on a knot of every axis.
func (sg *SubGrid) knotMultiIndex(point [numAxes]float64) ([numAxes]int, bool) {
	var idx [numAxes]int
	for i, axis := range sg.axes {
		ki := axis.knotIndex(point[i])
		if ki < 0 {
			return idx, false
		}
		idx[i] = ki
	}
	return idx, true
}

// FindSubgrid resolves the subgrid that would serve a query at the given
// non-degenerate coordinates. A point on a shared boundary resolves to the
// lower-side subgrid.
func (p *PDF) FindSubgrid(coords []float64) (*SubGrid, error) {
	point, err := p.fullPoint(coords)
	if err != nil {
		return nil, err
	}
	si, ok := p.grid.findSubgrid(point)
	if !ok {
		if p.extrapolate == ExtrapolateForbid {
			return nil, fmt.Errorf("%w: point outside all subgrids", ErrOutOfRange)
		}
		si = p.grid.nearestSubgrid(point)
	}
	return p.grid.Subgrid(si), nil
}

// Evaluate interpolates the distribution for one flavor at the given
// non-degenerate coordinates in canonical axis order.
func (p *PDF) Evaluate(pid int32, coords []float64) (float64, error) {
	fi, err := p.grid.FlavorIndex(pid)
	if err != nil {
		return 0, err
	}
	point, err := p.fullPoint(coords)
	if err != nil {
		return 0, err
	}

	si, ok := p.grid.findSubgrid(point)
	if !ok {
		if p.extrapolate == ExtrapolateForbid {
			return 0, fmt.Errorf("%w: point outside all subgrids", ErrOutOfRange)
		}
		si = p.grid.nearestSubgrid(point)
		point = p.grid.Subgrid(si).clamp(point)
	}
	sg := p.grid.Subgrid(si)

	// Queries landing exactly on a knot tuple return the stored value
	// bit for bit.
	if idx, exact := sg.knotMultiIndex(point); exact {
		v := sg.XfAt(idx[axisNucleons], idx[axisAlphaS], idx[axisKT], idx[axisX], idx[axisQ2], fi)
		return p.forcePositive.apply(v), nil
	}

	v, err := p.strategies[si][fi].Interpolate(sg.activePoint(point))
	if err != nil {
		return 0, mapInterpErr(err)
	}
	return p.forcePositive.apply(v), nil
}

// XfxQ2 evaluates x·f(x, Q2) for one flavor of a collinear member whose
// only varying axes are x and Q2.
func (p *PDF) XfxQ2(pid int32, x, q2 float64) (float64, error) {
	first := p.grid.Subgrid(0)
	if first.Rank() != 2 || first.X().Degenerate() || first.Q2().Degenerate() {
		return 0, fmt.Errorf("%w: member is not a rank-2 (x, Q2) grid", ErrInvalidQuery)
	}
	return p.Evaluate(pid, []float64{x, q2})
}

// XfxQ2s evaluates XfxQ2 for every combination of the given flavors and
// (x, Q2) pairs. The result is indexed flavor-major: result[i*len(xs)+j]
// holds flavor pids[i] at (xs[j], q2s[j]).
func (p *PDF) XfxQ2s(pids []int32, xs, q2s []float64) ([]float64, error) {
	if len(xs) != len(q2s) {
		return nil, fmt.Errorf("%w: %d x values but %d Q2 values", ErrInvalidQuery, len(xs), len(q2s))
	}
	out := make([]float64, len(pids)*len(xs))
	for i, pid := range pids {
		for j := range xs {
			v, err := p.XfxQ2(pid, xs[j], q2s[j])
			if err != nil {
				return nil, err
			}
			out[i*len(xs)+j] = v
		}
	}
	return out, nil
}

// AlphasQ2 evaluates the strong coupling at the given scale squared, using
// the mode the set metadata declares.
func (p *PDF) AlphasQ2(q2 float64) (float64, error) {
	return p.alphas.AlphaSQ2(q2)
}
