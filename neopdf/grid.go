package neopdf

import "fmt"

// The five physical axes of a subgrid, in storage order.
const (
	axisNucleons = iota
	axisAlphaS
	axisKT
	axisX
	axisQ2
	numAxes
)

var axisNames = [numAxes]string{"A", "alphas", "kT", "x", "Q2"}

// Axis is the ordered, strictly-increasing knot array of one physical
// dimension. A single-knot axis denotes no dependence on that dimension,
// e.g. nucleon number fixed at 1 for a free-proton set.
type Axis []float64

// Validate checks that the axis is non-empty and strictly increasing.
func (a Axis) Validate() error {
	if len(a) == 0 {
		return fmt.Errorf("%w: empty knot array", ErrInvalidAxis)
	}
	for i := 1; i < len(a); i++ {
		if a[i] <= a[i-1] {
			return fmt.Errorf("%w: knots not strictly increasing at index %d (%g >= %g)",
				ErrInvalidAxis, i, a[i-1], a[i])
		}
	}
	return nil
}

// Min returns the lowest knot.
func (a Axis) Min() float64 { return a[0] }

// Max returns the highest knot.
func (a Axis) Max() float64 { return a[len(a)-1] }

// Degenerate reports whether the axis has a single knot, i.e. carries no
// dependence.
func (a Axis) Degenerate() bool { return len(a) == 1 }

// contains reports whether v lies within the closed knot range.
func (a Axis) contains(v float64) bool {
	return v >= a[0] && v <= a[len(a)-1]
}

// knotIndex returns the index of the knot exactly equal to v, or -1.
func (a Axis) knotIndex(v float64) int {
	lo, hi := 0, len(a)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		switch {
		case a[mid] == v:
			return mid
		case a[mid] < v:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return -1
}

// SubGrid is one contiguous hyper-rectangular tile of tabulated values: up
// to five axes (nucleon number, coupling, transverse momentum, momentum
// fraction, scale squared) plus a flavor dimension. Values are stored
// flattened in axis order with the flavor index varying fastest.
type SubGrid struct {
	axes    [numAxes]Axis
	nflav   int
	values  []float64
	strides [numAxes]int
}

// NewSubGrid builds a subgrid from its knot arrays and flattened values.
// The x and Q2 axes must have at least two knots; the remaining axes may be
// degenerate. The value buffer length must equal the product of the axis
// lengths times the flavor count.
func NewSubGrid(nucleons, alphas, kts, xs, q2s []float64, nflav int, values []float64) (*SubGrid, error) {
	sg := &SubGrid{
		axes:   [numAxes]Axis{Axis(nucleons), Axis(alphas), Axis(kts), Axis(xs), Axis(q2s)},
		nflav:  nflav,
		values: values,
	}
	for i, axis := range sg.axes {
		if err := axis.Validate(); err != nil {
			return nil, fmt.Errorf("%s axis: %w", axisNames[i], err)
		}
	}
	for _, i := range []int{axisX, axisQ2} {
		if sg.axes[i].Degenerate() {
			return nil, fmt.Errorf("%w: %s axis needs at least 2 knots", ErrInvalidAxis, axisNames[i])
		}
	}
	if nflav < 1 {
		return nil, fmt.Errorf("%w: flavor count %d", ErrInvalidAxis, nflav)
	}
	want := nflav
	for _, axis := range sg.axes {
		want *= len(axis)
	}
	if len(values) != want {
		return nil, fmt.Errorf("%w: have %d values, axes imply %d", ErrInvalidAxis, len(values), want)
	}
	stride := nflav
	for i := numAxes - 1; i >= 0; i-- {
		sg.strides[i] = stride
		stride *= len(sg.axes[i])
	}
	return sg, nil
}

// Nucleons returns the nucleon-number knots.
func (sg *SubGrid) Nucleons() Axis { return sg.axes[axisNucleons] }

// AlphaS returns the coupling-value knots.
func (sg *SubGrid) AlphaS() Axis { return sg.axes[axisAlphaS] }

// KT returns the transverse-momentum knots.
func (sg *SubGrid) KT() Axis { return sg.axes[axisKT] }

// X returns the momentum-fraction knots.
func (sg *SubGrid) X() Axis { return sg.axes[axisX] }

// Q2 returns the scale-squared knots.
func (sg *SubGrid) Q2() Axis { return sg.axes[axisQ2] }

// NumFlavors returns the flavor count.
func (sg *SubGrid) NumFlavors() int { return sg.nflav }

// Rank returns the number of non-degenerate axes.
func (sg *SubGrid) Rank() int {
	rank := 0
	for _, axis := range sg.axes {
		if !axis.Degenerate() {
			rank++
		}
	}
	return rank
}

// Bounds returns the [min, max] range of the given axis.
func (sg *SubGrid) Bounds(axis int) (float64, float64) {
	a := sg.axes[axis]
	return a.Min(), a.Max()
}

// XfAt returns the tabulated value at a knot multi-index, with no
// interpolation.
func (sg *SubGrid) XfAt(iNucleon, iAlphaS, iKT, iX, iQ2, iFlavor int) float64 {
	off := iNucleon*sg.strides[axisNucleons] +
		iAlphaS*sg.strides[axisAlphaS] +
		iKT*sg.strides[axisKT] +
		iX*sg.strides[axisX] +
		iQ2*sg.strides[axisQ2] +
		iFlavor
	return sg.values[off]
}

// contains reports whether the full five-coordinate point lies inside the
// closed axis ranges of this subgrid.
func (sg *SubGrid) contains(point [numAxes]float64) bool {
	for i, axis := range sg.axes {
		if !axis.Degenerate() && !axis.contains(point[i]) {
			return false
		}
	}
	return true
}

// signature returns the degeneracy pattern of the axes; all subgrids of a
// GridArray must agree on it.
func (sg *SubGrid) signature() [numAxes]bool {
	var sig [numAxes]bool
	for i, axis := range sg.axes {
		sig[i] = !axis.Degenerate()
	}
	return sig
}

// GluonPID is the PDG identifier of the gluon. Flavor 0 is accepted as an
// alias for it, for compatibility with external conventions.
const GluonPID int32 = 21

// GridArray owns an ordered collection of subgrids and the flavor
// identifiers common to all of them. It is mutated only by AppendSubgrid
// during construction and is safe for concurrent reads afterwards.
type GridArray struct {
	flavors  []int32
	subgrids []*SubGrid
}

// NewGridArray creates an empty grid array with the given flavor list.
func NewGridArray(flavors []int32) (*GridArray, error) {
	if len(flavors) == 0 {
		return nil, fmt.Errorf("%w: empty flavor list", ErrFlavorMismatch)
	}
	return &GridArray{flavors: flavors}, nil
}

// AppendSubgrid adds a subgrid. Its flavor count must match the flavor
// list, and its axis degeneracy pattern must match the subgrids already
// present.
func (ga *GridArray) AppendSubgrid(sg *SubGrid) error {
	if sg.nflav != len(ga.flavors) {
		return fmt.Errorf("%w: subgrid has %d flavors, grid array has %d",
			ErrFlavorMismatch, sg.nflav, len(ga.flavors))
	}
	if len(ga.subgrids) > 0 && sg.signature() != ga.subgrids[0].signature() {
		return fmt.Errorf("%w: subgrid axis pattern differs from the first subgrid", ErrInvalidAxis)
	}
	ga.subgrids = append(ga.subgrids, sg)
	return nil
}

// Flavors returns the flavor identifier list in storage order.
func (ga *GridArray) Flavors() []int32 { return ga.flavors }

// NumSubgrids returns the number of subgrids.
func (ga *GridArray) NumSubgrids() int { return len(ga.subgrids) }

// Subgrid returns the i-th subgrid.
func (ga *GridArray) Subgrid(i int) *SubGrid { return ga.subgrids[i] }

// FlavorIndex maps a flavor identifier to its storage index. Identifier 0
// aliases the gluon (21).
func (ga *GridArray) FlavorIndex(pid int32) (int, error) {
	if pid == 0 {
		pid = GluonPID
	}
	for i, f := range ga.flavors {
		if f == pid {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %d", ErrUnknownFlavor, pid)
}

// findSubgrid returns the index of the subgrid containing the point.
// Subgrids are scanned in order, so a point exactly on a boundary shared by
// two adjacent subgrids resolves to the lower one: each boundary knot has a
// single deterministic owner.
func (ga *GridArray) findSubgrid(point [numAxes]float64) (int, bool) {
	for i, sg := range ga.subgrids {
		if sg.contains(point) {
			return i, true
		}
	}
	return 0, false
}

// boundaryDistanceSq returns the squared Euclidean distance, in coordinates
// normalized by each axis span, from the point to the subgrid's boundary.
// Zero means the point is inside. Nearest-subgrid selection only compares
// distances, so the square root is never taken.
func (sg *SubGrid) boundaryDistanceSq(point [numAxes]float64) float64 {
	var sum float64
	for i, axis := range sg.axes {
		if axis.Degenerate() {
			continue
		}
		span := axis.Max() - axis.Min()
		var d float64
		switch {
		case point[i] < axis.Min():
			d = (axis.Min() - point[i]) / span
		case point[i] > axis.Max():
			d = (point[i] - axis.Max()) / span
		}
		sum += d * d
	}
	return sum
}

// nearestSubgrid returns the subgrid with the smallest normalized boundary
// distance; ties resolve to the lower index.
func (ga *GridArray) nearestSubgrid(point [numAxes]float64) int {
	best := 0
	bestDist := ga.subgrids[0].boundaryDistanceSq(point)
	for i := 1; i < len(ga.subgrids); i++ {
		if d := ga.subgrids[i].boundaryDistanceSq(point); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// clamp returns the point with every coordinate clamped into the subgrid's
// axis ranges.
func (sg *SubGrid) clamp(point [numAxes]float64) [numAxes]float64 {
	for i, axis := range sg.axes {
		if axis.Degenerate() {
			continue
		}
		if point[i] < axis.Min() {
			point[i] = axis.Min()
		} else if point[i] > axis.Max() {
			point[i] = axis.Max()
		}
	}
	return point
}
