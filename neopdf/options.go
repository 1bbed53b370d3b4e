package neopdf

// ExtrapolationPolicy controls what happens when a query point falls outside
// every subgrid of a member.
type ExtrapolationPolicy uint8

const (
	// ExtrapolateForbid rejects out-of-range queries with ErrOutOfRange.
	ExtrapolateForbid ExtrapolationPolicy = iota
	// ExtrapolateNearest clamps the point onto the boundary of the nearest
	// subgrid and evaluates there, so the result is continuous at the grid
	// edge.
	ExtrapolateNearest
)

// ForcePositivePolicy controls clipping of interpolated values. Cubic bases
// can undershoot zero near steep gradients even when every tabulated value
// is non-negative.
type ForcePositivePolicy uint8

const (
	// NoClipping returns interpolated values unchanged.
	NoClipping ForcePositivePolicy = iota
	// ClipNegative maps negative results to zero.
	ClipNegative
	// ClipSmall maps results below 1e-10 up to 1e-10.
	ClipSmall
)

const clipSmallFloor = 1e-10

func (p ForcePositivePolicy) apply(v float64) float64 {
	switch p {
	case ClipNegative:
		if v < 0 {
			return 0
		}
	case ClipSmall:
		if v < clipSmallFloor {
			return clipSmallFloor
		}
	}
	return v
}

// Option configures a PDF member at load time.
type Option func(*PDF)

// WithExtrapolation sets the out-of-range policy.
func WithExtrapolation(p ExtrapolationPolicy) Option {
	return func(pdf *PDF) { pdf.extrapolate = p }
}

// WithForcePositive sets the value clipping policy.
func WithForcePositive(p ForcePositivePolicy) Option {
	return func(pdf *PDF) { pdf.forcePositive = p }
}
