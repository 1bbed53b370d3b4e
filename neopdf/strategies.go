package neopdf

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-neopdf/internal/interp"
)

// strategyKind resolves the interpolator family declared in the metadata to
// the concrete strategy for a subgrid of the given rank. Families specify
// the behavior on their natural rank and fall back to a multilinear scheme
// where no specialization exists.
func strategyKind(kind InterpolatorKind, rank int) (interp.Kind, error) {
	switch kind {
	case InterpolatorLogBicubic, InterpolatorLogTricubic:
		switch rank {
		case 1:
			return interp.KindCubic, nil
		case 2:
			return interp.KindLogBicubic, nil
		case 3:
			return interp.KindLogTricubic, nil
		default:
			return interp.KindNDLinear, nil
		}
	case InterpolatorBilinear:
		switch rank {
		case 1:
			return interp.KindLinear, nil
		case 2:
			return interp.KindBilinear, nil
		default:
			return interp.KindNDLinear, nil
		}
	case InterpolatorLogBilinear:
		switch rank {
		case 1:
			return interp.KindLinear, nil
		case 2:
			return interp.KindLogBilinear, nil
		default:
			return interp.KindNDLinear, nil
		}
	case InterpolatorChebyshev:
		switch rank {
		case 1, 3:
			return interp.KindChebyshev, nil
		case 2:
			return interp.KindLogBicubic, nil
		default:
			return interp.KindNDLinear, nil
		}
	case InterpolatorNDLinear:
		return interp.KindNDLinear, nil
	default:
		return 0, fmt.Errorf("%w: interpolator kind %d", ErrInvalidQuery, uint8(kind))
	}
}

// activeCoords returns the knot arrays of the non-degenerate axes in
// canonical axis order.
func (sg *SubGrid) activeCoords() [][]float64 {
	coords := make([][]float64, 0, sg.Rank())
	for _, axis := range sg.axes {
		if !axis.Degenerate() {
			coords = append(coords, []float64(axis))
		}
	}
	return coords
}

// flavorValues extracts the contiguous per-flavor value buffer of a subgrid.
// Degenerate axes have length one, so the flattened order over all axes is
// the flattened order over the active axes.
func (sg *SubGrid) flavorValues(fi int) []float64 {
	n := len(sg.values) / sg.nflav
	out := make([]float64, n)
	for j := 0; j < n; j++ {
		out[j] = sg.values[j*sg.nflav+fi]
	}
	return out
}

// buildStrategies constructs the per-(subgrid, flavor) strategy table for a
// member. Construction precomputes coefficients and log knots, so queries
// never pay for dispatch or validation of the grid itself.
func buildStrategies(ga *GridArray, kind InterpolatorKind) ([][]interp.Strategy, error) {
	table := make([][]interp.Strategy, ga.NumSubgrids())
	for si := 0; si < ga.NumSubgrids(); si++ {
		sg := ga.Subgrid(si)
		ik, err := strategyKind(kind, sg.Rank())
		if err != nil {
			return nil, err
		}
		coords := sg.activeCoords()
		row := make([]interp.Strategy, sg.nflav)
		for fi := 0; fi < sg.nflav; fi++ {
			g, err := interp.NewGrid(coords, sg.flavorValues(fi))
			if err != nil {
				return nil, fmt.Errorf("subgrid %d flavor %d: %w", si, fi, mapInterpErr(err))
			}
			s, err := interp.New(ik, g)
			if err != nil {
				return nil, fmt.Errorf("subgrid %d flavor %d: %w", si, fi, mapInterpErr(err))
			}
			row[fi] = s
		}
		table[si] = row
	}
	return table, nil
}

// mapInterpErr translates internal interpolation errors into the package's
// error taxonomy.
func mapInterpErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, interp.ErrOutOfRange):
		return fmt.Errorf("%w: %v", ErrOutOfRange, err)
	case errors.Is(err, interp.ErrInvalidGrid):
		return fmt.Errorf("%w: %v", ErrInvalidAxis, err)
	case errors.Is(err, interp.ErrNonPositive), errors.Is(err, interp.ErrInvalidPoint):
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	default:
		return err
	}
}
