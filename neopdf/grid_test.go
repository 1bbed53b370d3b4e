package neopdf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// collinearSubgrid builds a subgrid over the given x and Q2 knots with
// degenerate nucleon, coupling and kT axes, filling values from f.
func collinearSubgrid(t *testing.T, xs, q2s []float64, nflav int, f func(x, q2 float64, fi int) float64) *SubGrid {
	t.Helper()
	values := make([]float64, 0, len(xs)*len(q2s)*nflav)
	for _, x := range xs {
		for _, q2 := range q2s {
			for fi := 0; fi < nflav; fi++ {
				values = append(values, f(x, q2, fi))
			}
		}
	}
	sg, err := NewSubGrid([]float64{1}, []float64{0.118}, []float64{0}, xs, q2s, nflav, values)
	require.NoError(t, err)
	return sg
}

func TestAxisValidate(t *testing.T) {
	require.NoError(t, Axis{1, 2, 3}.Validate())
	require.NoError(t, Axis{5}.Validate())
	require.ErrorIs(t, Axis{}.Validate(), ErrInvalidAxis)
	require.ErrorIs(t, Axis{1, 1, 2}.Validate(), ErrInvalidAxis)
	require.ErrorIs(t, Axis{3, 2, 1}.Validate(), ErrInvalidAxis)
}

func TestNewSubGridValidation(t *testing.T) {
	xs := []float64{0.1, 0.5, 1.0}
	q2s := []float64{1.0, 10.0}

	_, err := NewSubGrid([]float64{1}, []float64{0.118}, []float64{0}, xs, q2s, 1, make([]float64, 6))
	require.NoError(t, err)

	_, err = NewSubGrid([]float64{1}, []float64{0.118}, []float64{0}, xs, q2s, 1, make([]float64, 5))
	require.ErrorIs(t, err, ErrInvalidAxis)

	_, err = NewSubGrid([]float64{1}, []float64{0.118}, []float64{0}, []float64{0.5}, q2s, 1, make([]float64, 2))
	require.ErrorIs(t, err, ErrInvalidAxis)

	_, err = NewSubGrid([]float64{1}, []float64{0.118}, []float64{0}, xs, []float64{10}, 1, make([]float64, 3))
	require.ErrorIs(t, err, ErrInvalidAxis)

	_, err = NewSubGrid([]float64{1}, []float64{0.118}, []float64{0}, xs, q2s, 0, nil)
	require.ErrorIs(t, err, ErrInvalidAxis)
}

func TestSubGridRankAndLookup(t *testing.T) {
	sg := collinearSubgrid(t, []float64{0.1, 0.5, 1.0}, []float64{1.0, 10.0}, 2,
		func(x, q2 float64, fi int) float64 { return x*q2 + float64(fi) })

	require.Equal(t, 2, sg.Rank())
	require.Equal(t, 2, sg.NumFlavors())
	require.Equal(t, 0.1*1.0, sg.XfAt(0, 0, 0, 0, 0, 0))
	require.Equal(t, 0.5*10.0+1.0, sg.XfAt(0, 0, 0, 1, 1, 1))
	require.Equal(t, 1.0*10.0, sg.XfAt(0, 0, 0, 2, 1, 0))

	lo, hi := sg.Bounds(axisX)
	require.Equal(t, 0.1, lo)
	require.Equal(t, 1.0, hi)
}

func TestGridArrayAppend(t *testing.T) {
	ga, err := NewGridArray([]int32{21, 1})
	require.NoError(t, err)

	sg := collinearSubgrid(t, []float64{0.1, 1.0}, []float64{1.0, 10.0}, 2,
		func(x, q2 float64, fi int) float64 { return x })
	require.NoError(t, ga.AppendSubgrid(sg))

	wrongFlavors := collinearSubgrid(t, []float64{0.1, 1.0}, []float64{1.0, 10.0}, 3,
		func(x, q2 float64, fi int) float64 { return x })
	require.ErrorIs(t, ga.AppendSubgrid(wrongFlavors), ErrFlavorMismatch)

	kt, err := NewSubGrid([]float64{1}, []float64{0.118}, []float64{0, 1},
		[]float64{0.1, 1.0}, []float64{1.0, 10.0}, 2, make([]float64, 16))
	require.NoError(t, err)
	require.ErrorIs(t, ga.AppendSubgrid(kt), ErrInvalidAxis)

	_, err = NewGridArray(nil)
	require.ErrorIs(t, err, ErrFlavorMismatch)
}

func TestFlavorIndex(t *testing.T) {
	ga, err := NewGridArray([]int32{-1, 21, 1, 2})
	require.NoError(t, err)

	i, err := ga.FlavorIndex(21)
	require.NoError(t, err)
	require.Equal(t, 1, i)

	// 0 aliases the gluon.
	i, err = ga.FlavorIndex(0)
	require.NoError(t, err)
	require.Equal(t, 1, i)

	i, err = ga.FlavorIndex(-1)
	require.NoError(t, err)
	require.Equal(t, 0, i)

	_, err = ga.FlavorIndex(5)
	require.ErrorIs(t, err, ErrUnknownFlavor)
}

func TestFindSubgridBoundaryOwner(t *testing.T) {
	ga, err := NewGridArray([]int32{21})
	require.NoError(t, err)

	xs := []float64{1e-3, 1e-2, 1e-1, 1.0}
	lower := collinearSubgrid(t, xs, []float64{2.72, 4.0, 7.0, 10.0}, 1,
		func(x, q2 float64, fi int) float64 { return 1 })
	upper := collinearSubgrid(t, xs, []float64{10.0, 20.0, 50.0, 100.0}, 1,
		func(x, q2 float64, fi int) float64 { return 1 })
	require.NoError(t, ga.AppendSubgrid(lower))
	require.NoError(t, ga.AppendSubgrid(upper))

	point := [numAxes]float64{1, 0.118, 0, 1e-2, 10.0}
	si, ok := ga.findSubgrid(point)
	require.True(t, ok)
	require.Equal(t, 0, si, "shared boundary knot belongs to the lower subgrid")

	point[axisQ2] = 10.5
	si, ok = ga.findSubgrid(point)
	require.True(t, ok)
	require.Equal(t, 1, si)

	point[axisQ2] = 150.0
	_, ok = ga.findSubgrid(point)
	require.False(t, ok)
	require.Equal(t, 1, ga.nearestSubgrid(point))

	point[axisQ2] = 1.0
	require.Equal(t, 0, ga.nearestSubgrid(point))
}
