package lhapdf

import (
	"fmt"

	"github.com/robert-malhotra/go-neopdf/neopdf"
)

// gridArray assembles a member's parsed subgrids into a collinear grid
// array: nucleon number, coupling and transverse momentum are degenerate
// single-knot axes.
func gridArray(md *MemberData) (*neopdf.GridArray, error) {
	ga, err := neopdf.NewGridArray(md.Flavors)
	if err != nil {
		return nil, err
	}
	for i, sd := range md.Subgrids {
		sg, err := neopdf.NewSubGrid(
			[]float64{1}, []float64{0}, []float64{0},
			sd.Xs, sd.Q2s, len(md.Flavors), sd.Values)
		if err != nil {
			return nil, fmt.Errorf("subgrid %d: %w", i, err)
		}
		if err := ga.AppendSubgrid(sg); err != nil {
			return nil, fmt.Errorf("subgrid %d: %w", i, err)
		}
	}
	return ga, nil
}

// Convert reads every member of an LHAPDF set directory and writes the set
// as one neopdf container at outPath.
func Convert(s *Set, outPath string) error {
	info, err := s.Info()
	if err != nil {
		return err
	}
	meta, err := info.MetaData()
	if err != nil {
		return err
	}

	cw := neopdf.NewCollectionWriter(meta)
	for i := 0; i < int(info.NumMembers); i++ {
		md, err := s.Member(i)
		if err != nil {
			return fmt.Errorf("member %d: %w", i, err)
		}
		ga, err := gridArray(md)
		if err != nil {
			return fmt.Errorf("member %d: %w", i, err)
		}
		if err := cw.Add(ga); err != nil {
			return fmt.Errorf("member %d: %w", i, err)
		}
	}
	return cw.Compress(outPath)
}

// LoadMember reads one member of a set directory directly, without going
// through a container file.
func LoadMember(s *Set, i int, opts ...neopdf.Option) (*neopdf.PDF, error) {
	info, err := s.Info()
	if err != nil {
		return nil, err
	}
	meta, err := info.MetaData()
	if err != nil {
		return nil, err
	}
	md, err := s.Member(i)
	if err != nil {
		return nil, err
	}
	ga, err := gridArray(md)
	if err != nil {
		return nil, err
	}
	return neopdf.NewPDF(meta, ga, opts...)
}
