package lhapdf

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// SubgridData is one "---"-delimited block of a .dat file: x knots, Q2
// knots (squared on ingest; the file stores Q), and the flattened values
// with the flavor index varying fastest.
type SubgridData struct {
	Xs     []float64
	Q2s    []float64
	Values []float64
}

// MemberData is the parsed content of one member's .dat file.
type MemberData struct {
	Subgrids []SubgridData
	Flavors  []int32
}

// ReadMemberData parses a .dat grid file. The first block is the header
// and is skipped; every following block carries an x-knot line, a Q-knot
// line, a flavor line and then one value row per (x, Q) pair.
func ReadMemberData(path string) (*MemberData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	md := &MemberData{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1<<16), 1<<24)

	inHeader := true
	var block []string
	flush := func() error {
		if inHeader || len(block) == 0 {
			inHeader = false
			block = block[:0]
			return nil
		}
		sg, flavors, err := parseBlock(block, len(md.Subgrids))
		if err != nil {
			return err
		}
		if md.Flavors == nil {
			md.Flavors = flavors
		} else if len(flavors) != len(md.Flavors) {
			return fmt.Errorf("%w: subgrid %d has %d flavors, first subgrid has %d",
				ErrMalformedData, len(md.Subgrids), len(flavors), len(md.Flavors))
		}
		md.Subgrids = append(md.Subgrids, *sg)
		block = block[:0]
		return nil
	}

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "---" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		if line != "" {
			block = append(block, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}

	if len(md.Subgrids) == 0 {
		return nil, fmt.Errorf("%w: no subgrid blocks", ErrMalformedData)
	}
	return md, nil
}

func parseBlock(lines []string, index int) (*SubgridData, []int32, error) {
	if len(lines) < 4 {
		return nil, nil, fmt.Errorf("%w: subgrid %d has %d lines, need knots, flavors and values",
			ErrMalformedData, index, len(lines))
	}
	xs, err := parseFloats(lines[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: subgrid %d x knots: %v", ErrMalformedData, index, err)
	}
	qs, err := parseFloats(lines[1])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: subgrid %d Q knots: %v", ErrMalformedData, index, err)
	}
	q2s := make([]float64, len(qs))
	for i, q := range qs {
		q2s[i] = q * q
	}
	flavors, err := parseInts(lines[2])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: subgrid %d flavors: %v", ErrMalformedData, index, err)
	}

	values := make([]float64, 0, len(xs)*len(q2s)*len(flavors))
	for _, line := range lines[3:] {
		row, err := parseFloats(line)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: subgrid %d values: %v", ErrMalformedData, index, err)
		}
		values = append(values, row...)
	}
	if want := len(xs) * len(q2s) * len(flavors); len(values) != want {
		return nil, nil, fmt.Errorf("%w: subgrid %d has %d values, knots imply %d",
			ErrMalformedData, index, len(values), want)
	}
	return &SubgridData{Xs: xs, Q2s: q2s, Values: values}, flavors, nil
}

func parseFloats(line string) ([]float64, error) {
	fields := strings.Fields(line)
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func parseInts(line string) ([]int32, error) {
	fields := strings.Fields(line)
	out := make([]int32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(f, 10, 32)
		if err != nil {
			return nil, err
		}
		out[i] = int32(v)
	}
	return out, nil
}
