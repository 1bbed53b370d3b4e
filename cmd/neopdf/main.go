// Command neopdf inspects, evaluates and builds neopdf container files.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/robert-malhotra/go-neopdf/lhapdf"
	"github.com/robert-malhotra/go-neopdf/neopdf"
)

func main() {
	kingpin.CommandLine.HelpFlag.Short('h')
	kingpin.CommandLine.Help = "Inspect, evaluate and build neopdf containers."

	infoCmd := kingpin.Command("info", "print the metadata and layout of a container")
	infoPath := infoCmd.Arg("file", "container file").Required().ExistingFile()

	evalCmd := kingpin.Command("evaluate", "interpolate one flavor at (x, Q2)")
	evalPath := evalCmd.Arg("file", "container file").Required().ExistingFile()
	evalPID := evalCmd.Arg("pid", "flavor identifier (0 aliases the gluon)").Required().Int()
	evalX := evalCmd.Arg("x", "momentum fraction").Required().Float64()
	evalQ2 := evalCmd.Arg("q2", "scale squared").Required().Float64()
	evalMember := evalCmd.Flag("member", "member index").Default("0").Int()
	evalNearest := evalCmd.Flag("nearest", "clamp out-of-range points to the nearest subgrid").Bool()

	alphasCmd := kingpin.Command("alphas", "evaluate the strong coupling at Q2")
	alphasPath := alphasCmd.Arg("file", "container file").Required().ExistingFile()
	alphasQ2 := alphasCmd.Arg("q2", "scale squared").Required().Float64()

	convertCmd := kingpin.Command("convert", "convert an LHAPDF set directory into a container")
	convertDir := convertCmd.Arg("set-dir", "LHAPDF set directory").Required().ExistingDir()
	convertOut := convertCmd.Arg("output", "output container path").Required().String()

	var err error
	switch kingpin.Parse() {
	case "info":
		err = runInfo(*infoPath)
	case "evaluate":
		err = runEvaluate(*evalPath, *evalMember, int32(*evalPID), *evalX, *evalQ2, *evalNearest)
	case "alphas":
		err = runAlphas(*alphasPath, *alphasQ2)
	case "convert":
		err = runConvert(*convertDir, *convertOut)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runInfo(path string) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	rd, err := neopdf.Open(path)
	if err != nil {
		return err
	}
	defer rd.Close()

	m := rd.MetaData()
	fmt.Printf("%s (%s)\n", path, humanize.Bytes(uint64(st.Size())))
	fmt.Printf("  SetDesc:       %s\n", m.SetDesc)
	fmt.Printf("  SetIndex:      %d\n", m.SetIndex)
	fmt.Printf("  Members:       %d\n", rd.NumMembers())
	fmt.Printf("  SetType:       %s\n", m.SetType)
	fmt.Printf("  Interpolator:  %s\n", m.InterpolatorKind)
	fmt.Printf("  ErrorType:     %s\n", m.ErrorType)
	fmt.Printf("  HadronPID:     %d\n", m.HadronPID)
	fmt.Printf("  x range:       [%g, %g]\n", m.XMin, m.XMax)
	fmt.Printf("  Q range:       [%g, %g]\n", m.QMin, m.QMax)
	if m.KTMax > 0 {
		fmt.Printf("  kT range:      [%g, %g]\n", m.KTMin, m.KTMax)
	}
	fmt.Printf("  Flavors:       %s\n", joinInt32(m.Flavors))

	ga, err := rd.Member(0)
	if err != nil {
		return err
	}
	fmt.Printf("  Subgrids (member 0):\n")
	for i := 0; i < ga.NumSubgrids(); i++ {
		sg := ga.Subgrid(i)
		fmt.Printf("    %2d: rank %d, %d x knots [%g, %g], %d Q2 knots [%g, %g]\n",
			i, sg.Rank(),
			len(sg.X()), sg.X().Min(), sg.X().Max(),
			len(sg.Q2()), sg.Q2().Min(), sg.Q2().Max())
	}
	return nil
}

func runEvaluate(path string, member int, pid int32, x, q2 float64, nearest bool) error {
	rd, err := neopdf.Open(path)
	if err != nil {
		return err
	}
	defer rd.Close()

	var opts []neopdf.Option
	if nearest {
		opts = append(opts, neopdf.WithExtrapolation(neopdf.ExtrapolateNearest))
	}
	pdf, err := rd.LoadMember(member, opts...)
	if err != nil {
		return err
	}
	v, err := pdf.XfxQ2(pid, x, q2)
	if err != nil {
		return err
	}
	fmt.Printf("xf(pid=%d, x=%g, Q2=%g) = %.12e\n", pid, x, q2, v)
	return nil
}

func runAlphas(path string, q2 float64) error {
	rd, err := neopdf.Open(path)
	if err != nil {
		return err
	}
	defer rd.Close()

	pdf, err := rd.LoadMember(0)
	if err != nil {
		return err
	}
	v, err := pdf.AlphasQ2(q2)
	if err != nil {
		return err
	}
	fmt.Printf("alphas(Q2=%g) = %.8f\n", q2, v)
	return nil
}

func runConvert(dir, out string) error {
	set, err := lhapdf.OpenSet(dir)
	if err != nil {
		return err
	}
	if err := lhapdf.Convert(set, out); err != nil {
		return err
	}
	st, err := os.Stat(out)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s (%s)\n", out, humanize.Bytes(uint64(st.Size())))
	return nil
}

func joinInt32(vs []int32) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}
