// Package lhapdf reads PDF sets in the LHAPDF on-disk layout (a directory
// with a YAML .info file and one .dat grid file per member) and converts
// them into neopdf containers.
package lhapdf

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/robert-malhotra/go-neopdf/neopdf"
)

// Common errors.
var (
	ErrMalformedInfo = errors.New("malformed .info file")
	ErrMalformedData = errors.New("malformed .dat file")
)

// Info mirrors the YAML keys of an LHAPDF .info file. Keys absent from a
// file keep their zero values; the conversion applies defaults where the
// convention defines them.
type Info struct {
	SetDesc    string  `yaml:"SetDesc"`
	SetIndex   int32   `yaml:"SetIndex"`
	NumMembers int32   `yaml:"NumMembers"`
	XMin       float64 `yaml:"XMin"`
	XMax       float64 `yaml:"XMax"`
	QMin       float64 `yaml:"QMin"`
	QMax       float64 `yaml:"QMax"`
	Flavors    []int32 `yaml:"Flavors"`
	Format     string  `yaml:"Format"`

	AlphaSQs   []float64 `yaml:"AlphaS_Qs"`
	AlphaSVals []float64 `yaml:"AlphaS_Vals"`

	Polarized        bool   `yaml:"Polarized"`
	SetType          string `yaml:"SetType"`
	InterpolatorType string `yaml:"InterpolatorType"`

	ErrorType      string  `yaml:"ErrorType"`
	Particle       int32   `yaml:"Particle"`
	AlphaSOrderQCD int32   `yaml:"AlphaS_OrderQCD"`
	FlavorScheme   string  `yaml:"FlavorScheme"`
	MCharm         float64 `yaml:"MCharm"`
	MBottom        float64 `yaml:"MBottom"`
	MTop           float64 `yaml:"MTop"`
	MZ             float64 `yaml:"MZ"`
	AlphaSMZ       float64 `yaml:"AlphaS_MZ"`
}

// ReadInfo parses a .info file.
func ReadInfo(path string) (*Info, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var info Info
	if err := yaml.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInfo, err)
	}
	if len(info.Flavors) == 0 {
		return nil, fmt.Errorf("%w: no Flavors key", ErrMalformedInfo)
	}
	return &info, nil
}

// MetaData translates the .info fields into set metadata, applying the
// LHAPDF defaults for keys the file omits.
func (info *Info) MetaData() (*neopdf.MetaData, error) {
	kind, err := parseInterpolatorType(info.InterpolatorType)
	if err != nil {
		return nil, err
	}

	m := &neopdf.MetaData{
		SetDesc:          info.SetDesc,
		SetIndex:         info.SetIndex,
		NumMembers:       info.NumMembers,
		XMin:             info.XMin,
		XMax:             info.XMax,
		QMin:             info.QMin,
		QMax:             info.QMax,
		Flavors:          info.Flavors,
		Format:           info.Format,
		AlphaSQs:         info.AlphaSQs,
		AlphaSVals:       info.AlphaSVals,
		Polarized:        info.Polarized,
		InterpolatorKind: kind,
		ErrorType:        info.ErrorType,
		HadronPID:        info.Particle,
		Physics: neopdf.PhysicsParameters{
			AlphaSOrderQCD: info.AlphaSOrderQCD,
			FlavorScheme:   info.FlavorScheme,
			MCharm:         info.MCharm,
			MBottom:        info.MBottom,
			MTop:           info.MTop,
			MZ:             info.MZ,
			AlphaSMZ:       info.AlphaSMZ,
		},
	}
	if strings.EqualFold(info.SetType, "timelike") {
		m.SetType = neopdf.SetTypeTimeLike
	}
	if m.ErrorType == "" {
		m.ErrorType = "replicas"
	}
	if m.HadronPID == 0 {
		m.HadronPID = 2212
	}
	if len(m.AlphaSVals) > 0 {
		m.AlphaSMode = neopdf.AlphaSTabulated
	} else {
		m.AlphaSMode = neopdf.AlphaSAnalytic
	}
	return m, nil
}

func parseInterpolatorType(s string) (neopdf.InterpolatorKind, error) {
	switch strings.ToLower(s) {
	case "", "logcubic", "logbicubic":
		return neopdf.InterpolatorLogBicubic, nil
	case "bilinear":
		return neopdf.InterpolatorBilinear, nil
	case "logbilinear":
		return neopdf.InterpolatorLogBilinear, nil
	case "logtricubic":
		return neopdf.InterpolatorLogTricubic, nil
	case "chebyshev":
		return neopdf.InterpolatorChebyshev, nil
	case "ndlinear":
		return neopdf.InterpolatorNDLinear, nil
	default:
		return 0, fmt.Errorf("%w: unknown InterpolatorType %q", ErrMalformedInfo, s)
	}
}
