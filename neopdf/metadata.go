package neopdf

import (
	"fmt"

	"github.com/robert-malhotra/go-neopdf/internal/binary"
)

// SchemaVersion is the current container schema version. Readers accept any
// version up to this one; newer versions fail with ErrUnsupportedVersion.
//
// Version history and migration defaults for fields absent in older files:
//
//	v1: base set description (ranges, flavors, coupling table, set type,
//	    interpolator kind).
//	v2: adds ErrorType ("replicas"), HadronPID (2212), AlphaSMode
//	    (tabulated) and the physics parameter block (zeroed).
//	v3: adds KTMin/KTMax for transverse-momentum-dependent sets (0 for
//	    collinear sets).
const SchemaVersion = 3

// SetType classifies a distribution set as space-like (a parton
// distribution) or time-like (a fragmentation function).
type SetType uint8

const (
	SetTypeSpaceLike SetType = iota
	SetTypeTimeLike
)

func (t SetType) String() string {
	if t == SetTypeTimeLike {
		return "timelike"
	}
	return "spacelike"
}

// InterpolatorKind selects the family of interpolation strategies a set is
// evaluated with. The effective strategy also depends on the rank of each
// subgrid; see the dispatch table in strategies.go.
type InterpolatorKind uint8

const (
	// InterpolatorLogBicubic is the default: cubic interpolation in log
	// space for the x/Q2 plane, extended to tricubic and multilinear for
	// higher ranks.
	InterpolatorLogBicubic InterpolatorKind = iota
	InterpolatorBilinear
	InterpolatorLogBilinear
	InterpolatorLogTricubic
	InterpolatorChebyshev
	InterpolatorNDLinear
)

func (k InterpolatorKind) String() string {
	switch k {
	case InterpolatorBilinear:
		return "bilinear"
	case InterpolatorLogBilinear:
		return "logbilinear"
	case InterpolatorLogBicubic:
		return "logbicubic"
	case InterpolatorLogTricubic:
		return "logtricubic"
	case InterpolatorChebyshev:
		return "chebyshev"
	case InterpolatorNDLinear:
		return "ndlinear"
	default:
		return fmt.Sprintf("interpolator(%d)", uint8(k))
	}
}

// AlphaSMode selects how the strong coupling is evaluated: interpolated
// from the tabulated reference values in the metadata, or computed from the
// analytic running-coupling solution.
type AlphaSMode uint8

const (
	AlphaSTabulated AlphaSMode = iota
	AlphaSAnalytic
)

// PhysicsParameters carries the perturbative inputs needed by the analytic
// coupling solution.
type PhysicsParameters struct {
	AlphaSOrderQCD int32
	FlavorScheme   string
	MCharm         float64
	MBottom        float64
	MTop           float64
	MZ             float64
	AlphaSMZ       float64
}

// MetaData describes an entire distribution set. One MetaData is shared by
// every member of a set; it is immutable once built.
type MetaData struct {
	SetDesc    string
	SetIndex   int32
	NumMembers int32

	XMin, XMax   float64
	QMin, QMax   float64
	KTMin, KTMax float64

	Flavors []int32
	Format  string

	// Tabulated coupling reference: Q values (not squared) and the
	// corresponding alpha_s values.
	AlphaSQs   []float64
	AlphaSVals []float64

	Polarized        bool
	SetType          SetType
	InterpolatorKind InterpolatorKind

	ErrorType  string
	HadronPID  int32
	AlphaSMode AlphaSMode
	Physics    PhysicsParameters
}

// encode writes the metadata fields in current-schema order. The caller is
// responsible for the surrounding length prefix.
func (m *MetaData) encode(w *binary.Writer) error {
	steps := []func() error{
		func() error { return w.WriteString(m.SetDesc) },
		func() error { return w.WriteInt32(m.SetIndex) },
		func() error { return w.WriteInt32(m.NumMembers) },
		func() error { return w.WriteFloat64(m.XMin) },
		func() error { return w.WriteFloat64(m.XMax) },
		func() error { return w.WriteFloat64(m.QMin) },
		func() error { return w.WriteFloat64(m.QMax) },
		func() error { return w.WriteInt32Slice(m.Flavors) },
		func() error { return w.WriteString(m.Format) },
		func() error { return w.WriteFloat64Slice(m.AlphaSQs) },
		func() error { return w.WriteFloat64Slice(m.AlphaSVals) },
		func() error { return w.WriteBool(m.Polarized) },
		func() error { return w.WriteUint8(uint8(m.SetType)) },
		func() error { return w.WriteUint8(uint8(m.InterpolatorKind)) },
		// v2 fields
		func() error { return w.WriteString(m.ErrorType) },
		func() error { return w.WriteInt32(m.HadronPID) },
		func() error { return w.WriteUint8(uint8(m.AlphaSMode)) },
		func() error { return w.WriteInt32(m.Physics.AlphaSOrderQCD) },
		func() error { return w.WriteString(m.Physics.FlavorScheme) },
		func() error { return w.WriteFloat64(m.Physics.MCharm) },
		func() error { return w.WriteFloat64(m.Physics.MBottom) },
		func() error { return w.WriteFloat64(m.Physics.MTop) },
		func() error { return w.WriteFloat64(m.Physics.MZ) },
		func() error { return w.WriteFloat64(m.Physics.AlphaSMZ) },
		// v3 fields
		func() error { return w.WriteFloat64(m.KTMin) },
		func() error { return w.WriteFloat64(m.KTMax) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// decodeMetaData parses a metadata block written by the given schema
// version. Each prior version has its own explicit parse path; fields the
// version predates get their documented defaults. Trailing bytes the
// version postdates are skipped by the caller via the block length.
func decodeMetaData(r *binary.Reader, version uint32) (*MetaData, error) {
	m := &MetaData{}
	if err := m.decodeV1(r); err != nil {
		return nil, err
	}
	if version == 1 {
		m.applyV1Defaults()
		return m, nil
	}
	if err := m.decodeV2Fields(r); err != nil {
		return nil, err
	}
	if version == 2 {
		// KT range introduced in v3: collinear set.
		m.KTMin, m.KTMax = 0, 0
		return m, nil
	}
	if err := m.decodeV3Fields(r); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MetaData) decodeV1(r *binary.Reader) error {
	var err error
	if m.SetDesc, err = r.ReadString(); err != nil {
		return err
	}
	if m.SetIndex, err = r.ReadInt32(); err != nil {
		return err
	}
	if m.NumMembers, err = r.ReadInt32(); err != nil {
		return err
	}
	for _, dst := range []*float64{&m.XMin, &m.XMax, &m.QMin, &m.QMax} {
		if *dst, err = r.ReadFloat64(); err != nil {
			return err
		}
	}
	if m.Flavors, err = r.ReadInt32Slice(); err != nil {
		return err
	}
	if m.Format, err = r.ReadString(); err != nil {
		return err
	}
	if m.AlphaSQs, err = r.ReadFloat64Slice(); err != nil {
		return err
	}
	if m.AlphaSVals, err = r.ReadFloat64Slice(); err != nil {
		return err
	}
	if m.Polarized, err = r.ReadBool(); err != nil {
		return err
	}
	setType, err := r.ReadUint8()
	if err != nil {
		return err
	}
	m.SetType = SetType(setType)
	kind, err := r.ReadUint8()
	if err != nil {
		return err
	}
	m.InterpolatorKind = InterpolatorKind(kind)
	return nil
}

func (m *MetaData) decodeV2Fields(r *binary.Reader) error {
	var err error
	if m.ErrorType, err = r.ReadString(); err != nil {
		return err
	}
	if m.HadronPID, err = r.ReadInt32(); err != nil {
		return err
	}
	mode, err := r.ReadUint8()
	if err != nil {
		return err
	}
	m.AlphaSMode = AlphaSMode(mode)
	if m.Physics.AlphaSOrderQCD, err = r.ReadInt32(); err != nil {
		return err
	}
	if m.Physics.FlavorScheme, err = r.ReadString(); err != nil {
		return err
	}
	for _, dst := range []*float64{
		&m.Physics.MCharm, &m.Physics.MBottom, &m.Physics.MTop,
		&m.Physics.MZ, &m.Physics.AlphaSMZ,
	} {
		if *dst, err = r.ReadFloat64(); err != nil {
			return err
		}
	}
	return nil
}

func (m *MetaData) decodeV3Fields(r *binary.Reader) error {
	var err error
	if m.KTMin, err = r.ReadFloat64(); err != nil {
		return err
	}
	m.KTMax, err = r.ReadFloat64()
	return err
}

// applyV1Defaults fills the fields v1 files predate.
func (m *MetaData) applyV1Defaults() {
	m.ErrorType = "replicas"
	m.HadronPID = 2212
	m.AlphaSMode = AlphaSTabulated
	m.KTMin, m.KTMax = 0, 0
}
