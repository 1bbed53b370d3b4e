package neopdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robert-malhotra/go-neopdf/internal/binary"
)

func writeTestContainer(t *testing.T, meta *MetaData, members ...*GridArray) string {
	t.Helper()
	cw := NewCollectionWriter(meta)
	for _, ga := range members {
		require.NoError(t, cw.Add(ga))
	}
	path := filepath.Join(t.TempDir(), "set.neopdf")
	require.NoError(t, cw.Compress(path))
	return path
}

func TestRoundTripRandomAccess(t *testing.T) {
	// One subgrid, one flavor, 3 x knots by 2 Q2 knots.
	xs := []float64{0.1, 0.5, 1.0}
	q2s := []float64{1.0, 10.0}
	values := []float64{0.11, 0.12, 0.51, 0.52, 1.01, 1.02}
	sg, err := NewSubGrid([]float64{1}, []float64{0.118}, []float64{0}, xs, q2s, 1, values)
	require.NoError(t, err)
	ga, err := NewGridArray([]int32{21})
	require.NoError(t, err)
	require.NoError(t, ga.AppendSubgrid(sg))

	path := writeTestContainer(t, testMeta([]int32{21}, InterpolatorLogBicubic), ga)

	rd, err := Open(path)
	require.NoError(t, err)
	defer rd.Close()
	require.Equal(t, 1, rd.NumMembers())

	got, err := rd.Member(0)
	require.NoError(t, err)
	require.Equal(t, []int32{21}, got.Flavors())
	require.Equal(t, 1, got.NumSubgrids())

	gsg := got.Subgrid(0)
	require.Equal(t, Axis(xs), gsg.X())
	require.Equal(t, Axis(q2s), gsg.Q2())
	k := 0
	for ix := range xs {
		for iq := range q2s {
			require.Equal(t, values[k], gsg.XfAt(0, 0, 0, ix, iq, 0), "knot (%d, %d)", ix, iq)
			k++
		}
	}
}

func TestMetaDataRoundTrip(t *testing.T) {
	meta := testMeta([]int32{-2, -1, 21, 1, 2}, InterpolatorChebyshev)
	meta.Polarized = true
	meta.SetType = SetTypeTimeLike
	meta.KTMin = 0.5
	meta.KTMax = 40.0
	meta.Physics = PhysicsParameters{
		AlphaSOrderQCD: 2,
		FlavorScheme:   "variable",
		MCharm:         1.51,
		MBottom:        4.92,
		MTop:           172.5,
		MZ:             91.1876,
		AlphaSMZ:       0.118,
	}

	ga, err := NewGridArray(meta.Flavors)
	require.NoError(t, err)
	sg := collinearSubgrid(t, []float64{0.1, 0.5, 1.0}, []float64{1.0, 10.0}, 5,
		func(x, q2 float64, fi int) float64 { return x * q2 })
	require.NoError(t, ga.AppendSubgrid(sg))

	path := writeTestContainer(t, meta, ga)
	rd, err := Open(path)
	require.NoError(t, err)
	defer rd.Close()

	require.Equal(t, meta, rd.MetaData())
}

func TestMetaDataVersionMigration(t *testing.T) {
	meta := testMeta([]int32{21}, InterpolatorLogBicubic)
	meta.KTMin = 1.0
	meta.KTMax = 2.0

	var buf binary.Buffer
	require.NoError(t, meta.encode(binary.NewWriter(&buf)))

	// A v1 reader path consumes only the v1 prefix and fills the rest with
	// the documented defaults.
	raw := buf.Bytes()
	v1, err := decodeMetaData(binary.NewReader(binary.SliceReaderAt(raw), int64(len(raw))), 1)
	require.NoError(t, err)
	require.Equal(t, meta.SetDesc, v1.SetDesc)
	require.Equal(t, meta.Flavors, v1.Flavors)
	require.Equal(t, "replicas", v1.ErrorType)
	require.Equal(t, int32(2212), v1.HadronPID)
	require.Equal(t, AlphaSTabulated, v1.AlphaSMode)
	require.Zero(t, v1.KTMin)
	require.Zero(t, v1.KTMax)

	v2, err := decodeMetaData(binary.NewReader(binary.SliceReaderAt(raw), int64(len(raw))), 2)
	require.NoError(t, err)
	require.Equal(t, meta.ErrorType, v2.ErrorType)
	require.Zero(t, v2.KTMin)

	v3, err := decodeMetaData(binary.NewReader(binary.SliceReaderAt(raw), int64(len(raw))), 3)
	require.NoError(t, err)
	require.Equal(t, meta, v3)
}

func TestLazyMatchesEager(t *testing.T) {
	meta := testMeta([]int32{21}, InterpolatorLogBicubic)
	var members []*GridArray
	for m := 0; m < 3; m++ {
		ga, err := NewGridArray([]int32{21})
		require.NoError(t, err)
		shift := float64(m)
		sg := collinearSubgrid(t, xDecades, q2Lower, 1,
			func(x, q2 float64, fi int) float64 { return logProduct(x, q2, fi) + shift })
		require.NoError(t, ga.AppendSubgrid(sg))
		members = append(members, ga)
	}
	path := writeTestContainer(t, meta, members...)

	_, eager, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, eager, 3)

	lr, err := OpenLazy(path)
	require.NoError(t, err)
	defer lr.Close()

	i := 0
	for lr.Next() {
		got := lr.Grid().Subgrid(0)
		want := eager[i].Subgrid(0)
		require.Equal(t, want.values, got.values, "member %d", i)
		i++
	}
	require.NoError(t, lr.Err())
	require.Equal(t, 3, i)

	// Loaded members answer queries identically to their sources.
	v0, err := eager[2].XfxQ2(21, 1e-3, 5.0)
	require.NoError(t, err)
	require.InDelta(t, logProduct(1e-3, 5.0, 0)+2, v0, 1e-12)
}

func TestWriterValidation(t *testing.T) {
	meta := testMeta([]int32{21, 1}, InterpolatorLogBicubic)
	cw := NewCollectionWriter(meta)

	require.ErrorIs(t, cw.Compress(filepath.Join(t.TempDir(), "empty.neopdf")), ErrEmptyCollection)

	wrong, err := NewGridArray([]int32{21})
	require.NoError(t, err)
	require.ErrorIs(t, cw.Add(wrong), ErrFlavorMismatch)

	reordered, err := NewGridArray([]int32{1, 21})
	require.NoError(t, err)
	require.ErrorIs(t, cw.Add(reordered), ErrFlavorMismatch)
}

func TestOpenRejectsCorruptFiles(t *testing.T) {
	dir := t.TempDir()

	notAContainer := filepath.Join(dir, "junk.neopdf")
	require.NoError(t, os.WriteFile(notAContainer, []byte("definitely not a container"), 0o644))
	_, err := Open(notAContainer)
	require.ErrorIs(t, err, ErrCorruptContainer)

	empty := filepath.Join(dir, "empty.neopdf")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = Open(empty)
	require.ErrorIs(t, err, ErrCorruptContainer)

	ga, err := NewGridArray([]int32{21})
	require.NoError(t, err)
	sg := collinearSubgrid(t, xDecades, q2Lower, 1, logProduct)
	require.NoError(t, ga.AppendSubgrid(sg))
	path := writeTestContainer(t, testMeta([]int32{21}, InterpolatorLogBicubic), ga)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	truncated := filepath.Join(dir, "truncated.neopdf")
	require.NoError(t, os.WriteFile(truncated, data[:len(data)-20], 0o644))
	rd, err := Open(truncated)
	if err == nil {
		_, err = rd.Member(0)
		rd.Close()
	}
	require.ErrorIs(t, err, ErrCorruptContainer)

	future := filepath.Join(dir, "future.neopdf")
	bad := append([]byte(nil), data...)
	bad[8] = 99 // version field follows the 8-byte magic
	require.NoError(t, os.WriteFile(future, bad, 0o644))
	_, err = Open(future)
	require.ErrorIs(t, err, ErrUnsupportedVersion)

	// The metadata block opens with the description length prefix at byte
	// 20; blowing it up must fail cleanly, not allocate.
	hugeLen := filepath.Join(dir, "hugelen.neopdf")
	bad = append([]byte(nil), data...)
	for i := 20; i < 28; i++ {
		bad[i] = 0xFF
	}
	require.NoError(t, os.WriteFile(hugeLen, bad, 0o644))
	_, err = Open(hugeLen)
	require.ErrorIs(t, err, ErrCorruptContainer)
}

func TestMemberPayloadIndependence(t *testing.T) {
	meta := testMeta([]int32{21}, InterpolatorLogBicubic)
	var members []*GridArray
	for m := 0; m < 2; m++ {
		ga, err := NewGridArray([]int32{21})
		require.NoError(t, err)
		shift := float64(m)
		sg := collinearSubgrid(t, xDecades, q2Lower, 1,
			func(x, q2 float64, fi int) float64 { return logProduct(x, q2, fi) + shift })
		require.NoError(t, ga.AppendSubgrid(sg))
		members = append(members, ga)
	}
	path := writeTestContainer(t, meta, members...)

	rd, err := Open(path)
	require.NoError(t, err)
	off := rd.entries[1].offset
	require.NoError(t, rd.Close())

	// Mangle the second member's compressed payload in place.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for b := off; b < off+4; b++ {
		data[b] ^= 0xFF
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))

	rd, err = Open(path)
	require.NoError(t, err)
	defer rd.Close()

	got, err := rd.Member(0)
	require.NoError(t, err)
	require.Equal(t, members[0].Subgrid(0).values, got.Subgrid(0).values)

	_, err = rd.Member(1)
	require.ErrorIs(t, err, ErrCorruptContainer)
}

func TestMemberIndexOutOfRange(t *testing.T) {
	ga, err := NewGridArray([]int32{21})
	require.NoError(t, err)
	sg := collinearSubgrid(t, xDecades, q2Lower, 1, logProduct)
	require.NoError(t, ga.AppendSubgrid(sg))
	path := writeTestContainer(t, testMeta([]int32{21}, InterpolatorLogBicubic), ga)

	rd, err := Open(path)
	require.NoError(t, err)
	defer rd.Close()

	_, err = rd.Member(1)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = rd.Member(-1)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestMemberCountStampedAndChecked(t *testing.T) {
	meta := testMeta([]int32{21}, InterpolatorLogBicubic)
	var members []*GridArray
	for m := 0; m < 2; m++ {
		ga, err := NewGridArray([]int32{21})
		require.NoError(t, err)
		sg := collinearSubgrid(t, xDecades, q2Lower, 1, logProduct)
		require.NoError(t, ga.AppendSubgrid(sg))
		members = append(members, ga)
	}
	path := writeTestContainer(t, meta, members...)

	// Compress stamps the count; the stored metadata agrees with the table.
	require.Equal(t, int32(2), meta.NumMembers)
	rd, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, int32(2), rd.MetaData().NumMembers)
	require.Equal(t, 2, rd.NumMembers())
	require.NoError(t, rd.Close())

	// Shrink the offset-table count so it disagrees with the metadata.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	metaLen, err := binary.NewReader(binary.SliceReaderAt(data), int64(len(data))).At(12).ReadUint64()
	require.NoError(t, err)
	countOff := 20 + metaLen
	data[countOff] = 1
	for i := uint64(1); i < 8; i++ {
		data[countOff+i] = 0
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = Open(path)
	require.ErrorIs(t, err, ErrCorruptContainer)
}

func TestMemberChecksumDetectsBitFlips(t *testing.T) {
	ga, err := NewGridArray([]int32{21})
	require.NoError(t, err)
	sg := collinearSubgrid(t, xDecades, q2Lower, 1, logProduct)
	require.NoError(t, ga.AppendSubgrid(sg))

	raw, err := encodeGridArray(ga)
	require.NoError(t, err)
	got, err := decodeGridArray(raw)
	require.NoError(t, err)
	require.Equal(t, ga.Subgrid(0).values, got.Subgrid(0).values)

	// Flip one bit inside a stored value.
	raw[len(raw)-3] ^= 0x10
	_, err = decodeGridArray(raw)
	require.ErrorIs(t, err, ErrCorruptContainer)
}

func TestDecodeRejectsOversizedCounts(t *testing.T) {
	// A payload whose flavor count vastly exceeds its length must fail
	// cleanly. The checksum is valid so the count itself is reached.
	var body binary.Buffer
	require.NoError(t, binary.NewWriter(&body).WriteUint64(0x00FFFFFFFFFFFFFF))
	var buf binary.Buffer
	w := binary.NewWriter(&buf)
	require.NoError(t, w.WriteUint32(binary.Fletcher32(body.Bytes())))
	require.NoError(t, w.WriteBytes(body.Bytes()))

	_, err := decodeGridArray(buf.Bytes())
	require.ErrorIs(t, err, ErrCorruptContainer)
}
