package binary

import (
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripScalars(t *testing.T) {
	var buf Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteUint8(0x42))
	require.NoError(t, w.WriteUint16(0x0102))
	require.NoError(t, w.WriteUint32(0xDEADBEEF))
	require.NoError(t, w.WriteUint64(1<<40))
	require.NoError(t, w.WriteInt32(-7))
	require.NoError(t, w.WriteFloat64(math.Pi))
	require.NoError(t, w.WriteBool(true))
	require.NoError(t, w.WriteBool(false))

	r := NewReader(SliceReaderAt(buf.Bytes()), int64(len(buf.Bytes())))

	v8, err := r.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x42), v8)

	v16, err := r.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0102), v16)

	v32, err := r.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), v32)

	v64, err := r.ReadUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<40), v64)

	i32, err := r.ReadInt32()
	require.NoError(t, err)
	assert.Equal(t, int32(-7), i32)

	f, err := r.ReadFloat64()
	require.NoError(t, err)
	assert.Equal(t, math.Pi, f)

	b, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, b)

	b, err = r.ReadBool()
	require.NoError(t, err)
	assert.False(t, b)
}

func TestRoundTripSlicesAndStrings(t *testing.T) {
	var buf Buffer
	w := NewWriter(&buf)

	xs := []float64{1e-9, 0.5, 1.0, math.Inf(1)}
	pids := []int32{-5, -4, -3, -2, -1, 21, 1, 2, 3, 4, 5}

	require.NoError(t, w.WriteFloat64Slice(xs))
	require.NoError(t, w.WriteInt32Slice(pids))
	require.NoError(t, w.WriteString("NNPDF40_nnlo_as_01180"))
	require.NoError(t, w.WriteFloat64Slice(nil))
	require.NoError(t, w.WriteString(""))

	r := NewReader(SliceReaderAt(buf.Bytes()), int64(len(buf.Bytes())))

	gotXs, err := r.ReadFloat64Slice()
	require.NoError(t, err)
	assert.Equal(t, xs, gotXs)

	gotPids, err := r.ReadInt32Slice()
	require.NoError(t, err)
	assert.Equal(t, pids, gotPids)

	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "NNPDF40_nnlo_as_01180", s)

	empty, err := r.ReadFloat64Slice()
	require.NoError(t, err)
	assert.Empty(t, empty)

	s, err = r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "", s)
}

func TestReaderTruncation(t *testing.T) {
	var buf Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteUint64(42))

	// Cut the payload short: reads past the end must report unexpected EOF.
	r := NewReader(SliceReaderAt(buf.Bytes()[:5]), 5)
	_, err := r.ReadUint64()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	r = NewReader(SliceReaderAt(buf.Bytes()), int64(len(buf.Bytes())))
	_, err = r.ReadUint64()
	require.NoError(t, err)
	_, err = r.ReadUint8()
	assert.Error(t, err)
}

func TestCountPrefixBounds(t *testing.T) {
	// A corrupt count prefix far larger than the source must fail cleanly
	// rather than drive the allocation it describes.
	var buf Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteUint64(0x00FFFFFFFFFFFFFF))
	raw := buf.Bytes()

	_, err := NewReader(SliceReaderAt(raw), int64(len(raw))).ReadString()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = NewReader(SliceReaderAt(raw), int64(len(raw))).ReadFloat64Slice()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = NewReader(SliceReaderAt(raw), int64(len(raw))).ReadInt32Slice()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	// A count that fits the remaining bytes still reads.
	var ok Buffer
	require.NoError(t, NewWriter(&ok).WriteString("grid"))
	s, err := NewReader(SliceReaderAt(ok.Bytes()), int64(len(ok.Bytes()))).ReadString()
	require.NoError(t, err)
	assert.Equal(t, "grid", s)
}

func TestFletcher32(t *testing.T) {
	assert.Equal(t, uint32(0), Fletcher32(nil))
	assert.Equal(t, uint32(0x00010001), Fletcher32([]byte{0x01}))
	assert.Equal(t, uint32(0x02010201), Fletcher32([]byte{0x01, 0x02}))
	assert.Equal(t, uint32(0x04050204), Fletcher32([]byte{0x01, 0x02, 0x03}))

	payload := []byte("member payload bytes")
	sum := Fletcher32(payload)
	payload[7] ^= 0x20
	assert.NotEqual(t, sum, Fletcher32(payload))
}

func TestCursorIndependence(t *testing.T) {
	var buf Buffer
	w := NewWriter(&buf)
	for i := 0; i < 4; i++ {
		require.NoError(t, w.WriteUint64(uint64(i)))
	}

	r := NewReader(SliceReaderAt(buf.Bytes()), int64(len(buf.Bytes())))
	at := r.At(16)

	v, err := at.ReadUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v)

	// Original cursor is unaffected.
	v, err = r.ReadUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)
	assert.Equal(t, int64(8), r.Pos())
}
