package neopdf

import (
	"errors"
	"fmt"
	"io"

	"github.com/robert-malhotra/go-neopdf/internal/binary"
)

// Member payload layout, before compression:
//
//	uint32        Fletcher-32 checksum of the bytes that follow
//	int32 slice   flavor identifiers
//	uint64        subgrid count
//	per subgrid:  five float64 knot slices in axis order, then the
//	              flattened value slice
//
// Each payload is self-describing so a member can be decoded without the
// collection metadata. The checksum covers the uncompressed bytes, so
// corruption inside a compressed run that still decompresses is caught.

// encodeGridArray serializes one member into a fresh buffer.
func encodeGridArray(ga *GridArray) ([]byte, error) {
	var body binary.Buffer
	w := binary.NewWriter(&body)
	if err := w.WriteInt32Slice(ga.flavors); err != nil {
		return nil, err
	}
	if err := w.WriteUint64(uint64(len(ga.subgrids))); err != nil {
		return nil, err
	}
	for _, sg := range ga.subgrids {
		for _, axis := range sg.axes {
			if err := w.WriteFloat64Slice(axis); err != nil {
				return nil, err
			}
		}
		if err := w.WriteFloat64Slice(sg.values); err != nil {
			return nil, err
		}
	}
	var buf binary.Buffer
	out := binary.NewWriter(&buf)
	if err := out.WriteUint32(binary.Fletcher32(body.Bytes())); err != nil {
		return nil, err
	}
	if err := out.WriteBytes(body.Bytes()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGridArray parses one member payload.
func decodeGridArray(data []byte) (*GridArray, error) {
	r := binary.NewReader(binary.SliceReaderAt(data), int64(len(data)))
	sum, err := r.ReadUint32()
	if err != nil {
		return nil, corrupt(err)
	}
	if binary.Fletcher32(data[4:]) != sum {
		return nil, fmt.Errorf("%w: member checksum mismatch", ErrCorruptContainer)
	}
	flavors, err := r.ReadInt32Slice()
	if err != nil {
		return nil, corrupt(err)
	}
	ga, err := NewGridArray(flavors)
	if err != nil {
		return nil, err
	}
	count, err := r.ReadUint64()
	if err != nil {
		return nil, corrupt(err)
	}
	for i := uint64(0); i < count; i++ {
		var axes [numAxes][]float64
		for d := range axes {
			if axes[d], err = r.ReadFloat64Slice(); err != nil {
				return nil, corrupt(err)
			}
		}
		values, err := r.ReadFloat64Slice()
		if err != nil {
			return nil, corrupt(err)
		}
		sg, err := NewSubGrid(axes[axisNucleons], axes[axisAlphaS], axes[axisKT],
			axes[axisX], axes[axisQ2], len(flavors), values)
		if err != nil {
			return nil, fmt.Errorf("member subgrid %d: %w", i, err)
		}
		if err := ga.AppendSubgrid(sg); err != nil {
			return nil, fmt.Errorf("member subgrid %d: %w", i, err)
		}
	}
	return ga, nil
}

// corrupt wraps low-level read failures into the container error.
func corrupt(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: unexpected end of data", ErrCorruptContainer)
	}
	return fmt.Errorf("%w: %v", ErrCorruptContainer, err)
}
