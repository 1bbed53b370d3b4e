package neopdf

import (
	"fmt"
	"io"
	"os"

	"github.com/golang/snappy"

	"github.com/robert-malhotra/go-neopdf/internal/binary"
)

// magic identifies a container file. The byte pattern follows the PNG
// convention: a high bit to catch 7-bit transports, the format name, and
// both line-ending styles to catch newline translation.
var magic = [8]byte{0x89, 'N', 'P', 'D', '\r', '\n', 0x1a, '\n'}

// entrySize is the byte width of one offset-table entry: a u64 absolute
// offset and a u64 compressed length.
const entrySize = 16

// CollectionWriter accumulates member grids and serializes them into a
// compressed container. All members must be added before the single
// Compress call; the writer is single-producer and not safe for concurrent
// use.
type CollectionWriter struct {
	meta    *MetaData
	members []*GridArray
}

// NewCollectionWriter creates a writer for a set with the given metadata.
func NewCollectionWriter(meta *MetaData) *CollectionWriter {
	return &CollectionWriter{meta: meta}
}

// Add appends one member. Its flavor list must match the set metadata.
func (cw *CollectionWriter) Add(ga *GridArray) error {
	if len(ga.flavors) != len(cw.meta.Flavors) {
		return fmt.Errorf("%w: member has %d flavors, set has %d",
			ErrFlavorMismatch, len(ga.flavors), len(cw.meta.Flavors))
	}
	for i, f := range ga.flavors {
		if f != cw.meta.Flavors[i] {
			return fmt.Errorf("%w: member flavor %d is %d, set has %d",
				ErrFlavorMismatch, i, f, cw.meta.Flavors[i])
		}
	}
	cw.members = append(cw.members, ga)
	return nil
}

// NumMembers returns the number of members added so far.
func (cw *CollectionWriter) NumMembers() int {
	return len(cw.members)
}

// Compress serializes the collection to the given path. The layout is:
//
//	magic (8 bytes)
//	uint32   schema version
//	uint64   metadata block length, then the block itself
//	uint64   member count
//	offset table: per member, uint64 absolute offset and uint64
//	         compressed length
//	member payloads, each independently snappy-compressed
//
// Members compress independently so readers can decompress any one of them
// without touching the rest. The member count is stamped into the metadata,
// keeping it consistent with the offset table; readers reject files where
// the two disagree.
func (cw *CollectionWriter) Compress(path string) error {
	if len(cw.members) == 0 {
		return ErrEmptyCollection
	}
	cw.meta.NumMembers = int32(len(cw.members))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := cw.writeTo(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func (cw *CollectionWriter) writeTo(dst io.WriterAt) error {
	w := binary.NewWriter(dst)
	if err := w.WriteBytes(magic[:]); err != nil {
		return err
	}
	if err := w.WriteUint32(SchemaVersion); err != nil {
		return err
	}

	var metaBuf binary.Buffer
	if err := cw.meta.encode(binary.NewWriter(&metaBuf)); err != nil {
		return err
	}
	if err := w.WriteUint64(uint64(len(metaBuf.Bytes()))); err != nil {
		return err
	}
	if err := w.WriteBytes(metaBuf.Bytes()); err != nil {
		return err
	}

	if err := w.WriteUint64(uint64(len(cw.members))); err != nil {
		return err
	}

	// Payloads land after the offset table; the table itself is backfilled
	// once every compressed length is known.
	tableOff := w.Pos()
	payloadOff := tableOff + int64(len(cw.members)*entrySize)

	type entry struct {
		offset uint64
		length uint64
	}
	entries := make([]entry, len(cw.members))

	pw := w.At(payloadOff)
	for i, ga := range cw.members {
		raw, err := encodeGridArray(ga)
		if err != nil {
			return err
		}
		compressed := snappy.Encode(nil, raw)
		entries[i] = entry{offset: uint64(pw.Pos()), length: uint64(len(compressed))}
		if err := pw.WriteBytes(compressed); err != nil {
			return err
		}
	}

	tw := w.At(tableOff)
	for _, e := range entries {
		if err := tw.WriteUint64(e.offset); err != nil {
			return err
		}
		if err := tw.WriteUint64(e.length); err != nil {
			return err
		}
	}
	return nil
}
