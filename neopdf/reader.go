package neopdf

import (
	"fmt"
	"os"

	"github.com/golang/snappy"

	"github.com/robert-malhotra/go-neopdf/internal/binary"
)

// memberEntry locates one compressed member inside the container.
type memberEntry struct {
	offset uint64
	length uint64
}

// Reader provides random access to the members of a container file. Each
// member decompresses independently, so concurrent callers can read
// different members through their own Reader handles.
type Reader struct {
	f       *os.File
	r       *binary.Reader
	meta    *MetaData
	entries []memberEntry
}

// Open validates the container header and reads the metadata block and
// offset table. Member payloads stay on disk until requested.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rd, err := newReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	rd.f = f
	return rd, nil
}

func newReader(f *os.File) (*Reader, error) {
	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	r := binary.NewReader(f, st.Size())

	var got [8]byte
	if err := r.ReadBytes(got[:]); err != nil {
		return nil, corrupt(err)
	}
	if got != magic {
		return nil, fmt.Errorf("%w: bad magic", ErrCorruptContainer)
	}
	version, err := r.ReadUint32()
	if err != nil {
		return nil, corrupt(err)
	}
	if version == 0 || version > SchemaVersion {
		return nil, fmt.Errorf("%w: file version %d, reader supports up to %d",
			ErrUnsupportedVersion, version, SchemaVersion)
	}

	metaLen, err := r.ReadUint64()
	if err != nil {
		return nil, corrupt(err)
	}
	if metaLen > uint64(st.Size()) {
		return nil, fmt.Errorf("%w: metadata block length %d exceeds file size", ErrCorruptContainer, metaLen)
	}
	metaEnd := r.Pos() + int64(metaLen)
	meta, err := decodeMetaData(r, version)
	if err != nil {
		return nil, corrupt(err)
	}
	if r.Pos() > metaEnd {
		return nil, fmt.Errorf("%w: metadata block overruns its declared length", ErrCorruptContainer)
	}
	// Older readers stop here for fields they predate; newer fields written
	// by a future minor revision are covered by the length prefix.
	r = r.At(metaEnd)

	count, err := r.ReadUint64()
	if err != nil {
		return nil, corrupt(err)
	}
	if count > uint64(st.Size())/entrySize {
		return nil, fmt.Errorf("%w: member count %d exceeds file capacity", ErrCorruptContainer, count)
	}
	if meta.NumMembers < 0 || uint64(meta.NumMembers) != count {
		return nil, fmt.Errorf("%w: offset table has %d members, metadata declares %d",
			ErrCorruptContainer, count, meta.NumMembers)
	}
	entries := make([]memberEntry, count)
	for i := range entries {
		if entries[i].offset, err = r.ReadUint64(); err != nil {
			return nil, corrupt(err)
		}
		if entries[i].length, err = r.ReadUint64(); err != nil {
			return nil, corrupt(err)
		}
		end := entries[i].offset + entries[i].length
		if end < entries[i].offset || end > uint64(st.Size()) {
			return nil, fmt.Errorf("%w: member %d extends past end of file", ErrCorruptContainer, i)
		}
	}

	return &Reader{r: binary.NewReader(f, st.Size()), meta: meta, entries: entries}, nil
}

// MetaData returns the set metadata.
func (rd *Reader) MetaData() *MetaData { return rd.meta }

// NumMembers returns the number of members in the container.
func (rd *Reader) NumMembers() int { return len(rd.entries) }

// Member reads, decompresses and decodes the i-th member.
func (rd *Reader) Member(i int) (*GridArray, error) {
	if i < 0 || i >= len(rd.entries) {
		return nil, fmt.Errorf("%w: member %d of %d", ErrOutOfRange, i, len(rd.entries))
	}
	e := rd.entries[i]
	compressed := make([]byte, e.length)
	if err := rd.r.At(int64(e.offset)).ReadBytes(compressed); err != nil {
		return nil, corrupt(err)
	}
	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: member %d: %v", ErrCorruptContainer, i, err)
	}
	return decodeGridArray(raw)
}

// LoadMember reads the i-th member and binds it to the set metadata as a
// queryable PDF.
func (rd *Reader) LoadMember(i int, opts ...Option) (*PDF, error) {
	ga, err := rd.Member(i)
	if err != nil {
		return nil, err
	}
	return NewPDF(rd.meta, ga, opts...)
}

// Close releases the underlying file.
func (rd *Reader) Close() error {
	if rd.f == nil {
		return nil
	}
	return rd.f.Close()
}

// ReadAll opens a container and eagerly loads every member as a queryable
// PDF.
func ReadAll(path string, opts ...Option) (*MetaData, []*PDF, error) {
	rd, err := Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer rd.Close()
	members := make([]*PDF, rd.NumMembers())
	for i := range members {
		if members[i], err = rd.LoadMember(i, opts...); err != nil {
			return nil, nil, fmt.Errorf("member %d: %w", i, err)
		}
	}
	return rd.MetaData(), members, nil
}

// LazyReader iterates the members of a container one at a time, holding at
// most one decoded member in memory. It follows the scanner idiom:
//
//	lr, err := OpenLazy(path)
//	...
//	for lr.Next() {
//	    use(lr.Grid())
//	}
//	err = lr.Err()
//
// A LazyReader holds a mutable cursor and must not be shared between
// goroutines; open one per iterating goroutine.
type LazyReader struct {
	rd   *Reader
	next int
	cur  *GridArray
	err  error
}

// OpenLazy opens a container for lazy member iteration.
func OpenLazy(path string) (*LazyReader, error) {
	rd, err := Open(path)
	if err != nil {
		return nil, err
	}
	return &LazyReader{rd: rd}, nil
}

// MetaData returns the set metadata.
func (lr *LazyReader) MetaData() *MetaData { return lr.rd.meta }

// Next advances to the next member, reporting false at the end of the
// container or on the first error.
func (lr *LazyReader) Next() bool {
	if lr.err != nil || lr.next >= lr.rd.NumMembers() {
		return false
	}
	lr.cur, lr.err = lr.rd.Member(lr.next)
	if lr.err != nil {
		lr.err = fmt.Errorf("member %d: %w", lr.next, lr.err)
		return false
	}
	lr.next++
	return true
}

// Grid returns the member decoded by the last successful Next.
func (lr *LazyReader) Grid() *GridArray { return lr.cur }

// Err returns the first error encountered while iterating.
func (lr *LazyReader) Err() error { return lr.err }

// Close releases the underlying file.
func (lr *LazyReader) Close() error { return lr.rd.Close() }
