package blob

import (
	"bytes"
	"encoding/binary"
)

// Writer produces blob-formatted bytes. It mirrors Reader so serializers and
// tests can construct regions the decoder accepts.
type Writer struct {
	buf bytes.Buffer
}

// WriteUint64 appends a little-endian unsigned 64-bit value.
func (w *Writer) WriteUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// WriteString appends a u64-length-prefixed UTF-8 string.
func (w *Writer) WriteString(s string) {
	w.WriteUint64(uint64(len(s)))
	w.buf.WriteString(s)
}

// WriteBytes appends raw bytes with no prefix. Payloads are self-delimiting
// for their own loader, so the writer adds nothing around them.
func (w *Writer) WriteBytes(b []byte) {
	w.buf.Write(b)
}

// Bytes returns the accumulated region.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Entry pairs a sub-module type tag with its pre-serialized payload. The
// payload bytes must be exactly what the matching loader consumes.
type Entry struct {
	Tag     string
	Payload []byte
}

// Encode serializes entries into a complete import blob region.
func Encode(entries []Entry) []byte {
	var w Writer
	w.WriteUint64(uint64(len(entries)))
	for _, e := range entries {
		w.WriteString(e.Tag)
		w.WriteBytes(e.Payload)
	}
	return w.Bytes()
}
