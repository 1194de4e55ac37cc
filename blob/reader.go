package blob

import (
	"encoding/binary"
	"math"

	"github.com/wippyai/native-runtime/errors"
)

// Reader is a bounded, forward-only cursor over an import blob region. Reads
// never go past the end of the underlying bytes; a short region yields a
// malformed-blob error naming the offset.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a cursor over data. The Reader does not copy data;
// callers keep it alive and unmodified while reading.
func NewReader(data []byte) *Reader {
	return &Reader{buf: data}
}

// Remaining reports how many unread bytes follow the cursor.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// Offset reports how many bytes have been consumed so far.
func (r *Reader) Offset() int {
	return r.off
}

// ReadUint64 consumes a little-endian unsigned 64-bit value.
func (r *Reader) ReadUint64() (uint64, error) {
	if r.Remaining() < 8 {
		return 0, errors.MalformedBlob("u64 at offset %d: need 8 bytes, %d remain", r.off, r.Remaining())
	}
	v := binary.LittleEndian.Uint64(r.buf[r.off:])
	r.off += 8
	return v, nil
}

// ReadString consumes a u64-length-prefixed UTF-8 string.
func (r *Reader) ReadString() (string, error) {
	start := r.off
	n, err := r.ReadUint64()
	if err != nil {
		return "", err
	}
	if n > uint64(math.MaxInt) || int(n) > r.Remaining() {
		return "", errors.MalformedBlob("string at offset %d: length %d exceeds %d remaining bytes", start, n, r.Remaining())
	}
	s := string(r.buf[r.off : r.off+int(n)])
	r.off += int(n)
	return s, nil
}

// ReadBytes consumes exactly n bytes and returns them as a fresh copy, so
// the result stays valid after the region backing the Reader is released.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.MalformedBlob("bytes at offset %d: negative length %d", r.off, n)
	}
	if n > r.Remaining() {
		return nil, errors.MalformedBlob("bytes at offset %d: need %d bytes, %d remain", r.off, n, r.Remaining())
	}
	out := make([]byte, n)
	copy(out, r.buf[r.off:])
	r.off += n
	return out, nil
}
