package wire

import (
	"fmt"
	"math"
)

// BitWriter packs values least-significant bit first.
// Used where a presence mask makes byte alignment wasteful.
type BitWriter struct {
	buf   []byte
	nbits int
}

// NewBitWriter creates a bit writer with capacity for n bytes.
func NewBitWriter(n int) *BitWriter {
	return &BitWriter{buf: make([]byte, 0, n)}
}

// WriteBits writes the low n bits of v (n ≤ 64).
func (w *BitWriter) WriteBits(v uint64, n int) {
	for i := range n {
		if w.nbits%8 == 0 {
			w.buf = append(w.buf, 0)
		}
		if v&(1<<i) != 0 {
			w.buf[len(w.buf)-1] |= 1 << (w.nbits % 8)
		}
		w.nbits++
	}
}

// WriteBool writes one bit.
func (w *BitWriter) WriteBool(b bool) {
	var v uint64
	if b {
		v = 1
	}
	w.WriteBits(v, 1)
}

// WriteUint32 writes 32 bits.
func (w *BitWriter) WriteUint32(v uint32) {
	w.WriteBits(uint64(v), 32)
}

// WriteFloat32 writes v as an IEEE 754 float32.
func (w *BitWriter) WriteFloat32(v float64) {
	w.WriteBits(uint64(math.Float32bits(float32(v))), 32)
}

// Bytes returns the packed data. Trailing bits of the last byte are zero.
func (w *BitWriter) Bytes() []byte {
	return w.buf
}

// BitLen returns the number of bits written.
func (w *BitWriter) BitLen() int {
	return w.nbits
}

// BitReader reads values packed by BitWriter.
type BitReader struct {
	data []byte
	pos  int
}

// NewBitReader creates a bit reader over data.
func NewBitReader(data []byte) *BitReader {
	return &BitReader{data: data}
}

// ReadBits reads n bits (n ≤ 64).
func (r *BitReader) ReadBits(n int) (uint64, error) {
	if r.pos+n > len(r.data)*8 {
		return 0, fmt.Errorf("ReadBits(%d) (bitpos=%d, len=%d): %w", n, r.pos, len(r.data), ErrShortBuffer)
	}
	var v uint64
	for i := range n {
		if r.data[r.pos/8]&(1<<(r.pos%8)) != 0 {
			v |= 1 << i
		}
		r.pos++
	}
	return v, nil
}

// ReadBool reads one bit.
func (r *BitReader) ReadBool() (bool, error) {
	v, err := r.ReadBits(1)
	return v == 1, err
}

// ReadUint32 reads 32 bits.
func (r *BitReader) ReadUint32() (uint32, error) {
	v, err := r.ReadBits(32)
	return uint32(v), err
}

// ReadFloat32 reads an IEEE 754 float32, widened to float64.
func (r *BitReader) ReadFloat32() (float64, error) {
	v, err := r.ReadBits(32)
	if err != nil {
		return 0, err
	}
	return float64(math.Float32frombits(uint32(v))), nil
}

// Remaining returns the number of unread bits.
func (r *BitReader) Remaining() int {
	return len(r.data)*8 - r.pos
}
