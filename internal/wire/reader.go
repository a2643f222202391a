package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// ErrShortBuffer is returned when a stream ends before a value is complete.
var ErrShortBuffer = errors.New("wire: short buffer")

// Reader reads frame data written by Writer.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a reader over data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, fmt.Errorf("ReadByte (pos=%d, len=%d): %w", r.pos, len(r.data), ErrShortBuffer)
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadUint16 reads 2 bytes, LE.
func (r *Reader) ReadUint16() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, fmt.Errorf("ReadUint16 (pos=%d, len=%d): %w", r.pos, len(r.data), ErrShortBuffer)
	}
	val := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return val, nil
}

// ReadUint32 reads 4 bytes, LE.
func (r *Reader) ReadUint32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("ReadUint32 (pos=%d, len=%d): %w", r.pos, len(r.data), ErrShortBuffer)
	}
	val := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return val, nil
}

// ReadFloat64 reads an IEEE 754 float64 (8 bytes, LE).
func (r *Reader) ReadFloat64() (float64, error) {
	if r.pos+8 > len(r.data) {
		return 0, fmt.Errorf("ReadFloat64 (pos=%d, len=%d): %w", r.pos, len(r.data), ErrShortBuffer)
	}
	bits := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return math.Float64frombits(bits), nil
}

// ReadBlob reads a uint16 length-prefixed byte slice.
// The returned slice shares memory with the reader's data.
func (r *Reader) ReadBlob() ([]byte, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	if r.pos+int(n) > len(r.data) {
		return nil, fmt.Errorf("ReadBlob (pos=%d, need=%d, len=%d): %w", r.pos, n, len(r.data), ErrShortBuffer)
	}
	b := r.data[r.pos : r.pos+int(n)]
	r.pos += int(n)
	return b, nil
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}
