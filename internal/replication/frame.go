package replication

import (
	"bytes"
	"fmt"

	"github.com/udisondev/magecombat/internal/attribute"
	"github.com/udisondev/magecombat/internal/model"
	"github.com/udisondev/magecombat/internal/wire"
)

// FrameKind identifies the payload of a frame.
type FrameKind byte

const (
	FrameAttribute FrameKind = 0x01
	FrameContext   FrameKind = 0x02
	FrameDespawn   FrameKind = 0x03
)

// Frame is one replicated state change.
//
// Wire layout (LE): kind(1) objectID(4) then
//
//	FrameAttribute: attribute(1) value(8)
//	FrameContext:   len(2) encoded effect context
//	FrameDespawn:   nothing
type Frame struct {
	Kind      FrameKind
	Object    model.ObjectID
	Attribute attribute.ID
	Value     float64
	Context   []byte
}

// Encode serializes f into a new slice.
func (f Frame) Encode() []byte {
	w := wire.Get()
	defer w.Put()

	_ = w.WriteByte(byte(f.Kind))
	w.WriteUint32(f.Object)
	switch f.Kind {
	case FrameAttribute:
		_ = w.WriteByte(byte(f.Attribute))
		w.WriteFloat64(f.Value)
	case FrameContext:
		w.WriteBlob(f.Context)
	}
	return bytes.Clone(w.Bytes())
}

// DecodeFrame parses one frame.
func DecodeFrame(data []byte) (Frame, error) {
	r := wire.NewReader(data)

	kind, err := r.ReadByte()
	if err != nil {
		return Frame{}, fmt.Errorf("reading frame kind: %w", err)
	}
	f := Frame{Kind: FrameKind(kind)}
	if f.Object, err = r.ReadUint32(); err != nil {
		return f, fmt.Errorf("reading frame object: %w", err)
	}

	switch f.Kind {
	case FrameAttribute:
		id, err := r.ReadByte()
		if err != nil {
			return f, fmt.Errorf("reading attribute id: %w", err)
		}
		f.Attribute = attribute.ID(id)
		if !f.Attribute.Valid() {
			return f, fmt.Errorf("invalid attribute id %d", id)
		}
		if f.Value, err = r.ReadFloat64(); err != nil {
			return f, fmt.Errorf("reading attribute value: %w", err)
		}
	case FrameContext:
		blob, err := r.ReadBlob()
		if err != nil {
			return f, fmt.Errorf("reading effect context: %w", err)
		}
		f.Context = bytes.Clone(blob)
	case FrameDespawn:
	default:
		return f, fmt.Errorf("unknown frame kind 0x%02X", kind)
	}
	return f, nil
}
