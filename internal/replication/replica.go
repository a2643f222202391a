package replication

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/udisondev/magecombat/internal/attribute"
	"github.com/udisondev/magecombat/internal/effectctx"
	"github.com/udisondev/magecombat/internal/model"
)

// Projection is the read-only view a replica keeps of replicated objects.
// It is safe for concurrent readers.
type Projection struct {
	mu       sync.RWMutex
	attrs    map[model.ObjectID]*[attribute.Count]float64
	contexts map[model.ObjectID]*effectctx.Context
}

func newProjection() *Projection {
	return &Projection{
		attrs:    make(map[model.ObjectID]*[attribute.Count]float64),
		contexts: make(map[model.ObjectID]*effectctx.Context),
	}
}

// Value returns the last replicated value of an attribute.
func (p *Projection) Value(id model.ObjectID, attr attribute.ID) (float64, bool) {
	if !attr.Valid() {
		return 0, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	values, ok := p.attrs[id]
	if !ok {
		return 0, false
	}
	return values[attr], true
}

// LastContext returns a copy of the last effect context applied to id.
func (p *Projection) LastContext(id model.ObjectID) *effectctx.Context {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.contexts[id].Clone()
}

// Objects returns replicated object IDs in ascending order.
func (p *Projection) Objects() []model.ObjectID {
	p.mu.RLock()
	ids := make([]model.ObjectID, 0, len(p.attrs))
	for id := range p.attrs {
		ids = append(ids, id)
	}
	p.mu.RUnlock()
	slices.Sort(ids)
	return ids
}

// Replica applies frames to a Projection. It never rolls, calculates or
// writes back: it only mirrors what the publisher sent.
type Replica struct {
	proj *Projection
}

// NewReplica creates a replica with an empty projection.
func NewReplica() *Replica {
	return &Replica{proj: newProjection()}
}

// Projection returns the replica's view.
func (r *Replica) Projection() *Projection {
	return r.proj
}

// Apply decodes and projects one frame.
func (r *Replica) Apply(raw []byte) error {
	f, err := DecodeFrame(raw)
	if err != nil {
		return fmt.Errorf("decoding frame: %w", err)
	}

	p := r.proj
	switch f.Kind {
	case FrameAttribute:
		p.mu.Lock()
		values, ok := p.attrs[f.Object]
		if !ok {
			values = new([attribute.Count]float64)
			p.attrs[f.Object] = values
		}
		values[f.Attribute] = f.Value
		p.mu.Unlock()

	case FrameContext:
		c, err := effectctx.Decode(f.Context)
		if err != nil {
			return fmt.Errorf("decoding effect context for object %d: %w", f.Object, err)
		}
		p.mu.Lock()
		p.contexts[f.Object] = c
		p.mu.Unlock()

	case FrameDespawn:
		p.mu.Lock()
		delete(p.attrs, f.Object)
		delete(p.contexts, f.Object)
		p.mu.Unlock()
	}
	return nil
}

// Run applies frames until the channel closes or ctx is cancelled.
// Malformed frames are logged and skipped.
func (r *Replica) Run(ctx context.Context, frames <-chan []byte) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case raw, ok := <-frames:
			if !ok {
				return nil
			}
			if err := r.Apply(raw); err != nil {
				slog.Warn("replica dropped frame", "error", err)
			}
		}
	}
}
