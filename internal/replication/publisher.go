package replication

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/udisondev/magecombat/internal/attribute"
	"github.com/udisondev/magecombat/internal/effectctx"
	"github.com/udisondev/magecombat/internal/model"
)

// Publisher turns authoritative state changes into frames and fans them out
// to subscribers. Sends never block the simulation: a full subscriber queue
// drops the frame.
type Publisher struct {
	mu        sync.Mutex
	subs      map[int]chan []byte
	nextSub   int
	queueSize int
	closed    bool

	tracked map[model.ObjectID][]func()

	dropped atomic.Uint64
}

// NewPublisher creates a publisher with per-subscriber queue capacity.
func NewPublisher(queueSize int) *Publisher {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Publisher{
		subs:      make(map[int]chan []byte),
		queueSize: queueSize,
		tracked:   make(map[model.ObjectID][]func()),
	}
}

// Subscribe returns a frame channel and a cancel function.
func (p *Publisher) Subscribe() (<-chan []byte, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan []byte, p.queueSize)
	if p.closed {
		close(ch)
		return ch, func() {}
	}
	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			if c, ok := p.subs[id]; ok {
				delete(p.subs, id)
				close(c)
			}
		})
	}
}

// Track publishes the current non-meta attributes of store and every
// later change to them.
func (p *Publisher) Track(id model.ObjectID, store *attribute.Store) {
	p.Untrack(id)

	unsubs := make([]func(), 0, attribute.Count)
	for a := attribute.ID(0); a < attribute.Count; a++ {
		if a.IsMeta() {
			continue
		}
		p.publish(Frame{Kind: FrameAttribute, Object: id, Attribute: a, Value: store.Current(a)})
		unsubs = append(unsubs, store.Subscribe(a, func(_, v float64) {
			p.publish(Frame{Kind: FrameAttribute, Object: id, Attribute: a, Value: v})
		}))
	}

	p.mu.Lock()
	p.tracked[id] = unsubs
	p.mu.Unlock()
}

// Untrack stops publishing id and tells replicas it despawned.
func (p *Publisher) Untrack(id model.ObjectID) {
	p.mu.Lock()
	unsubs, ok := p.tracked[id]
	delete(p.tracked, id)
	p.mu.Unlock()

	if !ok {
		return
	}
	for _, unsubscribe := range unsubs {
		unsubscribe()
	}
	p.publish(Frame{Kind: FrameDespawn, Object: id})
}

// PublishContext publishes the effect context of one application on target.
func (p *Publisher) PublishContext(target model.ObjectID, ctx *effectctx.Context) {
	if ctx == nil {
		return
	}
	p.publish(Frame{Kind: FrameContext, Object: target, Context: effectctx.Encode(ctx)})
}

// Dropped returns how many frames were dropped on full queues.
func (p *Publisher) Dropped() uint64 {
	return p.dropped.Load()
}

// Close closes every subscriber channel.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for id, ch := range p.subs {
		close(ch)
		delete(p.subs, id)
	}
}

func (p *Publisher) publish(f Frame) {
	raw := f.Encode()

	p.mu.Lock()
	defer p.mu.Unlock()
	for id, ch := range p.subs {
		select {
		case ch <- raw:
		default:
			p.dropped.Add(1)
			slog.Warn("replication queue full, frame dropped",
				"subscriber", id,
				"kind", f.Kind,
				"object", f.Object)
		}
	}
}
