package replication

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/magecombat/internal/attribute"
	"github.com/udisondev/magecombat/internal/effectctx"
	"github.com/udisondev/magecombat/internal/model"
)

func TestFrameRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
	}{
		{"attribute", Frame{Kind: FrameAttribute, Object: 7, Attribute: attribute.Health, Value: 78.5}},
		{"context", Frame{Kind: FrameContext, Object: 9, Context: []byte{0x01, 0x02, 0x03}}},
		{"despawn", Frame{Kind: FrameDespawn, Object: 11}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeFrame(tt.frame.Encode())
			require.NoError(t, err)
			assert.Equal(t, tt.frame, got)
		})
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"no object", []byte{byte(FrameAttribute), 0x01}},
		{"unknown kind", []byte{0x7F, 1, 0, 0, 0}},
		{"bad attribute", []byte{byte(FrameAttribute), 1, 0, 0, 0, byte(attribute.Count)}},
		{"short value", []byte{byte(FrameAttribute), 1, 0, 0, 0, byte(attribute.Health), 0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFrame(tt.data)
			assert.Error(t, err)
		})
	}
}

func newStore() *attribute.Store {
	s := attribute.NewStore(1)
	s.ApplyDefaults(attribute.Defaults{Strength: 10, Intelligence: 2, Stamina: 5, Vigor: 3})
	return s
}

// drain applies every queued frame to the replica.
func drain(t *testing.T, ch <-chan []byte, r *Replica) int {
	t.Helper()
	n := 0
	for {
		select {
		case raw := <-ch:
			require.NoError(t, r.Apply(raw))
			n++
		default:
			return n
		}
	}
}

func TestReplicaMirrorsStore(t *testing.T) {
	pub := NewPublisher(1024)
	frames, cancel := pub.Subscribe()
	defer cancel()

	const id model.ObjectID = model.ObjectIDPlayerStart + 1
	store := newStore()
	pub.Track(id, store)

	store.SetBase(attribute.Health, 50)
	store.SetBase(attribute.Strength, 12)

	replica := NewReplica()
	drain(t, frames, replica)

	for a := attribute.ID(0); a < attribute.Count; a++ {
		got, ok := replica.Projection().Value(id, a)
		require.True(t, ok)
		if a.IsMeta() {
			assert.Zero(t, got, a.String())
			continue
		}
		assert.Equal(t, store.Current(a), got, a.String())
	}
	assert.Equal(t, []model.ObjectID{id}, replica.Projection().Objects())
}

func TestMetaChannelsAreNotReplicated(t *testing.T) {
	pub := NewPublisher(64)
	frames, cancel := pub.Subscribe()
	defer cancel()

	store := newStore()
	pub.Track(1, store)
	for len(frames) > 0 {
		<-frames
	}

	store.WriteMeta(attribute.MetaDamage, 10, func(float64) {})
	assert.Empty(t, frames)
}

func TestContextFrame(t *testing.T) {
	pub := NewPublisher(8)
	frames, cancel := pub.Subscribe()
	defer cancel()

	ctx := effectctx.New(3, 3)
	ctx.IsCritical = true
	ctx.SetDamageType(model.DamageTypeFire)
	pub.PublishContext(5, ctx)
	pub.PublishContext(5, nil)

	replica := NewReplica()
	require.Equal(t, 1, drain(t, frames, replica))

	got := replica.Projection().LastContext(5)
	require.NotNil(t, got)
	assert.True(t, got.IsCritical)
	assert.Equal(t, model.DamageTypeFire, got.GetDamageType())
	assert.Nil(t, replica.Projection().LastContext(6))
}

func TestUntrackDespawns(t *testing.T) {
	pub := NewPublisher(1024)
	frames, cancel := pub.Subscribe()
	defer cancel()

	store := newStore()
	pub.Track(1, store)
	replica := NewReplica()
	drain(t, frames, replica)

	pub.Untrack(1)
	drain(t, frames, replica)
	_, ok := replica.Projection().Value(1, attribute.Health)
	assert.False(t, ok)

	store.SetBase(attribute.Health, 1)
	assert.Zero(t, drain(t, frames, replica), "untracked store must not publish")
}

func TestFullQueueDrops(t *testing.T) {
	pub := NewPublisher(1)
	frames, cancel := pub.Subscribe()
	defer cancel()

	pub.PublishContext(1, effectctx.New(1, 1))
	pub.PublishContext(1, effectctx.New(1, 1))
	pub.PublishContext(1, effectctx.New(1, 1))

	assert.Len(t, frames, 1)
	assert.Equal(t, uint64(2), pub.Dropped())
}

func TestCancelAndClose(t *testing.T) {
	pub := NewPublisher(4)
	a, cancelA := pub.Subscribe()
	b, _ := pub.Subscribe()

	cancelA()
	cancelA()
	_, ok := <-a
	assert.False(t, ok)

	pub.Close()
	_, ok = <-b
	assert.False(t, ok)

	c, _ := pub.Subscribe()
	_, ok = <-c
	assert.False(t, ok, "subscribe after close returns a closed channel")
}

func TestReplicaRun(t *testing.T) {
	frames := make(chan []byte, 2)
	frames <- Frame{Kind: FrameAttribute, Object: 4, Attribute: attribute.Mana, Value: 12}.Encode()
	frames <- []byte{0xFF}
	close(frames)

	replica := NewReplica()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, replica.Run(ctx, frames))

	got, ok := replica.Projection().Value(4, attribute.Mana)
	require.True(t, ok)
	assert.Equal(t, 12.0, got)
}
