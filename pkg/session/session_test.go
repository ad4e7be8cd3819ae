package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/hoverfx/pkg/errors"
	"github.com/matzehuels/hoverfx/pkg/fx"
)

type fakeRedis struct {
	mu   sync.Mutex
	data map[string][]byte
	ttl  map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte), ttl: make(map[string]time.Duration)}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value.([]byte)
	f.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
		"redis":  NewRedisStore(newFakeRedis(), ""),
	}
}

func hovered() fx.Session {
	return fx.Session{
		HoverData: []fx.EventPoint{{CurveNumber: 1, PointNumber: 4, XAxis: "x", YAxis: "y"}},
		Spikes:    fx.SpikePoints{V: &fx.SpikePoint{XAxis: "x", YAxis: "y", X: 120, Y: 40, PointNumber: 4}},
	}
}

func TestStores(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := store.Get(ctx, "missing")
			if err != nil || got != nil {
				t.Fatalf("Get(missing) = %v, %v; want nil, nil", got, err)
			}

			snap := New("client-1", "fig", DefaultTTL)
			snap.Update(hovered(), DefaultTTL)
			if err := store.Set(ctx, snap); err != nil {
				t.Fatalf("Set: %v", err)
			}

			got, err = store.Get(ctx, "client-1")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got == nil {
				t.Fatal("Get returned nil after Set")
			}
			if got.FigureID != "fig" {
				t.Errorf("FigureID = %q, want fig", got.FigureID)
			}
			if len(got.State.HoverData) != 1 || got.State.HoverData[0].PointNumber != 4 {
				t.Errorf("HoverData = %+v", got.State.HoverData)
			}
			if !got.State.Spikes.V.Equal(hovered().Spikes.V) {
				t.Errorf("V spike = %+v", got.State.Spikes.V)
			}

			if err := store.Delete(ctx, "client-1"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if got, _ := store.Get(ctx, "client-1"); got != nil {
				t.Error("Get after Delete returned a snapshot")
			}
		})
	}
}

func TestStoresDropExpired(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			snap := New("old", "", time.Hour)
			if err := store.Set(ctx, snap); err != nil {
				t.Fatalf("Set: %v", err)
			}
			snap.ExpiresAt = time.Now().Add(-time.Second)
			if err := store.Set(ctx, snap); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if got, err := store.Get(ctx, "old"); err != nil || got != nil {
				t.Errorf("Get(expired) = %v, %v; want nil, nil", got, err)
			}
			if err := store.Cleanup(ctx); err != nil {
				t.Errorf("Cleanup: %v", err)
			}
		})
	}
}

func TestStoresRejectBadIDs(t *testing.T) {
	ctx := context.Background()
	for name, store := range stores(t) {
		if name == "memory" {
			continue
		}
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, "../escape")
			if !errors.Is(err, errors.ErrCodeInvalidID) {
				t.Errorf("Get(../escape) err = %v, want INVALID_ID", err)
			}
		})
	}
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	snap := New("a", "", DefaultTTL)
	snap.State = hovered()
	if err := store.Set(ctx, snap); err != nil {
		t.Fatal(err)
	}
	snap.State.HoverData[0].PointNumber = 99

	got, _ := store.Get(ctx, "a")
	if got.State.HoverData[0].PointNumber != 4 {
		t.Errorf("stored snapshot shares HoverData with the caller")
	}
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.Set(ctx, New("live", "", time.Hour))
	expired := New("dead", "", time.Hour)
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	store.Set(ctx, expired)

	if err := store.Cleanup(ctx); err != nil {
		t.Fatal(err)
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d after Cleanup, want 1", store.Len())
	}
}

func TestRedisStoreTTL(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	store := NewRedisStore(client, "test:")
	if err := store.Set(ctx, New("a", "", time.Hour)); err != nil {
		t.Fatal(err)
	}
	ttl, ok := client.ttl["test:a"]
	if !ok {
		t.Fatal("key test:a not written")
	}
	if ttl <= 59*time.Minute || ttl > time.Hour {
		t.Errorf("ttl = %v, want about an hour", ttl)
	}
}

func TestNewGeneratesID(t *testing.T) {
	a, b := New("", "", DefaultTTL), New("", "", DefaultTTL)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("generated IDs %q and %q", a.ID, b.ID)
	}
	if err := errors.ValidateID(a.ID); err != nil {
		t.Errorf("generated ID invalid: %v", err)
	}
}
