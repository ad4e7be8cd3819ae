package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestBackendsRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem, err := NewMemoryCache(8)
	if err != nil {
		t.Fatal(err)
	}
	file, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	backends := map[string]Cache{
		"memory": mem,
		"file":   file,
		"redis":  NewRedisCache(newFakeRedis()),
	}

	for name, c := range backends {
		t.Run(name, func(t *testing.T) {
			defer c.Close()

			if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
				t.Fatalf("Get on empty cache: hit=%v err=%v", hit, err)
			}
			if err := c.Set(ctx, "k", []byte("svg"), time.Hour); err != nil {
				t.Fatalf("Set: %v", err)
			}
			data, hit, err := c.Get(ctx, "k")
			if err != nil || !hit || string(data) != "svg" {
				t.Fatalf("Get = %q, %v, %v", data, hit, err)
			}
			if err := c.Delete(ctx, "k"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, hit, _ := c.Get(ctx, "k"); hit {
				t.Error("Get after Delete hit")
			}
			if err := c.Delete(ctx, "missing"); err != nil {
				t.Errorf("Delete(missing): %v", err)
			}
		})
	}
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c, err := NewMemoryCache(2)
	if err != nil {
		t.Fatal(err)
	}
	c.Set(ctx, "a", []byte("1"), 0)
	c.Set(ctx, "b", []byte("2"), 0)
	c.Get(ctx, "a")
	c.Set(ctx, "c", []byte("3"), 0)

	if _, hit, _ := c.Get(ctx, "b"); hit {
		t.Error("b should have been evicted")
	}
	if _, hit, _ := c.Get(ctx, "a"); !hit {
		t.Error("a was used recently and should remain")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewMemoryCache(4)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	c.Set(ctx, "k", []byte("v"), time.Minute)
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be removed, Len() = %d", c.Len())
	}
}

func TestMemoryCacheCopies(t *testing.T) {
	ctx := context.Background()
	c, _ := NewMemoryCache(4)
	data := []byte("abc")
	c.Set(ctx, "k", data, 0)
	data[0] = 'x'

	got, _, _ := c.Get(ctx, "k")
	if string(got) != "abc" {
		t.Errorf("cached value changed with caller slice: %q", got)
	}
}

func TestNewMemoryCacheRejectsZeroSize(t *testing.T) {
	if _, err := NewMemoryCache(0); err == nil {
		t.Error("NewMemoryCache(0) should fail")
	}
}

func TestFileCacheExpiredEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired file entry should miss")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Get after Clear hit")
	}
}

type fakeRedis struct {
	data map[string]string
	err  error
}

func newFakeRedis() *fakeRedis { return &fakeRedis{data: make(map[string]string)} }

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = string(value.([]byte))
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(f.data, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestRedisCacheNetworkErrorsAreRetryable(t *testing.T) {
	ctx := context.Background()
	client := newFakeRedis()
	client.err = errors.New("connection refused")
	c := NewRedisCache(client)

	_, _, err := c.Get(ctx, "k")
	if !IsRetryable(err) || !errors.Is(err, ErrNetwork) {
		t.Errorf("Get error = %v, want retryable network error", err)
	}
	if err := c.Set(ctx, "k", nil, 0); !IsRetryable(err) {
		t.Errorf("Set error = %v, want retryable", err)
	}
}
