package sidebar

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ziadkadry99/booknav/internal/logging"
)

func TestMemoryStoreTake(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, ok, err := s.Take(ctx, "k"); ok || err != nil {
		t.Fatalf("Take on empty store = %v, %v", ok, err)
	}
	_ = s.Set(ctx, "k", "42")
	v, ok, err := s.Take(ctx, "k")
	if err != nil || !ok || v != "42" {
		t.Fatalf("Take = %q, %v, %v; want 42", v, ok, err)
	}
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Error("value still present after Take")
	}
}

func TestMemoryStoreTakeIsExclusive(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.Set(ctx, DefaultScrollKey, "300")

	var hits atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := New(foldedMarkup, Config{PathToRoot: "../"}, s, logging.Discard())
			p, err := c.Mount(ctx, bookRoot+"chap01/Overview.html")
			if err != nil {
				t.Errorf("Mount: %v", err)
				return
			}
			if p.Restore() == RestoreOffset {
				hits.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := hits.Load(); got != 1 {
		t.Errorf("offset restored %d times, want 1", got)
	}
}
