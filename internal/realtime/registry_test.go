package realtime

import (
	"sync"
	"testing"
)

type fakeChannel struct {
	mu       sync.Mutex
	payloads [][]byte
	closed   bool
	sendErr  error
}

func (c *fakeChannel) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	c.payloads = append(c.payloads, payload)
	return nil
}

func (c *fakeChannel) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *fakeChannel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func TestRegistry_RegisterLookupUnregister(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Lookup("u1"); ok {
		t.Fatalf("expected no channel before register")
	}

	ch := &fakeChannel{}
	r.Register("u1", ch)
	got, ok := r.Lookup("u1")
	if !ok || got != Channel(ch) {
		t.Fatalf("expected registered channel")
	}

	r.Unregister("u1", ch)
	if _, ok := r.Lookup("u1"); ok {
		t.Fatalf("expected channel removed")
	}
}

func TestRegistry_ReplaceClosesPrevious(t *testing.T) {
	r := NewRegistry()

	first := &fakeChannel{}
	second := &fakeChannel{}
	r.Register("u1", first)
	r.Register("u1", second)

	if !first.isClosed() {
		t.Fatalf("expected replaced channel closed")
	}
	got, ok := r.Lookup("u1")
	if !ok || got != Channel(second) {
		t.Fatalf("expected replacement channel active")
	}
}

func TestRegistry_UnregisterIgnoresStaleChannel(t *testing.T) {
	r := NewRegistry()

	stale := &fakeChannel{}
	current := &fakeChannel{}
	r.Register("u1", stale)
	r.Register("u1", current)

	// El unregister tardío de la conexión reemplazada no debe tirar la nueva.
	r.Unregister("u1", stale)
	if _, ok := r.Lookup("u1"); !ok {
		t.Fatalf("expected current channel to survive stale unregister")
	}
}

func TestRegistry_Shutdown(t *testing.T) {
	r := NewRegistry()
	chans := []*fakeChannel{{}, {}, {}}
	for i, ch := range chans {
		r.Register(string(rune('a'+i)), ch)
	}

	r.Shutdown()

	for i, ch := range chans {
		if !ch.isClosed() {
			t.Fatalf("expected channel %d closed on shutdown", i)
		}
	}
	if _, ok := r.Lookup("a"); ok {
		t.Fatalf("expected registry emptied")
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := &fakeChannel{}
			r.Register("u1", ch)
			r.Lookup("u1")
			r.Unregister("u1", ch)
		}()
	}
	wg.Wait()
}
