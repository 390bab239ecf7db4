package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestSendRateLimiter_AllowsUpToMax(t *testing.T) {
	limiter := NewSendRateLimiter(time.Minute, 3)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("u1") {
			t.Fatalf("expected send %d allowed", i+1)
		}
	}
	if limiter.Allow("u1") {
		t.Fatalf("expected send over max denied")
	}
	// Otro usuario tiene su propia cuota.
	if !limiter.Allow("u2") {
		t.Fatalf("expected independent quota per user")
	}
}

func TestSendRateLimiter_WindowExpiry(t *testing.T) {
	limiter := NewSendRateLimiter(30*time.Millisecond, 1)

	if !limiter.Allow("u1") {
		t.Fatalf("expected first send allowed")
	}
	if limiter.Allow("u1") {
		t.Fatalf("expected second send denied inside window")
	}
	time.Sleep(50 * time.Millisecond)
	if !limiter.Allow("u1") {
		t.Fatalf("expected send allowed after window")
	}
}

func TestSendRateLimiter_EmptyUser(t *testing.T) {
	limiter := NewSendRateLimiter(time.Minute, 3)
	if limiter.Allow("  ") {
		t.Fatalf("expected blank user denied")
	}
}

type mockRedisEvaler struct {
	count   int64
	err     error
	lastKey string
}

func (m *mockRedisEvaler) Eval(ctx context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	if len(keys) > 0 {
		m.lastKey = keys[0]
	}
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.count)
	return cmd
}

func TestRedisSendRateLimiter_Allow(t *testing.T) {
	mock := &mockRedisEvaler{count: 2}
	limiter := &redisSendRateLimiter{
		client: mock,
		window: time.Minute,
		max:    3,
		prefix: "chat:send:rl:",
	}

	if !limiter.Allow(" u1 ") {
		t.Fatalf("expected count under max allowed")
	}
	if mock.lastKey != "chat:send:rl:u1" {
		t.Fatalf("unexpected key %q", mock.lastKey)
	}

	mock.count = 4
	if limiter.Allow("u1") {
		t.Fatalf("expected count over max denied")
	}
}

func TestRedisSendRateLimiter_FailsOpen(t *testing.T) {
	limiter := &redisSendRateLimiter{
		client: &mockRedisEvaler{err: errors.New("redis down")},
		window: time.Minute,
		max:    1,
		prefix: "chat:send:rl:",
	}
	if !limiter.Allow("u1") {
		t.Fatalf("expected allow when redis unavailable")
	}
	if limiter.Allow("") {
		t.Fatalf("expected blank user denied")
	}
}
