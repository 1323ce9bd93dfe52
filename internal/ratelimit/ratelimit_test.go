package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestKeyedRateLimiterAllow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{
			name:     "burst allows initial requests",
			rps:      1,
			burst:    3,
			calls:    3,
			wantPass: 3,
		},
		{
			name:     "exceeding burst blocks",
			rps:      1,
			burst:    2,
			calls:    5,
			wantPass: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst)

			passed := 0
			for range tt.calls {
				if rl.Allow("client") {
					passed++
				}
			}

			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeyedRateLimiterIndependentKeys(t *testing.T) {
	rl := New(1, 1)

	rl.Allow("key1")
	if rl.Allow("key1") {
		t.Error("key1 should be exhausted")
	}

	if !rl.Allow("key2") {
		t.Error("key2 should be independent and allowed")
	}
}

func TestKeyedRateLimiterWaitContextCancelled(t *testing.T) {
	rl := New(0.1, 1) // 1 request per 10 seconds

	// Exhaust the burst.
	rl.Allow("client")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx, "client"); err == nil {
		t.Error("Wait() should fail when context canceled")
	}
}
