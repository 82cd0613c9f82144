package ratelimiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllow_ConsumesCapacity(t *testing.T) {
	l := New(0.001, 2, time.Hour) // effectively no refill during the test
	defer l.Stop()

	assert.True(t, l.Allow("user-a"))
	assert.True(t, l.Allow("user-a"))
	assert.False(t, l.Allow("user-a"), "third request should exceed capacity")
}

func TestAllow_IdentitiesAreIndependent(t *testing.T) {
	l := New(0.001, 1, time.Hour)
	defer l.Stop()

	assert.True(t, l.Allow("user-a"))
	assert.False(t, l.Allow("user-a"))
	assert.True(t, l.Allow("user-b"), "user-b has its own bucket")
}

func TestAllow_Refills(t *testing.T) {
	l := New(100, 1, time.Hour) // 100 tokens/s, refills within 10ms
	defer l.Stop()

	assert.True(t, l.Allow("user-a"))
	assert.False(t, l.Allow("user-a"))

	time.Sleep(50 * time.Millisecond)
	assert.True(t, l.Allow("user-a"), "bucket should refill after waiting")
}

func TestBucketExpiration(t *testing.T) {
	l := New(1, 1, 20*time.Millisecond)
	defer l.Stop()

	l.Allow("user-a")
	time.Sleep(100 * time.Millisecond)

	l.mu.RLock()
	_, exists := l.buckets["user-a"]
	l.mu.RUnlock()
	assert.False(t, exists, "idle bucket should have been cleaned up")
}
