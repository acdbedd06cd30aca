package quiz

import (
	"testing"
	"time"
)

func TestCountdownExpiresExactlyOnce(t *testing.T) {
	fired := make(chan struct{}, 4)
	c := NewCountdown(3, time.Millisecond, func() {
		fired <- struct{}{}
	})
	c.Start()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown never expired")
	}

	// 归零后不再触发
	select {
	case <-fired:
		t.Fatal("expiry fired more than once")
	case <-time.After(20 * time.Millisecond):
	}
	if c.Remaining() != 0 {
		t.Fatalf("remaining = %d, want 0", c.Remaining())
	}
	if c.Active() {
		t.Fatal("countdown still active after expiry")
	}
}

func TestCountdownStopPreventsExpiry(t *testing.T) {
	fired := make(chan struct{}, 1)
	c := NewCountdown(60, 10*time.Millisecond, func() {
		fired <- struct{}{}
	})
	c.Start()
	c.Stop()
	c.Stop() // 重复停止是空操作

	select {
	case <-fired:
		t.Fatal("stopped countdown fired expiry")
	case <-time.After(50 * time.Millisecond):
	}
	if c.Active() {
		t.Fatal("countdown active after stop")
	}
}

func TestCountdownRestartRearmsFullDuration(t *testing.T) {
	c := NewCountdown(30, time.Hour, nil)
	c.Start()

	c.mu.Lock()
	c.remaining = 5
	c.mu.Unlock()

	c.Restart()
	if got := c.Remaining(); got != 30 {
		t.Fatalf("remaining after restart = %d, want 30", got)
	}
	c.Stop()
}

func TestCountdownTickCountsDown(t *testing.T) {
	c := NewCountdown(2, time.Hour, nil)
	c.Start()

	if expired, _ := c.tick(); expired {
		t.Fatal("expired after one tick of two")
	}
	if got := c.Remaining(); got != 1 {
		t.Fatalf("remaining = %d, want 1", got)
	}
	expired, cb := c.tick()
	if !expired {
		t.Fatal("not expired after final tick")
	}
	if cb != nil {
		// onExpire 为 nil 时也应干净收尾
		t.Fatal("unexpected callback")
	}
}
