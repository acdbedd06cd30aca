package quiz

import (
	"sync"
	"time"
)

// Countdown 单题倒计时。启动后每个 tick 递减一秒，归零时恰好回调一次 onExpire。
// Stop 之后不会再触发回调，重复 Stop 是空操作；Restart 重新装满整段时长。
type Countdown struct {
	mu        sync.Mutex
	seconds   int
	remaining int
	interval  time.Duration
	active    bool
	stopCh    chan struct{}
	onExpire  func()
}

// NewCountdown interval 为一个 tick 的真实时长，生产环境传 time.Second
func NewCountdown(seconds int, interval time.Duration, onExpire func()) *Countdown {
	return &Countdown{
		seconds:  seconds,
		interval: interval,
		onExpire: onExpire,
	}
}

// Start 装满整段时长并开始计时，对已启动的计时器是空操作
func (c *Countdown) Start() {
	c.mu.Lock()
	if c.active {
		c.mu.Unlock()
		return
	}
	c.remaining = c.seconds
	c.active = true
	stopCh := make(chan struct{})
	c.stopCh = stopCh
	c.mu.Unlock()

	go c.run(stopCh)
}

func (c *Countdown) run(stopCh chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if expired, cb := c.tick(); expired {
				if cb != nil {
					cb()
				}
				return
			}
		case <-stopCh:
			return
		}
	}
}

// tick 递减一秒。归零时停表并返回待执行的过期回调，保证回调只被取走一次。
func (c *Countdown) tick() (bool, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return true, nil
	}
	c.remaining--
	if c.remaining > 0 {
		return false, nil
	}
	c.remaining = 0
	c.active = false
	return true, c.onExpire
}

// Stop 停止计时且不触发过期回调，重复调用是空操作
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return
	}
	c.active = false
	close(c.stopCh)
}

// Restart 等价于 Stop 后重新 Start，重新装满整段时长
func (c *Countdown) Restart() {
	c.Stop()
	c.Start()
}

// Remaining 当前剩余秒数
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return 0
	}
	return c.remaining
}

// Active 计时器是否在走
func (c *Countdown) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}
