package algo

import (
	"context"
	"time"
)

// CancelFunc 取消一次尚未执行的帧回调
type CancelFunc func()

// Scheduler 类似 requestAnimationFrame 的调度能力: 在下一帧调用 cb(时间戳毫秒)
type Scheduler interface {
	RequestTick(cb func(timestampMs float64)) CancelFunc
}

// Clock 单调时钟 (毫秒)
type Clock interface {
	NowMs() float64
}

// ClockFunc 把函数适配为 Clock
type ClockFunc func() float64

// NowMs 实现 Clock
func (f ClockFunc) NowMs() float64 { return f() }

type tickRequest struct {
	cb        func(float64)
	cancelled bool
}

// ManualScheduler 手动驱动的调度器: 由调用方决定何时 Fire 下一帧
// 用于测试和命令行离线模拟
type ManualScheduler struct {
	pending []*tickRequest
}

// RequestTick 实现 Scheduler
func (s *ManualScheduler) RequestTick(cb func(float64)) CancelFunc {
	req := &tickRequest{cb: cb}
	s.pending = append(s.pending, req)
	return func() { req.cancelled = true }
}

// Pending 尚未执行且未取消的回调数量
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, req := range s.pending {
		if !req.cancelled {
			n++
		}
	}
	return n
}

// Fire 以给定时间戳执行当前挂起的回调，回调中新请求的帧留到下一次 Fire
func (s *ManualScheduler) Fire(timestampMs float64) int {
	batch := s.pending
	s.pending = nil
	fired := 0
	for _, req := range batch {
		if req.cancelled {
			continue
		}
		req.cancelled = true
		req.cb(timestampMs)
		fired++
	}
	return fired
}

// FrameLoop 生产环境的帧循环
//
// 帧回调和外部命令都在 Run 所在的 goroutine 上执行，
// 因此导航状态和视口状态永远不会被并发修改
type FrameLoop struct {
	ManualScheduler
	interval time.Duration
	origin   time.Time
}

// NewFrameLoop 创建帧循环，interval 为帧间隔 (默认约 60fps)
func NewFrameLoop(interval time.Duration) *FrameLoop {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &FrameLoop{interval: interval, origin: time.Now()}
}

// NowMs 自创建以来经过的毫秒数 (单调)
func (l *FrameLoop) NowMs() float64 {
	return float64(time.Since(l.origin)) / float64(time.Millisecond)
}

// Run 阻塞运行帧循环，直到 ctx 结束或 commands 被关闭
func (l *FrameLoop) Run(ctx context.Context, commands <-chan func()) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-commands:
			if !ok {
				return
			}
			cmd()
		case <-ticker.C:
			if l.Pending() > 0 {
				l.Fire(l.NowMs())
			}
		}
	}
}
