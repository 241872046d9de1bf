package algo

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"campus-navi/model"
	"campus-navi/utils"
)

// State 导航会话状态
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText 以字符串形式输出到 JSON
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// 模拟器错误
var (
	ErrEmptyPath          = errors.New("path must contain at least one point")
	ErrInvalidPath        = errors.New("path contains non-finite coordinates")
	ErrSessionActive      = errors.New("navigation already in progress, stop it first")
	ErrNotRunning         = errors.New("navigation is not running")
	ErrNotPaused          = errors.New("navigation is not paused")
	ErrClockWentBackwards = errors.New("tick timestamp earlier than previous tick")
)

// Frame 每一帧推送给界面的数据
type Frame struct {
	Position  model.Point      `json:"position"`
	Heading   float64          `json:"heading"`
	Progress  float64          `json:"progress"` // 0-100
	ElapsedMs float64          `json:"elapsed_ms"`
	State     State            `json:"state"`
	Transform *model.Transform `json:"transform,omitempty"` // 仅在镜头跟随时携带
}

// NavigationSession 模拟器内部状态的只读快照
type NavigationSession struct {
	Path          model.Path  `json:"path"`
	Length        float64     `json:"length"`
	Baseline      float64     `json:"baseline"`
	PausedElapsed float64     `json:"paused_elapsed"`
	Progress      float64     `json:"progress"`
	Position      model.Point `json:"position"`
	Heading       float64     `json:"heading"`
	State         State       `json:"state"`
}

// Options 模拟器参数
type Options struct {
	Speed     float64   // 画布单位/毫秒，<= 0 时使用 model.SimulatedSpeed
	Clock     Clock     // 为空时使用进程内单调时钟
	Scheduler Scheduler // 为空时不自动调度，由调用方直接 Tick
}

type listener struct {
	id int
	fn func(Frame)
}

// RouteSimulator 沿路径以恒定速度移动标记的状态机
//
//	Idle -> Running -> (Paused <-> Running) -> Completed
//	任意状态 --Stop--> Idle
type RouteSimulator struct {
	speed float64
	clock Clock
	sched Scheduler

	state         State
	path          model.Path
	length        float64
	baseline      float64
	pausedElapsed float64
	lastTick      float64
	elapsed       float64
	progress      float64
	position      model.Point
	heading       float64

	origin    model.Point // 最近一次选择的起点
	hasOrigin bool

	cancel    CancelFunc
	listeners []listener
	nextID    int
}

// NewRouteSimulator 创建空闲状态的模拟器
func NewRouteSimulator(opts Options) *RouteSimulator {
	if opts.Speed <= 0 {
		opts.Speed = model.SimulatedSpeed
	}
	if opts.Clock == nil {
		origin := time.Now()
		opts.Clock = ClockFunc(func() float64 {
			return float64(time.Since(origin)) / float64(time.Millisecond)
		})
	}
	return &RouteSimulator{
		speed: opts.Speed,
		clock: opts.Clock,
		sched: opts.Scheduler,
	}
}

// Speed 模拟速度
func (s *RouteSimulator) Speed() float64 { return s.speed }

// State 当前状态
func (s *RouteSimulator) State() State { return s.state }

// Active 是否有正在进行 (运行或暂停) 的导航
func (s *RouteSimulator) Active() bool {
	return s.state == StateRunning || s.state == StatePaused
}

// Origin 最近选择的起点
func (s *RouteSimulator) Origin() (model.Point, bool) { return s.origin, s.hasOrigin }

// SelectStart 记录用户选择的起点
// 空闲或已完成时标记立即移到该点；运行中只更新记录，Stop 时回到这里
func (s *RouteSimulator) SelectStart(p model.Point) {
	s.origin = p
	s.hasOrigin = true
	if !s.Active() {
		s.position = p
		s.emit()
	}
}

// Subscribe 订阅每帧更新，返回取消订阅函数
func (s *RouteSimulator) Subscribe(fn func(Frame)) func() {
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Start 开始沿 path 导航
// 先校验，再修改状态: 失败时会话保持原样
func (s *RouteSimulator) Start(path model.Path) error {
	if len(path) == 0 {
		return ErrEmptyPath
	}
	if s.Active() {
		return ErrSessionActive
	}
	for _, p := range path {
		if !p.IsFinite() {
			return ErrInvalidPath
		}
	}

	path = model.NewPath(path...)
	s.path = path
	s.length = utils.PathLength(path)
	s.pausedElapsed = 0
	s.baseline = s.clock.NowMs() - s.pausedElapsed
	s.lastTick = s.baseline
	s.elapsed = 0
	s.progress = 0
	s.position = path.Start()
	if !s.hasOrigin {
		s.origin = path.Start()
		s.hasOrigin = true
	}
	if len(path) > 1 {
		s.heading = utils.HeadingDegrees(path[0], path[1])
	}

	// 零长度路径: 已经到达，不产生动画帧
	if s.length == 0 {
		s.complete()
		s.emit()
		return nil
	}

	s.state = StateRunning
	s.arm()
	s.emit()
	return nil
}

// Tick 以时间戳 (毫秒) 推进一帧，只在 Running 状态有效
func (s *RouteSimulator) Tick(timestampMs float64) error {
	if s.state != StateRunning {
		return ErrNotRunning
	}
	if timestampMs < s.lastTick {
		return fmt.Errorf("%w: %.3f < %.3f", ErrClockWentBackwards, timestampMs, s.lastTick)
	}
	s.lastTick = timestampMs

	if s.length == 0 {
		s.complete()
		s.emit()
		return nil
	}

	elapsed := math.Max(0, timestampMs-s.baseline)
	traveled := elapsed * s.speed
	ratio := math.Min(1, traveled/s.length)
	s.elapsed = elapsed

	if ratio >= 1 {
		s.complete()
		s.emit()
		return nil
	}

	pos, next := s.locate(traveled)
	s.position = pos
	if pos != next {
		s.heading = utils.HeadingDegrees(pos, next)
	}
	s.progress = ratio * 100
	s.emit()
	return nil
}

// locate 沿累计路段距离找到当前所在路段并插值，返回位置和下一个路径点
func (s *RouteSimulator) locate(traveled float64) (model.Point, model.Point) {
	cumulative := 0.0
	for i := 0; i+1 < len(s.path); i++ {
		segLen := utils.Distance(s.path[i], s.path[i+1])
		if cumulative+segLen > traveled {
			t := (traveled - cumulative) / segLen
			return utils.Lerp(s.path[i], s.path[i+1], t), s.path[i+1]
		}
		cumulative += segLen
	}
	end := s.path.End()
	return end, end
}

func (s *RouteSimulator) complete() {
	s.disarm()
	s.position = s.path.End()
	s.progress = 100
	s.state = StateCompleted
}

// Pause 暂停，冻结已用时间并取消挂起的帧
func (s *RouteSimulator) Pause() error {
	if s.state != StateRunning {
		return ErrNotRunning
	}
	s.disarm()
	s.pausedElapsed = math.Max(0, s.clock.NowMs()-s.baseline)
	s.elapsed = s.pausedElapsed
	s.state = StatePaused
	s.emit()
	return nil
}

// Resume 继续，基线按暂停时的已用时间重新计算，不丢失也不重复计时
func (s *RouteSimulator) Resume() error {
	if s.state != StatePaused {
		return ErrNotPaused
	}
	now := s.clock.NowMs()
	s.baseline = now - s.pausedElapsed
	if now > s.lastTick {
		s.lastTick = now
	}
	s.state = StateRunning
	s.arm()
	s.emit()
	return nil
}

// Stop 任意状态回到 Idle，标记回到最近选择的起点
func (s *RouteSimulator) Stop() {
	s.reset()
	s.emit()
}

func (s *RouteSimulator) reset() {
	s.disarm()
	s.state = StateIdle
	s.path = nil
	s.length = 0
	s.pausedElapsed = 0
	s.elapsed = 0
	s.progress = 0
	if s.hasOrigin {
		s.position = s.origin
	}
}

// Frame 当前帧
func (s *RouteSimulator) Frame() Frame {
	return Frame{
		Position:  s.position,
		Heading:   s.heading,
		Progress:  s.progress,
		ElapsedMs: s.elapsed,
		State:     s.state,
	}
}

// Session 当前会话快照，Idle 时 Path 为空
func (s *RouteSimulator) Session() NavigationSession {
	path := make(model.Path, len(s.path))
	copy(path, s.path)
	return NavigationSession{
		Path:          path,
		Length:        s.length,
		Baseline:      s.baseline,
		PausedElapsed: s.pausedElapsed,
		Progress:      s.progress,
		Position:      s.position,
		Heading:       s.heading,
		State:         s.state,
	}
}

func (s *RouteSimulator) arm() {
	if s.sched == nil || s.cancel != nil {
		return
	}
	s.cancel = s.sched.RequestTick(s.onFrame)
}

func (s *RouteSimulator) disarm() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// onFrame 调度回调: 推进一帧，仍在运行则重新挂起下一帧
// 帧内的任何错误或 panic 都按 Stop 处理，避免留下失效的回调
func (s *RouteSimulator) onFrame(ts float64) {
	s.cancel = nil
	defer func() {
		if r := recover(); r != nil {
			log.Printf("导航帧异常，已停止导航: %v", r)
			s.reset()
		}
	}()

	if err := s.Tick(ts); err != nil {
		log.Printf("导航帧失败，已停止导航: %v", err)
		s.Stop()
		return
	}
	if s.state == StateRunning {
		s.arm()
	}
}

func (s *RouteSimulator) emit() {
	if len(s.listeners) == 0 {
		return
	}
	f := s.Frame()
	for _, l := range s.listeners {
		l.fn(f)
	}
}
