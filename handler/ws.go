package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"campus-navi/algo"
	"campus-navi/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 256
)

// Envelope websocket 消息的统一格式
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Command 客户端发来的命令
type Command struct {
	Type        string       `json:"type"`
	StartID     string       `json:"start_id,omitempty"`
	Point       *model.Point `json:"point,omitempty"` // select_start 为画布坐标，其余为屏幕坐标
	Destination string       `json:"destination,omitempty"`
	BuildingID  uint         `json:"building_id,omitempty"`
	Follow      *bool        `json:"follow,omitempty"`
}

// ViewportState 视口变化后推送
type ViewportState struct {
	Transform model.Transform `json:"transform"`
	Follow    bool            `json:"follow"`
}

// RouteStarted start 成功后推送
type RouteStarted struct {
	Path        model.Path         `json:"path"`
	Route       model.RouteInfo    `json:"route"`
	Destination model.BuildingRect `json:"destination"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// navSession 一个 websocket 连接对应的导航会话
// ctrl 只在帧循环 goroutine 上被访问
type navSession struct {
	id   string
	h    *Handler
	ctrl *algo.MapController
	send chan []byte
	ctx  context.Context
}

func (h *Handler) newNavSession(ctx context.Context, opts algo.Options) *navSession {
	s := &navSession{
		id:   uuid.NewString(),
		h:    h,
		ctrl: algo.NewMapController(h.Layout(), h.Cache, opts),
		send: make(chan []byte, sendBufferSize),
		ctx:  ctx,
	}
	s.ctrl.Subscribe(func(f algo.Frame) { s.push("frame", f) })
	return s
}

// NavigateWS 升级为 websocket 并运行导航会话
func (h *Handler) NavigateWS(c *gin.Context) {
	if h.Layout() == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "地图数据未加载"})
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WS 升级失败: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	loop := algo.NewFrameLoop(h.FrameInterval)
	s := h.newNavSession(ctx, algo.Options{Speed: h.SimSpeed, Clock: loop, Scheduler: loop})
	commands := make(chan func(), 16)
	log.Printf("WS 会话 %s 已连接", s.id)

	go s.writePump(conn)
	go func() {
		loop.Run(ctx, commands)
		s.ctrl.Stop()
		close(s.send)
	}()

	commands <- s.hello
	s.readPump(conn, commands)
	cancel()
	log.Printf("WS 会话 %s 已断开", s.id)
}

// readPump 读取命令，交给帧循环执行
func (s *navSession) readPump(conn *websocket.Conn, commands chan<- func()) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WS 会话 %s 读取失败: %v", s.id, err)
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(message, &cmd); err != nil {
			cmd = Command{Type: "invalid"}
		}
		select {
		case commands <- func() { s.apply(cmd) }:
		case <-s.ctx.Done():
			return
		}
	}
}

// writePump 把 send 中的消息写到连接，send 关闭后退出并关闭连接
func (s *navSession) writePump(conn *websocket.Conn) {
	defer conn.Close()
	for message := range s.send {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// push 序列化并放入发送缓冲，缓冲已满时丢弃 (下一帧会覆盖)
func (s *navSession) push(typ string, payload any) {
	data, err := json.Marshal(Envelope{Type: typ, Payload: payload})
	if err != nil {
		log.Printf("WS 会话 %s 序列化 %s 失败: %v", s.id, typ, err)
		return
	}
	select {
	case s.send <- data:
	default:
		log.Printf("WS 会话 %s 发送缓冲已满，丢弃 %s", s.id, typ)
	}
}

func (s *navSession) fail(err error) {
	s.push("error", gin.H{"message": err.Error()})
}

func (s *navSession) pushViewport() {
	s.push("viewport", ViewportState{
		Transform: s.ctrl.Viewport.Transform(),
		Follow:    s.ctrl.CameraFollow(),
	})
}

// hello 连接建立后的第一条消息
func (s *navSession) hello() {
	s.push("hello", gin.H{
		"session_id": s.id,
		"frame":      s.ctrl.Simulator.Frame(),
		"transform":  s.ctrl.Viewport.Transform(),
		"speed":      s.ctrl.Simulator.Speed(),
	})
}

// apply 执行一条命令 (在帧循环 goroutine 上)
func (s *navSession) apply(cmd Command) {
	switch cmd.Type {
	case "select_start":
		s.selectStart(cmd)
	case "start":
		s.start(cmd.Destination)
	case "pause":
		if err := s.ctrl.Pause(); err != nil {
			s.fail(err)
		}
	case "resume":
		if err := s.ctrl.Resume(); err != nil {
			s.fail(err)
		}
	case "stop":
		s.ctrl.Stop()
	case "drag_begin":
		if p, ok := s.point(cmd); ok {
			s.ctrl.PointerDown(p, nil)
			s.pushViewport()
		}
	case "building_drag_begin":
		s.buildingDragBegin(cmd)
	case "drag_move", "building_drag_move":
		if p, ok := s.point(cmd); ok {
			if proposal, ok := s.ctrl.PointerMove(p); ok {
				s.push("building_proposal", proposal)
				return
			}
			s.pushViewport()
		}
	case "drag_end", "building_drag_end":
		if final, ok := s.ctrl.PointerUp(); ok {
			s.push("building_placed", final)
			return
		}
		s.pushViewport()
	case "zoom_in":
		s.ctrl.Viewport.ZoomIn()
		s.pushViewport()
	case "zoom_out":
		s.ctrl.Viewport.ZoomOut()
		s.pushViewport()
	case "reset_view":
		s.ctrl.Viewport.Reset()
		s.pushViewport()
	case "follow":
		on := cmd.Follow == nil || *cmd.Follow
		s.ctrl.SetCameraFollow(on)
		s.pushViewport()
	default:
		s.fail(fmt.Errorf("unknown command %q", cmd.Type))
	}
}

func (s *navSession) point(cmd Command) (model.Point, bool) {
	if cmd.Point == nil || !cmd.Point.IsFinite() {
		s.fail(fmt.Errorf("%s requires a finite point", cmd.Type))
		return model.Point{}, false
	}
	return *cmd.Point, true
}

func (s *navSession) selectStart(cmd Command) {
	var p model.Point
	switch {
	case cmd.StartID != "":
		loc, ok := s.h.Layout().StartPoint(cmd.StartID)
		if !ok {
			s.fail(fmt.Errorf("unknown start point %q", cmd.StartID))
			return
		}
		p = loc.Point()
	case cmd.Point != nil:
		var ok bool
		if p, ok = s.point(cmd); !ok {
			return
		}
	default:
		s.fail(errors.New("select_start requires start_id or point"))
		return
	}
	s.ctrl.SelectStart(p)
}

func (s *navSession) start(destination string) {
	if err := s.h.Cache.Ensure(s.ctx); err != nil {
		log.Printf("WS 会话 %s 刷新建筑缓存失败: %v", s.id, err)
		s.fail(errors.New("building data unavailable"))
		return
	}
	if !s.ctrl.Simulator.Active() {
		s.ctrl.SetLayout(s.h.Layout())
	}
	path, info, err := s.ctrl.StartNavigation(destination)
	if err != nil {
		s.fail(err)
		return
	}
	dest, _ := s.h.Cache.Lookup(destination)
	s.push("route", RouteStarted{Path: path, Route: info, Destination: dest})
}

func (s *navSession) buildingDragBegin(cmd Command) {
	p, ok := s.point(cmd)
	if !ok {
		return
	}
	if err := s.h.Cache.Ensure(s.ctx); err != nil {
		s.fail(errors.New("building data unavailable"))
		return
	}
	b, ok := s.h.Cache.Get(cmd.BuildingID)
	if !ok {
		s.fail(fmt.Errorf("building %d not found", cmd.BuildingID))
		return
	}
	hit := b.BuildingRect()
	s.ctrl.PointerDown(p, &hit)
}
