package algo

import (
	"errors"

	"campus-navi/model"
)

// ErrNoStart 没有选择起点
var ErrNoStart = errors.New("no start point selected")

// MapController 一个地图界面 (或一个 websocket 会话) 的导航控制器
//
// 它拥有视口、模拟器和建筑编辑器，负责它们之间唯一的耦合:
// 镜头跟随。用户拖动地图会关闭跟随，开始导航或显式开启才会恢复
type MapController struct {
	Viewport  *Viewport
	Simulator *RouteSimulator
	Editor    *PlacementEditor

	builder      PathBuilder
	lookup       BuildingLookup
	cameraFollow bool
	listeners    []func(Frame)
}

// NewMapController 使用布局参数创建控制器
func NewMapController(m *CampusMap, lookup BuildingLookup, opts Options) *MapController {
	vp := NewViewport()
	c := &MapController{
		Viewport:  vp,
		Simulator: NewRouteSimulator(opts),
		Editor:    NewPlacementEditor(vp, m.GridSize()),
		builder:   NewPathBuilder(m),
		lookup:    lookup,
	}
	c.Simulator.Subscribe(c.onFrame)
	if start, ok := m.DefaultStart(); ok {
		c.Simulator.SelectStart(start.Point())
	}
	return c
}

// Subscribe 订阅帧 (镜头跟随时附带视口变换)
func (c *MapController) Subscribe(fn func(Frame)) {
	c.listeners = append(c.listeners, fn)
}

// SetLookup 替换建筑查询 (建筑缓存刷新后)
func (c *MapController) SetLookup(lookup BuildingLookup) { c.lookup = lookup }

// SetLayout 布局重新加载后更新枢纽和吸附网格，不影响进行中的导航
func (c *MapController) SetLayout(m *CampusMap) {
	c.builder = NewPathBuilder(m)
	c.Editor.grid = m.GridSize()
}

// CameraFollow 是否开启镜头跟随
func (c *MapController) CameraFollow() bool { return c.cameraFollow }

// SetCameraFollow 显式开启/关闭镜头跟随
func (c *MapController) SetCameraFollow(on bool) {
	c.cameraFollow = on
	if on && c.Simulator.Active() {
		c.Viewport.CenterOn(c.Simulator.Frame().Position)
	}
}

// SelectStart 选择起点
func (c *MapController) SelectStart(p model.Point) {
	c.Simulator.SelectStart(p)
}

// StartNavigation 从当前起点到目的地生成路径并开始导航
// 目的地不存在时返回 ErrDestinationNotFound，状态不变
func (c *MapController) StartNavigation(destination string) (model.Path, model.RouteInfo, error) {
	start, ok := c.Simulator.Origin()
	if !ok {
		return nil, model.RouteInfo{}, ErrNoStart
	}
	if c.Simulator.Active() {
		return nil, model.RouteInfo{}, ErrSessionActive
	}
	path, err := c.builder.Build(start, destination, c.lookup)
	if err != nil {
		return nil, model.RouteInfo{}, err
	}

	prev := c.cameraFollow
	c.cameraFollow = true
	if err := c.Simulator.Start(path); err != nil {
		c.cameraFollow = prev
		return nil, model.RouteInfo{}, err
	}
	info := model.EstimateRoute(c.Simulator.Session().Length, c.Simulator.Speed())
	return path, info, nil
}

// Pause 暂停导航
func (c *MapController) Pause() error { return c.Simulator.Pause() }

// Resume 继续导航
func (c *MapController) Resume() error { return c.Simulator.Resume() }

// Stop 停止导航
func (c *MapController) Stop() { c.Simulator.Stop() }

// BeginDrag 开始平移地图，同时关闭镜头跟随
func (c *MapController) BeginDrag(screen model.Point) {
	c.cameraFollow = false
	c.Viewport.BeginDrag(screen)
}

// PointerDown 指针按下: 命中建筑时建筑拖动优先，地图不再平移
func (c *MapController) PointerDown(screen model.Point, hit *model.BuildingRect) {
	if hit != nil {
		c.Viewport.EndDrag()
		c.Editor.BeginBuildingDrag(screen, *hit)
		return
	}
	c.BeginDrag(screen)
}

// PointerMove 指针移动，返回建筑编辑器的建议矩形 (如果在拖动建筑)
func (c *MapController) PointerMove(screen model.Point) (model.BuildingRect, bool) {
	if c.Editor.Active() {
		return c.Editor.ContinueBuildingDrag(screen)
	}
	c.Viewport.ContinueDrag(screen)
	return model.BuildingRect{}, false
}

// PointerUp 指针抬起，返回建筑最终矩形 (如果在拖动建筑)
func (c *MapController) PointerUp() (model.BuildingRect, bool) {
	if c.Editor.Active() {
		return c.Editor.EndBuildingDrag()
	}
	c.Viewport.EndDrag()
	return model.BuildingRect{}, false
}

func (c *MapController) onFrame(f Frame) {
	if c.cameraFollow && f.State != StateIdle {
		c.Viewport.CenterOn(f.Position)
		t := c.Viewport.Transform()
		f.Transform = &t
	}
	for _, fn := range c.listeners {
		fn(f)
	}
}
