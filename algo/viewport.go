package algo

import (
	"math"

	"campus-navi/model"
)

// 缩放参数
const (
	MinScale = 0.5
	MaxScale = 3.0
	ZoomStep = 0.2
)

// DefaultAnchor 镜头跟随时标记固定停留的屏幕位置 (画布中心)
var DefaultAnchor = model.Point{X: 400, Y: 300}

// Viewport 地图平移/缩放控制器
//
// 缩放以画布原点为锚点而不是鼠标位置，这是沿用下来的简化
type Viewport struct {
	t          model.Transform
	dragging   bool
	dragOrigin model.Point

	// Anchor 镜头跟随时标记所在的屏幕坐标
	Anchor model.Point
}

// NewViewport 创建默认视口 (scale=1, pan=0)
func NewViewport() *Viewport {
	return &Viewport{t: model.Transform{Scale: 1}, Anchor: DefaultAnchor}
}

// Transform 当前变换
func (v *Viewport) Transform() model.Transform { return v.t }

// Dragging 是否正在拖动地图
func (v *Viewport) Dragging() bool { return v.dragging }

// BeginDrag 记录拖动起点: dragOrigin = screen - pan
func (v *Viewport) BeginDrag(screen model.Point) {
	v.dragOrigin = screen.Sub(model.Point{X: v.t.PanX, Y: v.t.PanY})
	v.dragging = true
}

// ContinueDrag pan = screen - dragOrigin，没有进行中的拖动时不做任何事
func (v *Viewport) ContinueDrag(screen model.Point) bool {
	if !v.dragging {
		return false
	}
	pan := screen.Sub(v.dragOrigin)
	v.t.PanX, v.t.PanY = pan.X, pan.Y
	return true
}

// EndDrag 结束拖动，变换保持不变
func (v *Viewport) EndDrag() {
	v.dragging = false
}

// ZoomIn 放大一级，上限 MaxScale
func (v *Viewport) ZoomIn() { v.SetScale(v.t.Scale + ZoomStep) }

// ZoomOut 缩小一级，下限 MinScale
func (v *Viewport) ZoomOut() { v.SetScale(v.t.Scale - ZoomStep) }

// SetScale 设置缩放，超出范围时静默截断
func (v *Viewport) SetScale(scale float64) {
	if math.IsNaN(scale) {
		return
	}
	v.t.Scale = math.Min(MaxScale, math.Max(MinScale, scale))
}

// Reset scale=1, pan=0
func (v *Viewport) Reset() {
	v.t = model.Transform{Scale: 1}
	v.dragging = false
}

// ScreenToCanvas canvas = (screen - pan) / scale
func (v *Viewport) ScreenToCanvas(screen model.Point) model.Point {
	return model.Point{
		X: (screen.X - v.t.PanX) / v.t.Scale,
		Y: (screen.Y - v.t.PanY) / v.t.Scale,
	}
}

// CanvasToScreen screen = canvas * scale + pan
func (v *Viewport) CanvasToScreen(canvas model.Point) model.Point {
	return model.Point{
		X: canvas.X*v.t.Scale + v.t.PanX,
		Y: canvas.Y*v.t.Scale + v.t.PanY,
	}
}

// CenterOn 调整平移，使画布点 p 落在屏幕锚点上
func (v *Viewport) CenterOn(p model.Point) {
	v.t.PanX = v.Anchor.X - p.X*v.t.Scale
	v.t.PanY = v.Anchor.Y - p.Y*v.t.Scale
}
