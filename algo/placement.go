package algo

import (
	"campus-navi/model"
	"campus-navi/utils"
)

// PlacementEditor 拖拽摆放建筑 (只改变位置，不改变宽高)
// 结果不会自动保存，由管理员显式提交给建筑存储
type PlacementEditor struct {
	viewport *Viewport
	grid     float64

	active   bool
	offset   model.Point
	proposal model.BuildingRect
}

// NewPlacementEditor 创建编辑器，grid 为吸附网格
func NewPlacementEditor(vp *Viewport, grid float64) *PlacementEditor {
	if grid <= 0 {
		grid = DefaultGridSize
	}
	return &PlacementEditor{viewport: vp, grid: grid}
}

// Active 是否正在拖动建筑
func (e *PlacementEditor) Active() bool { return e.active }

// Proposal 当前建议的建筑矩形 (坐标反馈)
func (e *PlacementEditor) Proposal() model.BuildingRect { return e.proposal }

// BeginBuildingDrag offset = 画布指针位置 - 建筑左上角
func (e *PlacementEditor) BeginBuildingDrag(screen model.Point, b model.BuildingRect) {
	e.offset = e.viewport.ScreenToCanvas(screen).Sub(b.TopLeft())
	e.proposal = b
	e.active = true
}

// ContinueBuildingDrag 新左上角 = 画布指针位置 - offset，两个轴分别吸附到网格
func (e *PlacementEditor) ContinueBuildingDrag(screen model.Point) (model.BuildingRect, bool) {
	if !e.active {
		return e.proposal, false
	}
	tl := utils.SnapPoint(e.viewport.ScreenToCanvas(screen).Sub(e.offset), e.grid)
	e.proposal.X, e.proposal.Y = tl.X, tl.Y
	return e.proposal, true
}

// EndBuildingDrag 结束拖动并返回最终矩形
func (e *PlacementEditor) EndBuildingDrag() (model.BuildingRect, bool) {
	if !e.active {
		return e.proposal, false
	}
	e.active = false
	return e.proposal, true
}
