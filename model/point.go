package model

import "math"

// Point 画布坐标系中的一个点 (逻辑画布 800x600，与屏幕像素和缩放无关)
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add 向量加法
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub 向量减法
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale 数乘
func (p Point) Scale(k float64) Point { return Point{X: p.X * k, Y: p.Y * k} }

// IsFinite 坐标是否为有限值 (排除 NaN / Inf)
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// NamedLocation 带名称的位置: 固定地标 (起点) 或建筑中心
// Heading 为可选朝向 (度)，0 表示画布 "上" 方向
type NamedLocation struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	X       float64  `json:"x" yaml:"x"`
	Y       float64  `json:"y" yaml:"y"`
	Heading *float64 `json:"heading,omitempty" yaml:"heading,omitempty"`
}

// Point 返回位置坐标
func (l NamedLocation) Point() Point { return Point{X: l.X, Y: l.Y} }

// Path 有序点序列: [起点, ...途经点, 终点]
// 通过 NewPath 构造，保证相邻点互不相同
type Path []Point

// NewPath 构造路径，合并相邻的重复点 (零长度路段会让距离计算退化)
func NewPath(points ...Point) Path {
	path := make(Path, 0, len(points))
	for _, p := range points {
		if n := len(path); n > 0 && path[n-1] == p {
			continue
		}
		path = append(path, p)
	}
	return path
}

// Start 起点
func (p Path) Start() Point { return p[0] }

// End 终点
func (p Path) End() Point { return p[len(p)-1] }

// Transform 视口变换
// 屏幕 -> 画布: canvas = (screen - pan) / scale
// 画布 -> 屏幕: screen = canvas * scale + pan
type Transform struct {
	Scale float64 `json:"scale"`
	PanX  float64 `json:"pan_x"`
	PanY  float64 `json:"pan_y"`
}
