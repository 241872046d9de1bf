package algo

import (
	"fmt"
	"os"

	"campus-navi/data"
	"campus-navi/model"
	"campus-navi/utils"

	"gopkg.in/yaml.v3"
)

// 布局缺省值
const (
	DefaultHubThreshold = 250.0
	DefaultGridSize     = 5.0
)

// DefaultHub 学生广场中心，长距离路线的固定途经点
var DefaultHub = model.NamedLocation{ID: "plaza", Name: "Student Plaza Hub", X: 400, Y: 340}

// CampusMap 校园布局 + 起点索引
type CampusMap struct {
	Layout model.Layout
	starts map[string]*model.NamedLocation // 起点字典 (ID -> 位置)
}

// LoadDefaultLayout 加载内置布局
func LoadDefaultLayout() (*CampusMap, error) {
	return ParseLayout(data.CampusLayout)
}

// LoadLayout 从 YAML 文件加载布局，filepath 为空时使用内置布局
func LoadLayout(filepath string) (*CampusMap, error) {
	if filepath == "" {
		return LoadDefaultLayout()
	}
	file, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("读取布局文件失败: %w", err)
	}
	return ParseLayout(file)
}

// ParseLayout 解析 YAML 布局并补齐缺省值
func ParseLayout(raw []byte) (*CampusMap, error) {
	var layout model.Layout
	if err := yaml.Unmarshal(raw, &layout); err != nil {
		return nil, fmt.Errorf("解析布局失败: %w", err)
	}
	return NewCampusMap(layout)
}

// NewCampusMap 校验布局并建立起点索引
func NewCampusMap(layout model.Layout) (*CampusMap, error) {
	if layout.Canvas.Width <= 0 || layout.Canvas.Height <= 0 {
		layout.Canvas = model.Canvas{Width: 800, Height: 600}
	}
	if layout.HubThreshold <= 0 {
		layout.HubThreshold = DefaultHubThreshold
	}
	if layout.GridSize <= 0 {
		layout.GridSize = DefaultGridSize
	}
	if layout.Hub.Name == "" {
		layout.Hub = DefaultHub
	}
	if !layout.Hub.Point().IsFinite() {
		return nil, fmt.Errorf("枢纽坐标无效: %+v", layout.Hub)
	}

	m := &CampusMap{
		Layout: layout,
		starts: make(map[string]*model.NamedLocation, len(layout.StartPoints)),
	}
	for i := range m.Layout.StartPoints {
		sp := &m.Layout.StartPoints[i]
		if sp.ID == "" {
			return nil, fmt.Errorf("起点缺少 id: %q", sp.Name)
		}
		if _, dup := m.starts[sp.ID]; dup {
			return nil, fmt.Errorf("起点 id 重复: %s", sp.ID)
		}
		m.starts[sp.ID] = sp
	}
	return m, nil
}

// Hub 枢纽途经点
func (m *CampusMap) Hub() model.Point { return m.Layout.Hub.Point() }

// HubThreshold 超过该直线距离的路线经过枢纽
func (m *CampusMap) HubThreshold() float64 { return m.Layout.HubThreshold }

// GridSize 建筑编辑器的吸附网格
func (m *CampusMap) GridSize() float64 { return m.Layout.GridSize }

// StartPoint 根据 ID 获取起点
func (m *CampusMap) StartPoint(id string) (model.NamedLocation, bool) {
	sp, ok := m.starts[id]
	if !ok {
		return model.NamedLocation{}, false
	}
	return *sp, true
}

// DefaultStart 默认起点 (列表第一个)
func (m *CampusMap) DefaultStart() (model.NamedLocation, bool) {
	if len(m.Layout.StartPoints) == 0 {
		return model.NamedLocation{}, false
	}
	return m.Layout.StartPoints[0], true
}

// FindNearestLocation 找到离给定坐标最近的起点
func (m *CampusMap) FindNearestLocation(p model.Point) (model.NamedLocation, bool) {
	var nearest model.NamedLocation
	minDist := -1.0
	for _, sp := range m.Layout.StartPoints {
		dist := utils.Distance(p, sp.Point())
		if minDist < 0 || dist < minDist {
			minDist = dist
			nearest = sp
		}
	}
	return nearest, minDist >= 0
}

// ZoneAt 返回包含该点的分区
func (m *CampusMap) ZoneAt(p model.Point) (model.Zone, bool) {
	for _, z := range m.Layout.Zones {
		r := model.Rect{X: z.X, Y: z.Y, Width: z.Width, Height: z.Height}
		if r.Contains(p) {
			return z, true
		}
	}
	return model.Zone{}, false
}
