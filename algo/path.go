package algo

import (
	"errors"
	"fmt"

	"campus-navi/model"
	"campus-navi/utils"
)

// ErrDestinationNotFound 目的地不在建筑字典中，不能开始导航
var ErrDestinationNotFound = errors.New("destination not found")

// BuildingLookup 名称 -> 建筑矩形的同步内存查询
type BuildingLookup interface {
	Lookup(name string) (model.BuildingRect, bool)
}

// MapLookup 基于 map 的 BuildingLookup
type MapLookup map[string]model.BuildingRect

// Lookup 实现 BuildingLookup
func (m MapLookup) Lookup(name string) (model.BuildingRect, bool) {
	b, ok := m[name]
	return b, ok
}

// PathBuilder 根据起点和目的地名称生成路径
//
// 这不是图搜索: 直线距离超过阈值时固定插入一个枢纽途经点，
// 用来表示穿越校园的斜线不现实。这是有意的简化，不是最短路
type PathBuilder struct {
	Hub       model.Point
	Threshold float64
}

// NewPathBuilder 使用布局中的枢纽和阈值
func NewPathBuilder(m *CampusMap) PathBuilder {
	return PathBuilder{Hub: m.Hub(), Threshold: m.HubThreshold()}
}

// DefaultPathBuilder 使用默认枢纽 (400,340) 和阈值 250
func DefaultPathBuilder() PathBuilder {
	return PathBuilder{Hub: DefaultHub.Point(), Threshold: DefaultHubThreshold}
}

// Build 生成 [start, (hub), 目的地中心]
// 起点与目的地中心重合时返回单点路径，模拟器会立即完成
func (b PathBuilder) Build(start model.Point, destinationName string, lookup BuildingLookup) (model.Path, error) {
	dest, ok := lookup.Lookup(destinationName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDestinationNotFound, destinationName)
	}
	target := dest.Center()

	if utils.Distance(start, target) > b.Threshold {
		return model.NewPath(start, b.Hub, target), nil
	}
	return model.NewPath(start, target), nil
}

// BuildPath 使用默认参数生成路径
func BuildPath(start model.Point, destinationName string, lookup BuildingLookup) (model.Path, error) {
	return DefaultPathBuilder().Build(start, destinationName, lookup)
}
