package utils

import (
	"math"

	"campus-navi/model"
)

// HeadingOffset 航向角固定偏移 (度)
// atan2 的 0° 指向画布 +X，标记图标静止时朝上，因此整体旋转 +90°
const HeadingOffset = 90.0

// RadiansToDegrees 弧度转角度
func RadiansToDegrees(r float64) float64 {
	return r * 180.0 / math.Pi
}

// Distance 两点间欧氏距离
func Distance(a, b model.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Lerp 线性插值，t 由调用方限制在 [0,1]
func Lerp(a, b model.Point, t float64) model.Point {
	return model.Point{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

// PathLength 路径总长度 (相邻点距离之和)，单点路径为 0
func PathLength(path model.Path) float64 {
	total := 0.0
	for i := 0; i+1 < len(path); i++ {
		total += Distance(path[i], path[i+1])
	}
	return total
}

// Snap 吸附到网格: round(v / grid) * grid
func Snap(v, grid float64) float64 {
	if grid <= 0 {
		return v
	}
	return math.Round(v/grid) * grid
}

// SnapPoint 对两个坐标轴分别吸附
func SnapPoint(p model.Point, grid float64) model.Point {
	return model.Point{X: Snap(p.X, grid), Y: Snap(p.Y, grid)}
}

// HeadingDegrees 从 from 指向 to 的航向角，0° 为画布向上，范围 [0, 360)
func HeadingDegrees(from, to model.Point) float64 {
	deg := RadiansToDegrees(math.Atan2(to.Y-from.Y, to.X-from.X)) + HeadingOffset
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
