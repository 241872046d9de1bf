package model

import "math"

// 模拟导航参数
const (
	// SimulatedSpeed 模拟移动速度 (画布单位/毫秒)，不对应真实步速
	SimulatedSpeed = 0.05

	// MetersPerUnit 显示距离时画布单位到米的换算
	MetersPerUnit = 1.5

	// UnitsPerMinute 步行估算: 每分钟走过的画布单位
	UnitsPerMinute = 60.0
)

// RouteInfo 路线概要 (界面上显示的距离和时间)
type RouteInfo struct {
	Length      float64 `json:"length"`       // 画布单位
	DistanceM   int     `json:"distance_m"`   // 显示距离 (米)
	WalkMinutes int     `json:"walk_minutes"` // 预计步行时间 (分钟)
	SimulatedMs float64 `json:"simulated_ms"` // 动画时长 (毫秒)
}

// EstimateRoute 根据路径长度估算距离和时间
// speed 为模拟速度，<= 0 时使用 SimulatedSpeed
func EstimateRoute(length, speed float64) RouteInfo {
	if speed <= 0 {
		speed = SimulatedSpeed
	}
	return RouteInfo{
		Length:      length,
		DistanceM:   int(math.Round(length * MetersPerUnit)),
		WalkMinutes: int(math.Ceil(length / UnitsPerMinute)),
		SimulatedMs: length / speed,
	}
}
