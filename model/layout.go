package model

// Zone 校园分区 (地图背景色块)
type Zone struct {
	Key    string  `json:"key" yaml:"key"`
	Label  string  `json:"label" yaml:"label"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	Color  string  `json:"color" yaml:"color"`
}

// Road 道路折线 (仅用于绘制，不参与寻路)
type Road struct {
	Name   string  `json:"name" yaml:"name"`
	Points []Point `json:"points" yaml:"points"`
	Width  float64 `json:"width" yaml:"width"`
	Closed bool    `json:"closed,omitempty" yaml:"closed,omitempty"`
}

// Canvas 逻辑画布尺寸
type Canvas struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Layout 地图浏览和建筑编辑共用的校园布局描述
type Layout struct {
	Canvas       Canvas          `json:"canvas" yaml:"canvas"`
	Hub          NamedLocation   `json:"hub" yaml:"hub"`
	HubThreshold float64         `json:"hub_threshold" yaml:"hub_threshold"`
	GridSize     float64         `json:"grid_size" yaml:"grid_size"`
	StartPoints  []NamedLocation `json:"start_points" yaml:"start_points"`
	Zones        []Zone          `json:"zones" yaml:"zones"`
	Roads        []Road          `json:"roads" yaml:"roads"`
}
