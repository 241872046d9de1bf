package model

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/lib/pq"
)

// 建筑类型
const (
	BuildingAcademic  = "academic"
	BuildingWorkshop  = "workshop"
	BuildingMedical   = "medical"
	BuildingCafeteria = "cafeteria"
	BuildingSports    = "sports"
	BuildingAdmin     = "admin"
	BuildingArts      = "arts"
	BuildingStudent   = "student"
	BuildingParking   = "parking"
	BuildingOpen      = "open"
)

// BuildingTypes 允许的建筑类型
var BuildingTypes = []string{
	BuildingAcademic, BuildingWorkshop, BuildingMedical, BuildingCafeteria, BuildingSports,
	BuildingAdmin, BuildingArts, BuildingStudent, BuildingParking, BuildingOpen,
}

// 默认值
const (
	DefaultBuildingColor = "#601214"
)

// DefaultCoordinates 新建建筑时表单的默认矩形
var DefaultCoordinates = Rect{X: 100, Y: 100, Width: 80, Height: 60}

// fallbackCoordinates 记录缺失坐标时地图上使用的矩形
var fallbackCoordinates = Rect{X: 100, Y: 100, Width: 60, Height: 40}

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Rect 画布坐标中的矩形 (左上角 + 尺寸)
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TopLeft 左上角
func (r Rect) TopLeft() Point { return Point{X: r.X, Y: r.Y} }

// Center 矩形中心 (路径终点)
func (r Rect) Center() Point { return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2} }

// Contains 命中测试
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Building 建筑记录 (数据库表 buildings)
type Building struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Code        string         `json:"building_code" gorm:"uniqueIndex;not null"`
	Name        string         `json:"building_name" gorm:"index;not null"`
	Type        string         `json:"building_type" gorm:"index"`
	Description string         `json:"description"`
	Color       string         `json:"color"`
	Coordinates Rect           `json:"coordinates" gorm:"embedded;embeddedPrefix:coord_"`
	Hours       string         `json:"hours,omitempty"`
	Floors      int            `json:"floors,omitempty"`
	Facilities  pq.StringArray `json:"facilities" gorm:"type:text[]"`
	IsActive    bool           `json:"is_active" gorm:"index"`
	CreatedBy   string         `json:"created_by,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Rect 建筑在地图上的矩形
// 完全没有坐标时使用地图默认矩形；x=0 或 y=0 是合法位置 (编辑器可以吸附到画布边缘)，
// 只有缺失的宽高才补默认值
func (b Building) Rect() Rect {
	r := b.Coordinates
	if r == (Rect{}) {
		return fallbackCoordinates
	}
	if r.Width == 0 {
		r.Width = fallbackCoordinates.Width
	}
	if r.Height == 0 {
		r.Height = fallbackCoordinates.Height
	}
	return r
}

// BuildingRect 核心模块只读的建筑视图
func (b Building) BuildingRect() BuildingRect {
	color := b.Color
	if color == "" {
		color = DefaultBuildingColor
	}
	return BuildingRect{
		Rect:     b.Rect(),
		ID:       b.ID,
		Code:     b.Code,
		Name:     b.Name,
		Type:     b.Type,
		Color:    color,
		IsActive: b.IsActive,
	}
}

// BuildingRect 建筑矩形 + 元数据
type BuildingRect struct {
	Rect
	ID       uint   `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Color    string `json:"color"`
	IsActive bool   `json:"is_active"`
}

// 校验错误
var (
	ErrInvalidRect  = errors.New("宽高必须大于 0 且坐标为有限值")
	ErrInvalidColor = errors.New("颜色格式无效")
	ErrInvalidType  = errors.New("建筑类型无效")
)

// Validate 校验矩形不变式: 宽高 > 0，坐标有限，颜色合法
func (b BuildingRect) Validate() error {
	if err := b.Rect.Validate(); err != nil {
		return err
	}
	if !colorPattern.MatchString(b.Color) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, b.Color)
	}
	return nil
}

// Validate 校验矩形本身
func (r Rect) Validate() error {
	for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidRect
		}
	}
	if r.Width <= 0 || r.Height <= 0 {
		return ErrInvalidRect
	}
	return nil
}

// ValidBuildingType 判断类型是否在允许列表中
func ValidBuildingType(t string) bool {
	for _, v := range BuildingTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Validate 保存前校验整条记录
func (b Building) Validate() error {
	if b.Code == "" || b.Name == "" {
		return errors.New("建筑代码和名称不能为空")
	}
	if !ValidBuildingType(b.Type) {
		return fmt.Errorf("%w: %q", ErrInvalidType, b.Type)
	}
	return BuildingRect{Rect: b.Coordinates, Color: b.Color}.Validate()
}
