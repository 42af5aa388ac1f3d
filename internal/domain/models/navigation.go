package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// PathPoint represents a single waypoint on a kiosk navigation path.
// Coordinates are in the map's pixel space.
type PathPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GuideStep represents a single step of the textual navigation guide
type GuideStep struct {
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// PathPoints 以JSON列形式存储的路径点序列
type PathPoints []PathPoint

// Value 实现 driver.Valuer 接口
func (p PathPoints) Value() (driver.Value, error) {
	if p == nil {
		p = PathPoints{}
	}
	return json.Marshal(p)
}

// Scan 实现 sql.Scanner 接口
func (p *PathPoints) Scan(value interface{}) error {
	if value == nil {
		*p = PathPoints{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for PathPoints")
	}

	if len(data) == 0 {
		*p = PathPoints{}
		return nil
	}
	return json.Unmarshal(data, p)
}

// Equal 比较两个路径的内容是否一致
func (p PathPoints) Equal(other PathPoints) bool {
	a, err := json.Marshal(p)
	if err != nil {
		return false
	}
	b, err := json.Marshal(other)
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}

// GuideSteps 以JSON列形式存储的导航指引序列
type GuideSteps []GuideStep

// Value 实现 driver.Valuer 接口
func (g GuideSteps) Value() (driver.Value, error) {
	if g == nil {
		g = GuideSteps{}
	}
	return json.Marshal(g)
}

// Scan 实现 sql.Scanner 接口
func (g *GuideSteps) Scan(value interface{}) error {
	if value == nil {
		*g = GuideSteps{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for GuideSteps")
	}

	if len(data) == 0 {
		*g = GuideSteps{}
		return nil
	}
	return json.Unmarshal(data, g)
}

// Equal 比较两组导航指引的内容是否一致
func (g GuideSteps) Equal(other GuideSteps) bool {
	a, err := json.Marshal(g)
	if err != nil {
		return false
	}
	b, err := json.Marshal(other)
	if err != nil {
		return false
	}
	return bytes.Equal(a, b)
}
