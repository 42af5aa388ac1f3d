package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// AdminStatus 管理员在线状态
type AdminStatus string

const (
	AdminStatusOnline  AdminStatus = "online"
	AdminStatusOffline AdminStatus = "offline"
)

// RoleList 以JSON列形式存储的角色编号列表
type RoleList []int

// Value 实现 driver.Valuer 接口
func (r RoleList) Value() (driver.Value, error) {
	if r == nil {
		r = RoleList{}
	}
	return json.Marshal(r)
}

// Scan 实现 sql.Scanner 接口
func (r *RoleList) Scan(value interface{}) error {
	if value == nil {
		*r = RoleList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("unsupported type for RoleList")
	}

	if len(data) == 0 {
		*r = RoleList{}
		return nil
	}
	return json.Unmarshal(data, r)
}

// Contains 判断是否持有某个角色
func (r RoleList) Contains(role int) bool {
	for _, v := range r {
		if v == role {
			return true
		}
	}
	return false
}

// Admin represents system administrators
type Admin struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	FullName     string      `gorm:"type:varchar(100)" json:"fullName"`
	Email        string      `gorm:"type:varchar(100);unique;not null" json:"email"`
	Username     string      `gorm:"type:varchar(50)" json:"username"`
	Password     string      `gorm:"type:varchar(100);not null" json:"-"` // Password not exposed in JSON
	Profile      string      `gorm:"type:varchar(100)" json:"profile"`    // 头像在存储中的文件名
	Description  string      `gorm:"type:text" json:"description"`
	Contact      string      `gorm:"type:varchar(50)" json:"contact"`
	Roles        RoleList    `gorm:"type:json" json:"roles"`
	RefreshToken string      `gorm:"type:varchar(512)" json:"-"` // 单一有效刷新令牌
	Status       AdminStatus `gorm:"type:varchar(20);default:'offline'" json:"status"`
	IsDisabled   bool        `gorm:"default:false" json:"isDisabled"`
	LastLogin    *time.Time  `json:"lastLogin,omitempty"`
	CreatedAt    time.Time   `json:"joined"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
