package model

import (
	"time"
)

type UserRole string

const (
	Student    UserRole = "student"
	Instructor UserRole = "instructor"
	Admin      UserRole = "admin"
)

// LevelXPStep 每升一级所需经验值
const LevelXPStep = 1000

// swagger:model User
type User struct {
	BaseModel
	Name           string    `gorm:"size:100;not null" json:"name"`
	Email          string    `gorm:"size:100;unique;not null" json:"email"`
	Password       string    `gorm:"size:100;not null" json:"-"`
	Role           UserRole  `gorm:"type:enum('student','instructor','admin');default:'student'" json:"role"`
	XP             int       `gorm:"default:0" json:"xpPoints"`       // 总经验值，只增不减
	Level          int       `gorm:"default:1" json:"level"`          // 等级缓存，发放奖励时按XP重算
	TotalStudyTime int       `gorm:"default:0" json:"totalStudyTime"` // 累计学习时长（分钟）
	Avatar         string    `gorm:"size:255" json:"avatar"`
	Disabled       bool      `gorm:"default:false" json:"disabled"`
	LastLogin      time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen       time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

// LevelForXP 等级始终由经验值推导，不单独演化
func LevelForXP(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/LevelXPStep + 1
}
