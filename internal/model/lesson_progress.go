package model

import (
	"time"
)

// LessonProgress 学员与单个课时的学习记录。
// IsCompleted 一旦为 true 不再回退，CompletedAt 首次完成后不再变更。
// swagger:model LessonProgress
type LessonProgress struct {
	BaseModel
	UserID      uint       `gorm:"not null;uniqueIndex:idx_user_lesson;index:idx_user_course" json:"userId"`
	LessonID    uint       `gorm:"not null;uniqueIndex:idx_user_lesson" json:"lessonId"`
	CourseID    uint       `gorm:"not null;index:idx_user_course" json:"courseId"`
	WatchTime   int        `gorm:"default:0" json:"watchTime"` // 已观看时长（分钟），取客户端上报值
	IsCompleted bool       `gorm:"default:false" json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}
