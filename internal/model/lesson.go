package model

type LessonContentType string

const (
	LessonVideo    LessonContentType = "video"
	LessonDocument LessonContentType = "document"
	LessonText     LessonContentType = "text"
)

// Lesson 课程内的单个课时，Order 在课程内唯一且严格递增，
// 决定顺序解锁路径。
// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID    uint              `gorm:"not null;uniqueIndex:idx_course_order;index" json:"courseId"`
	Title       string            `gorm:"size:255;not null" json:"title"`
	Description string            `gorm:"type:text" json:"description"`
	Order       int               `gorm:"column:sort_order;not null;uniqueIndex:idx_course_order" json:"order"`
	Duration    int               `gorm:"default:0" json:"duration"` // 预计时长（分钟）
	ContentType LessonContentType `gorm:"type:enum('video','document','text');default:'video'" json:"contentType"`
	VideoURL    string            `gorm:"size:255" json:"videoUrl"`
	DocumentURL string            `gorm:"size:255" json:"documentUrl"`
	Content     string            `gorm:"type:text" json:"content"`
}

func (Lesson) TableName() string {
	return "lessons"
}
