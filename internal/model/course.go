package model

type CourseDifficulty string

const (
	Beginner     CourseDifficulty = "beginner"
	Intermediate CourseDifficulty = "intermediate"
	Advanced     CourseDifficulty = "advanced"
)

// swagger:model Course
type Course struct {
	BaseModel
	Title        string           `gorm:"size:255;not null" json:"title"`
	Description  string           `gorm:"type:text" json:"description"`
	Category     string           `gorm:"size:100;index" json:"category"`
	Difficulty   CourseDifficulty `gorm:"type:enum('beginner','intermediate','advanced');default:'beginner'" json:"difficulty"`
	CoverURL     string           `gorm:"size:255" json:"coverUrl"`
	InstructorID uint             `gorm:"index" json:"instructorId"`
	Published    bool             `gorm:"default:false" json:"published"`

	// 聚合计数器，随课时增删同步维护
	TotalLessons  int `gorm:"default:0" json:"totalLessons"`
	TotalDuration int `gorm:"default:0" json:"totalDuration"` // 分钟

	Lessons []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}
