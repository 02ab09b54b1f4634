package model

// 讨论区沿用 UUID 主键，帖子链接对外不暴露自增序号

// swagger:model Post
type Post struct {
	UUIDBase
	CourseID uint      `gorm:"not null;index" json:"courseId"`
	UserID   uint      `gorm:"not null;index" json:"userId"`
	Title    string    `gorm:"size:255;not null" json:"title"`
	Content  string    `gorm:"type:text" json:"content"`
	Pinned   bool      `gorm:"default:false" json:"pinned"`
	Author   *User     `gorm:"foreignKey:UserID" json:"author,omitempty"`
	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}

// swagger:model Comment
type Comment struct {
	UUIDBase
	PostID  string `gorm:"type:varchar(36);not null;index" json:"postId"`
	UserID  uint   `gorm:"not null;index" json:"userId"`
	Content string `gorm:"type:text;not null" json:"content"`
	Author  *User  `gorm:"foreignKey:UserID" json:"author,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}
