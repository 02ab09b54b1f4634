package repository

import (
	"edulearn_backend/internal/model"
	"errors"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// ListByCourse 按排序序号升序返回课程的全部课时
func (r *LessonRepository) ListByCourse(courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("course_id = ?", courseID).
		Order("sort_order ASC").
		Find(&lessons).Error
	return lessons, err
}

// FindPrevious 定位序号严格小于 order 的最大一个课时。
// 解锁判定的热路径只做这一次索引范围查询，不拉全量列表排序。
// 没有前驱（即首个课时）时返回 (nil, nil)。
func (r *LessonRepository) FindPrevious(courseID uint, order int) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Where("course_id = ? AND sort_order < ?", courseID, order).
		Order("sort_order DESC").
		First(&lesson).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// NextOrder 课程内下一个可用排序序号
func (r *LessonRepository) NextOrder(courseID uint) (int, error) {
	var max int
	err := r.DB.Model(&model.Lesson{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&max).Error
	return max + 1, err
}
