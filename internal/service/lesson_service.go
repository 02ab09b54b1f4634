package service

import (
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/repository"
	"edulearn_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

// LessonService 课时的增删改（讲师/管理员侧），负责维护所属课程的
// TotalLessons / TotalDuration 聚合计数器。解锁引擎只读课时，不经过这里。
type LessonService struct {
	LessonRepo   *repository.LessonRepository
	CourseRepo   *repository.CourseRepository
	ProgressRepo *repository.ProgressRepository
	db           *gorm.DB
}

func NewLessonService(
	lessonRepo *repository.LessonRepository,
	courseRepo *repository.CourseRepository,
	progressRepo *repository.ProgressRepository,
	db *gorm.DB,
) *LessonService {
	return &LessonService{
		LessonRepo:   lessonRepo,
		CourseRepo:   courseRepo,
		ProgressRepo: progressRepo,
		db:           db,
	}
}

type LessonRequest struct {
	Title       string                  `json:"title" binding:"required"`
	Description string                  `json:"description"`
	Duration    int                     `json:"duration"`
	ContentType model.LessonContentType `json:"contentType"`
	VideoURL    string                  `json:"videoUrl"`
	DocumentURL string                  `json:"documentUrl"`
	Content     string                  `json:"content"`
	Order       *int                    `json:"order"`
}

func (s *LessonService) canManage(course *model.Course, actorID uint, actorRole model.UserRole) bool {
	return actorRole == model.Admin || course.InstructorID == actorID
}

// CreateLesson 新建课时并在同一事务内累加课程计数器。
// 未指定序号时自动排到课程末尾。
func (s *LessonService) CreateLesson(courseID, actorID uint, actorRole model.UserRole, req LessonRequest) (*model.Lesson, error) {
	// 序号从1起，手工指定时必须为正
	if req.Order != nil && *req.Order <= 0 {
		return nil, util.ErrInvalidLessonOrder
	}

	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if !s.canManage(course, actorID, actorRole) {
		return nil, util.ErrPermissionDenied
	}

	order := 0
	if req.Order != nil {
		order = *req.Order
	} else {
		order, err = s.LessonRepo.NextOrder(courseID)
		if err != nil {
			return nil, err
		}
	}

	lesson := &model.Lesson{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		Order:       order,
		Duration:    req.Duration,
		ContentType: req.ContentType,
		VideoURL:    req.VideoURL,
		DocumentURL: req.DocumentURL,
		Content:     req.Content,
	}
	if lesson.ContentType == "" {
		lesson.ContentType = model.LessonVideo
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(lesson).Error; err != nil {
			return err
		}
		return tx.Model(&model.Course{}).
			Where("id = ?", courseID).
			Updates(map[string]interface{}{
				"total_lessons":  gorm.Expr("total_lessons + 1"),
				"total_duration": gorm.Expr("total_duration + ?", lesson.Duration),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	return lesson, nil
}

func (s *LessonService) GetLesson(id uint) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

// UpdateLesson 时长变化时同步修正课程总时长
func (s *LessonService) UpdateLesson(id, actorID uint, actorRole model.UserRole, req LessonRequest) (*model.Lesson, error) {
	if req.Order != nil && *req.Order <= 0 {
		return nil, util.ErrInvalidLessonOrder
	}

	lesson, err := s.GetLesson(id)
	if err != nil {
		return nil, err
	}

	course, err := s.CourseRepo.FindByID(lesson.CourseID)
	if err != nil {
		return nil, err
	}
	if !s.canManage(course, actorID, actorRole) {
		return nil, util.ErrPermissionDenied
	}

	durationDelta := req.Duration - lesson.Duration

	lesson.Title = req.Title
	lesson.Description = req.Description
	lesson.Duration = req.Duration
	if req.ContentType != "" {
		lesson.ContentType = req.ContentType
	}
	lesson.VideoURL = req.VideoURL
	lesson.DocumentURL = req.DocumentURL
	lesson.Content = req.Content
	if req.Order != nil {
		lesson.Order = *req.Order
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(lesson).Error; err != nil {
			return err
		}
		if durationDelta != 0 {
			return tx.Model(&model.Course{}).
				Where("id = ?", lesson.CourseID).
				Update("total_duration", gorm.Expr("total_duration + ?", durationDelta)).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return lesson, nil
}

// DeleteLesson 删除课时：同一事务内清理学习记录并回调计数器。
// 后续课时不重新编号，序号只要求递增、不要求连续。
func (s *LessonService) DeleteLesson(id, actorID uint, actorRole model.UserRole) error {
	lesson, err := s.GetLesson(id)
	if err != nil {
		return err
	}

	course, err := s.CourseRepo.FindByID(lesson.CourseID)
	if err != nil {
		return err
	}
	if !s.canManage(course, actorID, actorRole) {
		return util.ErrPermissionDenied
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.ProgressRepo.DeleteByLesson(tx, lesson.ID); err != nil {
			return err
		}
		if err := tx.Delete(&model.Lesson{}, lesson.ID).Error; err != nil {
			return err
		}
		return tx.Model(&model.Course{}).
			Where("id = ?", lesson.CourseID).
			Updates(map[string]interface{}{
				"total_lessons":  gorm.Expr("total_lessons - 1"),
				"total_duration": gorm.Expr("total_duration - ?", lesson.Duration),
			}).Error
	})
}
