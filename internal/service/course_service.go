package service

import (
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/repository"
	"edulearn_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo *repository.CourseRepository
}

func NewCourseService(courseRepo *repository.CourseRepository) *CourseService {
	return &CourseService{CourseRepo: courseRepo}
}

type CourseRequest struct {
	Title       string                 `json:"title" binding:"required"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	Difficulty  model.CourseDifficulty `json:"difficulty"`
	CoverURL    string                 `json:"coverUrl"`
	Published   *bool                  `json:"published"`
}

func (s *CourseService) CreateCourse(instructorID uint, req CourseRequest) (*model.Course, error) {
	course := &model.Course{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Difficulty:   req.Difficulty,
		CoverURL:     req.CoverURL,
		InstructorID: instructorID,
	}
	if course.Difficulty == "" {
		course.Difficulty = model.Beginner
	}
	if req.Published != nil {
		course.Published = *req.Published
	}

	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) GetCourse(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) ListCourses(page, limit int, category string, publishedOnly bool) ([]model.Course, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.CourseRepo.List(page, limit, category, publishedOnly)
}

func (s *CourseService) UpdateCourse(id, actorID uint, actorRole model.UserRole, req CourseRequest) (*model.Course, error) {
	course, err := s.GetCourse(id)
	if err != nil {
		return nil, err
	}

	if actorRole != model.Admin && course.InstructorID != actorID {
		return nil, util.ErrPermissionDenied
	}

	course.Title = req.Title
	course.Description = req.Description
	course.Category = req.Category
	if req.Difficulty != "" {
		course.Difficulty = req.Difficulty
	}
	if req.CoverURL != "" {
		course.CoverURL = req.CoverURL
	}
	if req.Published != nil {
		course.Published = *req.Published
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(id, actorID uint, actorRole model.UserRole) error {
	course, err := s.GetCourse(id)
	if err != nil {
		return err
	}

	if actorRole != model.Admin && course.InstructorID != actorID {
		return util.ErrPermissionDenied
	}

	return s.CourseRepo.Delete(id)
}
