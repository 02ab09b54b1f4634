package service

import (
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/repository"
	"edulearn_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type DiscussionService struct {
	DiscussionRepo *repository.DiscussionRepository
	CourseRepo     *repository.CourseRepository
}

func NewDiscussionService(discussionRepo *repository.DiscussionRepository, courseRepo *repository.CourseRepository) *DiscussionService {
	return &DiscussionService{
		DiscussionRepo: discussionRepo,
		CourseRepo:     courseRepo,
	}
}

type PostRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

func (s *DiscussionService) CreatePost(courseID, userID uint, req PostRequest) (*model.Post, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	post := &model.Post{
		CourseID: courseID,
		UserID:   userID,
		Title:    req.Title,
		Content:  req.Content,
	}
	if err := s.DiscussionRepo.CreatePost(post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *DiscussionService) GetPost(id string) (*model.Post, error) {
	post, err := s.DiscussionRepo.FindPostByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *DiscussionService) ListPosts(courseID uint, page, limit int) ([]model.Post, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.DiscussionRepo.ListPostsByCourse(courseID, page, limit)
}

func (s *DiscussionService) DeletePost(id string, actorID uint, actorRole model.UserRole) error {
	post, err := s.GetPost(id)
	if err != nil {
		return err
	}

	if actorRole != model.Admin && post.UserID != actorID {
		return util.ErrPermissionDenied
	}
	return s.DiscussionRepo.DeletePost(id)
}

func (s *DiscussionService) CreateComment(postID string, userID uint, req CommentRequest) (*model.Comment, error) {
	if _, err := s.GetPost(postID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: req.Content,
	}
	if err := s.DiscussionRepo.CreateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *DiscussionService) DeleteComment(id string, actorID uint, actorRole model.UserRole) error {
	comment, err := s.DiscussionRepo.FindCommentByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCommentNotFound
		}
		return err
	}

	if actorRole != model.Admin && comment.UserID != actorID {
		return util.ErrPermissionDenied
	}
	return s.DiscussionRepo.DeleteComment(id)
}
