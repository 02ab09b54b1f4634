package repository

import (
	"edulearn_backend/internal/model"

	"gorm.io/gorm"
)

type DiscussionRepository struct {
	DB *gorm.DB
}

func NewDiscussionRepository(db *gorm.DB) *DiscussionRepository {
	return &DiscussionRepository{DB: db}
}

func (r *DiscussionRepository) CreatePost(post *model.Post) error {
	return r.DB.Create(post).Error
}

func (r *DiscussionRepository) FindPostByID(id string) (*model.Post, error) {
	var post model.Post
	err := r.DB.Preload("Author").Preload("Comments.Author").
		Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *DiscussionRepository) ListPostsByCourse(courseID uint, page, limit int) ([]model.Post, int64, error) {
	query := r.DB.Model(&model.Post{}).Where("course_id = ?", courseID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []model.Post
	err := query.Preload("Author").
		Order("pinned DESC, created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&posts).Error
	return posts, total, err
}

func (r *DiscussionRepository) DeletePost(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Post{}).Error
	})
}

func (r *DiscussionRepository) CreateComment(comment *model.Comment) error {
	return r.DB.Create(comment).Error
}

func (r *DiscussionRepository) FindCommentByID(id string) (*model.Comment, error) {
	var comment model.Comment
	err := r.DB.Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *DiscussionRepository) DeleteComment(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.Comment{}).Error
}
