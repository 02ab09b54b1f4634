package controller

import (
	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type DiscussionController struct {
	DiscussionService *service.DiscussionService
}

func NewDiscussionController(discussionService *service.DiscussionService) *DiscussionController {
	return &DiscussionController{DiscussionService: discussionService}
}

// @Summary 课程讨论区帖子列表
// @Tags 讨论区
// @Produce json
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{id}/posts [get]
func (c *DiscussionController) ListPosts(ctx *gin.Context) {
	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	page := util.ParseIntDefault(ctx.Query("page"), 1)
	limit := util.ParseIntDefault(ctx.Query("limit"), 20)

	posts, total, err := c.DiscussionService.ListPosts(courseID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  posts,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// @Summary 帖子详情（含评论）
// @Tags 讨论区
// @Produce json
// @Param id path string true "帖子ID"
// @Success 200 {object} util.Response
// @Router /api/posts/{id} [get]
func (c *DiscussionController) GetPost(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		util.BadRequest(ctx, "invalid post id")
		return
	}

	post, err := c.DiscussionService.GetPost(id)
	if err != nil {
		if errors.Is(err, util.ErrPostNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, post)
}

// @Summary 发帖
// @Tags 讨论区
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课程ID"
// @Success 201 {object} util.Response
// @Router /api/courses/{id}/posts [post]
func (c *DiscussionController) CreatePost(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	var req service.PostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	post, err := c.DiscussionService.CreatePost(courseID, claims.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, post)
}

// @Summary 删除帖子
// @Tags 讨论区
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "帖子ID"
// @Success 200 {object} util.Response
// @Router /api/posts/{id} [delete]
func (c *DiscussionController) DeletePost(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := ctx.Param("id")
	if id == "" {
		util.BadRequest(ctx, "invalid post id")
		return
	}

	if err := c.DiscussionService.DeletePost(id, claims.UserID, claims.Role); err != nil {
		switch {
		case errors.Is(err, util.ErrPostNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}

// @Summary 评论帖子
// @Tags 讨论区
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "帖子ID"
// @Success 201 {object} util.Response
// @Router /api/posts/{id}/comments [post]
func (c *DiscussionController) CreateComment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	postID := ctx.Param("id")
	if postID == "" {
		util.BadRequest(ctx, "invalid post id")
		return
	}

	var req service.CommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	comment, err := c.DiscussionService.CreateComment(postID, claims.UserID, req)
	if err != nil {
		if errors.Is(err, util.ErrPostNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, comment)
}

// @Summary 删除评论
// @Tags 讨论区
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "评论ID"
// @Success 200 {object} util.Response
// @Router /api/comments/{id} [delete]
func (c *DiscussionController) DeleteComment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := ctx.Param("id")
	if id == "" {
		util.BadRequest(ctx, "invalid comment id")
		return
	}

	if err := c.DiscussionService.DeleteComment(id, claims.UserID, claims.Role); err != nil {
		switch {
		case errors.Is(err, util.ErrCommentNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}
