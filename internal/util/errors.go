package util

import "errors"

var (
	ErrUserNotFound             = errors.New("用户不存在")
	ErrEmailRegistered          = errors.New("该邮箱已被注册")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrPermissionDenied         = errors.New("permission denied")
	ErrCourseNotFound           = errors.New("course not found")
	ErrLessonNotFound           = errors.New("lesson not found")
	ErrPostNotFound             = errors.New("post not found")
	ErrCommentNotFound          = errors.New("comment not found")
	ErrPreviousLessonIncomplete = errors.New("previous lesson not completed")
	ErrInvalidLessonOrder       = errors.New("lesson order must be a positive integer")
)
