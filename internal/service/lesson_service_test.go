package service

import (
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
)

// 序号校验发生在任何存储访问之前，空服务即可覆盖

func TestCreateLessonRejectsNonPositiveOrder(t *testing.T) {
	svc := &LessonService{}

	for _, order := range []int{0, -3} {
		order := order
		_, err := svc.CreateLesson(1, 1, model.Instructor, LessonRequest{Title: "课时", Order: &order})
		assert.ErrorIs(t, err, util.ErrInvalidLessonOrder)
	}
}

func TestUpdateLessonRejectsNonPositiveOrder(t *testing.T) {
	svc := &LessonService{}

	order := -1
	_, err := svc.UpdateLesson(1, 1, model.Instructor, LessonRequest{Title: "课时", Order: &order})
	assert.ErrorIs(t, err, util.ErrInvalidLessonOrder)
}
