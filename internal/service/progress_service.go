package service

import (
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/util"
	"edulearn_backend/pkg/logger"
	"edulearn_backend/pkg/monitoring"
	"errors"
	"strconv"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LessonStore / ProgressStore / CourseStore 是解锁引擎对存储层的
// 最小依赖面，生产实现是 repository 包的 GORM 仓库。
type LessonStore interface {
	FindByID(id uint) (*model.Lesson, error)
	ListByCourse(courseID uint) ([]model.Lesson, error)
	FindPrevious(courseID uint, order int) (*model.Lesson, error)
}

type ProgressStore interface {
	Find(userID, lessonID uint) (*model.LessonProgress, error)
	ListByUserAndCourse(userID, courseID uint) ([]model.LessonProgress, error)
	SaveWatchTime(userID uint, lesson *model.Lesson, watchTime int) error
	CompleteWithReward(userID uint, lesson *model.Lesson, watchTime *int, xpAward int) (bool, error)
}

type CourseStore interface {
	FindByID(id uint) (*model.Course, error)
}

// ProgressService 顺序解锁引擎：课时目录、访问判定、完成记录与奖励发放
type ProgressService struct {
	LessonStore   LessonStore
	ProgressStore ProgressStore
	CourseStore   CourseStore
}

func NewProgressService(lessonStore LessonStore, progressStore ProgressStore, courseStore CourseStore) *ProgressService {
	return &ProgressService{
		LessonStore:   lessonStore,
		ProgressStore: progressStore,
		CourseStore:   courseStore,
	}
}

// LessonAccess 单个课时对当前学员的可见状态
type LessonAccess struct {
	Lesson      model.Lesson `json:"lesson"`
	CanAccess   bool         `json:"canAccess"`
	IsCompleted bool         `json:"isCompleted"`
	WatchTime   int          `json:"watchTime"`
}

// ListLessons 返回课程全部课时（按序号升序）。课程不存在时报错，
// 空课时列表是正常结果。
func (s *ProgressService) ListLessons(courseID uint) ([]model.Lesson, error) {
	if _, err := s.CourseStore.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return s.LessonStore.ListByCourse(courseID)
}

// EvaluateAccess 计算学员对课程内每个课时的访问权限。
// 首个课时无条件开放；之后每个课时以前一课时已完成为前提。
// userID 为 0 表示游客：没有任何学习记录，只能预览首个课时。
func (s *ProgressService) EvaluateAccess(userID, courseID uint) ([]LessonAccess, error) {
	lessons, err := s.ListLessons(courseID)
	if err != nil {
		return nil, err
	}

	recordsByLesson := make(map[uint]model.LessonProgress)
	if userID != 0 {
		records, err := s.ProgressStore.ListByUserAndCourse(userID, courseID)
		if err != nil {
			return nil, err
		}
		for _, record := range records {
			recordsByLesson[record.LessonID] = record
		}
	}

	result := make([]LessonAccess, 0, len(lessons))
	prevCompleted := false
	for i, lesson := range lessons {
		record, has := recordsByLesson[lesson.ID]

		access := LessonAccess{
			Lesson:    lesson,
			CanAccess: i == 0 || prevCompleted,
		}
		if has {
			access.IsCompleted = record.IsCompleted
			access.WatchTime = record.WatchTime
		}
		result = append(result, access)

		prevCompleted = access.IsCompleted
	}

	return result, nil
}

// CompleteLesson 显式“标记完成”入口，唯一允许把 IsCompleted 置为
// true 的受门控写路径。前置课时未完成时返回
// ErrPreviousLessonIncomplete 且不写任何状态；重复完成幂等成功。
func (s *ProgressService) CompleteLesson(userID, lessonID uint, watchTime *int) error {
	lesson, err := s.lookupLesson(lessonID)
	if err != nil {
		return err
	}

	if err := s.checkGate(userID, lesson); err != nil {
		return err
	}

	rewarded, err := s.ProgressStore.CompleteWithReward(userID, lesson, watchTime, util.LessonXPAward)
	if err != nil {
		return err
	}

	if rewarded {
		monitoring.LessonCompletions.WithLabelValues(strconv.FormatUint(uint64(lesson.CourseID), 10)).Inc()
		logger.Log.Info("lesson completed",
			zap.Uint("userId", userID),
			zap.Uint("lessonId", lessonID),
			zap.Uint("courseId", lesson.CourseID),
		)
	}
	return nil
}

// SaveCheckpoint 播放器周期性上报观看时长的自动保存入口。
// markCompleted 为 true 时同样要过门控检查再走完成路径——
// 伪造的自动保存请求不能绕过解锁顺序。
func (s *ProgressService) SaveCheckpoint(userID, lessonID uint, watchTime int, markCompleted bool) error {
	if markCompleted {
		return s.CompleteLesson(userID, lessonID, &watchTime)
	}

	lesson, err := s.lookupLesson(lessonID)
	if err != nil {
		return err
	}
	return s.ProgressStore.SaveWatchTime(userID, lesson, watchTime)
}

func (s *ProgressService) lookupLesson(lessonID uint) (*model.Lesson, error) {
	lesson, err := s.LessonStore.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

// checkGate 顺序门控：定位序号紧邻的前一课时并要求其已完成。
// 读侧 EvaluateAccess 与这里共用同一判定口径。
func (s *ProgressService) checkGate(userID uint, lesson *model.Lesson) error {
	previous, err := s.LessonStore.FindPrevious(lesson.CourseID, lesson.Order)
	if err != nil {
		return err
	}
	if previous == nil {
		// 首个课时，无前置条件
		return nil
	}

	record, err := s.ProgressStore.Find(userID, previous.ID)
	if err != nil {
		return err
	}
	if record == nil || !record.IsCompleted {
		return util.ErrPreviousLessonIncomplete
	}
	return nil
}
