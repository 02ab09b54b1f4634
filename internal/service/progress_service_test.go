package service

import (
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/util"
	"edulearn_backend/pkg/logger"
	"os"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

// 内存版存储实现，镜像 repository 层的事务语义：
// 已完成记录不回退、奖励只在首次完成发放。

type fakeCourseStore struct {
	courses map[uint]*model.Course
}

func (f *fakeCourseStore) FindByID(id uint) (*model.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return course, nil
}

type fakeLessonStore struct {
	lessons map[uint]*model.Lesson
}

func (f *fakeLessonStore) FindByID(id uint) (*model.Lesson, error) {
	lesson, ok := f.lessons[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return lesson, nil
}

func (f *fakeLessonStore) ListByCourse(courseID uint) ([]model.Lesson, error) {
	var result []model.Lesson
	for _, lesson := range f.lessons {
		if lesson.CourseID == courseID {
			result = append(result, *lesson)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Order < result[j].Order })
	return result, nil
}

func (f *fakeLessonStore) FindPrevious(courseID uint, order int) (*model.Lesson, error) {
	var prev *model.Lesson
	for _, lesson := range f.lessons {
		if lesson.CourseID != courseID || lesson.Order >= order {
			continue
		}
		if prev == nil || lesson.Order > prev.Order {
			prev = lesson
		}
	}
	return prev, nil
}

type progressKey struct {
	userID   uint
	lessonID uint
}

type fakeProgressStore struct {
	records map[progressKey]*model.LessonProgress
	users   map[uint]*model.User
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{
		records: make(map[progressKey]*model.LessonProgress),
		users:   make(map[uint]*model.User),
	}
}

func (f *fakeProgressStore) user(id uint) *model.User {
	u, ok := f.users[id]
	if !ok {
		u = &model.User{Level: 1}
		u.ID = id
		f.users[id] = u
	}
	return u
}

func (f *fakeProgressStore) Find(userID, lessonID uint) (*model.LessonProgress, error) {
	record, ok := f.records[progressKey{userID, lessonID}]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (f *fakeProgressStore) ListByUserAndCourse(userID, courseID uint) ([]model.LessonProgress, error) {
	var result []model.LessonProgress
	for _, record := range f.records {
		if record.UserID == userID && record.CourseID == courseID {
			result = append(result, *record)
		}
	}
	return result, nil
}

func (f *fakeProgressStore) SaveWatchTime(userID uint, lesson *model.Lesson, watchTime int) error {
	key := progressKey{userID, lesson.ID}
	if existing, ok := f.records[key]; ok {
		existing.WatchTime = watchTime
		return nil
	}
	f.records[key] = &model.LessonProgress{
		UserID:    userID,
		LessonID:  lesson.ID,
		CourseID:  lesson.CourseID,
		WatchTime: watchTime,
	}
	return nil
}

func (f *fakeProgressStore) CompleteWithReward(userID uint, lesson *model.Lesson, watchTime *int, xpAward int) (bool, error) {
	key := progressKey{userID, lesson.ID}
	now := time.Now()

	existing, ok := f.records[key]
	if ok && existing.IsCompleted {
		if watchTime != nil {
			existing.WatchTime = *watchTime
		}
		return false, nil
	}

	if !ok {
		existing = &model.LessonProgress{
			UserID:   userID,
			LessonID: lesson.ID,
			CourseID: lesson.CourseID,
		}
		f.records[key] = existing
	}
	existing.IsCompleted = true
	existing.CompletedAt = &now
	if watchTime != nil {
		existing.WatchTime = *watchTime
	}

	u := f.user(userID)
	u.XP += xpAward
	if watchTime != nil {
		u.TotalStudyTime += *watchTime
	}
	u.Level = model.LevelForXP(u.XP)
	return true, nil
}

func newTestEngine() (*ProgressService, *fakeLessonStore, *fakeProgressStore) {
	courses := &fakeCourseStore{courses: map[uint]*model.Course{}}
	course := &model.Course{Title: "C语言入门", Published: true}
	course.ID = 1
	courses.courses[1] = course

	lessons := &fakeLessonStore{lessons: map[uint]*model.Lesson{}}
	for i, order := range []int{1, 2, 3} {
		lesson := &model.Lesson{CourseID: 1, Title: "课时", Order: order, Duration: 10}
		lesson.ID = uint(i + 1)
		lessons.lessons[lesson.ID] = lesson
	}

	progress := newFakeProgressStore()
	return NewProgressService(lessons, progress, courses), lessons, progress
}

func TestEvaluateAccessNewUser(t *testing.T) {
	engine, _, _ := newTestEngine()

	result, err := engine.EvaluateAccess(42, 1)
	require.NoError(t, err)
	require.Len(t, result, 3)

	// 首个课时无条件开放，其余锁定
	assert.True(t, result[0].CanAccess)
	assert.False(t, result[1].CanAccess)
	assert.False(t, result[2].CanAccess)
	for _, access := range result {
		assert.False(t, access.IsCompleted)
		assert.Zero(t, access.WatchTime)
	}
}

func TestEvaluateAccessAnonymous(t *testing.T) {
	engine, _, _ := newTestEngine()

	// 游客（userID=0）只能预览首个课时
	result, err := engine.EvaluateAccess(0, 1)
	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.True(t, result[0].CanAccess)
	assert.False(t, result[1].CanAccess)
	assert.False(t, result[2].CanAccess)
}

func TestEvaluateAccessCourseNotFound(t *testing.T) {
	engine, _, _ := newTestEngine()

	_, err := engine.EvaluateAccess(42, 999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestEvaluateAccessSingleLessonCourse(t *testing.T) {
	engine, lessons, _ := newTestEngine()
	course := &model.Course{Title: "单课时课程"}
	course.ID = 2
	engine.CourseStore.(*fakeCourseStore).courses[2] = course

	only := &model.Lesson{CourseID: 2, Title: "唯一课时", Order: 7}
	only.ID = 10
	lessons.lessons[10] = only

	result, err := engine.EvaluateAccess(42, 2)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.True(t, result[0].CanAccess)
}

func TestCompleteLessonGating(t *testing.T) {
	engine, _, store := newTestEngine()

	// 前置课时未完成，直接完成第二课时必须被拒绝且不写任何状态
	err := engine.CompleteLesson(42, 2, nil)
	assert.ErrorIs(t, err, util.ErrPreviousLessonIncomplete)
	assert.Empty(t, store.records)

	err = engine.CompleteLesson(42, 3, nil)
	assert.ErrorIs(t, err, util.ErrPreviousLessonIncomplete)
}

func TestCompleteLessonNotFound(t *testing.T) {
	engine, _, _ := newTestEngine()

	err := engine.CompleteLesson(42, 999, nil)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)
}

func TestCompleteLessonIdempotent(t *testing.T) {
	engine, _, store := newTestEngine()

	require.NoError(t, engine.CompleteLesson(42, 1, nil))
	user := store.user(42)
	assert.Equal(t, util.LessonXPAward, user.XP)

	record, err := store.Find(42, 1)
	require.NoError(t, err)
	require.NotNil(t, record)
	firstCompletedAt := *record.CompletedAt

	// 重复完成：幂等成功，XP不翻倍，CompletedAt不回退
	require.NoError(t, engine.CompleteLesson(42, 1, nil))
	assert.Equal(t, util.LessonXPAward, user.XP)

	record, err = store.Find(42, 1)
	require.NoError(t, err)
	assert.True(t, record.IsCompleted)
	assert.Equal(t, firstCompletedAt, *record.CompletedAt)
	assert.Len(t, store.records, 1)
}

func TestSequentialUnlockScenario(t *testing.T) {
	engine, _, store := newTestEngine()
	const userID = 42

	// 新用户：L1开放，L2/L3锁定
	result, err := engine.EvaluateAccess(userID, 1)
	require.NoError(t, err)
	assert.True(t, result[0].CanAccess)
	assert.False(t, result[1].CanAccess)
	assert.False(t, result[2].CanAccess)

	// 越级完成L2失败
	assert.ErrorIs(t, engine.CompleteLesson(userID, 2, nil), util.ErrPreviousLessonIncomplete)

	// 完成L1：XP=25，等级1
	watch := 12
	require.NoError(t, engine.CompleteLesson(userID, 1, &watch))
	user := store.user(userID)
	assert.Equal(t, 25, user.XP)
	assert.Equal(t, 1, user.Level)
	assert.Equal(t, 12, user.TotalStudyTime)

	// L2解锁
	result, err = engine.EvaluateAccess(userID, 1)
	require.NoError(t, err)
	assert.True(t, result[1].CanAccess)
	assert.False(t, result[2].CanAccess)

	// 完成L2：XP=50
	require.NoError(t, engine.CompleteLesson(userID, 2, nil))
	assert.Equal(t, 50, user.XP)

	// 重复完成L1：幂等，XP保持50
	require.NoError(t, engine.CompleteLesson(userID, 1, nil))
	assert.Equal(t, 50, user.XP)

	// L3解锁并可完成
	require.NoError(t, engine.CompleteLesson(userID, 3, nil))
	assert.Equal(t, 75, user.XP)
}

func TestSaveCheckpointDoesNotComplete(t *testing.T) {
	engine, _, store := newTestEngine()

	// 纯观看时长上报：不做门控、不改完成状态、不发奖励
	require.NoError(t, engine.SaveCheckpoint(42, 3, 5, false))

	record, err := store.Find(42, 3)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 5, record.WatchTime)
	assert.False(t, record.IsCompleted)
	assert.Nil(t, record.CompletedAt)
	assert.Zero(t, store.user(42).XP)

	// 时长可以被后续上报覆盖
	require.NoError(t, engine.SaveCheckpoint(42, 3, 9, false))
	record, _ = store.Find(42, 3)
	assert.Equal(t, 9, record.WatchTime)
}

func TestSaveCheckpointCompletionIsGated(t *testing.T) {
	engine, _, store := newTestEngine()

	// 伪造的自动保存请求不能绕过解锁顺序
	err := engine.SaveCheckpoint(42, 2, 10, true)
	assert.ErrorIs(t, err, util.ErrPreviousLessonIncomplete)
	assert.Zero(t, store.user(42).XP)

	// 正常流程：L1完成后，自动保存可以把L2标记完成
	require.NoError(t, engine.CompleteLesson(42, 1, nil))
	require.NoError(t, engine.SaveCheckpoint(42, 2, 10, true))

	record, err := store.Find(42, 2)
	require.NoError(t, err)
	assert.True(t, record.IsCompleted)
	assert.Equal(t, 10, record.WatchTime)
	assert.Equal(t, 2*util.LessonXPAward, store.user(42).XP)
}

func TestCompletionNeverRegresses(t *testing.T) {
	engine, _, store := newTestEngine()

	require.NoError(t, engine.CompleteLesson(42, 1, nil))
	record, _ := store.Find(42, 1)
	completedAt := *record.CompletedAt

	// 完成后的自动保存只更新时长，完成状态与时间戳不动
	require.NoError(t, engine.SaveCheckpoint(42, 1, 30, false))
	record, _ = store.Find(42, 1)
	assert.True(t, record.IsCompleted)
	assert.Equal(t, completedAt, *record.CompletedAt)
	assert.Equal(t, 30, record.WatchTime)
}

func TestListLessonsEmptyCourse(t *testing.T) {
	engine, _, _ := newTestEngine()
	course := &model.Course{Title: "空课程"}
	course.ID = 3
	engine.CourseStore.(*fakeCourseStore).courses[3] = course

	lessons, err := engine.ListLessons(3)
	require.NoError(t, err)
	assert.Empty(t, lessons)

	access, err := engine.EvaluateAccess(42, 3)
	require.NoError(t, err)
	assert.Empty(t, access)
}
