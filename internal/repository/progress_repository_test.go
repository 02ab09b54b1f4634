package repository

import (
	"edulearn_backend/internal/model"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newProgressMockRepo(t *testing.T) (*ProgressRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return NewProgressRepository(gdb), mock
}

func testLesson() *model.Lesson {
	lesson := &model.Lesson{CourseID: 2, Title: "入门", Order: 1}
	lesson.ID = 5
	return lesson
}

var progressColumns = []string{
	"id", "created_at", "updated_at", "deleted_at",
	"user_id", "lesson_id", "course_id", "watch_time", "is_completed", "completed_at",
}

func completedRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(progressColumns).
		AddRow(1, now, now, nil, 9, 5, 2, 30, true, now)
}

// 首次完成：同一事务内锁进度行、写完成记录、锁用户行并发放奖励
func TestCompleteWithRewardFirstCompletion(t *testing.T) {
	repo, mock := newProgressMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM .lesson_progress.(.+)FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(progressColumns))
	mock.ExpectExec("INSERT INTO .lesson_progress.").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT (.+) FROM .users.(.+)FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "xp", "level", "total_study_time"}).
			AddRow(9, "Alice", "alice@example.com", 50, 1, 40))
	mock.ExpectExec("UPDATE .users. SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	watch := 12
	rewarded, err := repo.CompleteWithReward(9, testLesson(), &watch, 25)
	require.NoError(t, err)
	assert.True(t, rewarded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 重复完成：事务里读到已完成的行后直接提交，
// 不触达 users 表，不重复发放奖励
func TestCompleteWithRewardSecondCallIsIdempotent(t *testing.T) {
	repo, mock := newProgressMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM .lesson_progress.(.+)FOR UPDATE").
		WillReturnRows(completedRow())
	mock.ExpectCommit()

	rewarded, err := repo.CompleteWithReward(9, testLesson(), nil, 25)
	require.NoError(t, err)
	assert.False(t, rewarded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 并发首次完成的败者：创建分支撞唯一索引后重试一次，
// 重试读到赢家写入的行，落到幂等路径，调用方看不到错误
func TestCompleteWithRewardRetriesOnDuplicateKey(t *testing.T) {
	repo, mock := newProgressMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM .lesson_progress.(.+)FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(progressColumns))
	mock.ExpectExec("INSERT INTO .lesson_progress.").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '9-5' for key 'idx_user_lesson'"})
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM .lesson_progress.(.+)FOR UPDATE").
		WillReturnRows(completedRow())
	mock.ExpectCommit()

	rewarded, err := repo.CompleteWithReward(9, testLesson(), nil, 25)
	require.NoError(t, err)
	assert.False(t, rewarded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 自动保存路径只更新 watch_time，提交前后都不触达完成字段和 users 表
func TestSaveWatchTimeUpdatesOnlyWatchTime(t *testing.T) {
	repo, mock := newProgressMockRepo(t)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM .lesson_progress.").
		WillReturnRows(sqlmock.NewRows(progressColumns).
			AddRow(1, now, now, nil, 9, 5, 2, 10, false, nil))
	mock.ExpectExec("UPDATE .lesson_progress. SET .watch_time.").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.SaveWatchTime(9, testLesson(), 45)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
