package repository

import (
	"edulearn_backend/internal/model"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) Find(userID, lessonID uint) (*model.LessonProgress, error) {
	var progress model.LessonProgress
	err := r.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// ListByUserAndCourse 一次取回用户在该课程下的全部学习记录
func (r *ProgressRepository) ListByUserAndCourse(userID, courseID uint) ([]model.LessonProgress, error) {
	var records []model.LessonProgress
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Find(&records).Error
	return records, err
}

// SaveWatchTime 自动保存路径：只更新观看时长，从不改动完成状态
func (r *ProgressRepository) SaveWatchTime(userID uint, lesson *model.Lesson, watchTime int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.LessonProgress
		err := tx.Where("user_id = ? AND lesson_id = ?", userID, lesson.ID).
			First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			record := model.LessonProgress{
				UserID:    userID,
				LessonID:  lesson.ID,
				CourseID:  lesson.CourseID,
				WatchTime: watchTime,
			}
			return tx.Create(&record).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&existing).Update("watch_time", watchTime).Error
	})
}

// CompleteWithReward 标记课时完成并在首次完成时发放奖励。
// 已完成判定、记录写入与奖励发放在同一事务内完成，进度行加
// FOR UPDATE 锁，两个并发的完成请求不会都拿到奖励。
// 返回值表示本次调用是否真正发生了首次完成。
//
// 进度行尚不存在时，并发的两个请求都会走创建分支，败者撞唯一索引。
// 这时重试一次：重试时赢家写入的行已可见，败者落到幂等路径。
func (r *ProgressRepository) CompleteWithReward(userID uint, lesson *model.Lesson, watchTime *int, xpAward int) (bool, error) {
	rewarded, err := r.completeOnce(userID, lesson, watchTime, xpAward)
	if isDuplicateKeyError(err) {
		rewarded, err = r.completeOnce(userID, lesson, watchTime, xpAward)
	}
	return rewarded, err
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

func (r *ProgressRepository) completeOnce(userID uint, lesson *model.Lesson, watchTime *int, xpAward int) (bool, error) {
	rewarded := false

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.LessonProgress
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND lesson_id = ?", userID, lesson.ID).
			First(&existing).Error

		now := time.Now()

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			watched := 0
			if watchTime != nil {
				watched = *watchTime
			}
			record := model.LessonProgress{
				UserID:      userID,
				LessonID:    lesson.ID,
				CourseID:    lesson.CourseID,
				WatchTime:   watched,
				IsCompleted: true,
				CompletedAt: &now,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}

		case err != nil:
			return err

		case existing.IsCompleted:
			// 幂等路径：已完成的记录只吸收新的观看时长，
			// CompletedAt 不回退，也不重复发放奖励
			if watchTime != nil && *watchTime != existing.WatchTime {
				if err := tx.Model(&existing).Update("watch_time", *watchTime).Error; err != nil {
					return err
				}
			}
			return nil

		default:
			updates := map[string]interface{}{
				"is_completed": true,
				"completed_at": now,
			}
			if watchTime != nil {
				updates["watch_time"] = *watchTime
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
		}

		// 首次完成：同一事务内记经验、学习时长并重算等级
		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			return err
		}
		user.XP += xpAward
		if watchTime != nil {
			user.TotalStudyTime += *watchTime
		}
		user.Level = model.LevelForXP(user.XP)
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		rewarded = true
		return nil
	})

	return rewarded, err
}

// DeleteByLesson 课时被删除时清理其学习记录（管理侧清理，与解锁引擎无关）
func (r *ProgressRepository) DeleteByLesson(tx *gorm.DB, lessonID uint) error {
	return tx.Where("lesson_id = ?", lessonID).Delete(&model.LessonProgress{}).Error
}
