package service

import (
	"context"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/repository"
	"edulearn_backend/internal/util"
	"edulearn_backend/pkg/logger"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const leaderboardCacheTTL = 5 * time.Minute

type UserService struct {
	UserRepo *repository.UserRepository
	Redis    *redis.Client
}

func NewUserService(userRepo *repository.UserRepository, rdb *redis.Client) *UserService {
	return &UserService{
		UserRepo: userRepo,
		Redis:    rdb,
	}
}

type ProfileUpdateRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// UserStats 学员的经验/等级统计视图
type UserStats struct {
	XPPoints       int `json:"xpPoints"`
	Level          int `json:"level"`
	NextLevelXP    int `json:"nextLevelXp"`
	TotalStudyTime int `json:"totalStudyTime"`
}

type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	User   string `json:"user"`
	XP     int    `json:"xp"`
	Level  int    `json:"level"`
	Avatar string `json:"avatar,omitempty"`
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateProfile(userID uint, req ProfileUpdateRequest) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetStats(userID uint) (*UserStats, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	return &UserStats{
		XPPoints:       user.XP,
		Level:          model.LevelForXP(user.XP),
		NextLevelXP:    model.LevelForXP(user.XP) * model.LevelXPStep,
		TotalStudyTime: user.TotalStudyTime,
	}, nil
}

// GetLeaderboard XP排行榜，Redis缓存5分钟，缓存不可用时直接回源
func (s *UserService) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	cacheKey := fmt.Sprintf("leaderboard:top:%d", limit)

	val, err := s.Redis.Get(ctx, cacheKey).Result()
	if err == nil {
		var cached []LeaderboardEntry
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			return cached, nil
		}
	} else if err != redis.Nil {
		logger.Log.Warn("leaderboard cache read failed", zap.Error(err))
	}

	users, err := s.UserRepo.FindTopByXP(limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(users))
	for i, user := range users {
		entries[i] = LeaderboardEntry{
			Rank:   i + 1,
			User:   user.Name,
			XP:     user.XP,
			Level:  model.LevelForXP(user.XP),
			Avatar: user.Avatar,
		}
	}

	if data, err := json.Marshal(entries); err == nil {
		if err := s.Redis.Set(ctx, cacheKey, data, leaderboardCacheTTL).Err(); err != nil {
			logger.Log.Warn("leaderboard cache write failed", zap.Error(err))
		}
	}

	return entries, nil
}

// WarmLeaderboardCache 后台定时预热排行榜缓存
func (s *UserService) WarmLeaderboardCache(ctx context.Context) error {
	s.Redis.Del(ctx, "leaderboard:top:10")
	_, err := s.GetLeaderboard(ctx, 10)
	return err
}
