package services

import (
	"fmt"
	"time"

	"questboard/backend/internal/cache"
	"questboard/backend/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// CachedLeaderboardService decorates the plain leaderboard with the
// redis cache. Scores change rarely next to how often the board is
// read, so short TTLs plus invalidation on approval keep it honest.
type CachedLeaderboardService struct {
	leaderboard LeaderboardService
	cache       *cache.RedisCache
}

func NewCachedLeaderboardService(leaderboard LeaderboardService, cacheInstance *cache.RedisCache) *CachedLeaderboardService {
	return &CachedLeaderboardService{
		leaderboard: leaderboard,
		cache:       cacheInstance,
	}
}

func (s *CachedLeaderboardService) TopPlayers(db *gorm.DB, limit int) ([]models.Profile, error) {
	cacheKey := fmt.Sprintf("leaderboard:top:%d", limit)

	var cached []models.Profile
	if err := s.cache.Get(cacheKey, &cached); err == nil {
		return cached, nil
	}

	profiles, err := s.leaderboard.TopPlayers(db, limit)
	if err != nil {
		return profiles, err
	}

	s.cache.Set(cacheKey, profiles, 2*time.Minute)

	return profiles, nil
}

func (s *CachedLeaderboardService) Directory(db *gorm.DB, exclude uuid.UUID) ([]models.Profile, error) {
	cacheKey := fmt.Sprintf("directory:%s", exclude.String())

	var cached []models.Profile
	if err := s.cache.Get(cacheKey, &cached); err == nil {
		return cached, nil
	}

	profiles, err := s.leaderboard.Directory(db, exclude)
	if err != nil {
		return profiles, err
	}

	s.cache.Set(cacheKey, profiles, time.Minute)

	return profiles, nil
}

// InvalidateScores drops every ranking entry. Wired into the lifecycle
// engine's score-change hook.
func (s *CachedLeaderboardService) InvalidateScores() {
	s.cache.DeletePattern("leaderboard:*")
	s.cache.DeletePattern("directory:*")
}
