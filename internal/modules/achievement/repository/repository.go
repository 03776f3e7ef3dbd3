package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mirasbazaar/economy/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UnlockRepository interface {
	// UnlockedIDs returns the set of achievement ids the user already holds.
	UnlockedIDs(ctx context.Context, userID uuid.UUID) (map[string]bool, error)
	// CreateUnlock persists an unlock. Returns (false, nil) when another
	// evaluator inserted the same unlock first — callers treat that as
	// already-unlocked, never as an error.
	CreateUnlock(ctx context.Context, unlock *entity.AchievementUnlock) (bool, error)
	// DeleteUnlock removes an unlock whose bonus grant failed, so the next
	// evaluation can retry it.
	DeleteUnlock(ctx context.Context, userID uuid.UUID, achievementID string) error
}

type unlockRepository struct {
	db *gorm.DB
}

func NewUnlockRepository(db *gorm.DB) UnlockRepository {
	return &unlockRepository{db: db}
}

func (r *unlockRepository) UnlockedIDs(ctx context.Context, userID uuid.UUID) (map[string]bool, error) {
	var unlocks []entity.AchievementUnlock
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&unlocks).Error; err != nil {
		return nil, err
	}

	ids := make(map[string]bool, len(unlocks))
	for _, u := range unlocks {
		ids[u.AchievementID] = true
	}
	return ids, nil
}

func (r *unlockRepository) CreateUnlock(ctx context.Context, unlock *entity.AchievementUnlock) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(unlock)
	if res.Error != nil {
		// Some drivers surface the conflict instead of swallowing it
		if strings.Contains(res.Error.Error(), "duplicate") {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *unlockRepository) DeleteUnlock(ctx context.Context, userID uuid.UUID, achievementID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Delete(&entity.AchievementUnlock{}).Error
}
