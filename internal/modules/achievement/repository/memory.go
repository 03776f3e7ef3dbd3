package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mirasbazaar/economy/internal/entity"
)

type memoryUnlockRepository struct {
	mu       sync.Mutex
	unlocked map[uuid.UUID]map[string]bool
}

func NewMemoryUnlockRepository() UnlockRepository {
	return &memoryUnlockRepository{
		unlocked: make(map[uuid.UUID]map[string]bool),
	}
}

func (r *memoryUnlockRepository) UnlockedIDs(ctx context.Context, userID uuid.UUID) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make(map[string]bool, len(r.unlocked[userID]))
	for id := range r.unlocked[userID] {
		ids[id] = true
	}
	return ids, nil
}

func (r *memoryUnlockRepository) CreateUnlock(ctx context.Context, unlock *entity.AchievementUnlock) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userUnlocks, ok := r.unlocked[unlock.UserID]
	if !ok {
		userUnlocks = make(map[string]bool)
		r.unlocked[unlock.UserID] = userUnlocks
	}
	if userUnlocks[unlock.AchievementID] {
		return false, nil
	}

	userUnlocks[unlock.AchievementID] = true
	if unlock.UnlockedAt.IsZero() {
		unlock.UnlockedAt = time.Now().UTC()
	}
	return true, nil
}

func (r *memoryUnlockRepository) DeleteUnlock(ctx context.Context, userID uuid.UUID, achievementID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.unlocked[userID], achievementID)
	return nil
}
