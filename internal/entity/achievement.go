package entity

import (
	"time"

	"github.com/google/uuid"
)

// AchievementUnlock records that a user satisfied an achievement's condition.
// The unique index makes the unlock idempotent at the database level even
// when two evaluators race. A row is removed only when its bonus grant
// failed, so the pair can be retried.
type AchievementUnlock struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;index:idx_unique_unlock,unique,priority:1;not null" json:"user_id"`
	AchievementID string    `gorm:"size:50;index:idx_unique_unlock,unique,priority:2;not null" json:"achievement_id"`
	UnlockedAt    time.Time `gorm:"autoCreateTime" json:"unlocked_at"`
}
