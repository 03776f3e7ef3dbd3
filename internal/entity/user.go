package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserBalance caches the per-currency point totals so balance reads are O(1).
// It is only ever mutated through the ledger repository's conditional delta
// update; the Version column guards against concurrent writers from other
// processes. The authoritative source of truth remains the ledger entries —
// each cached total must equal the sum of that currency's entries.
type UserBalance struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	SocialPoints  int       `gorm:"default:0" json:"social_points"`
	MeaningPoints int       `gorm:"default:0" json:"meaning_points"`
	Version       int64     `gorm:"default:0" json:"-"`
	LastUpdatedAt time.Time `gorm:"autoUpdateTime" json:"last_updated_at"`
}
