package entity

import (
	"time"

	"github.com/google/uuid"
)

// Currency identifies one of the two parallel point pools.
type Currency string

const (
	// CurrencySocial ("barkat") is earned through purchases and broad
	// platform engagement, and is the only currency redeemable at checkout.
	CurrencySocial Currency = "social"
	// CurrencyMeaning ("mana") reflects depth of engagement and gates some
	// level tiers independently of social points.
	CurrencyMeaning Currency = "meaning"
)

func (c Currency) Valid() bool {
	return c == CurrencySocial || c == CurrencyMeaning
}

// LedgerEntry is one point-granting (or spending) event. Entries are
// append-only: never updated, never deleted. Points holds the delta that was
// actually applied to the balance — for clamped penalties this differs from
// the nominal rule value.
type LedgerEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;index:idx_user_date,priority:1;not null" json:"user_id"`
	ActionName  string    `gorm:"size:50;not null" json:"action_name"` // 'daily_checkin', 'purchase', 'achievement:first_purchase'
	Points      int       `gorm:"not null" json:"points"`
	Currency    Currency  `gorm:"size:10;not null;index" json:"currency"`
	ReferenceID string    `gorm:"size:36" json:"reference_id"` // order/achievement id the grant refers to
	CreatedAt   time.Time `gorm:"index:idx_user_date,priority:2;index:idx_date" json:"created_at"`
}
