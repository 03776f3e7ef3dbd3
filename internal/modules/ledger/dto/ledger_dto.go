package dto

import (
	"time"

	"github.com/google/uuid"
	commonDto "github.com/mirasbazaar/economy/pkg/dto"
)

type GrantPointsRequest struct {
	UserID      uuid.UUID `json:"user_id" binding:"required"`
	ActionName  string    `json:"action_name" binding:"required"`
	ReferenceID string    `json:"reference_id"`
}

type SpendPointsRequest struct {
	UserID   uuid.UUID `json:"user_id" binding:"required"`
	Currency string    `json:"currency" binding:"required,oneof=social meaning"`
	Amount   int       `json:"amount" binding:"required,gt=0"`
}

type LedgerEntryResponse struct {
	ID          uint      `json:"id"`
	ActionName  string    `json:"action_name"`
	Points      int       `json:"points"`
	Currency    string    `json:"currency"`
	ReferenceID string    `json:"reference_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type BalancesResponse struct {
	UserID        uuid.UUID             `json:"user_id"`
	SocialPoints  int                   `json:"social_points"`
	MeaningPoints int                   `json:"meaning_points"`
	Level         commonDto.LevelStatus `json:"level"`
}
