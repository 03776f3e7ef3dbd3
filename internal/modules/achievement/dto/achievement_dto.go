package dto

import (
	"github.com/google/uuid"
	"github.com/mirasbazaar/economy/internal/economy"
)

type EvaluateRequest struct {
	UserID   uuid.UUID                `json:"user_id" binding:"required"`
	Activity economy.ActivitySnapshot `json:"activity"`
}
