package dto

import (
	"github.com/google/uuid"
	commonDto "github.com/mirasbazaar/economy/pkg/dto"
)

type CirculationResponse struct {
	SocialPoints  int64 `json:"social_points"`
	MeaningPoints int64 `json:"meaning_points"`
}

type LeaderboardEntry struct {
	UserID   uuid.UUID             `json:"user_id"`
	Position int                   `json:"position"` // 1-based position in leaderboard
	Level    commonDto.LevelStatus `json:"level"`
}
