package dto

// LevelStatus describes a user's derived level and progress toward the next
// one. Both currency gates must be satisfied to advance, so the progress
// percentage is the lower of the two gate fractions.
type LevelStatus struct {
	LevelName           string  `json:"level_name"`
	NextLevel           string  `json:"next_level"`
	SocialPoints        int     `json:"social_points"`
	MeaningPoints       int     `json:"meaning_points"`
	SocialPointsTarget  int     `json:"social_points_target"`
	MeaningPointsTarget int     `json:"meaning_points_target"`
	Progress            float64 `json:"progress"` // Percentage
}

type HistoryFilter struct {
	Currency string `form:"currency" binding:"omitempty,oneof=social meaning"`
}
