package service

import (
	"math"

	"github.com/mirasbazaar/economy/internal/economy"
	"github.com/mirasbazaar/economy/pkg/dto"
)

// LevelFor returns the highest threshold whose social AND meaning
// requirements are both met by the given balances. This dual-gate rule is
// deliberate: a large pile of one currency never compensates for the other.
// Falls back to the table's first (entry) level, which is required to be
// {0, 0}, so the fallback is unreachable for valid tables but handled anyway.
// An empty table yields the zero threshold rather than a panic; Validate
// rejects such tables before they reach a running service.
func LevelFor(thresholds []economy.LevelThreshold, socialPoints, meaningPoints int) economy.LevelThreshold {
	if len(thresholds) == 0 {
		return economy.LevelThreshold{}
	}
	current := thresholds[0]
	for _, t := range thresholds {
		if socialPoints >= t.SocialPointsRequired && meaningPoints >= t.MeaningPointsRequired {
			current = t
		}
	}
	return current
}

// StatusFor calculates the full level status payload for a user.
// Progress toward the next level is the lower of the two gate fractions,
// since both must be satisfied to advance.
func StatusFor(thresholds []economy.LevelThreshold, socialPoints, meaningPoints int) dto.LevelStatus {
	current := LevelFor(thresholds, socialPoints, meaningPoints)

	status := dto.LevelStatus{
		LevelName:     current.Name,
		SocialPoints:  socialPoints,
		MeaningPoints: meaningPoints,
	}

	next, ok := nextThreshold(thresholds, current)
	if !ok {
		status.NextLevel = "Max Level"
		status.SocialPointsTarget = current.SocialPointsRequired
		status.MeaningPointsTarget = current.MeaningPointsRequired
		status.Progress = 100
		return status
	}

	status.NextLevel = next.Name
	status.SocialPointsTarget = next.SocialPointsRequired
	status.MeaningPointsTarget = next.MeaningPointsRequired

	progress := math.Min(
		gateFraction(socialPoints, next.SocialPointsRequired),
		gateFraction(meaningPoints, next.MeaningPointsRequired),
	) * 100
	if progress > 100 {
		progress = 100
	}

	// Round progress to 2 decimal places
	status.Progress = math.Round(progress*100) / 100

	return status
}

func nextThreshold(thresholds []economy.LevelThreshold, current economy.LevelThreshold) (economy.LevelThreshold, bool) {
	for i, t := range thresholds {
		if t.Name == current.Name && i+1 < len(thresholds) {
			return thresholds[i+1], true
		}
	}
	return economy.LevelThreshold{}, false
}

func gateFraction(points, required int) float64 {
	if required <= 0 {
		return 1
	}
	return float64(points) / float64(required)
}
