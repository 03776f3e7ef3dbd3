package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/mirasbazaar/economy/internal/economy"
	"github.com/mirasbazaar/economy/internal/entity"
	"github.com/mirasbazaar/economy/internal/modules/achievement/repository"
	ledgerService "github.com/mirasbazaar/economy/internal/modules/ledger/service"
)

// UnlockedAchievement is one achievement newly granted by an Evaluate call.
type UnlockedAchievement struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	SocialPointBonus int    `json:"social_point_bonus"`
}

type AchievementService interface {
	// Evaluate runs every not-yet-unlocked achievement's predicate against
	// the activity snapshot, persisting unlocks and granting bonuses for
	// those that newly hold. Safe to call repeatedly: already-unlocked
	// achievements are skipped before their predicate runs.
	Evaluate(ctx context.Context, userID uuid.UUID, snapshot economy.ActivitySnapshot) ([]UnlockedAchievement, error)
	Unlocked(ctx context.Context, userID uuid.UUID) ([]string, error)
}

type achievementService struct {
	repo   repository.UnlockRepository
	ledger ledgerService.LedgerService
	rules  *economy.Rules
}

func NewAchievementService(repo repository.UnlockRepository, ledger ledgerService.LedgerService, rules *economy.Rules) AchievementService {
	return &achievementService{
		repo:   repo,
		ledger: ledger,
		rules:  rules,
	}
}

func (s *achievementService) Evaluate(ctx context.Context, userID uuid.UUID, snapshot economy.ActivitySnapshot) ([]UnlockedAchievement, error) {
	unlocked, err := s.repo.UnlockedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	var newlyUnlocked []UnlockedAchievement
	for _, achievement := range s.rules.Achievements {
		// Membership check first: no predicate work, no re-grant races
		if unlocked[achievement.ID] {
			continue
		}
		if !achievement.Predicate(snapshot) {
			continue
		}

		created, err := s.repo.CreateUnlock(ctx, &entity.AchievementUnlock{
			UserID:        userID,
			AchievementID: achievement.ID,
		})
		if err != nil {
			return newlyUnlocked, err
		}
		if !created {
			// Lost the race to a concurrent evaluator; the winner grants
			log.Printf("Achievement %s already unlocked for user %s, skipping bonus", achievement.ID, userID)
			continue
		}

		if _, err := s.ledger.GrantBonus(ctx, userID, "achievement:"+achievement.ID, achievement.SocialPointBonus, entity.CurrencySocial, achievement.ID); err != nil {
			// Give the unlock back so a later evaluation retries the
			// bonus; without this the membership short-circuit would
			// swallow it forever.
			if delErr := s.repo.DeleteUnlock(ctx, userID, achievement.ID); delErr != nil {
				log.Printf("Failed to roll back unlock %s for user %s: %v", achievement.ID, userID, delErr)
			}
			return newlyUnlocked, err
		}

		newlyUnlocked = append(newlyUnlocked, UnlockedAchievement{
			ID:               achievement.ID,
			Name:             achievement.Name,
			SocialPointBonus: achievement.SocialPointBonus,
		})
	}

	return newlyUnlocked, nil
}

func (s *achievementService) Unlocked(ctx context.Context, userID uuid.UUID) ([]string, error) {
	unlocked, err := s.repo.UnlockedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(unlocked))
	for _, achievement := range s.rules.Achievements {
		if unlocked[achievement.ID] {
			ids = append(ids, achievement.ID)
		}
	}
	return ids, nil
}
