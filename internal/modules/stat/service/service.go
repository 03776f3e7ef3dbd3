package service

import (
	"context"

	"github.com/mirasbazaar/economy/internal/economy"
	"github.com/mirasbazaar/economy/internal/entity"
	ledgerRepo "github.com/mirasbazaar/economy/internal/modules/ledger/repository"
	levelService "github.com/mirasbazaar/economy/internal/modules/level/service"
	"github.com/mirasbazaar/economy/internal/modules/stat/dto"
)

// StatService provides the read-only aggregates the admin dashboards
// consume. It never mutates balances.
type StatService interface {
	Circulation(ctx context.Context) (*dto.CirculationResponse, error)
	LevelDistribution(ctx context.Context) (map[string]int, error)
	TopUsers(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error)
}

type statService struct {
	ledgerRepo ledgerRepo.LedgerRepository
	rules      *economy.Rules
}

func NewStatService(ledgerRepo ledgerRepo.LedgerRepository, rules *economy.Rules) StatService {
	return &statService{
		ledgerRepo: ledgerRepo,
		rules:      rules,
	}
}

func (s *statService) Circulation(ctx context.Context) (*dto.CirculationResponse, error) {
	social, err := s.ledgerRepo.TotalInCirculation(ctx, entity.CurrencySocial)
	if err != nil {
		return nil, err
	}
	meaning, err := s.ledgerRepo.TotalInCirculation(ctx, entity.CurrencyMeaning)
	if err != nil {
		return nil, err
	}

	return &dto.CirculationResponse{
		SocialPoints:  social,
		MeaningPoints: meaning,
	}, nil
}

func (s *statService) LevelDistribution(ctx context.Context) (map[string]int, error) {
	balances, err := s.ledgerRepo.AllBalances(ctx)
	if err != nil {
		return nil, err
	}

	distribution := make(map[string]int, len(s.rules.LevelThresholds))
	for _, t := range s.rules.LevelThresholds {
		distribution[t.Name] = 0
	}
	for _, b := range balances {
		level := levelService.LevelFor(s.rules.LevelThresholds, b.SocialPoints, b.MeaningPoints)
		distribution[level.Name]++
	}

	return distribution, nil
}

func (s *statService) TopUsers(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error) {
	balances, err := s.ledgerRepo.TopBalances(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(balances))
	for i, b := range balances {
		entries = append(entries, dto.LeaderboardEntry{
			UserID:   b.UserID,
			Position: i + 1, // 1-based position
			Level:    levelService.StatusFor(s.rules.LevelThresholds, b.SocialPoints, b.MeaningPoints),
		})
	}

	return entries, nil
}
