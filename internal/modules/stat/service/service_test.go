package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mirasbazaar/economy/internal/economy"
	"github.com/mirasbazaar/economy/internal/entity"
	ledgerRepo "github.com/mirasbazaar/economy/internal/modules/ledger/repository"
	ledgerService "github.com/mirasbazaar/economy/internal/modules/ledger/service"
)

func newTestStat(t *testing.T) (StatService, ledgerService.LedgerService) {
	t.Helper()
	rules := economy.Default()
	repo := ledgerRepo.NewMemoryLedgerRepository()
	ledger := ledgerService.NewLedgerService(repo, rules, nil, nil, nil)
	return NewStatService(repo, rules), ledger
}

func TestCirculationSumsAllUsers(t *testing.T) {
	svc, ledger := newTestStat(t)
	ctx := context.Background()

	userA, userB := uuid.New(), uuid.New()
	if _, err := ledger.GrantBonus(ctx, userA, "migration_credit", 300, entity.CurrencySocial, ""); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if _, err := ledger.GrantBonus(ctx, userB, "migration_credit", 200, entity.CurrencySocial, ""); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if _, err := ledger.GrantBonus(ctx, userB, "migration_credit", 75, entity.CurrencyMeaning, ""); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if _, err := ledger.Spend(ctx, userA, entity.CurrencySocial, 100); err != nil {
		t.Fatalf("spend: %v", err)
	}

	circulation, err := svc.Circulation(ctx)
	if err != nil {
		t.Fatalf("circulation: %v", err)
	}
	if circulation.SocialPoints != 400 {
		t.Fatalf("social circulation should be 400, got %d", circulation.SocialPoints)
	}
	if circulation.MeaningPoints != 75 {
		t.Fatalf("meaning circulation should be 75, got %d", circulation.MeaningPoints)
	}
}

func TestLevelDistributionCountsEveryTier(t *testing.T) {
	svc, ledger := newTestStat(t)
	ctx := context.Background()

	// entry: high social but no meaning keeps the second gate shut
	lopsided := uuid.New()
	if _, err := ledger.GrantBonus(ctx, lopsided, "migration_credit", 6000, entity.CurrencySocial, ""); err != nil {
		t.Fatalf("grant: %v", err)
	}

	// bronze: both gates met
	bronze := uuid.New()
	if _, err := ledger.GrantBonus(ctx, bronze, "migration_credit", 1200, entity.CurrencySocial, ""); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if _, err := ledger.GrantBonus(ctx, bronze, "migration_credit", 250, entity.CurrencyMeaning, ""); err != nil {
		t.Fatalf("grant: %v", err)
	}

	distribution, err := svc.LevelDistribution(ctx)
	if err != nil {
		t.Fatalf("distribution: %v", err)
	}

	if distribution["entry"] != 1 {
		t.Fatalf("expected 1 entry user, got %d", distribution["entry"])
	}
	if distribution["bronze"] != 1 {
		t.Fatalf("expected 1 bronze user, got %d", distribution["bronze"])
	}
	for _, name := range []string{"silver", "gold", "sage"} {
		if distribution[name] != 0 {
			t.Fatalf("tier %s should be empty, got %d", name, distribution[name])
		}
	}
}

func TestTopUsersOrderedAndPositioned(t *testing.T) {
	svc, ledger := newTestStat(t)
	ctx := context.Background()

	users := []struct {
		id     uuid.UUID
		points int
	}{
		{uuid.New(), 100},
		{uuid.New(), 900},
		{uuid.New(), 400},
	}
	for _, u := range users {
		if _, err := ledger.GrantBonus(ctx, u.id, "migration_credit", u.points, entity.CurrencySocial, ""); err != nil {
			t.Fatalf("grant: %v", err)
		}
	}

	entries, err := svc.TopUsers(ctx, 2)
	if err != nil {
		t.Fatalf("top users: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("limit 2 should return 2 entries, got %d", len(entries))
	}
	if entries[0].UserID != users[1].id || entries[0].Position != 1 {
		t.Fatalf("highest balance should rank first, got %+v", entries[0])
	}
	if entries[1].UserID != users[2].id || entries[1].Position != 2 {
		t.Fatalf("second balance should rank second, got %+v", entries[1])
	}
	if entries[0].Level.LevelName != "entry" {
		t.Fatalf("900 social without meaning stays entry, got %q", entries[0].Level.LevelName)
	}
}
