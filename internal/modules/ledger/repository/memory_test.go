package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/mirasbazaar/economy/internal/entity"
	"github.com/mirasbazaar/economy/pkg/apperror"
)

func checkinEntry(userID uuid.UUID) *entity.LedgerEntry {
	return &entity.LedgerEntry{
		UserID:     userID,
		ActionName: "daily_checkin",
		Points:     20,
		Currency:   entity.CurrencySocial,
	}
}

// A writer holding a version another writer already advanced past must be
// rejected without touching balance or history. This guards deployments where
// several processes share one database and the per-user in-process lock
// cannot serialize them.
func TestRecordEntryStaleVersionRejected(t *testing.T) {
	repo := NewMemoryLedgerRepository()
	userID := uuid.New()
	ctx := context.Background()

	if err := repo.RecordEntry(ctx, checkinEntry(userID), 0); err != nil {
		t.Fatalf("first write: %v", err)
	}

	// Second writer read the balance before the first committed
	err := repo.RecordEntry(ctx, checkinEntry(userID), 0)
	if !errors.Is(err, apperror.ErrStaleBalance) {
		t.Fatalf("expected ErrStaleBalance, got %v", err)
	}

	balance, _ := repo.BalanceByUser(ctx, userID)
	if balance.SocialPoints != 20 || balance.Version != 1 {
		t.Fatalf("rejected write must not move the balance, got points=%d version=%d",
			balance.SocialPoints, balance.Version)
	}
	entries, _ := repo.EntriesByUser(ctx, userID, nil)
	if len(entries) != 1 {
		t.Fatalf("rejected write must not append history, got %d entries", len(entries))
	}

	// Retrying against the freshly read version succeeds
	if err := repo.RecordEntry(ctx, checkinEntry(userID), balance.Version); err != nil {
		t.Fatalf("retry with fresh version: %v", err)
	}
	balance, _ = repo.BalanceByUser(ctx, userID)
	if balance.SocialPoints != 40 || balance.Version != 2 {
		t.Fatalf("retry should land, got points=%d version=%d", balance.SocialPoints, balance.Version)
	}
}

func TestRecordEntryFirstWriteRequiresVersionZero(t *testing.T) {
	repo := NewMemoryLedgerRepository()
	userID := uuid.New()
	ctx := context.Background()

	err := repo.RecordEntry(ctx, checkinEntry(userID), 3)
	if !errors.Is(err, apperror.ErrStaleBalance) {
		t.Fatalf("expected ErrStaleBalance for unseen user with non-zero version, got %v", err)
	}

	balance, _ := repo.BalanceByUser(ctx, userID)
	if balance.SocialPoints != 0 || balance.Version != 0 {
		t.Fatalf("rejected first write must leave a zero row, got points=%d version=%d",
			balance.SocialPoints, balance.Version)
	}
	entries, _ := repo.EntriesByUser(ctx, userID, nil)
	if len(entries) != 0 {
		t.Fatalf("rejected first write must not append history, got %d entries", len(entries))
	}
}
