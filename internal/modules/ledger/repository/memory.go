package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mirasbazaar/economy/internal/entity"
	"github.com/mirasbazaar/economy/pkg/apperror"
)

// memoryLedgerRepository keeps the whole ledger in process memory. Used by
// tests and as a fallback when no database is configured. Mirrors the CAS
// semantics of the Postgres implementation.
type memoryLedgerRepository struct {
	mu       sync.Mutex
	nextID   uint
	entries  []entity.LedgerEntry
	balances map[uuid.UUID]*entity.UserBalance
}

func NewMemoryLedgerRepository() LedgerRepository {
	return &memoryLedgerRepository{
		balances: make(map[uuid.UUID]*entity.UserBalance),
	}
}

func (r *memoryLedgerRepository) RecordEntry(ctx context.Context, entry *entity.LedgerEntry, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.balances[entry.UserID]
	if !ok {
		if expectedVersion != 0 {
			return apperror.ErrStaleBalance
		}
		b = &entity.UserBalance{UserID: entry.UserID}
		r.balances[entry.UserID] = b
	}
	if b.Version != expectedVersion {
		return apperror.ErrStaleBalance
	}

	if entry.Currency == entity.CurrencyMeaning {
		b.MeaningPoints += entry.Points
	} else {
		b.SocialPoints += entry.Points
	}
	b.Version++
	b.LastUpdatedAt = time.Now().UTC()

	r.nextID++
	entry.ID = r.nextID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memoryLedgerRepository) EntriesByUser(ctx context.Context, userID uuid.UUID, currency *entity.Currency) ([]entity.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var entries []entity.LedgerEntry
	for _, e := range r.entries {
		if e.UserID != userID {
			continue
		}
		if currency != nil && e.Currency != *currency {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *memoryLedgerRepository) BalanceByUser(ctx context.Context, userID uuid.UUID) (*entity.UserBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.balances[userID]; ok {
		copied := *b
		return &copied, nil
	}
	return &entity.UserBalance{UserID: userID}, nil
}

func (r *memoryLedgerRepository) SumPoints(ctx context.Context, userID uuid.UUID, currency entity.Currency) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sum := 0
	for _, e := range r.entries {
		if e.UserID == userID && e.Currency == currency {
			sum += e.Points
		}
	}
	return sum, nil
}

func (r *memoryLedgerRepository) TotalInCirculation(ctx context.Context, currency entity.Currency) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total int64
	for _, b := range r.balances {
		if currency == entity.CurrencyMeaning {
			total += int64(b.MeaningPoints)
		} else {
			total += int64(b.SocialPoints)
		}
	}
	return total, nil
}

func (r *memoryLedgerRepository) AllBalances(ctx context.Context) ([]entity.UserBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	balances := make([]entity.UserBalance, 0, len(r.balances))
	for _, b := range r.balances {
		balances = append(balances, *b)
	}
	return balances, nil
}

func (r *memoryLedgerRepository) TopBalances(ctx context.Context, limit int) ([]entity.UserBalance, error) {
	balances, _ := r.AllBalances(ctx)
	sort.Slice(balances, func(i, j int) bool {
		return balances[i].SocialPoints > balances[j].SocialPoints
	})
	if limit > 0 && len(balances) > limit {
		balances = balances[:limit]
	}
	return balances, nil
}
