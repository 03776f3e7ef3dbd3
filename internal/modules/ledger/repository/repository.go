package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mirasbazaar/economy/internal/entity"
	"github.com/mirasbazaar/economy/pkg/apperror"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LedgerRepository interface {
	// RecordEntry appends the entry and adds entry.Points to its currency's
	// cached total as one unit of work, but only if the balance row's
	// version still equals expectedVersion. Fails with
	// apperror.ErrStaleBalance when another writer got there first; on any
	// failure neither the entry nor the delta is persisted, so the
	// balance == sum(history) invariant survives storage errors.
	RecordEntry(ctx context.Context, entry *entity.LedgerEntry, expectedVersion int64) error
	// EntriesByUser returns entries in insertion order (newest last).
	// A nil currency returns both pools.
	EntriesByUser(ctx context.Context, userID uuid.UUID, currency *entity.Currency) ([]entity.LedgerEntry, error)
	// BalanceByUser returns the cached balance row, or a zero-valued row
	// (Version 0) when the user has never been granted points.
	BalanceByUser(ctx context.Context, userID uuid.UUID) (*entity.UserBalance, error)
	SumPoints(ctx context.Context, userID uuid.UUID, currency entity.Currency) (int, error)
	TotalInCirculation(ctx context.Context, currency entity.Currency) (int64, error)
	AllBalances(ctx context.Context) ([]entity.UserBalance, error)
	TopBalances(ctx context.Context, limit int) ([]entity.UserBalance, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) RecordEntry(ctx context.Context, entry *entity.LedgerEntry, expectedVersion int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyBalanceDelta(tx, entry.UserID, entry.Currency, entry.Points, expectedVersion); err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

func (r *ledgerRepository) EntriesByUser(ctx context.Context, userID uuid.UUID, currency *entity.Currency) ([]entity.LedgerEntry, error) {
	var entries []entity.LedgerEntry
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if currency != nil {
		q = q.Where("currency = ?", *currency)
	}
	err := q.Order("id ASC").Find(&entries).Error
	return entries, err
}

func (r *ledgerRepository) BalanceByUser(ctx context.Context, userID uuid.UUID) (*entity.UserBalance, error) {
	var balance entity.UserBalance
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&balance).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// Zero balance for users with no ledger activity yet
			return &entity.UserBalance{UserID: userID}, nil
		}
		return nil, err
	}
	return &balance, nil
}

func applyBalanceDelta(tx *gorm.DB, userID uuid.UUID, currency entity.Currency, delta int, expectedVersion int64) error {
	column := balanceColumn(currency)

	res := tx.Model(&entity.UserBalance{}).
		Where("user_id = ? AND version = ?", userID, expectedVersion).
		Updates(map[string]interface{}{
			column:            gorm.Expr(column+" + ?", delta),
			"version":         gorm.Expr("version + 1"),
			"last_updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	if expectedVersion == 0 {
		// First write for this user: create the row, losing to any
		// concurrent creator.
		balance := &entity.UserBalance{UserID: userID, Version: 1}
		switch currency {
		case entity.CurrencyMeaning:
			balance.MeaningPoints = delta
		default:
			balance.SocialPoints = delta
		}
		created := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(balance)
		if created.Error != nil {
			return created.Error
		}
		if created.RowsAffected > 0 {
			return nil
		}
	}

	return apperror.ErrStaleBalance
}

func (r *ledgerRepository) SumPoints(ctx context.Context, userID uuid.UUID, currency entity.Currency) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).Model(&entity.LedgerEntry{}).
		Select("COALESCE(SUM(points), 0)").
		Where("user_id = ? AND currency = ?", userID, currency).
		Scan(&sum).Error
	return sum, err
}

func (r *ledgerRepository) TotalInCirculation(ctx context.Context, currency entity.Currency) (int64, error) {
	var total int64
	column := balanceColumn(currency)
	err := r.db.WithContext(ctx).Model(&entity.UserBalance{}).
		Select("COALESCE(SUM(" + column + "), 0)").
		Scan(&total).Error
	return total, err
}

func (r *ledgerRepository) AllBalances(ctx context.Context) ([]entity.UserBalance, error) {
	var balances []entity.UserBalance
	err := r.db.WithContext(ctx).Find(&balances).Error
	return balances, err
}

func (r *ledgerRepository) TopBalances(ctx context.Context, limit int) ([]entity.UserBalance, error) {
	var balances []entity.UserBalance
	err := r.db.WithContext(ctx).
		Order("social_points DESC").Limit(limit).Find(&balances).Error
	return balances, err
}

func balanceColumn(currency entity.Currency) string {
	if currency == entity.CurrencyMeaning {
		return "meaning_points"
	}
	return "social_points"
}
