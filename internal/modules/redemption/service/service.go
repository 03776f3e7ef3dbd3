package service

import (
	"context"
	"fmt"

	"github.com/mirasbazaar/economy/internal/economy"
	"github.com/mirasbazaar/economy/internal/entity"
	ledgerService "github.com/mirasbazaar/economy/internal/modules/ledger/service"
	"github.com/mirasbazaar/economy/internal/modules/redemption/dto"
	"github.com/mirasbazaar/economy/pkg/apperror"
)

// MaxRedeemable bounds a redemption by both sides: a user can never apply
// more points than they hold, and never more value than the price itself
// (the discount must not push the final price below zero).
func MaxRedeemable(balance, price, rate int) int {
	byPrice := price / rate
	if balance < byPrice {
		return balance
	}
	return byPrice
}

type RedemptionService interface {
	// Quote computes the discount for a redemption request against the
	// user's live social balance. Pure calculation, no ledger mutation.
	Quote(ctx context.Context, req dto.RedemptionRequest) (*dto.RedemptionResult, error)
	// Commit quotes and then debits the points as one unit of work. When
	// the spend fails, no discount exists: the caller must not finalize
	// the order.
	Commit(ctx context.Context, req dto.RedemptionRequest) (*dto.RedemptionResult, error)
}

type redemptionService struct {
	ledger ledgerService.LedgerService
	rules  *economy.Rules
}

func NewRedemptionService(ledger ledgerService.LedgerService, rules *economy.Rules) RedemptionService {
	return &redemptionService{ledger: ledger, rules: rules}
}

func (s *redemptionService) Quote(ctx context.Context, req dto.RedemptionRequest) (*dto.RedemptionResult, error) {
	if req.PointsToApply <= 0 {
		return nil, fmt.Errorf("%w: points to apply must be positive", apperror.ErrInvalidInput)
	}
	if req.CartTotal <= 0 {
		return nil, fmt.Errorf("%w: cart total must be positive", apperror.ErrInvalidInput)
	}

	balance, err := s.ledger.Balance(ctx, req.UserID, entity.CurrencySocial)
	if err != nil {
		return nil, err
	}

	max := MaxRedeemable(balance, req.CartTotal, s.rules.ConversionRate)
	if req.PointsToApply > max {
		return nil, fmt.Errorf("%w: requested %d points, at most %d redeemable", apperror.ErrInsufficientBalance, req.PointsToApply, max)
	}

	discount := req.PointsToApply * s.rules.ConversionRate
	return &dto.RedemptionResult{
		DiscountAmount: discount,
		PointsConsumed: req.PointsToApply,
		FinalPrice:     req.CartTotal - discount,
		MaxRedeemable:  max,
	}, nil
}

func (s *redemptionService) Commit(ctx context.Context, req dto.RedemptionRequest) (*dto.RedemptionResult, error) {
	result, err := s.Quote(ctx, req)
	if err != nil {
		return nil, err
	}

	// The spend re-checks the balance under the user's lock, so a
	// concurrent checkout cannot double-redeem the same points.
	if _, err := s.ledger.Spend(ctx, req.UserID, entity.CurrencySocial, result.PointsConsumed); err != nil {
		return nil, err
	}

	return result, nil
}
