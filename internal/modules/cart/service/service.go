package service

import (
	"context"
	"fmt"

	"github.com/mirasbazaar/economy/internal/economy"
	"github.com/mirasbazaar/economy/internal/modules/cart/dto"
	"github.com/mirasbazaar/economy/pkg/apperror"
)

type CartService interface {
	// Price validates every line and computes the cart totals: full
	// subtotal, per-line and total amount due now, aggregate installment
	// metadata, reward point totals and the advisory upsell hint.
	Price(ctx context.Context, req dto.PriceCartRequest) (*dto.CartPricing, error)
}

type cartService struct {
	rules *economy.Rules
}

func NewCartService(rules *economy.Rules) CartService {
	return &cartService{rules: rules}
}

func (s *cartService) Price(ctx context.Context, req dto.PriceCartRequest) (*dto.CartPricing, error) {
	// Reject the whole cart before pricing anything
	for i, line := range req.Lines {
		if err := validateLine(i, line); err != nil {
			return nil, err
		}
	}

	pricing := &dto.CartPricing{
		Lines: make([]dto.LinePricing, 0, len(req.Lines)),
	}

	feeApplies := false
	for _, line := range req.Lines {
		lineSubtotal := line.UnitPrice * line.Quantity

		dueNow := lineSubtotal
		if line.InstallmentCount > 0 {
			// Ceiling division so the schedule never under-collects
			dueNow = ceilDiv(line.UnitPrice, line.InstallmentCount) * line.Quantity

			if pricing.InstallmentCount == 0 {
				// First plan found wins the aggregate metadata
				pricing.InstallmentCount = line.InstallmentCount
				pricing.RemainingInstallments = line.InstallmentCount - 1
			}
			pricing.RemainingInstallmentBalance += lineSubtotal - dueNow
		}

		pricing.Subtotal += lineSubtotal
		pricing.AmountDueNow += dueNow
		pricing.PointsAwarded += line.PointsAwarded
		pricing.BonusPointsAwarded += line.BonusPointsAwarded
		pricing.Lines = append(pricing.Lines, dto.LinePricing{
			ItemID:       line.ItemID,
			LineSubtotal: lineSubtotal,
			AmountDueNow: dueNow,
		})

		if !s.rules.FeeExempt(line.Category) {
			feeApplies = true
		}
	}

	if feeApplies {
		pricing.ShippingFee = s.rules.ShippingFee
		pricing.AmountDueNow += s.rules.ShippingFee
	}

	pricing.UpsellCandidate = s.upsellCandidate(req.Lines)

	return pricing, nil
}

func validateLine(index int, line dto.CartLine) error {
	switch {
	case line.UnitPrice <= 0:
		return fmt.Errorf("%w: line %d has non-positive unit price", apperror.ErrInvalidCartLine, index)
	case line.Quantity <= 0:
		return fmt.Errorf("%w: line %d has non-positive quantity", apperror.ErrInvalidCartLine, index)
	case line.StockAvailable > 0 && line.Quantity > line.StockAvailable:
		return fmt.Errorf("%w: line %d quantity %d exceeds stock %d", apperror.ErrInvalidCartLine, index, line.Quantity, line.StockAvailable)
	case line.InstallmentCount == 1 || line.InstallmentCount < 0:
		return fmt.Errorf("%w: line %d installment count must be at least 2", apperror.ErrInvalidCartLine, index)
	case line.PointsAwarded < 0 || line.BonusPointsAwarded < 0:
		return fmt.Errorf("%w: line %d has negative point rewards", apperror.ErrInvalidCartLine, index)
	case line.BonusPointsAwarded > line.PointsAwarded:
		return fmt.Errorf("%w: line %d bonus points exceed points awarded", apperror.ErrInvalidCartLine, index)
	}
	return nil
}

// upsellCandidate returns the first configured complementary item whose
// anchor category is in the cart while its complementary category is not.
func (s *cartService) upsellCandidate(lines []dto.CartLine) string {
	categories := make(map[string]bool, len(lines))
	for _, line := range lines {
		categories[line.Category] = true
	}

	for _, pair := range s.rules.UpsellPairs {
		if categories[pair.AnchorCategory] && !categories[pair.ComplementaryCategory] {
			return pair.ComplementaryItemID
		}
	}
	return ""
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
