package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mirasbazaar/economy/internal/economy"
	"github.com/mirasbazaar/economy/internal/modules/cart/dto"
	"github.com/mirasbazaar/economy/pkg/apperror"
)

func newTestCart() CartService {
	rules := economy.Default()
	rules.ShippingFee = 45000
	return NewCartService(rules)
}

func TestPriceFullPaymentCart(t *testing.T) {
	svc := newTestCart()

	pricing, err := svc.Price(context.Background(), dto.PriceCartRequest{
		Lines: []dto.CartLine{
			{ItemID: "batik-scarf", Category: "heritage", UnitPrice: 150000, Quantity: 2, PointsAwarded: 30, BonusPointsAwarded: 10},
			{ItemID: "care-kit", Category: "care_kit", UnitPrice: 50000, Quantity: 1, PointsAwarded: 5},
		},
	})
	if err != nil {
		t.Fatalf("price: %v", err)
	}

	if pricing.Subtotal != 350000 {
		t.Fatalf("subtotal should be 350000, got %d", pricing.Subtotal)
	}
	if pricing.ShippingFee != 45000 {
		t.Fatalf("shipping fee should be 45000, got %d", pricing.ShippingFee)
	}
	if pricing.AmountDueNow != 395000 {
		t.Fatalf("amount due now should be 395000, got %d", pricing.AmountDueNow)
	}
	if pricing.InstallmentCount != 0 || pricing.RemainingInstallmentBalance != 0 {
		t.Fatalf("full payment cart must carry no installment metadata, got count=%d remaining=%d",
			pricing.InstallmentCount, pricing.RemainingInstallmentBalance)
	}
	if pricing.PointsAwarded != 35 || pricing.BonusPointsAwarded != 10 {
		t.Fatalf("point totals should be 35/10, got %d/%d", pricing.PointsAwarded, pricing.BonusPointsAwarded)
	}
}

func TestPriceInstallmentPlan(t *testing.T) {
	svc := newTestCart()

	pricing, err := svc.Price(context.Background(), dto.PriceCartRequest{
		Lines: []dto.CartLine{
			{ItemID: "heirloom-chest", Category: "digital", UnitPrice: 900000, Quantity: 1, InstallmentCount: 3},
		},
	})
	if err != nil {
		t.Fatalf("price: %v", err)
	}

	if pricing.AmountDueNow != 300000 {
		t.Fatalf("first installment should be 300000, got %d", pricing.AmountDueNow)
	}
	if pricing.RemainingInstallmentBalance != 600000 {
		t.Fatalf("remaining balance should be 600000, got %d", pricing.RemainingInstallmentBalance)
	}
	if pricing.InstallmentCount != 3 || pricing.RemainingInstallments != 2 {
		t.Fatalf("plan metadata should be 3 installments with 2 remaining, got %d/%d",
			pricing.InstallmentCount, pricing.RemainingInstallments)
	}
}

func TestInstallmentCeilingNeverUnderCollects(t *testing.T) {
	svc := newTestCart()

	// Prices that do not divide evenly by the plan length
	cases := []struct {
		price, count int
	}{
		{100, 3}, {999999, 4}, {7, 2}, {1000001, 6}, {45001, 12},
	}
	for _, c := range cases {
		pricing, err := svc.Price(context.Background(), dto.PriceCartRequest{
			Lines: []dto.CartLine{
				{ItemID: "item", Category: "digital", UnitPrice: c.price, Quantity: 1, InstallmentCount: c.count},
			},
		})
		if err != nil {
			t.Fatalf("price %d over %d: %v", c.price, c.count, err)
		}

		scheduled := pricing.AmountDueNow * c.count
		if scheduled < c.price {
			t.Fatalf("schedule for %d over %d collects only %d", c.price, c.count, scheduled)
		}
		if scheduled-c.price >= c.count {
			t.Fatalf("schedule for %d over %d over-collects by %d", c.price, c.count, scheduled-c.price)
		}
	}
}

func TestMixedCartFirstPlanWins(t *testing.T) {
	svc := newTestCart()

	pricing, err := svc.Price(context.Background(), dto.PriceCartRequest{
		Lines: []dto.CartLine{
			{ItemID: "full", Category: "digital", UnitPrice: 10000, Quantity: 1},
			{ItemID: "plan-a", Category: "digital", UnitPrice: 60000, Quantity: 1, InstallmentCount: 3},
			{ItemID: "plan-b", Category: "digital", UnitPrice: 40000, Quantity: 1, InstallmentCount: 4},
		},
	})
	if err != nil {
		t.Fatalf("price: %v", err)
	}

	if pricing.InstallmentCount != 3 || pricing.RemainingInstallments != 2 {
		t.Fatalf("aggregate metadata should reflect the first plan (3/2), got %d/%d",
			pricing.InstallmentCount, pricing.RemainingInstallments)
	}
	// 10000 + 20000 + 10000
	if pricing.AmountDueNow != 40000 {
		t.Fatalf("amount due now should be 40000, got %d", pricing.AmountDueNow)
	}
	// (60000-20000) + (40000-10000)
	if pricing.RemainingInstallmentBalance != 70000 {
		t.Fatalf("remaining balance should be 70000, got %d", pricing.RemainingInstallmentBalance)
	}
}

func TestShippingFeeExemption(t *testing.T) {
	svc := newTestCart()
	ctx := context.Background()

	allExempt, err := svc.Price(ctx, dto.PriceCartRequest{
		Lines: []dto.CartLine{
			{ItemID: "ebook", Category: "digital", UnitPrice: 30000, Quantity: 1},
			{ItemID: "plan", Category: "membership", UnitPrice: 90000, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("price exempt cart: %v", err)
	}
	if allExempt.ShippingFee != 0 {
		t.Fatalf("fully exempt cart must not carry a shipping fee, got %d", allExempt.ShippingFee)
	}

	mixed, err := svc.Price(ctx, dto.PriceCartRequest{
		Lines: []dto.CartLine{
			{ItemID: "ebook", Category: "digital", UnitPrice: 30000, Quantity: 1},
			{ItemID: "scarf", Category: "heritage", UnitPrice: 150000, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("price mixed cart: %v", err)
	}
	if mixed.ShippingFee != 45000 {
		t.Fatalf("one physical line brings the full fee back, got %d", mixed.ShippingFee)
	}
}

func TestInvalidLinesRejectWholeCart(t *testing.T) {
	svc := newTestCart()
	valid := dto.CartLine{ItemID: "ok", Category: "digital", UnitPrice: 1000, Quantity: 1}

	tests := []struct {
		name string
		line dto.CartLine
	}{
		{"zero price", dto.CartLine{ItemID: "x", UnitPrice: 0, Quantity: 1}},
		{"negative price", dto.CartLine{ItemID: "x", UnitPrice: -5, Quantity: 1}},
		{"zero quantity", dto.CartLine{ItemID: "x", UnitPrice: 1000, Quantity: 0}},
		{"quantity over stock", dto.CartLine{ItemID: "x", UnitPrice: 1000, Quantity: 5, StockAvailable: 3}},
		{"single installment", dto.CartLine{ItemID: "x", UnitPrice: 1000, Quantity: 1, InstallmentCount: 1}},
		{"negative installments", dto.CartLine{ItemID: "x", UnitPrice: 1000, Quantity: 1, InstallmentCount: -2}},
		{"bonus exceeds points", dto.CartLine{ItemID: "x", UnitPrice: 1000, Quantity: 1, PointsAwarded: 5, BonusPointsAwarded: 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Price(context.Background(), dto.PriceCartRequest{
				Lines: []dto.CartLine{valid, tt.line},
			})
			if !errors.Is(err, apperror.ErrInvalidCartLine) {
				t.Fatalf("expected ErrInvalidCartLine, got %v", err)
			}
			if !strings.Contains(err.Error(), "line 1") {
				t.Fatalf("error should name the offending line index: %v", err)
			}
		})
	}
}

func TestQuantityWithinStockPasses(t *testing.T) {
	svc := newTestCart()

	if _, err := svc.Price(context.Background(), dto.PriceCartRequest{
		Lines: []dto.CartLine{
			{ItemID: "x", Category: "digital", UnitPrice: 1000, Quantity: 3, StockAvailable: 3},
		},
	}); err != nil {
		t.Fatalf("quantity equal to stock should pass: %v", err)
	}
}

func TestUpsellCandidate(t *testing.T) {
	svc := newTestCart()
	ctx := context.Background()

	withAnchor, err := svc.Price(ctx, dto.PriceCartRequest{
		Lines: []dto.CartLine{
			{ItemID: "batik-scarf", Category: "heritage", UnitPrice: 150000, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if withAnchor.UpsellCandidate != "care-kit-standard" {
		t.Fatalf("heritage cart should suggest care-kit-standard, got %q", withAnchor.UpsellCandidate)
	}

	covered, err := svc.Price(ctx, dto.PriceCartRequest{
		Lines: []dto.CartLine{
			{ItemID: "batik-scarf", Category: "heritage", UnitPrice: 150000, Quantity: 1},
			{ItemID: "care-kit", Category: "care_kit", UnitPrice: 50000, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if covered.UpsellCandidate != "" {
		t.Fatalf("covered pair must not suggest an upsell, got %q", covered.UpsellCandidate)
	}

	noAnchor, err := svc.Price(ctx, dto.PriceCartRequest{
		Lines: []dto.CartLine{
			{ItemID: "ebook", Category: "digital", UnitPrice: 30000, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if noAnchor.UpsellCandidate != "" {
		t.Fatalf("cart without an anchor must not suggest an upsell, got %q", noAnchor.UpsellCandidate)
	}
}
