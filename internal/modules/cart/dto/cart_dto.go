package dto

// CartLine is one priced line of a checkout cart. Prices are in minor
// currency units.
type CartLine struct {
	ItemID             string `json:"item_id" binding:"required"`
	Category           string `json:"category"`
	UnitPrice          int    `json:"unit_price" binding:"required,gt=0"`
	Quantity           int    `json:"quantity" binding:"required,gt=0"`
	StockAvailable     int    `json:"stock_available" binding:"gte=0"`
	InstallmentCount   int    `json:"installment_count"` // 0 = full payment, otherwise >= 2
	PointsAwarded      int    `json:"points_awarded" binding:"gte=0"`
	BonusPointsAwarded int    `json:"bonus_points_awarded" binding:"gte=0"`
}

type PriceCartRequest struct {
	Lines []CartLine `json:"lines" binding:"required,min=1,dive"`
}

type LinePricing struct {
	ItemID       string `json:"item_id"`
	LineSubtotal int    `json:"line_subtotal"`
	AmountDueNow int    `json:"amount_due_now"`
}

type CartPricing struct {
	Subtotal     int `json:"subtotal"`
	ShippingFee  int `json:"shipping_fee"`
	AmountDueNow int `json:"amount_due_now"`

	// Installment aggregate. When multiple distinct plans coexist the
	// metadata reflects the first plan encountered in line order.
	InstallmentCount            int `json:"installment_count,omitempty"`
	RemainingInstallments       int `json:"remaining_installments"`
	RemainingInstallmentBalance int `json:"remaining_installment_balance"`

	PointsAwarded      int `json:"points_awarded"`
	BonusPointsAwarded int `json:"bonus_points_awarded"`

	Lines []LinePricing `json:"lines"`

	// Advisory only, never auto-applied.
	UpsellCandidate string `json:"upsell_candidate,omitempty"`
}
