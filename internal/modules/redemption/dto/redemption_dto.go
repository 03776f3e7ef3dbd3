package dto

import "github.com/google/uuid"

// RedemptionRequest asks to convert social points into a cash discount
// against a cart total. Ephemeral: nothing is persisted until Commit.
type RedemptionRequest struct {
	UserID        uuid.UUID `json:"user_id" binding:"required"`
	CartTotal     int       `json:"cart_total" binding:"required,gt=0"`
	PointsToApply int       `json:"points_to_apply" binding:"required,gt=0"`
}

type RedemptionResult struct {
	DiscountAmount int `json:"discount_amount"`
	PointsConsumed int `json:"points_consumed"`
	FinalPrice     int `json:"final_price"`
	MaxRedeemable  int `json:"max_redeemable"`
}
