package economy

import (
	"fmt"
	"time"

	"github.com/mirasbazaar/economy/internal/entity"
)

// PointGrantRule maps a named user action to a point value. Points may be
// negative for penalties. Cooldown, when non-zero, limits how often the same
// user can be granted for this action (enforced through redis when available).
type PointGrantRule struct {
	ActionName string          `json:"action_name"`
	Points     int             `json:"points"`
	Currency   entity.Currency `json:"currency"`
	Cooldown   time.Duration   `json:"cooldown,omitempty"`
}

// LevelThreshold is one tier of the level table. A user holds the highest
// tier whose social AND meaning requirements are both met.
type LevelThreshold struct {
	Name                  string `json:"name"`
	SocialPointsRequired  int    `json:"social_points_required"`
	MeaningPointsRequired int    `json:"meaning_points_required"`
}

// ActivitySnapshot is the view of a user's activity history the achievement
// evaluator reads. It is supplied by the caller; the engine never fetches or
// caches activity itself.
type ActivitySnapshot struct {
	OrdersCompleted    int `json:"orders_completed"`
	DailyCheckins      int `json:"daily_checkins"`
	ReflectionsWritten int `json:"reflections_written"`
	CoachingSessions   int `json:"coaching_sessions"`
	HeritageItemsOwned int `json:"heritage_items_owned"`
	ReferralsJoined    int `json:"referrals_joined"`
}

// Achievement grants a one-time social point bonus the first time its
// predicate holds. Predicates must be side-effect free.
type Achievement struct {
	ID               string
	Name             string
	SocialPointBonus int
	Predicate        func(ActivitySnapshot) bool
}

// UpsellPair is advisory checkout guidance: when a cart contains a line of
// the anchor category and no line of the complementary category, pricing
// surfaces the complementary item id. Never auto-applied.
type UpsellPair struct {
	AnchorCategory        string `json:"anchor_category"`
	ComplementaryCategory string `json:"complementary_category"`
	ComplementaryItemID   string `json:"complementary_item_id"`
}

// Rules bundles the whole economy configuration. It is passed explicitly to
// every service that needs it so tests can run distinct rule sets in parallel
// without cross-test interference.
type Rules struct {
	// ConversionRate is minor currency units per social point redeemed.
	ConversionRate int `json:"conversion_rate"`
	// ShippingFee is the flat fee added once per cart unless every line's
	// category is fee-exempt.
	ShippingFee         int          `json:"shipping_fee"`
	FeeExemptCategories []string     `json:"fee_exempt_categories"`
	UpsellPairs         []UpsellPair `json:"upsell_pairs"`

	AllocationTable []PointGrantRule `json:"allocation_table"`
	LevelThresholds []LevelThreshold `json:"level_thresholds"`
	Achievements    []Achievement    `json:"-"`
}

// RuleFor looks up the grant rule for an action name.
func (r *Rules) RuleFor(actionName string) (PointGrantRule, bool) {
	for _, rule := range r.AllocationTable {
		if rule.ActionName == actionName {
			return rule, true
		}
	}
	return PointGrantRule{}, false
}

// FeeExempt reports whether a cart line category is exempt from shipping.
func (r *Rules) FeeExempt(category string) bool {
	for _, c := range r.FeeExemptCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Validate checks the structural invariants the engine relies on: a positive
// conversion rate, a level table that starts at {0,0} and ascends, and unique
// action names.
func (r *Rules) Validate() error {
	if r.ConversionRate <= 0 {
		return fmt.Errorf("conversion rate must be positive, got %d", r.ConversionRate)
	}
	if r.ShippingFee < 0 {
		return fmt.Errorf("shipping fee must not be negative, got %d", r.ShippingFee)
	}

	if len(r.LevelThresholds) == 0 {
		return fmt.Errorf("level table must not be empty")
	}
	first := r.LevelThresholds[0]
	if first.SocialPointsRequired != 0 || first.MeaningPointsRequired != 0 {
		return fmt.Errorf("first level %q must require {0, 0}", first.Name)
	}
	for i := 1; i < len(r.LevelThresholds); i++ {
		prev, cur := r.LevelThresholds[i-1], r.LevelThresholds[i]
		if cur.SocialPointsRequired < prev.SocialPointsRequired ||
			cur.MeaningPointsRequired < prev.MeaningPointsRequired {
			return fmt.Errorf("level %q does not ascend from %q", cur.Name, prev.Name)
		}
	}

	seen := make(map[string]bool, len(r.AllocationTable))
	for _, rule := range r.AllocationTable {
		if rule.ActionName == "" {
			return fmt.Errorf("allocation table contains a rule without an action name")
		}
		if !rule.Currency.Valid() {
			return fmt.Errorf("rule %q has invalid currency %q", rule.ActionName, rule.Currency)
		}
		if seen[rule.ActionName] {
			return fmt.Errorf("duplicate action name %q in allocation table", rule.ActionName)
		}
		seen[rule.ActionName] = true
	}

	return nil
}

// Default returns the stock Mirasbazaar economy. Embedders may replace it
// wholesale; the engine only ever sees the Rules value it is handed.
func Default() *Rules {
	return &Rules{
		ConversionRate:      10, // 1 social point = 10 minor currency units
		ShippingFee:         45000,
		FeeExemptCategories: []string{"digital", "membership"},
		UpsellPairs: []UpsellPair{
			{AnchorCategory: "heritage", ComplementaryCategory: "care_kit", ComplementaryItemID: "care-kit-standard"},
			{AnchorCategory: "tea", ComplementaryCategory: "teaware", ComplementaryItemID: "teaware-cup-duo"},
		},
		AllocationTable: []PointGrantRule{
			{ActionName: "purchase_completed", Points: 100, Currency: entity.CurrencySocial},
			{ActionName: "daily_checkin", Points: 20, Currency: entity.CurrencySocial, Cooldown: 24 * time.Hour},
			{ActionName: "review_written", Points: 15, Currency: entity.CurrencySocial},
			{ActionName: "referral_joined", Points: 80, Currency: entity.CurrencySocial},
			{ActionName: "spam_flagged", Points: -50, Currency: entity.CurrencySocial},
			{ActionName: "reflection_written", Points: 25, Currency: entity.CurrencyMeaning},
			{ActionName: "coaching_session", Points: 40, Currency: entity.CurrencyMeaning},
			{ActionName: "heritage_ritual_completed", Points: 60, Currency: entity.CurrencyMeaning},
		},
		LevelThresholds: []LevelThreshold{
			{Name: "entry", SocialPointsRequired: 0, MeaningPointsRequired: 0},
			{Name: "bronze", SocialPointsRequired: 1000, MeaningPointsRequired: 200},
			{Name: "silver", SocialPointsRequired: 5000, MeaningPointsRequired: 1000},
			{Name: "gold", SocialPointsRequired: 15000, MeaningPointsRequired: 3000},
			{Name: "sage", SocialPointsRequired: 40000, MeaningPointsRequired: 8000},
		},
		Achievements: []Achievement{
			{
				ID: "first_purchase", Name: "First Purchase", SocialPointBonus: 50,
				Predicate: func(a ActivitySnapshot) bool { return a.OrdersCompleted >= 1 },
			},
			{
				ID: "week_of_presence", Name: "A Week of Presence", SocialPointBonus: 30,
				Predicate: func(a ActivitySnapshot) bool { return a.DailyCheckins >= 7 },
			},
			{
				ID: "reflective_soul", Name: "Reflective Soul", SocialPointBonus: 75,
				Predicate: func(a ActivitySnapshot) bool { return a.ReflectionsWritten >= 10 },
			},
			{
				ID: "guided_journey", Name: "Guided Journey", SocialPointBonus: 60,
				Predicate: func(a ActivitySnapshot) bool { return a.CoachingSessions >= 5 },
			},
			{
				ID: "heritage_keeper", Name: "Heritage Keeper", SocialPointBonus: 100,
				Predicate: func(a ActivitySnapshot) bool { return a.HeritageItemsOwned >= 1 },
			},
			{
				ID: "circle_builder", Name: "Circle Builder", SocialPointBonus: 120,
				Predicate: func(a ActivitySnapshot) bool { return a.ReferralsJoined >= 3 },
			},
		},
	}
}
