package service

import (
	"testing"

	"github.com/mirasbazaar/economy/internal/economy"
)

var testThresholds = []economy.LevelThreshold{
	{Name: "entry", SocialPointsRequired: 0, MeaningPointsRequired: 0},
	{Name: "bronze", SocialPointsRequired: 1000, MeaningPointsRequired: 200},
	{Name: "silver", SocialPointsRequired: 5000, MeaningPointsRequired: 1000},
}

func TestLevelForDualGate(t *testing.T) {
	tests := []struct {
		name    string
		social  int
		meaning int
		want    string
	}{
		{"zero balances", 0, 0, "entry"},
		{"social alone is not enough", 1200, 50, "entry"},
		{"meaning alone is not enough", 0, 5000, "entry"},
		{"both gates met", 1000, 200, "bronze"},
		{"just below social gate", 999, 1000, "entry"},
		{"silver exactly", 5000, 1000, "silver"},
		{"beyond the table", 100000, 100000, "silver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LevelFor(testThresholds, tt.social, tt.meaning)
			if got.Name != tt.want {
				t.Fatalf("LevelFor(%d, %d) = %s, want %s", tt.social, tt.meaning, got.Name, tt.want)
			}
		})
	}
}

// Increasing either balance while holding the other fixed must never
// decrease the derived level.
func TestLevelForMonotonic(t *testing.T) {
	index := func(name string) int {
		for i, th := range testThresholds {
			if th.Name == name {
				return i
			}
		}
		return -1
	}

	for meaning := 0; meaning <= 1200; meaning += 100 {
		previous := -1
		for social := 0; social <= 6000; social += 250 {
			current := index(LevelFor(testThresholds, social, meaning).Name)
			if current < previous {
				t.Fatalf("level decreased at social=%d meaning=%d", social, meaning)
			}
			previous = current
		}
	}

	for social := 0; social <= 6000; social += 250 {
		previous := -1
		for meaning := 0; meaning <= 1200; meaning += 100 {
			current := index(LevelFor(testThresholds, social, meaning).Name)
			if current < previous {
				t.Fatalf("level decreased at social=%d meaning=%d", social, meaning)
			}
			previous = current
		}
	}
}

func TestLevelForEmptyTable(t *testing.T) {
	got := LevelFor(nil, 1000, 1000)
	if got.Name != "" {
		t.Fatalf("empty table should yield the zero threshold, got %q", got.Name)
	}

	// StatusFor must survive it too
	status := StatusFor(nil, 1000, 1000)
	if status.NextLevel != "Max Level" || status.Progress != 100 {
		t.Fatalf("unexpected status for empty table: %+v", status)
	}
}

func TestStatusForProgress(t *testing.T) {
	// Social halfway to bronze, meaning already past its gate: progress is
	// the weaker gate's fraction
	status := StatusFor(testThresholds, 500, 400)
	if status.LevelName != "entry" {
		t.Fatalf("unexpected level: %s", status.LevelName)
	}
	if status.NextLevel != "bronze" {
		t.Fatalf("unexpected next level: %s", status.NextLevel)
	}
	if status.Progress != 50 {
		t.Fatalf("progress should be 50, got %v", status.Progress)
	}
	if status.SocialPointsTarget != 1000 || status.MeaningPointsTarget != 200 {
		t.Fatalf("unexpected targets: %d/%d", status.SocialPointsTarget, status.MeaningPointsTarget)
	}
}

func TestStatusForMaxLevel(t *testing.T) {
	status := StatusFor(testThresholds, 5000, 1000)
	if status.LevelName != "silver" {
		t.Fatalf("unexpected level: %s", status.LevelName)
	}
	if status.NextLevel != "Max Level" {
		t.Fatalf("unexpected next level: %s", status.NextLevel)
	}
	if status.Progress != 100 {
		t.Fatalf("progress should be 100, got %v", status.Progress)
	}
}

func TestStatusForProgressNeverExceeds100(t *testing.T) {
	// Both gates overshot but the level gate not yet crossed cannot happen;
	// overshoot on one gate alone must still cap at 100
	status := StatusFor(testThresholds, 999, 100000)
	if status.Progress > 100 {
		t.Fatalf("progress must cap at 100, got %v", status.Progress)
	}
}

func TestDefaultRulesValidate(t *testing.T) {
	if err := economy.Default().Validate(); err != nil {
		t.Fatalf("default rules should validate: %v", err)
	}
}

func TestValidateRejectsBadTables(t *testing.T) {
	rules := economy.Default()
	rules.LevelThresholds[0].SocialPointsRequired = 10
	if err := rules.Validate(); err == nil {
		t.Fatal("first level not {0,0} must be rejected")
	}

	rules = economy.Default()
	rules.LevelThresholds[2].SocialPointsRequired = 1
	if err := rules.Validate(); err == nil {
		t.Fatal("non-ascending table must be rejected")
	}

	rules = economy.Default()
	rules.AllocationTable = append(rules.AllocationTable, rules.AllocationTable[0])
	if err := rules.Validate(); err == nil {
		t.Fatal("duplicate action name must be rejected")
	}

	rules = economy.Default()
	rules.ConversionRate = 0
	if err := rules.Validate(); err == nil {
		t.Fatal("zero conversion rate must be rejected")
	}
}
