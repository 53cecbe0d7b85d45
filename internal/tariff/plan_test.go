package tariff

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanValidate(t *testing.T) {
	tests := []struct {
		name    string
		plan    Plan
		wantErr bool
	}{
		{"FlatOK", FlatPlan{Rate: 0.25, FixedFee: 10}, false},
		{"FlatNegativeRate", FlatPlan{Rate: -0.25}, true},
		{"FlatNegativeFee", FlatPlan{Rate: 0.25, FixedFee: -1}, true},
		{"FlatNaNRate", FlatPlan{Rate: math.NaN()}, true},

		{"TOUOK", defaultTOU(), false},
		{"TOUNoDefault", TimeOfUsePlan{Windows: []RateWindow{{Label: "P", Start: Clock(1, 0), End: Clock(2, 0)}}}, false},
		{"TOUNoWindows", TimeOfUsePlan{}, true},
		{"TOUTwoDefaults", TimeOfUsePlan{Windows: []RateWindow{{Label: "A", Default: true}, {Label: "B", Default: true}}}, true},
		{"TOUNegativeRate", TimeOfUsePlan{Windows: []RateWindow{{Label: "A", Default: true, Rate: -1}}}, true},
		{"TOUDuplicateLabel", TimeOfUsePlan{Windows: []RateWindow{{Label: "A", Default: true}, {Label: "A", Start: Clock(1, 0), End: Clock(2, 0)}}}, true},
		{"TOUFixedFeeLabel", TimeOfUsePlan{Windows: []RateWindow{{Label: FixedFeeLabel, Default: true}}}, true},
		{"TOUBadClock", TimeOfUsePlan{Windows: []RateWindow{{Label: "A", Start: Clock(25, 0), End: Clock(2, 0)}}}, true},
		{"TOUNegativeFee", TimeOfUsePlan{Windows: []RateWindow{{Label: "A", Default: true}}, FixedFee: -3}, true},

		{"TieredOK", TieredPlan{Tiers: threeTiers()}, false},
		{"TieredNoUnlimited", TieredPlan{Tiers: []Tier{{UpperLimit: Limit(100), Rate: 0.2}}}, false},
		{"TieredNoTiers", TieredPlan{}, true},
		{"TieredUnlimitedNotLast", TieredPlan{Tiers: []Tier{{Rate: 0.2}, {UpperLimit: Limit(100), Rate: 0.3}}}, true},
		{"TieredDescendingLimits", TieredPlan{Tiers: []Tier{{UpperLimit: Limit(300)}, {UpperLimit: Limit(100)}}}, true},
		{"TieredZeroLimit", TieredPlan{Tiers: []Tier{{UpperLimit: Limit(0)}}}, true},
		{"TieredNegativeRate", TieredPlan{Tiers: []Tier{{Rate: -0.1}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidPlan)
			var pe *PlanError
			assert.True(t, errors.As(err, &pe))
		})
	}
}

func TestPlanDisplayName(t *testing.T) {
	assert.Equal(t, "Flat", FlatPlan{}.DisplayName())
	assert.Equal(t, "TOU", TimeOfUsePlan{}.DisplayName())
	assert.Equal(t, "Tiered", TieredPlan{}.DisplayName())
	assert.Equal(t, "Economy 7", TimeOfUsePlan{Name: "Economy 7"}.DisplayName())
}

func TestPlanErrorMessage(t *testing.T) {
	err := FlatPlan{Name: "Basic", Rate: -1}.Validate()
	assert.Contains(t, err.Error(), "Basic")
	assert.Contains(t, err.Error(), "rate")
}
