package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waterbill-backend/internal/apperrors"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name            string
		previous        string
		current         string
		rate            string
		wantConsumption string
		wantAmount      string
	}{
		{
			name:            "typical monthly bill",
			previous:        "100",
			current:         "150",
			rate:            "2.50",
			wantConsumption: "50",
			wantAmount:      "125",
		},
		{
			name:            "zero consumption",
			previous:        "200",
			current:         "200",
			rate:            "2.50",
			wantConsumption: "0",
			wantAmount:      "0",
		},
		{
			name:            "first bill from zero",
			previous:        "0",
			current:         "50",
			rate:            "3.00",
			wantConsumption: "50",
			wantAmount:      "150",
		},
		{
			name:            "fractional readings round to cents",
			previous:        "10.25",
			current:         "17.80",
			rate:            "2.33",
			wantConsumption: "7.55",
			wantAmount:      "17.59",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			consumption, amount, err := Compute(d(tt.previous), d(tt.current), d(tt.rate))
			require.NoError(t, err)
			assert.True(t, d(tt.wantConsumption).Equal(consumption),
				"consumption = %s, want %s", consumption, tt.wantConsumption)
			assert.True(t, d(tt.wantAmount).Equal(amount),
				"amount = %s, want %s", amount, tt.wantAmount)
		})
	}
}

func TestComputeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		previous string
		current  string
		rate     string
	}{
		{"reading regression", "150", "100", "2.50"},
		{"negative previous reading", "-10", "50", "2.50"},
		{"zero rate", "100", "150", "0"},
		{"negative rate", "100", "150", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Compute(d(tt.previous), d(tt.current), d(tt.rate))
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}
