package fds

import (
	"testing"
	"time"

	"localpay/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDecodeConditions(t *testing.T) {
	tests := []struct {
		name       string
		conditions models.JSON
		want       []Condition
		wantErr    error
	}{
		{
			name:       "amount threshold",
			conditions: models.JSON{"amount_threshold": 10_000_000.0},
			want:       []Condition{AmountThreshold{Value: 10_000_000}},
		},
		{
			name:       "velocity with default period",
			conditions: models.JSON{"velocity_limit": 10.0},
			want:       []Condition{Velocity{Limit: 10, Period: time.Hour}},
		},
		{
			name:       "velocity with explicit period",
			conditions: models.JSON{"velocity_limit": 5.0, "velocity_period_minutes": 30.0},
			want:       []Condition{Velocity{Limit: 5, Period: 30 * time.Minute}},
		},
		{
			name:       "unusual hours",
			conditions: models.JSON{"unusual_hours": true},
			want:       []Condition{UnusualHours{}},
		},
		{
			name:       "unusual hours disabled yields nothing",
			conditions: models.JSON{"unusual_hours": false},
			wantErr:    ErrNoRecognizedConditions,
		},
		{
			name: "multiple checks",
			conditions: models.JSON{
				"amount_threshold": 1_000_000.0,
				"velocity_limit":   3.0,
				"unusual_hours":    true,
			},
			want: []Condition{
				AmountThreshold{Value: 1_000_000},
				Velocity{Limit: 3, Period: time.Hour},
				UnusualHours{},
			},
		},
		{
			name:       "unknown keys are ignored",
			conditions: models.JSON{"amount_threshold": 500.0, "geo_fence": "KR"},
			want:       []Condition{AmountThreshold{Value: 500}},
		},
		{
			name:       "only unknown keys",
			conditions: models.JSON{"geo_fence": "KR", "device_id": "abc"},
			wantErr:    ErrNoRecognizedConditions,
		},
		{
			name:       "empty payload",
			conditions: models.JSON{},
			wantErr:    ErrNoRecognizedConditions,
		},
		{
			name:       "negative amount threshold",
			conditions: models.JSON{"amount_threshold": -1.0},
			wantErr:    ErrInvalidCondition,
		},
		{
			name:       "zero velocity limit",
			conditions: models.JSON{"velocity_limit": 0.0},
			wantErr:    ErrInvalidCondition,
		},
		{
			name:       "non-boolean unusual hours",
			conditions: models.JSON{"unusual_hours": "yes"},
			wantErr:    ErrInvalidCondition,
		},
		{
			name:       "non-numeric amount threshold",
			conditions: models.JSON{"amount_threshold": "big"},
			wantErr:    ErrInvalidCondition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeConditions(tt.conditions)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
