package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantityFloat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   Quantity
		want float64
		set  bool
	}{
		{"", 0, false},
		{"   ", 0, false},
		{"85", 85, true},
		{" 12000.5 ", 12000.5, true},
		{"12,500", 12500, true},
		{"abc", 0, false},
		{"-3", -3, true},
		{"Inf", 0, false},
		{"-infinity", 0, false},
		{"NaN", 0, false},
		{"1e400", 0, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, tt.in.Float(), 1e-9)
			assert.Equal(t, tt.set, tt.in.IsSet())
		})
	}
}

func TestQ(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Quantity("10000"), Q(10000))
	assert.Equal(t, Quantity("0.5"), Q(0.5))
}

func TestQuantityUnmarshalJSON(t *testing.T) {
	t.Parallel()

	var f FloorConfiguration
	err := json.Unmarshal([]byte(`{"floorNumber":3,"customSquareFootage":12000,"efficiencyFactor":"85","corePercentage":null}`), &f)
	require.NoError(t, err)

	assert.Equal(t, 3, f.FloorNumber)
	assert.Equal(t, Quantity("12000"), f.CustomSquareFootage)
	assert.Equal(t, Quantity("85"), f.EfficiencyFactor)
	assert.Equal(t, Quantity(""), f.CorePercentage)
}

func TestQuantityUnmarshalJSON_Invalid(t *testing.T) {
	t.Parallel()

	var q Quantity
	assert.Error(t, json.Unmarshal([]byte(`{}`), &q))
}
