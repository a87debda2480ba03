package view

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalValidators(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		requiredErr bool
		optionalErr bool
	}{
		{name: "blank", input: "  ", requiredErr: true, optionalErr: false},
		{name: "integer", input: "1500000", requiredErr: false, optionalErr: false},
		{name: "negative fraction", input: " -12.5 ", requiredErr: false, optionalErr: false},
		{name: "text", input: "ten", requiredErr: true, optionalErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.requiredErr, requiredDecimal(tt.input) != nil)
			assert.Equal(t, tt.optionalErr, optionalDecimal(tt.input) != nil)
		})
	}
}

func TestNullDecimal(t *testing.T) {
	assert.False(t, nullDecimal("").Valid)
	assert.False(t, nullDecimal("abc").Valid)

	got := nullDecimal(" 0.5 ")
	require.True(t, got.Valid)
	assert.True(t, decimal.RequireFromString("0.5").Equal(got.Decimal))
}
