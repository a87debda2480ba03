package currency_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/stash/internal/currency"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		code   string
		want   string
	}{
		{name: "usd", amount: "1234.5", code: "USD", want: "$1,234.50"},
		{name: "lower case code", amount: "10", code: "usd", want: "$10.00"},
		{name: "negative", amount: "-2.25", code: "USD", want: "-$2.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, currency.Format(decimal.RequireFromString(tt.amount), tt.code))
		})
	}
}

func TestFormat_UnknownFallsBackToDefault(t *testing.T) {
	amount := decimal.NewFromInt(1_500_000)
	assert.Equal(t, currency.Format(amount, currency.Default), currency.Format(amount, "XYZ"))
	assert.Equal(t, currency.Format(amount, currency.Default), currency.Format(amount, ""))
}
