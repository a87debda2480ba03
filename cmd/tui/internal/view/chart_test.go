package view

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []int64
		want   string
	}{
		{name: "empty", values: nil, want: ""},
		{name: "flat", values: []int64{5, 5, 5}, want: "▁▁▁"},
		{name: "rising", values: []int64{0, 7, 14}, want: "▁▅█"},
		{name: "dip", values: []int64{10, 3, 10}, want: "█▁█"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := make([]decimal.Decimal, len(tt.values))
			for i, v := range tt.values {
				values[i] = decimal.NewFromInt(v)
			}

			assert.Equal(t, tt.want, Sparkline(values))
		})
	}
}
