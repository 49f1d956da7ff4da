package domain_test

import (
	"testing"

	"github.com/gouravdhdb/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestVoucherDiscountFor(t *testing.T) {
	tests := []struct {
		name     string
		voucher  domain.Voucher
		subtotal int64
		want     string
	}{
		{
			name:     "percentage of subtotal",
			voucher:  domain.Voucher{Kind: domain.VoucherPercentage, Value: decimal.NewFromInt(10)},
			subtotal: 100,
			want:     "10",
		},
		{
			name:     "percentage with fraction",
			voucher:  domain.Voucher{Kind: domain.VoucherPercentage, Value: decimal.NewFromInt(10)},
			subtotal: 125,
			want:     "12.5",
		},
		{
			name:     "flat ignores subtotal",
			voucher:  domain.Voucher{Kind: domain.VoucherFlat, Value: decimal.NewFromInt(30)},
			subtotal: 1000,
			want:     "30",
		},
		{
			name:     "unknown kind yields zero",
			voucher:  domain.Voucher{Kind: "mystery", Value: decimal.NewFromInt(30)},
			subtotal: 1000,
			want:     "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.voucher.DiscountFor(decimal.NewFromInt(tt.subtotal))
			assert.Equal(t, tt.want, got.String())
		})
	}
}
