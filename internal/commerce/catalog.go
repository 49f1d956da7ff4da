package commerce

import (
	"github.com/gouravdhdb/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultCatalog is the fixed, preloaded voucher set. Consumption state
// lives for the process lifetime only.
func DefaultCatalog() []domain.Voucher {
	return []domain.Voucher{
		{Code: "SAVE10", Kind: domain.VoucherPercentage, Value: decimal.NewFromInt(10), MinSubtotal: decimal.NewFromInt(100)},
		{Code: "FLAT50", Kind: domain.VoucherFlat, Value: decimal.NewFromInt(25), MinSubtotal: decimal.NewFromInt(200)},
		{Code: "FREEDEL", Kind: domain.VoucherFlat, Value: decimal.NewFromInt(30), MinSubtotal: decimal.NewFromInt(250)},
	}
}
