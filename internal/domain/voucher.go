package domain

import "github.com/shopspring/decimal"

type VoucherKind string

const (
	VoucherPercentage VoucherKind = "percentage"
	VoucherFlat       VoucherKind = "flat"
)

// Voucher is a single-use discount code with a minimum-spend constraint.
// Consumed flips false to true once and never back.
type Voucher struct {
	Code        string
	Kind        VoucherKind
	Value       decimal.Decimal
	MinSubtotal decimal.Decimal
	Consumed    bool
}

// DiscountFor returns the discount this voucher yields against the given
// subtotal. It does not check the minimum-spend constraint.
func (v Voucher) DiscountFor(subtotal decimal.Decimal) decimal.Decimal {
	switch v.Kind {
	case VoucherPercentage:
		return subtotal.Mul(v.Value).Div(decimal.NewFromInt(100))
	case VoucherFlat:
		return v.Value
	}
	return decimal.Zero
}
