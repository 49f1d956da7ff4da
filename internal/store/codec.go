package store

import (
	"fmt"
	"time"

	"github.com/gouravdhdb/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Storage keys, matching the browser-era localStorage layout.
const (
	keyCart     = "cart"
	keyOrders   = "orders"
	keyDarkMode = "darkMode"
	keyDraft    = "pendingOrder"
)

type cartLineRow struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	Quantity int             `json:"quantity"`
}

type customerRow struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	PaymentRef string `json:"payment_ref,omitempty"`
}

type orderRow struct {
	ID            string          `json:"id"`
	Items         []cartLineRow   `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount_applied"`
	Currency      string          `json:"currency"`
	Customer      customerRow     `json:"customer"`
	PaymentMethod string          `json:"payment_method"`
	PlacedAt      time.Time       `json:"placed_at"`
	Status        string          `json:"status"`
}

func mapCartLineToRow(l domain.CartLine) cartLineRow {
	return cartLineRow{
		Name:     l.Name,
		Price:    l.UnitPrice.Amount,
		Currency: l.UnitPrice.Currency.String(),
		Quantity: l.Quantity,
	}
}

func mapCartLineRowToDomain(row cartLineRow) (domain.CartLine, error) {
	parsedCurrency, err := currency.ParseISO(row.Currency)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("currency[%s] is not valid: %w", row.Currency, err)
	}

	return domain.CartLine{
		Name:      row.Name,
		UnitPrice: domain.Money{Amount: row.Price, Currency: parsedCurrency},
		Quantity:  row.Quantity,
	}, nil
}

func mapCartToRows(lines []domain.CartLine) []cartLineRow {
	rows := make([]cartLineRow, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, mapCartLineToRow(l))
	}
	return rows
}

func mapCartRowsToDomain(rows []cartLineRow) ([]domain.CartLine, error) {
	var lines []domain.CartLine

	for _, row := range rows {
		line, err := mapCartLineRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapCartLineRowToDomain: %w", err)
		}

		lines = append(lines, line)
	}

	return lines, nil
}

func mapOrderToRow(o domain.Order) orderRow {
	return orderRow{
		ID:       o.ID,
		Items:    mapCartToRows(o.Lines),
		Subtotal: o.Subtotal.Amount,
		Discount: o.DiscountApplied.Amount,
		Currency: o.Subtotal.Currency.String(),
		Customer: customerRow{
			Name:       o.Customer.Name,
			Address:    o.Customer.Address,
			Phone:      o.Customer.Phone,
			PaymentRef: o.Customer.PaymentRef,
		},
		PaymentMethod: string(o.PaymentMethod),
		PlacedAt:      o.PlacedAt,
		Status:        string(o.Status),
	}
}

func mapOrderRowToDomain(row orderRow) (domain.Order, error) {
	parsedCurrency, err := currency.ParseISO(row.Currency)
	if err != nil {
		return domain.Order{}, fmt.Errorf("currency[%s] is not valid: %w", row.Currency, err)
	}

	lines, err := mapCartRowsToDomain(row.Items)
	if err != nil {
		return domain.Order{}, fmt.Errorf("mapCartRowsToDomain: %w", err)
	}

	return domain.Order{
		ID:              row.ID,
		Lines:           lines,
		Subtotal:        domain.Money{Amount: row.Subtotal, Currency: parsedCurrency},
		DiscountApplied: domain.Money{Amount: row.Discount, Currency: parsedCurrency},
		Customer: domain.Customer{
			Name:       row.Customer.Name,
			Address:    row.Customer.Address,
			Phone:      row.Customer.Phone,
			PaymentRef: row.Customer.PaymentRef,
		},
		PaymentMethod: domain.PaymentMethod(row.PaymentMethod),
		PlacedAt:      row.PlacedAt,
		Status:        domain.OrderStatus(row.Status),
	}, nil
}

func mapOrdersToRows(orders []domain.Order) []orderRow {
	rows := make([]orderRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, mapOrderToRow(o))
	}
	return rows
}

func mapOrderRowsToDomain(rows []orderRow) ([]domain.Order, error) {
	var orders []domain.Order

	for _, row := range rows {
		o, err := mapOrderRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapOrderRowToDomain: %w", err)
		}

		orders = append(orders, o)
	}

	return orders, nil
}
