package domain

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderFulfilled OrderStatus = "Fulfilled"
)

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentUPI    PaymentMethod = "upi"
	PaymentOnline PaymentMethod = "online"
)

// Deferred reports whether the method hands control to an external payment
// flow before the order may be finalized.
func (p PaymentMethod) Deferred() bool {
	return p == PaymentOnline
}

type Customer struct {
	Name       string
	Address    string
	Phone      string
	PaymentRef string // optional, e.g. a UPI id
}

// Complete reports whether all required delivery fields are filled in.
func (c Customer) Complete() bool {
	return strings.TrimSpace(c.Name) != "" &&
		strings.TrimSpace(c.Address) != "" &&
		strings.TrimSpace(c.Phone) != ""
}

// Order is a committed checkout record. Everything except Status is
// immutable after creation; Status only ever moves Pending to Fulfilled.
type Order struct {
	ID              string
	Lines           []CartLine
	Subtotal        Money
	DiscountApplied Money
	Customer        Customer
	PaymentMethod   PaymentMethod
	PlacedAt        time.Time
	Status          OrderStatus
}
