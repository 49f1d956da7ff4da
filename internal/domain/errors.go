package domain

import "errors"

var (
	ErrEmptyCode         = errors.New("voucher code is empty")
	ErrUnknownCode       = errors.New("unknown voucher code")
	ErrAlreadyConsumed   = errors.New("voucher already used")
	ErrBelowMinimum      = errors.New("cart subtotal below voucher minimum")
	ErrIncompleteDetails = errors.New("incomplete delivery details")
	ErrIndexOutOfRange   = errors.New("cart index out of range")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrNoDraft           = errors.New("no pending draft order")
	ErrDispatchFailure   = errors.New("order notification delivery failed")
)
