package service

import "errors"

var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to order")
	ErrValidation        = errors.New("missing or invalid required fields")
	ErrUnauthorized      = errors.New("no guest flag and no authenticated session")
	ErrPaymentIncomplete = errors.New("payment has not succeeded")
)
