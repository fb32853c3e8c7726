package repository

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrPaymentNotPending = errors.New("payment is not pending")
	ErrCacheMiss         = errors.New("cache miss")
)
