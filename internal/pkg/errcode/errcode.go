package errcode

const (
	ErrUnknown = 10000000 + iota
	ErrInvalid
	ErrNotFound
	ErrExpired
	ErrTooMany
	ErrInternal
	ErrDelivery
)
