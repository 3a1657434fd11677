package errors

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid")
	ErrExpired  = errors.New("code expired")
	ErrTooMany  = errors.New("too many requests")
	ErrDelivery = errors.New("delivery failed")
	ErrInternal = errors.New("internal")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDelivery(err error) bool {
	return errors.Is(err, ErrDelivery)
}
