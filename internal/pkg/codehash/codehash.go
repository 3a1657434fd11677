// Package codehash stores one-time codes as bcrypt digests so a leaked
// store does not reveal live codes.
package codehash

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor. Tests lower it.
var Cost = bcrypt.DefaultCost

func Hash(code string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(code)), Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func Compare(hash, code string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(strings.TrimSpace(code)))
}
