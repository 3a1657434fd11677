// Package otp draws numeric one-time passcodes.
package otp

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

const (
	MinCode = 100000
	MaxCode = 999999
)

type Generator interface {
	Generate() (int, error)
}

// RandomGenerator draws codes uniformly from [MinCode, MaxCode].
type RandomGenerator struct {
	reader io.Reader
}

func NewGenerator() *RandomGenerator {
	return &RandomGenerator{reader: rand.Reader}
}

func (g *RandomGenerator) Generate() (int, error) {
	n, err := inRange(g.reader, MinCode, MaxCode)
	if err != nil {
		return 0, fmt.Errorf("generate code: %w", err)
	}
	return int(n), nil
}

func inRange(r io.Reader, lo, hi int64) (int64, error) {
	if hi < lo {
		return 0, fmt.Errorf("invalid range [%d, %d]", lo, hi)
	}
	n, err := rand.Int(r, big.NewInt(hi-lo+1))
	if err != nil {
		return 0, err
	}
	return lo + n.Int64(), nil
}

// Format renders code as the six digit string users type back.
func Format(code int) string {
	return fmt.Sprintf("%06d", code)
}
