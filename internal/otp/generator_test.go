package otp

import (
	"crypto/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

var sixDigits = regexp.MustCompile(`^\d{6}$`)

func TestGenerate_WithinRange(t *testing.T) {
	g := NewGenerator()
	for i := 0; i < 10000; i++ {
		code, err := g.Generate()
		require.NoError(t, err)
		require.GreaterOrEqual(t, code, MinCode)
		require.LessOrEqual(t, code, MaxCode)
		require.Regexp(t, sixDigits, Format(code))
	}
}

func TestGenerate_Uniform(t *testing.T) {
	const buckets = 9
	const perBucket = 10000
	g := NewGenerator()
	counts := make([]int, buckets)
	for i := 0; i < buckets*perBucket; i++ {
		code, err := g.Generate()
		require.NoError(t, err)
		counts[(code-MinCode)/100000]++
	}
	// one bucket per leading digit; 500 is roughly five standard deviations
	for i, c := range counts {
		require.InDeltaf(t, perBucket, c, 500, "bucket %d", i)
	}
}

func TestInRange_AllValuesReachable(t *testing.T) {
	seen := map[int64]bool{}
	for i := 0; i < 2000; i++ {
		n, err := inRange(rand.Reader, 1, 4)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, int64(1))
		require.LessOrEqual(t, n, int64(4))
		seen[n] = true
	}
	require.Len(t, seen, 4)
}

func TestInRange_Invalid(t *testing.T) {
	_, err := inRange(rand.Reader, 5, 1)
	require.Error(t, err)
}

func TestFormat_Pads(t *testing.T) {
	require.Equal(t, "000042", Format(42))
	require.Equal(t, "123456", Format(123456))
}
