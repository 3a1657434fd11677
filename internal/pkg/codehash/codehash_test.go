package codehash

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashCompare(t *testing.T) {
	Cost = bcrypt.MinCost
	hash, err := Hash("123456")
	require.NoError(t, err)
	require.NotEqual(t, "123456", hash)
	require.NoError(t, Compare(hash, "123456"))
	require.NoError(t, Compare(hash, " 123456 "))
	require.Error(t, Compare(hash, "654321"))
}
