package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)

	require.True(t, VerifyPassword(hash, "secret"))
	require.False(t, VerifyPassword(hash, "incorrect"))
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken(32)
	require.NoError(t, err)
	b, err := GenerateToken(32)
	require.NoError(t, err)

	require.NotEmpty(t, a)
	require.NotEqual(t, a, b)
}

func TestGenerateNumericCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateNumericCode(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9', "unexpected rune %q in %s", r, code)
		}
	}

	_, err := GenerateNumericCode(0)
	require.Error(t, err)
}

func TestHashTokenIsDeterministicAndSeparated(t *testing.T) {
	require.Equal(t, HashToken("a@example.com", "123456"), HashToken("a@example.com", "123456"))
	require.NotEqual(t, HashToken("a@example.com", "123456"), HashToken("a@example.com", "654321"))
	require.NotEqual(t, HashToken("ab", "c"), HashToken("a", "bc"))
	require.Len(t, HashToken("x"), 64)
}
