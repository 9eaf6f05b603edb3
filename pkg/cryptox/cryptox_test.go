package cryptox_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aussiebroadwan/finepay/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasher(t *testing.T) {
	t.Parallel()

	h := cryptox.NewPasswordHasher("pepper")

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))
			require.Len(t, strings.Split(hash, "$"), 6)

			require.NoError(t, h.Verify(tt.password, hash))
			require.ErrorIs(t, h.Verify(tt.password+"x", hash), cryptox.ErrPasswordMismatch)
		})
	}
}

func TestPasswordHasherSalts(t *testing.T) {
	t.Parallel()

	h := cryptox.NewPasswordHasher("")
	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestPasswordHasherPepper(t *testing.T) {
	t.Parallel()

	hash, err := cryptox.NewPasswordHasher("one").Hash("password123")
	require.NoError(t, err)
	require.ErrorIs(t, cryptox.NewPasswordHasher("two").Verify("password123", hash), cryptox.ErrPasswordMismatch)
}

func TestVerifyInvalidHash(t *testing.T) {
	t.Parallel()

	h := cryptox.NewPasswordHasher("")
	for _, bad := range []string{"", "plain", "$bcrypt$v=19$m=1,t=1,p=1$a$b", "$argon2id$v=19$garbage$a$b"} {
		require.ErrorIs(t, h.Verify("x", bad), cryptox.ErrInvalidHash, bad)
	}
}

func TestLoadOrCreatePepper(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "secrets", "pepper")

	first, err := cryptox.LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := cryptox.LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.Equal(t, first, second)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadOrCreateEd25519Key(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "signing.pem")
	a, err := cryptox.LoadOrCreateEd25519Key(path)
	require.NoError(t, err)
	require.Contains(t, string(a), "PRIVATE KEY")

	b, err := cryptox.LoadOrCreateEd25519Key(path)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	tok, err := cryptox.GenerateToken(16)
	require.NoError(t, err)
	require.Len(t, tok, 22)

	_, err = cryptox.GenerateToken(0)
	require.Error(t, err)
}
