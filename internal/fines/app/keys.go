package app

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/finepay/pkg/cryptox"
	"github.com/aussiebroadwan/finepay/pkg/jwtx"
)

// Credentials groups the secrets the service loads at startup.
type Credentials struct {
	Signer   *jwtx.EdDSASigner
	Verifier *jwtx.EdDSAVerifier
	Hasher   *cryptox.PasswordHasher
}

// InitCredentials loads the token signing key and the password pepper,
// creating both on first start. The key id is derived from the public key so
// it stays stable across restarts and changes when the key file does.
func InitCredentials(cfg Config, logger *slog.Logger) (Credentials, error) {
	pemKey, err := cryptox.LoadOrCreateEd25519Key(cfg.SigningKeyFile)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to load signing key: %w", err)
	}

	// Derive kid from the public key
	signer, err := jwtx.NewSignerEdDSA("", pemKey)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to parse signing key: %w", err)
	}
	sum := sha256.Sum256(signer.Public())
	signer, err = jwtx.NewSignerEdDSA(hex.EncodeToString(sum[:8]), pemKey)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to parse signing key: %w", err)
	}

	keys := jwtx.NewKeySet()
	keys.Add(signer.KID(), signer.Public())

	pepper, err := cryptox.LoadOrCreatePepper(cfg.PepperFile)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to load pepper: %w", err)
	}
	if cfg.PepperFile == "" {
		logger.Warn("no pepper file configured, passwords will not verify after a restart")
	}

	logger.Info("signing key loaded", "kid", signer.KID(), "issuer", cfg.Issuer)

	return Credentials{
		Signer:   signer,
		Verifier: jwtx.NewVerifierEdDSA(keys, cfg.Issuer),
		Hasher:   cryptox.NewPasswordHasher(pepper),
	}, nil
}
