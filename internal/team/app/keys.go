package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aussiebroadwan/crew/pkg/idx"
	"github.com/aussiebroadwan/crew/pkg/jwtx"
)

// InitIdentityKeys loads the Ed25519 verification key the service trusts
// for access tokens.
//
// When cfg.IdentityKeyFile is set, the key is read from that PKCS8 PEM file
// and tokens survive restarts. When unset, an ephemeral keypair is generated
// on startup; every existing token becomes invalid on restart, which is fine
// for development but not much else.
//
// The signer is returned alongside the KeySet so tooling (and tests) can
// mint tokens against the same key the verifier trusts.
func InitIdentityKeys(cfg Config, logger *slog.Logger) (*jwtx.KeySet, *jwtx.Signer, error) {
	var signer *jwtx.Signer

	if cfg.IdentityKeyFile != "" {
		pemKey, err := os.ReadFile(cfg.IdentityKeyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read identity key file: %w", err)
		}

		signer, err = jwtx.NewSigner(idx.New().String(), pemKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load identity key: %w", err)
		}

		logger.Info("identity key loaded", "path", cfg.IdentityKeyFile, "kid", signer.KID())
	} else {
		var err error
		signer, err = jwtx.GenerateSigner(idx.New().String())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate identity key: %w", err)
		}

		logger.Warn("no identity key file configured, generated ephemeral key",
			"kid", signer.KID(),
		)
	}

	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)

	return keys, signer, nil
}
