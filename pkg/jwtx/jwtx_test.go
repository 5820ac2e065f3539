package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	signer, err := GenerateSigner("test-key")
	require.NoError(t, err)

	keys := NewKeySet()
	keys.AddSigner(signer)
	verifier := NewVerifier(keys, "crew-team")

	now := time.Now().UTC()
	claims := NewAccessClaims("acct_123", "pat@example.com", "crew-team", time.Minute, now)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	got, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "acct_123", got.Subject)
	require.Equal(t, "pat@example.com", got.Email)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	signer, err := GenerateSigner("test-key")
	require.NoError(t, err)

	keys := NewKeySet()
	keys.AddSigner(signer)
	verifier := NewVerifier(keys, "expected-issuer")

	claims := NewAccessClaims("acct_123", "", "someone-else", time.Minute, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestVerifyRejectsExpired(t *testing.T) {
	t.Parallel()

	signer, err := GenerateSigner("test-key")
	require.NoError(t, err)

	keys := NewKeySet()
	keys.AddSigner(signer)
	verifier := NewVerifier(keys, "")

	claims := NewAccessClaims("acct_123", "", "", time.Minute, time.Now().UTC().Add(-time.Hour))
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsUnknownKID(t *testing.T) {
	t.Parallel()

	signer, err := GenerateSigner("rogue-key")
	require.NoError(t, err)

	// KeySet knows a different key entirely.
	other, err := GenerateSigner("trusted-key")
	require.NoError(t, err)

	keys := NewKeySet()
	keys.AddSigner(other)
	verifier := NewVerifier(keys, "")

	token, err := signer.Sign(NewAccessClaims("acct_123", "", "", time.Minute, time.Now().UTC()))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestSignerPEMRoundTrip(t *testing.T) {
	t.Parallel()

	signer, err := GenerateSigner("persisted")
	require.NoError(t, err)

	pemBytes, err := signer.MarshalPEM()
	require.NoError(t, err)

	reloaded, err := NewSigner("persisted", pemBytes)
	require.NoError(t, err)
	require.Equal(t, signer.Public(), reloaded.Public())
}
