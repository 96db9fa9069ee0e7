package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("tr-1", "students/s-1/tr-1.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "tr-1", got.ResourceID)
	assert.Equal(t, "students/s-1/tr-1.pdf", got.Path)
	assert.True(t, expiresAt.Equal(got.ExpiresAt))
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	token, _, err := signer.Generate("tr-1", "a.pdf")
	require.NoError(t, err)

	signer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = signer.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate("tr-1", "a.pdf")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[0] = "tr-2"
	_, err = signer.Verify(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrTokenSignature)

	other := NewSignedURLSigner("other", time.Hour)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrTokenSignature)

	_, err = signer.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestSignedURLSignerGenerateValidation(t *testing.T) {
	_, _, err := NewSignedURLSigner("", time.Hour).Generate("id", "a.pdf")
	assert.Error(t, err)

	_, _, err = NewSignedURLSigner("secret", time.Hour).Generate("a.b", "a.pdf")
	assert.Error(t, err)
}
