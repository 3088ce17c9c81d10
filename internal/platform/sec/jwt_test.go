// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/platform/sec"
)

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

/*
TestTokenService_RoundTrip signs a token and verifies its claims.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := sec.NewTokenService(newKey(t), "https://id.folio.test", "folio-api")

	token, err := service.GenerateToken("idp|42", "ada@example.com", "Ada", time.Minute)
	require.NoError(t, err)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "idp|42", claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "Ada", claims.Name)
}

/*
TestTokenService_Rejects covers expiry, foreign keys and issuer mismatch.
*/
func TestTokenService_Rejects(t *testing.T) {
	key := newKey(t)
	service := sec.NewTokenService(key, "https://id.folio.test", "")

	t.Run("expired", func(t *testing.T) {
		token, err := service.GenerateToken("idp|1", "", "", -time.Minute)
		require.NoError(t, err)
		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("foreign_key", func(t *testing.T) {
		other := sec.NewTokenService(newKey(t), "https://id.folio.test", "")
		token, err := other.GenerateToken("idp|1", "", "", time.Minute)
		require.NoError(t, err)
		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong_issuer", func(t *testing.T) {
		other := sec.NewTokenService(key, "https://elsewhere.test", "")
		token, err := other.GenerateToken("idp|1", "", "", time.Minute)
		require.NoError(t, err)
		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := service.VerifyToken("not-a-token")
		assert.Error(t, err)
	})
}
