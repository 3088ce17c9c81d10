// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec verifies the identity tokens presented to the Folio API.
//
// Folio never authenticates users itself. The identity provider signs RS256
// tokens; this package checks them and exposes the verified claims.
package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the verified payload of an identity-provider token.
//
// Subject ("sub") is the provider's stable user key. It is mapped to an
// internal user by the account resolver, never used as a foreign key directly.
type AuthClaims struct {
	jwt.RegisteredClaims

	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// TokenService verifies RS256 tokens. It can also sign tokens when built with
// a private key, which local tooling and tests use.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	audience   string
}

// NewTokenVerifier builds a verify-only [TokenService] from a PEM public key on disk.
// Empty issuer or audience disables that check.
func NewTokenVerifier(publicKeyPath, issuer, audience string) (*TokenService, error) {
	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return &TokenService{publicKey: publicKey, issuer: issuer, audience: audience}, nil
}

// NewTokenService builds a [TokenService] able to both sign and verify.
func NewTokenService(privateKey *rsa.PrivateKey, issuer, audience string) *TokenService {
	return &TokenService{
		privateKey: privateKey,
		publicKey:  &privateKey.PublicKey,
		issuer:     issuer,
		audience:   audience,
	}
}

// GenerateToken signs a token for subject. It fails on a verify-only service.
func (service *TokenService) GenerateToken(subject, email, name string, timeToLive time.Duration) (string, error) {
	if service.privateKey == nil {
		return "", errors.New("sec: token service has no signing key")
	}

	now := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(timeToLive)),
		},
		Email: email,
		Name:  name,
	}
	if service.audience != "" {
		claims.Audience = jwt.ClaimStrings{service.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken checks the signature, expiry, issuer and audience of a token.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if service.issuer != "" {
		options = append(options, jwt.WithIssuer(service.issuer))
	}
	if service.audience != "" {
		options = append(options, jwt.WithAudience(service.audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(*jwt.Token) (interface{}, error) {
		return service.publicKey, nil
	}, options...)
	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, errors.New("sec: invalid token claims")
	}
	if claims.Subject == "" {
		return nil, errors.New("sec: token has no subject")
	}

	return claims, nil
}
