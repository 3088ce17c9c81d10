// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/dberr"
	"github.com/taibuivan/folio/internal/platform/metrics"
	"github.com/taibuivan/folio/internal/platform/sec"
	"github.com/taibuivan/folio/pkg/uuid"
)

const resource = "User"

// # Service Layer

// Service resolves token subjects to internal users.
type Service struct {
	accountRepo AccountRepository
	cache       IdentityCache
	cacheTTL    time.Duration
	logger      *slog.Logger
}

// NewService constructs a new account [Service].
func NewService(accountRepo AccountRepository, cache IdentityCache, cacheTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		accountRepo: accountRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

/*
EnsureUser returns the internal user for an identity, provisioning it on first sight.

Parameters:
  - ctx: context.Context
  - identity: Identity (Subject is required)

Returns:
  - *User: The stored user
  - error: UNAUTHORIZED for a blank subject, INTERNAL_ERROR on storage failure
*/
func (service *Service) EnsureUser(ctx context.Context, identity Identity) (*User, error) {
	if strings.TrimSpace(identity.Subject) == "" {
		return nil, apperr.Unauthorized("Token has no subject")
	}

	user, inserted, err := service.accountRepo.Upsert(ctx, uuid.New(), identity)
	if err != nil {
		return nil, dberr.Wrap(err, resource, "upsert user")
	}

	if inserted {
		service.logger.Info("user_provisioned",
			slog.String("user_id", user.ID),
			slog.String("subject", user.AuthSubject),
		)
	}
	return user, nil
}

/*
ResolveUserID implements the identity step of the ResolveUser middleware.

Description: The Redis cache is consulted first. A cache failure is logged
and falls through to the database, so Redis being down slows requests
without failing them.

Returns:
  - string: Internal user id
*/
func (service *Service) ResolveUserID(ctx context.Context, claims *sec.AuthClaims) (string, error) {
	subject := claims.Subject

	userID, found, err := service.cache.Get(ctx, subject)
	if err != nil {
		service.logger.WarnContext(ctx, "identity_cache_unavailable", slog.String("error", err.Error()))
	}
	if found {
		metrics.IdentityLookupsTotal.WithLabelValues("cache").Inc()
		return userID, nil
	}

	user, err := service.EnsureUser(ctx, Identity{
		Subject: subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	})
	if err != nil {
		return "", err
	}
	metrics.IdentityLookupsTotal.WithLabelValues("database").Inc()

	if err := service.cache.Set(ctx, subject, user.ID, service.cacheTTL); err != nil {
		service.logger.WarnContext(ctx, "identity_cache_write_failed", slog.String("error", err.Error()))
	}
	return user.ID, nil
}

/*
Me returns the internal user bound to the current request.
*/
func (service *Service) Me(ctx context.Context, userID string) (*User, error) {
	user, err := service.accountRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, dberr.Wrap(err, resource, "get user")
	}
	return user, nil
}
