// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/ctxutil"
	"github.com/taibuivan/folio/internal/platform/sec"
	"github.com/taibuivan/folio/internal/users/account"
)

type repositoryMock struct{ mock.Mock }

func (m *repositoryMock) Upsert(ctx context.Context, id string, identity account.Identity) (*account.User, bool, error) {
	args := m.Called(ctx, id, identity)
	user, _ := args.Get(0).(*account.User)
	return user, args.Bool(1), args.Error(2)
}

func (m *repositoryMock) FindByID(ctx context.Context, id string) (*account.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*account.User)
	return user, args.Error(1)
}

type cacheMock struct{ mock.Mock }

func (m *cacheMock) Get(ctx context.Context, subject string) (string, bool, error) {
	args := m.Called(ctx, subject)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *cacheMock) Set(ctx context.Context, subject, userID string, ttl time.Duration) error {
	return m.Called(ctx, subject, userID, ttl).Error(0)
}

const ttl = 10 * time.Minute

func newService(repo account.AccountRepository, cache account.IdentityCache) *account.Service {
	return account.NewService(repo, cache, ttl, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func claimsFor(subject string) *sec.AuthClaims {
	return &sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
		Email:            "ada@example.com",
		Name:             "Ada",
	}
}

/*
TestResolveUserID_CacheHit skips the database entirely.
*/
func TestResolveUserID_CacheHit(t *testing.T) {
	repo := &repositoryMock{}
	cache := &cacheMock{}
	cache.On("Get", mock.Anything, "idp|1").Return("user-1", true, nil)

	userID, err := newService(repo, cache).ResolveUserID(context.Background(), claimsFor("idp|1"))

	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

/*
TestResolveUserID_MissProvisionsAndCaches upserts from the claims and writes
the mapping back with the configured TTL.
*/
func TestResolveUserID_MissProvisionsAndCaches(t *testing.T) {
	repo := &repositoryMock{}
	repo.On("Upsert", mock.Anything, mock.AnythingOfType("string"), account.Identity{
		Subject: "idp|1", Email: "ada@example.com", Name: "Ada",
	}).Return(&account.User{ID: "user-1", AuthSubject: "idp|1"}, true, nil).Once()

	cache := &cacheMock{}
	cache.On("Get", mock.Anything, "idp|1").Return("", false, nil)
	cache.On("Set", mock.Anything, "idp|1", "user-1", ttl).Return(nil).Once()

	userID, err := newService(repo, cache).ResolveUserID(context.Background(), claimsFor("idp|1"))

	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestResolveUserID_CacheDownFallsBackToDatabase(t *testing.T) {
	repo := &repositoryMock{}
	repo.On("Upsert", mock.Anything, mock.Anything, mock.Anything).Return(&account.User{ID: "user-1"}, false, nil)

	cache := &cacheMock{}
	cache.On("Get", mock.Anything, "idp|1").Return("", false, errors.New("dial tcp: refused"))
	cache.On("Set", mock.Anything, "idp|1", "user-1", ttl).Return(errors.New("dial tcp: refused"))

	userID, err := newService(repo, cache).ResolveUserID(context.Background(), claimsFor("idp|1"))

	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestEnsureUser_BlankSubject(t *testing.T) {
	_, err := newService(&repositoryMock{}, &cacheMock{}).EnsureUser(context.Background(), account.Identity{Subject: " "})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}

func TestEnsureUser_StorageFailure(t *testing.T) {
	repo := &repositoryMock{}
	repo.On("Upsert", mock.Anything, mock.Anything, mock.Anything).Return(nil, false, errors.New("conn reset"))

	_, err := newService(repo, &cacheMock{}).EnsureUser(context.Background(), account.Identity{Subject: "idp|1"})

	assert.True(t, apperr.HasCode(err, apperr.CodeInternal))
}

func TestHandler_GetMe(t *testing.T) {
	repo := &repositoryMock{}
	repo.On("FindByID", mock.Anything, "user-1").Return(&account.User{ID: "user-1"}, nil)
	repo.On("FindByID", mock.Anything, "ghost").Return(nil, pgx.ErrNoRows)

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if id := request.Header.Get("X-Test-User"); id != "" {
				request = request.WithContext(ctxutil.WithUserID(request.Context(), id))
			}
			next.ServeHTTP(writer, request)
		})
	})
	account.NewHandler(newService(repo, &cacheMock{})).RegisterRoutes(router)

	tests := []struct {
		name   string
		user   string
		status int
	}{
		{"resolved", "user-1", http.StatusOK},
		{"anonymous", "", http.StatusUnauthorized},
		{"deleted_user", "ghost", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			request.Header.Set("X-Test-User", tt.user)
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}
