// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/core/book"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/pkg/pagination"
	"github.com/taibuivan/folio/pkg/patch"
	"github.com/taibuivan/folio/pkg/pointer"
)

type repositoryMock struct{ mock.Mock }

func (m *repositoryMock) Create(ctx context.Context, b *book.Book) error {
	return m.Called(ctx, b).Error(0)
}

func (m *repositoryMock) ListByOwner(ctx context.Context, userID string, limit, offset int) ([]*book.Book, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	books, _ := args.Get(0).([]*book.Book)
	return books, args.Int(1), args.Error(2)
}

func (m *repositoryMock) FindOwned(ctx context.Context, id, userID string) (*book.Book, error) {
	args := m.Called(ctx, id, userID)
	b, _ := args.Get(0).(*book.Book)
	return b, args.Error(1)
}

func (m *repositoryMock) Update(ctx context.Context, b *book.Book) error {
	return m.Called(ctx, b).Error(0)
}

func (m *repositoryMock) DeleteOwned(ctx context.Context, id, userID string) (*book.Book, error) {
	args := m.Called(ctx, id, userID)
	b, _ := args.Get(0).(*book.Book)
	return b, args.Error(1)
}

func newService(repo book.BookRepository) *book.Service {
	return book.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

/*
TestCreate_Defaults checks that category and status fall back to OTHER and DRAFT.
*/
func TestCreate_Defaults(t *testing.T) {
	repo := &repositoryMock{}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(b *book.Book) bool {
		return b.UserID == "user-1" && b.Category == book.CategoryOther && b.Status == book.StatusDraft && b.ID != ""
	})).Return(nil).Once()

	created, err := newService(repo).Create(context.Background(), "user-1", book.CreateInput{Title: "Our Family"})

	require.NoError(t, err)
	assert.Equal(t, "Our Family", created.Title)
	repo.AssertExpectations(t)
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input book.CreateInput
		field string
	}{
		{"missing_title", book.CreateInput{Title: "  "}, book.FieldTitle},
		{"bad_category", book.CreateInput{Title: "t", Category: "POETRY"}, book.FieldCategory},
		{"bad_status", book.CreateInput{Title: "t", Status: "LIVE"}, book.FieldStatus},
		{"bad_cover_url", book.CreateInput{Title: "t", CoverImage: pointer.To("ftp://x/y.png")}, book.FieldCoverImage},
		{"bad_cover_color", book.CreateInput{Title: "t", CoverColor: pointer.To("red")}, book.FieldCoverColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &repositoryMock{}

			_, err := newService(repo).Create(context.Background(), "user-1", tt.input)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, apperr.CodeValidation, appError.Code)
			require.Len(t, appError.Details, 1)
			assert.Equal(t, tt.field, appError.Details[0].Field)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

/*
TestGet_OtherOwner ensures a book owned by someone else reads as missing.
*/
func TestGet_OtherOwner(t *testing.T) {
	repo := &repositoryMock{}
	repo.On("FindOwned", mock.Anything, "book-1", "intruder").Return(nil, pgx.ErrNoRows)

	_, err := newService(repo).Get(context.Background(), "intruder", "book-1")

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, apperr.CodeNotFound, appError.Code)
	assert.Equal(t, "Book not found", appError.Message)
}

/*
TestUpdate_NullVersusOmit clears the cover image, keeps the description, and
renames the book.
*/
func TestUpdate_NullVersusOmit(t *testing.T) {
	stored := &book.Book{
		ID:          "book-1",
		UserID:      "user-1",
		Title:       "Draft",
		Description: pointer.To("kept"),
		Category:    book.CategoryMemoir,
		CoverImage:  pointer.To("https://cdn.example.com/a.png"),
		Status:      book.StatusDraft,
	}

	repo := &repositoryMock{}
	repo.On("FindOwned", mock.Anything, "book-1", "user-1").Return(stored, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

	updated, err := newService(repo).Update(context.Background(), "user-1", "book-1", book.Patch{
		Title:      pointer.To("Final"),
		CoverImage: patch.Null[string](),
	})

	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Nil(t, updated.CoverImage)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "kept", *updated.Description)
	repo.AssertExpectations(t)
}

func TestUpdate_EmptyPatchSkipsWrite(t *testing.T) {
	repo := &repositoryMock{}
	repo.On("FindOwned", mock.Anything, "book-1", "user-1").Return(&book.Book{ID: "book-1", Title: "t"}, nil)

	_, err := newService(repo).Update(context.Background(), "user-1", "book-1", book.Patch{})

	require.NoError(t, err)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestList_PassesOffset(t *testing.T) {
	repo := &repositoryMock{}
	repo.On("ListByOwner", mock.Anything, "user-1", 10, 20).Return([]*book.Book{{ID: "b"}}, 21, nil)

	books, total, err := newService(repo).List(context.Background(), "user-1", pagination.Params{Page: 3, Limit: 10})

	require.NoError(t, err)
	assert.Len(t, books, 1)
	assert.Equal(t, 21, total)
}

func TestDelete_ReturnsDeletedBook(t *testing.T) {
	repo := &repositoryMock{}
	repo.On("DeleteOwned", mock.Anything, "book-1", "user-1").Return(&book.Book{ID: "book-1"}, nil)

	deleted, err := newService(repo).Delete(context.Background(), "user-1", "book-1")

	require.NoError(t, err)
	assert.Equal(t, "book-1", deleted.ID)
}
