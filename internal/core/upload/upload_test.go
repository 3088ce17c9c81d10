// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/core/upload"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/ctxutil"
)

const baseURL = "http://cdn.test"

// pngBytes is a PNG signature followed by an IHDR chunk header.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 32)...)

func newService(t *testing.T, maxBytes int64) (*upload.Service, string) {
	t.Helper()
	dir := t.TempDir()
	storage, err := upload.NewLocalStorage(dir, baseURL+"/")
	require.NoError(t, err)
	return upload.NewService(storage, maxBytes, slog.New(slog.NewTextHandler(io.Discard, nil))), dir
}

func TestUpload_StoresContentAddressedImage(t *testing.T) {
	service, dir := newService(t, 1024)

	first, err := service.Upload(context.Background(), "user-1", pngBytes)
	require.NoError(t, err)

	name := upload.ObjectName(pngBytes, ".png")
	assert.Equal(t, baseURL+"/uploads/"+name, first.URL)

	stored, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, stored)

	second, err := service.Upload(context.Background(), "user-2", pngBytes)
	require.NoError(t, err)
	assert.Equal(t, first.URL, second.URL)
}

func TestUpload_Rejections(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		code string
	}{
		{"empty", nil, apperr.CodeValidation},
		{"not_an_image", []byte("plain text pretending to be a cover"), apperr.CodeValidation},
		{"too_large", append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{1}, 128)...), apperr.CodeTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, dir := newService(t, 64)

			_, err := service.Upload(context.Background(), "user-1", tt.data)

			assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
			entries, _ := os.ReadDir(dir)
			assert.Empty(t, entries)
		})
	}
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	storage, err := upload.NewLocalStorage(t.TempDir(), baseURL)
	require.NoError(t, err)

	for _, name := range []string{"", "../escape.png", ".hidden", "a/b.png"} {
		_, err := storage.Save(context.Background(), name, pngBytes)
		assert.Error(t, err, name)
	}
}

func TestLocalStorage_DeleteMissingIsNoop(t *testing.T) {
	storage, err := upload.NewLocalStorage(t.TempDir(), baseURL)
	require.NoError(t, err)
	assert.NoError(t, storage.Delete(context.Background(), "absent.png"))
}

// # Handler

func multipartRequest(t *testing.T, field string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile(field, "cover.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, form.Close())

	request := httptest.NewRequest(http.MethodPost, "/upload", &body)
	request.Header.Set("Content-Type", form.FormDataContentType())
	return request
}

func newRouter(service *upload.Service, userID string) http.Handler {
	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if userID != "" {
				request = request.WithContext(ctxutil.WithUserID(request.Context(), userID))
			}
			next.ServeHTTP(writer, request)
		})
	})
	upload.NewHandler(service).RegisterRoutes(router)
	return router
}

func TestHandler_Upload(t *testing.T) {
	service, _ := newService(t, 1024)
	recorder := httptest.NewRecorder()

	newRouter(service, "user-1").ServeHTTP(recorder, multipartRequest(t, upload.FieldFile, pngBytes))

	require.Equal(t, http.StatusOK, recorder.Code)
	var envelope struct {
		Data upload.Result `json:"data"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	assert.True(t, strings.HasPrefix(envelope.Data.URL, baseURL+"/uploads/"))
	assert.True(t, strings.HasSuffix(envelope.Data.URL, ".png"))
}

func TestHandler_UploadErrors(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		request func(t *testing.T) *http.Request
		status  int
	}{
		{"anonymous", "", func(t *testing.T) *http.Request { return multipartRequest(t, upload.FieldFile, pngBytes) }, http.StatusUnauthorized},
		{"wrong_field", "user-1", func(t *testing.T) *http.Request { return multipartRequest(t, "image", pngBytes) }, http.StatusBadRequest},
		{"not_multipart", "user-1", func(t *testing.T) *http.Request {
			request := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{"url":"x"}`))
			request.Header.Set("Content-Type", "application/json")
			return request
		}, http.StatusBadRequest},
		{"too_large", "user-1", func(t *testing.T) *http.Request {
			return multipartRequest(t, upload.FieldFile, append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{1}, 256)...))
		}, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _ := newService(t, 64)
			recorder := httptest.NewRecorder()
			newRouter(service, tt.userID).ServeHTTP(recorder, tt.request(t))
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}
