// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/crypto/blake2b"

	"github.com/taibuivan/folio/internal/platform/apperr"
)

// FieldFile is the multipart field carrying the upload.
const FieldFile = "file"

// # Service Layer

// Service validates uploads and stores them through a [Provider].
type Service struct {
	provider Provider
	maxBytes int64
	logger   *slog.Logger
}

// NewService constructs a new upload [Service].
func NewService(provider Provider, maxBytes int64, logger *slog.Logger) *Service {
	return &Service{
		provider: provider,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// MaxBytes returns the largest accepted upload.
func (service *Service) MaxBytes() int64 { return service.maxBytes }

/*
Upload stores an image and returns its public URL.

Parameters:
  - ctx: context.Context
  - userID: string (uploader, logged only)
  - data: []byte (raw file content)

Returns:
  - *Result: Public URL of the stored object
  - error: VALIDATION_ERROR for empty or non-image input, PAYLOAD_TOO_LARGE above the limit
*/
func (service *Service) Upload(ctx context.Context, userID string, data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, apperr.ValidationError("No file uploaded", apperr.FieldError{Field: FieldFile, Message: "File is empty"})
	}

	if int64(len(data)) > service.maxBytes {
		return nil, apperr.PayloadTooLarge(fmt.Sprintf("File exceeds the %d byte limit", service.maxBytes))
	}

	kind := mimetype.Detect(data)
	if !allowedTypes[kind.String()] {
		return nil, apperr.ValidationError("Unsupported file type",
			apperr.FieldError{Field: FieldFile, Message: "Only JPEG, PNG, GIF and WebP images are accepted"},
		)
	}

	name := ObjectName(data, kind.Extension())

	url, err := service.provider.Save(ctx, name, data)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("save upload: %w", err))
	}

	service.logger.InfoContext(ctx, "file_uploaded",
		slog.String("user_id", userID),
		slog.String("object", name),
		slog.String("content_type", kind.String()),
		slog.Int("size", len(data)),
	)
	return &Result{URL: url}, nil
}

// ObjectName derives the content-addressed name of data.
func ObjectName(data []byte, extension string) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:16]) + extension
}
