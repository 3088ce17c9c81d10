// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package upload accepts cover and page images and hands them to a storage provider.

Files are content-addressed: the stored name is derived from a BLAKE2b digest
of the bytes, so uploading the same image twice yields the same URL.
*/
package upload

import "context"

// # Domain Types

// Result is returned to the client after a successful upload.
type Result struct {
	URL string `json:"url"`
}

// Provider persists an uploaded object and returns its public URL.
type Provider interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
	Delete(ctx context.Context, name string) error
}

// allowedTypes lists the image formats accepted by [Service.Upload].
var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}
