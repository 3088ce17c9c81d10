// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// # Local Disk Provider

// LocalStorage writes uploads under a single directory served at /uploads/.
type LocalStorage struct {
	dir     string
	baseURL string
}

// NewLocalStorage creates dir if needed and returns a provider rooted there.
func NewLocalStorage(dir, publicBaseURL string) (*LocalStorage, error) {
	if dir == "" {
		return nil, errors.New("upload: directory cannot be empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("upload: create %s: %w", dir, err)
	}

	return &LocalStorage{
		dir:     dir,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Dir returns the directory files are written to.
func (storage *LocalStorage) Dir() string { return storage.dir }

/*
Save writes data under name and returns its public URL.

Description: The bytes go to a temporary file first and are renamed into
place, so a reader never observes a partially written image. An existing
file with the same name is left as is.
*/
func (storage *LocalStorage) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := storage.path(name)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(path); err == nil {
		return storage.url(name), nil
	}

	tmp, err := os.CreateTemp(storage.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("upload: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("upload: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("upload: close %s: %w", name, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return "", fmt.Errorf("upload: chmod %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("upload: rename %s: %w", name, err)
	}

	return storage.url(name), nil
}

// Delete removes name. A missing file is not an error.
func (storage *LocalStorage) Delete(ctx context.Context, name string) error {
	path, err := storage.path(name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("upload: delete %s: %w", name, err)
	}
	return nil
}

func (storage *LocalStorage) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("upload: invalid object name %q", name)
	}
	return filepath.Join(storage.dir, name), nil
}

func (storage *LocalStorage) url(name string) string {
	return storage.baseURL + "/uploads/" + name
}
