// Copyright 2025 Antfly, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package sessions stores verified images under opaque identifiers.
//
// An upload lives as a temp file for the duration of one verification. It is
// either promoted, by an atomic rename to <uuid><ext>, or discarded. Nothing
// else is persisted.
package sessions

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when no verified image exists for an id.
	ErrNotFound = errors.New("image not found")

	// ErrUnsupportedImage is returned when an upload's type is not one of
	// the stored extensions.
	ErrUnsupportedImage = errors.New("unsupported image type")

	// ErrUploadClosed is returned when promoting an upload that was already
	// promoted or discarded.
	ErrUploadClosed = errors.New("upload already promoted or discarded")
)

// Extensions are the file extensions Lookup checks, in order.
var Extensions = []string{".png", ".jpg", ".jpeg", ".webp"}

const tempPrefix = "temp_"

// Store is a directory of verified images.
type Store struct {
	dir    string
	logger *zap.Logger
}

// NewStore opens (and creates) dir.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir == "" {
		return nil, errors.New("sessions: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating verified image directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// Upload is a pending, unverified image. It is owned by one request.
type Upload struct {
	path string
	ext  string

	mu   sync.Mutex
	done bool
}

// Path is where the pending image sits while it is verified.
func (u *Upload) Path() string {
	return u.path
}

// Ext is the extension the image will keep once promoted.
func (u *Upload) Ext() string {
	return u.ext
}

// Create writes r to a fresh temp file. The name derives from a new random
// identifier, never from anything the client sent.
func (s *Store) Create(r io.Reader, ext string) (*Upload, error) {
	ext = strings.ToLower(ext)
	if !slices.Contains(Extensions, ext) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedImage, ext)
	}
	path := filepath.Join(s.dir, tempPrefix+uuid.NewString()+ext)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("writing upload: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("writing upload: %w", err)
	}
	s.logger.Debug("Upload created", zap.String("path", path))
	return &Upload{path: path, ext: ext}, nil
}

// Promote renames the upload to <id><ext> and returns the new id.
func (s *Store) Promote(u *Upload) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.done {
		return "", ErrUploadClosed
	}
	id := uuid.NewString()
	if err := os.Rename(u.path, s.pathFor(id, u.ext)); err != nil {
		return "", fmt.Errorf("promoting upload: %w", err)
	}
	u.done = true
	s.logger.Info("Image verified", zap.String("image_id", id))
	return id, nil
}

// Discard removes a pending upload. It is a no-op once the upload has been
// promoted or discarded, so it is safe to defer.
func (s *Store) Discard(u *Upload) {
	if u == nil {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.done {
		return
	}
	u.done = true
	if err := os.Remove(u.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("Failed to remove upload", zap.String("path", u.path), zap.Error(err))
	}
}

// Lookup resolves id to the verified image by trying each of Extensions.
func (s *Store) Lookup(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	// Files are written with the canonical form.
	canonical := parsed.String()
	for _, ext := range Extensions {
		p := s.pathFor(canonical, ext)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNotFound, id)
}

func (s *Store) pathFor(id, ext string) string {
	return filepath.Join(s.dir, id+ext)
}

// ResolveExtension picks the stored extension for an upload: the filename's
// extension when it is one of Extensions, otherwise one sniffed from the
// leading bytes.
func ResolveExtension(filename string, head []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if slices.Contains(Extensions, ext) {
		return ext, nil
	}
	switch http.DetectContentType(head) {
	case "image/png":
		return ".png", nil
	case "image/jpeg":
		return ".jpg", nil
	case "image/webp":
		return ".webp", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedImage, filename)
}
