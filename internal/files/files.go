// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

// Package files stores uploaded brand and partner logos on disk.
// Stored paths are relative URL paths under /uploads/ so they can be
// embedded in API payloads and served statically.
package files

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mverdier/leafbase/internal/config"
	"github.com/mverdier/leafbase/internal/logging"
)

// Sentinel errors mapped to 400 responses by the API layer.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrTooLarge          = errors.New("file too large")
)

const (
	brandsSubdir   = "brands"
	partnersSubdir = "partners"

	defaultMaxSize = 5 << 20 // 5MB
)

var (
	allowedContentTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
	}
	allowedExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
	}
)

// Store manages uploaded image files under a root directory.
type Store struct {
	root    string
	maxSize int64
}

// NewStore creates the upload directories and returns a Store.
func NewStore(cfg *config.UploadsConfig) (*Store, error) {
	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}

	for _, subdir := range []string{brandsSubdir, partnersSubdir} {
		if err := os.MkdirAll(filepath.Join(cfg.Dir, subdir), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload directory: %w", err)
		}
	}

	return &Store{root: cfg.Dir, maxSize: maxSize}, nil
}

// Root returns the upload root directory, for static file serving.
func (s *Store) Root() string {
	return s.root
}

// SaveBrandLogo validates and stores a brand logo, replacing any
// previous logo of the same brand. It returns the relative URL path.
func (s *Store) SaveBrandLogo(brandID int64, file multipart.File, header *multipart.FileHeader) (string, error) {
	return s.save(brandsSubdir, "brand", brandID, file, header)
}

// SavePartnerLogo stores a partner logo, replacing any previous one.
func (s *Store) SavePartnerLogo(partnerID int64, file multipart.File, header *multipart.FileHeader) (string, error) {
	return s.save(partnersSubdir, "partner", partnerID, file, header)
}

// Delete removes a stored file given its relative URL path, as kept in
// logo_path columns. Absent files are not an error; paths escaping the
// upload root are.
func (s *Store) Delete(relPath string) error {
	trimmed := strings.TrimPrefix(relPath, "uploads/")
	full := filepath.Join(s.root, filepath.FromSlash(trimmed))

	// The stored path is user-visible data; never follow it outside
	// the upload root.
	cleanRoot := filepath.Clean(s.root) + string(filepath.Separator)
	if !strings.HasPrefix(filepath.Clean(full), cleanRoot) {
		return fmt.Errorf("path %q escapes upload root", relPath)
	}

	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	return nil
}

func (s *Store) save(subdir, prefix string, id int64, file multipart.File, header *multipart.FileHeader) (string, error) {
	ext, err := validateImage(header)
	if err != nil {
		return "", err
	}
	if header.Size > s.maxSize {
		return "", ErrTooLarge
	}

	u := uuid.New()
	filename := fmt.Sprintf("%s_%d_%s%s", prefix, id, hex.EncodeToString(u[:]), ext)
	dir := filepath.Join(s.root, subdir)
	full := filepath.Join(dir, filename)

	s.removePrevious(dir, prefix, id)

	dst, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()               //nolint:errcheck
		_ = os.Remove(full)       //nolint:errcheck // Drop the partial file
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(full) //nolint:errcheck
		return "", fmt.Errorf("failed to flush upload file: %w", err)
	}

	return fmt.Sprintf("uploads/%s/%s", subdir, filename), nil
}

// removePrevious drops earlier uploads of the same entity so at most
// one logo per brand or partner stays on disk.
func (s *Store) removePrevious(dir, prefix string, id int64) {
	matches, err := filepath.Glob(filepath.Join(dir, fmt.Sprintf("%s_%d_*", prefix, id)))
	if err != nil {
		return
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil {
			logging.Warn().Err(err).Str("file", match).Msg("Failed to remove previous upload")
		}
	}
}

// validateImage checks the declared content type and the filename
// extension, returning the normalized extension.
func validateImage(header *multipart.FileHeader) (string, error) {
	contentType := header.Header.Get("Content-Type")
	if !allowedContentTypes[contentType] {
		return "", ErrUnsupportedFormat
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedFormat
	}
	return ext, nil
}
