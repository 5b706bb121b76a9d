// Leafbase - Vegan Product Catalog and Scoring API
// Copyright 2026 M. Verdier (mverdier)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mverdier/leafbase

package files

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mverdier/leafbase/internal/config"
)

func newTestStore(t *testing.T, maxSize int64) *Store {
	t.Helper()

	store, err := NewStore(&config.UploadsConfig{Dir: t.TempDir(), MaxSize: maxSize})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

// uploadFixture builds a parsed multipart file part the way net/http
// hands it to handlers via FormFile.
func uploadFixture(t *testing.T, filename, contentType string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	partHeader := make(textproto.MIMEHeader)
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	partHeader.Set("Content-Type", contentType)
	part, err := writer.CreatePart(partHeader)
	if err != nil {
		t.Fatalf("CreatePart() error = %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("part.Write() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("writer.Close() error = %v", err)
	}

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("ReadForm() error = %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })

	header := form.File["file"][0]
	file, err := header.Open()
	if err != nil {
		t.Fatalf("header.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = file.Close() })

	return file, header
}

func TestSaveBrandLogo(t *testing.T) {
	store := newTestStore(t, 0)
	file, header := uploadFixture(t, "verdura.png", "image/png", []byte("png-bytes"))

	relPath, err := store.SaveBrandLogo(7, file, header)
	if err != nil {
		t.Fatalf("SaveBrandLogo() error = %v", err)
	}

	if !strings.HasPrefix(relPath, "uploads/brands/brand_7_") {
		t.Errorf("relPath = %q, want uploads/brands/brand_7_ prefix", relPath)
	}
	if !strings.HasSuffix(relPath, ".png") {
		t.Errorf("relPath = %q, want .png suffix", relPath)
	}

	full := filepath.Join(store.Root(), "brands", filepath.Base(relPath))
	data, err := os.ReadFile(full)
	if err != nil {
		t.Fatalf("stored file not readable: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("stored content = %q, want %q", data, "png-bytes")
	}
}

func TestSaveBrandLogoReplacesPrevious(t *testing.T) {
	store := newTestStore(t, 0)

	file1, header1 := uploadFixture(t, "old.jpg", "image/jpeg", []byte("old"))
	first, err := store.SaveBrandLogo(7, file1, header1)
	if err != nil {
		t.Fatalf("first SaveBrandLogo() error = %v", err)
	}

	file2, header2 := uploadFixture(t, "new.webp", "image/webp", []byte("new"))
	second, err := store.SaveBrandLogo(7, file2, header2)
	if err != nil {
		t.Fatalf("second SaveBrandLogo() error = %v", err)
	}
	if first == second {
		t.Fatal("expected a fresh filename per upload")
	}

	matches, err := filepath.Glob(filepath.Join(store.Root(), "brands", "brand_7_*"))
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("stored files = %d, want 1 (previous logo removed)", len(matches))
	}
	if len(matches) == 1 && filepath.Base(matches[0]) != filepath.Base(second) {
		t.Errorf("surviving file = %q, want %q", filepath.Base(matches[0]), filepath.Base(second))
	}

	// Another brand's logo is untouched by the replacement.
	file3, header3 := uploadFixture(t, "other.png", "image/png", []byte("other"))
	if _, err := store.SaveBrandLogo(8, file3, header3); err != nil {
		t.Fatalf("SaveBrandLogo(8) error = %v", err)
	}
	file4, header4 := uploadFixture(t, "again.png", "image/png", []byte("again"))
	if _, err := store.SaveBrandLogo(7, file4, header4); err != nil {
		t.Fatalf("SaveBrandLogo(7) error = %v", err)
	}
	otherMatches, _ := filepath.Glob(filepath.Join(store.Root(), "brands", "brand_8_*"))
	if len(otherMatches) != 1 {
		t.Errorf("brand 8 files = %d, want 1", len(otherMatches))
	}
}

func TestSavePartnerLogo(t *testing.T) {
	store := newTestStore(t, 0)
	file, header := uploadFixture(t, "grocer.jpeg", "image/jpeg", []byte("jpeg-bytes"))

	relPath, err := store.SavePartnerLogo(3, file, header)
	if err != nil {
		t.Fatalf("SavePartnerLogo() error = %v", err)
	}
	if !strings.HasPrefix(relPath, "uploads/partners/partner_3_") {
		t.Errorf("relPath = %q, want uploads/partners/partner_3_ prefix", relPath)
	}
	if !strings.HasSuffix(relPath, ".jpeg") {
		t.Errorf("relPath = %q, want .jpeg suffix", relPath)
	}
}

func TestSaveRejectsUnsupportedFormat(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
	}{
		{"pdf", "report.pdf", "application/pdf"},
		{"gif extension", "anim.gif", "image/png"},
		{"svg content type", "logo.png", "image/svg+xml"},
		{"no extension", "logo", "image/png"},
	}

	store := newTestStore(t, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, header := uploadFixture(t, tt.filename, tt.contentType, []byte("data"))
			if _, err := store.SaveBrandLogo(1, file, header); !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("SaveBrandLogo() error = %v, want ErrUnsupportedFormat", err)
			}
		})
	}
}

func TestSaveRejectsTooLarge(t *testing.T) {
	store := newTestStore(t, 10)
	file, header := uploadFixture(t, "big.png", "image/png", bytes.Repeat([]byte("x"), 11))

	if _, err := store.SaveBrandLogo(1, file, header); !errors.Is(err, ErrTooLarge) {
		t.Errorf("SaveBrandLogo() error = %v, want ErrTooLarge", err)
	}
}

func TestSaveUppercaseExtension(t *testing.T) {
	store := newTestStore(t, 0)
	file, header := uploadFixture(t, "LOGO.JPG", "image/jpeg", []byte("jpg"))

	relPath, err := store.SaveBrandLogo(2, file, header)
	if err != nil {
		t.Fatalf("SaveBrandLogo() error = %v", err)
	}
	if !strings.HasSuffix(relPath, ".jpg") {
		t.Errorf("relPath = %q, want lowercased .jpg suffix", relPath)
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t, 0)
	file, header := uploadFixture(t, "verdura.png", "image/png", []byte("png"))
	relPath, err := store.SaveBrandLogo(7, file, header)
	if err != nil {
		t.Fatalf("SaveBrandLogo() error = %v", err)
	}

	if err := store.Delete(relPath); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	full := filepath.Join(store.Root(), "brands", filepath.Base(relPath))
	if _, err := os.Stat(full); !os.IsNotExist(err) {
		t.Errorf("file still present after Delete: %v", err)
	}

	// Deleting an already removed path is fine.
	if err := store.Delete(relPath); err != nil {
		t.Errorf("Delete() of absent file error = %v", err)
	}
}

func TestDeleteRejectsEscape(t *testing.T) {
	store := newTestStore(t, 0)

	for _, relPath := range []string{
		"uploads/../../../etc/passwd",
		"../secrets.txt",
	} {
		if err := store.Delete(relPath); err == nil {
			t.Errorf("Delete(%q) error = nil, want escape rejection", relPath)
		}
	}
}
