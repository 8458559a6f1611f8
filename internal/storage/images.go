// Package storage persists uploaded media on the local filesystem. The only
// blob type today is recipe images: payloads are validated as decodable
// images, renamed to a UUID (keeping the original extension), and written
// under <root>/uploads/recipe/. The returned paths are relative to the media
// root so the serving layer and database stay independent of the host layout.
package storage

import (
	"bytes"
	"errors"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
)

// ErrNotAnImage is returned when an uploaded payload cannot be decoded by
// any registered image format.
var ErrNotAnImage = errors.New("payload is not a decodable image")

// recipeImageDir is the media-root-relative directory for recipe images.
const recipeImageDir = "uploads/recipe"

// maxImageBytes caps uploads at 5 MiB.
const maxImageBytes = 5 << 20

// ImageStore writes validated images beneath a media root directory.
type ImageStore struct {
	// Root is the media root. Created on demand.
	Root string
}

// NewImageStore constructs an ImageStore rooted at dir.
func NewImageStore(dir string) *ImageStore {
	return &ImageStore{Root: dir}
}

// Save validates that r contains a decodable image and stores it under
// uploads/recipe/<uuid><ext>, returning the media-root-relative path.
// The original filename contributes only its extension.
func (s *ImageStore) Save(filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxImageBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) == 0 || len(data) > maxImageBytes {
		return "", ErrNotAnImage
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", ErrNotAnImage
	}

	ext := strings.ToLower(filepath.Ext(filename))
	rel := filepath.Join(recipeImageDir, uuid.NewString()+ext)
	abs := filepath.Join(s.Root, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// Remove deletes a previously stored image by its relative path. A missing
// file is not an error. Paths escaping the media root are rejected.
func (s *ImageStore) Remove(rel string) error {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return errors.New("invalid image path")
	}
	err := os.Remove(filepath.Join(s.Root, clean))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
