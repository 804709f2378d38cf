// Package storage keeps uploaded crop images on the local filesystem.
package storage

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/ayam04/Contract-Farming/internal/core/domain"
	"github.com/ayam04/Contract-Farming/internal/core/ports"
)

const (
	// PublicPrefix is the URL path under which stored images are served.
	PublicPrefix = "/uploads"

	DefaultMaxBytes = 5 << 20
)

// allowedTypes maps accepted declared content types to the file extensions
// they may be stored under. The first entry is used when the client filename
// carries none of them.
var allowedTypes = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/gif":  {".gif"},
	"image/webp": {".webp"},
}

// Uploads writes images into a single directory.
type Uploads struct {
	dir      string
	maxBytes int64
	now      func() time.Time
}

// NewUploads creates dir if needed. maxBytes <= 0 selects DefaultMaxBytes.
func NewUploads(dir string, maxBytes int64) (*Uploads, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create upload dir: %v", domain.ErrStorage, err)
	}
	return &Uploads{dir: dir, maxBytes: maxBytes, now: time.Now}, nil
}

// Dir returns the directory served under PublicPrefix.
func (u *Uploads) Dir() string {
	return u.dir
}

// Save validates the declared type and size, then streams the content to a
// freshly named file. It returns the public path of the stored image.
func (u *Uploads) Save(ctx context.Context, up ports.ImageUpload) (string, error) {
	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(up.ContentType, ";", 2)[0]))
	exts, ok := allowedTypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedImage, up.ContentType)
	}
	if up.Size > u.maxBytes {
		return "", fmt.Errorf("%w: %d bytes exceeds limit of %d", domain.ErrImageTooLarge, up.Size, u.maxBytes)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name, err := u.newName(extensionFor(up.Filename, exts))
	if err != nil {
		return "", err
	}
	full := filepath.Join(u.dir, name)

	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("%w: create image: %v", domain.ErrStorage, err)
	}

	// Read one byte past the limit to detect a body larger than declared.
	written, copyErr := io.Copy(f, io.LimitReader(up.Content, u.maxBytes+1))
	closeErr := f.Close()
	switch {
	case copyErr != nil:
		_ = os.Remove(full)
		return "", fmt.Errorf("%w: write image: %v", domain.ErrStorage, copyErr)
	case written > u.maxBytes:
		_ = os.Remove(full)
		return "", fmt.Errorf("%w: exceeds limit of %d bytes", domain.ErrImageTooLarge, u.maxBytes)
	case closeErr != nil:
		_ = os.Remove(full)
		return "", fmt.Errorf("%w: close image: %v", domain.ErrStorage, closeErr)
	}

	return path.Join(PublicPrefix, name), nil
}

// extensionFor keeps the client's extension only when it matches the declared
// type, so a file served back from PublicPrefix is never sniffed as markup.
func extensionFor(filename string, exts []string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range exts {
		if ext == allowed {
			return ext
		}
	}
	return exts[0]
}

// Remove deletes an image previously returned by Save.
func (u *Uploads) Remove(_ context.Context, ref string) error {
	name := strings.TrimPrefix(ref, PublicPrefix+"/")
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("remove image: invalid reference %q", ref)
	}
	err := os.Remove(filepath.Join(u.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

// newName returns image-<unix ms>-<9 random digits><ext>.
func (u *Uploads) newName(ext string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000_000))
	if err != nil {
		return "", fmt.Errorf("%w: random suffix: %v", domain.ErrStorage, err)
	}
	return fmt.Sprintf("image-%d-%09d%s", u.now().UnixMilli(), n.Int64(), ext), nil
}
