package ports

import (
	"context"
	"io"
)

// ImageUpload is a single file received with a crop listing.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// ImageStore persists uploaded images and hands back a public reference path.
type ImageStore interface {
	Save(ctx context.Context, upload ImageUpload) (string, error)
	Remove(ctx context.Context, ref string) error
}
