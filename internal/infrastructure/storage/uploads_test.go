package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/ayam04/Contract-Farming/internal/core/domain"
	"github.com/ayam04/Contract-Farming/internal/core/ports"
)

var refPattern = regexp.MustCompile(`^/uploads/image-\d+-\d{9}\.[a-z]+$`)

func newTestUploads(t *testing.T, max int64) *Uploads {
	t.Helper()
	u, err := NewUploads(filepath.Join(t.TempDir(), "uploads"), max)
	if err != nil {
		t.Fatalf("new uploads: %v", err)
	}
	return u
}

func dirEntries(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	return len(entries)
}

func TestUploads_Save_Success(t *testing.T) {
	u := newTestUploads(t, 1024)

	ref, err := u.Save(context.Background(), ports.ImageUpload{
		Filename:    "Wheat.PNG",
		ContentType: "image/png",
		Size:        4,
		Content:     strings.NewReader("\x89PNG"),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !refPattern.MatchString(ref) || !strings.HasSuffix(ref, ".png") {
		t.Fatalf("unexpected reference %q", ref)
	}

	data, err := os.ReadFile(filepath.Join(u.Dir(), filepath.Base(ref)))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "\x89PNG" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestUploads_Save_FallbackExtension(t *testing.T) {
	u := newTestUploads(t, 1024)

	ref, err := u.Save(context.Background(), ports.ImageUpload{
		Filename:    "blob",
		ContentType: "image/jpeg",
		Content:     strings.NewReader("jpg"),
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(ref, ".jpg") {
		t.Fatalf("expected .jpg extension, got %q", ref)
	}
}

func TestUploads_Save_ExtensionFollowsDeclaredType(t *testing.T) {
	u := newTestUploads(t, 1024)

	tests := []struct {
		filename, contentType, wantExt string
	}{
		{"x.html", "image/png", ".png"},
		{"x.svg", "image/gif", ".gif"},
		{"x.png", "image/jpeg", ".jpg"},
		{"photo.JPEG", "image/jpeg", ".jpeg"},
		{"photo.webp", "image/webp", ".webp"},
	}
	for _, tt := range tests {
		ref, err := u.Save(context.Background(), ports.ImageUpload{
			Filename:    tt.filename,
			ContentType: tt.contentType,
			Content:     strings.NewReader("<script>alert(1)</script>"),
		})
		if err != nil {
			t.Fatalf("%s: save: %v", tt.filename, err)
		}
		if got := filepath.Ext(ref); got != tt.wantExt {
			t.Errorf("%s as %s stored with %q, want %q", tt.filename, tt.contentType, got, tt.wantExt)
		}
	}
}

func TestUploads_Save_UnsupportedType(t *testing.T) {
	u := newTestUploads(t, 1024)

	_, err := u.Save(context.Background(), ports.ImageUpload{
		Filename:    "notes.txt",
		ContentType: "text/plain",
		Content:     strings.NewReader("hello"),
	})
	if !errors.Is(err, domain.ErrUnsupportedImage) {
		t.Fatalf("expected ErrUnsupportedImage, got %v", err)
	}
	if n := dirEntries(t, u.Dir()); n != 0 {
		t.Fatalf("expected empty upload dir, found %d files", n)
	}
}

func TestUploads_Save_TooLarge(t *testing.T) {
	u := newTestUploads(t, 8)

	// Declared size over the limit.
	_, err := u.Save(context.Background(), ports.ImageUpload{
		Filename:    "big.png",
		ContentType: "image/png",
		Size:        9,
		Content:     bytes.NewReader(make([]byte, 9)),
	})
	if !errors.Is(err, domain.ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge for declared size, got %v", err)
	}

	// Declared size lies; the body is still capped.
	_, err = u.Save(context.Background(), ports.ImageUpload{
		Filename:    "big.png",
		ContentType: "image/png",
		Size:        1,
		Content:     bytes.NewReader(make([]byte, 64)),
	})
	if !errors.Is(err, domain.ErrImageTooLarge) {
		t.Fatalf("expected ErrImageTooLarge for streamed size, got %v", err)
	}
	if n := dirEntries(t, u.Dir()); n != 0 {
		t.Fatalf("expected empty upload dir, found %d files", n)
	}
}

func TestUploads_Save_ConcurrentNamesDoNotCollide(t *testing.T) {
	u := newTestUploads(t, 1024)

	const n = 30
	var wg sync.WaitGroup
	refs := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref, err := u.Save(context.Background(), ports.ImageUpload{
				Filename:    "a.gif",
				ContentType: "image/gif",
				Content:     strings.NewReader("GIF89a"),
			})
			if err != nil {
				t.Errorf("save: %v", err)
				return
			}
			refs <- ref
		}()
	}
	wg.Wait()
	close(refs)

	seen := map[string]bool{}
	for r := range refs {
		if seen[r] {
			t.Fatalf("duplicate reference %s", r)
		}
		seen[r] = true
	}
	if got := dirEntries(t, u.Dir()); got != n {
		t.Fatalf("expected %d files, got %d", n, got)
	}
}

func TestUploads_Remove(t *testing.T) {
	u := newTestUploads(t, 1024)
	ref, _ := u.Save(context.Background(), ports.ImageUpload{Filename: "a.png", ContentType: "image/png", Content: strings.NewReader("x")})

	if err := u.Remove(context.Background(), ref); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if n := dirEntries(t, u.Dir()); n != 0 {
		t.Fatalf("expected empty dir after remove, found %d", n)
	}
	if err := u.Remove(context.Background(), "/uploads/../../etc/passwd"); err == nil {
		t.Fatal("expected traversal reference to be refused")
	}
}
