package storage

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My Photo #1.png", "MyPhoto1.png"},
		{"plain.jpg", "plain.jpg"},
		{"../../etc/passwd", "....etcpasswd"},
		{"snake idea (final) v2.webp", "snakeideafinalv2.webp"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in))
	}
}

func TestUploadDefaultKey(t *testing.T) {
	store := NewDiskStore(t.TempDir(), "http://localhost:8080")

	result, err := store.Upload(BucketReferencePhotos, "My Photo #1.png", strings.NewReader("fake image bytes"))
	assert.NoError(t, err)

	// <millis>-<sanitized name>
	assert.Regexp(t, regexp.MustCompile(`^\d+-MyPhoto1\.png$`), result.Path)
	assert.Equal(t, "http://localhost:8080/uploads/reference-photos/"+result.Path, result.PublicURL)

	data, err := os.ReadFile(filepath.Join(store.Root, BucketReferencePhotos, result.Path))
	assert.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))
}

func TestUploadAtRejectsTraversal(t *testing.T) {
	store := NewDiskStore(t.TempDir(), "http://localhost:8080")

	_, err := store.UploadAt(BucketGalleryImages, "../escape.png", strings.NewReader("x"))
	assert.Error(t, err)

	_, err = store.UploadAt("..", "a.png", strings.NewReader("x"))
	assert.Error(t, err)

	_, err = store.UploadAt(BucketGalleryImages, "", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := NewDiskStore(t.TempDir(), "http://localhost:8080")

	result, err := store.Upload(BucketGalleryImages, "rose.jpg", strings.NewReader("img"))
	assert.NoError(t, err)

	assert.NoError(t, store.Delete(BucketGalleryImages, result.Path))
	// Deleting again (or deleting something that never existed) is fine.
	assert.NoError(t, store.Delete(BucketGalleryImages, result.Path))
	assert.NoError(t, store.Delete(BucketGalleryImages, "never-there.jpg"))
}

func TestBaseURLTrailingSlash(t *testing.T) {
	store := NewDiskStore(t.TempDir(), "https://inkhaus.example/")
	assert.Equal(t, "https://inkhaus.example/uploads/gallery-images/a.png",
		store.PublicURL(BucketGalleryImages, "a.png"))
}
