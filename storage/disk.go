// Package storage is a bucket-on-disk object store. Objects live under
// <root>/<bucket>/<object key> and are served by the router at
// /uploads/<bucket>/<object key>.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	BucketReferencePhotos = "reference-photos"
	BucketGalleryImages   = "gallery-images"
)

type UploadResult struct {
	Path      string `json:"path"`
	PublicURL string `json:"public_url"`
}

type DiskStore struct {
	Root    string
	BaseURL string
}

func NewDiskStore(root, baseURL string) *DiskStore {
	return &DiskStore{Root: root, BaseURL: strings.TrimSuffix(baseURL, "/")}
}

// Upload stores the file under a generated object key,
// <upload-millis>-<sanitized filename>. Two uploads of the same filename in
// the same millisecond would collide; millisecond timestamps plus original
// filename entropy make that acceptable here.
func (d *DiskStore) Upload(bucket, filename string, r io.Reader) (*UploadResult, error) {
	key := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), SanitizeFilename(filename))
	return d.UploadAt(bucket, key, r)
}

// UploadAt stores the file under an explicit object key.
func (d *DiskStore) UploadAt(bucket, objectPath string, r io.Reader) (*UploadResult, error) {
	if err := validateKey(bucket); err != nil {
		return nil, err
	}
	if err := validateKey(objectPath); err != nil {
		return nil, err
	}

	dir := filepath.Join(d.Root, bucket)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	f, err := os.Create(filepath.Join(dir, objectPath))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return nil, err
	}

	return &UploadResult{
		Path:      objectPath,
		PublicURL: d.PublicURL(bucket, objectPath),
	}, nil
}

// Delete removes an object. Deleting an absent object is not an error.
func (d *DiskStore) Delete(bucket, objectPath string) error {
	if err := validateKey(bucket); err != nil {
		return err
	}
	if err := validateKey(objectPath); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(d.Root, bucket, objectPath))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (d *DiskStore) PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("%s/uploads/%s/%s", d.BaseURL, bucket, objectPath)
}

// SanitizeFilename keeps only letters, digits and dots so the object key is
// URL-safe.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validateKey(key string) error {
	if key == "" {
		return errors.New("storage: empty key")
	}
	if strings.Contains(key, "..") || strings.ContainsAny(key, "/\\") {
		return errors.New("storage: invalid key")
	}
	return nil
}
