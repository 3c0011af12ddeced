package product

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ImageStore keeps product images on local disk, one file per product
// named <productId><ext>.
type ImageStore struct {
	dir string
}

func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Dir returns the storage directory.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Path builds the on-disk path for a product image with the given
// extension.
func (s *ImageStore) Path(productID int64, ext string) string {
	return filepath.Join(s.dir, strconv.FormatInt(productID, 10)+ext)
}

// ImageInfo describes whether a product has an image and which
// extension it carries.
type ImageInfo struct {
	Exists    bool
	Extension string
}

// Info scans the directory for a file named <productId>.*.
func (s *ImageStore) Info(productID int64) ImageInfo {
	match := s.find(productID)
	if match == "" {
		return ImageInfo{}
	}
	return ImageInfo{
		Exists:    true,
		Extension: filepath.Ext(match),
	}
}

// Delete removes the product's image if present.
func (s *ImageStore) Delete(productID int64) error {
	match := s.find(productID)
	if match == "" {
		return nil
	}
	return os.Remove(filepath.Join(s.dir, match))
}

func (s *ImageStore) find(productID int64) string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return ""
	}

	prefix := strconv.FormatInt(productID, 10) + "."
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			return entry.Name()
		}
	}
	return ""
}
