package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"kycgate/internal/imagehash"
)

// DiskStore writes images under a root directory, content-addressed by
// SHA-256 so identical uploads share a file. References are file:// URLs.
type DiskStore struct {
	root string
}

// NewDiskStore ensures the root directory exists.
func NewDiskStore(root string) (*DiskStore, error) {
	if root == "" {
		return nil, fmt.Errorf("image store root is required")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create image store root: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Save(_ context.Context, slot Slot, dataURI string) (string, error) {
	raw, err := imagehash.DecodeDataURI(dataURI)
	if err != nil {
		return "", fmt.Errorf("decode image payload: %w", err)
	}

	sum := sha256.Sum256(raw)
	dir := filepath.Join(s.root, string(slot))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create slot dir: %w", err)
	}

	path := filepath.Join(dir, hex.EncodeToString(sum[:]))
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, raw, 0o640); err != nil {
			return "", fmt.Errorf("write image: %w", err)
		}
	}
	return "file://" + path, nil
}
