// Package uploads is the storage sink for proof images. It validates the
// file before anything touches disk, so a rejected proof is never persisted.
package uploads

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/loeylei-cell/my-fullstack-system/models"
)

// MaxProofSize caps proof images at 5 MB.
const MaxProofSize = 5 << 20

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

// File is a transport-agnostic upload: handlers adapt multipart form files
// into this shape before the core ever sees them.
type File struct {
	Name   string
	Size   int64
	Reader io.Reader
}

// Storage writes proof files under Root and hands back the public URL path
// they are served from.
type Storage struct {
	Root string
}

func NewStorage(root string) *Storage {
	return &Storage{Root: root}
}

// Validate checks the proof constraints: non-empty, allowed extension,
// within the size cap.
func Validate(f File) error {
	if f.Name == "" || f.Size == 0 {
		return &models.ValidationError{Reason: "proof image is required"}
	}
	if !allowedExtensions[extension(f.Name)] {
		return &models.ValidationError{Reason: "invalid file type. Allowed: PNG, JPG, JPEG, GIF, WebP"}
	}
	if f.Size > MaxProofSize {
		return &models.ValidationError{Reason: "file size too large. Maximum 5MB allowed"}
	}
	return nil
}

// SavePaymentProof validates and stores a payment proof for an order.
func (s *Storage) SavePaymentProof(orderID string, f File) (string, error) {
	return s.save("payment_proofs", "payment_proof", orderID, f)
}

// SaveReceiptProof validates and stores a delivery receipt proof for an order.
func (s *Storage) SaveReceiptProof(orderID string, f File) (string, error) {
	return s.save("receipts", "receipt_proof", orderID, f)
}

func (s *Storage) save(subdir, prefix, orderID string, f File) (string, error) {
	if err := Validate(f); err != nil {
		return "", err
	}

	dir := filepath.Join(s.Root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create upload folder")
	}

	filename := fmt.Sprintf("%s_%s_%s.%s",
		prefix, orderID, time.Now().Format("20060102_150405"), extension(f.Name))
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", errors.Wrap(err, "create proof file")
	}
	defer dst.Close()

	// Size was validated from the declared header; the copy itself is still
	// capped so a lying client cannot fill the disk.
	if _, err := io.Copy(dst, io.LimitReader(f.Reader, MaxProofSize+1)); err != nil {
		return "", errors.Wrap(err, "write proof file")
	}

	return path.Join("/uploads", subdir, filename), nil
}

// Remove deletes a previously saved proof by its public path. Used to undo
// the file write when the stock commit it belonged to fails.
func (s *Storage) Remove(publicPath string) error {
	rel := strings.TrimPrefix(publicPath, "/uploads/")
	if rel == publicPath || strings.Contains(rel, "..") {
		return errors.Errorf("not an upload path: %s", publicPath)
	}
	return os.Remove(filepath.Join(s.Root, filepath.FromSlash(rel)))
}

func extension(name string) string {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	return strings.ToLower(ext)
}
