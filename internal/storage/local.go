// Package storage keeps uploaded screenshots on local disk under
// <dir>/<user_id>/<trade_id>/<uuid><ext>.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var allowedContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
}

func AllowedContentType(ct string) bool {
	_, ok := allowedContentTypes[ct]
	return ok
}

type Local struct {
	Dir      string
	MaxBytes int64
}

func NewLocal(dir string, maxBytes int64) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{Dir: dir, MaxBytes: maxBytes}, nil
}

// Save writes the upload to disk and returns the stored path relative
// to Dir. The original filename contributes only its extension.
func (l *Local) Save(userID, tradeID uint64, origName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(origName))
	name := uuid.NewString() + ext
	rel := filepath.Join(
		strconv.FormatUint(userID, 10),
		strconv.FormatUint(tradeID, 10),
		name,
	)

	abs := filepath.Join(l.Dir, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(abs)
	if err != nil {
		return "", err
	}
	defer f.Close()

	src := r
	if l.MaxBytes > 0 {
		src = io.LimitReader(r, l.MaxBytes+1)
	}
	n, err := io.Copy(f, src)
	if err != nil {
		os.Remove(abs)
		return "", err
	}
	if l.MaxBytes > 0 && n > l.MaxBytes {
		os.Remove(abs)
		return "", fmt.Errorf("upload exceeds %d bytes", l.MaxBytes)
	}
	return rel, nil
}

// Abs maps a stored relative path back to its on-disk location.
func (l *Local) Abs(rel string) string {
	return filepath.Join(l.Dir, filepath.Clean("/"+rel))
}

func (l *Local) Exists(rel string) bool {
	info, err := os.Stat(l.Abs(rel))
	return err == nil && info.Mode().IsRegular()
}

// Remove deletes the stored file; a missing file is not an error.
func (l *Local) Remove(rel string) error {
	err := os.Remove(l.Abs(rel))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
