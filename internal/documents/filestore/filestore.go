// Package filestore keeps uploaded files on local disk under
// <root>/<caseID>/<documentID>_<filename>.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	id "kycflow/pkg/domain"
	"kycflow/pkg/platform/sentinel"
)

// ErrTooLarge is returned by Save when the stream exceeds the limit. Nothing
// is left on disk.
var ErrTooLarge = errors.New("file exceeds size limit")

type LocalStore struct {
	root string
}

// New creates root if needed.
func New(root string) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{root: abs}, nil
}

func (s *LocalStore) Root() string { return s.root }

// Save streams r into a new file and returns its path and size. name must
// already be sanitized; the file is created exclusively.
func (s *LocalStore) Save(ctx context.Context, caseID id.CaseID, docID id.DocumentID, name string, r io.Reader, limit int64) (string, int64, error) {
	dir := filepath.Join(s.root, caseID.String())
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", 0, fmt.Errorf("create case dir: %w", err)
	}
	path := filepath.Join(dir, docID.String()+"_"+name)
	if !s.contains(path) {
		return "", 0, fmt.Errorf("path %q escapes upload dir: %w", path, sentinel.ErrInvalidState)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", 0, fmt.Errorf("create %s: %w", path, err)
	}
	n, copyErr := io.Copy(f, io.LimitReader(contextReader{ctx: ctx, r: r}, limit+1))
	closeErr := f.Close()
	switch {
	case copyErr != nil:
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("write %s: %w", path, copyErr)
	case closeErr != nil:
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("close %s: %w", path, closeErr)
	case n > limit:
		_ = os.Remove(path)
		return "", 0, ErrTooLarge
	}
	return path, n, nil
}

// Open returns the stored file. Missing files map to sentinel.ErrNotFound.
func (s *LocalStore) Open(path string) (*os.File, error) {
	if !s.contains(path) {
		return nil, fmt.Errorf("path %q outside upload dir: %w", path, sentinel.ErrNotFound)
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("open %s: %w", path, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// Remove deletes the file; an already missing file is not an error.
func (s *LocalStore) Remove(path string) error {
	if path == "" || !s.contains(path) {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

func (s *LocalStore) contains(path string) bool {
	rel, err := filepath.Rel(s.root, filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// contextReader stops a copy once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
