package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/zulfalsa/danusan-x/internal/domain/errors"
	"github.com/zulfalsa/danusan-x/internal/domain/repository"
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Local keeps blobs as files in one directory and references them by the
// public URL path they are served under.
type Local struct {
	dir        string
	publicPath string
}

var _ repository.BlobStore = (*Local)(nil)

// NewLocal prepares dir and returns a store whose references start with
// publicPath.
func NewLocal(dir, publicPath string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir: %w", err)
	}
	return &Local{dir: dir, publicPath: "/" + strings.Trim(publicPath, "/")}, nil
}

// Dir returns the directory blobs are written to.
func (l *Local) Dir() string { return l.dir }

// PublicPath returns the URL prefix of every reference.
func (l *Local) PublicPath() string { return l.publicPath }

func (l *Local) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext, ok := extensions[contentType]
	if !ok {
		ext = ".bin"
	}
	name := uuid.NewString() + ext

	tmp, err := os.CreateTemp(l.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainErrors.ErrStorageUnavailable, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: %v", domainErrors.ErrStorageUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", domainErrors.ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(l.dir, name)); err != nil {
		return "", fmt.Errorf("%w: %v", domainErrors.ErrStorageUnavailable, err)
	}

	return path.Join(l.publicPath, name), nil
}

// Delete removes the blob behind ref. Unknown references are ignored.
func (l *Local) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, ok := l.nameOf(ref)
	if !ok {
		return nil
	}
	if err := os.Remove(filepath.Join(l.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", domainErrors.ErrStorageUnavailable, err)
	}
	return nil
}

func (l *Local) nameOf(ref string) (string, bool) {
	rest, ok := strings.CutPrefix(ref, l.publicPath+"/")
	if !ok || rest == "" || strings.ContainsAny(rest, `/\`) || strings.HasPrefix(rest, ".") {
		return "", false
	}
	return rest, true
}
