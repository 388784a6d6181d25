package blob

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zulfalsa/danusan-x/internal/config"
	domainErrors "github.com/zulfalsa/danusan-x/internal/domain/errors"
)

func TestLocalPutAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir, "files/")
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	ctx := context.Background()

	ref, err := store.Put(ctx, []byte("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if !strings.HasPrefix(ref, "/files/") || !strings.HasSuffix(ref, ".png") {
		t.Fatalf("unexpected ref %q", ref)
	}

	stored := filepath.Join(dir, strings.TrimPrefix(ref, "/files/"))
	data, err := os.ReadFile(stored)
	if err != nil || string(data) != "png-bytes" {
		t.Fatalf("unexpected stored data %q err=%v", data, err)
	}

	other, _ := store.Put(ctx, []byte("x"), "application/octet-stream")
	if other == ref || !strings.HasSuffix(other, ".bin") {
		t.Fatalf("unexpected second ref %q", other)
	}

	if err := store.Delete(ctx, ref); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(stored); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected file removed, stat err=%v", err)
	}
	if err := store.Delete(ctx, ref); err != nil {
		t.Fatalf("second delete must be a no-op, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".upload-") {
			t.Fatalf("temporary file left behind: %s", e.Name())
		}
	}
}

func TestLocalDeleteIgnoresForeignReferences(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewLocal(dir, "/files")
	outside := filepath.Join(dir, "keep.txt")
	if err := os.WriteFile(outside, []byte("keep"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	for _, ref := range []string{"", "/other/keep.txt", "/files/../keep.txt", "/files/", "https://cdn/x.png"} {
		if err := store.Delete(context.Background(), ref); err != nil {
			t.Fatalf("delete %q: %v", ref, err)
		}
	}
	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("expected unrelated file kept: %v", err)
	}
}

func TestLocalPutFailsWhenDirectoryIsGone(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "blobs")
	store, err := NewLocal(dir, "/files")
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if _, err := store.Put(context.Background(), []byte("x"), "image/png"); !errors.Is(err, domainErrors.ErrStorageUnavailable) {
		t.Fatalf("expected storage unavailable, got %v", err)
	}
}

func TestLocalHonoursCancelledContext(t *testing.T) {
	store, _ := NewLocal(t.TempDir(), "/files")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.Put(ctx, []byte("x"), "image/png"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestNewLocalFromConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	store, err := newLocal(&config.Config{BlobDir: dir, BlobPublicPath: "/static"})
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	if store.Dir() != dir || store.PublicPath() != "/static" {
		t.Fatalf("unexpected store settings %q %q", store.Dir(), store.PublicPath())
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("expected directory created, err=%v", err)
	}
}
