package repository

import "context"

// BlobStore keeps uploaded images and hands back an opaque reference.
type BlobStore interface {
	Put(ctx context.Context, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, ref string) error
}
