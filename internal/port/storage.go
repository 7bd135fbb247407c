package port

import "context"

// ObjectStorage abstracts read access to cloud object storage.
type ObjectStorage interface {
	Download(ctx context.Context, bucket, key string) ([]byte, error)
	// List returns the keys under prefix in lexical order.
	List(ctx context.Context, bucket, prefix string) ([]string, error)
}
