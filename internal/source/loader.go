// Package source loads claim documents from local disk or object storage.
package source

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"medclaim/internal/domain"
	"medclaim/internal/logger"
	"medclaim/internal/port"
)

const s3Scheme = "s3://"

// Loader resolves document references into claim documents.
//
// A reference is either a local path or s3://bucket/key. A local directory or
// an S3 key ending in "/" expands to every file beneath it, in lexical order.
type Loader struct {
	storage  port.ObjectStorage
	maxBytes int64
	log      logger.Logger
}

// NewLoader creates a Loader. storage may be nil when only local paths are used.
func NewLoader(storage port.ObjectStorage, maxBytes int64, log logger.Logger) *Loader {
	if log == nil {
		log = logger.NewNop()
	}
	return &Loader{storage: storage, maxBytes: maxBytes, log: log.Named("source")}
}

// LoadAll resolves every reference, preserving the order in which they are given.
func (l *Loader) LoadAll(ctx context.Context, refs []string) ([]domain.ClaimDocument, error) {
	var docs []domain.ClaimDocument
	for _, ref := range refs {
		loaded, err := l.Load(ctx, ref)
		if err != nil {
			return nil, err
		}
		docs = append(docs, loaded...)
	}
	return docs, nil
}

// Load resolves one reference.
func (l *Loader) Load(ctx context.Context, ref string) ([]domain.ClaimDocument, error) {
	if strings.HasPrefix(ref, s3Scheme) {
		return l.loadS3(ctx, ref)
	}
	return l.loadLocal(ref)
}

func (l *Loader) loadLocal(ref string) ([]domain.ClaimDocument, error) {
	info, err := os.Stat(ref)
	if err != nil {
		return nil, fmt.Errorf("source.Load %s: %w", ref, err)
	}
	if !info.IsDir() {
		doc, err := l.readFile(ref, info)
		if err != nil {
			return nil, err
		}
		return []domain.ClaimDocument{doc}, nil
	}

	entries, err := os.ReadDir(ref)
	if err != nil {
		return nil, fmt.Errorf("source.Load %s: %w", ref, err)
	}
	var docs []domain.ClaimDocument
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("source.Load %s: %w", e.Name(), err)
		}
		doc, err := l.readFile(filepath.Join(ref, e.Name()), info)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	l.log.Debug("source.local.dir", logger.String("path", ref), logger.Int("documents", len(docs)))
	return docs, nil
}

func (l *Loader) readFile(p string, info os.FileInfo) (domain.ClaimDocument, error) {
	if l.maxBytes > 0 && info.Size() > l.maxBytes {
		return domain.ClaimDocument{}, fmt.Errorf("source.Load %s: %w", p, domain.ErrFileTooLarge)
	}
	content, err := os.ReadFile(p)
	if err != nil {
		return domain.ClaimDocument{}, fmt.Errorf("source.Load %s: %w", p, err)
	}
	return domain.ClaimDocument{Filename: filepath.Base(p), Content: content}, nil
}

func (l *Loader) loadS3(ctx context.Context, ref string) ([]domain.ClaimDocument, error) {
	if l.storage == nil {
		return nil, fmt.Errorf("source.Load %s: %w", ref, domain.ErrStorageUnavailable)
	}
	bucket, key, err := ParseS3Ref(ref)
	if err != nil {
		return nil, err
	}

	keys := []string{key}
	if key == "" || strings.HasSuffix(key, "/") {
		keys, err = l.storage.List(ctx, bucket, key)
		if err != nil {
			return nil, fmt.Errorf("source.Load %s: %w", ref, err)
		}
		sort.Strings(keys)
	}

	docs := make([]domain.ClaimDocument, 0, len(keys))
	for _, k := range keys {
		content, err := l.storage.Download(ctx, bucket, k)
		if err != nil {
			return nil, fmt.Errorf("source.Load s3://%s/%s: %w", bucket, k, err)
		}
		if l.maxBytes > 0 && int64(len(content)) > l.maxBytes {
			return nil, fmt.Errorf("source.Load s3://%s/%s: %w", bucket, k, domain.ErrFileTooLarge)
		}
		docs = append(docs, domain.ClaimDocument{Filename: path.Base(k), Content: content})
	}
	l.log.Debug("source.s3", logger.String("ref", ref), logger.Int("documents", len(docs)))
	return docs, nil
}

// ParseS3Ref splits s3://bucket/key into its bucket and key.
func ParseS3Ref(ref string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(ref, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("%w: %q is not an s3 reference", domain.ErrInvalidDocumentRef, ref)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("%w: %q has no bucket", domain.ErrInvalidDocumentRef, ref)
	}
	return bucket, key, nil
}
