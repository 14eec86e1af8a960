package manifest

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/hupe1980/filtergen/blobstore"
	"github.com/hupe1980/filtergen/codec"
)

// Committer publishes manifests of finished corpora.
type Committer interface {
	// Commit assigns the next version of m.Corpus to m and publishes it.
	Commit(ctx context.Context, m *Manifest) (uint64, error)
	// Latest returns the newest committed manifest of a corpus, or
	// ErrNoManifest.
	Latest(ctx context.Context, corpus string) (*Manifest, error)
}

// BlobCommitter stores manifests next to the corpus files in a blob store:
// <corpus>/MANIFEST-<version>.json plus a <corpus>/CURRENT pointer holding
// the latest manifest file name.
//
// Commits are serialized per committer. Concurrent committers on the same
// store and corpus are not coordinated; use a DynamoDB committer for that.
type BlobCommitter struct {
	store blobstore.Store
	codec codec.Codec
	mu    sync.Mutex
}

// NewBlobCommitter creates a committer writing to store. A nil codec selects
// codec.Default.
func NewBlobCommitter(store blobstore.Store, c codec.Codec) *BlobCommitter {
	if c == nil {
		c = codec.Default
	}
	return &BlobCommitter{store: store, codec: c}
}

// Commit implements Committer.
func (bc *BlobCommitter) Commit(ctx context.Context, m *Manifest) (uint64, error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	prev, err := bc.currentVersion(ctx, m.Corpus)
	if err != nil {
		return 0, err
	}

	m.FormatVersion = FormatVersion
	m.Version = prev + 1

	data, err := Encode(bc.codec, m)
	if err != nil {
		return 0, err
	}

	// 1. Write the manifest itself
	if err := bc.store.Put(ctx, Path(m.Corpus, m.Version), data); err != nil {
		return 0, fmt.Errorf("write manifest: %w", err)
	}

	// 2. Point CURRENT at it
	if err := bc.store.Put(ctx, CurrentPath(m.Corpus), []byte(FileName(m.Version))); err != nil {
		return 0, fmt.Errorf("write %s: %w", CurrentFileName, err)
	}

	return m.Version, nil
}

// Latest implements Committer.
func (bc *BlobCommitter) Latest(ctx context.Context, corpus string) (*Manifest, error) {
	name, err := bc.current(ctx, corpus)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrNoManifest
	}

	data, err := blobstore.ReadAll(ctx, bc.store, corpus+"/"+name)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Decode(bc.codec, data)
}

func (bc *BlobCommitter) current(ctx context.Context, corpus string) (string, error) {
	data, err := blobstore.ReadAll(ctx, bc.store, CurrentPath(corpus))
	if errors.Is(err, blobstore.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", CurrentFileName, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (bc *BlobCommitter) currentVersion(ctx context.Context, corpus string) (uint64, error) {
	name, err := bc.current(ctx, corpus)
	if err != nil || name == "" {
		return 0, err
	}
	return ParseVersion(name)
}

// ParseVersion extracts the version from a manifest file name.
func ParseVersion(name string) (uint64, error) {
	s := strings.TrimPrefix(name, FilePrefix+"-")
	s = strings.TrimSuffix(s, ".json")
	if i := strings.IndexByte(s, '-'); i >= 0 {
		s = s[:i]
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || s == name {
		return 0, fmt.Errorf("invalid manifest file name %q", name)
	}
	return v, nil
}
