package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/filtergen/codec"
)

const (
	// FilePrefix is the prefix of every manifest blob name.
	FilePrefix = "MANIFEST"
	// CurrentFileName names the pointer to the latest manifest of a corpus.
	CurrentFileName = "CURRENT"
	// FormatVersion is the manifest schema version written by this package.
	FormatVersion = 1
)

// ErrNoManifest is returned by Latest when a corpus has no committed manifest.
var ErrNoManifest = errors.New("no manifest committed")

// Kind is the type of corpus a manifest describes.
type Kind string

const (
	// KindVectors is a vector data file plus a query file.
	KindVectors Kind = "vectors"
	// KindKeyValues is a key-value dump.
	KindKeyValues Kind = "kv"
)

// Role is the part a file plays in a corpus.
type Role string

const (
	RoleData      Role = "data"
	RoleQueries   Role = "queries"
	RoleKeyValues Role = "kv"
)

// File describes one generated file.
type File struct {
	Name        string `json:"name"`
	Role        Role   `json:"role"`
	Rows        int64  `json:"rows"`
	Bytes       int64  `json:"bytes"`
	CRC32C      uint32 `json:"crc32c"`
	Compression string `json:"compression,omitempty"`
}

// Window records the predicate-window policy of a vector corpus.
// SMin and SMax are set for the analytic policy, which yields the same
// interval for every query.
type Window struct {
	Policy     string   `json:"policy"`
	Proportion float64  `json:"proportion,omitempty"`
	SMin       *float64 `json:"smin,omitempty"`
	SMax       *float64 `json:"smax,omitempty"`
}

// Manifest describes one successfully generated corpus.
type Manifest struct {
	FormatVersion int             `json:"format_version"`
	Version       uint64          `json:"version"`
	RunID         string          `json:"run_id"`
	Corpus        string          `json:"corpus"`
	Kind          Kind            `json:"kind"`
	Seed          int64           `json:"seed"`
	CreatedAt     time.Time       `json:"created_at"`
	Files         []File          `json:"files"`
	Window        *Window         `json:"window,omitempty"`
	Params        json.RawMessage `json:"params,omitempty"`
}

// File returns the file with the given role, if present.
func (m *Manifest) File(role Role) (File, bool) {
	for _, f := range m.Files {
		if f.Role == role {
			return f, true
		}
	}
	return File{}, false
}

// NewRunID returns a fresh random run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// FileName returns the manifest blob name for a version, e.g. MANIFEST-000001.json.
func FileName(version uint64) string {
	return fmt.Sprintf("%s-%06d.json", FilePrefix, version)
}

// Path returns the blob path of a corpus manifest version.
func Path(corpus string, version uint64) string {
	return path.Join(corpus, FileName(version))
}

// CurrentPath returns the blob path of a corpus CURRENT pointer.
func CurrentPath(corpus string) string {
	return path.Join(corpus, CurrentFileName)
}

// Encode serializes m with c, or codec.Default if c is nil.
func Encode(c codec.Codec, m *Manifest) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	data, err := c.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a manifest and checks its format version.
func Decode(c codec.Codec, data []byte) (*Manifest, error) {
	if c == nil {
		c = codec.Default
	}
	var m Manifest
	if err := c.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if m.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("unsupported manifest format version: %d (expected %d)", m.FormatVersion, FormatVersion)
	}
	return &m, nil
}
