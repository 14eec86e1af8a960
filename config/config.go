package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hupe1980/filtergen"
	"github.com/hupe1980/filtergen/codec"
	"github.com/hupe1980/filtergen/dataset"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned for suite files that cannot be decoded.
var ErrInvalidConfig = errors.New("invalid config")

// Settings are the generator options a suite file may carry. Command-line
// flags take precedence over them.
type Settings struct {
	Out         string `yaml:"out,omitempty"`
	Compression string `yaml:"compression,omitempty"`
	Codec       string `yaml:"codec,omitempty"`
	Precision   *int   `yaml:"precision,omitempty"`
	Parallelism int    `yaml:"parallelism,omitempty"`
	IOLimit     int64  `yaml:"io_limit,omitempty"`
}

// Options converts s to generator options.
func (s Settings) Options() ([]filtergen.Option, error) {
	var opts []filtergen.Option
	if s.Compression != "" {
		k, err := filtergen.ParseCompression(s.Compression)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		opts = append(opts, filtergen.WithCompression(k))
	}
	if s.Codec != "" {
		c, ok := codec.ByName(s.Codec)
		if !ok {
			return nil, fmt.Errorf("%w: unknown codec %q, want one of %s", ErrInvalidConfig, s.Codec, strings.Join(codec.Names, ", "))
		}
		opts = append(opts, filtergen.WithCodec(c))
	}
	if s.Precision != nil {
		if *s.Precision < dataset.ShortestPrecision {
			return nil, fmt.Errorf("%w: precision %d", ErrInvalidConfig, *s.Precision)
		}
		opts = append(opts, filtergen.WithFormat(dataset.Format{Precision: *s.Precision}))
	}
	if s.Parallelism > 0 {
		opts = append(opts, filtergen.WithParallelism(s.Parallelism))
	}
	if s.IOLimit > 0 {
		opts = append(opts, filtergen.WithIOLimit(s.IOLimit))
	}
	return opts, nil
}

// Config is a decoded suite file.
type Config struct {
	Settings Settings
	Suite    filtergen.Suite
}

type rawConfig struct {
	Settings  Settings    `yaml:"settings"`
	Presets   []string    `yaml:"presets"`
	Vectors   []yaml.Node `yaml:"vectors"`
	KeyValues []yaml.Node `yaml:"kv"`
}

// Load reads a suite file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a suite file:
//
//	settings:
//	  compression: zstd
//	presets: [uniform_halfsplit]
//	vectors:
//	  - preset: normal_selective
//	    records: 1000
//	  - name: custom
//	    seed: 7
//	kv:
//	  - name: pairs
//	    mode: int-int
//
// A corpus entry with a preset key starts from that preset; the remaining
// keys override its fields. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg := &Config{Settings: raw.Settings}

	var suite filtergen.Suite
	if len(raw.Presets) > 0 {
		s, err := filtergen.PresetSuite(raw.Presets...)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		suite = s
	}

	for i := range raw.Vectors {
		c, err := decodeCorpus(&raw.Vectors[i], func(p filtergen.Preset) (filtergen.VectorCorpus, bool) {
			if p.Vectors == nil {
				return filtergen.VectorCorpus{}, false
			}
			return *p.Vectors, true
		})
		if err != nil {
			return nil, err
		}
		suite.Vectors = append(suite.Vectors, c)
	}

	for i := range raw.KeyValues {
		c, err := decodeCorpus(&raw.KeyValues[i], func(p filtergen.Preset) (filtergen.KVCorpus, bool) {
			if p.KeyValues == nil {
				return filtergen.KVCorpus{}, false
			}
			return *p.KeyValues, true
		})
		if err != nil {
			return nil, err
		}
		suite.KeyValues = append(suite.KeyValues, c)
	}

	cfg.Suite = suite
	return cfg, nil
}

// decodeCorpus decodes one corpus mapping, starting from the preset it names.
func decodeCorpus[T any](node *yaml.Node, fromPreset func(filtergen.Preset) (T, bool)) (T, error) {
	var c T
	if node.Kind != yaml.MappingNode {
		return c, fmt.Errorf("%w: line %d: corpus must be a mapping", ErrInvalidConfig, node.Line)
	}

	name, rest := splitPreset(node)
	if name != "" {
		p, ok := filtergen.LookupPreset(name)
		if !ok {
			return c, fmt.Errorf("%w: line %d: unknown preset %q", ErrInvalidConfig, node.Line, name)
		}
		if c, ok = fromPreset(p); !ok {
			return c, fmt.Errorf("%w: line %d: preset %q is of another kind", ErrInvalidConfig, node.Line, name)
		}
	}

	if len(rest.Content) == 0 {
		return c, nil
	}

	// Re-encode so the strict decoder can check the remaining keys.
	data, err := yaml.Marshal(rest)
	if err != nil {
		return c, fmt.Errorf("%w: line %d: %v", ErrInvalidConfig, node.Line, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return c, fmt.Errorf("%w: corpus at line %d: %v", ErrInvalidConfig, node.Line, err)
	}
	return c, nil
}

// splitPreset removes the preset key from a mapping node.
func splitPreset(node *yaml.Node) (string, *yaml.Node) {
	rest := &yaml.Node{Kind: yaml.MappingNode, Tag: node.Tag, Line: node.Line, Column: node.Column}
	var name string
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if k.Value == "preset" {
			name = v.Value
			continue
		}
		rest.Content = append(rest.Content, k, v)
	}
	return name, rest
}
