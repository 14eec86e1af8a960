package kv

import (
	"math"
	"strconv"

	"github.com/hupe1980/filtergen/model"
	"github.com/hupe1980/filtergen/sampler"
)

// Mode selects the shape of the generated pairs.
type Mode string

const (
	// ModeStringKeys maps unique alphanumeric keys to integers.
	ModeStringKeys Mode = "string-keys"
	// ModeIntKeys maps integer keys to alphanumeric values. Keys may repeat.
	ModeIntKeys Mode = "int-keys"
	// ModeIntInt maps integer keys to integer values. Keys may repeat.
	ModeIntInt Mode = "int-int"
)

// Modes lists all modes.
var Modes = []Mode{ModeStringKeys, ModeIntKeys, ModeIntInt}

const (
	// DefaultCount is the number of pairs the string and int key dumps contain.
	DefaultCount = 100000
	// DefaultLength is the length of generated alphanumeric strings.
	DefaultLength = 10
	// MaxInt31 is the upper bound of int-int keys and values.
	MaxInt31 = math.MaxInt32
)

var (
	// DefaultValueRange bounds integer values in string-keys mode.
	DefaultValueRange = model.IntRange{Lo: 1, Hi: 100000}
	// DefaultKeyRange bounds integer keys in int-keys mode.
	DefaultKeyRange = model.IntRange{Lo: 1, Hi: 1000000}
	// Int31Range bounds both columns in int-int mode.
	Int31Range = model.IntRange{Lo: 0, Hi: MaxInt31}
)

// Config describes a key-value dump.
type Config struct {
	Mode       Mode            `yaml:"mode" json:"mode"`
	Count      *int            `yaml:"count,omitempty" json:"count,omitempty"`
	Length     *int            `yaml:"length,omitempty" json:"length,omitempty"`
	KeyRange   *model.IntRange `yaml:"key_range,omitempty" json:"key_range,omitempty"`
	ValueRange *model.IntRange `yaml:"value_range,omitempty" json:"value_range,omitempty"`
}

// WithDefaults fills nil fields with the defaults of the mode. Values that are
// set, zero included, are kept for Validate.
func (c Config) WithDefaults() Config {
	if c.Mode == "" {
		c.Mode = ModeStringKeys
	}
	if c.Count == nil {
		c.Count = model.Ptr(DefaultCount)
	}
	switch c.Mode {
	case ModeStringKeys:
		if c.Length == nil {
			c.Length = model.Ptr(DefaultLength)
		}
		if c.ValueRange == nil {
			r := DefaultValueRange
			c.ValueRange = &r
		}
	case ModeIntKeys:
		if c.Length == nil {
			c.Length = model.Ptr(DefaultLength)
		}
		if c.KeyRange == nil {
			r := DefaultKeyRange
			c.KeyRange = &r
		}
	case ModeIntInt:
		if c.KeyRange == nil {
			r := Int31Range
			c.KeyRange = &r
		}
		if c.ValueRange == nil {
			r := Int31Range
			c.ValueRange = &r
		}
	}
	return c
}

// Validate checks a config after WithDefaults.
func (c Config) Validate() error {
	if c.Count == nil {
		return model.NewParameterError("count", nil, "is required")
	}
	if *c.Count <= 0 {
		return model.NewParameterError("count", *c.Count, "must be positive")
	}

	switch c.Mode {
	case ModeStringKeys:
		if err := validateLength(c.Length); err != nil {
			return err
		}
		if err := validateRange("value_range", c.ValueRange); err != nil {
			return err
		}
		if !enoughKeys(*c.Length, *c.Count) {
			return model.NewParameterError("count", *c.Count,
				"exceeds the number of distinct keys of length "+strconv.Itoa(*c.Length))
		}
	case ModeIntKeys:
		if err := validateLength(c.Length); err != nil {
			return err
		}
		if err := validateRange("key_range", c.KeyRange); err != nil {
			return err
		}
	case ModeIntInt:
		if err := validateRange("key_range", c.KeyRange); err != nil {
			return err
		}
		if err := validateRange("value_range", c.ValueRange); err != nil {
			return err
		}
	default:
		return model.NewParameterError("mode", c.Mode, "unknown mode")
	}
	return nil
}

func validateLength(n *int) error {
	if n == nil {
		return model.NewParameterError("length", nil, "is required")
	}
	if *n <= 0 {
		return model.NewParameterError("length", *n, "must be positive")
	}
	return nil
}

func validateRange(field string, r *model.IntRange) error {
	if r == nil {
		return model.NewParameterError(field, nil, "is required")
	}
	return r.Validate(field)
}

// enoughKeys reports whether 62^length >= count.
func enoughKeys(length, count int) bool {
	total := 1
	for i := 0; i < length; i++ {
		if total > math.MaxInt/sampler.AlnumSize {
			return true
		}
		total *= sampler.AlnumSize
		if total >= count {
			return true
		}
	}
	return total >= count
}

// Generate draws cfg.Count pairs from r and passes them to fn in order.
// cfg must be valid. Generation stops at the first error returned by fn.
func Generate(r *sampler.RNG, cfg Config, fn func(model.KeyValue) error) error {
	count := *cfg.Count
	length := model.Deref(cfg.Length, DefaultLength)
	switch cfg.Mode {
	case ModeStringKeys:
		return generateStringKeys(r, cfg.ValueRange, count, length, fn)
	case ModeIntKeys:
		for i := 0; i < count; i++ {
			key := r.IntRange(cfg.KeyRange.Lo, cfg.KeyRange.Hi)
			if err := fn(model.KeyValue{Key: strconv.FormatInt(key, 10), Value: r.Alnum(length)}); err != nil {
				return err
			}
		}
		return nil
	case ModeIntInt:
		for i := 0; i < count; i++ {
			key := r.IntRange(cfg.KeyRange.Lo, cfg.KeyRange.Hi)
			value := r.IntRange(cfg.ValueRange.Lo, cfg.ValueRange.Hi)
			if err := fn(model.KeyValue{Key: strconv.FormatInt(key, 10), Value: strconv.FormatInt(value, 10)}); err != nil {
				return err
			}
		}
		return nil
	default:
		return model.NewParameterError("mode", cfg.Mode, "unknown mode")
	}
}

// generateStringKeys redraws a key on collision, so the output has exactly
// count distinct keys.
func generateStringKeys(r *sampler.RNG, values *model.IntRange, count, length int, fn func(model.KeyValue) error) error {
	seen := make(map[string]struct{}, count)
	for len(seen) < count {
		key := r.Alnum(length)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		value := r.IntRange(values.Lo, values.Hi)
		if err := fn(model.KeyValue{Key: key, Value: strconv.FormatInt(value, 10)}); err != nil {
			return err
		}
	}
	return nil
}
