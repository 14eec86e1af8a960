package kv

import (
	"errors"
	"strconv"
	"testing"

	"github.com/hupe1980/filtergen/model"
	"github.com/hupe1980/filtergen/sampler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, seed int64, cfg Config) []model.KeyValue {
	t.Helper()
	cfg = cfg.WithDefaults()
	require.NoError(t, cfg.Validate())

	var out []model.KeyValue
	err := Generate(sampler.NewRNG(seed), cfg, func(kv model.KeyValue) error {
		out = append(out, kv)
		return nil
	})
	require.NoError(t, err)
	return out
}

func isAlnum(s string) bool {
	for _, c := range s {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

func TestWithDefaults(t *testing.T) {
	c := Config{}.WithDefaults()
	assert.Equal(t, ModeStringKeys, c.Mode)
	assert.Equal(t, DefaultCount, *c.Count)
	assert.Equal(t, DefaultLength, *c.Length)
	assert.Equal(t, DefaultValueRange, *c.ValueRange)

	c = Config{Mode: ModeIntKeys}.WithDefaults()
	assert.Equal(t, DefaultKeyRange, *c.KeyRange)
	assert.Nil(t, c.ValueRange)

	c = Config{Mode: ModeIntInt, Count: model.Ptr(5)}.WithDefaults()
	assert.Equal(t, 5, *c.Count)
	assert.Nil(t, c.Length)
	assert.Equal(t, Int31Range, *c.KeyRange)
	assert.Equal(t, Int31Range, *c.ValueRange)
}

func TestValidate(t *testing.T) {
	bad := model.IntRange{Lo: 10, Hi: 1}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"negative count", Config{Count: model.Ptr(-1)}},
		{"zero count", Config{Count: model.Ptr(0)}},
		{"zero count int-int", Config{Mode: ModeIntInt, Count: model.Ptr(0)}},
		{"zero length", Config{Mode: ModeStringKeys, Count: model.Ptr(1), Length: model.Ptr(0)}},
		{"unknown mode", Config{Mode: "xml", Count: model.Ptr(1)}},
		{"negative length", Config{Mode: ModeIntKeys, Count: model.Ptr(1), Length: model.Ptr(-3)}},
		{"empty value range", Config{Mode: ModeStringKeys, Count: model.Ptr(1), ValueRange: &bad}},
		{"empty key range", Config{Mode: ModeIntInt, Count: model.Ptr(1), KeyRange: &bad}},
		{"too few distinct keys", Config{Mode: ModeStringKeys, Count: model.Ptr(62*62 + 1), Length: model.Ptr(2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.WithDefaults().Validate()
			assert.ErrorIs(t, err, model.ErrInvalidParameter)
		})
	}

	// Exactly enough keys is fine
	ok := Config{Mode: ModeStringKeys, Count: model.Ptr(62 * 62), Length: model.Ptr(2)}.WithDefaults()
	assert.NoError(t, ok.Validate())

	// Huge lengths do not overflow
	long := Config{Mode: ModeStringKeys, Count: model.Ptr(1 << 40), Length: model.Ptr(64)}.WithDefaults()
	assert.NoError(t, long.Validate())
}

func TestGenerate_StringKeys(t *testing.T) {
	pairs := collect(t, 1, Config{Mode: ModeStringKeys, Count: model.Ptr(2000)})
	require.Len(t, pairs, 2000)

	seen := make(map[string]bool)
	for _, kv := range pairs {
		assert.Len(t, kv.Key, DefaultLength)
		assert.True(t, isAlnum(kv.Key), kv.Key)
		assert.False(t, seen[kv.Key], "duplicate key %s", kv.Key)
		seen[kv.Key] = true

		v, err := strconv.ParseInt(kv.Value, 10, 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, int64(1))
		assert.LessOrEqual(t, v, int64(100000))
	}
}

func TestGenerate_StringKeysExhaustsKeySpace(t *testing.T) {
	// Every one-character key exactly once
	pairs := collect(t, 3, Config{Mode: ModeStringKeys, Count: model.Ptr(sampler.AlnumSize), Length: model.Ptr(1)})

	seen := make(map[string]bool)
	for _, kv := range pairs {
		seen[kv.Key] = true
	}
	assert.Len(t, seen, sampler.AlnumSize)
}

func TestGenerate_IntKeys(t *testing.T) {
	r := model.IntRange{Lo: 1, Hi: 5}
	pairs := collect(t, 2, Config{Mode: ModeIntKeys, Count: model.Ptr(500), KeyRange: &r, Length: model.Ptr(4)})
	require.Len(t, pairs, 500)

	keys := make(map[string]int)
	for _, kv := range pairs {
		k, err := strconv.ParseInt(kv.Key, 10, 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, k, int64(1))
		assert.LessOrEqual(t, k, int64(5))
		keys[kv.Key]++

		assert.Len(t, kv.Value, 4)
		assert.True(t, isAlnum(kv.Value))
	}

	// Duplicates are allowed and, with 5 keys, certain.
	assert.Len(t, keys, 5)
}

func TestGenerate_IntInt(t *testing.T) {
	pairs := collect(t, 4, Config{Mode: ModeIntInt, Count: model.Ptr(1000)})
	require.Len(t, pairs, 1000)

	for _, kv := range pairs {
		for _, s := range []string{kv.Key, kv.Value} {
			v, err := strconv.ParseInt(s, 10, 64)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, v, int64(0))
			assert.LessOrEqual(t, v, int64(MaxInt31))
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	for _, mode := range Modes {
		a := collect(t, 99, Config{Mode: mode, Count: model.Ptr(100)})
		b := collect(t, 99, Config{Mode: mode, Count: model.Ptr(100)})
		assert.Equal(t, a, b, string(mode))

		c := collect(t, 100, Config{Mode: mode, Count: model.Ptr(100)})
		assert.NotEqual(t, a, c, string(mode))
	}
}

func TestGenerate_StopsOnError(t *testing.T) {
	cfg := Config{Mode: ModeIntInt, Count: model.Ptr(100)}.WithDefaults()
	boom := errors.New("disk full")

	n := 0
	err := Generate(sampler.NewRNG(1), cfg, func(model.KeyValue) error {
		n++
		if n == 10 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 10, n)
}
