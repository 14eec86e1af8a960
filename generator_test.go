package filtergen

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/filtergen/blobstore"
	"github.com/hupe1980/filtergen/dataset"
	"github.com/hupe1980/filtergen/internal/compress"
	"github.com/hupe1980/filtergen/internal/hash"
	"github.com/hupe1980/filtergen/kv"
	"github.com/hupe1980/filtergen/manifest"
	"github.com/hupe1980/filtergen/model"
	"github.com/hupe1980/filtergen/selectivity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	t0 := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return func() time.Time { return t0 }
}

// failingStore fails Create for one name.
type failingStore struct {
	*blobstore.MemoryStore
	failOn string
}

func (f *failingStore) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	if name == f.failOn {
		return nil, errors.New("disk full")
	}
	return f.MemoryStore.Create(ctx, name)
}

func kvConfig(mode string, count int) kv.Config {
	return kv.Config{Mode: kv.Mode(mode), Count: model.Ptr(count)}
}

func smallUniform(name string) VectorCorpus {
	return VectorCorpus{Name: name, Seed: 7, Records: model.Ptr(500), Dim: model.Ptr(3), Queries: model.Ptr(20)}
}

func TestVectorCorpusWithDefaults(t *testing.T) {
	c := VectorCorpus{Name: "d", Scalar: ScalarSpec{Distribution: DistNormal, Variance: 1}}.WithDefaults()
	assert.Equal(t, DefaultRecords, *c.Records)
	assert.Equal(t, DefaultDim, *c.Dim)
	assert.Equal(t, DefaultQueries, *c.Queries)
	assert.Equal(t, selectivity.PolicyAnalytic, c.Window.Policy)
	assert.Equal(t, DefaultProportion, *c.Window.Proportion)

	zero := VectorCorpus{
		Name:    "z",
		Records: model.Ptr(0),
		Queries: model.Ptr(0),
		Window:  WindowSpec{Policy: selectivity.PolicyFixedWidth, Width: model.Ptr(0.0)},
	}.WithDefaults()
	assert.Equal(t, 0, *zero.Records, "set values are kept")
	assert.Equal(t, 0, *zero.Queries)
	assert.Equal(t, 0.0, *zero.Window.Width)
}

func TestGenerateVectors(t *testing.T) {
	ctx := context.Background()

	t.Run("Counts and ranges", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		gen := New(store, WithClock(fixedClock()))

		m, err := gen.GenerateVectors(ctx, smallUniform("u"))
		require.NoError(t, err)

		df, err := dataset.ReadData(bytes.NewReader(store.Bytes("u_data.csv")))
		require.NoError(t, err)
		assert.Equal(t, 3, df.Dim)
		require.Len(t, df.Records, 500)
		for _, rec := range df.Records {
			for _, x := range rec.Vector {
				assert.True(t, DefaultVectorRange.Contains(x), "coordinate %v", x)
			}
			assert.True(t, DefaultScalarRange.Contains(rec.Scalar), "scalar %v", rec.Scalar)
		}

		qf, err := dataset.ReadQueries(bytes.NewReader(store.Bytes("u_queries.csv")))
		require.NoError(t, err)
		require.Len(t, qf.Queries, 20)
		for _, q := range qf.Queries {
			assert.Len(t, q.Vector, 3)
			assert.GreaterOrEqual(t, q.K, 1)
			assert.LessOrEqual(t, q.K, 10)
			assert.LessOrEqual(t, q.SMin, q.SMax)
			assert.Equal(t, int64(DefaultO), q.O)
		}

		assert.Equal(t, manifest.KindVectors, m.Kind)
		assert.Equal(t, uint64(1), m.Version)
		assert.Equal(t, selectivity.PolicyHalfSplit, m.Window.Policy)

		data, ok := m.File(manifest.RoleData)
		require.True(t, ok)
		assert.Equal(t, int64(500), data.Rows)
		assert.Equal(t, int64(len(store.Bytes("u_data.csv"))), data.Bytes)
		assert.Equal(t, hash.CRC32C(store.Bytes("u_data.csv")), data.CRC32C)
	})

	t.Run("Headers", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		gen := New(store, WithoutManifests())

		_, err := gen.GenerateVectors(ctx, VectorCorpus{Name: "h", Records: model.Ptr(1), Queries: model.Ptr(1)})
		require.NoError(t, err)

		data := strings.SplitN(string(store.Bytes("h_data.csv")), "\n", 2)[0]
		queries := strings.SplitN(string(store.Bytes("h_queries.csv")), "\n", 2)[0]
		assert.Equal(t, "v1,v2,v3,v4,s", data)
		assert.Equal(t, "qv1,qv2,qv3,qv4,k,Smin,Smax,O", queries)
	})

	t.Run("Byte-identical reruns", func(t *testing.T) {
		c := VectorCorpus{
			Name:    "n",
			Seed:    99,
			Records: model.Ptr(300),
			Queries: model.Ptr(5),
			Scalar:  ScalarSpec{Distribution: DistNormal, Mean: 50, Variance: 25},
			Window:  WindowSpec{Policy: selectivity.PolicyFixedWidth, Range: &model.Range{Lo: 40, Hi: 60}},
		}

		a := blobstore.NewMemoryStore()
		b := blobstore.NewMemoryStore()
		_, err := New(a, WithoutManifests()).GenerateVectors(ctx, c)
		require.NoError(t, err)
		_, err = New(b, WithoutManifests(), WithIOLimit(1<<20)).GenerateVectors(ctx, c)
		require.NoError(t, err)

		assert.Equal(t, a.Bytes("n_data.csv"), b.Bytes("n_data.csv"))
		assert.Equal(t, a.Bytes("n_queries.csv"), b.Bytes("n_queries.csv"))

		c.Seed = 100
		other := blobstore.NewMemoryStore()
		_, err = New(other, WithoutManifests()).GenerateVectors(ctx, c)
		require.NoError(t, err)
		assert.NotEqual(t, a.Bytes("n_data.csv"), other.Bytes("n_data.csv"))
	})

	t.Run("Analytic window", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		gen := New(store)

		m, err := gen.GenerateVectors(ctx, VectorCorpus{
			Name:    "sel",
			Seed:    1,
			Records: model.Ptr(100),
			Queries: model.Ptr(3),
			Scalar:  ScalarSpec{Distribution: DistNormal, Mean: 50, Variance: 25},
			Window:  WindowSpec{Policy: selectivity.PolicyAnalytic, Proportion: model.Ptr(0.01)},
		})
		require.NoError(t, err)

		qf, err := dataset.ReadQueries(bytes.NewReader(store.Bytes("sel_queries.csv")))
		require.NoError(t, err)
		for _, q := range qf.Queries {
			assert.InDelta(t, 49.9373, q.SMin, 1e-4)
			assert.InDelta(t, 50.0627, q.SMax, 1e-4)
		}

		require.NotNil(t, m.Window.SMin)
		assert.InDelta(t, 49.9373, *m.Window.SMin, 1e-4)
		assert.InDelta(t, 50.0627, *m.Window.SMax, 1e-4)
		assert.InDelta(t, 0.01, m.Window.Proportion, 1e-12)
	})

	t.Run("Precision", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		gen := New(store, WithoutManifests(), WithFormat(dataset.Format{Precision: 2}))

		_, err := gen.GenerateVectors(ctx, VectorCorpus{Name: "p", Records: model.Ptr(10), Queries: model.Ptr(1)})
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(string(store.Bytes("p_data.csv"))), "\n")
		for _, line := range lines[1:] {
			for _, field := range strings.Split(line, ",") {
				i := strings.IndexByte(field, '.')
				require.GreaterOrEqual(t, i, 0, field)
				assert.Len(t, field[i+1:], 2, field)
			}
		}
	})

	t.Run("Validation before IO", func(t *testing.T) {
		tests := []struct {
			name   string
			corpus VectorCorpus
		}{
			{"NoName", VectorCorpus{}},
			{"NegativeRecords", VectorCorpus{Name: "x", Records: model.Ptr(-1)}},
			{"NegativeDim", VectorCorpus{Name: "x", Dim: model.Ptr(-2)}},
			{"ZeroRecords", VectorCorpus{Name: "x", Records: model.Ptr(0)}},
			{"ZeroDim", VectorCorpus{Name: "x", Dim: model.Ptr(0)}},
			{"ZeroQueries", VectorCorpus{Name: "x", Queries: model.Ptr(0)}},
			{"EmptyVectorRange", VectorCorpus{Name: "x", VectorRange: &model.Range{Lo: 1, Hi: 0}}},
			{"ZeroK", VectorCorpus{Name: "x", K: &model.IntRange{Lo: 0, Hi: 3}}},
			{"NegativeVariance", VectorCorpus{Name: "x", Scalar: ScalarSpec{Distribution: DistNormal, Mean: 1, Variance: -1}}},
			{"ProportionOne", VectorCorpus{Name: "x", Scalar: ScalarSpec{Distribution: DistNormal, Variance: 1}, Window: WindowSpec{Policy: selectivity.PolicyAnalytic, Proportion: model.Ptr(1.0)}}},
			{"ProportionZero", VectorCorpus{Name: "x", Scalar: ScalarSpec{Distribution: DistNormal, Mean: 50, Variance: 25}, Window: WindowSpec{Policy: selectivity.PolicyAnalytic, Proportion: model.Ptr(0.0)}}},
			{"ProportionNaN", VectorCorpus{Name: "x", Scalar: ScalarSpec{Distribution: DistNormal, Variance: 1}, Window: WindowSpec{Policy: selectivity.PolicyAnalytic, Proportion: model.Ptr(math.NaN())}}},
			{"NegativeWidth", VectorCorpus{Name: "x", Window: WindowSpec{Policy: selectivity.PolicyFixedWidth, Width: model.Ptr(-1.0)}}},
			{"AnalyticUniform", VectorCorpus{Name: "x", Window: WindowSpec{Policy: selectivity.PolicyAnalytic}}},
			{"SameFiles", VectorCorpus{Name: "x", DataFile: "a.csv", QueryFile: "a.csv"}},
			{"UnknownDistribution", VectorCorpus{Name: "x", Scalar: ScalarSpec{Distribution: "cauchy"}}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				store := blobstore.NewMemoryStore()
				_, err := New(store).GenerateVectors(ctx, tt.corpus)
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidParameter)

				names, err := store.List(ctx, "")
				require.NoError(t, err)
				assert.Empty(t, names)
			})
		}
	})

	t.Run("Cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		store := blobstore.NewMemoryStore()
		_, err := New(store).GenerateVectors(cctx, smallUniform("c"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIO)
		assert.ErrorIs(t, err, context.Canceled)

		var ioErr *IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "create", ioErr.Op)
		assert.Nil(t, store.Bytes(manifest.CurrentPath("c")))
	})

	t.Run("Create failure", func(t *testing.T) {
		store := &failingStore{MemoryStore: blobstore.NewMemoryStore(), failOn: "f_queries.csv"}
		_, err := New(store).GenerateVectors(ctx, smallUniform("f"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIO)
		assert.Contains(t, err.Error(), "disk full")

		// The data file stays; no manifest is committed.
		assert.NotEmpty(t, store.Bytes("f_data.csv"))
		assert.Nil(t, store.Bytes(manifest.CurrentPath("f")))
	})

	t.Run("Compression", func(t *testing.T) {
		for _, k := range []Compression{CompressionZstd, CompressionLZ4, CompressionGzip} {
			t.Run(string(k), func(t *testing.T) {
				plain := blobstore.NewMemoryStore()
				_, err := New(plain, WithoutManifests()).GenerateVectors(ctx, smallUniform("z"))
				require.NoError(t, err)

				store := blobstore.NewMemoryStore()
				gen := New(store, WithCompression(k))
				m, err := gen.GenerateVectors(ctx, smallUniform("z"))
				require.NoError(t, err)

				name := "z_data.csv" + k.Ext()
				assert.Equal(t, name, gen.FileName("z_data.csv"))
				stored := store.Bytes(name)
				require.NotNil(t, stored)

				f, ok := m.File(manifest.RoleData)
				require.True(t, ok)
				assert.Equal(t, name, f.Name)
				assert.Equal(t, string(k), f.Compression)
				assert.Equal(t, int64(len(stored)), f.Bytes)

				zr, err := compress.NewReader(bytes.NewReader(stored), k)
				require.NoError(t, err)
				var out bytes.Buffer
				_, err = out.ReadFrom(zr)
				require.NoError(t, err)
				require.NoError(t, zr.Close())
				assert.Equal(t, plain.Bytes("z_data.csv"), out.Bytes())
			})
		}
	})

	t.Run("Metrics", func(t *testing.T) {
		mc := &BasicMetricsCollector{}
		gen := New(blobstore.NewMemoryStore(), WithMetricsCollector(mc))

		_, err := gen.GenerateVectors(ctx, smallUniform("m"))
		require.NoError(t, err)
		_, err = gen.GenerateVectors(ctx, VectorCorpus{Name: "bad", Records: model.Ptr(-1)})
		require.Error(t, err)

		stats := mc.GetStats()
		assert.Equal(t, int64(1), stats.CorpusCount)
		assert.Equal(t, int64(2), stats.FileCount)
		assert.Equal(t, int64(520), stats.Rows)
		assert.Positive(t, stats.Bytes)
	})

	t.Run("Versions", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		gen := New(store, WithRunID("run-1"))

		for want := uint64(1); want <= 3; want++ {
			m, err := gen.GenerateVectors(ctx, smallUniform("v"))
			require.NoError(t, err)
			assert.Equal(t, want, m.Version)
		}

		latest, err := manifest.NewBlobCommitter(store, nil).Latest(ctx, "v")
		require.NoError(t, err)
		assert.Equal(t, uint64(3), latest.Version)
		assert.Equal(t, "run-1", latest.RunID)
		assert.Contains(t, string(latest.Params), `"records": 500`)
	})
}

func TestGenerateKeyValues(t *testing.T) {
	ctx := context.Background()

	t.Run("String keys", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		gen := New(store)

		m, err := gen.GenerateKeyValues(ctx, KVCorpus{Name: "kv", Seed: 3, Config: kvConfig("string-keys", 1000)})
		require.NoError(t, err)
		assert.Equal(t, manifest.KindKeyValues, m.Kind)

		pairs, err := dataset.ReadKeyValues(bytes.NewReader(store.Bytes("kv.txt")))
		require.NoError(t, err)
		require.Len(t, pairs, 1000)

		seen := make(map[string]bool)
		for _, p := range pairs {
			assert.Len(t, p.Key, 10)
			assert.False(t, seen[p.Key], "duplicate key %s", p.Key)
			seen[p.Key] = true
		}

		f, ok := m.File(manifest.RoleKeyValues)
		require.True(t, ok)
		assert.Equal(t, int64(1000), f.Rows)
	})

	t.Run("Deterministic", func(t *testing.T) {
		c := KVCorpus{Name: "ii", Seed: 5, Config: kvConfig("int-int", 200)}

		a := blobstore.NewMemoryStore()
		b := blobstore.NewMemoryStore()
		_, err := New(a, WithoutManifests()).GenerateKeyValues(ctx, c)
		require.NoError(t, err)
		_, err = New(b, WithoutManifests()).GenerateKeyValues(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, a.Bytes("ii.txt"), b.Bytes("ii.txt"))
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, count := range []int{-5, 0} {
			store := blobstore.NewMemoryStore()
			_, err := New(store).GenerateKeyValues(ctx, KVCorpus{Name: "bad", Config: kvConfig("string-keys", count)})
			assert.ErrorIs(t, err, ErrInvalidParameter, "count %d", count)

			names, err := store.List(ctx, "")
			require.NoError(t, err)
			assert.Empty(t, names)
		}
	})
}
