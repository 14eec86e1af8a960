package filtergen

import (
	"fmt"
	"sort"

	"github.com/hupe1980/filtergen/kv"
	"github.com/hupe1980/filtergen/model"
	"github.com/hupe1980/filtergen/selectivity"
)

// PresetSeed is the seed every preset uses.
const PresetSeed = 42

// SweepProportions are the target selectivities of the normal_sweep presets.
var SweepProportions = []float64{0.01, 0.05, 0.10, 0.30, 0.50, 0.90}

// Preset is a named, ready-to-run corpus. Exactly one of Vectors and
// KeyValues is set.
type Preset struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Vectors     *VectorCorpus `json:"vectors,omitempty"`
	KeyValues   *KVCorpus     `json:"kv,omitempty"`
}

// Presets returns all presets sorted by name.
func Presets() []Preset {
	presets := []Preset{
		{
			Name:        "uniform_halfsplit",
			Description: "uniform scalars in [0,100]; Smin from the lower half, Smax from the upper half",
			Vectors: &VectorCorpus{
				Name:      "uniform_halfsplit",
				Seed:      PresetSeed,
				Scalar:    ScalarSpec{Distribution: DistUniform, Range: model.Ptr(DefaultScalarRange)},
				Window:    WindowSpec{Policy: selectivity.PolicyHalfSplit},
				DataFile:  "_data.csv",
				QueryFile: "_queries.csv",
			},
		},
		{
			Name:        "uniform_fixedwidth",
			Description: "uniform scalars in [0,100]; narrow windows of width 0.1 with 5% jitter",
			Vectors: &VectorCorpus{
				Name:   "uniform_fixedwidth",
				Seed:   PresetSeed,
				Scalar: ScalarSpec{Distribution: DistUniform, Range: model.Ptr(DefaultScalarRange)},
				Window: WindowSpec{
					Policy: selectivity.PolicyFixedWidth,
					Width:  model.Ptr(DefaultWidth),
					Jitter: model.Ptr(selectivity.DefaultJitter),
				},
				DataFile:  "_data2.csv",
				QueryFile: "_queries2.csv",
			},
		},
		{
			Name:        "normal_selective",
			Description: "normal scalars (mean 50, variance 25); one query selecting 1% of records",
			Vectors: &VectorCorpus{
				Name:      "normal_selective",
				Seed:      PresetSeed,
				Queries:   model.Ptr(1),
				Scalar:    ScalarSpec{Distribution: DistNormal, Mean: 50, Variance: 25},
				Window:    WindowSpec{Policy: selectivity.PolicyAnalytic, Proportion: model.Ptr(0.01)},
				K:         &model.IntRange{Lo: 10, Hi: 10},
				DataFile:  "_data3.csv",
				QueryFile: "_queries3.csv",
			},
		},
		{
			Name:        "kv_string_keys",
			Description: "100000 unique 10-character keys mapped to integers in [1,100000]",
			KeyValues: &KVCorpus{
				Name:   "kv_string_keys",
				Seed:   PresetSeed,
				File:   "key_value_pairs.txt",
				Config: kv.Config{Mode: kv.ModeStringKeys, Count: model.Ptr(kv.DefaultCount)},
			},
		},
		{
			Name:        "kv_int_keys",
			Description: "100000 integer keys in [1,1000000] mapped to 10-character strings",
			KeyValues: &KVCorpus{
				Name:   "kv_int_keys",
				Seed:   PresetSeed,
				File:   "key_value_pairs_2.txt",
				Config: kv.Config{Mode: kv.ModeIntKeys, Count: model.Ptr(kv.DefaultCount)},
			},
		},
		{
			Name:        "kv_int_int",
			Description: "1000000 integer pairs in [0,2^31-1]",
			KeyValues: &KVCorpus{
				Name:   "kv_int_int",
				Seed:   PresetSeed,
				File:   "test_data.txt",
				Config: kv.Config{Mode: kv.ModeIntInt, Count: model.Ptr(1000000)},
			},
		},
	}

	for _, p := range SweepProportions {
		name := SweepName(p)
		presets = append(presets, Preset{
			Name:        name,
			Description: fmt.Sprintf("normal scalars (mean 50, variance 25); windows selecting %g%% of records", p*100),
			Vectors: &VectorCorpus{
				Name:   name,
				Seed:   PresetSeed,
				Scalar: ScalarSpec{Distribution: DistNormal, Mean: 50, Variance: 25},
				Window: WindowSpec{Policy: selectivity.PolicyAnalytic, Proportion: model.Ptr(p)},
			},
		})
	}

	sort.Slice(presets, func(i, j int) bool { return presets[i].Name < presets[j].Name })
	return presets
}

// SweepName returns the preset name of a sweep level, e.g. normal_sweep_p0.01.
func SweepName(p float64) string {
	return fmt.Sprintf("normal_sweep_p%.2f", p)
}

// LookupPreset returns the preset with the given name.
func LookupPreset(name string) (Preset, bool) {
	for _, p := range Presets() {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// PresetSuite builds a suite from preset names. With no names it contains
// every preset.
func PresetSuite(names ...string) (Suite, error) {
	var presets []Preset
	if len(names) == 0 {
		presets = Presets()
	} else {
		for _, n := range names {
			p, ok := LookupPreset(n)
			if !ok {
				return Suite{}, model.NewParameterError("preset", n, "unknown preset")
			}
			presets = append(presets, p)
		}
	}

	var s Suite
	for _, p := range presets {
		s.Add(p)
	}
	return s, nil
}

// Add appends the corpus of p to s.
func (s *Suite) Add(p Preset) {
	if p.Vectors != nil {
		s.Vectors = append(s.Vectors, *p.Vectors)
	}
	if p.KeyValues != nil {
		s.KeyValues = append(s.KeyValues, *p.KeyValues)
	}
}
