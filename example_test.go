package filtergen_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/hupe1980/filtergen"
	"github.com/hupe1980/filtergen/blobstore"
	"github.com/hupe1980/filtergen/model"
	"github.com/hupe1980/filtergen/selectivity"
)

// Example_analyticWindow generates a normal corpus whose query windows
// select 1% of the records.
func Example_analyticWindow() {
	store := blobstore.NewMemoryStore()
	gen := filtergen.New(store)

	m, err := gen.GenerateVectors(context.Background(), filtergen.VectorCorpus{
		Name:    "normal",
		Seed:    42,
		Records: model.Ptr(1000),
		Queries: model.Ptr(2),
		Scalar:  filtergen.ScalarSpec{Distribution: filtergen.DistNormal, Mean: 50, Variance: 25},
		Window:  filtergen.WindowSpec{Policy: selectivity.PolicyAnalytic, Proportion: model.Ptr(0.01)},
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("window [%.4f, %.4f]\n", *m.Window.SMin, *m.Window.SMax)
	for _, f := range m.Files {
		fmt.Println(f.Name, f.Rows)
	}
	// Output:
	// window [49.9373, 50.0627]
	// normal_data.csv 1000
	// normal_queries.csv 2
}

// Example_presets generates a key-value preset with a smaller count.
func Example_presets() {
	p, _ := filtergen.LookupPreset("kv_int_keys")
	c := *p.KeyValues
	c.Count = model.Ptr(3)

	store := blobstore.NewMemoryStore()
	if _, err := filtergen.New(store, filtergen.WithoutManifests()).GenerateKeyValues(context.Background(), c); err != nil {
		log.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(store.Bytes("key_value_pairs_2.txt"))), "\n")
	fmt.Println(len(lines))
	// Output: 3
}
