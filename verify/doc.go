// Package verify measures generated corpora: the records each query window
// actually selects, how many queries cannot be filled to k, and whether the
// files still match their manifests.
//
//	r, err := verify.Verify(ctx, store, "normal_data.csv", "normal_queries.csv")
//	if err := r.CheckSelectivity(0.01, 0.005); err != nil { ... }
package verify
