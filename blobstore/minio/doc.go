// Package minio writes generated corpora to MinIO and other S3-compatible
// object stores (Ceph, Garage, SeaweedFS) through the MinIO Go client.
//
// # Basic Usage
//
//	client, err := minio.NewClient(minio.ClientOptions{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minio.NewStore(client, "corpora", "bench/")
//	gen := filtergen.New(store)
//
// Create streams with an unknown size, so the client switches to multipart
// uploads for large files.
package minio
