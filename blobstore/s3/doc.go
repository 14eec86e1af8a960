// Package s3 writes generated corpora to Amazon S3.
//
// # Usage
//
//	client, err := s3.NewClient(ctx, s3.ClientOptions{Region: "us-east-1"})
//	store := s3.NewStore(client, "my-bucket", "corpora/")
//	gen := filtergen.New(store)
//
// Files are streamed through the SDK upload manager, so large data files go
// out as multipart uploads without being held in memory. DDBCommitter adds
// DynamoDB-coordinated manifest versions for buckets shared by many runs.
package s3
