package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/hupe1980/filtergen"
	"github.com/hupe1980/filtergen/blobstore"
	"github.com/hupe1980/filtergen/blobstore/minio"
	s3store "github.com/hupe1980/filtergen/blobstore/s3"
	"github.com/hupe1980/filtergen/codec"
	"github.com/hupe1980/filtergen/config"
	"github.com/hupe1980/filtergen/dataset"
	"github.com/spf13/pflag"
)

// sink is where generated files and manifests go.
type sink struct {
	store     blobstore.Store
	committer *s3store.DDBCommitter
}

// openSink selects S3, MinIO or the local directory, in that order.
func (a *app) openSink(ctx context.Context, out string) (*sink, error) {
	f := a.flags
	if f.s3Bucket != "" && f.minioEndpoint != "" {
		return nil, errors.New("--s3-bucket and --minio-endpoint are mutually exclusive")
	}

	var s sink
	switch {
	case f.s3Bucket != "":
		client, err := s3store.NewClient(ctx, s3store.ClientOptions{
			Region:       f.s3Region,
			Endpoint:     f.s3Endpoint,
			UsePathStyle: f.s3PathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("create s3 client: %w", err)
		}
		s.store = s3store.NewStore(client, f.s3Bucket, f.s3Prefix)
	case f.minioEndpoint != "":
		if f.minioBucket == "" {
			return nil, errors.New("--minio-bucket is required with --minio-endpoint")
		}
		client, err := minio.NewClient(minio.ClientOptions{
			Endpoint:  f.minioEndpoint,
			AccessKey: f.minioAccessKey,
			SecretKey: f.minioSecretKey,
			Region:    f.minioRegion,
			Secure:    f.minioSecure,
		})
		if err != nil {
			return nil, fmt.Errorf("create minio client: %w", err)
		}
		ms := minio.NewStore(client, f.minioBucket, f.minioPrefix)
		if err := ms.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		s.store = ms
	default:
		s.store = blobstore.NewLocalStore(out)
	}

	if f.ddbTable != "" && !f.noManifests {
		cfg, err := s3store.LoadConfig(ctx, f.s3Region)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		s.committer = s3store.NewDDBCommitter(s.store, dynamodb.NewFromConfig(cfg), f.ddbTable, blobstore.Location(s.store, "."))
	}
	return &s, nil
}

// generatorOptions merges suite file settings with flags. Flags the user set
// explicitly win over settings.
func (a *app) generatorOptions(flags *pflag.FlagSet, settings config.Settings, s *sink) ([]filtergen.Option, error) {
	opts, err := settings.Options()
	if err != nil {
		return nil, err
	}
	opts = append([]filtergen.Option{filtergen.WithLogger(a.logger)}, opts...)

	if flags.Changed("compress") || settings.Compression == "" {
		k, err := filtergen.ParseCompression(a.flags.compress)
		if err != nil {
			return nil, fmt.Errorf("--compress: %w", err)
		}
		opts = append(opts, filtergen.WithCompression(k))
	}
	if flags.Changed("codec") || settings.Codec == "" {
		c, ok := codec.ByName(a.flags.codec)
		if !ok {
			return nil, fmt.Errorf("--codec: unknown codec %q, want one of %s", a.flags.codec, strings.Join(codec.Names, ", "))
		}
		opts = append(opts, filtergen.WithCodec(c))
	}
	if flags.Changed("precision") || settings.Precision == nil {
		if a.flags.precision < dataset.ShortestPrecision {
			return nil, fmt.Errorf("--precision: %d", a.flags.precision)
		}
		opts = append(opts, filtergen.WithFormat(dataset.Format{Precision: a.flags.precision}))
	}
	if flags.Changed("parallelism") || settings.Parallelism == 0 {
		opts = append(opts, filtergen.WithParallelism(a.flags.parallelism))
	}
	if flags.Changed("io-limit") || settings.IOLimit == 0 {
		opts = append(opts, filtergen.WithIOLimit(a.flags.ioLimit))
	}

	switch {
	case a.flags.noManifests:
		opts = append(opts, filtergen.WithoutManifests())
	case s.committer != nil:
		opts = append(opts, filtergen.WithManifestCommitter(s.committer))
	}
	return opts, nil
}

// outDir returns --out unless only the suite file sets it.
func (a *app) outDir(flags *pflag.FlagSet, settings config.Settings) string {
	if !flags.Changed("out") && settings.Out != "" {
		return settings.Out
	}
	return a.flags.out
}
