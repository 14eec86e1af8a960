// Package cli implements the filtergen command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/filtergen"
	"github.com/hupe1980/filtergen/codec"
	"github.com/spf13/cobra"
)

const (
	// DefaultOut is the default output directory.
	DefaultOut = "./tests/_Data"
)

// globalFlags are shared by all subcommands.
type globalFlags struct {
	out         string
	compress    string
	codec       string
	precision   int
	logLevel    string
	logFormat   string
	parallelism int
	ioLimit     int64
	noManifests bool

	s3Bucket    string
	s3Prefix    string
	s3Region    string
	s3Endpoint  string
	s3PathStyle bool

	minioEndpoint  string
	minioBucket    string
	minioPrefix    string
	minioAccessKey string
	minioSecretKey string
	minioRegion    string
	minioSecure    bool

	ddbTable string
}

type app struct {
	flags  globalFlags
	logger *filtergen.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "filtergen",
		Short: "Generate synthetic corpora for filtered vector search benchmarks",
		Long: `filtergen writes reproducible data and query files for benchmarking
filtered vector search, plus key-value dumps for store benchmarks.

Examples:
  filtergen presets                                  # List presets
  filtergen run --preset normal_selective            # Generate one preset
  filtergen run --all-presets --compress zstd        # Generate every preset
  filtergen run --suite suite.yaml                   # Generate a suite file
  filtergen generate vectors --name n --dist normal --mean 50 --variance 25 --p 0.05
  filtergen solve --p 0.01 --mean 50 --variance 25   # Print the analytic window
  filtergen verify --data n_data.csv --queries n_queries.csv`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			l, err := newLogger(cmd.ErrOrStderr(), a.flags.logLevel, a.flags.logFormat)
			if err != nil {
				return err
			}
			a.logger = l
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.out, "out", DefaultOut, "local output directory")
	pf.StringVar(&a.flags.compress, "compress", "none", "output compression: none, zstd, lz4, gzip")
	pf.StringVar(&a.flags.codec, "codec", "go-json", "manifest codec: "+strings.Join(codec.Names, ", "))
	pf.IntVar(&a.flags.precision, "precision", 5, "decimals of real numbers, -1 for shortest round-trip")
	pf.StringVar(&a.flags.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.StringVar(&a.flags.logFormat, "log-format", "text", "log format: text, json")
	pf.IntVar(&a.flags.parallelism, "parallelism", 1, "corpora generated concurrently")
	pf.Int64Var(&a.flags.ioLimit, "io-limit", 0, "output throughput limit in bytes per second (0 = unlimited)")
	pf.BoolVar(&a.flags.noManifests, "no-manifests", false, "do not commit manifests")

	pf.StringVar(&a.flags.s3Bucket, "s3-bucket", "", "write to this S3 bucket instead of --out")
	pf.StringVar(&a.flags.s3Prefix, "s3-prefix", "", "key prefix inside the S3 bucket")
	pf.StringVar(&a.flags.s3Region, "s3-region", "", "AWS region (defaults to the SDK config chain)")
	pf.StringVar(&a.flags.s3Endpoint, "s3-endpoint", "", "custom S3 endpoint")
	pf.BoolVar(&a.flags.s3PathStyle, "s3-path-style", false, "use path-style S3 addressing")

	pf.StringVar(&a.flags.minioEndpoint, "minio-endpoint", "", "write to this MinIO endpoint (host:port)")
	pf.StringVar(&a.flags.minioBucket, "minio-bucket", "", "MinIO bucket, created if missing")
	pf.StringVar(&a.flags.minioPrefix, "minio-prefix", "", "key prefix inside the MinIO bucket")
	pf.StringVar(&a.flags.minioAccessKey, "minio-access-key", "", "MinIO access key")
	pf.StringVar(&a.flags.minioSecretKey, "minio-secret-key", "", "MinIO secret key")
	pf.StringVar(&a.flags.minioRegion, "minio-region", "", "MinIO region")
	pf.BoolVar(&a.flags.minioSecure, "minio-secure", false, "use TLS for MinIO")

	pf.StringVar(&a.flags.ddbTable, "ddb-table", "", "commit manifests to this DynamoDB table")

	root.AddCommand(
		newGenerateCmd(a),
		newRunCmd(a),
		newSolveCmd(),
		newVerifyCmd(a),
		newPresetsCmd(),
	)
	return root
}

// Execute runs the command line.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func newLogger(w io.Writer, level, format string) (*filtergen.Logger, error) {
	lvl, err := filtergen.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	switch format {
	case "text":
		return filtergen.NewTextLogger(w, lvl), nil
	case "json":
		return filtergen.NewJSONLogger(w, lvl), nil
	default:
		return nil, fmt.Errorf("--log-format: unknown format %q", format)
	}
}

func printJSON(w io.Writer, v any) error {
	data, err := codec.Default.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
