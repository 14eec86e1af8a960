package s3

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/filtergen/blobstore"
	"github.com/hupe1980/filtergen/codec"
	"github.com/hupe1980/filtergen/manifest"
)

// ErrConcurrentModification is returned when another writer committed the
// same manifest version first.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// DDBClient is the interface for DynamoDB operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

var _ DDBClient = (*dynamodb.Client)(nil)

// DDBCommitter implements manifest.Committer with manifests stored in a blob
// store and versions committed through DynamoDB conditional writes. This
// lets several runs publish into the same bucket without losing a version.
//
// Table schema:
//   - Partition key: base_uri (string) - the store location plus corpus name
//   - Sort key: version (number) - monotonically increasing version
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name filtergen-manifests \
//	  --attribute-definitions AttributeName=base_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=base_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type DDBCommitter struct {
	store     blobstore.Store
	ddbClient DDBClient
	tableName string
	baseURI   string
	codec     codec.Codec
}

var _ manifest.Committer = (*DDBCommitter)(nil)

// NewDDBCommitter creates a committer. baseURI identifies the store, e.g.
// "s3://bucket/prefix"; each corpus gets its own partition below it.
func NewDDBCommitter(store blobstore.Store, ddbClient DDBClient, tableName, baseURI string) *DDBCommitter {
	return &DDBCommitter{
		store:     store,
		ddbClient: ddbClient,
		tableName: tableName,
		baseURI:   baseURI,
		codec:     codec.Default,
	}
}

func (c *DDBCommitter) partition(corpus string) string {
	return c.baseURI + "#" + corpus
}

// Commit writes the manifest blob, then claims the next version. The blob
// name carries the run id so losing writers never overwrite the winner's
// manifest; a losing writer removes its blob and gets ErrConcurrentModification.
func (c *DDBCommitter) Commit(ctx context.Context, m *manifest.Manifest) (uint64, error) {
	current, _, err := c.latestVersion(ctx, m.Corpus)
	if err != nil {
		return 0, err
	}

	m.FormatVersion = manifest.FormatVersion
	m.Version = current + 1

	data, err := manifest.Encode(c.codec, m)
	if err != nil {
		return 0, err
	}

	name := path.Join(m.Corpus, fmt.Sprintf("%s-%06d-%s.json", manifest.FilePrefix, m.Version, m.RunID))
	if err := c.store.Put(ctx, name, data); err != nil {
		return 0, fmt.Errorf("write manifest: %w", err)
	}

	// Conditional put: only succeed if this version doesn't exist yet
	_, err = c.ddbClient.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(c.tableName),
		Item: map[string]types.AttributeValue{
			"base_uri":      &types.AttributeValueMemberS{Value: c.partition(m.Corpus)},
			"version":       &types.AttributeValueMemberN{Value: strconv.FormatUint(m.Version, 10)},
			"manifest_path": &types.AttributeValueMemberS{Value: name},
			"run_id":        &types.AttributeValueMemberS{Value: m.RunID},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		_ = c.store.Delete(ctx, name)

		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return 0, ErrConcurrentModification
		}
		return 0, fmt.Errorf("failed to commit version to DynamoDB: %w", err)
	}

	return m.Version, nil
}

// Latest implements manifest.Committer.
func (c *DDBCommitter) Latest(ctx context.Context, corpus string) (*manifest.Manifest, error) {
	version, manifestPath, err := c.latestVersion(ctx, corpus)
	if err != nil {
		return nil, err
	}
	if version == 0 {
		return nil, manifest.ErrNoManifest
	}

	data, err := blobstore.ReadAll(ctx, c.store, manifestPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return manifest.Decode(c.codec, data)
}

// latestVersion queries DynamoDB for the latest committed version.
func (c *DDBCommitter) latestVersion(ctx context.Context, corpus string) (uint64, string, error) {
	resp, err := c.ddbClient.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(c.tableName),
		KeyConditionExpression: aws.String("base_uri = :uri"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uri": &types.AttributeValueMemberS{Value: c.partition(corpus)},
		},
		ScanIndexForward: aws.Bool(false), // Descending order
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, "", fmt.Errorf("failed to query DynamoDB: %w", err)
	}

	if len(resp.Items) == 0 {
		return 0, "", nil
	}

	item := resp.Items[0]
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, "", errors.New("invalid version attribute in DynamoDB")
	}
	pathAttr, ok := item["manifest_path"].(*types.AttributeValueMemberS)
	if !ok {
		return 0, "", errors.New("invalid manifest_path attribute in DynamoDB")
	}

	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("failed to parse version: %w", err)
	}

	return version, pathAttr.Value, nil
}
