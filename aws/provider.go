package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/privatecloudorg/libprivatecloud-go/keys"
	"github.com/privatecloudorg/libprivatecloud-go/provider"
	"github.com/privatecloudorg/libprivatecloud-go/transfer"
)

// Key-derivation scope of the content fingerprint key. Changing either
// value changes every fingerprint, breaking verification of previously
// uploaded files.
const (
	fileHashKeyID   = 1
	fileHashContext = "filehash"
)

// Provider stores files in one S3 bucket with end-to-end keyed integrity
// verification. It satisfies provider.CloudProvider and is safe for
// concurrent use by independent transfers; the derived hash key is
// read-only after construction.
type Provider struct {
	cfg      Config
	pipeline *transfer.Pipeline

	masterKey *keys.MasterKey
	hashKey   *keys.HashKey
}

// Compile-time interface check.
var _ provider.CloudProvider = (*Provider)(nil)

// LoadFromConfig constructs a Provider from the opaque configuration blob:
// it decodes the blob, builds an authenticated S3 client, imports the
// master key, and derives the content-hash key once for the provider's
// lifetime.
func LoadFromConfig(ctx context.Context, blob provider.Config) (*Provider, error) {
	cfg, err := decodeConfig(blob)
	if err != nil {
		return nil, err
	}

	masterKey, err := keys.MasterKeyFromHex(cfg.MasterKeyHex)
	if err != nil {
		return nil, err
	}

	hashKey, err := keys.NewHashKey(masterKey, fileHashKeyID, fileHashContext)
	if err != nil {
		masterKey.Destroy()
		return nil, err
	}

	client := s3.NewFromConfig(aws.Config{
		Region: cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	})

	return newProvider(cfg, client, masterKey, hashKey, 0)
}

// newProvider wires the pipeline over an s3API; split out so tests can
// inject a fake client and a small chunk size.
func newProvider(cfg Config, client s3API, masterKey *keys.MasterKey,
	hashKey *keys.HashKey, chunkSize int) (*Provider, error) {

	pipeline, err := transfer.NewPipeline(&s3Backend{client: client, bucket: cfg.Bucket}, hashKey, chunkSize)
	if err != nil {
		hashKey.Destroy()
		masterKey.Destroy()
		return nil, fmt.Errorf("aws: build pipeline: %w", err)
	}

	return &Provider{
		cfg:       cfg,
		pipeline:  pipeline,
		masterKey: masterKey,
		hashKey:   hashKey,
	}, nil
}

// UploadFile implements provider.CloudProvider.
func (p *Provider) UploadFile(ctx context.Context, path string) (provider.StorageID, provider.FileSize, provider.FileHash, error) {
	return p.pipeline.Upload(ctx, path)
}

// DownloadFile implements provider.CloudProvider.
func (p *Provider) DownloadFile(ctx context.Context, id provider.StorageID,
	expectedHash provider.FileHash, expectedSize provider.FileSize, destPath string) error {
	return p.pipeline.Download(ctx, id, expectedHash, expectedSize, destPath)
}

// Bucket returns the configured bucket name.
func (p *Provider) Bucket() string { return p.cfg.Bucket }

// Close destroys the provider's key material. The provider must not be
// used afterwards; in-flight transfers must have finished.
func (p *Provider) Close() {
	p.hashKey.Destroy()
	p.masterKey.Destroy()
}

// String implements fmt.Stringer; the embedded config already redacts.
func (p *Provider) String() string {
	return fmt.Sprintf("aws.Provider{%s}", p.cfg.String())
}
