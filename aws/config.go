// Package aws implements the S3-backed cloud provider: it turns the opaque
// provider configuration into an authenticated S3 client and exposes the
// bucket's multipart protocol to the transfer pipeline.
package aws

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/privatecloudorg/libprivatecloud-go/provider"
)

// Environment variables read by BuildConfig. A .env file in the working
// directory is loaded first when present.
const (
	EnvBucket          = "PRIVATECLOUD_S3_BUCKET"
	EnvRegion          = "PRIVATECLOUD_AWS_REGION"
	EnvAccessKeyID     = "PRIVATECLOUD_AWS_ACCESS_KEY_ID"
	EnvSecretAccessKey = "PRIVATECLOUD_AWS_SECRET_ACCESS_KEY"
	EnvMasterKey       = "PRIVATECLOUD_MASTER_KEY"
)

// Config is the decoded form of the opaque provider configuration blob.
// It carries two secrets (the backend credential and the master key); both
// are redacted in every formatted representation.
type Config struct {
	Bucket          string `json:"s3_bucket"`
	Region          string `json:"aws_region"`
	AccessKeyID     string `json:"aws_access_key_id"`
	SecretAccessKey string `json:"aws_secret_access_key"`
	MasterKeyHex    string `json:"master_key"`
}

// String implements fmt.Stringer with secrets redacted.
func (c Config) String() string {
	return fmt.Sprintf("Config{Bucket:%s Region:%s AccessKeyID:%s SecretAccessKey:***** MasterKey:*****}",
		c.Bucket, c.Region, c.AccessKeyID)
}

// GoString implements fmt.GoStringer so %#v also redacts.
func (c Config) GoString() string { return c.String() }

// Format implements fmt.Formatter, redacting under every verb.
func (c Config) Format(f fmt.State, verb rune) {
	fmt.Fprint(f, c.String())
}

// validate checks that every required field is present.
func (c Config) validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"s3_bucket", c.Bucket},
		{"aws_region", c.Region},
		{"aws_access_key_id", c.AccessKeyID},
		{"aws_secret_access_key", c.SecretAccessKey},
		{"master_key", c.MasterKeyHex},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w: missing %s", provider.ErrConfig, f.name)
		}
	}
	return nil
}

// decodeConfig parses the opaque blob. Only this package interprets its
// structure; the transfer pipeline never sees inside it.
func decodeConfig(blob provider.Config) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(blob, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", provider.ErrConfig, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// encodeConfig serializes a Config into the opaque blob form.
func encodeConfig(cfg Config) (provider.Config, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	blob, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", provider.ErrConfig, err)
	}
	return provider.Config(blob), nil
}

// BuildConfig assembles the opaque provider configuration from the
// environment, loading a .env file first if one exists. The resulting blob
// contains secrets and must be handled accordingly.
func BuildConfig() (provider.Config, error) {
	// Absence of a .env file is fine; the variables may be set directly.
	_ = godotenv.Load()

	return encodeConfig(Config{
		Bucket:          os.Getenv(EnvBucket),
		Region:          os.Getenv(EnvRegion),
		AccessKeyID:     os.Getenv(EnvAccessKeyID),
		SecretAccessKey: os.Getenv(EnvSecretAccessKey),
		MasterKeyHex:    os.Getenv(EnvMasterKey),
	})
}
