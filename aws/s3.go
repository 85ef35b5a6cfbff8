package aws

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/privatecloudorg/libprivatecloud-go/provider"
	"github.com/privatecloudorg/libprivatecloud-go/transfer"
)

// s3API is the slice of the S3 client the backend actually uses, narrowed
// so tests can substitute a fake without a network.
type s3API interface {
	CreateMultipartUpload(ctx context.Context, params *s3.CreateMultipartUploadInput,
		optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error)
	UploadPart(ctx context.Context, params *s3.UploadPartInput,
		optFns ...func(*s3.Options)) (*s3.UploadPartOutput, error)
	CompleteMultipartUpload(ctx context.Context, params *s3.CompleteMultipartUploadInput,
		optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error)
	AbortMultipartUpload(ctx context.Context, params *s3.AbortMultipartUploadInput,
		optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput,
		optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Backend adapts an S3 bucket's multipart API to the transfer.Backend
// contract. Storage ids map one-to-one onto object keys.
type s3Backend struct {
	client s3API
	bucket string
}

// Compile-time interface check.
var _ transfer.Backend = (*s3Backend)(nil)

// CreateSession implements transfer.Backend.
func (b *s3Backend) CreateSession(ctx context.Context, id provider.StorageID) (string, error) {
	out, err := b.client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(string(id)),
	})
	if err != nil {
		return "", fmt.Errorf("aws: create multipart upload: %w", err)
	}
	return aws.ToString(out.UploadId), nil
}

// UploadPart implements transfer.Backend.
func (b *s3Backend) UploadPart(ctx context.Context, id provider.StorageID,
	sessionID string, partNumber int32, body []byte) (string, error) {
	out, err := b.client.UploadPart(ctx, &s3.UploadPartInput{
		Bucket:     aws.String(b.bucket),
		Key:        aws.String(string(id)),
		UploadId:   aws.String(sessionID),
		PartNumber: aws.Int32(partNumber),
		Body:       bytes.NewReader(body),
	})
	if err != nil {
		return "", fmt.Errorf("aws: upload part %d: %w", partNumber, err)
	}
	return aws.ToString(out.ETag), nil
}

// Complete implements transfer.Backend.
func (b *s3Backend) Complete(ctx context.Context, id provider.StorageID,
	sessionID string, parts []transfer.PartTag) error {
	completed := make([]s3types.CompletedPart, len(parts))
	for i, pt := range parts {
		completed[i] = s3types.CompletedPart{
			ETag:       aws.String(pt.Tag),
			PartNumber: aws.Int32(pt.Number),
		}
	}

	_, err := b.client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(b.bucket),
		Key:      aws.String(string(id)),
		UploadId: aws.String(sessionID),
		MultipartUpload: &s3types.CompletedMultipartUpload{
			Parts: completed,
		},
	})
	if err != nil {
		return fmt.Errorf("aws: complete multipart upload: %w", err)
	}
	return nil
}

// Abort implements transfer.Backend.
func (b *s3Backend) Abort(ctx context.Context, id provider.StorageID, sessionID string) error {
	_, err := b.client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(b.bucket),
		Key:      aws.String(string(id)),
		UploadId: aws.String(sessionID),
	})
	if err != nil {
		return fmt.Errorf("aws: abort multipart upload: %w", err)
	}
	return nil
}

// GetObject implements transfer.Backend.
func (b *s3Backend) GetObject(ctx context.Context, id provider.StorageID) (int64, io.ReadCloser, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(string(id)),
	})
	if err != nil {
		return 0, nil, fmt.Errorf("aws: get object: %w", err)
	}
	return aws.ToInt64(out.ContentLength), out.Body, nil
}
