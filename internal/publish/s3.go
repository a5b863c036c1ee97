package publish

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Uploader uploads objects through the S3 transfer manager, which switches
// to multipart uploads for large bodies.
type S3Uploader struct {
	uploader *manager.Uploader
}

// NewS3Uploader wraps client in a transfer manager.
func NewS3Uploader(client manager.UploadAPIClient, opts ...func(*manager.Uploader)) *S3Uploader {
	return &S3Uploader{uploader: manager.NewUploader(client, opts...)}
}

// Upload implements Uploader.
func (u *S3Uploader) Upload(ctx context.Context, obj Object) error {
	input := &s3.PutObjectInput{
		Bucket:   aws.String(obj.Bucket),
		Key:      aws.String(obj.Key),
		Body:     obj.Body,
		Metadata: obj.Metadata,
	}
	if obj.ContentType != "" {
		input.ContentType = aws.String(obj.ContentType)
	}
	if obj.ACL != "" {
		input.ACL = types.ObjectCannedACL(obj.ACL)
	}
	if _, err := u.uploader.Upload(ctx, input); err != nil {
		return fmt.Errorf("s3: upload: %w", err)
	}
	return nil
}
