// Package awsclient resolves the shared AWS SDK configuration used by the
// Polly and S3 clients.
package awsclient

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/aneeshpen/simple-aws-polly-tts/internal/config"
)

// Load builds an aws.Config for cfg. Static keys are used when both halves
// are present; otherwise the SDK's default credential chain applies.
func Load(ctx context.Context, cfg config.Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("awsclient: load config: %w", err)
	}
	return awsCfg, nil
}

// PollyOptions applies the configured endpoint override to the Polly client.
func PollyOptions(cfg config.Config) []func(*polly.Options) {
	if cfg.Endpoint == "" {
		return nil
	}
	return []func(*polly.Options){
		func(o *polly.Options) { o.BaseEndpoint = aws.String(cfg.Endpoint) },
	}
}

// S3Options applies the configured endpoint override to the S3 client.
// Custom endpoints (LocalStack, MinIO) need path-style addressing.
func S3Options(cfg config.Config) []func(*s3.Options) {
	if cfg.Endpoint == "" {
		return nil
	}
	return []func(*s3.Options){
		func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		},
	}
}
