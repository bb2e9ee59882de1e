package filemanager

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"estatehub/pkg/config"
	"estatehub/pkg/logger"
)

var Module = fx.Provide(New)

// File stores objects in the receipts bucket.
type File interface {
	Upload(ctx context.Context, body io.Reader, dir, filename, contentType string) error
}

type Params struct {
	fx.In

	Logger logger.Logger
	Config config.IConfig
}

type file struct {
	logger   logger.Logger
	uploader *manager.Uploader
	bucket   string
}

type nopFile struct{}

// New returns an S3-backed store, or a no-op one when no bucket is configured.
func New(p Params) (File, error) {
	ctx := context.Background()

	bucket := p.Config.GetString("aws_s3_bucket")
	if bucket == "" {
		p.Logger.Info(ctx, "receipt archive disabled: aws_s3_bucket is empty")
		return nopFile{}, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(p.Config.GetString("aws_region")),
	}
	if key := p.Config.GetString("aws_access_key_id"); key != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, p.Config.GetString("aws_secret_access_key"), ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		p.Logger.Error(ctx, "failed to load aws config", zap.Error(err))
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &file{
		logger:   p.Logger,
		uploader: manager.NewUploader(s3.NewFromConfig(awsCfg)),
		bucket:   bucket,
	}, nil
}

func (f *file) Upload(ctx context.Context, body io.Reader, dir, filename, contentType string) error {
	_, err := f.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(f.bucket),
		Key:         aws.String(path.Join(dir, filename)),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 upload: %w", err)
	}
	return nil
}

func (nopFile) Upload(context.Context, io.Reader, string, string, string) error { return nil }
