// Package s3 stages files in S3 with the temporary credentials issued by
// the Mapbox Uploads API.
package s3

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/couchcryptid/interconnection-etl/internal/domain"
	"github.com/couchcryptid/interconnection-etl/internal/observability"
)

// Uploader copies local files to the bucket/key named by upload credentials.
type Uploader struct {
	region   string
	endpoint string
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewUploader creates an uploader for region. endpoint overrides the S3
// endpoint (path-style addressing) and is empty for AWS itself.
func NewUploader(region, endpoint string, metrics *observability.Metrics, logger *slog.Logger) *Uploader {
	return &Uploader{region: region, endpoint: endpoint, metrics: metrics, logger: logger}
}

func (u *Uploader) client(creds domain.UploadCredentials) *awss3.Client {
	opts := awss3.Options{
		Region: u.region,
		Credentials: credentials.NewStaticCredentialsProvider(
			creds.AccessKeyID, creds.SecretAccessKey, creds.SessionToken),
	}
	if u.endpoint != "" {
		opts.BaseEndpoint = aws.String(u.endpoint)
		opts.UsePathStyle = true
	}
	return awss3.New(opts)
}

// UploadFile copies the file at path to s3://{creds.Bucket}/{creds.Key}.
func (u *Uploader) UploadFile(ctx context.Context, path string, creds domain.UploadCredentials) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	u.logger.Info("uploading file to s3", "file", path, "bucket", creds.Bucket, "key", creds.Key)
	out, err := manager.NewUploader(u.client(creds)).Upload(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(creds.Bucket),
		Key:         aws.String(creds.Key),
		Body:        f,
		ContentType: aws.String("application/geo+json"),
	})
	if err != nil {
		u.metrics.UploadRequests.WithLabelValues("s3", "error").Inc()
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	u.metrics.UploadRequests.WithLabelValues("s3", "success").Inc()
	return out.Location, nil
}
