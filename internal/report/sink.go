package report

import (
	"bytes"
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rotisserie/eris"

	"github.com/sells-group/proforma/internal/resilience"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sink stores an exported file and returns where it went.
type Sink interface {
	Put(ctx context.Context, name string, body []byte) (string, error)
}

// FileSink writes exports into a local directory.
type FileSink struct {
	Dir string
}

func (s FileSink) Put(_ context.Context, name string, body []byte) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "report: create %s", dir)
	}
	p := filepath.Join(dir, filepath.Base(name))
	if err := os.WriteFile(p, body, 0o644); err != nil {
		return "", eris.Wrapf(err, "report: write %s", p)
	}
	return p, nil
}

// objectPutter is the part of *s3.Client the sink uses.
type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Config configures an S3Sink. Endpoint and PathStyle support MinIO.
type S3Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	PathStyle bool
	Breaker   resilience.BreakerConfig
}

// S3Sink uploads exports to a bucket, retrying transient failures behind a
// circuit breaker.
type S3Sink struct {
	client  objectPutter
	bucket  string
	prefix  string
	retry   resilience.RetryConfig
	breaker *resilience.Breaker
}

// NewS3Sink builds a client from the default AWS credential chain.
func NewS3Sink(ctx context.Context, cfg S3Config, retry resilience.RetryConfig) (*S3Sink, error) {
	if cfg.Bucket == "" {
		return nil, eris.New("report: s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, eris.Wrap(err, "report: load aws config")
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newS3Sink(client, cfg, retry), nil
}

func newS3Sink(client objectPutter, cfg S3Config, retry resilience.RetryConfig) *S3Sink {
	if retry.OnRetry == nil {
		retry.OnRetry = resilience.RetryLogger("report", "s3_put")
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker.Name = "s3:" + cfg.Bucket
	}
	return &S3Sink{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  cfg.Prefix,
		retry:   retry,
		breaker: resilience.NewBreaker(cfg.Breaker),
	}
}

func (s *S3Sink) Put(ctx context.Context, name string, body []byte) (string, error) {
	key := path.Join(s.prefix, path.Base(name))
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return resilience.Do(ctx, s.retry, func(ctx context.Context) error {
			_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
				Bucket:      aws.String(s.bucket),
				Key:         aws.String(key),
				Body:        bytes.NewReader(body),
				ContentType: aws.String(xlsxContentType),
			})
			return err
		})
	})
	if err != nil {
		return "", eris.Wrapf(err, "report: upload s3://%s/%s", s.bucket, key)
	}
	return "s3://" + s.bucket + "/" + key, nil
}
