package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"innkeep/config"
	"innkeep/infras/otel"
	"innkeep/shared/constant"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrObjectKey = "object_key"
	otelAttrBucket    = "bucket"
)

// ObjectStore writes immutable objects, used for reservation archives.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (url string, err error)
	Delete(ctx context.Context, key string) error
	Enabled() bool
}

type s3Impl struct {
	client *s3.Client
	bucket string
	domain string
	otel   otel.Otel
}

func (svc *s3Impl) Enabled() bool {
	return svc.client != nil && svc.bucket != constant.Empty
}

func (svc *s3Impl) Put(ctx context.Context, key, contentType string, data []byte) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Put")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: key,
		otelAttrBucket:    svc.bucket,
	})

	if !svc.Enabled() {
		return constant.Empty, fmt.Errorf("object store is not configured")
	}

	body := bytes.NewReader(data)

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(svc.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(body.Size()),
	})
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to put %s: %w", key, err)
	}

	return svc.url(key), nil
}

func (svc *s3Impl) Delete(ctx context.Context, key string) (err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: key,
		otelAttrBucket:    svc.bucket,
	})

	_, err = svc.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(svc.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to delete object")

		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}

func (svc *s3Impl) url(key string) string {
	if svc.domain == constant.Empty {
		return fmt.Sprintf("s3://%s/%s", svc.bucket, key)
	}

	return strings.TrimSuffix(svc.domain, "/") + "/" + path.Clean(key)
}

// New returns a disabled store when no bucket is configured.
func New(config *config.Config, otel otel.Otel) ObjectStore {
	conf := config.External.S3
	impl := &s3Impl{bucket: conf.BucketName, domain: conf.PublicDomain, otel: otel}

	if conf.BucketName == constant.Empty {
		log.Info().Msg("S3 bucket not configured, archiving disabled")

		return impl
	}

	staticProvider := credentials.NewStaticCredentialsProvider(conf.AccessKeyID, conf.SecretAccessKey, constant.Empty)

	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(staticProvider),
		awsConfig.WithRegion(conf.Region),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to load AWS configuration, archiving disabled")

		return impl
	}

	impl.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if conf.APIEndpoint != constant.Empty {
			o.BaseEndpoint = aws.String(conf.APIEndpoint)
			o.UsePathStyle = true
		}
	})

	return impl
}
