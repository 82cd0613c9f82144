// Package s3 implements the object store on top of the AWS S3 API.
// Works against real S3 or anything speaking its protocol (minio,
// localstack) via the endpoint override.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"

	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/config"
	"github.com/LadislavMokry/A11-Moodboard-sub000/internal/service"
)

// deleteBatchLimit is the S3 DeleteObjects per-request maximum.
const deleteBatchLimit = 1000

// api is the slice of the S3 client this package uses, extracted so
// tests can substitute a mock.
type api interface {
	GetObject(ctx context.Context, params *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	DeleteObjects(ctx context.Context, params *awss3.DeleteObjectsInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectsOutput, error)
	ListObjectsV2(ctx context.Context, params *awss3.ListObjectsV2Input, optFns ...func(*awss3.Options)) (*awss3.ListObjectsV2Output, error)
}

type Storage struct {
	client api
	bucket string
}

// Ensure Storage satisfies the service-side contracts at compile time.
var (
	_ service.ObjectStorage   = (*Storage)(nil)
	_ service.GCObjectStorage = (*Storage)(nil)
)

func New(ctx context.Context, cfg *config.Config) (*Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Public.S3.Region),
	}
	if cfg.Private.S3Auth.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Private.S3Auth.AccessKeyID, cfg.Private.S3Auth.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Public.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Public.S3.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Storage{client: client, bucket: cfg.Public.S3.Bucket}, nil
}

// Download fetches an object's payload and content type.
func (s *Storage) Download(ctx context.Context, path string) ([]byte, string, error) {
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return nil, "", fmt.Errorf("downloading %q: %w", path, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading %q: %w", path, err)
	}
	return data, aws.ToString(out.ContentType), nil
}

// Upload writes an object without overwriting: a racing write to the
// same key fails with a precondition error instead of clobbering it.
func (s *Storage) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}

	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		return fmt.Errorf("uploading %q: %w", path, err)
	}
	return nil
}

// Delete removes objects in batches of the API limit.
func (s *Storage) Delete(ctx context.Context, paths []string) error {
	for start := 0; start < len(paths); start += deleteBatchLimit {
		end := min(start+deleteBatchLimit, len(paths))

		objects := make([]types.ObjectIdentifier, 0, end-start)
		for _, p := range paths[start:end] {
			objects = append(objects, types.ObjectIdentifier{Key: aws.String(p)})
		}

		out, err := s.client.DeleteObjects(ctx, &awss3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return fmt.Errorf("deleting %d objects: %w", end-start, err)
		}
		if len(out.Errors) > 0 {
			first := out.Errors[0]
			return fmt.Errorf("deleting %q: %s", aws.ToString(first.Key), aws.ToString(first.Message))
		}
	}
	return nil
}

// List walks the whole bucket, for the orphan sweep.
func (s *Storage) List(ctx context.Context) ([]service.ObjectInfo, error) {
	var objects []service.ObjectInfo

	paginator := awss3.NewListObjectsV2Paginator(s.client, &awss3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing bucket %q: %w", s.bucket, err)
		}
		for _, obj := range page.Contents {
			objects = append(objects, service.ObjectInfo{
				Path:         aws.ToString(obj.Key),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}
	return objects, nil
}
