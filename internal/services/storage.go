package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"brandvault/internal/config"
	"brandvault/internal/models"
	"brandvault/internal/utils/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Ensure StorageService can resolve signed URLs for model hooks
var _ models.SignedURLResolver = (*StorageService)(nil)

// StorageService wraps the assets bucket: temp uploads live under the
// temp-uploads prefix, finalized materials under {categoryType}/{categoryId}.
type StorageService struct {
	client     *s3.Client
	bucketName string
	endpoint   string
	region     string
	logger     *logger.Logger
}

func NewStorageService(cfg config.S3Config) (*StorageService, error) {
	log := logger.New("storage_service")

	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, log.Error("storage credentials are empty ❌", fmt.Errorf("accessKey or secretKey is empty"))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
		awsconfig.WithRetryMode(aws.RetryModeStandard),
		awsconfig.WithRetryMaxAttempts(3),
	)
	if err != nil {
		return nil, log.Error("Unable to load SDK config ❌", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.%s", cfg.Region, cfg.Endpoint))
		}
	})

	// Verify credentials before accepting uploads
	_, err = client.ListObjectsV2(context.TODO(), &s3.ListObjectsV2Input{
		Bucket:  aws.String(cfg.BucketName),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return nil, log.Error("Failed to verify storage credentials ❌", err)
	}

	log.Success("Storage service initialized successfully ✅")

	return &StorageService{
		client:     client,
		bucketName: cfg.BucketName,
		endpoint:   cfg.Endpoint,
		region:     cfg.Region,
		logger:     log,
	}, nil
}

// Upload streams one object to the given key and returns its public URL.
func (s *StorageService) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        body,
		ACL:         types.ObjectCannedACLPublicRead,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", s.logger.Error("Failed to upload object ❌", err)
	}
	return s.PublicURL(key), nil
}

// Move renames an object server-side via copy + delete. S3 has no native
// rename, so a crash between the two calls leaves the source behind for the
// temp sweeper.
func (s *StorageService) Move(ctx context.Context, srcKey, dstKey string) (string, error) {
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucketName),
		CopySource: aws.String(s.bucketName + "/" + srcKey),
		Key:        aws.String(dstKey),
		ACL:        types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", s.logger.Error("Failed to copy object ❌", err)
	}

	if err := s.Delete(ctx, srcKey); err != nil {
		s.logger.Warn("moved object but source delete failed: %s", srcKey)
	}
	return s.PublicURL(dstKey), nil
}

// Delete removes one or more objects; multiple keys go out as a single
// batched DeleteObjects call.
func (s *StorageService) Delete(ctx context.Context, keys ...string) error {
	switch len(keys) {
	case 0:
		return nil
	case 1:
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucketName),
			Key:    aws.String(keys[0]),
		})
		if err != nil {
			return s.logger.Error("Failed to delete object ❌", err)
		}
		return nil
	}

	objects := make([]types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
	}
	_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucketName),
		Delete: &types.Delete{
			Objects: objects,
			Quiet:   aws.Bool(true),
		},
	})
	if err != nil {
		return s.logger.Error("Failed to delete objects ❌", err)
	}
	return nil
}

// ListPrefix returns keys and last-modified times under a prefix, paginated
// internally. Used by the temp-uploads sweeper.
func (s *StorageService) ListPrefix(ctx context.Context, prefix string) (map[string]time.Time, error) {
	out := make(map[string]time.Time)
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucketName),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, s.logger.Error("Failed to list objects ❌", err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			modified := time.Time{}
			if obj.LastModified != nil {
				modified = *obj.LastModified
			}
			out[*obj.Key] = modified
		}
	}
	return out, nil
}

// PublicURL resolves the permanent URL for a key.
func (s *StorageService) PublicURL(key string) string {
	if s.endpoint != "" {
		// Custom endpoint (e.g., R2, MinIO)
		return fmt.Sprintf("https://%s.%s/%s/%s", s.region, s.endpoint, s.bucketName, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucketName, s.region, key)
}

// KeyFromURL inverts PublicURL; empty when the URL is not ours.
func (s *StorageService) KeyFromURL(url string) string {
	base := s.PublicURL("")
	if !strings.HasPrefix(url, base) {
		return ""
	}
	return strings.TrimPrefix(url, base)
}

// GetSignedURL implements models.SignedURLResolver for shared-link reads.
// Accepts either a bare key or one of our public URLs.
func (s *StorageService) GetSignedURL(ctx context.Context, path string, duration time.Duration) (string, error) {
	if strings.HasPrefix(path, "http") {
		if key := s.KeyFromURL(path); key != "" {
			path = key
		}
	}

	presignClient := s3.NewPresignClient(s.client)

	presignedURL, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(path),
	}, s3.WithPresignExpires(duration))
	if err != nil {
		return "", s.logger.Error("Failed to generate pre-signed URL ❌", err)
	}
	return presignedURL.URL, nil
}
