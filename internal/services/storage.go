package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gofrs/uuid"
)

const (
	BucketTaskProofs      = "task-proofs"
	BucketProfilePictures = "profile-pictures"
)

type StorageService interface {
	UploadProof(ctx context.Context, taskID uuid.UUID, filename string, body io.Reader) (string, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, filename string, body io.Reader) (string, error)
}

type StorageConfig struct {
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// S3StorageService talks to any S3-compatible object store; the
// endpoint and public URL base come from configuration.
type S3StorageService struct {
	client        *s3.Client
	publicBaseURL string
}

func NewS3StorageService(ctx context.Context, cfg StorageConfig) (*S3StorageService, error) {
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load object storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &S3StorageService{
		client:        client,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func (s *S3StorageService) UploadProof(ctx context.Context, taskID uuid.UUID, filename string, body io.Reader) (string, error) {
	key := fmt.Sprintf("%s/%d%s", taskID.String(), time.Now().UnixNano(), path.Ext(filename))
	return s.upload(ctx, BucketTaskProofs, key, filename, body)
}

func (s *S3StorageService) UploadAvatar(ctx context.Context, userID uuid.UUID, filename string, body io.Reader) (string, error) {
	key := fmt.Sprintf("%s%s", userID.String(), path.Ext(filename))
	return s.upload(ctx, BucketProfilePictures, key, filename, body)
}

func (s *S3StorageService) upload(ctx context.Context, bucket, key, filename string, body io.Reader) (string, error) {
	contentType := mime.TypeByExtension(path.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s/%s: %w", bucket, key, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, bucket, key), nil
}
