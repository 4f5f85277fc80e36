package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	sc "github.com/HASHIM-HAMEEM/Library-System-sub000/internal/server/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// SnapshotStore keeps rendered QR images so a holder can fetch the current
// code from another device.
type SnapshotStore interface {
	Put(ctx context.Context, key string, png []byte) error
	PresignGet(ctx context.Context, key string) (string, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// SnapshotKey is the object key of a QR image.
func SnapshotKey(userID, qrID string, now time.Time) string {
	d := now.UTC()
	return fmt.Sprintf("qr/%s/%d/%02d/%02d/%s.png", userID, d.Year(), d.Month(), d.Day(), qrID)
}

// S3SnapshotStore stores snapshots in an S3-compatible bucket (MinIO in
// development).
type S3SnapshotStore struct {
	config *sc.Config
}

func NewS3SnapshotStore(config *sc.Config) *S3SnapshotStore {
	return &S3SnapshotStore{config: config}
}

func (s *S3SnapshotStore) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

func (s *S3SnapshotStore) Put(ctx context.Context, key string, png []byte) error {
	client, err := s.getClient(ctx)
	if err != nil {
		return err
	}

	bucket := s.config.S3Bucket
	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(png),
		ContentType: aws.String("image/png"),
	})
	return err
}

func (s *S3SnapshotStore) PresignGet(ctx context.Context, key string) (string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.SnapshotURLTTL))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
