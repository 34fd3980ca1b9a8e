// Package storage provides the persistence sinks a generation run writes
// its tile images and hotspot descriptors to.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/paulmach/orb/maptile"
	"github.com/sirupsen/logrus"

	"hotspots/internal/keys"
)

// S3Sink persists tile artifacts to an S3-compatible bucket (MinIO, AWS,
// a CDN origin). Objects are keyed by the shared keys layout, so the bucket
// can be served directly as a tile URL template.
type S3Sink struct {
	client *minio.Client
	bucket string
	jsonp  bool
	log    *logrus.Logger
}

// NewS3Sink connects to the S3 endpoint configured through the MINIO_*
// environment variables and targets the given bucket. jsonp controls the
// descriptor key extension and content type.
func NewS3Sink(bucket string, jsonp bool, log *logrus.Logger) (*S3Sink, error) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	secretKey := os.Getenv("MINIO_SECRET_KEY")
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("missing one or more required environment variables: MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY")
	}
	if bucket == "" {
		return nil, fmt.Errorf("tile bucket name is required")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	log.Infof("connected to MinIO endpoint %s, bucket %s", endpoint, bucket)
	return &S3Sink{client: client, bucket: bucket, jsonp: jsonp, log: log}, nil
}

// EnsureBucket creates the target bucket if it does not exist yet.
func (s *S3Sink) EnsureBucket(ctx context.Context, location string) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: location}); err != nil {
			return fmt.Errorf("error creating bucket %s: %w", s.bucket, err)
		}
		s.log.Infof("created bucket %s", s.bucket)
	}
	return nil
}

// WriteTile stores a tile's PNG raster. S3 object puts are atomic, so a
// failed write never leaves a partial tile visible.
func (s *S3Sink) WriteTile(ctx context.Context, tile maptile.Tile, data []byte) error {
	return s.put(ctx, keys.TileImage(tile), data, "image/png")
}

// WriteFragment stores a tile's hotspot descriptor.
func (s *S3Sink) WriteFragment(ctx context.Context, tile maptile.Tile, data []byte) error {
	contentType := "application/json"
	if s.jsonp {
		contentType = "application/javascript"
	}
	return s.put(ctx, keys.TileFragment(tile, s.jsonp), data, contentType)
}

func (s *S3Sink) put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return fmt.Errorf("failed to store %s in bucket %s: %w", key, s.bucket, err)
	}
	s.log.Debugf("stored %s (%d bytes)", key, len(data))
	return nil
}
