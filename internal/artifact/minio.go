package artifact

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOConfig configures an S3-compatible artifact bucket.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key" masq:"secret"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// Validate checks the required fields.
func (c MinIOConfig) Validate() error {
	switch {
	case c.Endpoint == "":
		return goerr.New("minio endpoint is required")
	case c.Bucket == "":
		return goerr.New("minio bucket is required")
	}
	return nil
}

// MinIO stores artifacts as objects in a bucket.
type MinIO struct {
	client *minio.Client
	bucket string
}

// NewMinIO connects to the endpoint and creates the bucket when it does not exist.
func NewMinIO(ctx context.Context, cfg MinIOConfig) (*MinIO, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create minio client", goerr.V("endpoint", cfg.Endpoint))
	}

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to check bucket", goerr.V("bucket", cfg.Bucket))
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, goerr.Wrap(err, "failed to create bucket", goerr.V("bucket", cfg.Bucket))
		}
	}

	return &MinIO{client: cli, bucket: cfg.Bucket}, nil
}

// Put uploads data and returns the object URL. The URL is only directly readable when
// the bucket is public.
func (s *MinIO) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = ContentType(clean)
	}

	_, err = s.client.PutObject(ctx, s.bucket, clean, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to upload artifact", goerr.V("bucket", s.bucket), goerr.V("key", clean))
	}

	endpoint := s.client.EndpointURL()
	return fmt.Sprintf("%s://%s/%s/%s", endpoint.Scheme, endpoint.Host, s.bucket, clean), nil
}

// Get downloads an object.
func (s *MinIO) Get(ctx context.Context, key string) ([]byte, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, s.bucket, clean, minio.GetObjectOptions{})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get artifact", goerr.V("bucket", s.bucket), goerr.V("key", clean))
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, goerr.Wrap(ErrNotFound, "no such artifact", goerr.V("key", clean))
		}
		return nil, goerr.Wrap(err, "failed to read artifact", goerr.V("bucket", s.bucket), goerr.V("key", clean))
	}
	return data, nil
}
