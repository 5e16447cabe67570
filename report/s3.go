package report

import (
	"bytes"
	"context"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Exporter uploads the JSON rendering of a report into a bucket.
type S3Exporter struct {
	client     *minio.Client
	bucketName string
	prefix     string
}

func NewS3Exporter(endpoint, bucketName, accessKey, secretKey, prefix string, useSsl bool) (*S3Exporter, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSsl,
	})
	if err != nil {
		return nil, err
	}

	return &S3Exporter{
		client:     client,
		bucketName: bucketName,
		prefix:     prefix,
	}, nil
}

func (*S3Exporter) Name() string {
	return "s3"
}

func (se *S3Exporter) Export(ctx context.Context, report *Report) error {
	exists, err := se.client.BucketExists(ctx, se.bucketName)
	if err != nil {
		return err
	}
	if !exists {
		return ErrBucketNotFound
	}

	content, err := report.JSON()
	if err != nil {
		return err
	}

	_, err = se.client.PutObject(ctx, se.bucketName, se.objectKey(report), bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}

func (se *S3Exporter) objectKey(report *Report) string {
	return path.Join(se.prefix, report.Key()+".json")
}
