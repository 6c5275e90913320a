package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	ArchiveReport(ctx context.Context, orgID, assessmentID, ext, contentType string, data []byte) (objectName string, err error)
}

var Instance Provider

// NewHandler accepts a nil client: archiving is then skipped.
func NewHandler(s3client *minio.Client, bucketName string) {
	Instance = &impl{
		s3client:   s3client,
		bucketName: bucketName,
	}
}

type impl struct {
	s3client   *minio.Client
	bucketName string
}

func (i *impl) ArchiveReport(ctx context.Context, orgID, assessmentID, ext, contentType string, data []byte) (string, error) {
	if i.s3client == nil || i.bucketName == "" {
		return "", nil
	}
	if err := i.makeBucket(ctx); err != nil {
		return "", errors.Wrap(err, "erro ao criar bucket de relatórios")
	}
	objectName := ReportObjectName(orgID, assessmentID, ext, time.Now())
	_, err := i.s3client.PutObject(ctx, i.bucketName, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, "erro ao enviar relatório para o S3")
	}
	log.
		WithField("organization_id", orgID).
		WithField("assessment_id", assessmentID).
		WithField("object", objectName).
		Info("relatório arquivado")
	return objectName, nil
}

func (i *impl) makeBucket(ctx context.Context) error {
	exists, err := i.s3client.BucketExists(ctx, i.bucketName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return i.s3client.MakeBucket(ctx, i.bucketName, minio.MakeBucketOptions{Region: "us-east-1"})
}

func ReportObjectName(orgID, assessmentID, ext string, at time.Time) string {
	return fmt.Sprintf("reports/%s/%s/%s.%s", orgID, assessmentID, at.UTC().Format("20060102-150405"), ext)
}
