package initializers

import (
	"context"
	"nr1-risk-backend/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

// InitS3 returns nil when storage is not configured or unreachable; archiving is then disabled.
func InitS3(ctx context.Context) *minio.Client {
	if config.Conf.S3.Endpoint == "" {
		log.Info("S3 não configurado, arquivamento de relatórios desativado")
		return nil
	}
	minioClient, err := minio.New(config.Conf.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Conf.S3.AccessKeyID, config.Conf.S3.SecretAccessKey, ""),
		Secure: *config.Conf.S3.UseSSL,
	})
	if err != nil {
		log.WithError(err).Error("erro ao inicializar o cliente S3")
		return nil
	}
	if _, err = minioClient.BucketExists(ctx, config.Conf.S3.BucketName); err != nil {
		log.WithError(err).Error("falha na conexão com o S3")
		return nil
	}
	log.Info("cliente S3 inicializado")
	return minioClient
}
