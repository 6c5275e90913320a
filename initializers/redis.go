package initializers

import (
	"context"
	"nr1-risk-backend/config"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// InitRedis returns nil when Redis is not configured or unreachable.
func InitRedis(ctx context.Context) *redis.Client {
	if config.Conf.Redis.URL == "" {
		log.Info("Redis não configurado, intervalo entre alertas desativado")
		return nil
	}
	opts, err := redis.ParseURL(config.Conf.Redis.URL)
	if err != nil {
		log.WithError(err).Error("URL do Redis inválida")
		return nil
	}
	client := redis.NewClient(opts)
	if err = client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Error("falha na conexão com o Redis")
		_ = client.Close()
		return nil
	}
	log.Info("cliente Redis inicializado")
	return client
}
