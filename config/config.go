package config

import (
	"nr1-risk-backend/models"
	"os"

	"github.com/gotify/configor"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr     string `default:"" env:"APP_HOST"`
		Port           int    `default:"8080"  env:"APP_PORT"`
		BodyLimit      int    `default:"1048576" env:"APP_BODY_LIMIT"`
		ErrNotifyURL   string `default:"" env:"APP_ERR_NOTIFY_URL"`
		SwaggerFile    string `default:"./docs/swagger.yaml" env:"APP_SWAGGER_FILE"`
		ReportPageSize int    `default:"1000" env:"APP_REPORT_PAGE_SIZE"`
		// 0 disables the periodic risk check
		RiskCheckIntervalMin int `default:"60" env:"APP_RISK_CHECK_INTERVAL_MIN"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"nr1-risk" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		From       string `default:"" env:"SMTP_FROM"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
	}
	S3 struct {
		Endpoint        string `default:"" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		BucketName      string `default:"nr1-reports" env:"S3_BUCKET_NAME"`
	}
	Redis struct {
		URL string `default:"" env:"REDIS_URL"`
	}
	Auth struct {
		JWTSecret      string `default:"" env:"JWT_SECRET"`
		JWTExpireInSec int    `default:"86400" env:"JWT_EXPIRE_IN_SEC"`
	}
	Anonymity struct {
		Assessment        int `default:"5" env:"ANONYMITY_ASSESSMENT_MIN"`
		Category          int `default:"5" env:"ANONYMITY_CATEGORY_MIN"`
		Question          int `default:"5" env:"ANONYMITY_QUESTION_MIN"`
		Department        int `default:"5" env:"ANONYMITY_DEPARTMENT_MIN"`
		DetailedResponses int `default:"10" env:"ANONYMITY_DETAILED_RESPONSES_MIN"`
	}
	Alerts struct {
		WebhookURL      string `default:"" env:"ALERTS_WEBHOOK_URL"`
		CooldownSec     int    `default:"86400" env:"ALERTS_COOLDOWN_SEC"`
		MaxRetryTimeSec int    `default:"30" env:"ALERTS_MAX_RETRY_TIME_SEC"`
	}
}

func (c Configuration) AnonymityThresholds() models.AnonymityThresholds {
	return models.AnonymityThresholds{
		Assessment:        c.Anonymity.Assessment,
		Category:          c.Anonymity.Category,
		Question:          c.Anonymity.Question,
		Department:        c.Anonymity.Department,
		DetailedResponses: c.Anonymity.DetailedResponses,
	}
}

func configFiles() []string {
	if file := os.Getenv("CONFIG_FILE"); file != "" {
		return []string{file}
	}
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("erro ao carregar .env")
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	if err = conf.AnonymityThresholds().Validate(); err != nil {
		panic(err)
	}
	Conf = conf
}
