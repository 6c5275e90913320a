package initializers

import (
	"context"
	"nr1-risk-backend/config"
	"nr1-risk-backend/db"
	"nr1-risk-backend/fiberlog"
	"nr1-risk-backend/lib/analytics"
	xlsexport "nr1-risk-backend/lib/export/xls"
	filestorage "nr1-risk-backend/lib/file-storage"
	orgstore "nr1-risk-backend/lib/organization/store"
	riskalert "nr1-risk-backend/lib/risk-alert"
	riskcheckworker "nr1-risk-backend/lib/risk-alert/check-worker"
	"nr1-risk-backend/lib/smtp"
	surveyresponse "nr1-risk-backend/lib/survey-response"
	"time"

	"github.com/redis/go-redis/v9"
)

var LoggerConfig *fiberlog.Config

// InitAnalyticsServices wires everything the analytics operations need; the CLI stops here.
func InitAnalyticsServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitSmtp()
	filestorage.NewHandler(InitS3(ctx), config.Conf.S3.BucketName)
	riskalert.NewHandler(riskalert.Config{
		WebhookURL:   config.Conf.Alerts.WebhookURL,
		Cooldown:     time.Duration(config.Conf.Alerts.CooldownSec) * time.Second,
		MaxRetryTime: time.Duration(config.Conf.Alerts.MaxRetryTimeSec) * time.Second,
	}, newCooldown(InitRedis(ctx)), orgstore.NewInstance(db.DB), smtp.Instance)
	xlsexport.NewHandler()
	analytics.NewHandler(analytics.Config{
		Thresholds: config.Conf.AnonymityThresholds(),
		PageSize:   config.Conf.App.ReportPageSize,
	})
}

func InitAllServices(ctx context.Context) {
	InitAnalyticsServices(ctx)
	surveyresponse.NewHandler(surveyresponse.ThresholdCheckerFunc(func(ctx context.Context, orgID, assessmentID string) error {
		_, err := riskcheckworker.Check(ctx, analytics.Instance, orgID, assessmentID)
		return err
	}))
	if interval := config.Conf.App.RiskCheckIntervalMin; interval > 0 {
		riskcheckworker.StartWorker(ctx, analytics.Instance, time.Duration(interval)*time.Minute)
	}
}

func newCooldown(client *redis.Client) riskalert.Cooldown {
	if client == nil {
		return riskalert.NoCooldown{}
	}
	return riskalert.NewRedisCooldown(client)
}
