package riskalert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"nr1-risk-backend/lib/smtp"
	initchecker "nr1-risk-backend/lib/utils/init-checker"
	"nr1-risk-backend/models"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Alert struct {
	OrganizationID  string              `json:"organization_id"`
	AssessmentID    string              `json:"assessment_id"`
	AssessmentTitle string              `json:"assessment_title"`
	Category        models.RiskCategory `json:"category"`
	CategoryLabel   string              `json:"category_label"`
	Score           float64             `json:"score"`
	Threshold       float64             `json:"threshold"`
	Level           models.RiskLevel    `json:"level"`
}

func (a Alert) key() string {
	return fmt.Sprintf("%s:%s:%s", a.AssessmentID, a.Category, a.Level)
}

type RecipientProvider interface {
	ListAdminEmails(ctx context.Context, orgID string) ([]string, error)
}

type Provider interface {
	// Notify returns sent=false without error while the alert is in cooldown.
	Notify(ctx context.Context, alert Alert) (sent bool, err error)
}

var Instance Provider

var ErrNoRecipients = errors.New("nenhum destinatário para o alerta")

type Config struct {
	WebhookURL   string
	Cooldown     time.Duration
	MaxRetryTime time.Duration
}

func NewHandler(cfg Config, cooldown Cooldown, recipients RecipientProvider, mailer smtp.Provider) {
	instance := newImpl(cfg, cooldown, recipients, mailer)
	initchecker.CheckInit(
		"cooldown", instance.cooldown,
		"recipients", instance.recipients,
		"mailer", instance.mailer,
	)
	Instance = instance
}

func newImpl(cfg Config, cooldown Cooldown, recipients RecipientProvider, mailer smtp.Provider) *impl {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 24 * time.Hour
	}
	if cfg.MaxRetryTime <= 0 {
		cfg.MaxRetryTime = 30 * time.Second
	}
	return &impl{
		cfg:        cfg,
		cooldown:   cooldown,
		recipients: recipients,
		mailer:     mailer,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.MaxElapsedTime = cfg.MaxRetryTime
			return b
		},
	}
}

type impl struct {
	cfg        Config
	cooldown   Cooldown
	recipients RecipientProvider
	mailer     smtp.Provider
	httpClient *http.Client
	newBackOff func() backoff.BackOff
}

func (i *impl) Notify(ctx context.Context, alert Alert) (bool, error) {
	logger := log.
		WithField("organization_id", alert.OrganizationID).
		WithField("assessment_id", alert.AssessmentID).
		WithField("category", alert.Category).
		WithField("level", alert.Level)

	acquired, err := i.cooldown.Acquire(ctx, alert.key(), i.cfg.Cooldown)
	if err != nil {
		logger.WithError(err).Warn("cooldown de alertas indisponível, enviando mesmo assim")
		acquired = true
	}
	if !acquired {
		logger.Debug("alerta em cooldown")
		return false, nil
	}

	mailSent, mailErr := i.sendEmail(ctx, alert)
	if mailErr != nil {
		logger.WithError(mailErr).Warn("alerta não enviado por e-mail")
	}
	hookSent, hookErr := i.sendWebhook(ctx, alert)
	if hookErr != nil {
		logger.WithError(hookErr).Warn("alerta não enviado para o webhook")
	}
	if !mailSent && !hookSent {
		if err := i.cooldown.Release(ctx, alert.key()); err != nil {
			logger.WithError(err).Warn("erro ao liberar cooldown do alerta")
		}
		switch {
		case mailErr != nil:
			return false, errors.Wrap(mailErr, "alerta não enviado")
		case hookErr != nil:
			return false, errors.Wrap(hookErr, "alerta não enviado")
		}
		return false, ErrNoRecipients
	}
	logger.Info("alerta de risco enviado")
	return true, nil
}

func (i *impl) sendEmail(ctx context.Context, alert Alert) (bool, error) {
	emails, err := i.recipients.ListAdminEmails(ctx, alert.OrganizationID)
	if err != nil {
		return false, errors.Wrap(err, "erro ao obter destinatários")
	}
	if len(emails) == 0 {
		return false, nil
	}
	subject := fmt.Sprintf("Risco %s em %s", alert.Level.ToHuman(), alert.CategoryLabel)
	if err = i.mailer.SendEMail(emails, subject, alertMessage(alert)); err != nil {
		return false, err
	}
	return true, nil
}

func alertMessage(alert Alert) string {
	return fmt.Sprintf("A avaliação \"%s\" atingiu nível de risco %s na categoria %s.\r\n"+
		"Pontuação média: %.2f (limite %.2f).\r\n"+
		"Os resultados respeitam os limites de anonimato configurados.",
		alert.AssessmentTitle, alert.Level.ToHuman(), alert.CategoryLabel, alert.Score, alert.Threshold)
}

func (i *impl) sendWebhook(ctx context.Context, alert Alert) (bool, error) {
	if i.cfg.WebhookURL == "" {
		return false, nil
	}
	payload, err := json.Marshal(alert)
	if err != nil {
		return false, err
	}
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.cfg.WebhookURL, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := i.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return backoff.Permanent(errors.Errorf("webhook respondeu %d", resp.StatusCode))
		}
		if resp.StatusCode >= 500 {
			return errors.Errorf("webhook respondeu %d", resp.StatusCode)
		}
		return nil
	}
	if err = backoff.Retry(op, backoff.WithContext(i.newBackOff(), ctx)); err != nil {
		return false, err
	}
	return true, nil
}
