package riskcheckworker

import (
	"context"
	"time"

	"nr1-risk-backend/db"
	assessmentstore "nr1-risk-backend/lib/assessment/store"
	baseworker "nr1-risk-backend/lib/utils/base-worker"
	"nr1-risk-backend/lib/utils/lock"
	analyticsapimodels "nr1-risk-backend/models/api/analytics"
	dbmodels "nr1-risk-backend/models/db"
)

const lockWait = 5 * time.Second

type Checker interface {
	CheckRiskThresholds(ctx context.Context, orgID, assessmentID string) (analyticsapimodels.ThresholdCheck, error)
}

type AssessmentLister interface {
	ListActive(ctx context.Context) ([]dbmodels.Assessment, error)
}

// Check serializes threshold checks of one assessment. It is skipped when a concurrent
// check holds the assessment for longer than lockWait.
func Check(ctx context.Context, checker Checker, orgID, assessmentID string) (analyticsapimodels.ThresholdCheck, error) {
	var result analyticsapimodels.ThresholdCheck
	_, err := lock.WithDelay(ctx, "risk-check:"+assessmentID, lockWait, func() (err error) {
		result, err = checker.CheckRiskThresholds(ctx, orgID, assessmentID)
		return err
	})
	return result, err
}

func StartWorker(ctx context.Context, checker Checker, interval time.Duration) {
	i := newImpl(assessmentstore.NewInstance(db.DB), checker, interval)
	go i.Run(ctx, i.handle)
}

func newImpl(lister AssessmentLister, checker Checker, interval time.Duration) *impl {
	return &impl{
		BaseImpl: *baseworker.NewInstance("risk-check-worker", time.Minute, interval),
		lister:   lister,
		checker:  checker,
	}
}

type impl struct {
	baseworker.BaseImpl
	lister  AssessmentLister
	checker Checker
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	list, err := i.lister.ListActive(ctx)
	if err != nil {
		logger.WithError(err).Error("erro ao listar avaliações ativas")
		return
	}
	for _, rec := range list {
		if ctx.Err() != nil {
			return
		}
		result, err := Check(ctx, i.checker, rec.OrganizationID, rec.ID)
		entry := logger.
			WithField("organization_id", rec.OrganizationID).
			WithField("assessment_id", rec.ID)
		if err != nil {
			entry.WithError(err).Warn("erro ao verificar limites de risco")
			continue
		}
		if result.AlertsSent > 0 {
			entry.WithField("alerts_sent", result.AlertsSent).Info("alertas de risco enviados")
		}
	}
}
