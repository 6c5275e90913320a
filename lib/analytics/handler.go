package analytics

import (
	"context"
	"nr1-risk-backend/db"
	assessmentstore "nr1-risk-backend/lib/assessment/store"
	departmentstore "nr1-risk-backend/lib/dicts/department/store"
	filestorage "nr1-risk-backend/lib/file-storage"
	riskalert "nr1-risk-backend/lib/risk-alert"
	riskengine "nr1-risk-backend/lib/risk-engine"
	responsestore "nr1-risk-backend/lib/survey-response/store"
	initchecker "nr1-risk-backend/lib/utils/init-checker"
	"nr1-risk-backend/models"
	analyticsapimodels "nr1-risk-backend/models/api/analytics"
	dbmodels "nr1-risk-backend/models/db"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type Provider interface {
	ComputeAssessmentAnalytics(ctx context.Context, orgID, assessmentID string) (analyticsapimodels.AssessmentAnalytics, error)
	ComputeQuestionDistribution(ctx context.Context, orgID, assessmentID, questionID string) (analyticsapimodels.QuestionDistribution, error)
	ComputeDepartmentAnalytics(ctx context.Context, orgID, assessmentID string) ([]analyticsapimodels.DepartmentResult, error)
	CheckRiskThresholds(ctx context.Context, orgID, assessmentID string) (analyticsapimodels.ThresholdCheck, error)
	ComputeReportData(ctx context.Context, orgID, assessmentID string) (analyticsapimodels.ReportData, error)
	ExportResponsesDetailed(ctx context.Context, orgID, assessmentID string) (analyticsapimodels.DetailedExport, error)
	ExportReport(ctx context.Context, orgID, assessmentID string, format ExportFormat) (*ExportFile, error)
	ExportResponses(ctx context.Context, orgID, assessmentID string, format ExportFormat) (*ExportFile, analyticsapimodels.ExportDecision, error)
}

var Instance Provider

type AssessmentReader interface {
	GetByID(ctx context.Context, orgID, id string) (*dbmodels.Assessment, error)
	ListQuestions(ctx context.Context, assessmentID string) ([]dbmodels.Question, error)
}

type DepartmentReader interface {
	ListByOrganization(ctx context.Context, orgID string) ([]dbmodels.Department, error)
	EmployeeCounts(ctx context.Context, orgID string) ([]dbmodels.DepartmentHeadcount, error)
	ParticipantDepartments(ctx context.Context, orgID, assessmentID string) ([]dbmodels.ParticipantDepartment, error)
}

type Config struct {
	Thresholds models.AnonymityThresholds
	PageSize   int
}

func NewHandler(cfg Config) {
	instance := newImpl(cfg,
		assessmentstore.NewInstance(db.DB),
		responsestore.NewInstance(db.DB),
		departmentstore.NewInstance(db.DB),
		riskalert.Instance,
		filestorage.Instance,
	)
	initchecker.CheckInit(
		"assessmentStore", instance.assessmentStore,
		"responseStore", instance.responseStore,
		"departmentStore", instance.departmentStore,
		"notifier", instance.notifier,
		"archive", instance.archive,
	)
	Instance = instance
}

func newImpl(cfg Config, assessments AssessmentReader, responses riskengine.PageReader, departments DepartmentReader,
	notifier riskalert.Provider, archive filestorage.Provider) impl {
	if cfg.PageSize <= 0 {
		cfg.PageSize = riskengine.DefaultPageSize
	}
	return impl{
		assessmentStore: assessments,
		responseStore:   responses,
		departmentStore: departments,
		notifier:        notifier,
		archive:         archive,
		registry:        models.DefaultCategoryRegistry(),
		guard:           riskengine.NewGuard(cfg.Thresholds),
		pageSize:        cfg.PageSize,
		now:             time.Now,
	}
}

type impl struct {
	assessmentStore AssessmentReader
	responseStore   riskengine.PageReader
	departmentStore DepartmentReader
	notifier        riskalert.Provider
	archive         filestorage.Provider
	registry        *models.CategoryRegistry
	guard           riskengine.Guard
	pageSize        int
	now             func() time.Time
}

func (i impl) ComputeAssessmentAnalytics(ctx context.Context, orgID, assessmentID string) (analyticsapimodels.AssessmentAnalytics, error) {
	snap, err := i.load(ctx, orgID, assessmentID, loadOptions{})
	if err != nil {
		return analyticsapimodels.AssessmentAnalytics{}, err
	}
	return i.assessmentAnalytics(snap), nil
}

func (i impl) ComputeQuestionDistribution(ctx context.Context, orgID, assessmentID, questionID string) (analyticsapimodels.QuestionDistribution, error) {
	snap, err := i.load(ctx, orgID, assessmentID, loadOptions{questionID: questionID})
	if err != nil {
		return analyticsapimodels.QuestionDistribution{}, err
	}
	question := snap.questionByID[questionID]
	distribution := snap.perQuestion.Distribution(questionID)
	decision := i.questionDecision(snap, question, distribution.Total())

	result := analyticsapimodels.QuestionDistribution{
		AssessmentID:    assessmentID,
		QuestionID:      questionID,
		Distribution:    []analyticsapimodels.DistributionItem{},
		State:           decision.State,
		IsSuppressed:    decision.Suppressed(),
		SuppressionInfo: decision.Info,
	}
	if decision.State == analyticsapimodels.StateComputed {
		result.Distribution = distribution.Items()
		result.TotalResponses = distribution.Total()
	}
	return result, nil
}

func (i impl) ComputeDepartmentAnalytics(ctx context.Context, orgID, assessmentID string) ([]analyticsapimodels.DepartmentResult, error) {
	snap, err := i.load(ctx, orgID, assessmentID, loadOptions{withDepartments: true})
	if err != nil {
		return nil, err
	}
	return i.departmentResults(snap), nil
}

func (i impl) CheckRiskThresholds(ctx context.Context, orgID, assessmentID string) (analyticsapimodels.ThresholdCheck, error) {
	snap, err := i.load(ctx, orgID, assessmentID, loadOptions{})
	if err != nil {
		return analyticsapimodels.ThresholdCheck{}, err
	}
	logger := log.
		WithField("organization_id", orgID).
		WithField("assessment_id", assessmentID)
	result := analyticsapimodels.ThresholdCheck{
		AssessmentID: assessmentID,
		Categories:   []analyticsapimodels.ThresholdCategory{},
	}
	analytics := i.assessmentAnalytics(snap)
	if analytics.State != analyticsapimodels.StateComputed {
		return result, nil
	}
	for _, category := range analytics.PerCategory {
		info, _ := i.registry.Get(category.Category)
		if info.Qualitative || category.State != analyticsapimodels.StateComputed {
			continue
		}
		level, threshold, crossed := riskengine.AlertLevel(category.AverageScore)
		if !crossed {
			continue
		}
		item := analyticsapimodels.ThresholdCategory{
			Category:  category.Category,
			Label:     category.Label,
			Score:     category.AverageScore,
			Threshold: threshold,
			Level:     level,
		}
		sent, err := i.notifier.Notify(ctx, riskalert.Alert{
			OrganizationID:  orgID,
			AssessmentID:    assessmentID,
			AssessmentTitle: snap.assessment.Title,
			Category:        category.Category,
			CategoryLabel:   category.Label,
			Score:           category.AverageScore,
			Threshold:       threshold,
			Level:           level,
		})
		if err != nil {
			logger.
				WithField("category", category.Category).
				WithError(err).
				Warn("alerta de risco não enviado")
		}
		if sent {
			item.Notified = true
			result.AlertsSent++
		}
		result.Categories = append(result.Categories, item)
	}
	return result, nil
}

func (i impl) ComputeReportData(ctx context.Context, orgID, assessmentID string) (analyticsapimodels.ReportData, error) {
	snap, err := i.load(ctx, orgID, assessmentID, loadOptions{
		withDepartments: true,
		keep: func(question dbmodels.Question) bool {
			return question.Type == models.QuestionTypeText
		},
	})
	if err != nil {
		return analyticsapimodels.ReportData{}, err
	}
	report := analyticsapimodels.ReportData{
		AssessmentID:    assessmentID,
		Title:           snap.assessment.Title,
		GeneratedAt:     i.now(),
		Analytics:       i.assessmentAnalytics(snap),
		Departments:     i.departmentResults(snap),
		Questions:       make([]analyticsapimodels.QuestionSummary, 0, len(snap.questions)),
		SuggestionsGate: i.guard.Export(snap.totals.Participants()),
	}
	for _, question := range snap.questions {
		report.Questions = append(report.Questions, i.questionSummary(snap, question))
	}
	if report.SuggestionsGate.Allowed() {
		report.Suggestions = suggestions(snap.kept)
	}
	return report, nil
}

func (i impl) ExportResponsesDetailed(ctx context.Context, orgID, assessmentID string) (analyticsapimodels.DetailedExport, error) {
	snap, err := i.load(ctx, orgID, assessmentID, loadOptions{
		keep: func(dbmodels.Question) bool { return true },
	})
	if err != nil {
		return analyticsapimodels.DetailedExport{}, err
	}
	result := analyticsapimodels.DetailedExport{
		AssessmentID: assessmentID,
		Gate:         i.guard.Export(snap.totals.Participants()),
	}
	if !result.Gate.Allowed() {
		return result, nil
	}
	result.Rows = i.detailedRows(snap)
	return result, nil
}

func (i impl) assessmentAnalytics(snap *snapshot) analyticsapimodels.AssessmentAnalytics {
	decision := i.guard.Assessment(snap.totals.Participants())
	result := analyticsapimodels.AssessmentAnalytics{
		AssessmentID:    snap.assessment.ID,
		TotalQuestions:  len(snap.questions),
		PerCategory:     make([]analyticsapimodels.CategoryResult, 0, i.registry.Len()),
		State:           decision.State,
		IsSuppressed:    decision.Suppressed(),
		SuppressionInfo: decision.Info,
	}
	groups := snap.categories.Groups()
	for idx, info := range i.registry.List() {
		result.PerCategory = append(result.PerCategory, i.guard.Category(info, groups[idx], decision))
	}
	if decision.State == analyticsapimodels.StateComputed {
		result.TotalParticipants = snap.totals.Participants()
		result.CompletionRate = snap.totals.CompletionRate(len(snap.questions))
		result.LastResponseDate = snap.totals.LastResponse()
	}
	return result
}

func (i impl) departmentResults(snap *snapshot) []analyticsapimodels.DepartmentResult {
	list := make([]dbmodels.Department, len(snap.departmentList))
	copy(list, snap.departmentList)
	sort.SliceStable(list, func(a, b int) bool {
		return list[a].Name < list[b].Name
	})
	result := make([]analyticsapimodels.DepartmentResult, 0, len(list))
	for _, department := range list {
		group := snap.departments.Group(department.ID)
		result = append(result, i.guard.Department(department, snap.headcount[department.ID], group))
	}
	return result
}

// questionDecision gates a question; literal text answers also need the export gate.
func (i impl) questionDecision(snap *snapshot, question dbmodels.Question, responses int) riskengine.Decision {
	assessment := i.guard.Assessment(snap.totals.Participants())
	decision := i.guard.Question(responses, assessment)
	if decision.State != analyticsapimodels.StateComputed || question.Type != models.QuestionTypeText {
		return decision
	}
	gate := i.guard.Export(snap.totals.Participants())
	if gate.Allowed() {
		return decision
	}
	return riskengine.Decision{
		State: analyticsapimodels.StateSuppressed,
		Info: &analyticsapimodels.SuppressionInfo{
			Granularity: models.GranularityDetailedResponses,
			Threshold:   gate.Threshold,
			Remaining:   gate.Remaining,
		},
	}
}

func (i impl) questionSummary(snap *snapshot, question dbmodels.Question) analyticsapimodels.QuestionSummary {
	group := snap.perQuestion.Group(question.ID)
	decision := i.questionDecision(snap, question, group.ResponseCount)
	result := analyticsapimodels.QuestionSummary{
		QuestionID:      question.ID,
		Position:        question.Position,
		Text:            question.Text,
		Category:        question.Category,
		Type:            question.Type,
		RiskLevel:       models.RiskLevelLow,
		State:           decision.State,
		IsSuppressed:    decision.Suppressed(),
		SuppressionInfo: decision.Info,
	}
	if decision.State != analyticsapimodels.StateComputed {
		return result
	}
	result.ResponseCount = group.ResponseCount
	if question.Type != models.QuestionTypeText {
		result.Distribution = snap.perQuestion.Distribution(question.ID).Items()
	}
	if group.HasData {
		result.HasData = true
		result.AverageScore = group.Mean
		result.RiskLevel = riskengine.ClassifyRisk(group.Mean)
	}
	return result
}

func (i impl) detailedRows(snap *snapshot) []analyticsapimodels.DetailedRow {
	rows := make([]analyticsapimodels.DetailedRow, 0, len(snap.kept))
	for _, response := range snap.kept {
		question := snap.questionByID[response.QuestionID]
		row := analyticsapimodels.DetailedRow{
			AnonymousID:   response.AnonymousID,
			QuestionID:    question.ID,
			QuestionText:  question.Text,
			Category:      question.Category,
			CategoryLabel: i.registry.Label(question.Category),
			Value:         response.Value,
			CreatedAt:     response.CreatedAt.UTC().Truncate(24 * time.Hour),
		}
		if score, ok := riskengine.Normalize(question, response.Value); ok {
			row.NormalizedScore = &score
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].AnonymousID != rows[b].AnonymousID {
			return rows[a].AnonymousID < rows[b].AnonymousID
		}
		return snap.questionByID[rows[a].QuestionID].Position < snap.questionByID[rows[b].QuestionID].Position
	})
	return rows
}

// suggestions returns non-empty free-text answers without any link to who wrote them.
func suggestions(kept []dbmodels.Response) []string {
	result := make([]string, 0, len(kept))
	for _, response := range kept {
		value := strings.TrimSpace(response.Value)
		if value == "" {
			continue
		}
		result = append(result, value)
	}
	sort.Strings(result)
	return result
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
