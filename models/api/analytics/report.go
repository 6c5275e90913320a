package analyticsapimodels

import (
	"nr1-risk-backend/models"
	"time"
)

type ThresholdCategory struct {
	Category  models.RiskCategory `json:"category"`
	Label     string              `json:"label"`
	Score     float64             `json:"score"`
	Threshold float64             `json:"threshold"`
	Level     models.RiskLevel    `json:"level"`
	Notified  bool                `json:"notified"`
}

type ThresholdCheck struct {
	AssessmentID string              `json:"assessment_id"`
	AlertsSent   int                 `json:"alerts_sent"`
	Categories   []ThresholdCategory `json:"categories"`
}

type QuestionSummary struct {
	QuestionID      string              `json:"question_id"`
	Position        int                 `json:"position"`
	Text            string              `json:"text"`
	Category        models.RiskCategory `json:"category"`
	Type            models.QuestionType `json:"type"`
	AverageScore    float64             `json:"average_score"`
	RiskLevel       models.RiskLevel    `json:"risk_level"`
	ResponseCount   int                 `json:"response_count"`
	HasData         bool                `json:"has_data"`
	Distribution    []DistributionItem  `json:"distribution,omitempty"`
	State           ScoreState          `json:"state"`
	IsSuppressed    bool                `json:"is_suppressed"`
	SuppressionInfo *SuppressionInfo    `json:"suppression_info,omitempty"`
}

// ExportState is the outcome of the gate protecting literal answers.
type ExportState string

const (
	ExportAllowed ExportState = "allowed"
	ExportBlocked ExportState = "blocked"
	ExportNoData  ExportState = "no_data"
)

type ExportDecision struct {
	State     ExportState `json:"state"`
	Threshold int         `json:"threshold"`
	Remaining int         `json:"remaining,omitempty"`
}

func (d ExportDecision) Allowed() bool {
	return d.State == ExportAllowed
}

type ReportData struct {
	AssessmentID    string              `json:"assessment_id"`
	Title           string              `json:"title"`
	GeneratedAt     time.Time           `json:"generated_at"`
	Analytics       AssessmentAnalytics `json:"analytics"`
	Departments     []DepartmentResult  `json:"departments"`
	Questions       []QuestionSummary   `json:"questions"`
	Suggestions     []string            `json:"suggestions,omitempty"`
	SuggestionsGate ExportDecision      `json:"suggestions_gate"`
}

type DetailedRow struct {
	AnonymousID     string              `json:"anonymous_id"`
	QuestionID      string              `json:"question_id"`
	QuestionText    string              `json:"question_text"`
	Category        models.RiskCategory `json:"category"`
	CategoryLabel   string              `json:"category_label"`
	Value           string              `json:"value"`
	NormalizedScore *float64            `json:"normalized_score,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

type DetailedExport struct {
	AssessmentID string         `json:"assessment_id"`
	Gate         ExportDecision `json:"gate"`
	Rows         []DetailedRow  `json:"rows,omitempty"`
}
