package analyticsapimodels

import (
	"nr1-risk-backend/models"
	"time"
)

// ScoreState tells apart the three shapes an aggregate can take.
type ScoreState string

const (
	StateNoData     ScoreState = "no_data"
	StateSuppressed ScoreState = "suppressed"
	StateComputed   ScoreState = "computed"
)

type SuppressionInfo struct {
	Granularity models.Granularity `json:"granularity"`
	Threshold   int                `json:"threshold"`
	Remaining   int                `json:"remaining"` // quantos participantes/respostas faltam para liberar
}

type CategoryResult struct {
	Category         models.RiskCategory `json:"category"`
	Label            string              `json:"label"`
	AverageScore     float64             `json:"average_score"`
	RiskLevel        models.RiskLevel    `json:"risk_level"`
	ResponseCount    int                 `json:"response_count"`
	ParticipantCount int                 `json:"participant_count"`
	QuestionCount    int                 `json:"question_count"`
	HasData          bool                `json:"has_data"`
	IsQualitative    bool                `json:"is_qualitative"` // sem pontuação, apenas contagem de respostas
	State            ScoreState          `json:"state"`
	IsSuppressed     bool                `json:"is_suppressed"`
	SuppressionInfo  *SuppressionInfo    `json:"suppression_info,omitempty"`
}

type AssessmentAnalytics struct {
	AssessmentID      string           `json:"assessment_id"`
	TotalParticipants int              `json:"total_participants"`
	TotalQuestions    int              `json:"total_questions"`
	CompletionRate    float64          `json:"completion_rate"`
	PerCategory       []CategoryResult `json:"per_category"`
	LastResponseDate  *time.Time       `json:"last_response_date,omitempty"`
	State             ScoreState       `json:"state"`
	IsSuppressed      bool             `json:"is_suppressed"`
	SuppressionInfo   *SuppressionInfo `json:"suppression_info,omitempty"`
}

type DistributionItem struct {
	Value      string  `json:"value"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type QuestionDistribution struct {
	AssessmentID    string             `json:"assessment_id"`
	QuestionID      string             `json:"question_id"`
	Distribution    []DistributionItem `json:"distribution"`
	TotalResponses  int                `json:"total_responses"`
	State           ScoreState         `json:"state"`
	IsSuppressed    bool               `json:"is_suppressed"`
	SuppressionInfo *SuppressionInfo   `json:"suppression_info,omitempty"`
}

type DepartmentResult struct {
	DepartmentID     string           `json:"department_id"`
	Name             string           `json:"name"`
	AverageScore     float64          `json:"average_score"`
	RiskLevel        models.RiskLevel `json:"risk_level"`
	ParticipantCount int              `json:"participant_count"`
	ResponseCount    int              `json:"response_count"`
	EmployeeCount    int              `json:"employee_count"`
	HasData          bool             `json:"has_data"`
	State            ScoreState       `json:"state"`
	IsSuppressed     bool             `json:"is_suppressed"`
	SuppressionInfo  *SuppressionInfo `json:"suppression_info,omitempty"`
}
