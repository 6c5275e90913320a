package surveyapimodels

import (
	"nr1-risk-backend/models"

	"github.com/pkg/errors"
)

type QuestionView struct {
	ID       string              `json:"id"`
	Position int                 `json:"position"`
	Text     string              `json:"text"`
	Category models.RiskCategory `json:"category"`
	Type     models.QuestionType `json:"type"`
	Required bool                `json:"required"`
}

type SurveyView struct {
	AssessmentID string         `json:"assessment_id"`
	Title        string         `json:"title"`
	Questions    []QuestionView `json:"questions"`
}

type Answer struct {
	QuestionID string `json:"question_id"`
	Value      string `json:"value"`
}

type Submission struct {
	MemberID *string  `json:"member_id,omitempty"` // funcionário, usado apenas para o departamento
	Answers  []Answer `json:"answers"`
}

func (s Submission) Validate() error {
	if len(s.Answers) == 0 {
		return errors.New("nenhuma resposta informada")
	}
	seen := make(map[string]struct{}, len(s.Answers))
	for _, answer := range s.Answers {
		if answer.QuestionID == "" {
			return errors.New("pergunta não informada")
		}
		if _, exist := seen[answer.QuestionID]; exist {
			return errors.New("pergunta respondida mais de uma vez")
		}
		seen[answer.QuestionID] = struct{}{}
	}
	return nil
}

type SubmissionResult struct {
	Saved int `json:"saved"`
}
