package models

import "github.com/pkg/errors"

type Granularity string

const (
	GranularityAssessment        Granularity = "assessment"
	GranularityCategory          Granularity = "category"
	GranularityQuestion          Granularity = "question"
	GranularityDepartment        Granularity = "department"
	GranularityDetailedResponses Granularity = "detailed_responses"
)

// AnonymityThresholds holds the minimum qualifying count per granularity.
type AnonymityThresholds struct {
	Assessment        int // distinct participants of the assessment
	Category          int // scored responses in a category
	Question          int // responses to a question
	Department        int // employees of a department
	DetailedResponses int // distinct participants before literal answers leave the system
}

func DefaultAnonymityThresholds() AnonymityThresholds {
	return AnonymityThresholds{
		Assessment:        5,
		Category:          5,
		Question:          5,
		Department:        5,
		DetailedResponses: 10,
	}
}

func (t AnonymityThresholds) For(granularity Granularity) int {
	switch granularity {
	case GranularityAssessment:
		return t.Assessment
	case GranularityCategory:
		return t.Category
	case GranularityQuestion:
		return t.Question
	case GranularityDepartment:
		return t.Department
	case GranularityDetailedResponses:
		return t.DetailedResponses
	}
	return t.DetailedResponses
}

func (t AnonymityThresholds) Validate() error {
	if t.Assessment < 1 || t.Category < 1 || t.Question < 1 || t.Department < 1 || t.DetailedResponses < 1 {
		return errors.New("limites de anonimato devem ser maiores que zero")
	}
	if t.DetailedResponses < t.Assessment || t.DetailedResponses < t.Category || t.DetailedResponses < t.Question {
		return errors.New("limite para exportação detalhada não pode ser menor que os limites de exibição")
	}
	return nil
}
