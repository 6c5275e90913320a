package models

type QuestionType string

const (
	QuestionTypeLikertScale    QuestionType = "likert_scale"
	QuestionTypeText           QuestionType = "text"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeYesNo          QuestionType = "yes_no"
)

// IsScorable reports whether answers of this type take part in risk scoring.
func (t QuestionType) IsScorable() bool {
	return t == QuestionTypeLikertScale
}

func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionTypeLikertScale, QuestionTypeText, QuestionTypeMultipleChoice, QuestionTypeYesNo:
		return true
	}
	return false
}

// Likert scale used by every scored question.
const (
	LikertMin = 1
	LikertMax = 5
)

type AssessmentStatus string

const (
	AssessmentStatusDraft  AssessmentStatus = "draft"
	AssessmentStatusActive AssessmentStatus = "active"
	AssessmentStatusClosed AssessmentStatus = "closed"
)
