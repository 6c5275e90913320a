package surveyresponse

import (
	"context"
	"fmt"
	"nr1-risk-backend/db"
	assessmentstore "nr1-risk-backend/lib/assessment/store"
	departmentstore "nr1-risk-backend/lib/dicts/department/store"
	responsestore "nr1-risk-backend/lib/survey-response/store"
	initchecker "nr1-risk-backend/lib/utils/init-checker"
	"nr1-risk-backend/models"
	surveyapimodels "nr1-risk-backend/models/api/survey"
	dbmodels "nr1-risk-backend/models/db"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const MaxTextLength = 2000

var ErrNotFound = errors.New("avaliação não encontrada")

type Provider interface {
	GetPublicSurvey(ctx context.Context, assessmentID string) (*surveyapimodels.SurveyView, error)
	// SubmitResponses returns hMsg for answers the participant must fix.
	SubmitResponses(ctx context.Context, assessmentID string, submission surveyapimodels.Submission) (result surveyapimodels.SubmissionResult, hMsg string, err error)
}

var Instance Provider

type AssessmentReader interface {
	GetPublic(ctx context.Context, id string) (*dbmodels.Assessment, error)
}

type MemberChecker interface {
	IsMember(ctx context.Context, orgID, memberID string) (bool, error)
}

type ResponseWriter interface {
	CreateBatch(ctx context.Context, list []dbmodels.Response) error
}

// ThresholdChecker re-evaluates risk alerts after new answers arrive.
type ThresholdChecker interface {
	CheckThresholds(ctx context.Context, orgID, assessmentID string) error
}

type ThresholdCheckerFunc func(ctx context.Context, orgID, assessmentID string) error

func (f ThresholdCheckerFunc) CheckThresholds(ctx context.Context, orgID, assessmentID string) error {
	return f(ctx, orgID, assessmentID)
}

func NewHandler(checker ThresholdChecker) {
	instance := newImpl(
		assessmentstore.NewInstance(db.DB),
		departmentstore.NewInstance(db.DB),
		responsestore.NewInstance(db.DB),
		checker,
	)
	initchecker.CheckInit(
		"assessmentStore", instance.assessmentStore,
		"memberChecker", instance.memberChecker,
		"responseStore", instance.responseStore,
	)
	Instance = instance
}

func newImpl(assessments AssessmentReader, members MemberChecker, responses ResponseWriter, checker ThresholdChecker) *impl {
	return &impl{
		assessmentStore: assessments,
		memberChecker:   members,
		responseStore:   responses,
		checker:         checker,
		now:             time.Now,
		newAnonymousID:  func() string { return uuid.New().String() },
		checkTimeout:    time.Minute,
	}
}

type impl struct {
	assessmentStore AssessmentReader
	memberChecker   MemberChecker
	responseStore   ResponseWriter
	checker         ThresholdChecker
	now             func() time.Time
	newAnonymousID  func() string
	checkTimeout    time.Duration
}

func (i *impl) GetPublicSurvey(ctx context.Context, assessmentID string) (*surveyapimodels.SurveyView, error) {
	rec, err := i.assessmentStore.GetPublic(ctx, assessmentID)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao obter avaliação")
	}
	if rec == nil || !rec.IsOpen(i.now()) {
		return nil, ErrNotFound
	}
	result := surveyapimodels.SurveyView{
		AssessmentID: rec.ID,
		Title:        rec.Title,
		Questions:    make([]surveyapimodels.QuestionView, 0, len(rec.Questions)),
	}
	for _, question := range rec.Questions {
		result.Questions = append(result.Questions, surveyapimodels.QuestionView{
			ID:       question.ID,
			Position: question.Position,
			Text:     question.Text,
			Category: question.Category,
			Type:     question.Type,
			Required: question.Required,
		})
	}
	return &result, nil
}

func (i *impl) SubmitResponses(ctx context.Context, assessmentID string, submission surveyapimodels.Submission) (surveyapimodels.SubmissionResult, string, error) {
	result := surveyapimodels.SubmissionResult{}
	if err := submission.Validate(); err != nil {
		return result, err.Error(), nil
	}
	rec, err := i.assessmentStore.GetPublic(ctx, assessmentID)
	if err != nil {
		return result, "", errors.Wrap(err, "erro ao obter avaliação")
	}
	if rec == nil {
		return result, "", ErrNotFound
	}
	if !rec.IsOpen(i.now()) {
		return result, "avaliação não está aberta para respostas", nil
	}
	if submission.MemberID != nil && *submission.MemberID != "" {
		isMember, err := i.memberChecker.IsMember(ctx, rec.OrganizationID, *submission.MemberID)
		if err != nil {
			return result, "", err
		}
		if !isMember {
			return result, "funcionário não encontrado", nil
		}
	}

	answers := make(map[string]string, len(submission.Answers))
	for _, answer := range submission.Answers {
		answers[answer.QuestionID] = strings.TrimSpace(answer.Value)
	}
	anonymousID := i.newAnonymousID()
	list := make([]dbmodels.Response, 0, len(answers))
	for _, question := range rec.Questions {
		value, answered := answers[question.ID]
		delete(answers, question.ID)
		if !answered || value == "" {
			if question.Required {
				return result, fmt.Sprintf("a pergunta %d é obrigatória", question.Position), nil
			}
			continue
		}
		if hMsg := validateAnswer(question, value); hMsg != "" {
			return result, hMsg, nil
		}
		response := dbmodels.Response{
			AssessmentID: rec.ID,
			QuestionID:   question.ID,
			AnonymousID:  anonymousID,
			Value:        value,
		}
		if submission.MemberID != nil && *submission.MemberID != "" {
			memberID := *submission.MemberID
			response.MemberID = &memberID
		}
		list = append(list, response)
	}
	if len(answers) != 0 {
		return result, "resposta para pergunta que não pertence à avaliação", nil
	}
	if len(list) == 0 {
		return result, "nenhuma resposta informada", nil
	}
	if err = i.responseStore.CreateBatch(ctx, list); err != nil {
		return result, "", errors.Wrap(err, "erro ao salvar respostas")
	}
	result.Saved = len(list)
	i.checkThresholds(rec.OrganizationID, rec.ID)
	return result, "", nil
}

// checkThresholds runs in the background with its own timeout.
func (i *impl) checkThresholds(orgID, assessmentID string) {
	if i.checker == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), i.checkTimeout)
		defer cancel()
		if err := i.checker.CheckThresholds(ctx, orgID, assessmentID); err != nil {
			log.
				WithField("organization_id", orgID).
				WithField("assessment_id", assessmentID).
				WithError(err).
				Warn("erro ao verificar limites de risco")
		}
	}()
}

func validateAnswer(question dbmodels.Question, value string) string {
	switch question.Type {
	case models.QuestionTypeLikertScale:
		n, err := strconv.Atoi(value)
		if err != nil || n < models.LikertMin || n > models.LikertMax {
			return fmt.Sprintf("a pergunta %d aceita valores de %d a %d", question.Position, models.LikertMin, models.LikertMax)
		}
	case models.QuestionTypeYesNo:
		if value != "sim" && value != "não" {
			return fmt.Sprintf("a pergunta %d aceita apenas sim ou não", question.Position)
		}
	case models.QuestionTypeText, models.QuestionTypeMultipleChoice:
		if utf8.RuneCountInString(value) > MaxTextLength {
			return fmt.Sprintf("a resposta da pergunta %d excede %d caracteres", question.Position, MaxTextLength)
		}
	default:
		return fmt.Sprintf("a pergunta %d tem tipo desconhecido", question.Position)
	}
	return ""
}
