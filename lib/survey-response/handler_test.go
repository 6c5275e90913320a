package surveyresponse

import (
	"context"
	"nr1-risk-backend/models"
	surveyapimodels "nr1-risk-backend/models/api/survey"
	dbmodels "nr1-risk-backend/models/db"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeAssessments struct {
	rec *dbmodels.Assessment
	err error
}

func (f fakeAssessments) GetPublic(context.Context, string) (*dbmodels.Assessment, error) {
	return f.rec, f.err
}

type fakeMembers map[string]bool

func (f fakeMembers) IsMember(_ context.Context, _, memberID string) (bool, error) {
	return f[memberID], nil
}

type fakeWriter struct {
	saved [][]dbmodels.Response
	err   error
}

func (f *fakeWriter) CreateBatch(_ context.Context, list []dbmodels.Response) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, list)
	return nil
}

type call struct {
	orgID        string
	assessmentID string
}

func testAssessment() *dbmodels.Assessment {
	rec := &dbmodels.Assessment{Title: "Pesquisa 2026", Status: models.AssessmentStatusActive}
	rec.ID = "ass-1"
	rec.OrganizationID = "org-1"
	for idx, item := range []struct {
		id       string
		qType    models.QuestionType
		required bool
	}{
		{"q1", models.QuestionTypeLikertScale, true},
		{"q2", models.QuestionTypeYesNo, false},
		{"q3", models.QuestionTypeText, false},
	} {
		q := dbmodels.Question{Position: idx + 1, Type: item.qType, Required: item.required, Category: models.CategoryAnchors}
		q.ID = item.id
		rec.Questions = append(rec.Questions, q)
	}
	return rec
}

func newTestImpl(rec *dbmodels.Assessment, writer *fakeWriter, calls chan call) *impl {
	i := newImpl(fakeAssessments{rec: rec}, fakeMembers{"m-1": true}, writer, ThresholdCheckerFunc(func(_ context.Context, orgID, assessmentID string) error {
		calls <- call{orgID: orgID, assessmentID: assessmentID}
		return nil
	}))
	i.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }
	i.newAnonymousID = func() string { return "anon-1" }
	return i
}

func TestSubmitResponses(t *testing.T) {
	t.Run(`valid submission check`, func(t *testing.T) {
		writer := &fakeWriter{}
		calls := make(chan call, 1)
		i := newTestImpl(testAssessment(), writer, calls)
		member := "m-1"

		result, hMsg, err := i.SubmitResponses(context.TODO(), "ass-1", surveyapimodels.Submission{
			MemberID: &member,
			Answers: []surveyapimodels.Answer{
				{QuestionID: "q1", Value: " 4 "},
				{QuestionID: "q3", Value: "Mais pausas"},
			},
		})
		require.Nil(t, err)
		require.Empty(t, hMsg)
		require.Equal(t, 2, result.Saved)
		require.Len(t, writer.saved, 1)
		batch := writer.saved[0]
		require.Equal(t, "4", batch[0].Value)
		require.Equal(t, "anon-1", batch[0].AnonymousID)
		require.Equal(t, "anon-1", batch[1].AnonymousID)
		require.Equal(t, "m-1", *batch[1].MemberID)

		select {
		case got := <-calls:
			require.Equal(t, call{orgID: "org-1", assessmentID: "ass-1"}, got)
		case <-time.After(time.Second):
			t.Fatal("threshold check not triggered")
		}
	})

	t.Run(`validation messages check`, func(t *testing.T) {
		unknown := "m-9"
		cases := []struct {
			name       string
			submission surveyapimodels.Submission
			hMsg       string
		}{
			{"out of scale", surveyapimodels.Submission{Answers: []surveyapimodels.Answer{{QuestionID: "q1", Value: "6"}}}, "a pergunta 1 aceita valores de 1 a 5"},
			{"not integer", surveyapimodels.Submission{Answers: []surveyapimodels.Answer{{QuestionID: "q1", Value: "2.5"}}}, "a pergunta 1 aceita valores de 1 a 5"},
			{"required", surveyapimodels.Submission{Answers: []surveyapimodels.Answer{{QuestionID: "q2", Value: "sim"}}}, "a pergunta 1 é obrigatória"},
			{"yes no", surveyapimodels.Submission{Answers: []surveyapimodels.Answer{{QuestionID: "q1", Value: "3"}, {QuestionID: "q2", Value: "talvez"}}}, "a pergunta 2 aceita apenas sim ou não"},
			{"foreign question", surveyapimodels.Submission{Answers: []surveyapimodels.Answer{{QuestionID: "q1", Value: "3"}, {QuestionID: "x", Value: "1"}}}, "resposta para pergunta que não pertence à avaliação"},
			{"duplicated", surveyapimodels.Submission{Answers: []surveyapimodels.Answer{{QuestionID: "q1", Value: "3"}, {QuestionID: "q1", Value: "1"}}}, "pergunta respondida mais de uma vez"},
			{"empty", surveyapimodels.Submission{}, "nenhuma resposta informada"},
			{"unknown member", surveyapimodels.Submission{MemberID: &unknown, Answers: []surveyapimodels.Answer{{QuestionID: "q1", Value: "3"}}}, "funcionário não encontrado"},
		}
		for _, tc := range cases {
			writer := &fakeWriter{}
			i := newTestImpl(testAssessment(), writer, make(chan call, 1))
			_, hMsg, err := i.SubmitResponses(context.TODO(), "ass-1", tc.submission)
			require.Nil(t, err, tc.name)
			require.Equal(t, tc.hMsg, hMsg, tc.name)
			require.Empty(t, writer.saved, tc.name)
		}
	})

	t.Run(`closed assessment check`, func(t *testing.T) {
		rec := testAssessment()
		rec.Status = models.AssessmentStatusClosed
		i := newTestImpl(rec, &fakeWriter{}, make(chan call, 1))
		_, hMsg, err := i.SubmitResponses(context.TODO(), "ass-1", surveyapimodels.Submission{
			Answers: []surveyapimodels.Answer{{QuestionID: "q1", Value: "3"}},
		})
		require.Nil(t, err)
		require.Equal(t, "avaliação não está aberta para respostas", hMsg)
	})

	t.Run(`not found and store failure check`, func(t *testing.T) {
		i := newTestImpl(nil, &fakeWriter{}, make(chan call, 1))
		_, _, err := i.SubmitResponses(context.TODO(), "ass-1", surveyapimodels.Submission{
			Answers: []surveyapimodels.Answer{{QuestionID: "q1", Value: "3"}},
		})
		require.ErrorIs(t, err, ErrNotFound)

		writer := &fakeWriter{err: errors.New("deadlock")}
		i = newTestImpl(testAssessment(), writer, make(chan call, 1))
		_, _, err = i.SubmitResponses(context.TODO(), "ass-1", surveyapimodels.Submission{
			Answers: []surveyapimodels.Answer{{QuestionID: "q1", Value: "3"}},
		})
		require.NotNil(t, err)
		require.Contains(t, err.Error(), "deadlock")
	})
}

func TestGetPublicSurvey(t *testing.T) {
	t.Run(`open survey check`, func(t *testing.T) {
		i := newTestImpl(testAssessment(), &fakeWriter{}, make(chan call, 1))
		view, err := i.GetPublicSurvey(context.TODO(), "ass-1")
		require.Nil(t, err)
		require.Len(t, view.Questions, 3)
		require.True(t, view.Questions[0].Required)
	})

	t.Run(`future survey hidden check`, func(t *testing.T) {
		rec := testAssessment()
		startsAt := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
		rec.StartsAt = &startsAt
		i := newTestImpl(rec, &fakeWriter{}, make(chan call, 1))
		_, err := i.GetPublicSurvey(context.TODO(), "ass-1")
		require.ErrorIs(t, err, ErrNotFound)
	})
}
