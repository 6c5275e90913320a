package apiv1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"nr1-risk-backend/config"
	"nr1-risk-backend/lib/analytics"
	authutils "nr1-risk-backend/lib/utils/auth-utils"
	"nr1-risk-backend/middleware"
	"nr1-risk-backend/models"
	apimodels "nr1-risk-backend/models/api"
	analyticsapimodels "nr1-risk-backend/models/api/analytics"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const (
	testSecret     = "test-secret"
	testOrg        = "6f1c8c1e-8d0a-4b7e-9c55-0a4f5b2f1a10"
	testAssessment = "0b8f5c9e-2f4a-4c1d-8e7b-3a6d9c2e1f00"
)

type fakeAnalytics struct {
	analytics.Provider
	err  error
	gate   analyticsapimodels.ExportDecision
	org    string
	checks int
}

func (f *fakeAnalytics) ComputeAssessmentAnalytics(_ context.Context, orgID, assessmentID string) (analyticsapimodels.AssessmentAnalytics, error) {
	f.org = orgID
	if f.err != nil {
		return analyticsapimodels.AssessmentAnalytics{}, f.err
	}
	return analyticsapimodels.AssessmentAnalytics{AssessmentID: assessmentID, State: analyticsapimodels.StateComputed, TotalParticipants: 7}, nil
}

func (f *fakeAnalytics) ExportResponses(_ context.Context, _, assessmentID string, format analytics.ExportFormat) (*analytics.ExportFile, analyticsapimodels.ExportDecision, error) {
	if !f.gate.Allowed() {
		return nil, f.gate, nil
	}
	return &analytics.ExportFile{
		FileName:    "respostas-" + assessmentID + "." + string(format),
		ContentType: format.ContentType(),
		Body:        bytes.NewBufferString("participante;pergunta_id\n"),
	}, f.gate, nil
}

func (f *fakeAnalytics) CheckRiskThresholds(_ context.Context, orgID, assessmentID string) (analyticsapimodels.ThresholdCheck, error) {
	f.org = orgID
	f.checks++
	return analyticsapimodels.ThresholdCheck{AssessmentID: assessmentID}, nil
}

func newTestApp(t *testing.T, fake *fakeAnalytics) *fiber.App {
	config.Conf = &config.Configuration{}
	config.Conf.Auth.JWTSecret = testSecret
	t.Cleanup(func() { config.Conf = nil })
	analytics.Instance = fake

	app := fiber.New()
	space := app.Group("/api/v1/space", middleware.AuthorizationRequired(), middleware.OrganizationRequired())
	InitAnalyticsApiRouters(space)
	return app
}

func doRequest(t *testing.T, app *fiber.App, path string, role models.UserRole) (int, []byte) {
	return doMethodRequest(t, app, fiber.MethodGet, path, role)
}

func doMethodRequest(t *testing.T, app *fiber.App, method, path string, role models.UserRole) (int, []byte) {
	req := httptest.NewRequest(method, path, nil)
	if role != "" {
		token, err := authutils.GetToken(testSecret, "user-1", testOrg, role, time.Hour)
		require.Nil(t, err)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.Nil(t, err)
	body, err := io.ReadAll(resp.Body)
	require.Nil(t, err)
	return resp.StatusCode, body
}

func TestAnalyticsApi(t *testing.T) {
	t.Run(`assessment analytics check`, func(t *testing.T) {
		fake := &fakeAnalytics{}
		app := newTestApp(t, fake)
		status, body := doRequest(t, app, "/api/v1/space/analytics/"+testAssessment, models.OrgViewerRole)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, testOrg, fake.org)

		var resp struct {
			apimodels.Response
			Data analyticsapimodels.AssessmentAnalytics `json:"data"`
		}
		require.Nil(t, json.Unmarshal(body, &resp))
		require.Equal(t, "success", resp.Status)
		require.Equal(t, 7, resp.Data.TotalParticipants)
	})

	t.Run(`unauthorized check`, func(t *testing.T) {
		app := newTestApp(t, &fakeAnalytics{})
		status, _ := doRequest(t, app, "/api/v1/space/analytics/"+testAssessment, "")
		require.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run(`invalid id check`, func(t *testing.T) {
		app := newTestApp(t, &fakeAnalytics{})
		status, _ := doRequest(t, app, "/api/v1/space/analytics/abc", models.OrgViewerRole)
		require.Equal(t, fiber.StatusBadRequest, status)
	})

	t.Run(`error statuses check`, func(t *testing.T) {
		app := newTestApp(t, &fakeAnalytics{err: errors.Wrap(analytics.ErrNotFound, "avaliação")})
		status, _ := doRequest(t, app, "/api/v1/space/analytics/"+testAssessment, models.OrgViewerRole)
		require.Equal(t, fiber.StatusNotFound, status)

		app = newTestApp(t, &fakeAnalytics{err: errors.Wrap(analytics.ErrUnavailable, "timeout")})
		status, _ = doRequest(t, app, "/api/v1/space/analytics/"+testAssessment, models.OrgViewerRole)
		require.Equal(t, fiber.StatusServiceUnavailable, status)
	})

	t.Run(`blocked export check`, func(t *testing.T) {
		gate := analyticsapimodels.ExportDecision{State: analyticsapimodels.ExportBlocked, Threshold: 10, Remaining: 3}
		app := newTestApp(t, &fakeAnalytics{gate: gate})
		status, body := doRequest(t, app, "/api/v1/space/analytics/"+testAssessment+"/responses.csv", models.OrgAdminRole)
		require.Equal(t, fiber.StatusForbidden, status)

		var resp struct {
			apimodels.Response
			Data analyticsapimodels.ExportDecision `json:"data"`
		}
		require.Nil(t, json.Unmarshal(body, &resp))
		require.Equal(t, gate, resp.Data)
	})

	t.Run(`no data export check`, func(t *testing.T) {
		gate := analyticsapimodels.ExportDecision{State: analyticsapimodels.ExportNoData, Threshold: 10}
		app := newTestApp(t, &fakeAnalytics{gate: gate})
		status, body := doRequest(t, app, "/api/v1/space/analytics/"+testAssessment+"/responses.csv", models.OrgAdminRole)
		require.Equal(t, fiber.StatusUnprocessableEntity, status)

		var resp struct {
			apimodels.Response
			Data analyticsapimodels.ExportDecision `json:"data"`
		}
		require.Nil(t, json.Unmarshal(body, &resp))
		require.Equal(t, "nenhuma resposta para exportar", resp.Message)
		require.Equal(t, gate, resp.Data)
	})

	t.Run(`check thresholds role check`, func(t *testing.T) {
		fake := &fakeAnalytics{}
		app := newTestApp(t, fake)
		path := "/api/v1/space/analytics/" + testAssessment + "/check_thresholds"
		status, _ := doMethodRequest(t, app, fiber.MethodPost, path, models.OrgViewerRole)
		require.Equal(t, fiber.StatusForbidden, status)
		require.Equal(t, 0, fake.checks)

		status, _ = doMethodRequest(t, app, fiber.MethodPost, path, models.OrgManagerRole)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, 1, fake.checks)
		require.Equal(t, testOrg, fake.org)
	})

	t.Run(`export role check`, func(t *testing.T) {
		gate := analyticsapimodels.ExportDecision{State: analyticsapimodels.ExportAllowed, Threshold: 10}
		app := newTestApp(t, &fakeAnalytics{gate: gate})
		status, _ := doRequest(t, app, "/api/v1/space/analytics/"+testAssessment+"/responses.csv", models.OrgViewerRole)
		require.Equal(t, fiber.StatusForbidden, status)

		status, body := doRequest(t, app, "/api/v1/space/analytics/"+testAssessment+"/responses.csv", models.OrgAdminRole)
		require.Equal(t, fiber.StatusOK, status)
		require.Equal(t, "participante;pergunta_id\n", string(body))
	})
}
