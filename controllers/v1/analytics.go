package apiv1

import (
	"nr1-risk-backend/controllers"
	"nr1-risk-backend/lib/analytics"
	"nr1-risk-backend/middleware"
	apimodels "nr1-risk-backend/models/api"
	analyticsapimodels "nr1-risk-backend/models/api/analytics"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

type analyticsApiController struct {
	controllers.BaseAPIController
}

func InitAnalyticsApiRouters(app fiber.Router) {
	controller := analyticsApiController{}
	app.Route("analytics/:assessment_id", func(router fiber.Router) {
		router.Get("", controller.assessment)
		router.Get("departments", controller.departments)
		router.Get("questions/:question_id/distribution", controller.distribution)
		router.Post("check_thresholds", middleware.ExportRoleRequired(), controller.checkThresholds)
		router.Get("report", controller.report)
		router.Get("report.xlsx", middleware.OrgAdminRequired(), controller.reportExport(analytics.FormatXlsx))
		router.Get("report.pdf", middleware.OrgAdminRequired(), controller.reportExport(analytics.FormatPdf))
		router.Get("responses.xlsx", middleware.OrgAdminRequired(), controller.responsesExport(analytics.FormatXlsx))
		router.Get("responses.csv", middleware.OrgAdminRequired(), controller.responsesExport(analytics.FormatCsv))
	})
}

func (c *analyticsApiController) logger(ctx *fiber.Ctx, assessmentID string) *log.Entry {
	return c.GetLogger(ctx).WithField("assessment_id", assessmentID)
}

// sendAnalyticsError maps service errors to statuses; retrieval failures are retryable.
func (c *analyticsApiController) sendAnalyticsError(ctx *fiber.Ctx, logger *log.Entry, err error, hMsg string) error {
	switch {
	case analytics.IsNotFound(err):
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(err.Error()))
	case analytics.IsUnavailable(err):
		logger.WithError(err).Error(hMsg)
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(apimodels.NewError(hMsg))
	}
	return c.SendError(ctx, logger, err, hMsg)
}

// @Summary Análise da avaliação
// @Tags Análises
// @Description Pontuação por categoria com regras de anonimato
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   assessment_id		path	string	true	"ID da avaliação"
// @Success 200 {object} apimodels.Response{data=analyticsapimodels.AssessmentAnalytics}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @router /api/v1/space/analytics/{assessment_id} [get]
func (c *analyticsApiController) assessment(ctx *fiber.Ctx) error {
	assessmentID, err := c.GetParamID(ctx, "assessment_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	orgID := middleware.GetUserOrganization(ctx)
	data, err := analytics.Instance.ComputeAssessmentAnalytics(ctx.UserContext(), orgID, assessmentID)
	if err != nil {
		return c.sendAnalyticsError(ctx, c.logger(ctx, assessmentID), err, "Erro ao calcular a análise da avaliação")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(data))
}

// @Summary Análise por departamento
// @Tags Análises
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   assessment_id		path	string	true	"ID da avaliação"
// @Success 200 {object} apimodels.Response{data=[]analyticsapimodels.DepartmentResult}
// @Failure 404 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @router /api/v1/space/analytics/{assessment_id}/departments [get]
func (c *analyticsApiController) departments(ctx *fiber.Ctx) error {
	assessmentID, err := c.GetParamID(ctx, "assessment_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	orgID := middleware.GetUserOrganization(ctx)
	data, err := analytics.Instance.ComputeDepartmentAnalytics(ctx.UserContext(), orgID, assessmentID)
	if err != nil {
		return c.sendAnalyticsError(ctx, c.logger(ctx, assessmentID), err, "Erro ao calcular a análise por departamento")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(data))
}

// @Summary Distribuição de respostas da pergunta
// @Tags Análises
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   assessment_id		path	string	true	"ID da avaliação"
// @Param   question_id		path	string	true	"ID da pergunta"
// @Success 200 {object} apimodels.Response{data=analyticsapimodels.QuestionDistribution}
// @Failure 404 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @router /api/v1/space/analytics/{assessment_id}/questions/{question_id}/distribution [get]
func (c *analyticsApiController) distribution(ctx *fiber.Ctx) error {
	assessmentID, err := c.GetParamID(ctx, "assessment_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	questionID, err := c.GetParamID(ctx, "question_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	orgID := middleware.GetUserOrganization(ctx)
	data, err := analytics.Instance.ComputeQuestionDistribution(ctx.UserContext(), orgID, assessmentID, questionID)
	if err != nil {
		return c.sendAnalyticsError(ctx, c.logger(ctx, assessmentID).WithField("question_id", questionID), err, "Erro ao calcular a distribuição de respostas")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(data))
}

// @Summary Verificar limites de risco
// @Tags Análises
// @Description Envia alertas para categorias com risco alto ou crítico
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   assessment_id		path	string	true	"ID da avaliação"
// @Success 200 {object} apimodels.Response{data=analyticsapimodels.ThresholdCheck}
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @router /api/v1/space/analytics/{assessment_id}/check_thresholds [post]
func (c *analyticsApiController) checkThresholds(ctx *fiber.Ctx) error {
	assessmentID, err := c.GetParamID(ctx, "assessment_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	orgID := middleware.GetUserOrganization(ctx)
	data, err := analytics.Instance.CheckRiskThresholds(ctx.UserContext(), orgID, assessmentID)
	if err != nil {
		return c.sendAnalyticsError(ctx, c.logger(ctx, assessmentID), err, "Erro ao verificar limites de risco")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(data))
}

// @Summary Dados do relatório
// @Tags Análises
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   assessment_id		path	string	true	"ID da avaliação"
// @Success 200 {object} apimodels.Response{data=analyticsapimodels.ReportData}
// @Failure 404 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @router /api/v1/space/analytics/{assessment_id}/report [get]
func (c *analyticsApiController) report(ctx *fiber.Ctx) error {
	assessmentID, err := c.GetParamID(ctx, "assessment_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	orgID := middleware.GetUserOrganization(ctx)
	data, err := analytics.Instance.ComputeReportData(ctx.UserContext(), orgID, assessmentID)
	if err != nil {
		return c.sendAnalyticsError(ctx, c.logger(ctx, assessmentID), err, "Erro ao gerar dados do relatório")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(data))
}

// @Summary Relatório em Excel ou PDF
// @Tags Análises
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   assessment_id		path	string	true	"ID da avaliação"
// @Success 200
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 503 {object} apimodels.Response
// @router /api/v1/space/analytics/{assessment_id}/report.xlsx [get]
// @router /api/v1/space/analytics/{assessment_id}/report.pdf [get]
func (c *analyticsApiController) reportExport(format analytics.ExportFormat) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		assessmentID, err := c.GetParamID(ctx, "assessment_id")
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
		orgID := middleware.GetUserOrganization(ctx)
		file, err := analytics.Instance.ExportReport(ctx.UserContext(), orgID, assessmentID, format)
		if err != nil {
			return c.sendAnalyticsError(ctx, c.logger(ctx, assessmentID), err, "Erro ao gerar o relatório")
		}
		return sendFile(ctx, file)
	}
}

// @Summary Respostas detalhadas em Excel ou CSV
// @Tags Análises
// @Description Disponível apenas quando o número de participantes atinge o mínimo de anonimato
// @Param   Authorization		header	string	true	"Authorization token"
// @Param   assessment_id		path	string	true	"ID da avaliação"
// @Success 200
// @Failure 403 {object} apimodels.Response{data=analyticsapimodels.ExportDecision}
// @Failure 404 {object} apimodels.Response
// @Failure 422 {object} apimodels.Response{data=analyticsapimodels.ExportDecision}
// @Failure 503 {object} apimodels.Response
// @router /api/v1/space/analytics/{assessment_id}/responses.xlsx [get]
// @router /api/v1/space/analytics/{assessment_id}/responses.csv [get]
func (c *analyticsApiController) responsesExport(format analytics.ExportFormat) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		assessmentID, err := c.GetParamID(ctx, "assessment_id")
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
		orgID := middleware.GetUserOrganization(ctx)
		file, gate, err := analytics.Instance.ExportResponses(ctx.UserContext(), orgID, assessmentID, format)
		if err != nil {
			return c.sendAnalyticsError(ctx, c.logger(ctx, assessmentID), err, "Erro ao exportar respostas")
		}
		switch gate.State {
		case analyticsapimodels.ExportNoData:
			return ctx.Status(fiber.StatusUnprocessableEntity).
				JSON(apimodels.NewErrorWithData("nenhuma resposta para exportar", gate))
		case analyticsapimodels.ExportBlocked:
			return ctx.Status(fiber.StatusForbidden).
				JSON(apimodels.NewErrorWithData("exportação bloqueada pelas regras de anonimato", gate))
		}
		return sendFile(ctx, file)
	}
}

func sendFile(ctx *fiber.Ctx, file *analytics.ExportFile) error {
	ctx.Set(fiber.HeaderContentType, file.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.FileName+`"`)
	return ctx.SendStream(file.Body)
}
