package publicapi

import (
	"nr1-risk-backend/controllers"
	surveyresponse "nr1-risk-backend/lib/survey-response"
	apimodels "nr1-risk-backend/models/api"
	surveyapimodels "nr1-risk-backend/models/api/survey"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type publicSurveyApiController struct {
	controllers.BaseAPIController
}

func InitPublicSurveyApiRouters(app fiber.Router) {
	controller := publicSurveyApiController{}
	app.Route("survey", func(router fiber.Router) {
		router.Route(":assessment_id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.getSurvey)
			idRoute.Post("", controller.submit)
		})
	})
}

// @Summary Questionário da avaliação
// @Tags Questionário
// @Param   assessment_id		path	string	true	"ID da avaliação"
// @Success 200 {object} apimodels.Response{data=surveyapimodels.SurveyView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/public/survey/{assessment_id} [get]
func (c *publicSurveyApiController) getSurvey(ctx *fiber.Ctx) error {
	id, err := c.GetParamID(ctx, "assessment_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	resp, err := surveyresponse.Instance.GetPublicSurvey(ctx.UserContext(), id)
	if err != nil {
		if errors.Is(err, surveyresponse.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(err.Error()))
		}
		return c.SendError(ctx, log.WithField("assessment_id", id), err, "Erro ao obter o questionário")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resp))
}

// @Summary Envio de respostas
// @Tags Questionário
// @Description Respostas anônimas; member_id é usado apenas para vincular o departamento
// @Param   assessment_id		path	string	true	"ID da avaliação"
// @Param	body body	 surveyapimodels.Submission	true	"request body"
// @Success 200 {object} apimodels.Response{data=surveyapimodels.SubmissionResult}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/public/survey/{assessment_id} [post]
func (c *publicSurveyApiController) submit(ctx *fiber.Ctx) error {
	id, err := c.GetParamID(ctx, "assessment_id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload surveyapimodels.Submission
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	result, hMsg, err := surveyresponse.Instance.SubmitResponses(ctx.UserContext(), id, payload)
	if err != nil {
		if errors.Is(err, surveyresponse.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError(err.Error()))
		}
		return c.SendError(ctx, log.WithField("assessment_id", id), err, "Erro ao salvar as respostas")
	}
	if hMsg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(hMsg))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}
