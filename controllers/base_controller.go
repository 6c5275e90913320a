package controllers

import (
	"nr1-risk-backend/middleware"
	apimodels "nr1-risk-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("erro ao interpretar a requisição")
		return errors.New("não foi possível obter os dados da requisição")
	}
	return nil
}

// GetParamID returns a path parameter that must hold a UUID.
func (c *BaseAPIController) GetParamID(ctx *fiber.Ctx, name string) (string, error) {
	id := ctx.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", errors.Errorf("identificador inválido: %s", name)
	}
	return id, nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("organization_id", middleware.GetUserOrganization(ctx)).
		WithField("user_id", middleware.GetUserID(ctx))
}

// SendError logs err and answers 500 with a message safe for the client.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, hMsg string) error {
	logger.WithError(err).Error(hMsg)
	return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(hMsg))
}
