package middleware

import (
	authutils "nr1-risk-backend/lib/utils/auth-utils"
	"nr1-risk-backend/models"
	apimodels "nr1-risk-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

func GetUserOrganization(ctx *fiber.Ctx) string {
	return stringClaim(ctx, "org")
}

func GetUserID(ctx *fiber.Ctx) string {
	return stringClaim(ctx, "sub")
}

func GetUserRole(ctx *fiber.Ctx) models.UserRole {
	return models.UserRole(stringClaim(ctx, "role"))
}

func stringClaim(ctx *fiber.Ctx, key string) string {
	claims := authutils.GetClaims(ctx)
	if value, exist := claims[key]; exist {
		if s, ok := value.(string); ok {
			return s
		}
	}
	return ""
}

// OrganizationRequired rejects tokens that are not bound to an organization.
func OrganizationRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if GetUserOrganization(ctx) == "" {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("operação indisponível"))
		}
		return ctx.Next()
	}
}

func ExportRoleRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !GetUserRole(ctx).CanExport() {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("operação indisponível"))
		}
		return ctx.Next()
	}
}

func OrgAdminRequired() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if !GetUserRole(ctx).IsOrgAdmin() {
			return ctx.Status(fiber.StatusForbidden).JSON(apimodels.NewError("operação indisponível"))
		}
		return ctx.Next()
	}
}
