package authutils

import (
	"nr1-risk-backend/models"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func GetToken(secret, userID, orgID string, role models.UserRole, expireIn time.Duration) (tokenString string, err error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"org":  orgID,
		"role": string(role),
		"exp":  now.Add(expireIn).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func GetClaims(ctx *fiber.Ctx) jwt.MapClaims {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwt.MapClaims{}
	}
	return claims
}
