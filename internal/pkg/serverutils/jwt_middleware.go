package serverutils

import (
	"querynotes-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const userIdKey = "user_id"

// JwtMiddleware verifies HS256 bearer tokens signed with secret. Supabase
// puts the user id in "sub"; tokens issued elsewhere may use "user_id".
func JwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return unauthorized(ctx, "Missing token")
		}
		tokenStr := authHeader[7:]

		if secret == "" {
			return unauthorized(ctx, "Invalid token")
		}

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || !token.Valid {
			return unauthorized(ctx, "Invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return unauthorized(ctx, "Invalid claims")
		}

		userId, _ := claims.GetSubject()
		if userId == "" {
			userId, _ = claims["user_id"].(string)
		}
		if _, err := uuid.Parse(userId); err != nil {
			return unauthorized(ctx, "Invalid claims")
		}

		ctx.Locals(userIdKey, userId)
		return ctx.Next()
	}
}

// CurrentUserId returns the caller set by JwtMiddleware.
func CurrentUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, _ := ctx.Locals(userIdKey).(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, apperror.Unauthorized("Unauthorized")
	}
	return userId, nil
}

func unauthorized(ctx *fiber.Ctx, message string) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, message))
}
