package controller

import (
	"querynotes-be/internal/dto"
	"querynotes-be/internal/pkg/serverutils"
	"querynotes-be/pkg/llm/factory"

	"github.com/gofiber/fiber/v2"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	models factory.ModelResolver
}

func NewHealthController(models factory.ModelResolver) IHealthController {
	return &healthController{
		models: models,
	}
}

// RegisterRoutes mounts the endpoint without auth so probes can reach it.
func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	res := dto.HealthResponse{
		Status:  "ok",
		Primary: c.models.Primary().Name,
	}
	if fallback := c.models.Fallback(); fallback != nil {
		res.Fallback = fallback.Name
	}
	return ctx.JSON(serverutils.SuccessResponse("Service is healthy", res))
}
