package feed

import (
	"github.com/gofiber/fiber/v3"
)

func InitializeRoutes(app *fiber.App, s *Service) {
	app.Get("/v1/feeds/:asset", GetFeedHandler(s))
	app.Post("/v1/feeds/:asset", UpdatePriceHandler(s))
}
