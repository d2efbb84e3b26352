package api

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Shourya4641/Lending-Protocol/internal/api/feed"
	"github.com/Shourya4641/Lending-Protocol/internal/api/position"
)

func InitializeRoutes(app *fiber.App, positions *position.Service, feeds *feed.Service) {
	position.InitializeRoutes(app, positions)
	feed.InitializeRoutes(app, feeds)
}
