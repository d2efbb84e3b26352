package position

import (
	"context"

	"github.com/gofiber/fiber/v3"
)

func InitializeRoutes(app *fiber.App, s *Service) {
	ctx := context.Background()

	app.Get("/v1/positions/:account", GetPositionHandler(s))
	app.Post("/v1/positions/:account/deposit", DepositHandler(ctx, s))
	app.Post("/v1/positions/:account/redeem", RedeemHandler(ctx, s))
	app.Post("/v1/positions/:account/mint", MintHandler(ctx, s))
	app.Post("/v1/positions/:account/burn", BurnHandler(ctx, s))
	app.Post("/v1/positions/:account/deposit-and-mint", DepositAndMintHandler(ctx, s))
	app.Post("/v1/positions/:account/redeem-for-debt", RedeemForDebtHandler(ctx, s))
	app.Post("/v1/positions/:account/liquidate", LiquidateHandler(ctx, s))
}
