package position

import (
	"context"
	"errors"
	"sync"

	"github.com/gofiber/fiber/v3"

	"github.com/Shourya4641/Lending-Protocol/internal/engine"
	"github.com/Shourya4641/Lending-Protocol/internal/helper"
	"github.com/Shourya4641/Lending-Protocol/internal/oracle"
)

// Service serializes all engine calls with a mutex so concurrent HTTP
// requests queue instead of tripping the engine's reentrancy guard.
type Service struct {
	engine *engine.Engine
	mu     sync.Mutex
}

func NewService(eng *engine.Engine) *Service {
	return &Service{engine: eng}
}

func GetPositionHandler(s *Service) fiber.Handler {
	return func(c fiber.Ctx) error {
		account := c.Params("account")
		if account == "" {
			return fiber.ErrBadRequest
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		balances := make([]CollateralBalanceSchema, 0)
		for _, asset := range s.engine.RegisteredAssets() {
			amount := helper.FromBaseUnits(s.engine.CollateralBalance(account, asset))
			balances = append(balances, CollateralBalanceSchema{Asset: asset, Amount: &amount})
		}

		value, err := s.engine.CollateralValueUSD(account)
		if err != nil {
			return engineError(c, err)
		}
		factor, err := s.engine.HealthFactor(account)
		if err != nil {
			return engineError(c, err)
		}

		debt := helper.FromBaseUnits(s.engine.DebtOf(account))
		usd := helper.FromBaseUnits(value)
		hf := helper.FromBaseUnits(factor)
		return c.JSON(PositionShowSchema{
			Account:            account,
			Balances:           balances,
			Debt:               &debt,
			CollateralValueUSD: &usd,
			HealthFactor:       &hf,
		})
	}
}

func DepositHandler(ctx context.Context, s *Service) fiber.Handler {
	return func(c fiber.Ctx) error {
		account := c.Params("account")
		if account == "" {
			return fiber.ErrBadRequest
		}

		// Parse deposit schema
		var body DepositSchema
		if err := c.Bind().Body(&body); err != nil {
			return fiber.ErrBadRequest
		}
		if err := helper.ValidateInput(&body); err != nil {
			return validationError(c, err)
		}
		amount, err := helper.ToBaseUnits(*body.Amount)
		if err != nil {
			return validationError(c, err)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.engine.DepositCollateral(ctx, account, body.Asset, amount); err != nil {
			return engineError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func RedeemHandler(ctx context.Context, s *Service) fiber.Handler {
	return func(c fiber.Ctx) error {
		account := c.Params("account")
		if account == "" {
			return fiber.ErrBadRequest
		}

		// Parse redeem schema
		var body RedeemSchema
		if err := c.Bind().Body(&body); err != nil {
			return fiber.ErrBadRequest
		}
		if err := helper.ValidateInput(&body); err != nil {
			return validationError(c, err)
		}
		amount, err := helper.ToBaseUnits(*body.Amount)
		if err != nil {
			return validationError(c, err)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.engine.RedeemCollateral(ctx, account, body.Asset, amount); err != nil {
			return engineError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func MintHandler(ctx context.Context, s *Service) fiber.Handler {
	return func(c fiber.Ctx) error {
		account := c.Params("account")
		if account == "" {
			return fiber.ErrBadRequest
		}

		// Parse mint schema
		var body MintSchema
		if err := c.Bind().Body(&body); err != nil {
			return fiber.ErrBadRequest
		}
		if err := helper.ValidateInput(&body); err != nil {
			return validationError(c, err)
		}
		amount, err := helper.ToBaseUnits(*body.Amount)
		if err != nil {
			return validationError(c, err)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.engine.MintDebt(ctx, account, amount); err != nil {
			return engineError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func BurnHandler(ctx context.Context, s *Service) fiber.Handler {
	return func(c fiber.Ctx) error {
		account := c.Params("account")
		if account == "" {
			return fiber.ErrBadRequest
		}

		// Parse burn schema
		var body BurnSchema
		if err := c.Bind().Body(&body); err != nil {
			return fiber.ErrBadRequest
		}
		if err := helper.ValidateInput(&body); err != nil {
			return validationError(c, err)
		}
		amount, err := helper.ToBaseUnits(*body.Amount)
		if err != nil {
			return validationError(c, err)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.engine.BurnDebt(ctx, account, amount); err != nil {
			return engineError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func DepositAndMintHandler(ctx context.Context, s *Service) fiber.Handler {
	return func(c fiber.Ctx) error {
		account := c.Params("account")
		if account == "" {
			return fiber.ErrBadRequest
		}

		// Parse composed schema
		var body DepositAndMintSchema
		if err := c.Bind().Body(&body); err != nil {
			return fiber.ErrBadRequest
		}
		if err := helper.ValidateInput(&body); err != nil {
			return validationError(c, err)
		}
		collateralAmount, err := helper.ToBaseUnits(*body.CollateralAmount)
		if err != nil {
			return validationError(c, err)
		}
		debtAmount, err := helper.ToBaseUnits(*body.DebtAmount)
		if err != nil {
			return validationError(c, err)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.engine.DepositCollateralAndMintDebt(ctx, account, body.Asset, collateralAmount, debtAmount); err != nil {
			return engineError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func RedeemForDebtHandler(ctx context.Context, s *Service) fiber.Handler {
	return func(c fiber.Ctx) error {
		account := c.Params("account")
		if account == "" {
			return fiber.ErrBadRequest
		}

		// Parse composed schema
		var body RedeemForDebtSchema
		if err := c.Bind().Body(&body); err != nil {
			return fiber.ErrBadRequest
		}
		if err := helper.ValidateInput(&body); err != nil {
			return validationError(c, err)
		}
		collateralAmount, err := helper.ToBaseUnits(*body.CollateralAmount)
		if err != nil {
			return validationError(c, err)
		}
		debtAmount, err := helper.ToBaseUnits(*body.DebtAmount)
		if err != nil {
			return validationError(c, err)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.engine.RedeemCollateralForDebt(ctx, account, body.Asset, collateralAmount, debtAmount); err != nil {
			return engineError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func LiquidateHandler(ctx context.Context, s *Service) fiber.Handler {
	return func(c fiber.Ctx) error {
		liquidator := c.Params("account")
		if liquidator == "" {
			return fiber.ErrBadRequest
		}

		// Parse liquidate schema
		var body LiquidateSchema
		if err := c.Bind().Body(&body); err != nil {
			return fiber.ErrBadRequest
		}
		if err := helper.ValidateInput(&body); err != nil {
			return validationError(c, err)
		}
		debtToCover, err := helper.ToBaseUnits(*body.DebtToCover)
		if err != nil {
			return validationError(c, err)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.engine.Liquidate(ctx, liquidator, body.Asset, body.TargetAccount, debtToCover); err != nil {
			return engineError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

func validationError(c fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func engineError(c fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, engine.ErrZeroAmount), errors.Is(err, engine.ErrUnknownAsset):
		return fiber.StatusBadRequest
	case errors.Is(err, engine.ErrInsufficientCollateral),
		errors.Is(err, engine.ErrInsufficientDebt),
		errors.Is(err, engine.ErrTransferFailed),
		errors.Is(err, engine.ErrMintFailed):
		return fiber.StatusPaymentRequired
	case engine.IsBrokenHealthFactor(err),
		errors.Is(err, engine.ErrHealthFactorIntact),
		errors.Is(err, engine.ErrHealthFactorNotImproved):
		return fiber.StatusConflict
	case errors.Is(err, oracle.ErrStalePrice),
		errors.Is(err, oracle.ErrNoRoundData),
		errors.Is(err, engine.ErrInvalidPrice):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
