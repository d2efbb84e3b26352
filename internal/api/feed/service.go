package feed

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Shourya4641/Lending-Protocol/internal/helper"
	"github.com/Shourya4641/Lending-Protocol/internal/oracle"
)

// Service exposes operator control over the manual price feeds.
type Service struct {
	feeds map[string]*oracle.ManualFeed
}

func NewService(feeds map[string]*oracle.ManualFeed) *Service {
	return &Service{feeds: feeds}
}

func GetFeedHandler(s *Service) fiber.Handler {
	return func(c fiber.Ctx) error {
		asset := c.Params("asset")
		f, ok := s.feeds[asset]
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "feed not found",
			})
		}

		data, err := f.LatestRoundData()
		if err != nil {
			if errors.Is(err, oracle.ErrNoRoundData) {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": err.Error(),
				})
			}
			return err
		}

		price := helper.FromBaseUnits(data.Price)
		return c.JSON(FeedShowSchema{
			Asset:     asset,
			Price:     &price,
			RoundID:   data.RoundID,
			UpdatedAt: data.UpdatedAt,
		})
	}
}

func UpdatePriceHandler(s *Service) fiber.Handler {
	return func(c fiber.Ctx) error {
		asset := c.Params("asset")
		f, ok := s.feeds[asset]
		if !ok {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "feed not found",
			})
		}

		// Parse price update schema
		var body UpdatePriceSchema
		if err := c.Bind().Body(&body); err != nil {
			return fiber.ErrBadRequest
		}
		if err := helper.ValidateInput(&body); err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		price, err := helper.ToBaseUnits(*body.Price)
		if err != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		if price.IsZero() {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": "price must be more than zero",
			})
		}

		f.UpdateAnswer(price)
		return c.SendStatus(fiber.StatusNoContent)
	}
}
