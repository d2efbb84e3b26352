package feed

import (
	"time"

	"github.com/shopspring/decimal"
)

type UpdatePriceSchema struct {
	// Price in the feed's native 8-decimal units.
	Price *decimal.Decimal `json:"price" validate:"required"`
}

type FeedShowSchema struct {
	Asset     string           `json:"asset"`
	Price     *decimal.Decimal `json:"price"`
	RoundID   uint64           `json:"round_id"`
	UpdatedAt time.Time        `json:"updated_at"`
}
