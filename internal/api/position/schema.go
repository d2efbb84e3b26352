package position

import (
	"github.com/shopspring/decimal"
)

type DepositSchema struct {
	Asset  string           `json:"asset" validate:"required"`
	Amount *decimal.Decimal `json:"amount" validate:"required"`
}

type RedeemSchema = DepositSchema

type MintSchema struct {
	Amount *decimal.Decimal `json:"amount" validate:"required"`
}

type BurnSchema = MintSchema

type DepositAndMintSchema struct {
	Asset            string           `json:"asset" validate:"required"`
	CollateralAmount *decimal.Decimal `json:"collateral_amount" validate:"required"`
	DebtAmount       *decimal.Decimal `json:"debt_amount" validate:"required"`
}

type RedeemForDebtSchema = DepositAndMintSchema

type LiquidateSchema struct {
	Asset         string           `json:"asset" validate:"required"`
	TargetAccount string           `json:"target_account" validate:"required"`
	DebtToCover   *decimal.Decimal `json:"debt_to_cover" validate:"required"`
}

type CollateralBalanceSchema struct {
	Asset  string           `json:"asset"`
	Amount *decimal.Decimal `json:"amount"`
}

type PositionShowSchema struct {
	Account            string                    `json:"account"`
	Balances           []CollateralBalanceSchema `json:"balances"`
	Debt               *decimal.Decimal          `json:"debt"`
	CollateralValueUSD *decimal.Decimal          `json:"collateral_value_usd"`
	HealthFactor       *decimal.Decimal          `json:"health_factor"`
}
