package engine

import (
	"fmt"

	"github.com/holiman/uint256"
)

// usdValue prices amount of asset in Precision-scaled USD, going
// through the staleness guard.
func (e *Engine) usdValue(asset string, amount *uint256.Int) (*uint256.Int, error) {
	entry, ok := e.registry[asset]
	if !ok {
		return nil, fmt.Errorf("%s: %w", asset, ErrUnknownAsset)
	}

	data, err := entry.guard.FreshRoundData()
	if err != nil {
		return nil, err
	}

	priceScaled, overflow := new(uint256.Int).MulOverflow(data.Price, FeedPrecisionAdjust)
	if overflow {
		return nil, fmt.Errorf("price of %s: %w", asset, ErrAmountOverflow)
	}

	value, overflow := new(uint256.Int).MulDivOverflow(priceScaled, amount, Precision)
	if overflow {
		return nil, fmt.Errorf("usd value of %s: %w", asset, ErrAmountOverflow)
	}
	return value, nil
}

// tokenAmountFromUSD is the inverse of usdValue: how much of asset a
// Precision-scaled USD amount buys at the current fresh price.
func (e *Engine) tokenAmountFromUSD(asset string, usdAmount *uint256.Int) (*uint256.Int, error) {
	entry, ok := e.registry[asset]
	if !ok {
		return nil, fmt.Errorf("%s: %w", asset, ErrUnknownAsset)
	}

	data, err := entry.guard.FreshRoundData()
	if err != nil {
		return nil, err
	}
	if data.Price.IsZero() {
		return nil, fmt.Errorf("%s: %w", asset, ErrInvalidPrice)
	}

	priceScaled, overflow := new(uint256.Int).MulOverflow(data.Price, FeedPrecisionAdjust)
	if overflow {
		return nil, fmt.Errorf("price of %s: %w", asset, ErrAmountOverflow)
	}

	amount, overflow := new(uint256.Int).MulDivOverflow(usdAmount, Precision, priceScaled)
	if overflow {
		return nil, fmt.Errorf("token amount of %s: %w", asset, ErrAmountOverflow)
	}
	return amount, nil
}

// collateralValueUSD sums the USD value of every registered collateral
// asset held by account, in registration order.
func (e *Engine) collateralValueUSD(account string) (*uint256.Int, error) {
	total := new(uint256.Int)
	balances := e.collateral[account]

	for _, asset := range e.assets {
		bal, ok := balances[asset]
		if !ok || bal.IsZero() {
			continue
		}
		value, err := e.usdValue(asset, bal)
		if err != nil {
			return nil, err
		}
		if _, overflow := total.AddOverflow(total, value); overflow {
			return nil, fmt.Errorf("collateral value of %s: %w", account, ErrAmountOverflow)
		}
	}
	return total, nil
}

// healthFactor is the Precision-scaled ratio of threshold-adjusted
// collateral value to outstanding debt. Zero debt returns the maximal
// sentinel.
func (e *Engine) healthFactor(account string) (*uint256.Int, error) {
	debt, ok := e.debt[account]
	if !ok || debt.IsZero() {
		return new(uint256.Int).Set(maxHealthFactor), nil
	}

	value, err := e.collateralValueUSD(account)
	if err != nil {
		return nil, err
	}

	adjusted, overflow := new(uint256.Int).MulDivOverflow(value, LiquidationThreshold, LiquidationPrecision)
	if overflow {
		return nil, fmt.Errorf("adjusted collateral of %s: %w", account, ErrAmountOverflow)
	}

	factor, overflow := new(uint256.Int).MulDivOverflow(adjusted, Precision, debt)
	if overflow {
		return nil, fmt.Errorf("health factor of %s: %w", account, ErrAmountOverflow)
	}
	return factor, nil
}

// checkHealthFactor is the post-condition applied after every
// state-changing operation on the mutated account.
func (e *Engine) checkHealthFactor(account string) error {
	factor, err := e.healthFactor(account)
	if err != nil {
		return err
	}
	if factor.Lt(MinHealthFactor) {
		return &BrokenHealthFactorError{Account: account, Factor: factor}
	}
	return nil
}

// HealthFactor reports the current health factor of account.
func (e *Engine) HealthFactor(account string) (*uint256.Int, error) {
	return e.healthFactor(account)
}

// CollateralValueUSD reports the Precision-scaled USD value of all
// collateral deposited by account.
func (e *Engine) CollateralValueUSD(account string) (*uint256.Int, error) {
	return e.collateralValueUSD(account)
}

// USDValue prices amount of asset in Precision-scaled USD.
func (e *Engine) USDValue(asset string, amount *uint256.Int) (*uint256.Int, error) {
	return e.usdValue(asset, amount)
}

// TokenAmountFromUSD converts a Precision-scaled USD amount into units
// of asset at the current fresh price.
func (e *Engine) TokenAmountFromUSD(asset string, usdAmount *uint256.Int) (*uint256.Int, error) {
	return e.tokenAmountFromUSD(asset, usdAmount)
}

// CollateralBalance reports how much of asset account has deposited.
func (e *Engine) CollateralBalance(account, asset string) *uint256.Int {
	if bal, ok := e.collateral[account][asset]; ok {
		return new(uint256.Int).Set(bal)
	}
	return new(uint256.Int)
}

// DebtOf reports the outstanding minted debt of account.
func (e *Engine) DebtOf(account string) *uint256.Int {
	if bal, ok := e.debt[account]; ok {
		return new(uint256.Int).Set(bal)
	}
	return new(uint256.Int)
}
