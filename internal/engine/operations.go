package engine

import (
	"context"
	"fmt"

	"github.com/holiman/uint256"
)

// DepositCollateral moves amount of asset from caller into engine
// custody and credits the caller's collateral balance.
func (e *Engine) DepositCollateral(ctx context.Context, caller, asset string, amount *uint256.Int) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	var j journal
	if err := e.depositCollateral(ctx, caller, asset, amount, &j); err != nil {
		j.unwind(e.log)
		return err
	}
	return nil
}

// RedeemCollateral returns amount of asset from engine custody to the
// caller, then verifies the caller is still over-collateralized.
func (e *Engine) RedeemCollateral(ctx context.Context, caller, asset string, amount *uint256.Int) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	var j journal
	if err := e.redeemCollateral(ctx, caller, caller, asset, amount, &j); err != nil {
		j.unwind(e.log)
		return err
	}
	if err := e.checkHealthFactor(caller); err != nil {
		j.unwind(e.log)
		return err
	}
	return nil
}

// MintDebt records amount of new debt for the caller, verifies the
// caller stays over-collateralized, then realizes the debt by minting
// synth to the caller.
func (e *Engine) MintDebt(ctx context.Context, caller string, amount *uint256.Int) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	var j journal
	if err := e.mintDebt(caller, amount, &j); err != nil {
		j.unwind(e.log)
		return err
	}
	return nil
}

// BurnDebt retires amount of the caller's debt, paid with the caller's
// own synth. Burning can only improve the health factor; the
// post-condition stays as defense in depth.
func (e *Engine) BurnDebt(ctx context.Context, caller string, amount *uint256.Int) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	var j journal
	if err := e.burnDebt(caller, caller, amount, &j); err != nil {
		j.unwind(e.log)
		return err
	}
	if err := e.checkHealthFactor(caller); err != nil {
		j.unwind(e.log)
		return err
	}
	return nil
}

// DepositCollateralAndMintDebt composes deposit then mint in one
// atomic operation.
func (e *Engine) DepositCollateralAndMintDebt(ctx context.Context, caller, asset string, collateralAmount, debtAmount *uint256.Int) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	var j journal
	if err := e.depositCollateral(ctx, caller, asset, collateralAmount, &j); err != nil {
		j.unwind(e.log)
		return err
	}
	if err := e.mintDebt(caller, debtAmount, &j); err != nil {
		j.unwind(e.log)
		return err
	}
	return nil
}

// RedeemCollateralForDebt composes burn then redeem in one atomic
// operation. Burning first lets the health check run against the
// reduced debt.
func (e *Engine) RedeemCollateralForDebt(ctx context.Context, caller, asset string, collateralAmount, debtAmount *uint256.Int) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	var j journal
	if err := e.burnDebt(caller, caller, debtAmount, &j); err != nil {
		j.unwind(e.log)
		return err
	}
	if err := e.redeemCollateral(ctx, caller, caller, asset, collateralAmount, &j); err != nil {
		j.unwind(e.log)
		return err
	}
	if err := e.checkHealthFactor(caller); err != nil {
		j.unwind(e.log)
		return err
	}
	return nil
}

// Liquidate lets any caller retire debtToCover of an unhealthy
// account's debt in exchange for the equivalent collateral plus a
// bonus. The target's health factor must strictly improve and the
// liquidator must end the call over-collateralized itself.
func (e *Engine) Liquidate(ctx context.Context, liquidator, asset, account string, debtToCover *uint256.Int) error {
	if err := e.enter(); err != nil {
		return err
	}
	defer e.exit()

	if debtToCover == nil || debtToCover.IsZero() {
		return ErrZeroAmount
	}

	startingFactor, err := e.healthFactor(account)
	if err != nil {
		return err
	}
	if !startingFactor.Lt(MinHealthFactor) {
		return fmt.Errorf("account %s: %w", account, ErrHealthFactorIntact)
	}

	tokenAmount, err := e.tokenAmountFromUSD(asset, debtToCover)
	if err != nil {
		return err
	}
	bonus, overflow := new(uint256.Int).MulDivOverflow(tokenAmount, LiquidationBonusPct, LiquidationPrecision)
	if overflow {
		return fmt.Errorf("liquidation bonus: %w", ErrAmountOverflow)
	}
	seized, overflow := new(uint256.Int).AddOverflow(tokenAmount, bonus)
	if overflow {
		return fmt.Errorf("seized collateral: %w", ErrAmountOverflow)
	}

	var j journal
	if err := e.redeemCollateral(ctx, account, liquidator, asset, seized, &j); err != nil {
		j.unwind(e.log)
		return err
	}
	if err := e.burnDebt(account, liquidator, debtToCover, &j); err != nil {
		j.unwind(e.log)
		return err
	}

	endingFactor, err := e.healthFactor(account)
	if err != nil {
		j.unwind(e.log)
		return err
	}
	if !endingFactor.Gt(startingFactor) {
		j.unwind(e.log)
		return fmt.Errorf("account %s: %w", account, ErrHealthFactorNotImproved)
	}
	if err := e.checkHealthFactor(liquidator); err != nil {
		j.unwind(e.log)
		return err
	}

	e.log.Info().
		Str("liquidator", liquidator).
		Str("account", account).
		Str("asset", asset).
		Str("debt_covered", debtToCover.Dec()).
		Str("collateral_seized", seized.Dec()).
		Str("ending_factor", endingFactor.Dec()).
		Msg("account liquidated")
	return nil
}

// depositCollateral credits the ledger, records the event, then pulls
// the asset from account into custody. Effects before interactions.
func (e *Engine) depositCollateral(ctx context.Context, account, asset string, amount *uint256.Int, j *journal) error {
	if amount == nil || amount.IsZero() {
		return ErrZeroAmount
	}
	entry, ok := e.registry[asset]
	if !ok {
		return fmt.Errorf("%s: %w", asset, ErrUnknownAsset)
	}

	if err := e.creditCollateral(account, asset, amount, j); err != nil {
		return err
	}
	e.emit(ctx, CollateralDeposited{
		Account: account,
		Asset:   asset,
		Amount:  new(uint256.Int).Set(amount),
	})

	if err := entry.ledger.TransferFrom(account, CustodyAccount, amount); err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	j.push(func() error {
		return entry.ledger.Transfer(account, amount)
	})

	e.log.Info().
		Str("account", account).
		Str("asset", asset).
		Str("amount", amount.Dec()).
		Msg("collateral deposited")
	return nil
}

// redeemCollateral debits from's ledger entry, records the event, then
// pushes the asset from custody to to. Used by the public redeem and
// by liquidation.
func (e *Engine) redeemCollateral(ctx context.Context, from, to, asset string, amount *uint256.Int, j *journal) error {
	if amount == nil || amount.IsZero() {
		return ErrZeroAmount
	}
	entry, ok := e.registry[asset]
	if !ok {
		return fmt.Errorf("%s: %w", asset, ErrUnknownAsset)
	}

	if err := e.debitCollateral(from, asset, amount, j); err != nil {
		return err
	}
	e.emit(ctx, CollateralRedeemed{
		From:   from,
		To:     to,
		Asset:  asset,
		Amount: new(uint256.Int).Set(amount),
	})

	if err := entry.ledger.Transfer(to, amount); err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	j.push(func() error {
		return entry.ledger.TransferFrom(to, CustodyAccount, amount)
	})

	e.log.Info().
		Str("from", from).
		Str("to", to).
		Str("asset", asset).
		Str("amount", amount.Dec()).
		Msg("collateral redeemed")
	return nil
}

// mintDebt provisionally records the debt, validates the health
// factor, then realizes the debt on the synth ledger. Minting is the
// final interaction of every operation that uses it, so no undo is
// journaled for the external mint.
func (e *Engine) mintDebt(account string, amount *uint256.Int, j *journal) error {
	if amount == nil || amount.IsZero() {
		return ErrZeroAmount
	}

	if err := e.creditDebt(account, amount, j); err != nil {
		return err
	}
	if err := e.checkHealthFactor(account); err != nil {
		return err
	}

	if err := e.synth.Mint(account, amount); err != nil {
		return fmt.Errorf("%w: %v", ErrMintFailed, err)
	}

	e.log.Info().
		Str("account", account).
		Str("amount", amount.Dec()).
		Msg("debt minted")
	return nil
}

// burnDebt retires onBehalfOf's debt, paid by payer: the synth is
// pulled into custody and destroyed there. Used by the public burn and
// by liquidation.
func (e *Engine) burnDebt(onBehalfOf, payer string, amount *uint256.Int, j *journal) error {
	if amount == nil || amount.IsZero() {
		return ErrZeroAmount
	}

	if err := e.debitDebt(onBehalfOf, amount, j); err != nil {
		return err
	}

	if err := e.synth.TransferFrom(payer, CustodyAccount, amount); err != nil {
		return fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	j.push(func() error {
		return e.synth.TransferFrom(CustodyAccount, payer, amount)
	})

	if err := e.synth.Burn(amount); err != nil {
		return fmt.Errorf("%w: burn: %v", ErrTransferFailed, err)
	}
	j.push(func() error {
		return e.synth.Mint(CustodyAccount, amount)
	})

	e.log.Info().
		Str("on_behalf_of", onBehalfOf).
		Str("payer", payer).
		Str("amount", amount.Dec()).
		Msg("debt burned")
	return nil
}
