package engine

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

var (
	ErrZeroAmount              = errors.New("amount must be more than zero")
	ErrUnknownAsset            = errors.New("asset is not registered as collateral")
	ErrLengthMismatch          = errors.New("asset, feed and ledger lists must have the same length")
	ErrTransferFailed          = errors.New("transfer failed")
	ErrMintFailed              = errors.New("mint failed")
	ErrInsufficientCollateral  = errors.New("insufficient collateral balance")
	ErrInsufficientDebt        = errors.New("amount exceeds outstanding debt")
	ErrAmountOverflow          = errors.New("amount exceeds representable range")
	ErrInvalidPrice            = errors.New("price feed returned a zero price")
	ErrHealthFactorIntact      = errors.New("health factor is not below minimum")
	ErrHealthFactorNotImproved = errors.New("liquidation did not improve health factor")
	ErrReentrantCall           = errors.New("reentrant call")
)

// BrokenHealthFactorError reports the post-condition failure of a
// state-changing operation, carrying the offending factor.
type BrokenHealthFactorError struct {
	Account string
	Factor  *uint256.Int
}

func (e *BrokenHealthFactorError) Error() string {
	return fmt.Sprintf("health factor of %s is broken: %s", e.Account, e.Factor.Dec())
}

// IsBrokenHealthFactor reports whether err is a BrokenHealthFactorError.
func IsBrokenHealthFactor(err error) bool {
	var broken *BrokenHealthFactorError
	return errors.As(err, &broken)
}
