package engine

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog"

	"github.com/Shourya4641/Lending-Protocol/internal/ledger"
	"github.com/Shourya4641/Lending-Protocol/internal/oracle"
)

// CustodyAccount is the engine's own account on every external ledger.
// Deposited collateral and synth pulled in for burning sit here.
const CustodyAccount = "engine-custody"

// Fixed-point parameters. All internal USD values and health factors
// are scaled by Precision; feeds answer with 8 decimals and are scaled
// up by FeedPrecisionAdjust. Only LiquidationThreshold percent of
// nominal collateral value counts toward backing debt.
var (
	Precision            = uint256.NewInt(1_000_000_000_000_000_000)
	FeedPrecisionAdjust  = uint256.NewInt(10_000_000_000)
	LiquidationThreshold = uint256.NewInt(50)
	LiquidationPrecision = uint256.NewInt(100)
	LiquidationBonusPct  = uint256.NewInt(10)
	MinHealthFactor      = uint256.NewInt(1_000_000_000_000_000_000)

	// maxHealthFactor is the zero-debt sentinel. Zero debt is maximal
	// health, never a division-by-zero error.
	maxHealthFactor = new(uint256.Int).SetAllOne()
)

type collateralEntry struct {
	guard  *oracle.Guard
	ledger ledger.AssetLedger
}

// Engine owns the collateral and debt ledgers and enforces the
// over-collateralization invariant on every state transition. It does
// not own the synthetic-token or collateral-asset balances; it only
// directs transfers on them.
type Engine struct {
	assets   []string
	registry map[string]collateralEntry
	synth    ledger.SyntheticToken
	sink     EventSink
	log      zerolog.Logger

	// account -> asset -> deposited amount, and account -> outstanding
	// debt. Absent keys read as zero; entries persist at zero.
	collateral map[string]map[string]*uint256.Int
	debt       map[string]*uint256.Int

	entered atomic.Bool
}

// New builds the engine with its immutable collateral registry. The
// three slices are positional: assetIDs[i] is priced by feeds[i] and
// held on ledgers[i]. Registration order is the iteration order for
// aggregate valuation.
func New(assetIDs []string, feeds []oracle.Feed, ledgers []ledger.AssetLedger, synth ledger.SyntheticToken, sink EventSink, log zerolog.Logger) (*Engine, error) {
	if len(assetIDs) != len(feeds) || len(assetIDs) != len(ledgers) {
		return nil, ErrLengthMismatch
	}

	e := &Engine{
		assets:     make([]string, 0, len(assetIDs)),
		registry:   make(map[string]collateralEntry, len(assetIDs)),
		synth:      synth,
		sink:       sink,
		log:        log,
		collateral: make(map[string]map[string]*uint256.Int),
		debt:       make(map[string]*uint256.Int),
	}
	for i, asset := range assetIDs {
		if _, exists := e.registry[asset]; exists {
			return nil, fmt.Errorf("asset %s registered twice", asset)
		}
		e.assets = append(e.assets, asset)
		e.registry[asset] = collateralEntry{
			guard:  oracle.NewGuard(feeds[i]),
			ledger: ledgers[i],
		}
	}
	return e, nil
}

// RegisteredAssets returns the collateral asset identifiers in
// registration order.
func (e *Engine) RegisteredAssets() []string {
	out := make([]string, len(e.assets))
	copy(out, e.assets)
	return out
}

// enter acquires the non-reentrant execution guard. An external
// collaborator calling back into the engine mid-operation fails here
// instead of observing half-applied state.
func (e *Engine) enter() error {
	if !e.entered.CompareAndSwap(false, true) {
		return ErrReentrantCall
	}
	return nil
}

func (e *Engine) exit() {
	e.entered.Store(false)
}

// journal collects undo steps for the current operation. Every error
// aborts the whole operation; unwind restores all tentative mutations
// in reverse order so no partial state is ever observable.
type journal struct {
	undos []func() error
}

func (j *journal) push(fn func() error) {
	j.undos = append(j.undos, fn)
}

func (j *journal) unwind(log zerolog.Logger) {
	for i := len(j.undos) - 1; i >= 0; i-- {
		if err := j.undos[i](); err != nil {
			log.Error().Err(err).Msg("failed to undo operation step")
		}
	}
}

func (e *Engine) creditCollateral(account, asset string, amount *uint256.Int, j *journal) error {
	balances, ok := e.collateral[account]
	if !ok {
		balances = make(map[string]*uint256.Int)
		e.collateral[account] = balances
	}
	bal, ok := balances[asset]
	if !ok {
		bal = new(uint256.Int)
		balances[asset] = bal
	}

	if _, overflow := bal.AddOverflow(bal, amount); overflow {
		bal.Sub(bal, amount)
		return fmt.Errorf("collateral of %s: %w", account, ErrAmountOverflow)
	}
	j.push(func() error {
		bal.Sub(bal, amount)
		return nil
	})
	return nil
}

func (e *Engine) debitCollateral(account, asset string, amount *uint256.Int, j *journal) error {
	balances := e.collateral[account]
	bal, ok := balances[asset]
	if !ok || bal.Lt(amount) {
		return fmt.Errorf("account %s, asset %s: %w", account, asset, ErrInsufficientCollateral)
	}

	bal.Sub(bal, amount)
	j.push(func() error {
		bal.Add(bal, amount)
		return nil
	})
	return nil
}

func (e *Engine) creditDebt(account string, amount *uint256.Int, j *journal) error {
	bal, ok := e.debt[account]
	if !ok {
		bal = new(uint256.Int)
		e.debt[account] = bal
	}

	if _, overflow := bal.AddOverflow(bal, amount); overflow {
		bal.Sub(bal, amount)
		return fmt.Errorf("debt of %s: %w", account, ErrAmountOverflow)
	}
	j.push(func() error {
		bal.Sub(bal, amount)
		return nil
	})
	return nil
}

func (e *Engine) debitDebt(account string, amount *uint256.Int, j *journal) error {
	bal, ok := e.debt[account]
	if !ok || bal.Lt(amount) {
		return fmt.Errorf("account %s: %w", account, ErrInsufficientDebt)
	}

	bal.Sub(bal, amount)
	j.push(func() error {
		bal.Add(bal, amount)
		return nil
	})
	return nil
}

func (e *Engine) emit(ctx context.Context, ev Event) {
	if e.sink == nil {
		return
	}
	if err := e.sink.Record(ctx, ev); err != nil {
		e.log.Warn().Err(err).Str("kind", ev.Kind()).Msg("failed to record event")
	}
}
