package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/holiman/uint256"
)

var (
	ErrZeroAmount          = errors.New("zero amount")
	ErrEmptyAccount        = errors.New("empty account")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBalanceOverflow     = errors.New("balance overflow")
)

// AssetLedger is the transferable-balance contract a collateral asset
// exposes to the engine. Transfer moves out of the engine's custody
// balance; TransferFrom pulls from a depositor into custody.
type AssetLedger interface {
	Transfer(to string, amount *uint256.Int) error
	TransferFrom(from, to string, amount *uint256.Int) error
	BalanceOf(account string) *uint256.Int
}

// SyntheticToken is the mint/burn ledger for the synthetic unit of
// account. Mint and Burn are callable only by the engine, which is
// expressed here by possession of the concrete value. Burn destroys
// tokens held in the engine's custody balance.
type SyntheticToken interface {
	Mint(to string, amount *uint256.Int) error
	Burn(amount *uint256.Int) error
	TransferFrom(from, to string, amount *uint256.Int) error
	BalanceOf(account string) *uint256.Int
}

// Token is an in-memory fungible-balance ledger. It backs both the
// collateral assets and the synthetic token for the running service
// and for tests.
type Token struct {
	code    string
	custody string

	mu       sync.Mutex
	balances map[string]*uint256.Int
}

// NewToken creates an empty ledger. custody is the account whose
// balance Transfer spends and Burn destroys.
func NewToken(code, custody string) *Token {
	return &Token{
		code:     code,
		custody:  custody,
		balances: make(map[string]*uint256.Int),
	}
}

func (t *Token) Code() string {
	return t.code
}

func (t *Token) Transfer(to string, amount *uint256.Int) error {
	return t.move(t.custody, to, amount)
}

func (t *Token) TransferFrom(from, to string, amount *uint256.Int) error {
	return t.move(from, to, amount)
}

func (t *Token) Mint(to string, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return fmt.Errorf("%s: mint: %w", t.code, ErrZeroAmount)
	}
	if to == "" {
		return fmt.Errorf("%s: mint: %w", t.code, ErrEmptyAccount)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.credit(to, amount)
}

func (t *Token) Burn(amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return fmt.Errorf("%s: burn: %w", t.code, ErrZeroAmount)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.debit(t.custody, amount)
}

func (t *Token) BalanceOf(account string) *uint256.Int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if bal, ok := t.balances[account]; ok {
		return new(uint256.Int).Set(bal)
	}
	return new(uint256.Int)
}

func (t *Token) move(from, to string, amount *uint256.Int) error {
	if amount == nil || amount.IsZero() {
		return fmt.Errorf("%s: transfer: %w", t.code, ErrZeroAmount)
	}
	if from == "" || to == "" {
		return fmt.Errorf("%s: transfer: %w", t.code, ErrEmptyAccount)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.debit(from, amount); err != nil {
		return err
	}
	if err := t.credit(to, amount); err != nil {
		// Put the debited amount back so a failed move is a no-op.
		t.balances[from].Add(t.balances[from], amount)
		return err
	}
	return nil
}

func (t *Token) debit(account string, amount *uint256.Int) error {
	bal, ok := t.balances[account]
	if !ok || bal.Lt(amount) {
		return fmt.Errorf("%s: account %s: %w", t.code, account, ErrInsufficientBalance)
	}
	bal.Sub(bal, amount)
	return nil
}

func (t *Token) credit(account string, amount *uint256.Int) error {
	bal, ok := t.balances[account]
	if !ok {
		bal = new(uint256.Int)
		t.balances[account] = bal
	}
	if _, overflow := bal.AddOverflow(bal, amount); overflow {
		bal.Sub(bal, amount)
		return fmt.Errorf("%s: account %s: %w", t.code, account, ErrBalanceOverflow)
	}
	return nil
}
