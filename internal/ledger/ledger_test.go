package ledger

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

const custody = "custody"

func TestMintAndBalance(t *testing.T) {
	require := require.New(t)

	tok := NewToken("WETH", custody)
	require.NoError(tok.Mint("alice", uint256.NewInt(100)))
	require.Equal(uint256.NewInt(100), tok.BalanceOf("alice"))
	require.True(tok.BalanceOf("bob").IsZero())
}

func TestMintGuards(t *testing.T) {
	require := require.New(t)

	tok := NewToken("WETH", custody)
	require.ErrorIs(tok.Mint("alice", uint256.NewInt(0)), ErrZeroAmount)
	require.ErrorIs(tok.Mint("", uint256.NewInt(1)), ErrEmptyAccount)
}

func TestTransferFromMovesBalance(t *testing.T) {
	require := require.New(t)

	tok := NewToken("WETH", custody)
	require.NoError(tok.Mint("alice", uint256.NewInt(100)))
	require.NoError(tok.TransferFrom("alice", custody, uint256.NewInt(60)))

	require.Equal(uint256.NewInt(40), tok.BalanceOf("alice"))
	require.Equal(uint256.NewInt(60), tok.BalanceOf(custody))
}

func TestTransferSpendsCustody(t *testing.T) {
	require := require.New(t)

	tok := NewToken("WETH", custody)
	require.NoError(tok.Mint(custody, uint256.NewInt(10)))
	require.NoError(tok.Transfer("bob", uint256.NewInt(4)))

	require.Equal(uint256.NewInt(6), tok.BalanceOf(custody))
	require.Equal(uint256.NewInt(4), tok.BalanceOf("bob"))
}

func TestTransferInsufficientBalance(t *testing.T) {
	require := require.New(t)

	tok := NewToken("WETH", custody)
	require.NoError(tok.Mint("alice", uint256.NewInt(5)))

	err := tok.TransferFrom("alice", "bob", uint256.NewInt(6))
	require.ErrorIs(err, ErrInsufficientBalance)
	require.Equal(uint256.NewInt(5), tok.BalanceOf("alice"))
	require.True(tok.BalanceOf("bob").IsZero())
}

func TestBurnDestroysCustodyBalance(t *testing.T) {
	require := require.New(t)

	tok := NewToken("SYNTH", custody)
	require.NoError(tok.Mint(custody, uint256.NewInt(10)))
	require.NoError(tok.Burn(uint256.NewInt(7)))
	require.Equal(uint256.NewInt(3), tok.BalanceOf(custody))

	require.ErrorIs(tok.Burn(uint256.NewInt(4)), ErrInsufficientBalance)
	require.ErrorIs(tok.Burn(uint256.NewInt(0)), ErrZeroAmount)
}

func TestBalanceOfReturnsCopy(t *testing.T) {
	require := require.New(t)

	tok := NewToken("WETH", custody)
	require.NoError(tok.Mint("alice", uint256.NewInt(100)))

	bal := tok.BalanceOf("alice")
	bal.SetUint64(0)
	require.Equal(uint256.NewInt(100), tok.BalanceOf("alice"))
}
