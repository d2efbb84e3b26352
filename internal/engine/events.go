package engine

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
)

// Event is an observable record of a collateral movement. Events are
// append-only: the engine never reads them back.
type Event interface {
	Kind() string
}

type CollateralDeposited struct {
	Account string
	Asset   string
	Amount  *uint256.Int
}

func (CollateralDeposited) Kind() string { return "collateral_deposited" }

type CollateralRedeemed struct {
	From   string
	To     string
	Asset  string
	Amount *uint256.Int
}

func (CollateralRedeemed) Kind() string { return "collateral_redeemed" }

// EventSink receives events as they are emitted. Sink failures are
// logged by the engine but never abort the operation that emitted the
// event.
type EventSink interface {
	Record(ctx context.Context, ev Event) error
}

// LogSink writes events to the logger. Used when no durable store is
// configured.
type LogSink struct {
	Log zerolog.Logger
}

func (s LogSink) Record(_ context.Context, ev Event) error {
	s.Log.Info().Str("kind", ev.Kind()).Interface("event", ev).Msg("event recorded")
	return nil
}
