package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Shourya4641/Lending-Protocol/internal/engine"
)

// EventStore persists engine events into an append-only Postgres
// table. The engine never reads them back; they exist for audit.
type EventStore struct {
	pool *pgxpool.Pool
}

func NewEventStore(pool *pgxpool.Pool) *EventStore {
	return &EventStore{pool: pool}
}

// Migrate creates the event table if it does not exist yet.
func (s *EventStore) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS solvency_events (
			id UUID PRIMARY KEY,
			kind TEXT NOT NULL,
			account TEXT NOT NULL,
			to_account TEXT,
			asset TEXT NOT NULL,
			amount NUMERIC NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("migrate solvency_events: %w", err)
	}
	return nil
}

func (s *EventStore) Record(ctx context.Context, ev engine.Event) error {
	query := `
		INSERT INTO solvency_events (id, kind, account, to_account, asset, amount)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	switch e := ev.(type) {
	case engine.CollateralDeposited:
		amount := decimal.NewFromBigInt(e.Amount.ToBig(), 0)
		_, err := s.pool.Exec(ctx, query, uuid.New(), ev.Kind(), e.Account, nil, e.Asset, amount)
		return err
	case engine.CollateralRedeemed:
		amount := decimal.NewFromBigInt(e.Amount.ToBig(), 0)
		_, err := s.pool.Exec(ctx, query, uuid.New(), ev.Kind(), e.From, e.To, e.Asset, amount)
		return err
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind())
	}
}
