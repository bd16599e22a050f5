package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/config"
)

// ErrCoachNotSeeded is returned by MySQLStore.WithinTx when the berths table is empty.
var ErrCoachNotSeeded = errors.New("coach has no berths; run with --seed")

// MySQLStore runs every operation in one InnoDB transaction holding row locks
// on the whole berths table, which serializes bookings and cancellations.
type MySQLStore struct {
	DB          *sqlx.DB
	RACPerBerth int
}

func NewMySQLStore(db *sqlx.DB, policy config.CoachPolicy) MySQLStore {
	return MySQLStore{DB: db, RACPerBerth: policy.RACPerBerth}
}

type sqlGateway struct {
	tx          *sqlx.Tx
	racPerBerth int
}

func (g sqlGateway) Berths() BerthGateway {
	return BerthRepository{DB: g.tx, RACPerBerth: g.racPerBerth}
}

func (g sqlGateway) Tickets() TicketGateway { return TicketRepository{DB: g.tx} }

func (g sqlGateway) Passengers() PassengerGateway { return PassengerRepository{DB: g.tx} }

func (s MySQLStore) WithinTx(ctx context.Context, fn func(Gateway) error) (err error) {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var locked []int64
	if err = tx.SelectContext(ctx, &locked, `SELECT id FROM berths ORDER BY id FOR UPDATE`); err != nil {
		return fmt.Errorf("lock coach: %w", err)
	}
	// an empty berths table leaves nothing to lock
	if len(locked) == 0 {
		return ErrCoachNotSeeded
	}

	if err = fn(sqlGateway{tx: tx, racPerBerth: s.RACPerBerth}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s MySQLStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}
