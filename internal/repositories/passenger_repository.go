package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	intdb "github.com/tripathiaman777/Railway-Ticket-Booking/internal/db"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain/models"
)

const passengerCols = `p.id, p.ticket_id, p.name, p.age, p.gender, p.berth_id, p.berth_position, p.status, p.waiting_list_number`

type PassengerRepository struct {
	DB sqlx.ExtContext
}

func (r PassengerRepository) Create(ctx context.Context, p models.Passenger) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO passengers
			(ticket_id, name, age, gender, berth_id, berth_position, status, waiting_list_number)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.TicketID, p.Name, p.Age, string(p.Gender),
		intdb.NullInt64(p.BerthID), intdb.NullInt(p.BerthPosition),
		string(p.Status), intdb.NullInt(p.WaitingListNumber),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r PassengerRepository) Update(ctx context.Context, id int64, upd models.PassengerUpdate) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE passengers
		SET status = ?, berth_id = ?, berth_position = ?, waiting_list_number = ?
		WHERE id = ?`,
		string(upd.Status), intdb.NullInt64(upd.BerthID), intdb.NullInt(upd.BerthPosition),
		intdb.NullInt(upd.WaitingListNumber), id,
	)
	return err
}

func (r PassengerRepository) findOne(ctx context.Context, query string, args ...any) (*models.Passenger, error) {
	var p models.Passenger
	if err := sqlx.GetContext(ctx, r.DB, &p, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r PassengerRepository) OldestWithStatus(ctx context.Context, status domain.PassengerStatus) (*models.Passenger, error) {
	return r.findOne(ctx, `
		SELECT `+passengerCols+`
		FROM passengers p
		WHERE p.status = ?
		ORDER BY p.id ASC
		LIMIT 1`, string(status))
}

func (r PassengerRepository) LowestWaitingList(ctx context.Context) (*models.Passenger, error) {
	return r.findOne(ctx, `
		SELECT `+passengerCols+`
		FROM passengers p
		WHERE p.status = 'WAITING_LIST'
		ORDER BY p.waiting_list_number ASC, p.id ASC
		LIMIT 1`)
}

func (r PassengerRepository) ListByTicket(ctx context.Context, ticketID int64) ([]models.Passenger, error) {
	out := []models.Passenger{}
	err := sqlx.SelectContext(ctx, r.DB, &out, `
		SELECT `+passengerCols+`, b.berth_number, b.berth_type
		FROM passengers p
		LEFT JOIN berths b ON b.id = p.berth_id
		WHERE p.ticket_id = ?
		ORDER BY p.id ASC`, ticketID)
	return out, err
}

func (r PassengerRepository) RenumberWaitingList(ctx context.Context) error {
	var rows []struct {
		ID     int64         `db:"id"`
		Number sql.NullInt64 `db:"waiting_list_number"`
	}
	if err := sqlx.SelectContext(ctx, r.DB, &rows, `
		SELECT id, waiting_list_number
		FROM passengers
		WHERE status = 'WAITING_LIST'
		ORDER BY id ASC`); err != nil {
		return err
	}
	for i, row := range rows {
		want := int64(i + 1)
		if row.Number.Valid && row.Number.Int64 == want {
			continue
		}
		if _, err := r.DB.ExecContext(ctx, `UPDATE passengers SET waiting_list_number = ? WHERE id = ?`, want, row.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r PassengerRepository) CountByStatus(ctx context.Context, status domain.PassengerStatus) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.DB, &n, `SELECT COUNT(*) FROM passengers WHERE status = ?`, string(status))
	return n, err
}

func (r PassengerRepository) CountOnBerth(ctx context.Context, berthID int64, status domain.PassengerStatus) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.DB, &n, `SELECT COUNT(*) FROM passengers WHERE berth_id = ? AND status = ?`, berthID, string(status))
	return n, err
}

func (r PassengerRepository) CancelAllByTicket(ctx context.Context, ticketID int64) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE passengers SET status = 'CANCELLED' WHERE ticket_id = ?`, ticketID)
	return err
}
