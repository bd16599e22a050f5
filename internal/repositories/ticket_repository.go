package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain/models"
)

const mysqlDuplicateEntry = 1062

type TicketRepository struct {
	DB sqlx.ExtContext
}

func (r TicketRepository) Create(ctx context.Context, pnr string, status domain.TicketStatus) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `INSERT INTO tickets (pnr, status) VALUES (?, ?)`, pnr, string(status))
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return 0, fmt.Errorf("pnr %s: %w", pnr, domain.ErrDuplicatePNR)
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r TicketRepository) SetStatus(ctx context.Context, id int64, status domain.TicketStatus) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE tickets SET status = ? WHERE id = ?`, string(status), id)
	return err
}

const ticketCols = `id, pnr, status, COALESCE(booking_date, CURRENT_TIMESTAMP) AS booking_date`

func (r TicketRepository) findOne(ctx context.Context, query string, arg any) (models.Ticket, error) {
	var t models.Ticket
	if err := sqlx.GetContext(ctx, r.DB, &t, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Ticket{}, domain.NotFoundError{Resource: "ticket", Err: err}
		}
		return models.Ticket{}, err
	}
	return t, nil
}

func (r TicketRepository) FindByPNR(ctx context.Context, pnr string) (models.Ticket, error) {
	return r.findOne(ctx, `SELECT `+ticketCols+` FROM tickets WHERE pnr = ? LIMIT 1`, pnr)
}

func (r TicketRepository) FindByID(ctx context.Context, id int64) (models.Ticket, error) {
	return r.findOne(ctx, `SELECT `+ticketCols+` FROM tickets WHERE id = ? LIMIT 1`, id)
}

type bookedRow struct {
	models.Passenger
	PNR          string              `db:"pnr"`
	TicketStatus domain.TicketStatus `db:"ticket_status"`
	BookingDate  time.Time           `db:"booking_date"`
}

func (r TicketRepository) ListActiveWithPassengers(ctx context.Context) ([]models.Ticket, error) {
	var rows []bookedRow
	err := sqlx.SelectContext(ctx, r.DB, &rows, `
		SELECT
			t.id AS ticket_id, t.pnr, t.status AS ticket_status,
			COALESCE(t.booking_date, CURRENT_TIMESTAMP) AS booking_date,
			p.id, p.name, p.age, p.gender, p.berth_id, p.berth_position,
			p.status, p.waiting_list_number, b.berth_number, b.berth_type
		FROM tickets t
		JOIN passengers p ON p.ticket_id = t.id
		LEFT JOIN berths b ON b.id = p.berth_id
		WHERE t.status <> 'CANCELLED'
		ORDER BY t.booking_date DESC, t.id DESC, p.id ASC`)
	if err != nil {
		return nil, err
	}

	out := []models.Ticket{}
	for _, row := range rows {
		if n := len(out); n == 0 || out[n-1].ID != row.TicketID {
			out = append(out, models.Ticket{
				ID:          row.TicketID,
				PNR:         row.PNR,
				Status:      row.TicketStatus,
				BookingDate: row.BookingDate,
				Passengers:  []models.Passenger{},
			})
		}
		last := &out[len(out)-1]
		last.Passengers = append(last.Passengers, row.Passenger)
	}
	return out, nil
}
