package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain/models"
)

const confirmedTypes = `('LOWER','MIDDLE','UPPER')`

type BerthRepository struct {
	DB          sqlx.ExtContext
	RACPerBerth int
}

func (r BerthRepository) findOne(ctx context.Context, query string, args ...any) (*models.Berth, error) {
	var b models.Berth
	if err := sqlx.GetContext(ctx, r.DB, &b, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r BerthRepository) FindAvailableConfirmed(ctx context.Context) (*models.Berth, error) {
	return r.findOne(ctx, `
		SELECT id, berth_number, berth_type, status
		FROM berths
		WHERE status = 'AVAILABLE' AND berth_type IN `+confirmedTypes+`
		ORDER BY berth_number
		LIMIT 1`)
}

func (r BerthRepository) FindAvailableLower(ctx context.Context) (*models.Berth, error) {
	return r.findOne(ctx, `
		SELECT id, berth_number, berth_type, status
		FROM berths
		WHERE status = 'AVAILABLE' AND berth_type = 'LOWER'
		ORDER BY berth_number
		LIMIT 1`)
}

func (r BerthRepository) FindLeastOccupiedRAC(ctx context.Context) (*models.RACSlot, error) {
	var slot models.RACSlot
	err := sqlx.GetContext(ctx, r.DB, &slot, `
		SELECT b.id, b.berth_number, b.berth_type, b.status, COUNT(p.id) AS occupants
		FROM berths b
		LEFT JOIN passengers p ON p.berth_id = b.id AND p.status = 'RAC'
		WHERE b.berth_type = 'SIDE_LOWER' AND b.status IN ('AVAILABLE','RAC')
		GROUP BY b.id, b.berth_number, b.berth_type, b.status
		HAVING COUNT(p.id) < ?
		ORDER BY occupants ASC, b.berth_number ASC
		LIMIT 1`, r.RACPerBerth)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	var taken []int
	if err := sqlx.SelectContext(ctx, r.DB, &taken, `
		SELECT berth_position
		FROM passengers
		WHERE berth_id = ? AND status = 'RAC' AND berth_position IS NOT NULL`, slot.ID); err != nil {
		return nil, fmt.Errorf("rac positions for berth %d: %w", slot.ID, err)
	}
	slot.NextPosition = domain.LowestFreePosition(taken)
	return &slot, nil
}

func (r BerthRepository) SetStatus(ctx context.Context, id int64, status domain.BerthStatus) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE berths SET status = ? WHERE id = ?`, string(status), id)
	return err
}

func (r BerthRepository) Statistics(ctx context.Context) (models.BerthStats, error) {
	var st models.BerthStats
	err := sqlx.GetContext(ctx, r.DB, &st, `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'AVAILABLE' AND berth_type IN `+confirmedTypes+` THEN 1 ELSE 0 END), 0) AS available_confirmed,
			COALESCE(SUM(CASE WHEN status = 'BOOKED' AND berth_type IN `+confirmedTypes+` THEN 1 ELSE 0 END), 0) AS booked_confirmed,
			(SELECT COUNT(*) FROM passengers WHERE status = 'RAC') AS rac_passengers,
			(SELECT COUNT(*) FROM passengers WHERE status = 'WAITING_LIST') AS waiting_list_passengers
		FROM berths`)
	return st, err
}

func (r BerthRepository) ListAvailableConfirmed(ctx context.Context) ([]models.Berth, error) {
	out := []models.Berth{}
	err := sqlx.SelectContext(ctx, r.DB, &out, `
		SELECT id, berth_number, berth_type, status
		FROM berths
		WHERE status = 'AVAILABLE' AND berth_type IN `+confirmedTypes+`
		ORDER BY berth_number`)
	return out, err
}
