package db

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/config"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain/models"
)

var schema = []struct {
	table string
	ddl   string
}{
	{"berths", `
CREATE TABLE IF NOT EXISTS berths (
	id INT AUTO_INCREMENT PRIMARY KEY,
	berth_number INT NOT NULL,
	berth_type ENUM('LOWER','MIDDLE','UPPER','SIDE_LOWER','SIDE_UPPER') NOT NULL,
	status ENUM('AVAILABLE','BOOKED','RAC') NOT NULL DEFAULT 'AVAILABLE',
	created_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_berth_number (berth_number)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"tickets", `
CREATE TABLE IF NOT EXISTS tickets (
	id INT AUTO_INCREMENT PRIMARY KEY,
	pnr VARCHAR(40) NOT NULL,
	status ENUM('CONFIRMED','RAC','WAITING_LIST','CANCELLED') NOT NULL,
	booking_date TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP,
	created_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_pnr (pnr)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"passengers", `
CREATE TABLE IF NOT EXISTS passengers (
	id INT AUTO_INCREMENT PRIMARY KEY,
	ticket_id INT NOT NULL,
	name VARCHAR(100) NOT NULL,
	age INT NOT NULL,
	gender ENUM('MALE','FEMALE','OTHER') NOT NULL,
	berth_id INT NULL,
	berth_position INT NULL,
	status ENUM('CONFIRMED','RAC','WAITING_LIST','NO_BERTH','CANCELLED') NOT NULL,
	waiting_list_number INT NULL,
	created_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	KEY idx_passengers_ticket (ticket_id),
	KEY idx_passengers_berth (berth_id),
	CONSTRAINT fk_passengers_ticket FOREIGN KEY (ticket_id) REFERENCES tickets (id) ON DELETE CASCADE,
	CONSTRAINT fk_passengers_berth FOREIGN KEY (berth_id) REFERENCES berths (id) ON DELETE SET NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
}

// EnsureSchema creates the coach tables that do not exist yet.
func EnsureSchema(ctx context.Context, db sqlx.ExtContext) error {
	for _, t := range schema {
		if HasTable(ctx, db, t.table) {
			continue
		}
		if _, err := db.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", t.table, err)
		}
		log.Printf("[DB] created table %s", t.table)
	}
	return nil
}

// CoachLayout returns the berths of one coach for policy, numbered from 1.
// Confirmed-type berths repeat LOWER x3, MIDDLE x3, UPPER x2; the RAC berths
// are SIDE_LOWER and follow them.
func CoachLayout(policy config.CoachPolicy) []models.Berth {
	out := make([]models.Berth, 0, policy.ConfirmedBerths+policy.RACBerths)
	for i := 1; i <= policy.ConfirmedBerths; i++ {
		t := domain.BerthUpper
		switch mod := (i - 1) % 8; {
		case mod < 3:
			t = domain.BerthLower
		case mod < 6:
			t = domain.BerthMiddle
		}
		out = append(out, models.Berth{Number: i, Type: t, Status: domain.BerthAvailable})
	}
	for i := 1; i <= policy.RACBerths; i++ {
		out = append(out, models.Berth{
			Number: policy.ConfirmedBerths + i,
			Type:   domain.BerthSideLower,
			Status: domain.BerthAvailable,
		})
	}
	return out
}

// SeedBerths inserts the coach layout when the berths table is empty.
// It returns the number of inserted berths.
func SeedBerths(ctx context.Context, db sqlx.ExtContext, policy config.CoachPolicy) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, db, &count, `SELECT COUNT(*) FROM berths`); err != nil {
		return 0, fmt.Errorf("count berths: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	layout := CoachLayout(policy)
	placeholders := make([]string, 0, len(layout))
	args := make([]any, 0, len(layout)*3)
	for _, b := range layout {
		placeholders = append(placeholders, "(?,?,?)")
		args = append(args, b.Number, string(b.Type), string(b.Status))
	}
	stmt := `INSERT INTO berths (berth_number, berth_type, status) VALUES ` + strings.Join(placeholders, ",")
	if _, err := db.ExecContext(ctx, stmt, args...); err != nil {
		return 0, fmt.Errorf("seed berths: %w", err)
	}
	log.Printf("[DB] seeded %d berths (%d confirmed, %d rac)", len(layout), policy.ConfirmedBerths, policy.RACBerths)
	return len(layout), nil
}
