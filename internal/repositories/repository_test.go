package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/domain/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "mysql"), mock
}

func TestBerthFindAvailableConfirmedNoneReturnsNil(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM berths\\s+WHERE status = 'AVAILABLE' AND berth_type IN").
		WillReturnRows(sqlmock.NewRows([]string{"id", "berth_number", "berth_type", "status"}))

	b, err := BerthRepository{DB: db}.FindAvailableConfirmed(context.Background())
	if err != nil {
		t.Fatalf("FindAvailableConfirmed returned error: %v", err)
	}
	if b != nil {
		t.Fatalf("expected nil berth, got %+v", b)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBerthFindAvailableLower(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("berth_type = 'LOWER'").
		WillReturnRows(sqlmock.NewRows([]string{"id", "berth_number", "berth_type", "status"}).
			AddRow(9, 9, "LOWER", "AVAILABLE"))

	b, err := BerthRepository{DB: db}.FindAvailableLower(context.Background())
	if err != nil {
		t.Fatalf("FindAvailableLower returned error: %v", err)
	}
	if b == nil || b.ID != 9 || b.Type != domain.BerthLower {
		t.Fatalf("unexpected berth %+v", b)
	}
}

func TestBerthFindLeastOccupiedRACPicksFreeSlot(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("LEFT JOIN passengers p ON p.berth_id = b.id AND p.status = 'RAC'").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "berth_number", "berth_type", "status", "occupants"}).
			AddRow(64, 64, "SIDE_LOWER", "RAC", 1))
	mock.ExpectQuery("SELECT berth_position\\s+FROM passengers").
		WithArgs(64).
		WillReturnRows(sqlmock.NewRows([]string{"berth_position"}).AddRow(2))

	slot, err := BerthRepository{DB: db, RACPerBerth: 2}.FindLeastOccupiedRAC(context.Background())
	if err != nil {
		t.Fatalf("FindLeastOccupiedRAC returned error: %v", err)
	}
	if slot == nil || slot.ID != 64 || slot.Occupants != 1 {
		t.Fatalf("unexpected slot %+v", slot)
	}
	if slot.NextPosition != 1 {
		t.Fatalf("next position = %d, want 1 when only slot 2 is taken", slot.NextPosition)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBerthStatistics(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("AS available_confirmed").
		WillReturnRows(sqlmock.NewRows([]string{"available_confirmed", "booked_confirmed", "rac_passengers", "waiting_list_passengers"}).
			AddRow(60, 3, 4, 1))

	st, err := BerthRepository{DB: db}.Statistics(context.Background())
	if err != nil {
		t.Fatalf("Statistics returned error: %v", err)
	}
	want := models.BerthStats{AvailableConfirmed: 60, BookedConfirmed: 3, RACPassengers: 4, WaitingListPassengers: 1}
	if st != want {
		t.Fatalf("stats = %+v, want %+v", st, want)
	}
}

func TestBerthSetStatus(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE berths SET status = ? WHERE id = ?")).
		WithArgs("BOOKED", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := (BerthRepository{DB: db}).SetStatus(context.Background(), 5, domain.BerthBooked); err != nil {
		t.Fatalf("SetStatus returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTicketCreateDuplicatePNR(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO tickets").
		WithArgs("PNR1234567801", "CONFIRMED").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	_, err := TicketRepository{DB: db}.Create(context.Background(), "PNR1234567801", domain.TicketConfirmed)
	if !errors.Is(err, domain.ErrDuplicatePNR) {
		t.Fatalf("expected ErrDuplicatePNR, got %v", err)
	}
}

func TestTicketFindByPNRNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM tickets WHERE pnr = \\?").
		WithArgs("PNR0").
		WillReturnRows(sqlmock.NewRows([]string{"id", "pnr", "status", "booking_date"}))

	_, err := TicketRepository{DB: db}.FindByPNR(context.Background(), "PNR0")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestTicketListActiveGroupsPassengers(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()
	cols := []string{"ticket_id", "pnr", "ticket_status", "booking_date", "id", "name", "age", "gender",
		"berth_id", "berth_position", "status", "waiting_list_number", "berth_number", "berth_type"}
	mock.ExpectQuery("WHERE t.status <> 'CANCELLED'").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(2, "PNR2", "WAITING_LIST", now, 3, "Cara", 30, "FEMALE", nil, nil, "WAITING_LIST", 1, nil, nil).
			AddRow(1, "PNR1", "CONFIRMED", now.Add(-time.Minute), 1, "Asha", 70, "FEMALE", 1, nil, "CONFIRMED", nil, 1, "LOWER").
			AddRow(1, "PNR1", "CONFIRMED", now.Add(-time.Minute), 2, "Bo", 3, "MALE", nil, nil, "NO_BERTH", nil, nil, nil))

	tickets, err := TicketRepository{DB: db}.ListActiveWithPassengers(context.Background())
	if err != nil {
		t.Fatalf("ListActiveWithPassengers returned error: %v", err)
	}
	if len(tickets) != 2 {
		t.Fatalf("tickets = %d, want 2", len(tickets))
	}
	if tickets[0].PNR != "PNR2" || len(tickets[0].Passengers) != 1 {
		t.Fatalf("unexpected first ticket %+v", tickets[0])
	}
	if tickets[1].PNR != "PNR1" || len(tickets[1].Passengers) != 2 {
		t.Fatalf("unexpected second ticket %+v", tickets[1])
	}
	first := tickets[1].Passengers[0]
	if first.BerthNumber == nil || *first.BerthNumber != 1 || first.BerthType == nil || *first.BerthType != domain.BerthLower {
		t.Fatalf("berth join not mapped: %+v", first)
	}
}

func TestPassengerCreateNullableColumns(t *testing.T) {
	db, mock := newMockDB(t)
	wl := 3
	mock.ExpectExec("INSERT INTO passengers").
		WithArgs(7, "Dev", 40, "MALE", nil, nil, "WAITING_LIST", 3).
		WillReturnResult(sqlmock.NewResult(11, 1))

	id, err := PassengerRepository{DB: db}.Create(context.Background(), models.Passenger{
		TicketID:          7,
		Name:              "Dev",
		Age:               40,
		Gender:            domain.GenderMale,
		Status:            domain.PassengerWaitingList,
		WaitingListNumber: &wl,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if id != 11 {
		t.Fatalf("id = %d, want 11", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPassengerUpdateClearsPosition(t *testing.T) {
	db, mock := newMockDB(t)
	berth := int64(4)
	mock.ExpectExec("UPDATE passengers\\s+SET status = \\?, berth_id = \\?, berth_position = \\?, waiting_list_number = \\?").
		WithArgs("CONFIRMED", 4, nil, nil, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := PassengerRepository{DB: db}.Update(context.Background(), 9, models.PassengerUpdate{
		Status:  domain.PassengerConfirmed,
		BerthID: &berth,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPassengerRenumberWaitingListOnlyTouchesGaps(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT id, waiting_list_number\\s+FROM passengers").
		WillReturnRows(sqlmock.NewRows([]string{"id", "waiting_list_number"}).
			AddRow(10, 1).
			AddRow(12, 3).
			AddRow(15, 4))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE passengers SET waiting_list_number = ? WHERE id = ?")).
		WithArgs(2, 12).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE passengers SET waiting_list_number = ? WHERE id = ?")).
		WithArgs(3, 15).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := (PassengerRepository{DB: db}).RenumberWaitingList(context.Background()); err != nil {
		t.Fatalf("RenumberWaitingList returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMySQLStoreCommitsAfterLock(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM berths ORDER BY id FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE berths SET status = ? WHERE id = ?")).
		WithArgs("BOOKED", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	store := MySQLStore{DB: db, RACPerBerth: 2}
	err := store.WithinTx(context.Background(), func(g Gateway) error {
		return g.Berths().SetStatus(context.Background(), 1, domain.BerthBooked)
	})
	if err != nil {
		t.Fatalf("WithinTx returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMySQLStoreRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM berths ORDER BY id FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectRollback()

	boom := errors.New("boom")
	store := MySQLStore{DB: db, RACPerBerth: 2}
	err := store.WithinTx(context.Background(), func(Gateway) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMySQLStoreRefusesUnseededCoach(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM berths ORDER BY id FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	called := false
	store := MySQLStore{DB: db, RACPerBerth: 2}
	err := store.WithinTx(context.Background(), func(Gateway) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrCoachNotSeeded) {
		t.Fatalf("expected ErrCoachNotSeeded, got %v", err)
	}
	if called {
		t.Fatalf("callback ran without the coach lock")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
