package booking

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/class-session-booking/internal/model"
	"github.com/iliyamo/class-session-booking/internal/queue"
	"github.com/iliyamo/class-session-booking/internal/repository"
)

var sessionStart = time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, publish PublishFunc) (*Service, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	svc := NewService(db,
		repository.NewSessionRepo(db),
		repository.NewBookingRepo(db),
		repository.NewParentAccountRepo(db),
		repository.NewStaffRepo(db),
		bcrypt.MinCost,
		publish)
	return svc, mock, func() { _ = db.Close() }
}

func websiteInput() *CreateBookingInput {
	return &CreateBookingInput{
		ClassSessionID: 42,
		Students: []StudentInput{
			{FirstName: "Mina", LastName: "Karimi"},
		},
		Parents: []ParentInput{
			{FirstName: "Sara", LastName: "Karimi", Email: "Sara.Karimi@Example.com", Phone: "0912000000"},
		},
	}
}

func expectNoStaffAccount(mock sqlmock.Sqlmock, email string) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM staff_accounts WHERE email=?")).
		WithArgs(email).
		WillReturnError(sql.ErrNoRows)
}

func expectSessionInTx(mock sqlmock.Sqlmock) {
	rows := sqlmock.NewRows([]string{"id", "venue_id", "venue_name", "name", "starts_at", "remaining_capacity"}).
		AddRow(42, 5, "Riverside Hall", "Morning Pottery", sessionStart, 10)
	mock.ExpectQuery(regexp.QuoteMeta("FROM class_sessions cs")).
		WithArgs(uint64(42)).
		WillReturnRows(rows)
}

func TestCreateBookingWebsiteNewAccount(t *testing.T) {
	var published *queue.BookingCreatedEvent
	svc, mock, closeDB := newTestService(t, func(ctx context.Context, ev queue.BookingCreatedEvent) error {
		published = &ev
		return nil
	})
	defer closeDB()

	email := "sara.karimi@example.com"
	expectNoStaffAccount(mock, email)
	mock.ExpectQuery(regexp.QuoteMeta("FROM parent_accounts WHERE email=? ORDER BY id LIMIT 1")).
		WithArgs(email).
		WillReturnError(sql.ErrNoRows)

	mock.ExpectBegin()
	expectSessionInTx(mock)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM parent_accounts WHERE email=? ORDER BY id LIMIT 1 FOR UPDATE")).
		WithArgs(email).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO parent_accounts")).
		WithArgs(email, sqlmock.AnyArg(), "Sara Karimi").
		WillReturnResult(sqlmock.NewResult(77, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(sqlmock.AnyArg(), 42, 77, nil, "WEBSITE", "ACTIVE", 1).
		WillReturnResult(sqlmock.NewResult(100, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students")).
		WithArgs(100, "Mina", "Karimi", "Morning Pottery", sessionStart).
		WillReturnResult(sqlmock.NewResult(500, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO parents")).
		WithArgs(500, "Sara", "Karimi", email, "0912000000").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE class_sessions")).
		WithArgs(1, 42, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT remaining_capacity FROM class_sessions WHERE id = ?")).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"remaining_capacity"}).AddRow(9))
	mock.ExpectCommit()

	res, err := svc.CreateBooking(context.Background(), websiteInput(),
		RequestContext{Origin: model.OriginWebsite})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if res.BookingID != 100 || res.ParentAccountID != 77 {
		t.Fatalf("result = %+v", res)
	}
	if len(res.Reference) != 8 {
		t.Fatalf("reference %q not 8 chars", res.Reference)
	}
	if res.FirstStudentID != 500 || res.FirstStudentName != "Mina Karimi" {
		t.Fatalf("first student = %d %q", res.FirstStudentID, res.FirstStudentName)
	}
	if published == nil {
		t.Fatal("booking.created event not published after commit")
	}
	if published.Reference != res.Reference || published.SessionName != "Morning Pottery" {
		t.Fatalf("event = %+v", published)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateBookingWebsiteReusesAccount(t *testing.T) {
	svc, mock, closeDB := newTestService(t, nil)
	defer closeDB()

	email := "sara.karimi@example.com"
	expectNoStaffAccount(mock, email)
	accountRows := sqlmock.NewRows([]string{"id", "email", "password_hash", "full_name", "is_active", "created_at", "updated_at"}).
		AddRow(55, email, "x", "Sara Karimi", true, sessionStart, sessionStart)
	mock.ExpectQuery(regexp.QuoteMeta("FROM parent_accounts WHERE email=? ORDER BY id LIMIT 1")).
		WithArgs(email).
		WillReturnRows(accountRows)

	mock.ExpectBegin()
	expectSessionInTx(mock)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM parent_accounts WHERE email=? ORDER BY id LIMIT 1 FOR UPDATE")).
		WithArgs(email).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(55))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(sqlmock.AnyArg(), 42, 55, nil, "WEBSITE", "ACTIVE", 1).
		WillReturnResult(sqlmock.NewResult(101, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students")).
		WithArgs(101, "Mina", "Karimi", "Morning Pottery", sessionStart).
		WillReturnResult(sqlmock.NewResult(501, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO parents")).
		WithArgs(501, "Sara", "Karimi", email, "0912000000").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE class_sessions")).
		WithArgs(1, 42, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT remaining_capacity FROM class_sessions WHERE id = ?")).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"remaining_capacity"}).AddRow(8))
	mock.ExpectCommit()

	res, err := svc.CreateBooking(context.Background(), websiteInput(),
		RequestContext{Origin: model.OriginWebsite})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if res.ParentAccountID != 55 {
		t.Fatalf("parent account = %d, want reuse of 55", res.ParentAccountID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateBookingAdminAlwaysCreates(t *testing.T) {
	// The staff-entry path never looks up an existing account. Even for
	// a known email, a new account row is inserted.
	svc, mock, closeDB := newTestService(t, nil)
	defer closeDB()

	email := "sara.karimi@example.com"
	expectNoStaffAccount(mock, email)

	mock.ExpectBegin()
	expectSessionInTx(mock)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO parent_accounts")).
		WithArgs(email, sqlmock.AnyArg(), "Sara Karimi").
		WillReturnResult(sqlmock.NewResult(88, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(sqlmock.AnyArg(), 42, 88, 9, nil, "ACTIVE", 1).
		WillReturnResult(sqlmock.NewResult(102, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students")).
		WithArgs(102, "Mina", "Karimi", "Morning Pottery", sessionStart).
		WillReturnResult(sqlmock.NewResult(502, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO parents")).
		WithArgs(502, "Sara", "Karimi", email, "0912000000").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE class_sessions")).
		WithArgs(1, 42, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT remaining_capacity FROM class_sessions WHERE id = ?")).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"remaining_capacity"}).AddRow(7))
	mock.ExpectCommit()

	res, err := svc.CreateBooking(context.Background(), websiteInput(),
		RequestContext{Origin: model.OriginAdmin, CallerID: 9})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if res.ParentAccountID != 88 {
		t.Fatalf("parent account = %d, want fresh 88", res.ParentAccountID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateBookingParentPortalUsesCaller(t *testing.T) {
	svc, mock, closeDB := newTestService(t, nil)
	defer closeDB()

	// Portal origin skips the duplicate-identity check and never
	// touches the account tables: the caller is the identity.
	mock.ExpectBegin()
	expectSessionInTx(mock)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(sqlmock.AnyArg(), 42, 31, nil, "PARENT_PORTAL", "ACTIVE", 1).
		WillReturnResult(sqlmock.NewResult(103, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students")).
		WithArgs(103, "Mina", "Karimi", "Morning Pottery", sessionStart).
		WillReturnResult(sqlmock.NewResult(503, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO parents")).
		WithArgs(503, "Sara", "Karimi", "sara.karimi@example.com", "0912000000").
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE class_sessions")).
		WithArgs(1, 42, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT remaining_capacity FROM class_sessions WHERE id = ?")).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"remaining_capacity"}).AddRow(6))
	mock.ExpectCommit()

	res, err := svc.CreateBooking(context.Background(), websiteInput(),
		RequestContext{Origin: model.OriginParentPortal, CallerID: 31})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if res.ParentAccountID != 31 {
		t.Fatalf("parent account = %d, want caller 31", res.ParentAccountID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateBookingCapacityExceededRollsBack(t *testing.T) {
	svc, mock, closeDB := newTestService(t, nil)
	defer closeDB()

	email := "sara.karimi@example.com"
	expectNoStaffAccount(mock, email)
	mock.ExpectQuery(regexp.QuoteMeta("FROM parent_accounts WHERE email=? ORDER BY id LIMIT 1")).
		WithArgs(email).
		WillReturnError(sql.ErrNoRows)

	mock.ExpectBegin()
	expectSessionInTx(mock)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM parent_accounts WHERE email=? ORDER BY id LIMIT 1 FOR UPDATE")).
		WithArgs(email).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO parent_accounts")).
		WithArgs(email, sqlmock.AnyArg(), "Sara Karimi").
		WillReturnResult(sqlmock.NewResult(77, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(sqlmock.AnyArg(), 42, 77, nil, "WEBSITE", "ACTIVE", 1).
		WillReturnResult(sqlmock.NewResult(104, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students")).
		WithArgs(104, "Mina", "Karimi", "Morning Pottery", sessionStart).
		WillReturnResult(sqlmock.NewResult(504, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO parents")).
		WithArgs(504, "Sara", "Karimi", email, "0912000000").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE class_sessions")).
		WithArgs(1, 42, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT remaining_capacity FROM class_sessions WHERE id = ?")).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"remaining_capacity"}).AddRow(0))
	mock.ExpectRollback()

	_, err := svc.CreateBooking(context.Background(), websiteInput(),
		RequestContext{Origin: model.OriginWebsite})
	var cerr *CapacityError
	if !errors.As(err, &cerr) {
		t.Fatalf("err = %v, want CapacityError", err)
	}
	if cerr.Remaining != 0 || cerr.Requested != 1 || cerr.SessionID != 42 {
		t.Fatalf("capacity error = %+v", cerr)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateBookingRejectsStaffEmail(t *testing.T) {
	svc, mock, closeDB := newTestService(t, nil)
	defer closeDB()

	staffRows := sqlmock.NewRows([]string{"id", "email", "password_hash", "full_name", "role", "parent_admin_id", "is_active", "created_at", "updated_at"}).
		AddRow(3, "sara.karimi@example.com", "x", "Sara Karimi", "ADMIN", nil, true, sessionStart, sessionStart)
	mock.ExpectQuery(regexp.QuoteMeta("FROM staff_accounts WHERE email=?")).
		WithArgs("sara.karimi@example.com").
		WillReturnRows(staffRows)

	_, err := svc.CreateBooking(context.Background(), websiteInput(),
		RequestContext{Origin: model.OriginWebsite})
	if !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("err = %v, want ErrDuplicateIdentity", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateBookingRejectsInactiveParentAccount(t *testing.T) {
	svc, mock, closeDB := newTestService(t, nil)
	defer closeDB()

	email := "sara.karimi@example.com"
	expectNoStaffAccount(mock, email)
	accountRows := sqlmock.NewRows([]string{"id", "email", "password_hash", "full_name", "is_active", "created_at", "updated_at"}).
		AddRow(55, email, "x", "Sara Karimi", false, sessionStart, sessionStart)
	mock.ExpectQuery(regexp.QuoteMeta("FROM parent_accounts WHERE email=? ORDER BY id LIMIT 1")).
		WithArgs(email).
		WillReturnRows(accountRows)

	_, err := svc.CreateBooking(context.Background(), websiteInput(),
		RequestContext{Origin: model.OriginWebsite})
	if !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("err = %v, want ErrDuplicateIdentity", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateBookingPersistsEmergencyContact(t *testing.T) {
	svc, mock, closeDB := newTestService(t, nil)
	defer closeDB()

	mock.ExpectBegin()
	expectSessionInTx(mock)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(sqlmock.AnyArg(), 42, 31, nil, "PARENT_PORTAL", "ACTIVE", 1).
		WillReturnResult(sqlmock.NewResult(105, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students")).
		WithArgs(105, "Mina", "Karimi", "Morning Pottery", sessionStart).
		WillReturnResult(sqlmock.NewResult(505, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO parents")).
		WithArgs(505, "Sara", "Karimi", "sara.karimi@example.com", "0912000000").
		WillReturnResult(sqlmock.NewResult(6, 1))
	// The contact row anchors to the first student.
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO emergency_contacts")).
		WithArgs(505, "Leila", "0935111111", "aunt").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE class_sessions")).
		WithArgs(1, 42, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT remaining_capacity FROM class_sessions WHERE id = ?")).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"remaining_capacity"}).AddRow(5))
	mock.ExpectCommit()

	in := websiteInput()
	in.Emergency = &EmergencyInput{FirstName: "Leila", Phone: "0935111111", Relationship: "aunt"}
	if _, err := svc.CreateBooking(context.Background(), in,
		RequestContext{Origin: model.OriginParentPortal, CallerID: 31}); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateBookingSkipsIncompleteEmergencyContact(t *testing.T) {
	// A contact block missing its phone is ignored rather than stored
	// half-filled. No emergency_contacts insert is expected.
	svc, mock, closeDB := newTestService(t, nil)
	defer closeDB()

	mock.ExpectBegin()
	expectSessionInTx(mock)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(sqlmock.AnyArg(), 42, 31, nil, "PARENT_PORTAL", "ACTIVE", 1).
		WillReturnResult(sqlmock.NewResult(106, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students")).
		WithArgs(106, "Mina", "Karimi", "Morning Pottery", sessionStart).
		WillReturnResult(sqlmock.NewResult(506, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO parents")).
		WithArgs(506, "Sara", "Karimi", "sara.karimi@example.com", "0912000000").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE class_sessions")).
		WithArgs(1, 42, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT remaining_capacity FROM class_sessions WHERE id = ?")).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"remaining_capacity"}).AddRow(4))
	mock.ExpectCommit()

	in := websiteInput()
	in.Emergency = &EmergencyInput{FirstName: "Leila", Relationship: "aunt"}
	if _, err := svc.CreateBooking(context.Background(), in,
		RequestContext{Origin: model.OriginParentPortal, CallerID: 31}); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateBookingRetriesReferenceCollision(t *testing.T) {
	svc, mock, closeDB := newTestService(t, nil)
	defer closeDB()

	dup := errors.New("Error 1062 (23000): Duplicate entry 'ABCDEFGH' for key 'bookings.uq_bookings_reference'")

	mock.ExpectBegin()
	expectSessionInTx(mock)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(sqlmock.AnyArg(), 42, 31, nil, "PARENT_PORTAL", "ACTIVE", 1).
		WillReturnError(dup)
	// The second attempt carries a fresh reference and succeeds.
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(sqlmock.AnyArg(), 42, 31, nil, "PARENT_PORTAL", "ACTIVE", 1).
		WillReturnResult(sqlmock.NewResult(107, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO students")).
		WithArgs(107, "Mina", "Karimi", "Morning Pottery", sessionStart).
		WillReturnResult(sqlmock.NewResult(507, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO parents")).
		WithArgs(507, "Sara", "Karimi", "sara.karimi@example.com", "0912000000").
		WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE class_sessions")).
		WithArgs(1, 42, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT remaining_capacity FROM class_sessions WHERE id = ?")).
		WithArgs(uint64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"remaining_capacity"}).AddRow(3))
	mock.ExpectCommit()

	res, err := svc.CreateBooking(context.Background(), websiteInput(),
		RequestContext{Origin: model.OriginParentPortal, CallerID: 31})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if res.BookingID != 107 || len(res.Reference) != 8 {
		t.Fatalf("result = %+v", res)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateBookingReferenceRetriesExhausted(t *testing.T) {
	svc, mock, closeDB := newTestService(t, nil)
	defer closeDB()

	dup := errors.New("Error 1062 (23000): Duplicate entry 'ABCDEFGH' for key 'bookings.uq_bookings_reference'")

	mock.ExpectBegin()
	expectSessionInTx(mock)
	for i := 0; i < refCodeAttempts; i++ {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
			WithArgs(sqlmock.AnyArg(), 42, 31, nil, "PARENT_PORTAL", "ACTIVE", 1).
			WillReturnError(dup)
	}
	mock.ExpectRollback()

	_, err := svc.CreateBooking(context.Background(), websiteInput(),
		RequestContext{Origin: model.OriginParentPortal, CallerID: 31})
	if !errors.Is(err, repository.ErrReferenceExists) {
		t.Fatalf("err = %v, want ErrReferenceExists", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateBookingInvalidPayloadTouchesNothing(t *testing.T) {
	svc, mock, closeDB := newTestService(t, nil)
	defer closeDB()

	in := websiteInput()
	in.Parents[0].Email = "sara karimi@example.com"
	_, err := svc.CreateBooking(context.Background(), in,
		RequestContext{Origin: model.OriginWebsite})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	// No expectations were set: any query would have failed the test.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
