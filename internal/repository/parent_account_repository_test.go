package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestNormalizeEmail(t *testing.T) {
	cases := map[string]string{
		"  Sara.Karimi@Example.COM ": "sara.karimi@example.com",
		"plain@example.com":          "plain@example.com",
		"\tUPPER@EXAMPLE.ORG\n":      "upper@example.org",
	}
	for in, want := range cases {
		if got := NormalizeEmail(in); got != want {
			t.Fatalf("NormalizeEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFindOrCreateTxReusesExistingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM parent_accounts WHERE email=? ORDER BY id LIMIT 1 FOR UPDATE")).
		WithArgs("sara@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	mock.ExpectCommit()

	repo := NewParentAccountRepo(db)
	tx, _ := db.Begin()
	id, err := repo.FindOrCreateTx(context.Background(), tx, " Sara@Example.com ", "hash", "Sara Karimi")
	if err != nil {
		t.Fatalf("FindOrCreateTx: %v", err)
	}
	if id != 12 {
		t.Fatalf("id = %d, want 12", id)
	}
	_ = tx.Commit()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestFindOrCreateTxInsertsWhenAbsent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM parent_accounts WHERE email=? ORDER BY id LIMIT 1 FOR UPDATE")).
		WithArgs("new@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO parent_accounts")).
		WithArgs("new@example.com", "hash", "New Parent").
		WillReturnResult(sqlmock.NewResult(34, 1))
	mock.ExpectCommit()

	repo := NewParentAccountRepo(db)
	tx, _ := db.Begin()
	id, err := repo.FindOrCreateTx(context.Background(), tx, "new@example.com", "hash", "New Parent")
	if err != nil {
		t.Fatalf("FindOrCreateTx: %v", err)
	}
	if id != 34 {
		t.Fatalf("id = %d, want 34", id)
	}
	_ = tx.Commit()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
