package repo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newRepo(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db), mock
}

func TestExists(t *testing.T) {
	t.Run("recorded contest", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery("SELECT 1 FROM results").
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

		got, err := repo.Exists(context.Background(), 3001)
		if err != nil {
			t.Fatalf("Exists() error = %v", err)
		}
		if !got {
			t.Error("Exists() = false, want true")
		}
	})

	t.Run("unknown contest", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery("SELECT 1 FROM results").
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

		got, err := repo.Exists(context.Background(), 9999)
		if err != nil {
			t.Fatalf("Exists() error = %v", err)
		}
		if got {
			t.Error("Exists() = true, want false")
		}
	})
}

func TestGetByContestDecodesAggregate(t *testing.T) {
	repo, mock := newRepo(t)

	cols := []string{
		"contest_number", "numbers", "draw_date", "prize_table", "source",
		"total_prize", "bets_checked", "total_cost", "balance",
	}
	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			3001, "{1,2,3,4,5,6,7,8,9,10,11,12,13,14,16}",
			time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			[]byte(`{"14":"1500.00","15":"1000000.00"}`), "caixa",
			"1500.00", 2, "5.00", "1495.00",
		))

	result, err := repo.GetByContest(context.Background(), 3001)
	if err != nil {
		t.Fatalf("GetByContest() error = %v", err)
	}
	if result.ContestNumber != 3001 || result.Source != "caixa" {
		t.Errorf("result = %+v", result)
	}
	if result.PrizeTable.PrizeFor(14).StringFixed(2) != "1500.00" {
		t.Errorf("prize table = %+v", result.PrizeTable)
	}
	if result.Aggregate == nil {
		t.Fatal("aggregate should be decoded when bets_checked is set")
	}
	if result.Aggregate.BetsChecked != 2 || result.Aggregate.Balance.StringFixed(2) != "1495.00" {
		t.Errorf("aggregate = %+v", result.Aggregate)
	}
}

func TestGetByContestWithoutAggregate(t *testing.T) {
	repo, mock := newRepo(t)

	cols := []string{
		"contest_number", "numbers", "draw_date", "prize_table", "source",
		"total_prize", "bets_checked", "total_cost", "balance",
	}
	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			3002, "{1,2,3,4,5,6,7,8,9,10,11,12,13,14,15}",
			time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC),
			[]byte(`{}`), "manual",
			nil, nil, nil, nil,
		))

	result, err := repo.GetByContest(context.Background(), 3002)
	if err != nil {
		t.Fatalf("GetByContest() error = %v", err)
	}
	if result.Aggregate != nil {
		t.Errorf("aggregate = %+v, want nil when columns are null", result.Aggregate)
	}
}
