package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	betrepo "github.com/Castellan09/LotoFacil-Tracker/internal/bets/repo"
	"github.com/Castellan09/LotoFacil-Tracker/internal/lottery"
	"github.com/Castellan09/LotoFacil-Tracker/internal/reconcile"
	"github.com/Castellan09/LotoFacil-Tracker/internal/tracker/dto"
)

// fakeCache captura o que a API grava no cache de último resultado.
type fakeCache struct {
	latest lottery.DrawResult
	set    bool
}

func (f *fakeCache) GetLatest(context.Context) (lottery.DrawResult, bool, error) {
	return f.latest, f.set, nil
}

func (f *fakeCache) SetLatest(_ context.Context, r lottery.DrawResult) error {
	f.latest = r
	f.set = true
	return nil
}

func newAPI(t *testing.T) (*API, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &API{
		Log:    zap.NewNop(),
		Bets:   betrepo.NewPostgres(db),
		Engine: reconcile.New(db, zap.NewNop(), decimal.RequireFromString("2.50"), nil),
	}, mock
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestManualResultRejectsInvalidPayloads(t *testing.T) {
	api, _ := newAPI(t)
	router := api.Router()

	tests := []struct {
		name string
		req  dto.ManualResultRequest
	}{
		{"fourteen numbers", dto.ManualResultRequest{
			ContestNumber: 3001,
			Numbers:       []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14},
		}},
		{"duplicate number", dto.ManualResultRequest{
			ContestNumber: 3001,
			Numbers:       []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 14},
		}},
		{"number out of range", dto.ManualResultRequest{
			ContestNumber: 3001,
			Numbers:       []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 26},
		}},
		{"missing contest", dto.ManualResultRequest{
			Numbers: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
		}},
		{"bad prize tier", dto.ManualResultRequest{
			ContestNumber: 3001,
			Numbers:       []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
			PrizeTable:    map[string]string{"10": "5.00"},
		}},
		{"negative prize", dto.ManualResultRequest{
			ContestNumber: 3001,
			Numbers:       []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
			PrizeTable:    map[string]string{"15": "-1.00"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, router, "/v1/results", tt.req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestGenerateBetsRejectsUnknownStrategyUpfront(t *testing.T) {
	api, mock := newAPI(t)

	// nenhum SQL pode rodar: um nome inválido no meio da lista não deixa
	// apostas parciais persistidas
	rec := postJSON(t, api.Router(), "/v1/bets/generate", dto.GenerateBetsRequest{
		Strategies:  []string{"aleatoria", "martingale", "quentes"},
		PerStrategy: 2,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no statement should have been executed: %v", err)
	}
}

func TestManualResultSettles(t *testing.T) {
	api, mock := newAPI(t)
	fc := &fakeCache{}
	api.Cache = fc

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO results")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, strategy, numbers, placed_date").
		WillReturnRows(sqlmock.NewRows([]string{"id", "strategy", "numbers", "placed_date"}))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE results")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec := postJSON(t, api.Router(), "/v1/results", dto.ManualResultRequest{
		ContestNumber: 3001,
		Numbers:       []int{15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1},
		Date:          "05/01/2026",
		PrizeTable:    map[string]string{"15": "1000000.00"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp dto.CheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "settled" || resp.ContestNumber != 3001 {
		t.Errorf("resp = %+v", resp)
	}

	// a visão cacheada tem que sair com o agregado da conferência
	if !fc.set {
		t.Fatal("latest result was not cached")
	}
	if fc.latest.Aggregate == nil {
		t.Fatal("cached result is missing the aggregate")
	}
	if fc.latest.Aggregate.BetsChecked != 0 || !fc.latest.Aggregate.TotalPrize.IsZero() {
		t.Errorf("cached aggregate = %+v, want zero totals", fc.latest.Aggregate)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestManualResultAlreadyProcessedIsNotAnError(t *testing.T) {
	api, mock := newAPI(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO results")).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	rec := postJSON(t, api.Router(), "/v1/results", dto.ManualResultRequest{
		ContestNumber: 3001,
		Numbers:       []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 on re-trigger", rec.Code)
	}

	var resp dto.CheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "already_processed" {
		t.Errorf("status = %q, want already_processed", resp.Status)
	}
}
