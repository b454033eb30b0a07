package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Castellan09/LotoFacil-Tracker/internal/lottery"
)

const caixaBody = `{
	"numero": 3001,
	"dataApuracao": "05/01/2026",
	"listaDezenas": ["01","02","03","04","05","06","07","08","09","10","11","12","13","14","16"],
	"listaRateioPremio": [
		{"faixa": 1, "valorPremio": 1000000.00},
		{"faixa": 2, "valorPremio": 1500.00},
		{"faixa": 3, "valorPremio": 30.00},
		{"faixa": 4, "valorPremio": 12.00},
		{"faixa": 5, "valorPremio": 6.00}
	]
}`

func TestCaixa(t *testing.T) {
	result, err := Caixa([]byte(caixaBody))
	if err != nil {
		t.Fatalf("Caixa() error = %v", err)
	}

	if result.ContestNumber != 3001 {
		t.Errorf("contest = %d, want 3001", result.ContestNumber)
	}
	if result.Source != "caixa" {
		t.Errorf("source = %q, want caixa", result.Source)
	}
	want := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 16}
	for i, n := range result.Numbers {
		if n != want[i] {
			t.Fatalf("numbers = %v, want %v", result.Numbers, want)
		}
	}
	if !result.Date.Equal(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("date = %v", result.Date)
	}
	// faixa 1 -> 15 acertos, faixa 2 -> 14 acertos
	if got := result.PrizeTable.PrizeFor(15); !got.Equal(decimal.NewFromInt(1000000)) {
		t.Errorf("prize 15 = %s", got)
	}
	if got := result.PrizeTable.PrizeFor(14); !got.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("prize 14 = %s", got)
	}
	if got := result.PrizeTable.PrizeFor(11); !got.Equal(decimal.NewFromInt(6)) {
		t.Errorf("prize 11 = %s", got)
	}
}

func TestCaixaInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>manutencao</html>`},
		{"fourteen balls", `{"numero":3001,"listaDezenas":["01","02","03","04","05","06","07","08","09","10","11","12","13","14"]}`},
		{"duplicate ball", `{"numero":3001,"listaDezenas":["01","02","03","04","05","06","07","08","09","10","11","12","13","14","14"]}`},
		{"ball out of range", `{"numero":3001,"listaDezenas":["01","02","03","04","05","06","07","08","09","10","11","12","13","14","26"]}`},
		{"missing contest", `{"listaDezenas":["01","02","03","04","05","06","07","08","09","10","11","12","13","14","15"]}`},
		{"non-numeric ball", `{"numero":3001,"listaDezenas":["01","02","03","04","05","06","07","08","09","10","11","12","13","14","xx"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Caixa([]byte(tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			var nerr *Error
			if !errors.As(err, &nerr) {
				t.Errorf("error type = %T, want *normalize.Error", err)
			}
		})
	}
}

func TestLoterias(t *testing.T) {
	body := `{
		"concurso": 3001,
		"data": "05/01/2026",
		"dezenas": ["16","14","13","12","11","10","09","08","07","06","05","04","03","02","01"],
		"premiacoes": [
			{"faixa": 1, "valorPremio": 980000.50},
			{"faixa": 5, "valorPremio": 6.00}
		]
	}`

	result, err := Loterias([]byte(body))
	if err != nil {
		t.Fatalf("Loterias() error = %v", err)
	}
	if result.ContestNumber != 3001 {
		t.Errorf("contest = %d", result.ContestNumber)
	}
	// dezenas fora de ordem viram ordem crescente canônica
	if result.Numbers[0] != 1 || result.Numbers[14] != 16 {
		t.Errorf("numbers not sorted: %v", result.Numbers)
	}
	if got := result.PrizeTable.PrizeFor(15); !got.Equal(decimal.NewFromFloat(980000.50)) {
		t.Errorf("prize 15 = %s", got)
	}
	// faixas ausentes valem zero
	if !result.PrizeTable.PrizeFor(14).IsZero() {
		t.Error("prize 14 should default to zero")
	}
}

func TestCanonicalDefaultsPrizeTable(t *testing.T) {
	numbers := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	result, err := Canonical("manual", 42, numbers, time.Time{}, nil)
	if err != nil {
		t.Fatalf("Canonical() error = %v", err)
	}
	if result.PrizeTable == nil {
		t.Fatal("prize table should never be nil")
	}
	if !result.PrizeTable.PrizeFor(lottery.MaxPrizeTier).IsZero() {
		t.Error("empty table should pay zero")
	}
}
