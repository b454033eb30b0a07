package lottery

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateNumbers(t *testing.T) {
	tests := []struct {
		name    string
		numbers []int
		wantErr bool
	}{
		{"valid sorted", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, false},
		{"valid unsorted", []int{25, 1, 13, 2, 14, 3, 15, 4, 16, 5, 17, 6, 18, 7, 19}, false},
		{"too few", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14}, true},
		{"too many", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}, true},
		{"duplicate", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 14}, true},
		{"out of range high", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 26}, true},
		{"out of range low", []int{0, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNumbers(tt.numbers)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNumbers(%v) error = %v, wantErr %v", tt.numbers, err, tt.wantErr)
			}
		})
	}
}

func TestMatchCount(t *testing.T) {
	bet1 := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	bet2 := []int{11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25}
	draw := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 16}

	if got := MatchCount(bet1, draw); got != 14 {
		t.Errorf("MatchCount(bet1) = %d, want 14", got)
	}
	if got := MatchCount(bet2, draw); got != 5 {
		t.Errorf("MatchCount(bet2) = %d, want 5", got)
	}
	if got := MatchCount(draw, draw); got != 15 {
		t.Errorf("MatchCount(draw, draw) = %d, want 15", got)
	}
	if got := MatchCount(bet1, []int{16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 1, 2, 3, 4, 5}); got != 5 {
		t.Errorf("MatchCount partial = %d, want 5", got)
	}
}

func TestPrizeTablePrizeFor(t *testing.T) {
	table := PrizeTable{
		11: decimal.NewFromInt(6),
		12: decimal.NewFromInt(12),
		13: decimal.NewFromInt(30),
		14: decimal.NewFromInt(1500),
		15: decimal.NewFromInt(1000000),
	}

	for matches := 0; matches <= 10; matches++ {
		if !table.PrizeFor(matches).IsZero() {
			t.Errorf("PrizeFor(%d) should be zero", matches)
		}
	}
	if got := table.PrizeFor(14); !got.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("PrizeFor(14) = %s, want 1500", got)
	}
	if got := table.PrizeFor(15); !got.Equal(decimal.NewFromInt(1000000)) {
		t.Errorf("PrizeFor(15) = %s, want 1000000", got)
	}

	// faixa ausente vale zero
	partial := PrizeTable{15: decimal.NewFromInt(500000)}
	if !partial.PrizeFor(12).IsZero() {
		t.Error("missing tier should resolve to zero")
	}
}

func TestSortNumbers(t *testing.T) {
	in := []int{25, 1, 13, 2, 14, 3, 15, 4, 16, 5, 17, 6, 18, 7, 19}
	got := SortNumbers(in)

	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatalf("SortNumbers not ascending: %v", got)
		}
	}
	// não muta a entrada
	if in[0] != 25 {
		t.Error("SortNumbers mutated input")
	}
}
