package lottery

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Regras fixas da Lotofácil: 15 dezenas entre 1 e 25.
const (
	NumbersPerBet = 15
	MinNumber     = 1
	MaxNumber     = 25

	// Faixas de premiação: abaixo de 11 acertos o prêmio é sempre zero.
	MinPrizeTier = 11
	MaxPrizeTier = 15
)

// PrizeTable mapeia acertos (11..15) para o valor do prêmio.
// Faixas ausentes valem zero.
type PrizeTable map[int]decimal.Decimal

// PrizeFor retorna o prêmio para uma quantidade de acertos.
func (t PrizeTable) PrizeFor(matches int) decimal.Decimal {
	if matches < MinPrizeTier || matches > MaxPrizeTier {
		return decimal.Zero
	}
	if v, ok := t[matches]; ok {
		return v
	}
	return decimal.Zero
}

// Settlement é gravado uma única vez por aposta, na conferência.
type Settlement struct {
	ContestNumber int             `json:"contestNumber"`
	DrawNumbers   []int           `json:"drawNumbers"`
	MatchCount    int             `json:"matchCount"`
	Prize         decimal.Decimal `json:"prize"`
	SettledAt     time.Time       `json:"settledAt"`
}

// Bet é uma aposta gerada por uma das estratégias.
// Settlement fica nulo até a conferência contra um resultado oficial.
type Bet struct {
	ID         string      `json:"id"`
	Strategy   string      `json:"strategy"`
	Numbers    []int       `json:"numbers"`
	PlacedDate time.Time   `json:"placedDate"`
	Settlement *Settlement `json:"settlement,omitempty"`
}

// Aggregate é o resumo financeiro de um concurso conferido.
type Aggregate struct {
	TotalPrize  decimal.Decimal `json:"totalPrize"`
	BetsChecked int             `json:"betsChecked"`
	TotalCost   decimal.Decimal `json:"totalCost"`
	Balance     decimal.Decimal `json:"balance"`
}

// DrawResult é a forma canônica de um resultado, independente da fonte.
// Numbers sempre em ordem crescente.
type DrawResult struct {
	ContestNumber int        `json:"contestNumber"`
	Numbers       []int      `json:"numbers"`
	Date          time.Time  `json:"date"`
	PrizeTable    PrizeTable `json:"prizeTable"`
	Source        string     `json:"source"`
	Aggregate     *Aggregate `json:"aggregate,omitempty"`
}

// ValidateNumbers garante exatamente 15 dezenas distintas entre 1 e 25.
func ValidateNumbers(numbers []int) error {
	if len(numbers) != NumbersPerBet {
		return fmt.Errorf("expected %d numbers, got %d", NumbersPerBet, len(numbers))
	}
	seen := make(map[int]bool, NumbersPerBet)
	for _, n := range numbers {
		if n < MinNumber || n > MaxNumber {
			return fmt.Errorf("number %d out of range [%d,%d]", n, MinNumber, MaxNumber)
		}
		if seen[n] {
			return fmt.Errorf("duplicate number %d", n)
		}
		seen[n] = true
	}
	return nil
}

// SortNumbers retorna uma cópia ordenada; a ordem crescente é a
// representação canônica persistida.
func SortNumbers(numbers []int) []int {
	out := make([]int, len(numbers))
	copy(out, numbers)
	sort.Ints(out)
	return out
}

// MatchCount conta a interseção exata entre aposta e resultado.
func MatchCount(betNumbers, drawNumbers []int) int {
	drawn := make(map[int]bool, len(drawNumbers))
	for _, n := range drawNumbers {
		drawn[n] = true
	}
	count := 0
	for _, n := range betNumbers {
		if drawn[n] {
			count++
		}
	}
	return count
}
