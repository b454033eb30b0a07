// Package generator reúne as estratégias de geração de apostas.
// Todas são funções puras de seleção pseudo-aleatória: recebem o rng e o
// histórico de sorteios e devolvem 15 dezenas distintas ordenadas.
package generator

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/Castellan09/LotoFacil-Tracker/internal/lottery"
)

// Strategy gera uma aposta; history traz os sorteios mais recentes primeiro
// e pode ser vazio.
type Strategy func(rng *rand.Rand, history [][]int) []int

var strategies = map[string]Strategy{
	"aleatoria":     Aleatoria,
	"pares-impares": ParesImpares,
	"quentes":       Quentes,
	"frias":         Frias,
	"moldura":       Moldura,
	"repetidas":     Repetidas,
}

// Names lista as estratégias disponíveis em ordem estável.
func Names() []string {
	out := make([]string, 0, len(strategies))
	for name := range strategies {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Known informa se a estratégia está registrada.
func Known(name string) bool {
	_, ok := strategies[name]
	return ok
}

// Generate executa a estratégia pelo nome.
func Generate(name string, rng *rand.Rand, history [][]int) ([]int, error) {
	s, ok := strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q (available: %v)", name, Names())
	}
	return s(rng, history), nil
}

// Aleatoria sorteia 15 dezenas uniformemente.
func Aleatoria(rng *rand.Rand, _ [][]int) []int {
	return sample(rng, allNumbers(), lottery.NumbersPerBet)
}

// ParesImpares equilibra a aposta em 8 ímpares e 7 pares.
func ParesImpares(rng *rand.Rand, _ [][]int) []int {
	var odds, evens []int
	for n := lottery.MinNumber; n <= lottery.MaxNumber; n++ {
		if n%2 == 1 {
			odds = append(odds, n)
		} else {
			evens = append(evens, n)
		}
	}
	picked := append(sample(rng, odds, 8), sample(rng, evens, 7)...)
	sort.Ints(picked)
	return picked
}

// Quentes prioriza as dezenas mais frequentes no histórico.
func Quentes(rng *rand.Rand, history [][]int) []int {
	if len(history) == 0 {
		return Aleatoria(rng, nil)
	}
	return byFrequency(rng, history, true)
}

// Frias prioriza as dezenas menos frequentes no histórico.
func Frias(rng *rand.Rand, history [][]int) []int {
	if len(history) == 0 {
		return Aleatoria(rng, nil)
	}
	return byFrequency(rng, history, false)
}

// Moldura favorece as 16 dezenas da borda do volante 5x5, completando com o
// miolo.
func Moldura(rng *rand.Rand, _ [][]int) []int {
	var frame, center []int
	for n := lottery.MinNumber; n <= lottery.MaxNumber; n++ {
		row, col := (n-1)/5, (n-1)%5
		if row == 0 || row == 4 || col == 0 || col == 4 {
			frame = append(frame, n)
		} else {
			center = append(center, n)
		}
	}
	picked := append(sample(rng, frame, 12), sample(rng, center, 3)...)
	sort.Ints(picked)
	return picked
}

// Repetidas mantém 9 dezenas do último sorteio e sorteia as outras 6 fora
// dele.
func Repetidas(rng *rand.Rand, history [][]int) []int {
	if len(history) == 0 || len(history[0]) != lottery.NumbersPerBet {
		return Aleatoria(rng, nil)
	}
	last := history[0]

	inLast := make(map[int]bool, len(last))
	for _, n := range last {
		inLast[n] = true
	}
	var rest []int
	for n := lottery.MinNumber; n <= lottery.MaxNumber; n++ {
		if !inLast[n] {
			rest = append(rest, n)
		}
	}

	picked := append(sample(rng, last, 9), sample(rng, rest, 6)...)
	sort.Ints(picked)
	return picked
}

// byFrequency ordena as dezenas por frequência no histórico, com desempate
// aleatório, e pega as 15 primeiras.
func byFrequency(rng *rand.Rand, history [][]int, hottest bool) []int {
	freq := make(map[int]int, lottery.MaxNumber)
	for _, draw := range history {
		for _, n := range draw {
			freq[n]++
		}
	}

	numbers := allNumbers()
	rng.Shuffle(len(numbers), func(i, j int) {
		numbers[i], numbers[j] = numbers[j], numbers[i]
	})
	sort.SliceStable(numbers, func(i, j int) bool {
		if hottest {
			return freq[numbers[i]] > freq[numbers[j]]
		}
		return freq[numbers[i]] < freq[numbers[j]]
	})

	picked := append([]int(nil), numbers[:lottery.NumbersPerBet]...)
	sort.Ints(picked)
	return picked
}

func allNumbers() []int {
	out := make([]int, 0, lottery.MaxNumber)
	for n := lottery.MinNumber; n <= lottery.MaxNumber; n++ {
		out = append(out, n)
	}
	return out
}

// sample devolve k elementos distintos do pool, sem mutar o original.
func sample(rng *rand.Rand, pool []int, k int) []int {
	cp := append([]int(nil), pool...)
	rng.Shuffle(len(cp), func(i, j int) { cp[i], cp[j] = cp[j], cp[i] })
	picked := append([]int(nil), cp[:k]...)
	sort.Ints(picked)
	return picked
}
