// Package normalize converte payloads específicos de cada fonte para a forma
// canônica DrawResult. Não faz I/O.
package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Castellan09/LotoFacil-Tracker/internal/lottery"
)

// Error indica que uma fonte devolveu dados estruturalmente implausíveis.
type Error struct {
	Source string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("normalize %s: %s", e.Source, e.Reason)
}

func errf(source, format string, args ...any) *Error {
	return &Error{Source: source, Reason: fmt.Sprintf(format, args...)}
}

// Canonical valida e monta um DrawResult a partir de campos já extraídos.
// As dezenas são persistidas sempre em ordem crescente.
func Canonical(source string, contest int, numbers []int, date time.Time, table lottery.PrizeTable) (lottery.DrawResult, error) {
	if contest <= 0 {
		return lottery.DrawResult{}, errf(source, "missing or non-numeric contest number")
	}
	if err := lottery.ValidateNumbers(numbers); err != nil {
		return lottery.DrawResult{}, errf(source, "%v", err)
	}
	if table == nil {
		table = lottery.PrizeTable{}
	}
	return lottery.DrawResult{
		ContestNumber: contest,
		Numbers:       lottery.SortNumbers(numbers),
		Date:          date,
		PrizeTable:    table,
		Source:        source,
	}, nil
}

// caixaPayload é o shape da API oficial da Caixa.
// As faixas vêm indexadas de 1 (15 acertos) a 5 (11 acertos).
type caixaPayload struct {
	Numero            int      `json:"numero"`
	DataApuracao      string   `json:"dataApuracao"`
	ListaDezenas      []string `json:"listaDezenas"`
	ListaRateioPremio []struct {
		Faixa       int             `json:"faixa"`
		ValorPremio decimal.Decimal `json:"valorPremio"`
	} `json:"listaRateioPremio"`
}

// Caixa normaliza a resposta da API oficial.
func Caixa(raw []byte) (lottery.DrawResult, error) {
	const source = "caixa"

	var p caixaPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return lottery.DrawResult{}, errf(source, "decode: %v", err)
	}

	numbers, err := parseTokens(source, p.ListaDezenas)
	if err != nil {
		return lottery.DrawResult{}, err
	}

	table := lottery.PrizeTable{}
	for _, tier := range p.ListaRateioPremio {
		// faixa 1 = 15 acertos, faixa 5 = 11 acertos
		matches := lottery.MaxPrizeTier + 1 - tier.Faixa
		if matches < lottery.MinPrizeTier || matches > lottery.MaxPrizeTier {
			continue
		}
		table[matches] = tier.ValorPremio
	}

	return Canonical(source, p.Numero, numbers, parseDate(p.DataApuracao), table)
}

// loteriasPayload é o shape da API espelho da comunidade.
type loteriasPayload struct {
	Concurso   int      `json:"concurso"`
	Data       string   `json:"data"`
	Dezenas    []string `json:"dezenas"`
	Premiacoes []struct {
		Faixa       int             `json:"faixa"`
		ValorPremio decimal.Decimal `json:"valorPremio"`
	} `json:"premiacoes"`
}

// Loterias normaliza a resposta da API espelho.
func Loterias(raw []byte) (lottery.DrawResult, error) {
	const source = "loterias"

	var p loteriasPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return lottery.DrawResult{}, errf(source, "decode: %v", err)
	}

	numbers, err := parseTokens(source, p.Dezenas)
	if err != nil {
		return lottery.DrawResult{}, err
	}

	table := lottery.PrizeTable{}
	for _, tier := range p.Premiacoes {
		matches := lottery.MaxPrizeTier + 1 - tier.Faixa
		if matches < lottery.MinPrizeTier || matches > lottery.MaxPrizeTier {
			continue
		}
		table[matches] = tier.ValorPremio
	}

	return Canonical(source, p.Concurso, numbers, parseDate(p.Data), table)
}

// parseTokens converte dezenas em string ("01".."25") para inteiros.
func parseTokens(source string, tokens []string) ([]int, error) {
	numbers := make([]int, 0, len(tokens))
	for _, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, errf(source, "non-numeric ball %q", tok)
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

// parseDate aceita o formato brasileiro; data ilegível não invalida o resultado.
func parseDate(s string) time.Time {
	t, err := time.Parse("02/01/2006", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
