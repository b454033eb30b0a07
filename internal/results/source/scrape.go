package source

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/Castellan09/LotoFacil-Tracker/internal/lottery"
	"github.com/Castellan09/LotoFacil-Tracker/internal/results/normalize"
)

var (
	// dezenas de dois dígitos entre 01 e 25
	ballPattern    = regexp.MustCompile(`\b(0[1-9]|1[0-9]|2[0-5])\b`)
	contestPattern = regexp.MustCompile(`(?i)concurso\s*:?\s*#?\s*(\d{3,5})`)
)

// Scrape extrai o resultado de uma página HTML por casamento de padrão.
// Último recurso da cascata: não publica tabela de prêmios e um casamento
// sintático que não forme 15 dezenas distintas vale como indisponível.
type Scrape struct {
	url    string
	client *http.Client
}

func NewScrape(url string, timeout time.Duration) *Scrape {
	return &Scrape{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *Scrape) Name() string { return "scrape" }

func (s *Scrape) Fetch(ctx context.Context) (lottery.DrawResult, error) {
	body, err := get(ctx, s.client, s.url)
	if err != nil {
		return lottery.DrawResult{}, fmt.Errorf("%w: scrape: %v", ErrUnavailable, err)
	}

	page := string(body)

	cm := contestPattern.FindStringSubmatch(page)
	if cm == nil {
		return lottery.DrawResult{}, fmt.Errorf("%w: scrape: contest number not found", ErrUnavailable)
	}
	contest, err := strconv.Atoi(cm[1])
	if err != nil {
		return lottery.DrawResult{}, fmt.Errorf("%w: scrape: contest %q", ErrUnavailable, cm[1])
	}

	// primeiras 15 dezenas distintas, na ordem em que aparecem
	seen := make(map[int]bool, lottery.NumbersPerBet)
	numbers := make([]int, 0, lottery.NumbersPerBet)
	for _, tok := range ballPattern.FindAllString(page, -1) {
		n, _ := strconv.Atoi(tok)
		if seen[n] {
			continue
		}
		seen[n] = true
		numbers = append(numbers, n)
		if len(numbers) == lottery.NumbersPerBet {
			break
		}
	}

	// revalida pelas mesmas regras do normalizador
	result, err := normalize.Canonical(s.Name(), contest, numbers, time.Time{}, nil)
	if err != nil {
		return lottery.DrawResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return result, nil
}
