package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Castellan09/LotoFacil-Tracker/internal/lottery"
	"github.com/Castellan09/LotoFacil-Tracker/internal/results/normalize"
)

// Loterias consome a API espelho mantida pela comunidade.
// Mesmo conteúdo da oficial com outro shape de resposta.
type Loterias struct {
	url    string
	client *http.Client
}

func NewLoterias(url string, timeout time.Duration) *Loterias {
	return &Loterias{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (l *Loterias) Name() string { return "loterias" }

func (l *Loterias) Fetch(ctx context.Context) (lottery.DrawResult, error) {
	body, err := get(ctx, l.client, l.url)
	if err != nil {
		return lottery.DrawResult{}, fmt.Errorf("%w: loterias: %v", ErrUnavailable, err)
	}

	result, err := normalize.Loterias(body)
	if err != nil {
		return lottery.DrawResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return result, nil
}
