package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Castellan09/LotoFacil-Tracker/internal/lottery"
	"github.com/Castellan09/LotoFacil-Tracker/internal/results/normalize"
)

// Caixa consome a API estruturada do portal oficial de loterias.
// Fonte mais autoritativa; vem primeiro na ordem padrão.
type Caixa struct {
	url    string
	client *http.Client
}

func NewCaixa(url string, timeout time.Duration) *Caixa {
	return &Caixa{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *Caixa) Name() string { return "caixa" }

func (c *Caixa) Fetch(ctx context.Context) (lottery.DrawResult, error) {
	body, err := get(ctx, c.client, c.url)
	if err != nil {
		return lottery.DrawResult{}, fmt.Errorf("%w: caixa: %v", ErrUnavailable, err)
	}

	result, err := normalize.Caixa(body)
	if err != nil {
		// falha de normalização degrada só esta tentativa
		return lottery.DrawResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return result, nil
}
