// Package source contém um adapter por provedor externo de resultados.
// Cada adapter encapsula uma técnica de obtenção e devolve a forma canônica
// ou ErrUnavailable; a cascata de fallback fica no pacote fetch.
package source

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/Castellan09/LotoFacil-Tracker/internal/lottery"
)

// ErrUnavailable sinaliza que o adapter não conseguiu produzir um resultado
// utilizável (rede, status não-2xx, timeout ou extração inválida).
// Nunca escapa do fetch.Fetcher.
var ErrUnavailable = errors.New("result source unavailable")

// Source é o contrato comum de todos os adapters.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (lottery.DrawResult, error)
}

// get faz um GET com contexto e devolve o corpo em caso de 2xx.
// Qualquer falha vira ErrUnavailable no chamador.
func get(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, text/html")
	req.Header.Set("User-Agent", "LotoFacil-Tracker/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New("unexpected status " + resp.Status)
	}

	return io.ReadAll(resp.Body)
}
