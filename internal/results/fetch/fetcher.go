// Package fetch implementa a cascata de fallback entre fontes de resultado.
package fetch

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/Castellan09/LotoFacil-Tracker/internal/lottery"
	"github.com/Castellan09/LotoFacil-Tracker/internal/results/source"
	"github.com/Castellan09/LotoFacil-Tracker/internal/shared/metrics"
)

// ErrNoResultAvailable indica que todas as fontes falharam neste ciclo.
// As apostas seguem pendentes; o scheduler tenta de novo mais tarde.
var ErrNoResultAvailable = errors.New("no result available from any source")

// Fetcher percorre as fontes em ordem fixa de prioridade e devolve o primeiro
// sucesso. Não é quorum: não há checagem cruzada entre fontes, e nenhuma fonte
// é repetida dentro de um mesmo ciclo.
type Fetcher struct {
	sources []source.Source
	log     *zap.Logger
}

func New(log *zap.Logger, sources ...source.Source) *Fetcher {
	return &Fetcher{sources: sources, log: log}
}

// FetchLatest tenta as fontes sequencialmente; as chamadas nunca são
// disparadas em paralelo para não martelar todos os provedores a cada ciclo.
func (f *Fetcher) FetchLatest(ctx context.Context) (lottery.DrawResult, error) {
	for _, src := range f.sources {
		result, err := src.Fetch(ctx)
		if err != nil {
			metrics.FetchAttempts.WithLabelValues(src.Name(), "unavailable").Inc()
			f.log.Warn("source unavailable",
				zap.String("source", src.Name()),
				zap.Error(err),
			)
			continue
		}

		metrics.FetchAttempts.WithLabelValues(src.Name(), "ok").Inc()
		f.log.Info("result fetched",
			zap.String("source", src.Name()),
			zap.Int("contest", result.ContestNumber),
		)
		return result, nil
	}

	metrics.FetchExhausted.Inc()
	return lottery.DrawResult{}, ErrNoResultAvailable
}
