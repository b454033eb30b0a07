package fetch

import (
	"strings"

	"github.com/Castellan09/LotoFacil-Tracker/internal/results/source"
	"github.com/Castellan09/LotoFacil-Tracker/internal/shared/config"
)

// SourcesFromConfig monta a cascata na ordem de prioridade configurada
// (SOURCE_ORDER). Nomes desconhecidos são ignorados.
func SourcesFromConfig(cfg config.Config) []source.Source {
	var out []source.Source
	for _, name := range strings.Split(cfg.SourceOrder, ",") {
		switch strings.TrimSpace(name) {
		case "caixa":
			out = append(out, source.NewCaixa(cfg.CaixaAPIURL, cfg.SourceTimeout))
		case "loterias":
			out = append(out, source.NewLoterias(cfg.LoteriasAPIURL, cfg.SourceTimeout))
		case "scrape":
			out = append(out, source.NewScrape(cfg.ScrapeURL, cfg.SourceTimeout))
		}
	}
	return out
}
