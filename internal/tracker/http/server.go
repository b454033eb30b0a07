package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Castellan09/LotoFacil-Tracker/internal/bets/generator"
	betrepo "github.com/Castellan09/LotoFacil-Tracker/internal/bets/repo"
	"github.com/Castellan09/LotoFacil-Tracker/internal/lottery"
	"github.com/Castellan09/LotoFacil-Tracker/internal/reconcile"
	"github.com/Castellan09/LotoFacil-Tracker/internal/results/cache"
	"github.com/Castellan09/LotoFacil-Tracker/internal/results/fetch"
	"github.com/Castellan09/LotoFacil-Tracker/internal/results/normalize"
	resultrepo "github.com/Castellan09/LotoFacil-Tracker/internal/results/repo"
	"github.com/Castellan09/LotoFacil-Tracker/internal/stats"
	"github.com/Castellan09/LotoFacil-Tracker/internal/tracker/dto"
)

// ResultCache guarda o último resultado conferido para leituras da API.
type ResultCache interface {
	GetLatest(ctx context.Context) (lottery.DrawResult, bool, error)
	SetLatest(ctx context.Context, r lottery.DrawResult) error
}

var _ ResultCache = (*cache.Cache)(nil)

// API expõe a superfície HTTP do tracker. As regras de conferência moram no
// engine; aqui é só tradução de requisição/resposta.
type API struct {
	Log     *zap.Logger
	Bets    *betrepo.Postgres
	Results *resultrepo.Postgres
	Cache   ResultCache
	Stats   *stats.Store
	Fetcher *fetch.Fetcher
	Engine  *reconcile.Engine
}

func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/v1/bets/generate", a.generateBets)
	r.Get("/v1/bets", a.listBets)
	r.Get("/v1/results/latest", a.latestResult)
	r.Get("/v1/results/{contest}", a.getResult)
	r.Post("/v1/results", a.manualResult)
	r.Post("/v1/check", a.check)
	r.Get("/v1/stats", a.getStats)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *API) generateBets(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateBetsRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
			return
		}
	}
	if len(req.Strategies) == 0 {
		req.Strategies = generator.Names()
	}
	if req.PerStrategy <= 0 {
		req.PerStrategy = 1
	}

	// valida todos os nomes antes de criar qualquer aposta: um nome errado no
	// meio da lista não pode deixar apostas parciais para trás
	for _, strategy := range req.Strategies {
		if !generator.Known(strategy) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown strategy " + strategy})
			return
		}
	}

	history, err := a.recentDraws(r.Context())
	if err != nil {
		a.Log.Warn("load history", zap.Error(err))
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()

	var resp dto.GenerateBetsResponse
	for _, strategy := range req.Strategies {
		for i := 0; i < req.PerStrategy; i++ {
			numbers, err := generator.Generate(strategy, rng, history)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			id, err := a.Bets.Create(r.Context(), strategy, numbers, now)
			if err != nil {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
				return
			}
			resp.Bets = append(resp.Bets, dto.GeneratedBet{BetID: id, Strategy: strategy, Numbers: numbers})
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

// recentDraws devolve as dezenas dos últimos concursos para as estratégias
// que olham o histórico.
func (a *API) recentDraws(ctx context.Context) ([][]int, error) {
	results, err := a.Results.Recent(ctx, 10)
	if err != nil {
		return nil, err
	}
	history := make([][]int, 0, len(results))
	for _, r := range results {
		history = append(history, r.Numbers)
	}
	return history, nil
}

func (a *API) listBets(w http.ResponseWriter, r *http.Request) {
	bets, err := a.Bets.List(r.Context(), 200)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, bets)
}

func (a *API) latestResult(w http.ResponseWriter, r *http.Request) {
	if a.Cache != nil {
		if cached, ok, _ := a.Cache.GetLatest(r.Context()); ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	result, err := a.Results.Latest(r.Context())
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no results yet"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if a.Cache != nil {
		_ = a.Cache.SetLatest(r.Context(), result)
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) getResult(w http.ResponseWriter, r *http.Request) {
	contest, err := strconv.Atoi(chi.URLParam(r, "contest"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "contest must be numeric"})
		return
	}

	result, err := a.Results.GetByContest(r.Context(), contest)
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// manualResult aceita um resultado digitado quando todas as fontes falharam.
// Passa pela mesma validação dos adapters antes de conferir.
func (a *API) manualResult(w http.ResponseWriter, r *http.Request) {
	var req dto.ManualResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
		return
	}

	table := lottery.PrizeTable{}
	for tierStr, amountStr := range req.PrizeTable {
		tier, err := strconv.Atoi(tierStr)
		if err != nil || tier < lottery.MinPrizeTier || tier > lottery.MaxPrizeTier {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "prize tier must be 11..15"})
			return
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil || amount.IsNegative() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid prize amount for tier " + tierStr})
			return
		}
		table[tier] = amount
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse("02/01/2006", req.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be dd/mm/aaaa"})
			return
		}
		date = parsed
	}

	result, err := normalize.Canonical("manual", req.ContestNumber, req.Numbers, date, table)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	a.settle(w, r, result)
}

// check dispara a conferência do último concurso publicado.
func (a *API) check(w http.ResponseWriter, r *http.Request) {
	result, err := a.Fetcher.FetchLatest(r.Context())
	if err != nil {
		if errors.Is(err, fetch.ErrNoResultAvailable) {
			// sem liquidação neste ciclo; apostas seguem pendentes
			writeJSON(w, http.StatusOK, dto.CheckResponse{Status: "no_result_available", TotalPrize: "0.00"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	a.settle(w, r, result)
}

func (a *API) settle(w http.ResponseWriter, r *http.Request, result lottery.DrawResult) {
	summary, err := a.Engine.Reconcile(r.Context(), result)
	if err != nil {
		if errors.Is(err, reconcile.ErrAlreadyProcessed) {
			// rotina, não alerta
			writeJSON(w, http.StatusOK, dto.CheckResponse{
				Status:        "already_processed",
				ContestNumber: result.ContestNumber,
				TotalPrize:    "0.00",
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	// o cache serve GET /v1/results/latest; sem o agregado a visão cacheada
	// ficaria incompleta até o TTL expirar
	result.Aggregate = &lottery.Aggregate{
		TotalPrize:  summary.TotalPrize,
		BetsChecked: summary.Checked,
		TotalCost:   summary.TotalCost,
		Balance:     summary.Balance,
	}
	if a.Cache != nil {
		_ = a.Cache.SetLatest(r.Context(), result)
	}

	writeJSON(w, http.StatusOK, dto.CheckResponse{
		Status:        "settled",
		ContestNumber: result.ContestNumber,
		Checked:       summary.Checked,
		TotalPrize:    summary.TotalPrize.StringFixed(2),
	})
}

func (a *API) getStats(w http.ResponseWriter, r *http.Request) {
	all, err := a.Stats.All(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, all)
}
