package events

import "time"

// Evento emitido pelo reconciler-worker após conferir um concurso.
// Valores monetários em string decimal ("1500.00") para não perder precisão.
type StrategyTotal struct {
	Strategy   string `json:"strategy"`
	BetsPlaced int    `json:"betsPlaced"`
	TotalPrize string `json:"totalPrize"`
}

type ContestSettled struct {
	ContestNumber int             `json:"contestNumber"`
	Numbers       []int           `json:"numbers"`
	Source        string          `json:"source"`
	BetsChecked   int             `json:"betsChecked"`
	TotalPrize    string          `json:"totalPrize"`
	TotalCost     string          `json:"totalCost"`
	Balance       string          `json:"balance"`
	ByStrategy    []StrategyTotal `json:"byStrategy,omitempty"`
	Ts            time.Time       `json:"ts"`
}
