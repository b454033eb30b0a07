package dto

// GenerateBetsRequest pede a geração de apostas por estratégia.
// Strategies vazio significa todas as estratégias registradas.
type GenerateBetsRequest struct {
	Strategies  []string `json:"strategies,omitempty"`
	PerStrategy int      `json:"perStrategy,omitempty"` // default 1
}

// ManualResultRequest é o resultado digitado à mão quando todas as fontes
// falharam. Passa pela mesma validação dos adapters.
type ManualResultRequest struct {
	ContestNumber int               `json:"contestNumber"`
	Numbers       []int             `json:"numbers"`
	Date          string            `json:"date,omitempty"`       // "dd/mm/aaaa"
	PrizeTable    map[string]string `json:"prizeTable,omitempty"` // acertos -> valor decimal
}
