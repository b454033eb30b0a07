package dto

// GenerateBetsResponse lista as apostas recém-criadas.
type GeneratedBet struct {
	BetID    string `json:"betId"`
	Strategy string `json:"strategy"`
	Numbers  []int  `json:"numbers"`
}

type GenerateBetsResponse struct {
	Bets []GeneratedBet `json:"bets"`
}

// CheckResponse é o desfecho de um disparo de conferência.
// Status: "settled" | "already_processed" | "no_result_available"
type CheckResponse struct {
	Status        string `json:"status"`
	ContestNumber int    `json:"contestNumber,omitempty"`
	Checked       int    `json:"checked"`
	TotalPrize    string `json:"totalPrize"`
}
