package topics

const (
	// Conferência
	ContestSettled = "contest_settled"

	// DLQs
	ContestSettledDLQ = "contest_settled_dlq"
)
