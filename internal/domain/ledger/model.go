package ledger

// Holding is the unescrowed credit balance a holder owns in one project.
// Holdings are created implicitly at zero on first reference; credits
// escrowed by an active listing are debited out of the holding until the
// listing settles or is cancelled.
type Holding struct {
	ProjectID int64  `json:"project_id"`
	Holder    string `json:"holder"`
	Amount    int64  `json:"amount"`
}
