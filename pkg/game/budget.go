package game

// ContextLimit is the context window of the text model (Gemini 2.5
// Flash, one million tokens).
const ContextLimit = 1_000_000

// BudgetSnapshot is a derived view of the transcript's token
// bookkeeping. It is recomputed from the turn list on every change and
// never stored.
type BudgetSnapshot struct {
	// Accumulated is the sum of TotalTokens over every turn that
	// carries a usage sample.
	Accumulated int

	// CurrentContext is PromptTokens+CandidatesTokens of the most
	// recent usage-carrying turn. The provider re-sends prior turns as
	// history, so its latest accounting already covers the full
	// window; summing across turns would double count.
	CurrentContext int

	// Percent is CurrentContext relative to ContextLimit, in [0, 100].
	Percent float64
}

// SnapshotBudget derives the token metrics for a transcript.
func SnapshotBudget(turns []*Turn) BudgetSnapshot {
	var s BudgetSnapshot
	for _, t := range turns {
		if t.Usage == nil {
			continue
		}
		s.Accumulated += t.Usage.TotalTokens
		s.CurrentContext = t.Usage.PromptTokens + t.Usage.CandidatesTokens
	}
	s.Percent = float64(s.CurrentContext) / float64(ContextLimit) * 100
	if s.Percent > 100 {
		s.Percent = 100
	}
	return s
}
