package models

// SummaryRound pairs the keywords confirmed in one round with the summary
// the backend produced for the articles they filtered.
type SummaryRound struct {
	Summary  string   `json:"summary"`
	Keywords []string `json:"keywords"`
}

// SummaryHistory is the append-only sequence of confirmed rounds.
type SummaryHistory []SummaryRound

// Append returns a new history with round added at the end. The receiver is
// never modified, so earlier snapshots stay valid.
func (h SummaryHistory) Append(round SummaryRound) SummaryHistory {
	out := make(SummaryHistory, len(h), len(h)+1)
	copy(out, h)

	kws := make([]string, len(round.Keywords))
	copy(kws, round.Keywords)

	return append(out, SummaryRound{Keywords: kws, Summary: round.Summary})
}

// Last returns the most recent round.
func (h SummaryHistory) Last() (SummaryRound, bool) {
	if len(h) == 0 {
		return SummaryRound{}, false
	}

	return h[len(h)-1], true
}
