package entity

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// BalanceSummary aggregates the monetary values seen for one account
// classification.
type BalanceSummary struct {
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
	Max   float64 `json:"max"`
}

// Stats describes the quality of one extraction pass. Heuristic
// uncertainties never abort a run; they are absorbed here so operators can
// judge the result.
type Stats struct {
	Counts              map[Kind]int              `json:"counts"`
	NonZeroBalances     map[Kind]int              `json:"non_zero_balances"`
	SourceAbsent        map[Kind]bool             `json:"source_absent"`
	ByClassification    map[string]BalanceSummary `json:"by_classification,omitempty"`
	TokensSeen          int                       `json:"tokens_seen"`
	CandidatesSeen      int                       `json:"candidates_seen"`
	DuplicatesCollapsed int                       `json:"duplicates_collapsed"`
	Ambiguities         int                       `json:"ambiguities"`
	Truncations         int                       `json:"truncations"`
}

// NewStats returns zeroed statistics with all per-kind maps initialized.
func NewStats() Stats {
	s := Stats{
		Counts:           make(map[Kind]int, len(Kinds())),
		NonZeroBalances:  make(map[Kind]int, len(Kinds())),
		SourceAbsent:     make(map[Kind]bool, len(Kinds())),
		ByClassification: make(map[string]BalanceSummary),
	}
	for _, k := range Kinds() {
		s.Counts[k] = 0
		s.NonZeroBalances[k] = 0
		s.SourceAbsent[k] = false
	}
	return s
}

// Summarize computes the aggregate view over a set of balances.
func Summarize(vals []float64) BalanceSummary {
	if len(vals) == 0 {
		return BalanceSummary{}
	}
	return BalanceSummary{
		Count: len(vals),
		Sum:   floats.Sum(vals),
		Mean:  stat.Mean(vals, nil),
		Max:   floats.Max(vals),
	}
}

// SummarizeAccounts groups account balances by classification and fills
// ByClassification.
func (s *Stats) SummarizeAccounts(accounts []Entity) {
	grouped := make(map[string][]float64)
	for _, a := range accounts {
		bal, _ := a.Balance.Float64()
		grouped[a.Classification] = append(grouped[a.Classification], bal)
	}
	for class, vals := range grouped {
		s.ByClassification[class] = Summarize(vals)
	}
}
