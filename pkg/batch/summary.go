package batch

import (
	"sort"

	"github.com/leapstack-labs/samplegate/pkg/core"
	"github.com/leapstack-labs/samplegate/pkg/validate"
)

// RuleCount is the number of diagnostics one rule produced.
type RuleCount struct {
	RuleID string `json:"rule_id"`
	Count  int    `json:"count"`
}

// Summary describes a validated corpus.
type Summary struct {
	Total             int     `json:"total"`
	Accepted          int     `json:"accepted"`
	AcceptedWithNotes int     `json:"accepted_with_notes"`
	Rejected          int     `json:"rejected"`
	ParseFailures     int     `json:"parse_failures"`
	Errors            int     `json:"errors"`
	Warnings          int     `json:"warnings"`
	PassRate          float64 `json:"pass_rate"`

	// TopRules are the most frequent rule IDs, by count then ID.
	TopRules []RuleCount `json:"top_rules"`

	// IssueDistribution maps rule ID to the number of samples it fired on.
	IssueDistribution map[string]int `json:"issue_distribution"`
}

// Summarize is a pure fold over results. topN bounds TopRules; zero or
// less leaves it empty.
func Summarize(results []validate.Result, topN int) Summary {
	s := Summary{
		Total:             len(results),
		TopRules:          []RuleCount{},
		IssueDistribution: map[string]int{},
	}
	counts := map[string]int{}

	for _, res := range results {
		switch {
		case res.Verdict == core.VerdictReject:
			s.Rejected++
		case res.HasNotes():
			s.Accepted++
			s.AcceptedWithNotes++
		default:
			s.Accepted++
		}
		if res.ParseFailed() {
			s.ParseFailures++
		}

		seen := map[string]bool{}
		for _, d := range res.Diagnostics {
			if d.Severity == core.SeverityError {
				s.Errors++
			} else {
				s.Warnings++
			}
			counts[d.RuleID]++
			if !seen[d.RuleID] {
				seen[d.RuleID] = true
				s.IssueDistribution[d.RuleID]++
			}
		}
	}

	if s.Total > 0 {
		s.PassRate = float64(s.Accepted) / float64(s.Total)
	}

	ranked := make([]RuleCount, 0, len(counts))
	for id, n := range counts {
		ranked = append(ranked, RuleCount{RuleID: id, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].RuleID < ranked[j].RuleID
	})
	if topN > 0 {
		if len(ranked) > topN {
			ranked = ranked[:topN]
		}
		s.TopRules = ranked
	}
	return s
}
