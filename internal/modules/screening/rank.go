package screening

import (
	"sort"

	"github.com/aristath/esgscreen/internal/domain"
)

// DefaultShortlistSize is the number of companies in the summary table.
const DefaultShortlistSize = 5

// TopN returns the n highest ESG scores, descending. Ties keep input order.
// n <= 0 yields an empty result; fewer than n records yields all of them.
func TopN(records []domain.MergedRecord, n int) []domain.MergedRecord {
	if n <= 0 {
		return []domain.MergedRecord{}
	}

	sorted := make([]domain.MergedRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ESGScore > sorted[j].ESGScore
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Project restricts a merged record to the summary-table columns.
func Project(r domain.MergedRecord) domain.ShortlistEntry {
	return domain.ShortlistEntry{
		Ticker:        r.Ticker,
		CompanyName:   r.CompanyName,
		ESGScore:      r.ESGScore,
		PERatio:       r.PERatio,
		ROE:           r.ROE,
		DividendYield: r.DividendYield,
		Beta:          r.Beta,
	}
}

// Shortlist ranks records with TopN and projects each survivor.
func Shortlist(records []domain.MergedRecord, n int) []domain.ShortlistEntry {
	top := TopN(records, n)
	out := make([]domain.ShortlistEntry, len(top))
	for i, r := range top {
		out[i] = Project(r)
	}
	return out
}
