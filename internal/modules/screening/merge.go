// Package screening joins ESG scores with financial metrics, filters the result
// by user criteria and ranks the survivors into a shortlist.
package screening

import "github.com/aristath/esgscreen/internal/domain"

// Merge inner-joins esg and fin on exact ticker match.
// Output follows esg order. When fin repeats a ticker the first occurrence wins.
// Tickers without a partner on either side are dropped.
func Merge(esg []domain.EsgRecord, fin []domain.FinancialRecord) []domain.MergedRecord {
	byTicker := make(map[string]domain.FinancialRecord, len(fin))
	for _, f := range fin {
		if _, exists := byTicker[f.Ticker]; !exists {
			byTicker[f.Ticker] = f
		}
	}

	out := make([]domain.MergedRecord, 0, len(esg))
	for _, e := range esg {
		f, ok := byTicker[e.Ticker]
		if !ok {
			continue
		}
		out = append(out, domain.NewMergedRecord(e, f))
	}
	return out
}
