// Package fundamentals fetches per-ticker financial metrics from a market-data
// provider and memoizes whole fetches by their ticker sequence.
package fundamentals

import "github.com/aristath/esgscreen/internal/domain"

// Provider fetches market metrics for a single ticker.
// Absent fields are reported as nil. An error means the ticker could not be fetched at all.
type Provider interface {
	GetFinancials(ticker string) (*domain.FinancialRecord, error)
}

// ProviderName returns p's self-reported name, or "unknown".
func ProviderName(p Provider) string {
	if named, ok := p.(interface{ Name() string }); ok {
		return named.Name()
	}
	return "unknown"
}
