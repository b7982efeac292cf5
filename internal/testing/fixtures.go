package testing

import "github.com/aristath/esgscreen/internal/domain"

// NewFinancialFixtures returns a complete record for every ticker of the default ESG table.
// PE values are chosen so that the default criteria (ESG >= 60, PE <= 40)
// keep AAPL, MSFT, GOOGL, META, JPM and JNJ.
func NewFinancialFixtures() map[string]*domain.FinancialRecord {
	rec := func(ticker, name string, pe, roe, dy, beta float64) *domain.FinancialRecord {
		return &domain.FinancialRecord{
			Ticker:        ticker,
			CompanyName:   domain.StringPtr(name),
			MarketCap:     domain.Int64Ptr(1_000_000_000_000),
			PERatio:       domain.Float64Ptr(pe),
			ROE:           domain.Float64Ptr(roe),
			DividendYield: domain.Float64Ptr(dy),
			Beta:          domain.Float64Ptr(beta),
			DebtToEquity:  domain.Float64Ptr(50),
		}
	}

	return map[string]*domain.FinancialRecord{
		"AAPL":  rec("AAPL", "Apple Inc.", 29.1, 1.47, 0.0044, 1.24),
		"MSFT":  rec("MSFT", "Microsoft Corporation", 35.2, 0.36, 0.0072, 0.90),
		"TSLA":  rec("TSLA", "Tesla, Inc.", 62.0, 0.21, 0, 2.30),
		"AMZN":  rec("AMZN", "Amazon.com, Inc.", 52.3, 0.22, 0, 1.15),
		"GOOGL": rec("GOOGL", "Alphabet Inc.", 24.5, 0.29, 0.0047, 1.05),
		"META":  rec("META", "Meta Platforms, Inc.", 26.4, 0.34, 0.0033, 1.21),
		"NVDA":  rec("NVDA", "NVIDIA Corporation", 55.7, 1.15, 0.0003, 1.68),
		"JPM":   rec("JPM", "JPMorgan Chase & Co.", 12.1, 0.16, 0.0215, 1.10),
		"JNJ":   rec("JNJ", "Johnson & Johnson", 15.4, 0.20, 0.0310, 0.52),
		"XOM":   rec("XOM", "Exxon Mobil Corporation", 13.8, 0.15, 0.0340, 0.88),
	}
}
