package fundamentals

import (
	"github.com/aristath/esgscreen/internal/domain"
	"github.com/rs/zerolog"
)

// FetchResult is the outcome of one fetch over a ticker sequence.
type FetchResult struct {
	Records       []domain.FinancialRecord `json:"records"`
	FailedTickers []string                 `json:"failed_tickers"`
	FromCache     bool                     `json:"from_cache"`
}

func (r FetchResult) clone() FetchResult {
	out := FetchResult{FromCache: r.FromCache}
	if r.Records != nil {
		out.Records = make([]domain.FinancialRecord, len(r.Records))
		for i, rec := range r.Records {
			out.Records[i] = rec.Clone()
		}
	}
	if r.FailedTickers != nil {
		out.FailedTickers = make([]string, len(r.FailedTickers))
		copy(out.FailedTickers, r.FailedTickers)
	}
	return out
}

// Fetcher produces one FinancialRecord per requested ticker.
type Fetcher struct {
	provider Provider
	cache    *Cache
	log      zerolog.Logger
}

// NewFetcher creates a fetcher. A nil cache disables memoization.
func NewFetcher(provider Provider, cache *Cache, log zerolog.Logger) *Fetcher {
	return &Fetcher{
		provider: provider,
		cache:    cache,
		log:      log.With().Str("component", "fundamentals_fetcher").Logger(),
	}
}

// Fetch returns exactly one record per input ticker, in input order.
// Tickers that fail carry only their ticker; the failure is logged, never returned.
func (f *Fetcher) Fetch(tickers []string) []domain.FinancialRecord {
	return f.FetchWithStats(tickers).Records
}

// FetchWithStats is Fetch plus the list of failed tickers and whether the memo served it.
func (f *Fetcher) FetchWithStats(tickers []string) FetchResult {
	if f.cache == nil {
		return f.fetchAll(tickers)
	}

	res, hit := f.cache.GetOrCompute(tickers, func() FetchResult {
		return f.fetchAll(tickers)
	})
	res.FromCache = hit
	return res
}

// Cache returns the memo cache, or nil.
func (f *Fetcher) Cache() *Cache {
	return f.cache
}

// Invalidate clears the memo cache.
func (f *Fetcher) Invalidate() {
	if f.cache != nil {
		f.cache.Invalidate()
		f.log.Info().Msg("Memo cache invalidated")
	}
}

func (f *Fetcher) fetchAll(tickers []string) FetchResult {
	res := FetchResult{
		Records:       make([]domain.FinancialRecord, 0, len(tickers)),
		FailedTickers: []string{},
	}

	for _, ticker := range tickers {
		rec, ok := f.fetchOne(ticker)
		if !ok {
			res.FailedTickers = append(res.FailedTickers, ticker)
		}
		res.Records = append(res.Records, rec)
	}

	f.log.Debug().
		Int("requested", len(tickers)).
		Int("failed", len(res.FailedTickers)).
		Msg("Fetched financial data")

	return res
}

func (f *Fetcher) fetchOne(ticker string) (domain.FinancialRecord, bool) {
	rec, err := f.provider.GetFinancials(ticker)
	if err != nil {
		f.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to fetch financial data")
		return domain.FinancialRecord{Ticker: ticker}, false
	}
	if rec == nil {
		f.log.Warn().Str("ticker", ticker).Msg("Provider returned no data")
		return domain.FinancialRecord{Ticker: ticker}, false
	}
	if rec.Ticker != ticker {
		f.log.Warn().
			Str("ticker", ticker).
			Str("returned_ticker", rec.Ticker).
			Msg("Provider returned data for a different ticker")
		return domain.FinancialRecord{Ticker: ticker}, false
	}
	return rec.Clone(), true
}
