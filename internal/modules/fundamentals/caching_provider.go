package fundamentals

import (
	"encoding/json"
	"time"

	"github.com/aristath/esgscreen/internal/clientdata"
	"github.com/aristath/esgscreen/internal/domain"
	"github.com/rs/zerolog"
)

// CachingProvider checks the persistent client data cache before calling the upstream provider.
type CachingProvider struct {
	upstream      Provider
	repo          *clientdata.Repository
	table         string
	ttl           time.Duration
	staleFallback bool
	log           zerolog.Logger
}

// CachingProviderConfig configures a CachingProvider.
type CachingProviderConfig struct {
	Table string
	TTL   time.Duration
	// StaleFallback serves expired records when the upstream call fails.
	StaleFallback bool
}

// NewCachingProvider wraps upstream with the client data cache.
func NewCachingProvider(upstream Provider, repo *clientdata.Repository, cfg CachingProviderConfig, log zerolog.Logger) *CachingProvider {
	if cfg.TTL <= 0 {
		cfg.TTL = clientdata.TTLFundamentals
	}
	return &CachingProvider{
		upstream:      upstream,
		repo:          repo,
		table:         cfg.Table,
		ttl:           cfg.TTL,
		staleFallback: cfg.StaleFallback,
		log:           log.With().Str("component", "caching_provider").Str("table", cfg.Table).Logger(),
	}
}

// GetFinancials returns a fresh cached record or fetches and stores a new one.
func (p *CachingProvider) GetFinancials(ticker string) (*domain.FinancialRecord, error) {
	if rec := p.load(ticker, true); rec != nil {
		return rec, nil
	}

	rec, err := p.upstream.GetFinancials(ticker)
	if err == nil && rec != nil {
		// Empty and mismatched records are passed through but never persisted.
		if rec.Ticker == ticker && !rec.IsEmpty() {
			if storeErr := p.repo.Store(p.table, ticker, rec, p.ttl); storeErr != nil {
				p.log.Warn().Err(storeErr).Str("ticker", ticker).Msg("Failed to store financial data")
			}
		}
		return rec, nil
	}

	if p.staleFallback {
		if stale := p.load(ticker, false); stale != nil {
			p.log.Warn().Err(err).Str("ticker", ticker).Msg("Upstream failed, serving stale financial data")
			return stale, nil
		}
	}

	return rec, err
}

func (p *CachingProvider) load(ticker string, freshOnly bool) *domain.FinancialRecord {
	var (
		raw json.RawMessage
		err error
	)
	if freshOnly {
		raw, err = p.repo.GetIfFresh(p.table, ticker)
	} else {
		raw, err = p.repo.Get(p.table, ticker)
	}
	if err != nil {
		p.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to read cached financial data")
		return nil
	}
	if raw == nil {
		return nil
	}

	var rec domain.FinancialRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		p.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to decode cached financial data")
		return nil
	}
	if rec.Ticker != ticker {
		return nil
	}
	return &rec
}

// Purge removes every persisted record for this provider.
func (p *CachingProvider) Purge() (int64, error) {
	return p.repo.DeleteAll(p.table)
}

// Stats returns the row counts of the backing table.
func (p *CachingProvider) Stats() (clientdata.TableStats, error) {
	return p.repo.Stats(p.table)
}

// Name reports the wrapped provider's name.
func (p *CachingProvider) Name() string {
	return ProviderName(p.upstream)
}
