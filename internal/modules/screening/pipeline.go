package screening

import (
	"time"

	"github.com/aristath/esgscreen/internal/domain"
	"github.com/aristath/esgscreen/internal/modules/charts"
	"github.com/aristath/esgscreen/internal/modules/esg"
	"github.com/aristath/esgscreen/internal/modules/fundamentals"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// View is everything the dashboard renders for one set of criteria.
type View struct {
	GeneratedAt   time.Time               `json:"generated_at" msgpack:"generated_at"`
	Scatter       charts.Scatter          `json:"scatter" msgpack:"scatter"`
	FailedTickers []string                `json:"failed_tickers" msgpack:"failed_tickers"`
	Filtered      []domain.MergedRecord   `json:"filtered" msgpack:"filtered"`
	Shortlist     []domain.ShortlistEntry `json:"shortlist" msgpack:"shortlist"`
	Criteria      domain.FilterCriteria   `json:"criteria" msgpack:"criteria"`
	RunID         uuid.UUID               `json:"run_id" msgpack:"run_id"`
	UniverseSize  int                     `json:"universe_size" msgpack:"universe_size"`
	MergedCount   int                     `json:"merged_count" msgpack:"merged_count"`
	FromCache     bool                    `json:"from_cache" msgpack:"from_cache"`
}

// Pipeline runs fetch, merge, filter and rank for one interaction.
type Pipeline struct {
	table         *esg.Table
	fetcher       *fundamentals.Fetcher
	shortlistSize int
	now           func() time.Time
	log           zerolog.Logger
}

// NewPipeline creates a pipeline over table. Non-positive shortlistSize falls back to the default.
func NewPipeline(table *esg.Table, fetcher *fundamentals.Fetcher, shortlistSize int, log zerolog.Logger) *Pipeline {
	if shortlistSize <= 0 {
		shortlistSize = DefaultShortlistSize
	}
	return &Pipeline{
		table:         table,
		fetcher:       fetcher,
		shortlistSize: shortlistSize,
		now:           time.Now,
		log:           log.With().Str("component", "screening_pipeline").Logger(),
	}
}

// Run screens the universe against criteria.
func (p *Pipeline) Run(criteria domain.FilterCriteria) *View {
	records := p.table.LookupAll()
	fetched := p.fetcher.FetchWithStats(p.table.Tickers())

	merged := Merge(records, fetched.Records)
	filtered := Filter(merged, criteria)
	shortlist := Shortlist(filtered, p.shortlistSize)

	view := &View{
		RunID:         uuid.New(),
		GeneratedAt:   p.now().UTC(),
		Criteria:      criteria,
		UniverseSize:  len(records),
		MergedCount:   len(merged),
		FailedTickers: fetched.FailedTickers,
		FromCache:     fetched.FromCache,
		Filtered:      filtered,
		Scatter:       charts.BuildScatter(filtered),
		Shortlist:     shortlist,
	}
	if view.FailedTickers == nil {
		view.FailedTickers = []string{}
	}

	p.log.Debug().
		Str("run_id", view.RunID.String()).
		Int("min_esg_score", criteria.MinESGScore).
		Float64("max_pe_ratio", criteria.MaxPERatio).
		Int("merged", view.MergedCount).
		Int("filtered", len(filtered)).
		Int("failed", len(view.FailedTickers)).
		Bool("from_cache", view.FromCache).
		Msg("Screening run complete")

	return view
}

// Refresh drops memoized fetches so the next Run hits the provider again.
func (p *Pipeline) Refresh() {
	p.fetcher.Invalidate()
}

// Table returns the ESG reference table.
func (p *Pipeline) Table() *esg.Table {
	return p.table
}

// ShortlistSize returns the configured top-N size.
func (p *Pipeline) ShortlistSize() int {
	return p.shortlistSize
}

// CacheStats returns memo cache counters, or zero values when memoization is off.
func (p *Pipeline) CacheStats() fundamentals.CacheStats {
	if c := p.fetcher.Cache(); c != nil {
		return c.Stats()
	}
	return fundamentals.CacheStats{}
}
