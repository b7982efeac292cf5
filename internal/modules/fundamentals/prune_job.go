package fundamentals

import "github.com/rs/zerolog"

// PruneJob drops expired memo cache entries.
type PruneJob struct {
	cache *Cache
	log   zerolog.Logger
}

// NewPruneJob creates a prune job for cache.
func NewPruneJob(cache *Cache, log zerolog.Logger) *PruneJob {
	return &PruneJob{
		cache: cache,
		log:   log.With().Str("job", "memo_cache_prune").Logger(),
	}
}

// Run prunes the cache.
func (j *PruneJob) Run() error {
	if removed := j.cache.Prune(); removed > 0 {
		j.log.Info().Int("removed", removed).Msg("Pruned expired memo entries")
	}
	return nil
}

// Name returns the job name for scheduling and logging.
func (j *PruneJob) Name() string {
	return "memo_cache_prune"
}
