package clientdata

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// TableCleanup is the outcome of one cleanup pass over a fundamentals table.
type TableCleanup struct {
	Deleted   int64 `json:"deleted"`
	Remaining int64 `json:"remaining"`
}

// CleanupJob removes expired provider responses from the fundamentals tables.
type CleanupJob struct {
	repo   *Repository
	tables []string
	log    zerolog.Logger

	mu   sync.Mutex
	last map[string]TableCleanup
}

// NewCleanupJob creates a cleanup job over the given tables, or every
// fundamentals table when none are named.
func NewCleanupJob(repo *Repository, log zerolog.Logger, tables ...string) *CleanupJob {
	if len(tables) == 0 {
		tables = AllTables
	}
	return &CleanupJob{
		repo:   repo,
		tables: tables,
		log:    log.With().Str("job", "client_data_cleanup").Logger(),
	}
}

// Run sweeps each table. A failing table does not stop the others.
func (j *CleanupJob) Run() error {
	report := make(map[string]TableCleanup, len(j.tables))
	var errs []error

	for _, table := range j.tables {
		deleted, err := j.repo.DeleteExpired(table)
		if err != nil {
			j.log.Error().Err(err).Str("table", table).Msg("Failed to delete expired financial data")
			errs = append(errs, err)
			continue
		}

		stats, err := j.repo.Stats(table)
		if err != nil {
			j.log.Warn().Err(err).Str("table", table).Msg("Failed to count remaining financial data")
			errs = append(errs, err)
			continue
		}

		report[table] = TableCleanup{Deleted: deleted, Remaining: stats.Total}
		j.log.Debug().
			Str("table", table).
			Int64("deleted", deleted).
			Int64("remaining", stats.Total).
			Int64("fresh", stats.Fresh).
			Msg("Swept fundamentals table")
	}

	j.mu.Lock()
	j.last = report
	j.mu.Unlock()

	var totalDeleted int64
	for _, r := range report {
		totalDeleted += r.Deleted
	}
	j.log.Info().
		Int("tables", len(report)).
		Int64("total_deleted", totalDeleted).
		Msg("Client data cleanup completed")

	if len(errs) > 0 {
		return fmt.Errorf("client data cleanup: %w", errors.Join(errs...))
	}
	return nil
}

// LastReport returns the per-table counts of the most recent run.
func (j *CleanupJob) LastReport() map[string]TableCleanup {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make(map[string]TableCleanup, len(j.last))
	for table, r := range j.last {
		out[table] = r
	}
	return out
}

// Name returns the job name for scheduling and logging.
func (j *CleanupJob) Name() string {
	return "client_data_cleanup"
}
