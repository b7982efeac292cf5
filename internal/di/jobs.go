package di

import (
	"fmt"

	"github.com/aristath/esgscreen/internal/clientdata"
	"github.com/aristath/esgscreen/internal/config"
	"github.com/aristath/esgscreen/internal/modules/fundamentals"
	"github.com/aristath/esgscreen/internal/scheduler"
	"github.com/rs/zerolog"
)

// Maintenance schedules that are not user-configurable.
const (
	memoPruneSchedule     = "0 */10 * * * *"
	walCheckpointSchedule = "0 0 * * * *"
)

// RegisterJobs registers maintenance jobs with sched.
// Returns JobInstances for manual triggering.
func RegisterJobs(container *Container, cfg *config.Config, sched *scheduler.Scheduler, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	instances := &JobInstances{}

	if container.ClientDataRepo != nil {
		instances.ClientDataCleanup = clientdata.NewCleanupJob(container.ClientDataRepo, log, clientdata.AllTables...)
		if err := sched.AddJob(cfg.CleanupSchedule, instances.ClientDataCleanup); err != nil {
			return nil, err
		}
	}

	// Without a TTL nothing in the memo cache ever expires.
	if container.MemoCache != nil && cfg.MemoTTL > 0 {
		instances.MemoPrune = fundamentals.NewPruneJob(container.MemoCache, log)
		if err := sched.AddJob(memoPruneSchedule, instances.MemoPrune); err != nil {
			return nil, err
		}
	}

	if container.ClientDataDB != nil {
		instances.WALCheckpoint = scheduler.NewWALCheckpointJob(log, "TRUNCATE", container.ClientDataDB)
		if err := sched.AddJob(walCheckpointSchedule, instances.WALCheckpoint); err != nil {
			return nil, err
		}
	}

	log.Info().Int("jobs", sched.Len()).Msg("Jobs registered")

	return instances, nil
}
