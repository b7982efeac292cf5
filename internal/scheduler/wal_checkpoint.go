package scheduler

import (
	"github.com/aristath/esgscreen/internal/database"
	"github.com/rs/zerolog"
)

// walFrameWarnThreshold is the WAL size, in frames, above which a warning is logged.
const walFrameWarnThreshold = 1000

// WALCheckpointJob checkpoints the WAL of each registered database
type WALCheckpointJob struct {
	log       zerolog.Logger
	databases []*database.DB
	mode      string
}

// NewWALCheckpointJob creates a checkpoint job. Nil databases are skipped.
func NewWALCheckpointJob(log zerolog.Logger, mode string, databases ...*database.DB) *WALCheckpointJob {
	return &WALCheckpointJob{
		log:       log.With().Str("job", "wal_checkpoint").Logger(),
		databases: databases,
		mode:      mode,
	}
}

// Name returns the job name
func (j *WALCheckpointJob) Name() string {
	return "wal_checkpoint"
}

// Run executes the checkpoint. Failures on one database do not stop the others.
func (j *WALCheckpointJob) Run() error {
	checkedCount := 0
	for _, db := range j.databases {
		if db == nil {
			continue
		}

		// PRAGMA wal_checkpoint returns: busy, log, checkpointed
		var busy, frames, checkpointed int
		err := db.Conn().QueryRow("PRAGMA wal_checkpoint(PASSIVE)").Scan(&busy, &frames, &checkpointed)
		if err != nil {
			j.log.Warn().
				Err(err).
				Str("database", db.Name()).
				Msg("Failed to check WAL checkpoint")
			continue
		}

		if frames > walFrameWarnThreshold {
			j.log.Warn().
				Str("database", db.Name()).
				Int("wal_frames", frames).
				Int("checkpointed", checkpointed).
				Msg("WAL file is large, forcing checkpoint")
		}

		if err := db.WALCheckpoint(j.mode); err != nil {
			j.log.Warn().
				Err(err).
				Str("database", db.Name()).
				Msg("WAL checkpoint failed")
			continue
		}

		checkedCount++
	}

	j.log.Debug().
		Int("checkpointed", checkedCount).
		Msg("WAL checkpoint completed")

	return nil
}
