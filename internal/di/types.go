// Package di wires the application's dependencies.
//
// The Container is the single source of truth for service instances and is
// handed to the HTTP server and the scheduler.
package di

import (
	"github.com/aristath/esgscreen/internal/clientdata"
	"github.com/aristath/esgscreen/internal/database"
	"github.com/aristath/esgscreen/internal/modules/esg"
	"github.com/aristath/esgscreen/internal/modules/fundamentals"
	"github.com/aristath/esgscreen/internal/modules/screening"
	screeninghandlers "github.com/aristath/esgscreen/internal/modules/screening/handlers"
	"github.com/aristath/esgscreen/internal/scheduler"
)

// Container holds all dependencies for the application.
type Container struct {
	// Databases
	ClientDataDB *database.DB

	// Repositories
	ClientDataRepo *clientdata.Repository

	// Market data
	Upstream        fundamentals.Provider         // Raw provider (yahoo or financego)
	Provider        fundamentals.Provider         // Provider used by the fetcher, possibly cached
	CachingProvider *fundamentals.CachingProvider // Nil when CLIENT_DATA_CACHE is off

	// Screening
	ESGTable  *esg.Table
	MemoCache *fundamentals.Cache
	Fetcher   *fundamentals.Fetcher
	Pipeline  *screening.Pipeline

	// HTTP
	ScreeningHandlers *screeninghandlers.Handlers
}

// JobInstances holds the registered background jobs for manual triggering.
type JobInstances struct {
	ClientDataCleanup scheduler.Job
	MemoPrune         scheduler.Job
	WALCheckpoint     scheduler.Job
}

// Close releases the container's databases.
func (c *Container) Close() error {
	if c == nil || c.ClientDataDB == nil {
		return nil
	}
	return c.ClientDataDB.Close()
}
