package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/esgscreen/internal/clientdata"
	"github.com/aristath/esgscreen/internal/database"
	"github.com/aristath/esgscreen/internal/di"
	"github.com/aristath/esgscreen/internal/modules/fundamentals"
)

// SystemStatusResponse is returned by GET /api/system/status
type SystemStatusResponse struct {
	Status          string                   `json:"status"`
	UptimeSeconds   float64                  `json:"uptime_seconds"`
	Provider        string                   `json:"provider"`
	UniverseSize    int                      `json:"universe_size"`
	ShortlistSize   int                      `json:"shortlist_size"`
	MemoCache       *fundamentals.CacheStats `json:"memo_cache,omitempty"`
	PersistentCache *clientdata.TableStats   `json:"persistent_cache,omitempty"`
	Database        *database.Stats          `json:"database,omitempty"`
	CPUPercent      float64                  `json:"cpu_percent"`
	RAMPercent      float64                  `json:"ram_percent"`
	Goroutines      int                      `json:"goroutines"`
	LastCheck       string                   `json:"last_check"`
}

// SystemHandlers handles system-wide monitoring requests
type SystemHandlers struct {
	log         zerolog.Logger
	container   *di.Container
	startupTime time.Time
	systemStats func() (float64, float64)
}

// NewSystemHandlers creates a new system handlers instance. container may be nil.
func NewSystemHandlers(log zerolog.Logger, container *di.Container) *SystemHandlers {
	h := &SystemHandlers{
		log:         log.With().Str("service", "system").Logger(),
		container:   container,
		startupTime: time.Now(),
	}
	h.systemStats = h.getSystemStats
	return h
}

// HandleSystemStatus reports uptime, cache state and host resource usage
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	cpuPercent, ramPercent := h.systemStats()

	response := SystemStatusResponse{
		Status:        "healthy",
		UptimeSeconds: time.Since(h.startupTime).Seconds(),
		CPUPercent:    cpuPercent,
		RAMPercent:    ramPercent,
		Goroutines:    runtime.NumGoroutine(),
		LastCheck:     time.Now().Format(time.RFC3339),
	}

	if c := h.container; c != nil {
		if c.Upstream != nil {
			response.Provider = fundamentals.ProviderName(c.Upstream)
		}
		if c.Pipeline != nil {
			stats := c.Pipeline.CacheStats()
			response.MemoCache = &stats
			response.UniverseSize = c.Pipeline.Table().Len()
			response.ShortlistSize = c.Pipeline.ShortlistSize()
		}
		if c.CachingProvider != nil {
			if stats, err := c.CachingProvider.Stats(); err != nil {
				h.log.Warn().Err(err).Msg("Failed to read persistent cache stats")
				response.Status = "degraded"
			} else {
				response.PersistentCache = &stats
			}
		}
		if c.ClientDataDB != nil {
			if stats, err := c.ClientDataDB.GetStats(); err != nil {
				h.log.Warn().Err(err).Msg("Failed to read database stats")
				response.Status = "degraded"
			} else {
				response.Database = stats
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode system status")
	}
}

// getSystemStats calculates CPU and RAM usage percentages
// Samples CPU over 100ms so the endpoint stays responsive
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil || len(cpuPercent) == 0 {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return cpuPercent[0], 0
	}

	return cpuPercent[0], memStat.UsedPercent
}
