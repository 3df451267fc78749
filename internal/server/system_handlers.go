package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/heisenbergtrx/portfolio-dashboard/internal/database"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/refresh"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/utils"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// RefreshStatusProvider reports the refresh lifecycle state
type RefreshStatusProvider interface {
	Status() refresh.Status
}

// SystemStatusResponse is the body of GET /api/system/status
type SystemStatusResponse struct {
	Status        string          `json:"status"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	CPUPercent    float64         `json:"cpu_percent"`
	MemoryPercent float64         `json:"memory_percent"`
	Goroutines    int             `json:"goroutines"`
	Database      *database.Stats `json:"database,omitempty"`
	DatabaseError string          `json:"database_error,omitempty"`
	Refresh       refresh.Status  `json:"refresh"`
}

// SystemHandlers handles system status requests
type SystemHandlers struct {
	db        *database.DB
	refresh   RefreshStatusProvider
	startedAt time.Time
	log       zerolog.Logger
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(db *database.DB, refreshStatus RefreshStatusProvider, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		db:        db,
		refresh:   refreshStatus,
		startedAt: time.Now(),
		log:       log.With().Str("handler", "system").Logger(),
	}
}

// HandleSystemStatus handles GET /api/system/status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	cpuPercent, memPercent := h.getSystemStats()
	response := SystemStatusResponse{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		Goroutines:    runtime.NumGoroutine(),
		Refresh:       h.refresh.Status(),
	}

	if h.db != nil {
		stats, err := h.db.GetStats(r.Context())
		if err != nil {
			h.log.Warn().Err(err).Msg("Failed to get database stats")
			response.Status = "degraded"
			response.DatabaseError = err.Error()
		} else {
			response.Database = stats
		}
	}

	if response.Refresh.State == refresh.StateFailed {
		response.Status = "degraded"
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope(response), h.log)
}

// getSystemStats calculates CPU and RAM usage percentages.
// CPU is sampled over 100ms so the endpoint stays responsive.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
