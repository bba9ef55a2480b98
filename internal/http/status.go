package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fuelwatch/gaspricebot/internal/bot"
	"github.com/fuelwatch/gaspricebot/internal/scheduler"
)

// SchedulerInfo is the scheduler state the status endpoint reports.
type SchedulerInfo interface {
	IsRunning() bool
	Period() time.Duration
	NextRunAt() time.Time
	LastRunAt() *time.Time
	LastResult() scheduler.Result
}

// GatewayInfo is the transport state the status endpoint reports.
type GatewayInfo interface {
	Connected() bool
	Username() string
}

// BotInfo exposes the pipeline cycle metrics.
type BotInfo interface {
	ScheduledMetrics() bot.CycleSnapshot
	OnDemandMetrics() bot.CycleSnapshot
}

// StatusResponse is the response for the /status endpoint.
type StatusResponse struct {
	Status        string          `json:"status"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	Scheduler     SchedulerStatus `json:"scheduler"`
	Gateway       GatewayStatus   `json:"gateway"`
	Cycles        CyclesStatus    `json:"cycles"`
}

// SchedulerStatus holds the scheduler state.
type SchedulerStatus struct {
	Running       bool       `json:"running"`
	PeriodSeconds int64      `json:"period_seconds"`
	NextRunAt     *time.Time `json:"next_run_at,omitempty"`
	LastRunAt     *time.Time `json:"last_run_at,omitempty"`
	LastResult    string     `json:"last_result"`
}

// GatewayStatus holds the transport connection state.
type GatewayStatus struct {
	Connected bool   `json:"connected"`
	Username  string `json:"username,omitempty"`
}

// CyclesStatus holds the per-entry-point cycle metrics.
type CyclesStatus struct {
	Scheduled bot.CycleSnapshot `json:"scheduled"`
	OnDemand  bot.CycleSnapshot `json:"on_demand"`
}

// StatusHandler handles the /status endpoint.
type StatusHandler struct {
	bot       BotInfo
	scheduler SchedulerInfo
	gateway   GatewayInfo
	startTime time.Time
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(b BotInfo, sched SchedulerInfo, gw GatewayInfo) *StatusHandler {
	return &StatusHandler{
		bot:       b,
		scheduler: sched,
		gateway:   gw,
		startTime: time.Now(),
	}
}

// ServeHTTP implements the http.Handler interface.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := StatusResponse{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}

	if h.scheduler != nil {
		response.Scheduler = SchedulerStatus{
			Running:       h.scheduler.IsRunning(),
			PeriodSeconds: int64(h.scheduler.Period().Seconds()),
			LastRunAt:     h.scheduler.LastRunAt(),
			LastResult:    string(h.scheduler.LastResult()),
		}
		nextRun := h.scheduler.NextRunAt()
		if !nextRun.IsZero() {
			response.Scheduler.NextRunAt = &nextRun
		}
	}

	if h.gateway != nil {
		response.Gateway = GatewayStatus{
			Connected: h.gateway.Connected(),
			Username:  h.gateway.Username(),
		}
	}

	if h.bot != nil {
		response.Cycles = CyclesStatus{
			Scheduled: h.bot.ScheduledMetrics(),
			OnDemand:  h.bot.OnDemandMetrics(),
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
}
