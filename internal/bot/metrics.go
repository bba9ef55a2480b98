package bot

import (
	"sync"
	"time"
)

// CycleMetrics tracks fetch→send outcomes for one entry point (scheduled or
// on-demand).
type CycleMetrics struct {
	mu               sync.Mutex
	totalCycles      int64
	totalErrors      int64
	lastCycleAt      *time.Time
	lastCycleSuccess bool
	lastDuration     time.Duration
	lastError        *string
}

// record updates the metrics for one finished cycle.
func (m *CycleMetrics) record(start time.Time, err error) {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalCycles++
	m.lastCycleAt = &now
	m.lastDuration = now.Sub(start)
	if err != nil {
		m.totalErrors++
		m.lastCycleSuccess = false
		errStr := err.Error()
		m.lastError = &errStr
	} else {
		m.lastCycleSuccess = true
		m.lastError = nil
	}
}

// Snapshot returns a thread-safe copy of the metrics.
func (m *CycleMetrics) Snapshot() CycleSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return CycleSnapshot{
		TotalCycles:      m.totalCycles,
		TotalErrors:      m.totalErrors,
		LastCycleAt:      m.lastCycleAt,
		LastCycleSuccess: m.lastCycleSuccess,
		LastDurationMs:   m.lastDuration.Milliseconds(),
		LastError:        m.lastError,
	}
}

// CycleSnapshot is a thread-safe copy of CycleMetrics data.
type CycleSnapshot struct {
	TotalCycles      int64      `json:"total_cycles"`
	TotalErrors      int64      `json:"total_errors"`
	LastCycleAt      *time.Time `json:"last_cycle_at"`
	LastCycleSuccess bool       `json:"last_cycle_success"`
	LastDurationMs   int64      `json:"last_duration_ms"`
	LastError        *string    `json:"last_error"`
}
