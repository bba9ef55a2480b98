package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fuelwatch/gaspricebot/internal/bot"
	"github.com/fuelwatch/gaspricebot/internal/scheduler"
)

type fakeSchedulerInfo struct {
	running   bool
	period    time.Duration
	nextRunAt time.Time
	lastRunAt *time.Time
	result    scheduler.Result
}

func (f *fakeSchedulerInfo) IsRunning() bool              { return f.running }
func (f *fakeSchedulerInfo) Period() time.Duration        { return f.period }
func (f *fakeSchedulerInfo) NextRunAt() time.Time         { return f.nextRunAt }
func (f *fakeSchedulerInfo) LastRunAt() *time.Time        { return f.lastRunAt }
func (f *fakeSchedulerInfo) LastResult() scheduler.Result { return f.result }

type fakeGatewayInfo struct {
	connected bool
	username  string
}

func (f *fakeGatewayInfo) Connected() bool  { return f.connected }
func (f *fakeGatewayInfo) Username() string { return f.username }

type fakeBotInfo struct {
	scheduled bot.CycleSnapshot
	onDemand  bot.CycleSnapshot
}

func (f *fakeBotInfo) ScheduledMetrics() bot.CycleSnapshot { return f.scheduled }
func (f *fakeBotInfo) OnDemandMetrics() bot.CycleSnapshot  { return f.onDemand }

func TestStatusHandler(t *testing.T) {
	t.Parallel()

	lastRun := time.Date(2026, 8, 31, 6, 0, 0, 0, time.UTC)
	h := NewStatusHandler(
		&fakeBotInfo{
			scheduled: bot.CycleSnapshot{TotalCycles: 4, TotalErrors: 1},
			onDemand:  bot.CycleSnapshot{TotalCycles: 2},
		},
		&fakeSchedulerInfo{
			running:   true,
			period:    6 * time.Hour,
			nextRunAt: lastRun.Add(6 * time.Hour),
			lastRunAt: &lastRun,
			result:    scheduler.ResultOK,
		},
		&fakeGatewayInfo{connected: true, username: "gaspricebot"},
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}

	var resp StatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if resp.Status != "healthy" {
		t.Errorf("status = %q", resp.Status)
	}
	if !resp.Scheduler.Running {
		t.Error("scheduler not reported running")
	}
	if resp.Scheduler.PeriodSeconds != int64((6 * time.Hour).Seconds()) {
		t.Errorf("period_seconds = %d", resp.Scheduler.PeriodSeconds)
	}
	if resp.Scheduler.NextRunAt == nil {
		t.Error("next_run_at omitted despite an armed timer")
	}
	if resp.Scheduler.LastResult != string(scheduler.ResultOK) {
		t.Errorf("last_result = %q", resp.Scheduler.LastResult)
	}
	if !resp.Gateway.Connected || resp.Gateway.Username != "gaspricebot" {
		t.Errorf("gateway = %+v", resp.Gateway)
	}
	if resp.Cycles.Scheduled.TotalCycles != 4 || resp.Cycles.Scheduled.TotalErrors != 1 {
		t.Errorf("scheduled cycles = %+v", resp.Cycles.Scheduled)
	}
	if resp.Cycles.OnDemand.TotalCycles != 2 {
		t.Errorf("on-demand cycles = %+v", resp.Cycles.OnDemand)
	}
}

func TestStatusHandlerOmitsIdleTimer(t *testing.T) {
	t.Parallel()

	h := NewStatusHandler(
		&fakeBotInfo{},
		&fakeSchedulerInfo{result: scheduler.ResultUnset},
		&fakeGatewayInfo{},
	)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	var resp StatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Scheduler.NextRunAt != nil {
		t.Errorf("next_run_at = %v for an idle scheduler, want omitted", resp.Scheduler.NextRunAt)
	}
	if resp.Scheduler.Running {
		t.Error("idle scheduler reported running")
	}
}

func TestStatusHandlerNilDependencies(t *testing.T) {
	t.Parallel()

	h := NewStatusHandler(nil, nil, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status code = %d, want 200", rec.Code)
	}
	var resp StatusResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status = %q", resp.Status)
	}
}
