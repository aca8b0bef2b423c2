package health

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"wtime/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// HealthService provides health check functionality
type HealthService struct {
	mu            sync.RWMutex
	clock         interfaces.Clock
	logger        *logrus.Logger
	startTime     time.Time
	clockHealthy  bool
	clockError    error
	lastTimestamp float64
	dbEnabled     bool
	dbHealthy     bool
	dbError       error
	samples       int64
	failedReads   int64
	backwardSteps int64
}

// HealthStatus represents health check status
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResponse is the health check response struct
type HealthResponse struct {
	Status     HealthStatus           `json:"status"`
	Timestamp  string                 `json:"timestamp"`
	Components map[string]interface{} `json:"components"`
	Statistics map[string]interface{} `json:"statistics"`
}

// NewHealthService creates a new HealthService. The clock reports unhealthy
// until the first successful sample is recorded.
func NewHealthService(clock interfaces.Clock, dbEnabled bool, logger *logrus.Logger) *HealthService {
	return &HealthService{
		clock:     clock,
		logger:    logger,
		startTime: clock.Now(),
		dbEnabled: dbEnabled,
	}
}

// RecordSample marks the clock healthy and counts one sample
func (h *HealthService) RecordSample(seconds float64, stepped bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clockHealthy = true
	h.clockError = nil
	h.lastTimestamp = seconds
	h.samples++
	if stepped {
		h.backwardSteps++
	}
}

// RecordReadFailure marks the clock unhealthy
func (h *HealthService) RecordReadFailure(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clockHealthy = false
	h.clockError = err
	h.failedReads++
}

// UpdateDBHealth updates the database health status
func (h *HealthService) UpdateDBHealth(healthy bool, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.dbHealthy = healthy
	h.dbError = err
}

// ServeHTTP handles the HTTP health check endpoint
func (h *HealthService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := h.buildHealthResponse()

	// Set HTTP status code based on health status
	statusCode := http.StatusOK
	if response.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.WithError(err).Error("failed to encode health check response")
	}
}

// Status returns the current overall status
func (h *HealthService) Status() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.determineOverallStatus()
}

// buildHealthResponse constructs the health check response
func (h *HealthService) buildHealthResponse() HealthResponse {
	h.mu.RLock()
	defer h.mu.RUnlock()

	now := h.clock.Now()

	components := map[string]interface{}{
		"clock": map[string]interface{}{
			"healthy":        h.clockHealthy,
			"error":          formatError(h.clockError),
			"last_timestamp": h.lastTimestamp,
		},
	}
	if h.dbEnabled {
		components["database"] = map[string]interface{}{
			"healthy": h.dbHealthy,
			"error":   formatError(h.dbError),
		}
	}

	statistics := map[string]interface{}{
		"samples":        h.samples,
		"failed_reads":   h.failedReads,
		"backward_steps": h.backwardSteps,
		"uptime":         formatUptime(now.Sub(h.startTime)),
	}

	return HealthResponse{
		Status:     h.determineOverallStatus(),
		Timestamp:  now.Format(time.RFC3339),
		Components: components,
		Statistics: statistics,
	}
}

// determineOverallStatus determines the overall health status
func (h *HealthService) determineOverallStatus() HealthStatus {
	// An unreadable clock makes the agent useless
	if !h.clockHealthy {
		return StatusUnhealthy
	}

	// Samples are still produced without the database
	if h.dbEnabled && !h.dbHealthy {
		return StatusDegraded
	}

	return StatusHealthy
}

func formatError(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// formatUptime formats uptime duration to human-readable format
func formatUptime(duration time.Duration) string {
	days := int(duration.Hours()) / 24
	hours := int(duration.Hours()) % 24
	minutes := int(duration.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd%dh%dm", days, hours, minutes)
	} else if hours > 0 {
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
