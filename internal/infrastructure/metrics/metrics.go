package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 시계 조회 관련 메트릭
	ClockReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wtime_clock_reads_total",
			Help: "Total number of wall-clock reads",
		},
		[]string{"status"}, // success, failed
	)

	ClockReadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wtime_clock_read_duration_seconds",
			Help:    "Time spent in each time-of-day query",
			Buckets: []float64{1e-7, 5e-7, 1e-6, 5e-6, 1e-5, 5e-5, 1e-4, 1e-3},
		},
	)

	LastTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wtime_last_timestamp_seconds",
			Help: "Most recent wall-clock reading in seconds since the epoch",
		},
	)

	SampleDelta = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wtime_sample_delta_seconds",
			Help: "Difference between the two most recent readings",
		},
	)

	// 역행 감지 메트릭
	BackwardSteps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wtime_backward_steps_total",
			Help: "Total number of backward wall-clock steps detected",
		},
	)

	// 샘플링 사이클 관련 메트릭
	SamplingCycleCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wtime_sampling_cycles_total",
			Help: "Total number of sampling cycles executed",
		},
	)

	PollingBackoffLevel = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wtime_polling_backoff_level",
			Help: "Current backoff level (0 = no backoff)",
		},
	)

	// 데이터베이스 관련 메트릭
	DBConnectionStatus = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wtime_db_connection_status",
			Help: "Database connection status (1 = connected, 0 = disconnected)",
		},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wtime_db_query_duration_seconds",
			Help:    "Time spent executing database queries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query_type"}, // save_sample, recent_samples
	)

	SamplesPersisted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wtime_samples_persisted_total",
			Help: "Total number of samples written to the repository",
		},
		[]string{"status"},
	)

	// 에러 메트릭
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wtime_errors_total",
			Help: "Total number of errors encountered",
		},
		[]string{"error_type"}, // clock, validation, system
	)

	// 시스템 정보
	AgentInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wtime_agent_info",
			Help: "Agent information",
		},
		[]string{"version", "os", "node_name"},
	)
)

// RecordClockRead는 시계 조회 결과와 소요 시간을 기록합니다
func RecordClockRead(success bool, duration float64) {
	ClockReadDuration.Observe(duration)
	if success {
		ClockReads.WithLabelValues("success").Inc()
	} else {
		ClockReads.WithLabelValues("failed").Inc()
	}
}

// RecordSample은 샘플 값과 직전 샘플과의 차이를 기록합니다
func RecordSample(seconds, delta float64, stepped bool) {
	SamplingCycleCount.Inc()
	LastTimestamp.Set(seconds)
	SampleDelta.Set(delta)
	if stepped {
		BackwardSteps.Inc()
	}
}

// RecordPersist는 샘플 저장 결과를 기록합니다
func RecordPersist(success bool) {
	if success {
		SamplesPersisted.WithLabelValues("success").Inc()
	} else {
		SamplesPersisted.WithLabelValues("failed").Inc()
	}
}

// RecordDBQuery는 데이터베이스 쿼리 시간을 기록합니다
func RecordDBQuery(queryType string, duration float64) {
	DBQueryDuration.WithLabelValues(queryType).Observe(duration)
}

// RecordError는 에러 발생을 기록합니다
func RecordError(errorType string) {
	ErrorsTotal.WithLabelValues(errorType).Inc()
}

// SetBackoffLevel은 현재 백오프 레벨을 설정합니다
func SetBackoffLevel(level float64) {
	PollingBackoffLevel.Set(level)
}

// SetDBConnectionStatus는 데이터베이스 연결 상태를 설정합니다
func SetDBConnectionStatus(connected bool) {
	if connected {
		DBConnectionStatus.Set(1)
	} else {
		DBConnectionStatus.Set(0)
	}
}

// SetAgentInfo는 에이전트 정보를 설정합니다
func SetAgentInfo(version, goos, nodeName string) {
	AgentInfo.WithLabelValues(version, goos, nodeName).Set(1)
}
