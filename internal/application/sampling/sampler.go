package sampling

import (
	"context"
	"sync"
	"time"

	"wtime/internal/domain/entities"
	"wtime/internal/domain/errors"
	"wtime/internal/domain/interfaces"
	"wtime/internal/infrastructure/metrics"

	"github.com/sirupsen/logrus"
)

// HealthRecorder는 샘플링 결과를 헬스 상태에 반영하는 인터페이스입니다
type HealthRecorder interface {
	RecordSample(seconds float64, stepped bool)
	RecordReadFailure(err error)
	UpdateDBHealth(healthy bool, err error)
}

// SampleOutput은 한 번의 샘플링 결과입니다
type SampleOutput struct {
	Sample    entities.Sample
	Persisted bool
}

// SampleClockUseCase는 벽시계를 주기적으로 읽어 역행을 감지하는 유스케이스입니다
type SampleClockUseCase struct {
	reader        interfaces.TimestampReader
	repository    interfaces.SampleRepository // nil이면 저장하지 않음
	health        HealthRecorder
	host          string
	stepThreshold time.Duration
	logger        *logrus.Logger

	mu   sync.Mutex
	prev *entities.Sample
}

// NewSampleClockUseCase는 새로운 SampleClockUseCase를 생성합니다
func NewSampleClockUseCase(
	reader interfaces.TimestampReader,
	repository interfaces.SampleRepository,
	health HealthRecorder,
	host string,
	stepThreshold time.Duration,
	logger *logrus.Logger,
) *SampleClockUseCase {
	return &SampleClockUseCase{
		reader:        reader,
		repository:    repository,
		health:        health,
		host:          host,
		stepThreshold: stepThreshold,
		logger:        logger,
	}
}

// Execute는 시계를 한 번 읽고 샘플을 기록합니다
// 시계 조회 실패는 CLOCK 에러로 반환하며, 저장 실패는 로그만 남깁니다
func (uc *SampleClockUseCase) Execute(ctx context.Context) (*SampleOutput, error) {
	start := time.Now()
	seconds, err := uc.reader.Now()
	metrics.RecordClockRead(err == nil, time.Since(start).Seconds())
	if err != nil {
		clockErr := errors.NewClockError("벽시계 조회 실패", err)
		metrics.RecordError("clock")
		if uc.health != nil {
			uc.health.RecordReadFailure(clockErr)
		}
		return nil, clockErr
	}

	uc.mu.Lock()
	sample := entities.NewSample(uc.host, seconds, uc.prev, uc.stepThreshold)
	uc.prev = &sample
	uc.mu.Unlock()

	metrics.RecordSample(sample.Seconds, sample.Delta, sample.Stepped)
	if uc.health != nil {
		uc.health.RecordSample(sample.Seconds, sample.Stepped)
	}

	if sample.Stepped {
		uc.logger.WithFields(logrus.Fields{
			"host":      sample.Host,
			"timestamp": sample.Seconds,
			"delta":     sample.Delta,
			"threshold": uc.stepThreshold,
		}).Warn("Wall clock stepped backward")
	} else {
		uc.logger.WithFields(logrus.Fields{
			"timestamp": sample.Seconds,
			"delta":     sample.Delta,
		}).Debug("Clock sampled")
	}

	output := &SampleOutput{Sample: sample}
	if uc.repository == nil {
		return output, nil
	}

	if err := uc.repository.Save(ctx, &output.Sample); err != nil {
		uc.logger.WithError(err).Error("Failed to persist clock sample")
		metrics.RecordPersist(false)
		metrics.SetDBConnectionStatus(false)
		if uc.health != nil {
			uc.health.UpdateDBHealth(false, err)
		}
		return output, nil
	}

	output.Persisted = true
	metrics.RecordPersist(true)
	metrics.SetDBConnectionStatus(true)
	if uc.health != nil {
		uc.health.UpdateDBHealth(true, nil)
	}
	return output, nil
}

// Run은 PollingController에 전달할 작업 함수입니다
func (uc *SampleClockUseCase) Run(ctx context.Context) error {
	_, err := uc.Execute(ctx)
	return err
}
