package polling

import (
	"context"
	"math"
	"time"

	"wtime/internal/infrastructure/metrics"

	"github.com/sirupsen/logrus"
)

// Strategy는 폴링 전략 인터페이스입니다
type Strategy interface {
	// NextInterval은 다음 폴링까지의 대기 시간을 반환합니다
	NextInterval(success bool) time.Duration
	// Reset은 폴링 전략을 초기 상태로 리셋합니다
	Reset()
}

// FixedIntervalStrategy는 고정 간격 폴링 전략입니다
type FixedIntervalStrategy struct {
	interval time.Duration
}

// NewFixedIntervalStrategy는 새로운 고정 간격 전략을 생성합니다
func NewFixedIntervalStrategy(interval time.Duration) *FixedIntervalStrategy {
	return &FixedIntervalStrategy{interval: interval}
}

func (s *FixedIntervalStrategy) NextInterval(success bool) time.Duration {
	return s.interval
}

func (s *FixedIntervalStrategy) Reset() {}

// ExponentialBackoffStrategy는 시계 조회 실패 시 지수 백오프를 적용하는 폴링 전략입니다
type ExponentialBackoffStrategy struct {
	baseInterval   time.Duration
	maxInterval    time.Duration
	multiplier     float64
	currentBackoff int
	logger         *logrus.Logger
}

// NewExponentialBackoffStrategy는 새로운 지수 백오프 전략을 생성합니다
func NewExponentialBackoffStrategy(
	baseInterval time.Duration,
	maxInterval time.Duration,
	multiplier float64,
	logger *logrus.Logger,
) *ExponentialBackoffStrategy {
	if multiplier <= 1 {
		multiplier = 2.0
	}

	return &ExponentialBackoffStrategy{
		baseInterval: baseInterval,
		maxInterval:  maxInterval,
		multiplier:   multiplier,
		logger:       logger,
	}
}

// NextInterval은 다음 폴링까지의 대기 시간을 계산합니다
func (s *ExponentialBackoffStrategy) NextInterval(success bool) time.Duration {
	if success {
		if s.currentBackoff > 0 {
			s.logger.Debug("Resetting backoff after successful read")
			s.Reset()
		}
		return s.baseInterval
	}

	s.currentBackoff++
	metrics.SetBackoffLevel(float64(s.currentBackoff))

	// 첫 실패는 기본 간격, 이후 multiplier 배씩 증가
	backoff := float64(s.baseInterval) * math.Pow(s.multiplier, float64(s.currentBackoff-1))
	next := s.maxInterval
	if backoff < float64(s.maxInterval) {
		next = time.Duration(backoff)
	}

	s.logger.WithFields(logrus.Fields{
		"backoff_count": s.currentBackoff,
		"next_interval": next,
		"max_interval":  s.maxInterval,
	}).Debug("Exponential backoff calculated")

	return next
}

// Reset은 백오프 카운터를 리셋합니다
func (s *ExponentialBackoffStrategy) Reset() {
	s.currentBackoff = 0
	metrics.SetBackoffLevel(0)
}

// PollingController는 폴링을 관리하는 컨트롤러입니다
type PollingController struct {
	strategy Strategy
	logger   *logrus.Logger
}

// NewPollingController는 새로운 폴링 컨트롤러를 생성합니다
func NewPollingController(strategy Strategy, logger *logrus.Logger) *PollingController {
	return &PollingController{
		strategy: strategy,
		logger:   logger,
	}
}

// Start는 작업을 즉시 한 번 실행한 뒤 전략에 따라 반복 실행합니다
// 컨텍스트가 취소되면 ctx.Err()를 반환합니다
func (c *PollingController) Start(ctx context.Context, task func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timer := time.NewTimer(c.run(ctx, task))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-timer.C:
			timer.Reset(c.run(ctx, task))
		}
	}
}

// run은 작업을 실행하고 다음 대기 시간을 반환합니다
func (c *PollingController) run(ctx context.Context, task func(context.Context) error) time.Duration {
	err := task(ctx)
	if err != nil {
		c.logger.WithError(err).Error("Polling task failed")
	}
	return c.strategy.NextInterval(err == nil)
}
