package entities

import (
	"errors"
	"math"
	"time"

	"wtime/pkg/wtime"
)

// Sample은 한 번의 벽시계 측정 결과를 나타내는 도메인 엔티티입니다
type Sample struct {
	ID      int64
	Host    string
	Seconds float64 // epoch 이후 초 (마이크로초 정밀도)
	Delta   float64 // 직전 샘플과의 차이 (초), 첫 샘플은 0
	Stepped bool    // 시계가 임계값 이상 뒤로 이동했는지 여부
}

var (
	ErrInvalidHost      = errors.New("유효하지 않은 호스트 이름")
	ErrInvalidTimestamp = errors.New("유효하지 않은 타임스탬프")
)

// NewSample은 직전 샘플을 기준으로 새로운 샘플을 생성합니다
// prev가 nil이면 첫 샘플로 간주합니다
func NewSample(host string, seconds float64, prev *Sample, stepThreshold time.Duration) Sample {
	s := Sample{
		Host:    host,
		Seconds: seconds,
	}
	if prev != nil {
		s.Delta = seconds - prev.Seconds
		s.Stepped = s.Delta < 0 && -s.Delta >= stepThreshold.Seconds()
	}
	return s
}

// Validate는 Sample의 유효성을 검증합니다
func (s *Sample) Validate() error {
	if s.Host == "" {
		return ErrInvalidHost
	}
	if s.Seconds <= 0 || math.IsNaN(s.Seconds) || math.IsInf(s.Seconds, 0) {
		return ErrInvalidTimestamp
	}
	return nil
}

// Whole은 타임스탬프의 정수 초 부분을 반환합니다
func (s *Sample) Whole() int64 {
	sec, _ := wtime.Split(s.Seconds)
	return sec
}

// Fraction은 타임스탬프의 소수 부분을 [0, 1) 범위로 반환합니다
func (s *Sample) Fraction() float64 {
	_, frac := wtime.Split(s.Seconds)
	return frac
}

// Time은 타임스탬프를 UTC time.Time으로 변환합니다
func (s *Sample) Time() time.Time {
	sec, frac := wtime.Split(s.Seconds)
	return time.Unix(sec, int64(math.Round(frac*1e6))*int64(time.Microsecond)).UTC()
}
