package adapters

import (
	"time"

	"wtime/internal/domain/interfaces"
	"wtime/pkg/wtime"

	"github.com/sirupsen/logrus"
)

// TimestampClock은 타임스탬프 리더를 기반으로 하는 Clock 구현체입니다
type TimestampClock struct {
	reader interfaces.TimestampReader
	logger *logrus.Logger
}

// NewTimestampClock은 새로운 TimestampClock을 생성합니다
// reader가 nil이면 호스트 시계를 사용합니다
func NewTimestampClock(reader interfaces.TimestampReader, logger *logrus.Logger) interfaces.Clock {
	if reader == nil {
		reader = wtime.NewReader(nil)
	}
	return &TimestampClock{reader: reader, logger: logger}
}

// Now는 현재 시간을 UTC로 반환합니다
// 시계 조회에 실패하면 time 패키지의 값으로 대체합니다
func (c *TimestampClock) Now() time.Time {
	ts, err := c.reader.Now()
	if err != nil {
		c.logger.WithError(err).Warn("Timestamp read failed, falling back to runtime clock")
		return time.Now().UTC()
	}
	sec, frac := wtime.Split(ts)
	return time.Unix(sec, int64(frac*1e9)).UTC()
}
