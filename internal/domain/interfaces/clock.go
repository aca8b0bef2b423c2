package interfaces

import (
	"context"
	"time"

	"wtime/internal/domain/entities"
)

// Clock은 시간 관련 작업을 추상화하는 인터페이스입니다
type Clock interface {
	// Now는 현재 시간을 반환합니다
	Now() time.Time
}

// TimestampReader는 epoch 이후 초 단위 벽시계 값을 읽는 인터페이스입니다
type TimestampReader interface {
	// Now는 현재 타임스탬프를 반환합니다
	Now() (float64, error)
}

// SampleRepository는 시계 샘플 저장소 인터페이스입니다
type SampleRepository interface {
	// Save는 샘플을 저장합니다
	Save(ctx context.Context, sample *entities.Sample) error

	// Recent는 특정 호스트의 최근 샘플을 최신순으로 조회합니다
	Recent(ctx context.Context, host string, limit int) ([]entities.Sample, error)
}
