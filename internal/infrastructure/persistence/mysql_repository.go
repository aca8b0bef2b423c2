package persistence

import (
	"context"
	"database/sql"
	"time"

	"wtime/internal/domain/entities"
	"wtime/internal/domain/errors"
	"wtime/internal/domain/interfaces"
	"wtime/internal/infrastructure/metrics"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

const createSampleTable = `
	CREATE TABLE IF NOT EXISTS clock_sample (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		host VARCHAR(255) NOT NULL,
		seconds DOUBLE NOT NULL,
		delta DOUBLE NOT NULL,
		stepped TINYINT(1) NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_clock_sample_host (host, id)
	)
`

// MySQLRepository는 MySQL 기반의 SampleRepository 구현체입니다
type MySQLRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewMySQLRepository는 새로운 MySQLRepository를 생성합니다
func NewMySQLRepository(db *sql.DB, logger *logrus.Logger) *MySQLRepository {
	return &MySQLRepository{
		db:     db,
		logger: logger,
	}
}

var _ interfaces.SampleRepository = (*MySQLRepository)(nil)

// EnsureSchema는 샘플 테이블이 없으면 생성합니다
func (r *MySQLRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSampleTable); err != nil {
		return errors.NewSystemError("샘플 테이블 생성 실패", err)
	}
	return nil
}

// Save는 샘플을 저장하고 생성된 ID를 샘플에 기록합니다
func (r *MySQLRepository) Save(ctx context.Context, sample *entities.Sample) error {
	if err := sample.Validate(); err != nil {
		return errors.NewValidationError("유효하지 않은 샘플", err)
	}

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("save_sample", time.Since(start).Seconds())
	}()

	query := `
		INSERT INTO clock_sample (host, seconds, delta, stepped)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, sample.Host, sample.Seconds, sample.Delta, sample.Stepped)
	if err != nil {
		return errors.NewSystemError("샘플 저장 실패", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.WithError(err).Warn("삽입된 샘플 ID 조회 실패")
		return nil
	}
	sample.ID = id

	return nil
}

// Recent는 특정 호스트의 최근 샘플을 최신순으로 조회합니다
func (r *MySQLRepository) Recent(ctx context.Context, host string, limit int) ([]entities.Sample, error) {
	if limit <= 0 {
		return nil, errors.NewValidationError("조회 개수는 1 이상이어야 합니다", nil)
	}

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("recent_samples", time.Since(start).Seconds())
	}()

	query := `
		SELECT id, host, seconds, delta, stepped
		FROM clock_sample
		WHERE host = ?
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, host, limit)
	if err != nil {
		return nil, errors.NewSystemError("데이터베이스 조회 실패", err)
	}
	defer rows.Close()

	var samples []entities.Sample
	for rows.Next() {
		var s entities.Sample
		if err := rows.Scan(&s.ID, &s.Host, &s.Seconds, &s.Delta, &s.Stepped); err != nil {
			r.logger.WithError(err).Error("행 스캔 실패")
			continue
		}
		samples = append(samples, s)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewSystemError("결과 처리 중 오류", err)
	}

	if len(samples) == 0 {
		return nil, errors.NewNotFoundError("호스트 " + host + "의 샘플이 없습니다")
	}

	return samples, nil
}
