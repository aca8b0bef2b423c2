package container

import (
	"context"
	"database/sql"
	"net"
	"time"

	"wtime/internal/application/sampling"
	"wtime/internal/domain/errors"
	"wtime/internal/domain/interfaces"
	"wtime/internal/infrastructure/adapters"
	"wtime/internal/infrastructure/config"
	"wtime/internal/infrastructure/health"
	"wtime/internal/infrastructure/metrics"
	"wtime/internal/infrastructure/persistence"
	"wtime/pkg/utils"
	"wtime/pkg/wtime"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
)

// Container는 의존성 주입을 관리하는 컨테이너입니다
type Container struct {
	config *config.Config
	logger *logrus.Logger

	// 인프라스트럭처 어댑터들
	reader interfaces.TimestampReader
	clock  interfaces.Clock

	// 서비스들
	healthService *health.HealthService

	// 레포지토리 (DB 비활성화 시 nil)
	repository interfaces.SampleRepository

	// 유스케이스
	sampleClockUseCase *sampling.SampleClockUseCase

	// 데이터베이스
	db     *sql.DB
	retry  utils.RetryConfig
	openDB func(dsn string) (*sql.DB, error)
}

// Option은 Container 생성 옵션입니다
type Option func(*Container)

// WithTimestampReader는 호스트 시계 대신 사용할 리더를 지정합니다
func WithTimestampReader(reader interfaces.TimestampReader) Option {
	return func(c *Container) {
		c.reader = reader
	}
}

// WithRetryConfig는 데이터베이스 연결 재시도 설정을 지정합니다
func WithRetryConfig(retry utils.RetryConfig) Option {
	return func(c *Container) {
		c.retry = retry
	}
}

// withDBOpener는 테스트에서 데이터베이스 연결 방식을 바꿀 때 사용합니다
func withDBOpener(open func(dsn string) (*sql.DB, error)) Option {
	return func(c *Container) {
		c.openDB = open
	}
}

// NewContainer는 새로운 Container를 생성합니다
func NewContainer(ctx context.Context, cfg *config.Config, logger *logrus.Logger, opts ...Option) (*Container, error) {
	container := &Container{
		config: cfg,
		logger: logger,
		retry:  utils.DefaultRetryConfig,
		openDB: func(dsn string) (*sql.DB, error) {
			return sql.Open("mysql", dsn)
		},
	}
	for _, opt := range opts {
		opt(container)
	}

	if err := container.initializeInfrastructure(ctx); err != nil {
		_ = container.Close()
		return nil, err
	}

	container.initializeServices()
	container.initializeUseCases()

	return container, nil
}

// initializeInfrastructure는 인프라스트럭처 컴포넌트들을 초기화합니다
func (c *Container) initializeInfrastructure(ctx context.Context) error {
	if c.reader == nil {
		c.reader = wtime.NewReader(nil)
	}
	c.clock = adapters.NewTimestampClock(c.reader, c.logger)

	if !c.config.Database.Enabled {
		c.logger.Info("Sample persistence disabled")
		return nil
	}

	db, err := c.openDB(c.buildDSN())
	if err != nil {
		return errors.NewSystemError("데이터베이스 열기 실패", err)
	}

	// 연결 풀 설정
	db.SetMaxOpenConns(c.config.Database.MaxOpenConns)
	db.SetMaxIdleConns(c.config.Database.MaxIdleConns)
	db.SetConnMaxLifetime(c.config.Database.MaxLifetime)
	c.db = db

	// 연결 테스트
	err = utils.RetryWithBackoff(ctx, c.retry, func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	}, func(attempt int, err error) {
		c.logger.WithError(err).WithField("attempt", attempt).Warn("Database ping failed, retrying")
	})
	if err != nil {
		metrics.SetDBConnectionStatus(false)
		return errors.NewSystemError("데이터베이스 연결 실패", err)
	}
	metrics.SetDBConnectionStatus(true)

	repo := persistence.NewMySQLRepository(db, c.logger)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	c.repository = repo

	return nil
}

// initializeServices는 서비스들을 초기화합니다
func (c *Container) initializeServices() {
	c.healthService = health.NewHealthService(c.clock, c.config.Database.Enabled, c.logger)
	if c.repository != nil {
		c.healthService.UpdateDBHealth(true, nil)
	}
}

// initializeUseCases는 유스케이스들을 초기화합니다
func (c *Container) initializeUseCases() {
	c.sampleClockUseCase = sampling.NewSampleClockUseCase(
		c.reader,
		c.repository,
		c.healthService,
		c.config.Sampler.Host,
		c.config.Sampler.StepThreshold,
		c.logger,
	)
}

// buildDSN은 데이터베이스 연결 문자열을 생성합니다
func (c *Container) buildDSN() string {
	cfg := c.config.Database

	dsn := mysql.NewConfig()
	dsn.User = cfg.User
	dsn.Passwd = cfg.Password
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(cfg.Host, cfg.Port)
	dsn.DBName = cfg.Database
	dsn.ParseTime = true
	return dsn.FormatDSN()
}

// GetConfig는 설정을 반환합니다
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetTimestampReader는 타임스탬프 리더를 반환합니다
func (c *Container) GetTimestampReader() interfaces.TimestampReader {
	return c.reader
}

// GetHealthService는 헬스 서비스를 반환합니다
func (c *Container) GetHealthService() *health.HealthService {
	return c.healthService
}

// GetSampleRepository는 샘플 저장소를 반환합니다 (DB 비활성화 시 nil)
func (c *Container) GetSampleRepository() interfaces.SampleRepository {
	return c.repository
}

// GetSampleClockUseCase는 시계 샘플링 유스케이스를 반환합니다
func (c *Container) GetSampleClockUseCase() *sampling.SampleClockUseCase {
	return c.sampleClockUseCase
}

// Close는 컨테이너를 정리합니다
func (c *Container) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
