package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"wtime/internal/application/polling"
	"wtime/internal/infrastructure/adapters"
	"wtime/internal/infrastructure/config"
	"wtime/internal/infrastructure/container"
	"wtime/internal/infrastructure/metrics"
	"wtime/pkg/wtime"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const version = "0.1.0"

func main() {
	serve := flag.Bool("serve", false, "run the clock sampling agent instead of printing one timestamp")
	flag.Parse()

	// 로거 초기화
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stderr)

	if !*serve {
		os.Exit(printTimestamp(os.Stdout, wtime.NewReader(nil), logger))
	}

	// 설정 로드
	configLoader := config.NewConfigLoader(adapters.NewRealFileSystem())
	cfg, err := configLoader.Load()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	configureLogger(logger, cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 의존성 주입 컨테이너 생성
	appContainer, err := container.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create dependency injection container")
	}
	defer func() {
		if err := appContainer.Close(); err != nil {
			logger.WithError(err).Error("Failed to cleanup container")
		}
	}()

	app := NewApplication(appContainer, logger)
	if err := app.Run(ctx); err != nil {
		logger.WithError(err).Error("Agent stopped with error")
	}
}

// printTimestamp는 현재 타임스탬프를 한 줄 출력하고 종료 코드를 반환합니다
func printTimestamp(w io.Writer, reader *wtime.Reader, logger *logrus.Logger) int {
	ts, err := reader.Now()
	if err != nil {
		logger.WithError(err).Error("Failed to read wall clock")
		return 1
	}
	fmt.Fprintf(w, "%.6f\n", ts)
	return 0
}

// configureLogger는 설정에 따라 로그 레벨과 형식을 적용합니다
func configureLogger(logger *logrus.Logger, cfg config.LogConfig) {
	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logger.WithError(err).Warnf("Unknown LOG_LEVEL value: %s. Using default Info level.", cfg.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

// Application은 메인 애플리케이션 구조체입니다
type Application struct {
	container    *container.Container
	logger       *logrus.Logger
	healthServer *http.Server
}

// NewApplication은 새로운 Application을 생성합니다
func NewApplication(container *container.Container, logger *logrus.Logger) *Application {
	return &Application{
		container: container,
		logger:    logger,
	}
}

// Run은 컨텍스트가 취소될 때까지 샘플링을 실행합니다
func (a *Application) Run(ctx context.Context) error {
	cfg := a.container.GetConfig()

	metrics.SetAgentInfo(version, runtime.GOOS, cfg.Sampler.Host)

	a.startHealthServer(cfg.Health.Port)
	defer a.shutdown()

	// 폴링 전략 설정
	var strategy polling.Strategy
	if cfg.Sampler.Backoff.Enabled {
		strategy = polling.NewExponentialBackoffStrategy(
			cfg.Sampler.Interval,
			cfg.Sampler.Backoff.MaxInterval,
			cfg.Sampler.Backoff.Multiplier,
			a.logger,
		)
		a.logger.WithFields(logrus.Fields{
			"base_interval": cfg.Sampler.Interval,
			"max_interval":  cfg.Sampler.Backoff.MaxInterval,
			"multiplier":    cfg.Sampler.Backoff.Multiplier,
		}).Info("Exponential backoff sampling enabled")
	} else {
		strategy = polling.NewFixedIntervalStrategy(cfg.Sampler.Interval)
		a.logger.WithField("interval", cfg.Sampler.Interval).Info("Fixed interval sampling enabled")
	}

	controller := polling.NewPollingController(strategy, a.logger)

	a.logger.WithFields(logrus.Fields{
		"host":           cfg.Sampler.Host,
		"step_threshold": cfg.Sampler.StepThreshold,
		"persistence":    cfg.Database.Enabled,
	}).Info("wtime agent started")

	err := controller.Start(ctx, a.container.GetSampleClockUseCase().Run)
	if errors.Is(err, context.Canceled) {
		a.logger.Info("Received shutdown signal")
		return nil
	}
	return err
}

// startHealthServer는 헬스체크 서버를 시작합니다
func (a *Application) startHealthServer(port string) {
	mux := http.NewServeMux()
	mux.Handle("/", a.container.GetHealthService())
	mux.Handle("/metrics", promhttp.Handler())

	a.healthServer = &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.logger.WithField("port", port).Info("Health check server started (with /metrics)")
		if err := a.healthServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			a.logger.WithError(err).Error("Health check server failed")
		}
	}()
}

// shutdown은 헬스체크 서버를 정리합니다
func (a *Application) shutdown() {
	if a.healthServer == nil {
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := a.healthServer.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("Failed to shutdown health check server")
	}
}
