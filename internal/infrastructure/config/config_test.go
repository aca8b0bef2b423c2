package config

import (
	stderrors "errors"
	"os"
	"testing"
	"time"

	"wtime/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockFileSystem은 설정 파일 로딩용 Mock FileSystem입니다
type MockFileSystem struct {
	mock.Mock
}

func (m *MockFileSystem) ReadFile(path string) ([]byte, error) {
	args := m.Called(path)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockFileSystem) Exists(path string) bool {
	args := m.Called(path)
	return args.Bool(0)
}

var configEnvKeys = []string{
	"CONFIG_FILE",
	"DB_ENABLED", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_MAX_LIFETIME",
	"NODE_NAME", "SAMPLE_INTERVAL", "STEP_THRESHOLD",
	"BACKOFF_ENABLED", "BACKOFF_MAX_INTERVAL", "BACKOFF_MULTIPLIER",
	"HEALTH_PORT", "LOG_LEVEL", "LOG_FORMAT",
}

// clearConfigEnv는 테스트 동안 설정 관련 환경 변수를 비웁니다
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

func TestEnvironmentConfigLoader_Load(t *testing.T) {
	tests := []struct {
		name      string
		envVars   map[string]string
		wantError bool
		validate  func(*testing.T, *Config)
	}{
		{
			name:    "기본 설정값 사용",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				hostname, _ := os.Hostname()
				assert.False(t, cfg.Database.Enabled)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, "3306", cfg.Database.Port)
				assert.Equal(t, "wtime", cfg.Database.Database)
				assert.Equal(t, hostname, cfg.Sampler.Host)
				assert.Equal(t, 10*time.Second, cfg.Sampler.Interval)
				assert.Equal(t, time.Second, cfg.Sampler.StepThreshold)
				assert.True(t, cfg.Sampler.Backoff.Enabled)
				assert.Equal(t, 2.0, cfg.Sampler.Backoff.Multiplier)
				assert.Equal(t, "8080", cfg.Health.Port)
				assert.Equal(t, "info", cfg.Log.Level)
				assert.Equal(t, "json", cfg.Log.Format)
			},
		},
		{
			name: "환경 변수로 설정 오버라이드",
			envVars: map[string]string{
				"DB_ENABLED":         "true",
				"DB_HOST":            "custom-host",
				"DB_PORT":            "3307",
				"DB_USER":            "custom-user",
				"DB_PASSWORD":        "custom-pass",
				"DB_NAME":            "custom-db",
				"NODE_NAME":          "node-7",
				"SAMPLE_INTERVAL":    "2s",
				"STEP_THRESHOLD":     "250ms",
				"BACKOFF_MULTIPLIER": "1.5",
				"HEALTH_PORT":        "9090",
				"LOG_FORMAT":         "text",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.Database.Enabled)
				assert.Equal(t, "custom-host", cfg.Database.Host)
				assert.Equal(t, "3307", cfg.Database.Port)
				assert.Equal(t, "custom-user", cfg.Database.User)
				assert.Equal(t, "custom-pass", cfg.Database.Password)
				assert.Equal(t, "custom-db", cfg.Database.Database)
				assert.Equal(t, "node-7", cfg.Sampler.Host)
				assert.Equal(t, 2*time.Second, cfg.Sampler.Interval)
				assert.Equal(t, 250*time.Millisecond, cfg.Sampler.StepThreshold)
				assert.Equal(t, 1.5, cfg.Sampler.Backoff.Multiplier)
				assert.Equal(t, "9090", cfg.Health.Port)
				assert.Equal(t, "text", cfg.Log.Format)
			},
		},
		{
			name: "유효하지 않은 duration 형식",
			envVars: map[string]string{
				"SAMPLE_INTERVAL": "invalid-duration",
			},
			validate: func(t *testing.T, cfg *Config) {
				// 잘못된 형식일 때는 기본값 사용
				assert.Equal(t, 10*time.Second, cfg.Sampler.Interval)
			},
		},
		{
			name: "지원하지 않는 로그 형식",
			envVars: map[string]string{
				"LOG_FORMAT": "xml",
			},
			wantError: true,
		},
		{
			name: "백오프 계수 1 이하",
			envVars: map[string]string{
				"BACKOFF_MULTIPLIER": "1",
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			loader := NewEnvironmentConfigLoader()
			config, err := loader.Load()

			if tt.wantError {
				assert.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
				assert.Nil(t, config)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, config)
				tt.validate(t, config)
			}
		})
	}
}

func TestYAMLConfigLoader_Load(t *testing.T) {
	const path = "/etc/wtime/config.yaml"

	t.Run("파일 값과 환경 변수 오버라이드", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("HEALTH_PORT", "9191")

		fs := new(MockFileSystem)
		fs.On("Exists", path).Return(true)
		fs.On("ReadFile", path).Return([]byte(`
database:
  enabled: true
  host: db.internal
  name: clocks
sampler:
  host: node-3
  interval: 30s
  step_threshold: 2s
  backoff:
    max_interval: 10m
health:
  port: "8081"
log:
  level: debug
`), nil)

		config, err := NewYAMLConfigLoader(fs, path).Load()
		require.NoError(t, err)

		assert.True(t, config.Database.Enabled)
		assert.Equal(t, "db.internal", config.Database.Host)
		assert.Equal(t, "clocks", config.Database.Database)
		assert.Equal(t, "3306", config.Database.Port)
		assert.Equal(t, "node-3", config.Sampler.Host)
		assert.Equal(t, 30*time.Second, config.Sampler.Interval)
		assert.Equal(t, 2*time.Second, config.Sampler.StepThreshold)
		assert.Equal(t, 10*time.Minute, config.Sampler.Backoff.MaxInterval)
		assert.Equal(t, 2.0, config.Sampler.Backoff.Multiplier)
		assert.Equal(t, "9191", config.Health.Port)
		assert.Equal(t, "debug", config.Log.Level)
		fs.AssertExpectations(t)
	})

	t.Run("파일 없음", func(t *testing.T) {
		clearConfigEnv(t)
		fs := new(MockFileSystem)
		fs.On("Exists", path).Return(false)

		config, err := NewYAMLConfigLoader(fs, path).Load()
		assert.Nil(t, config)
		assert.True(t, errors.IsNotFoundError(err))
		fs.AssertNotCalled(t, "ReadFile", path)
	})

	t.Run("읽기 실패", func(t *testing.T) {
		clearConfigEnv(t)
		fs := new(MockFileSystem)
		fs.On("Exists", path).Return(true)
		fs.On("ReadFile", path).Return([]byte(nil), stderrors.New("permission denied"))

		_, err := NewYAMLConfigLoader(fs, path).Load()
		assert.True(t, errors.IsSystemError(err))
	})

	t.Run("잘못된 YAML", func(t *testing.T) {
		clearConfigEnv(t)
		fs := new(MockFileSystem)
		fs.On("Exists", path).Return(true)
		fs.On("ReadFile", path).Return([]byte("sampler: [unclosed"), nil)

		_, err := NewYAMLConfigLoader(fs, path).Load()
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestNewConfigLoader(t *testing.T) {
	t.Run("CONFIG_FILE 미설정", func(t *testing.T) {
		clearConfigEnv(t)
		assert.IsType(t, &EnvironmentConfigLoader{}, NewConfigLoader(new(MockFileSystem)))
	})

	t.Run("CONFIG_FILE 설정", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("CONFIG_FILE", "/tmp/wtime.yaml")
		loader := NewConfigLoader(new(MockFileSystem))
		require.IsType(t, &YAMLConfigLoader{}, loader)
		assert.Equal(t, "/tmp/wtime.yaml", loader.(*YAMLConfigLoader).path)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Sampler.Host = "node-1"
		return cfg
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError bool
	}{
		{name: "유효한 설정", mutate: func(*Config) {}},
		{name: "DB 비활성화 시 빈 DB 호스트 허용", mutate: func(c *Config) { c.Database.Host = "" }},
		{
			name: "DB 활성화 시 빈 DB 호스트",
			mutate: func(c *Config) {
				c.Database.Enabled = true
				c.Database.Host = ""
			},
			wantError: true,
		},
		{
			name: "DB 활성화 시 빈 DB 이름",
			mutate: func(c *Config) {
				c.Database.Enabled = true
				c.Database.Database = ""
			},
			wantError: true,
		},
		{name: "빈 호스트 이름", mutate: func(c *Config) { c.Sampler.Host = "" }, wantError: true},
		{name: "잘못된 샘플 간격", mutate: func(c *Config) { c.Sampler.Interval = -time.Second }, wantError: true},
		{name: "음수 임계값", mutate: func(c *Config) { c.Sampler.StepThreshold = -time.Second }, wantError: true},
		{
			name:      "최대 간격이 기본 간격보다 짧음",
			mutate:    func(c *Config) { c.Sampler.Backoff.MaxInterval = time.Second },
			wantError: true,
		},
		{
			name: "백오프 비활성화 시 계수 무시",
			mutate: func(c *Config) {
				c.Sampler.Backoff.Enabled = false
				c.Sampler.Backoff.Multiplier = 0
			},
		},
		{name: "빈 헬스 포트", mutate: func(c *Config) { c.Health.Port = "" }, wantError: true},
		{name: "숫자가 아닌 헬스 포트", mutate: func(c *Config) { c.Health.Port = "http" }, wantError: true},
		{name: "잘못된 호스트 이름", mutate: func(c *Config) { c.Sampler.Host = "node_1" }, wantError: true},
		{
			name: "DB 활성화 시 잘못된 포트",
			mutate: func(c *Config) {
				c.Database.Enabled = true
				c.Database.Port = "99999"
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Run("getEnvOrDefault", func(t *testing.T) {
		assert.Equal(t, "default", getEnvOrDefault("WTIME_NON_EXISTENT_VAR", "default"))

		t.Setenv("WTIME_TEST_VAR", "test_value")
		assert.Equal(t, "test_value", getEnvOrDefault("WTIME_TEST_VAR", "default"))
	})

	t.Run("getEnvIntOrDefault", func(t *testing.T) {
		assert.Equal(t, 42, getEnvIntOrDefault("WTIME_NON_EXISTENT_INT", 42))

		t.Setenv("WTIME_TEST_INT", "123")
		assert.Equal(t, 123, getEnvIntOrDefault("WTIME_TEST_INT", 42))

		// 잘못된 정수 형식
		t.Setenv("WTIME_TEST_BAD_INT", "not_a_number")
		assert.Equal(t, 42, getEnvIntOrDefault("WTIME_TEST_BAD_INT", 42))
	})

	t.Run("getEnvFloatOrDefault", func(t *testing.T) {
		t.Setenv("WTIME_TEST_FLOAT", "2.5")
		assert.Equal(t, 2.5, getEnvFloatOrDefault("WTIME_TEST_FLOAT", 1.0))

		t.Setenv("WTIME_TEST_BAD_FLOAT", "two")
		assert.Equal(t, 1.0, getEnvFloatOrDefault("WTIME_TEST_BAD_FLOAT", 1.0))
	})

	t.Run("getEnvBoolOrDefault", func(t *testing.T) {
		t.Setenv("WTIME_TEST_BOOL", "false")
		assert.False(t, getEnvBoolOrDefault("WTIME_TEST_BOOL", true))

		t.Setenv("WTIME_TEST_BAD_BOOL", "maybe")
		assert.True(t, getEnvBoolOrDefault("WTIME_TEST_BAD_BOOL", true))
	})

	t.Run("getEnvDurationOrDefault", func(t *testing.T) {
		assert.Equal(t, 30*time.Second, getEnvDurationOrDefault("WTIME_NON_EXISTENT_DURATION", 30*time.Second))

		t.Setenv("WTIME_TEST_DURATION", "1m30s")
		assert.Equal(t, 90*time.Second, getEnvDurationOrDefault("WTIME_TEST_DURATION", 30*time.Second))

		// 잘못된 duration 형식
		t.Setenv("WTIME_TEST_BAD_DURATION", "invalid")
		assert.Equal(t, 30*time.Second, getEnvDurationOrDefault("WTIME_TEST_BAD_DURATION", 30*time.Second))
	})
}
