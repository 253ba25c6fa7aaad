package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server     ServerConfig
	Simulation SimulationConfig
	Logging    LoggingConfig
	Tracing    TracingConfig
	Fixtures   FixturesConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string // CORS и websocket; пусто = origins для локальной разработки
	MetricsEnabled  bool
	RateLimitRPS    float64 // запросов в секунду на клиента; 0 = без лимита
	RateLimitBurst  float64
	TrustedProxies  []string // IP или CIDR прокси, которым доверяем X-Forwarded-For
}

// SimulationConfig - параметры симуляции рынка и ленты активности
type SimulationConfig struct {
	ConnectDelay time.Duration // задержка "рукопожатия" подключения
	PriceTick    time.Duration // интервал рыночного тика
	ActivityTick time.Duration // интервал синтетической активности
	ActivityCap  int           // размер ленты активности
	Seed         int64         // 0 = от текущего времени
	Disabled     bool          // не запускать таймеры
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Level       string
	Format      string
	Output      string
	Development bool
}

// TracingConfig - настройки OpenTelemetry
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	PrettyPrint bool
}

// FixturesConfig - источник стартового состава
type FixturesConfig struct {
	RosterPath string // путь к YAML; пусто = встроенный состав
}

// Load загружает конфигурацию из переменных окружения.
// Если рядом есть .env, его значения подставляются в окружение
// (уже заданные переменные не перезаписываются).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS"),
			MetricsEnabled:  getEnvAsBool("METRICS_ENABLED", true),
			RateLimitRPS:    getEnvAsFloat("RATE_LIMIT_RPS", 20),
			RateLimitBurst:  getEnvAsFloat("RATE_LIMIT_BURST", 40),
			TrustedProxies:  getEnvAsList("TRUSTED_PROXIES"),
		},
		Simulation: SimulationConfig{
			ConnectDelay: getEnvAsDuration("SIM_CONNECT_DELAY", 1*time.Second),
			PriceTick:    getEnvAsDuration("SIM_PRICE_TICK", 3*time.Second),
			ActivityTick: getEnvAsDuration("SIM_ACTIVITY_TICK", 5*time.Second),
			ActivityCap:  getEnvAsInt("SIM_ACTIVITY_CAP", 100),
			Seed:         getEnvAsInt64("SIM_SEED", 0),
			Disabled:     getEnvAsBool("SIM_DISABLED", false),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Format:      getEnv("LOG_FORMAT", "json"),
			Output:      getEnv("LOG_OUTPUT", ""),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("TRACING_ENABLED", false),
			ServiceName: getEnv("TRACING_SERVICE_NAME", "agent-arena"),
			PrettyPrint: getEnvAsBool("TRACING_PRETTY", false),
		},
		Fixtures: FixturesConfig{
			RosterPath: getEnv("FIXTURES_PATH", ""),
		},
	}

	// Валидация числовых диапазонов
	if err := cfg.validateRanges(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateRanges проверяет числовые диапазоны параметров
func (c *Config) validateRanges() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %v", c.Server.ShutdownTimeout)
	}

	if c.Server.RateLimitRPS < 0 || c.Server.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}

	for _, proxy := range c.Server.TrustedProxies {
		if _, _, err := net.ParseCIDR(proxy); err != nil && net.ParseIP(proxy) == nil {
			return fmt.Errorf("TRUSTED_PROXIES: %q is neither an IP nor a CIDR", proxy)
		}
	}

	// Интервалы симуляции (должны быть положительными)
	if c.Simulation.ConnectDelay <= 0 {
		return fmt.Errorf("SIM_CONNECT_DELAY must be positive, got %v", c.Simulation.ConnectDelay)
	}

	if c.Simulation.PriceTick <= 0 {
		return fmt.Errorf("SIM_PRICE_TICK must be positive, got %v", c.Simulation.PriceTick)
	}

	if c.Simulation.ActivityTick <= 0 {
		return fmt.Errorf("SIM_ACTIVITY_TICK must be positive, got %v", c.Simulation.ActivityTick)
	}

	if c.Simulation.ActivityCap < 1 {
		return fmt.Errorf("SIM_ACTIVITY_CAP must be at least 1, got %d", c.Simulation.ActivityCap)
	}

	return nil
}

// Addr возвращает адрес для http.Server
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList читает список через запятую, пустые элементы отбрасываются
func getEnvAsList(key string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
