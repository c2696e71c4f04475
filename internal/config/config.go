package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var logger *zap.SugaredLogger
var loggerOnce sync.Once

// Config is loaded once at startup and passed to every component that needs it.
type Config struct {
	Server      ServerConfig
	WeatherAPI  WeatherAPIConfig
	Dashboard   DashboardConfig
	Redis       RedisConfig
	RateLimiter RateLimiterConfig
}

type ServerConfig struct {
	Port              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

func (s ServerConfig) Addr() string { return ":" + s.Port }

type WeatherAPIConfig struct {
	APIURL string
	APIKey string
}

type DashboardConfig struct {
	DefaultLocation    string
	GeolocationTimeout time.Duration
	// DiscardStale applies a load's result only if no newer load was issued
	// for the same session in the meantime.
	DiscardStale       bool
	SessionIdleTimeout time.Duration
}

type RedisConfig struct {
	Addr string
}

// RateLimiterConfig rates are expressed in requests per minute.
type RateLimiterConfig struct {
	CleanupTimeout time.Duration
	GlobalRate     float64
	GlobalBurst    int
	ParamRate      float64
	ParamBurst     int
}

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_header_timeout", "15s")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.idle_timeout", "30s")
	v.SetDefault("weatherapi.api_url", "https://api.weatherapi.com/v1")
	v.SetDefault("dashboard.default_location", "Cairo")
	v.SetDefault("dashboard.geolocation_timeout", "5s")
	v.SetDefault("dashboard.session_idle_timeout", "30m")
	v.SetDefault("rate_limiter.cleanup_timeout", "3m")
	v.SetDefault("rate_limiter.global.rate", 10)
	v.SetDefault("rate_limiter.global.burst", 10)
	v.SetDefault("rate_limiter.param.rate", 2)
	v.SetDefault("rate_limiter.param.burst", 2)
	return v
}

// Load reads config.yaml from the project root (merging config_test.yaml under
// go test) and the API key from the environment. A missing config file is not
// fatal: defaults and environment values still apply.
func Load() (*Config, error) {
	v := newViper()

	root, err := getProjectRoot()
	if err != nil {
		GetLogger().Warnw("Project root not found, using defaults", "error", err)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(root)
		if err := v.ReadInConfig(); err != nil {
			GetLogger().Warnw("Error reading config file", "error", err)
		}
		if isTestRun() {
			v.SetConfigName("config_test")
			if err := v.MergeInConfig(); err != nil {
				GetLogger().Warnw("Error merging test config file", "error", err)
			}
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}
	cfg.Server.Port = v.GetString("server.port")
	cfg.Server.ReadHeaderTimeout = v.GetDuration("server.read_header_timeout")
	cfg.Server.ReadTimeout = v.GetDuration("server.read_timeout")
	cfg.Server.WriteTimeout = v.GetDuration("server.write_timeout")
	cfg.Server.IdleTimeout = v.GetDuration("server.idle_timeout")

	cfg.WeatherAPI.APIURL = strings.TrimRight(v.GetString("weatherapi.api_url"), "/")
	cfg.WeatherAPI.APIKey = GetWeatherAPIKey()

	cfg.Dashboard.DefaultLocation = v.GetString("dashboard.default_location")
	cfg.Dashboard.GeolocationTimeout = v.GetDuration("dashboard.geolocation_timeout")
	cfg.Dashboard.DiscardStale = v.GetBool("dashboard.discard_stale")
	cfg.Dashboard.SessionIdleTimeout = v.GetDuration("dashboard.session_idle_timeout")

	cfg.Redis.Addr = v.GetString("redis.addr")

	cfg.RateLimiter.CleanupTimeout = v.GetDuration("rate_limiter.cleanup_timeout")
	if cfg.RateLimiter.CleanupTimeout <= 0 {
		cfg.RateLimiter.CleanupTimeout = 3 * time.Minute
	}
	cfg.RateLimiter.GlobalRate = v.GetFloat64("rate_limiter.global.rate")
	cfg.RateLimiter.GlobalBurst = v.GetInt("rate_limiter.global.burst")
	cfg.RateLimiter.ParamRate = v.GetFloat64("rate_limiter.param.rate")
	cfg.RateLimiter.ParamBurst = v.GetInt("rate_limiter.param.burst")
	return cfg
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// GetWeatherAPIKey returns the weatherapi.com key from the environment, loading
// a .env file first if one is present.
func GetWeatherAPIKey() string {
	_ = godotenv.Load()
	return os.Getenv("WEATHERAPI_KEY")
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}
