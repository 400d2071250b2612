package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Match    MatchConfig
	Log      LogConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	MigrationsDir string
}

// Enabled reports whether a database host was configured. Without one the
// server only serves stateless matching.
func (c DatabaseConfig) Enabled() bool {
	return strings.TrimSpace(c.DBHost) != ""
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type JWTConfig struct {
	AccessSecret string
	AccessTTL    time.Duration
}

type MatchConfig struct {
	SchemesFile    string
	DefaultLimit   int
	MaxLimit       int
	MaxCandidates  int
	WarmWorkers    int
	WarmRatePerSec int
}

type LogConfig struct {
	Level  string
	Format string
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

var envBindings = map[string]string{
	"app.name":                    "APP_NAME",
	"app.env":                     "APP_ENV",
	"app.http_port":               "HTTP_PORT",
	"db.host":                     "DB_HOST",
	"db.port":                     "DB_PORT",
	"db.name":                     "DB_NAME",
	"db.user":                     "DB_USER",
	"db.password":                 "DB_PASSWORD",
	"db.ssl_mode":                 "DB_SSL_MODE",
	"db.connect_timeout":          "DB_CONNECT_TIMEOUT",
	"db.pool_max_conns":           "DB_POOL_MAX_CONNS",
	"db.pool_min_conns":           "DB_POOL_MIN_CONNS",
	"db.pool_max_conn_lifetime":   "DB_POOL_MAX_CONN_LIFETIME",
	"db.pool_max_conn_idle_time":  "DB_POOL_MAX_CONN_IDLE_TIME",
	"db.pool_health_check_period": "DB_POOL_HEALTH_CHECK_PERIOD",
	"db.migrations_dir":           "DB_MIGRATIONS_DIR",
	"redis.host":                  "REDIS_HOST",
	"redis.port":                  "REDIS_PORT",
	"redis.password":              "REDIS_PASSWORD",
	"redis.db":                    "REDIS_DB",
	"redis.ttl":                   "REDIS_TTL",
	"jwt.access_secret":           "JWT_ACCESS_SECRET",
	"jwt.access_ttl":              "JWT_ACCESS_TTL",
	"match.schemes_file":          "MATCH_SCHEMES_FILE",
	"match.default_limit":         "MATCH_DEFAULT_LIMIT",
	"match.max_limit":             "MATCH_MAX_LIMIT",
	"match.max_candidates":        "MATCH_MAX_CANDIDATES",
	"match.warm_workers":          "MATCH_WARM_WORKERS",
	"match.warm_rate_per_sec":     "MATCH_WARM_RATE_PER_SEC",
	"log.level":                   "LOG_LEVEL",
	"log.format":                  "LOG_FORMAT",
}

var requiredKeys = []string{"app.name", "app.env", "app.http_port"}

// Load reads config.yaml (optional) and the environment. Environment wins.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, eris.Wrapf(err, "config: bind %s", env)
		}
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, eris.Wrap(err, "config: read file")
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.ssl_mode", "disable")
	v.SetDefault("db.connect_timeout", 5*time.Second)
	v.SetDefault("db.migrations_dir", "migrations")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.ttl", 600*time.Second)
	v.SetDefault("jwt.access_ttl", 15*time.Minute)
	v.SetDefault("match.default_limit", 20)
	v.SetDefault("match.max_limit", 50)
	v.SetDefault("match.max_candidates", 2000)
	v.SetDefault("match.warm_workers", 4)
	v.SetDefault("match.warm_rate_per_sec", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

func fromViper(v *viper.Viper) (Config, error) {
	var missing []string
	for _, key := range requiredKeys {
		if strings.TrimSpace(v.GetString(key)) == "" {
			missing = append(missing, envBindings[key])
		}
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	str := func(key string) string { return strings.TrimSpace(v.GetString(key)) }

	cfg := Config{
		App: AppConfig{
			AppName:     str("app.name"),
			Environment: str("app.env"),
			HTTPPort:    str("app.http_port"),
		},
		Database: DatabaseConfig{
			DBHost:                str("db.host"),
			DBPort:                str("db.port"),
			DBName:                str("db.name"),
			DBUser:                str("db.user"),
			DBPassword:            v.GetString("db.password"),
			DBSSLMode:             str("db.ssl_mode"),
			ConnectTimeout:        v.GetDuration("db.connect_timeout"),
			PoolMaxConns:          v.GetInt32("db.pool_max_conns"),
			PoolMinConns:          v.GetInt32("db.pool_min_conns"),
			PoolMaxConnLifetime:   v.GetDuration("db.pool_max_conn_lifetime"),
			PoolMaxConnIdleTime:   v.GetDuration("db.pool_max_conn_idle_time"),
			PoolHealthCheckPeriod: v.GetDuration("db.pool_health_check_period"),
			MigrationsDir:         str("db.migrations_dir"),
		},
		Redis: RedisConfig{
			Host:     str("redis.host"),
			Port:     str("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			TTL:      v.GetDuration("redis.ttl"),
		},
		JWT: JWTConfig{
			AccessSecret: v.GetString("jwt.access_secret"),
			AccessTTL:    v.GetDuration("jwt.access_ttl"),
		},
		Match: MatchConfig{
			SchemesFile:    str("match.schemes_file"),
			DefaultLimit:   v.GetInt("match.default_limit"),
			MaxLimit:       v.GetInt("match.max_limit"),
			MaxCandidates:  v.GetInt("match.max_candidates"),
			WarmWorkers:    v.GetInt("match.warm_workers"),
			WarmRatePerSec: v.GetInt("match.warm_rate_per_sec"),
		},
		Log: LogConfig{
			Level:  str("log.level"),
			Format: str("log.format"),
		},
	}

	if cfg.Match.MaxLimit <= 0 {
		cfg.Match.MaxLimit = 50
	}
	if cfg.Match.DefaultLimit <= 0 || cfg.Match.DefaultLimit > cfg.Match.MaxLimit {
		cfg.Match.DefaultLimit = cfg.Match.MaxLimit
	}

	return cfg, nil
}
