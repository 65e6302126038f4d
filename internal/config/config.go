package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	ExpireTime string `yaml:"expire_time"`
}

type JWTConfig struct {
	AccessSecret  string `yaml:"access_secret"`
	RefreshSecret string `yaml:"refresh_secret"`
	Issuer        string `yaml:"issuer"`
	AccessTTL     string `yaml:"access_ttl"`
	RefreshTTL    string `yaml:"refresh_ttl"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
}

type Config struct {
	Port          string
	GinMode       string
	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisExpire   time.Duration
	AccessSecret  string
	RefreshSecret string
	JWTIssuer     string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	return LoadFrom("config/config.yml")
}

// LoadFrom reads the yaml config file and applies environment overrides.
// Secrets are usually supplied through the environment in deployment.
func LoadFrom(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accTTL, err := time.ParseDuration(env("JWT_ACCESS_TTL", configFile.JWT.AccessTTL))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}

	refTTL, err := time.ParseDuration(env("JWT_REFRESH_TTL", configFile.JWT.RefreshTTL))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT refresh TTL: %w", err)
	}

	cacheTTL, err := time.ParseDuration(env("REDIS_EXPIRE_TIME", configFile.Redis.ExpireTime))
	if err != nil {
		return nil, fmt.Errorf("invalid redis expire time: %w", err)
	}

	redisDB := configFile.Redis.DB
	if v := os.Getenv("REDIS_DB"); v != "" {
		redisDB, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
	}

	cfg := &Config{
		Port:          env("APP_PORT", fmt.Sprintf("%d", configFile.App.Port)),
		GinMode:       env("GIN_MODE", configFile.App.GinMode),
		DSN:           env("DATABASE_DSN", configFile.Database.DSN),
		RedisAddr:     env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword: env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:       redisDB,
		RedisExpire:   cacheTTL,
		AccessSecret:  env("JWT_ACCESS_SECRET_KEY", configFile.JWT.AccessSecret),
		RefreshSecret: env("JWT_REFRESH_SECRET_KEY", configFile.JWT.RefreshSecret),
		JWTIssuer:     env("JWT_ISSUER", configFile.JWT.Issuer),
		AccessTTL:     accTTL,
		RefreshTTL:    refTTL,
	}

	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, fmt.Errorf("jwt access and refresh secrets are required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, fmt.Errorf("jwt access and refresh secrets must differ")
	}

	return cfg, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
