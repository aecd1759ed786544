package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Postgres DBConfig
	Redis    RedisConfig
	S3       S3Config
	Auth     AuthConfig
	Logger   Logger
	Worker   WorkerConfig
}

type ServerConfig struct {
	AppVersion string
	Port       string
	Mode       string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	PgDriver string
}

type RedisConfig struct {
	RedisAddr     string
	RedisPassword string
	DB            int
	MinIdleConns  int
	PoolSize      int
	PoolTimeout   int
}

type S3Config struct {
	Endpoint            string
	Region              string
	AccessKey           string
	SecretKey           string
	Bucket              string
	PresignExpiryMinute int
}

type AuthConfig struct {
	ClerkDomain string
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

type WorkerConfig struct {
	WorkerCount int
	QueueSize   int
	MaxCPUUsage float64
	LockTTLMin  int
}

func (s S3Config) PresignExpiry() time.Duration {
	if s.PresignExpiryMinute <= 0 {
		return time.Hour
	}
	return time.Duration(s.PresignExpiryMinute) * time.Minute
}

func (w WorkerConfig) LockTTL() time.Duration {
	if w.LockTTLMin <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(w.LockTTLMin) * time.Minute
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}
