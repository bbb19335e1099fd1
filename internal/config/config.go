package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/yukikurage/hospital-task-points/internal/constants"
)

type Config struct {
	DBDriver         string
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	DBSSLMode        string
	RedisHost        string
	RedisPort        string
	SessionSecret    string
	GinMode          string
	ServerAddr       string
	LogDevelopment   bool
	TxTimeout        time.Duration
	ArchiveInterval  time.Duration
	ArchiveBatchSize int
}

// Load reads configuration from the environment, after loading envFile
// (if it exists) into the process environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "taskuser")
	v.SetDefault("DB_PASSWORD", "taskpassword")
	v.SetDefault("DB_NAME", "hospital_tasks")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("SESSION_SECRET", "default-secret-key-change-me")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_ADDR", ":8080")
	v.SetDefault("LOG_DEVELOPMENT", true)
	v.SetDefault("TX_TIMEOUT", constants.DefaultTxTimeout)
	v.SetDefault("ARCHIVE_INTERVAL", constants.DefaultArchiveInterval)
	v.SetDefault("ARCHIVE_BATCH_SIZE", constants.DefaultArchiveBatchSize)
	v.AutomaticEnv()

	cfg := &Config{
		DBDriver:         v.GetString("DB_DRIVER"),
		DBHost:           v.GetString("DB_HOST"),
		DBPort:           v.GetString("DB_PORT"),
		DBUser:           v.GetString("DB_USER"),
		DBPassword:       v.GetString("DB_PASSWORD"),
		DBName:           v.GetString("DB_NAME"),
		DBSSLMode:        v.GetString("DB_SSLMODE"),
		RedisHost:        v.GetString("REDIS_HOST"),
		RedisPort:        v.GetString("REDIS_PORT"),
		SessionSecret:    v.GetString("SESSION_SECRET"),
		GinMode:          v.GetString("GIN_MODE"),
		ServerAddr:       v.GetString("SERVER_ADDR"),
		LogDevelopment:   v.GetBool("LOG_DEVELOPMENT"),
		TxTimeout:        v.GetDuration("TX_TIMEOUT"),
		ArchiveInterval:  v.GetDuration("ARCHIVE_INTERVAL"),
		ArchiveBatchSize: v.GetInt("ARCHIVE_BATCH_SIZE"),
	}

	if cfg.DBDriver != "mysql" && cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.TxTimeout <= 0 {
		cfg.TxTimeout = constants.DefaultTxTimeout
	}
	if cfg.ArchiveInterval <= 0 {
		cfg.ArchiveInterval = constants.DefaultArchiveInterval
	}
	if cfg.ArchiveBatchSize <= 0 {
		cfg.ArchiveBatchSize = constants.DefaultArchiveBatchSize
	}

	return cfg, nil
}

// RedisAddr returns the host:port of the session store.
func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}
