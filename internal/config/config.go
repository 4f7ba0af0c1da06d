package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Stock    StockConfig    `yaml:"stock"`
	Auth     AuthConfig     `yaml:"auth"`
}

type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
	EnsureSchema    bool          `yaml:"ensureSchema"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type StockConfig struct {
	TxTimeout        time.Duration `yaml:"txTimeout"`
	MaxRetryAttempts int           `yaml:"maxRetryAttempts"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwtSecret"`
}

// Defaults returns the configuration used when neither the file nor the
// environment sets a value.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            3306,
			User:            "stockkeeper",
			Password:        "secret",
			Name:            "stockkeeper",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Stock: StockConfig{
			TxTimeout:        5 * time.Second,
			MaxRetryAttempts: 3,
		},
	}
}

// ApplyEnv overrides cfg with any environment variable that is set.
func ApplyEnv(cfg *Config) error {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", cfg.Server.Port)
	v.SetDefault("DB_HOST", cfg.Database.Host)
	v.SetDefault("DB_PORT", cfg.Database.Port)
	v.SetDefault("DB_USER", cfg.Database.User)
	v.SetDefault("DB_PASSWORD", cfg.Database.Password)
	v.SetDefault("DB_NAME", cfg.Database.Name)
	v.SetDefault("DB_MAX_OPEN_CONNS", cfg.Database.MaxOpenConns)
	v.SetDefault("DB_MAX_IDLE_CONNS", cfg.Database.MaxIdleConns)
	v.SetDefault("DB_CONN_MAX_LIFETIME", cfg.Database.ConnMaxLifetime.String())
	v.SetDefault("DB_ENSURE_SCHEMA", cfg.Database.EnsureSchema)
	v.SetDefault("LOG_LEVEL", cfg.Log.Level)
	v.SetDefault("LOG_FORMAT", cfg.Log.Format)
	v.SetDefault("STOCK_TX_TIMEOUT", cfg.Stock.TxTimeout.String())
	v.SetDefault("STOCK_MAX_RETRY_ATTEMPTS", cfg.Stock.MaxRetryAttempts)
	v.SetDefault("AUTH_JWT_SECRET", cfg.Auth.JWTSecret)

	connMaxLifetime, err := time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return err
	}
	txTimeout, err := time.ParseDuration(v.GetString("STOCK_TX_TIMEOUT"))
	if err != nil {
		return err
	}

	cfg.Server.Port = v.GetInt("SERVER_PORT")
	cfg.Database = DatabaseConfig{
		Host:            v.GetString("DB_HOST"),
		Port:            v.GetInt("DB_PORT"),
		User:            v.GetString("DB_USER"),
		Password:        v.GetString("DB_PASSWORD"),
		Name:            v.GetString("DB_NAME"),
		MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: connMaxLifetime,
		EnsureSchema:    v.GetBool("DB_ENSURE_SCHEMA"),
	}
	cfg.Log.Level = v.GetString("LOG_LEVEL")
	cfg.Log.Format = v.GetString("LOG_FORMAT")
	cfg.Stock = StockConfig{
		TxTimeout:        txTimeout,
		MaxRetryAttempts: v.GetInt("STOCK_MAX_RETRY_ATTEMPTS"),
	}
	cfg.Auth.JWTSecret = v.GetString("AUTH_JWT_SECRET")

	return nil
}
