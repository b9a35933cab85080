package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL é obrigatório")
	ErrMissingJWTSecret   = errors.New("JWT_SECRET é obrigatório")
)

type Config struct {
	App                App                `mapstructure:",squash"`
	Server             Server             `mapstructure:",squash"`
	Database           Database           `mapstructure:",squash"`
	Auth               Auth               `mapstructure:",squash"`
	Cors               Cors               `mapstructure:",squash"`
	Redis              Redis              `mapstructure:",squash"`
	ReconciliationSync ReconciliationSync `mapstructure:",squash"`
}

type App struct {
	LogLevel   string `mapstructure:"log_level"`
	LogJSON    bool   `mapstructure:"log_json"`
	Debug      bool   `mapstructure:"debug"`
	PathPrefix string `mapstructure:"api_path_prefix"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	URL             string        `mapstructure:"database_url"`
	MaxOpenConns    int           `mapstructure:"db_max_open_conns"`
	MaxIdleConns    int           `mapstructure:"db_max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"db_conn_max_lifetime"`
}

type Auth struct {
	JWTSecret                string `mapstructure:"jwt_secret"`
	AccessTokenExpireMinutes int    `mapstructure:"jwt_access_token_expire_minutes"`
	RefreshTokenExpireDays   int    `mapstructure:"jwt_refresh_token_expire_days"`
}

func (a Auth) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenExpireMinutes) * time.Minute
}

func (a Auth) RefreshTokenTTL() time.Duration {
	return time.Duration(a.RefreshTokenExpireDays) * 24 * time.Hour
}

type Cors struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Redis é opcional: sem endereço a revogação de tokens fica em memória e a
// reconciliação agendada não usa lock distribuído.
type Redis struct {
	Address   string `mapstructure:"redis_address"`
	Password  string `mapstructure:"redis_password"`
	DB        int    `mapstructure:"redis_db"`
	KeyPrefix string `mapstructure:"redis_key_prefix"`
}

func (r Redis) Enabled() bool {
	return r.Address != ""
}

type ReconciliationSync struct {
	Enabled      bool          `mapstructure:"reconciliation_auto_enabled"`
	CronSchedule string        `mapstructure:"reconciliation_auto_cron"`
	LockTTL      time.Duration `mapstructure:"reconciliation_auto_lock_ttl"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "0.0.0.0")
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("API_PATH_PREFIX", "/api/v1")

	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 20)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "30m")

	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_ACCESS_TOKEN_EXPIRE_MINUTES", 15)
	viper.SetDefault("JWT_REFRESH_TOKEN_EXPIRE_DAYS", 7)

	viper.SetDefault("ALLOWED_ORIGINS", "")

	viper.SetDefault("REDIS_ADDRESS", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_KEY_PREFIX", "adops:")

	viper.SetDefault("RECONCILIATION_AUTO_ENABLED", false)
	viper.SetDefault("RECONCILIATION_AUTO_CRON", "30 2 * * *") // Todos os dias às 2h30
	viper.SetDefault("RECONCILIATION_AUTO_LOCK_TTL", "10m")

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_JSON", false)
	viper.SetDefault("DEBUG", false)
}

func NewConfig() (*Config, error) {
	config, err := load()
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// NewDatabaseConfig carrega só o necessário para o cmd/migrate, sem exigir JWT_SECRET
func NewDatabaseConfig() (*Config, error) {
	config, err := load()
	if err != nil {
		return nil, err
	}

	if config.Database.URL == "" {
		return nil, ErrMissingDatabaseURL
	}

	return config, nil
}

func load() (*Config, error) {
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Usando apenas variáveis de ambiente (viper não leu .env): ", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	return config, nil
}

// Validate verifica as variáveis obrigatórias
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return ErrMissingDatabaseURL
	}
	if c.Auth.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

// loadEnvFile carrega o primeiro .env encontrado subindo a partir do diretório atual
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual: ", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado de: ", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, seguindo com o ambiente do processo")
}
