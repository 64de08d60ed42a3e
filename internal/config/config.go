package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"edustaff-backend/internal/hierarchy"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		ShutdownSeconds    int      `mapstructure:"shutdown_seconds"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
		MaxConns int32  `mapstructure:"max_conns"`
		MinConns int32  `mapstructure:"min_conns"`
	} `mapstructure:"database"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	Admin struct {
		Username        string `mapstructure:"username"`
		Password        string `mapstructure:"password"`
		CredentialsFile string `mapstructure:"credentials_file"`
		TOTPSecret      string `mapstructure:"totp_secret"`
	} `mapstructure:"admin"`

	Policy struct {
		Name string `mapstructure:"name"`
	} `mapstructure:"policy"`

	Fees struct {
		FieldManager           int64 `mapstructure:"field_manager"`
		HomeTeacher            int64 `mapstructure:"home_teacher"`
		ManagerCommission      int64 `mapstructure:"manager_commission"`
		FieldManagerCommission int64 `mapstructure:"field_manager_commission"`
	} `mapstructure:"fees"`

	Scheduler struct {
		Enabled              bool   `mapstructure:"enabled"`
		Timezone             string `mapstructure:"timezone"`
		DailyBonusCron       string `mapstructure:"daily_bonus_cron"`
		DailyBonusAmount     int64  `mapstructure:"daily_bonus_amount"`
		DailyBonusIdempotent bool   `mapstructure:"daily_bonus_idempotent"`
		MonthlySalaryCron    string `mapstructure:"monthly_salary_cron"`
		MonthlySalaryAmount  int64  `mapstructure:"monthly_salary_amount"`
		LockTTLMinutes       int    `mapstructure:"lock_ttl_minutes"`
	} `mapstructure:"scheduler"`

	History struct {
		Transfers   RangeConfig `mapstructure:"transfers"`
		Commissions RangeConfig `mapstructure:"commissions"`
	} `mapstructure:"history"`

	Redis struct {
		Enabled  bool   `mapstructure:"enabled"`
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Storage struct {
		Endpoint  string `mapstructure:"endpoint"`
		Region    string `mapstructure:"region"`
		Bucket    string `mapstructure:"bucket"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
	} `mapstructure:"storage"`

	Logging struct {
		Level       string `mapstructure:"level"`
		Development bool   `mapstructure:"development"`
	} `mapstructure:"logging"`
}

// RangeConfig bounds a history query window, in days.
type RangeConfig struct {
	DefaultDays int `mapstructure:"default_days"`
	OpenEndCap  int `mapstructure:"open_end_cap_days"`
	MaxSpanDays int `mapstructure:"max_span_days"`
}

// Load reads .env, the optional configs/config.yaml and the environment.
// The binary works without a config file.
func Load() (*Config, error) {
	return LoadFile("configs/config.yaml")
}

func LoadFile(path string) (*Config, error) {
	// .env is optional in production
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_seconds", 15)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Authorization", "Content-Type", "X-Request-ID"})

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "edustaff")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)

	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "edustaff-backend")

	v.SetDefault("admin.username", "admin")

	v.SetDefault("fees.field_manager", 950)
	v.SetDefault("fees.home_teacher", 4950)
	v.SetDefault("fees.manager_commission", 50)
	v.SetDefault("fees.field_manager_commission", 150)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.timezone", "Asia/Kolkata")
	v.SetDefault("scheduler.daily_bonus_cron", "0 4 * * *")
	v.SetDefault("scheduler.daily_bonus_amount", 35)
	v.SetDefault("scheduler.daily_bonus_idempotent", true)
	v.SetDefault("scheduler.monthly_salary_cron", "30 4 * * *")
	v.SetDefault("scheduler.monthly_salary_amount", 1050)
	v.SetDefault("scheduler.lock_ttl_minutes", 30)

	v.SetDefault("history.transfers.default_days", 30)
	v.SetDefault("history.transfers.open_end_cap_days", 60)
	v.SetDefault("history.transfers.max_span_days", 62)
	v.SetDefault("history.commissions.default_days", 90)
	v.SetDefault("history.commissions.open_end_cap_days", 90)
	v.SetDefault("history.commissions.max_span_days", 365)

	v.SetDefault("redis.addr", "redis:6379")

	v.SetDefault("storage.region", "auto")

	v.SetDefault("logging.level", "info")
}

func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	}
	if pass := os.Getenv("ADMIN_PASSWORD"); pass != "" {
		cfg.Admin.Password = pass
	}
	if policy := os.Getenv("FUNDS_POLICY"); policy != "" {
		cfg.Policy.Name = policy
	}

	// K8s sets REDIS_SERVICE_HOST and REDIS_SERVICE_PORT for services
	if host := os.Getenv("REDIS_SERVICE_HOST"); host != "" {
		port := os.Getenv("REDIS_SERVICE_PORT")
		if port == "" {
			port = "6379"
		}
		cfg.Redis.Addr = host + ":" + port
		cfg.Redis.Enabled = true
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		cfg.Redis.Password = pass
	}
}

// Validate rejects configurations the server must not start with.
func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret (JWT_SECRET) is required"))
	}
	if c.JWT.ExpirationHours <= 0 {
		errs = append(errs, errors.New("jwt.expiration_hours must be positive"))
	}
	if _, err := hierarchy.PolicyByName(c.Policy.Name, c.PolicyFees()); err != nil {
		errs = append(errs, err)
	}
	if c.Fees.FieldManager <= 0 || c.Fees.HomeTeacher <= 0 {
		errs = append(errs, errors.New("fees.field_manager and fees.home_teacher must be positive"))
	}
	if c.Fees.ManagerCommission <= 0 || c.Fees.FieldManagerCommission <= 0 {
		errs = append(errs, errors.New("commission amounts must be positive"))
	}
	if c.Scheduler.DailyBonusAmount <= 0 || c.Scheduler.MonthlySalaryAmount <= 0 {
		errs = append(errs, errors.New("scheduler credit amounts must be positive"))
	}
	for name, r := range map[string]RangeConfig{
		"history.transfers":   c.History.Transfers,
		"history.commissions": c.History.Commissions,
	} {
		if r.DefaultDays <= 0 || r.OpenEndCap <= 0 || r.MaxSpanDays <= 0 {
			errs = append(errs, fmt.Errorf("%s: all day bounds must be positive", name))
		}
	}
	if c.Admin.Password == "" && c.Admin.CredentialsFile == "" {
		errs = append(errs, errors.New("admin.password or admin.credentials_file is required"))
	}
	return errors.Join(errs...)
}

// PolicyFees maps the fees section onto the hierarchy policy economics.
func (c *Config) PolicyFees() hierarchy.Fees {
	return hierarchy.Fees{
		FieldManagerFee:        c.Fees.FieldManager,
		HomeTeacherFee:         c.Fees.HomeTeacher,
		ManagerCommission:      c.Fees.ManagerCommission,
		FieldManagerCommission: c.Fees.FieldManagerCommission,
	}
}

// StorageEnabled reports whether salary slip archiving to S3/R2 is configured.
func (c *Config) StorageEnabled() bool {
	return c.Storage.Bucket != "" && c.Storage.AccessKey != "" && c.Storage.SecretKey != ""
}

// DatabaseURL builds the pgx connection string.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
