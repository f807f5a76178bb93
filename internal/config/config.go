package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Payroll   PayrollConfig   `mapstructure:"payroll"`
	Leave     LeaveConfig     `mapstructure:"leave"`
	Statutory StatutoryConfig `mapstructure:"statutory"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host       string `mapstructure:"host"`
	Port       string `mapstructure:"port"`
	Name       string `mapstructure:"name"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	SSLMode    string `mapstructure:"sslmode"`
	MaxRetries int    `mapstructure:"max_retries"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

type KafkaConfig struct {
	Broker        string `mapstructure:"broker"`
	EmployeeTopic string `mapstructure:"employee_topic"`
	PayrollTopic  string `mapstructure:"payroll_topic"`
	GroupID       string `mapstructure:"group_id"`
	MaxRetries    int    `mapstructure:"max_retries"`
}

type AuthConfig struct {
	JWTSecret       string        `mapstructure:"jwt_secret"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

// PayrollConfig holds the tunables of the payroll engine. Hours per day
// converts leave hours to days, days per month prices one unpaid day.
type PayrollConfig struct {
	WorkHoursPerDay  float64 `mapstructure:"work_hours_per_day"`
	DaysPerMonth     float64 `mapstructure:"days_per_month"`
	DefaultStartTime string  `mapstructure:"default_start_time"`
	DefaultEndTime   string  `mapstructure:"default_end_time"`
}

// LeaveConfig maps the well-known leave type IDs. The IDs are data, not
// code: deployments that renumber their leave types only change config.
type LeaveConfig struct {
	AnnualTypeID  int `mapstructure:"annual_type_id"`
	MedicalTypeID int `mapstructure:"medical_type_id"`
	UnpaidTypeID  int `mapstructure:"unpaid_type_id"`
}

// StatutoryConfig carries the fallback contribution rates, in percent,
// used when an employee has no explicit rate configured.
type StatutoryConfig struct {
	EpfEmployeeRate float64 `mapstructure:"epf_employee_rate"`
	EpfEmployerRate float64 `mapstructure:"epf_employer_rate"`
	EtfRate         float64 `mapstructure:"etf_rate"`
}

// Load reads configuration with precedence env > config file > defaults.
// A .env file is loaded first so the env names stay compatible with the
// docker-compose setup (DB_HOST, REDIS_ADDR, ...).
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("app.name", "payroll-sys-back")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.name", "payroll")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_retries", 10)

	v.SetDefault("redis.addr", "localhost:6379")

	v.SetDefault("kafka.broker", "localhost:9092")
	v.SetDefault("kafka.employee_topic", "employee-events")
	v.SetDefault("kafka.payroll_topic", "payroll-events")
	v.SetDefault("kafka.group_id", "payroll-sys-back")
	v.SetDefault("kafka.max_retries", 10)

	v.SetDefault("auth.access_token_ttl", "15m")
	v.SetDefault("auth.refresh_token_ttl", "168h")

	v.SetDefault("payroll.work_hours_per_day", 9.0)
	v.SetDefault("payroll.days_per_month", 30.0)
	v.SetDefault("payroll.default_start_time", "09:00")
	v.SetDefault("payroll.default_end_time", "18:00")

	v.SetDefault("leave.annual_type_id", 1)
	v.SetDefault("leave.medical_type_id", 2)
	v.SetDefault("leave.unpaid_type_id", 3)

	v.SetDefault("statutory.epf_employee_rate", 8.0)
	v.SetDefault("statutory.epf_employer_rate", 12.0)
	v.SetDefault("statutory.etf_rate", 3.0)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// No config file: defaults plus env vars are enough
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("config validation failed: auth.jwt_secret must not be empty")
	}
	if c.Payroll.WorkHoursPerDay <= 0 {
		return fmt.Errorf("config validation failed: payroll.work_hours_per_day must be positive")
	}
	if c.Payroll.DaysPerMonth <= 0 {
		return fmt.Errorf("config validation failed: payroll.days_per_month must be positive")
	}
	if c.Leave.AnnualTypeID == c.Leave.MedicalTypeID {
		return fmt.Errorf("config validation failed: leave.annual_type_id and leave.medical_type_id must differ")
	}
	return nil
}
