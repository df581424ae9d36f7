package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	AppEnv   string `yaml:"app_env"`
	AppPort  string `yaml:"app_port"`
	LogLevel string `yaml:"log_level"`

	DBDriver string `yaml:"db_driver"`

	MySQLHost string `yaml:"mysql_host"`
	MySQLPort string `yaml:"mysql_port"`
	MySQLDB   string `yaml:"mysql_db"`
	MySQLUser string `yaml:"mysql_user"`
	MySQLPass string `yaml:"mysql_pass"`

	PostgresHost    string `yaml:"postgres_host"`
	PostgresPort    string `yaml:"postgres_port"`
	PostgresDB      string `yaml:"postgres_db"`
	PostgresUser    string `yaml:"postgres_user"`
	PostgresPass    string `yaml:"postgres_pass"`
	PostgresSSLMode string `yaml:"postgres_sslmode"`

	RedisAddr string `yaml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db"`

	IdempTTLSecs int `yaml:"idempotency_ttl_seconds"`

	JWTSecret string `yaml:"jwt_secret"`

	Stripe Stripe `yaml:"stripe"`
	S3     S3     `yaml:"s3"`
}

type Stripe struct {
	SecretKey     string `yaml:"secret_key"`
	WebhookSecret string `yaml:"webhook_secret"`
}

// S3 is the document bucket. An empty bucket selects the placeholder
// presigner outside production.
type S3 struct {
	AccessKeyID       string `yaml:"access_key_id"`
	SecretAccessKey   string `yaml:"secret_access_key"`
	Region            string `yaml:"region"`
	Bucket            string `yaml:"bucket"`
	Prefix            string `yaml:"prefix"`
	Endpoint          string `yaml:"endpoint"`
	PresignExpireSecs int    `yaml:"presign_expire_seconds"`
}

func (s S3) Configured() bool { return s.Bucket != "" && s.Region != "" }

func defaults() *Config {
	return &Config{
		AppEnv:          EnvDevelopment,
		AppPort:         "8080",
		LogLevel:        "info",
		DBDriver:        DriverMySQL,
		MySQLHost:       "mysql",
		MySQLPort:       "3306",
		MySQLDB:         "lending",
		MySQLUser:       "lending",
		MySQLPass:       "lending",
		PostgresHost:    "postgres",
		PostgresPort:    "5432",
		PostgresDB:      "lending",
		PostgresUser:    "lending",
		PostgresPass:    "lending",
		PostgresSSLMode: "disable",
		RedisAddr:       "redis:6379",
		IdempTTLSecs:    300,
		S3:              S3{PresignExpireSecs: 3600},
	}
}

// Load reads an optional .env, then the YAML file named by CONFIG_PATH, then
// environment variables. Later sources win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	c := defaults()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	str := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	str(&c.AppEnv, "APP_ENV")
	str(&c.AppPort, "APP_PORT")
	str(&c.LogLevel, "LOG_LEVEL")
	str(&c.DBDriver, "DB_DRIVER")
	str(&c.MySQLHost, "MYSQL_HOST")
	str(&c.MySQLPort, "MYSQL_PORT")
	str(&c.MySQLDB, "MYSQL_DB")
	str(&c.MySQLUser, "MYSQL_USER")
	str(&c.MySQLPass, "MYSQL_PASS")
	str(&c.PostgresHost, "POSTGRES_HOST")
	str(&c.PostgresPort, "POSTGRES_PORT")
	str(&c.PostgresDB, "POSTGRES_DB")
	str(&c.PostgresUser, "POSTGRES_USER")
	str(&c.PostgresPass, "POSTGRES_PASS")
	str(&c.PostgresSSLMode, "POSTGRES_SSLMODE")
	str(&c.RedisAddr, "REDIS_ADDR")
	str(&c.JWTSecret, "JWT_SECRET")
	str(&c.Stripe.SecretKey, "STRIPE_SECRET_KEY")
	str(&c.Stripe.WebhookSecret, "STRIPE_WEBHOOK_SECRET")
	str(&c.S3.AccessKeyID, "AWS_ACCESS_KEY_ID")
	str(&c.S3.SecretAccessKey, "AWS_SECRET_ACCESS_KEY")
	str(&c.S3.Region, "AWS_REGION")
	str(&c.S3.Bucket, "S3_BUCKET")
	str(&c.S3.Prefix, "S3_PREFIX")
	str(&c.S3.Endpoint, "S3_ENDPOINT")

	num := func(dst *int, key string) error {
		v := os.Getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
		return nil
	}
	if err := num(&c.RedisDB, "REDIS_DB"); err != nil {
		return err
	}
	if err := num(&c.IdempTTLSecs, "IDEMPOTENCY_TTL_SECONDS"); err != nil {
		return err
	}
	return num(&c.S3.PresignExpireSecs, "S3_PRESIGN_EXPIRE_SECONDS")
}

func (c *Config) IsProduction() bool { return strings.EqualFold(c.AppEnv, EnvProduction) }

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case DriverMySQL:
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		// ensure port is valid
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case DriverPostgres:
		if c.PostgresHost == "" || c.PostgresDB == "" || c.PostgresUser == "" {
			return errors.New("missing Postgres config (POSTGRES_HOST/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.PostgresPort); err != nil {
			return fmt.Errorf("invalid POSTGRES_PORT %q: %w", c.PostgresPort, err)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("missing JWT_SECRET")
	}
	if c.S3.PresignExpireSecs <= 0 {
		return errors.New("S3_PRESIGN_EXPIRE_SECONDS must be positive")
	}
	if c.IsProduction() {
		if c.Stripe.SecretKey == "" || c.Stripe.WebhookSecret == "" {
			return errors.New("production requires STRIPE_SECRET_KEY and STRIPE_WEBHOOK_SECRET")
		}
		if !c.S3.Configured() {
			return errors.New("production requires S3_BUCKET and AWS_REGION")
		}
	}
	return nil
}

// DSN returns the connection string for the selected driver.
func (c *Config) DSN() string {
	if c.DBDriver == DriverPostgres {
		return c.PostgresDSN()
	}
	return c.MySQLDSN()
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME and DATE columns
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPass),
		Host:     net.JoinHostPort(c.PostgresHost, c.PostgresPort),
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=" + url.QueryEscape(c.PostgresSSLMode) + "&TimeZone=UTC",
	}
	return u.String()
}
