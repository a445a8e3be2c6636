package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Env is the deployment environment the process runs in.
type Env string

const (
	EnvLocal Env = "local"
	EnvDev   Env = "dev"
	EnvTest  Env = "test"
	EnvProd  Env = "prod"
)

// Email code store backends.
const (
	EmailCodeStorePostgres = "postgres"
	EmailCodeStoreDynamo   = "dynamo"
)

// Config holds all runtime configuration loaded from environment variables.
// It is built once in main and handed to every constructor that needs it.
type Config struct {
	AppPort string
	AppEnv  Env

	SecretKey string
	JWTExpiry time.Duration

	EnableEmailCodeRateLimit bool
	ImageSizeLimit           int64

	MLTextServiceURL        string
	MLImagesServiceURL      string
	MLServiceTimeout        time.Duration
	MLServiceConnectTimeout time.Duration

	Database     Database
	MediaStorage MediaStorage
	Mail         Mail

	EmailCodeStore string
	DynamoTables   DynamoTables
	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	AllowedOrigins []string // CORS allowed origins
}

// Database holds the Postgres connection settings.
type Database struct {
	Name     string
	User     string
	Password string
	Host     string
	Port     int
	SSLMode  string
}

// DSN renders the settings as a pgx connection URL.
func (d Database) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// MediaStorage holds the S3-compatible bucket uploads go to.
type MediaStorage struct {
	URL             string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
}

// Mail holds the outgoing SMTP settings.
type Mail struct {
	Server    string
	Port      int
	Username  string
	Password  string
	From      string
	StartTLS  bool
	QueueSize int
}

// DynamoTables holds the DynamoDB table names used when EmailCodeStore is dynamo.
type DynamoTables struct {
	EmailCodes string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3000"),
		AppEnv:  Env(strings.ToLower(getEnv("APP_ENV", string(EnvLocal)))),

		SecretKey: getEnv("SECRET_KEY", ""),
		JWTExpiry: getEnvDuration("JWT_EXPIRY", 7*24*time.Hour),

		EnableEmailCodeRateLimit: getEnvBool("ENABLE_EMAIL_CODE_RATE_LIMIT", true),
		ImageSizeLimit:           int64(getEnvInt("IMAGE_SIZE_LIMIT", 10*1024*1024)),

		MLTextServiceURL:        getEnv("ML_TEXT_SERVICE_URL", ""),
		MLImagesServiceURL:      getEnv("ML_IMAGES_SERVICE_URL", ""),
		MLServiceTimeout:        getEnvDuration("ML_SERVICE_TIMEOUT", 60*time.Second),
		MLServiceConnectTimeout: getEnvDuration("ML_SERVICE_CONNECT_TIMEOUT", 5*time.Second),

		Database: Database{
			Name:     getEnv("POSTGRES_DB", "publication_admin"),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		MediaStorage: MediaStorage{
			URL:             getEnv("MEDIA_STORAGE_URL", ""),
			AccessKeyID:     getEnv("MEDIA_STORAGE_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("MEDIA_STORAGE_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("MEDIA_STORAGE_BUCKET", ""),
			Region:          getEnv("MEDIA_STORAGE_REGION", "us-east-1"),
		},
		Mail: Mail{
			Server:    getEnv("MAIL_SERVER", "localhost"),
			Port:      getEnvInt("MAIL_PORT", 587),
			Username:  getEnv("MAIL_USERNAME", ""),
			Password:  getEnv("MAIL_PASSWORD", ""),
			From:      getEnv("MAIL_FROM", "noreply@example.com"),
			StartTLS:  getEnvBool("MAIL_STARTTLS", true),
			QueueSize: getEnvInt("MAIL_QUEUE_SIZE", 100),
		},

		EmailCodeStore: strings.ToLower(getEnv("EMAIL_CODE_STORE", EmailCodeStorePostgres)),
		DynamoTables: DynamoTables{
			EmailCodes: getEnv("DYNAMO_TABLE_EMAIL_CODES", "email_codes"),
		},
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

// Validate reports every required variable that is missing or malformed.
func (c *Config) Validate() error {
	var problems []string
	switch c.AppEnv {
	case EnvLocal, EnvDev, EnvTest, EnvProd:
	default:
		problems = append(problems, fmt.Sprintf("APP_ENV: unknown environment %q", c.AppEnv))
	}
	required := map[string]string{
		"SECRET_KEY":            c.SecretKey,
		"ML_TEXT_SERVICE_URL":   c.MLTextServiceURL,
		"ML_IMAGES_SERVICE_URL": c.MLImagesServiceURL,
		"MEDIA_STORAGE_URL":     c.MediaStorage.URL,
		"MEDIA_STORAGE_BUCKET":  c.MediaStorage.Bucket,
	}
	for _, key := range []string{"SECRET_KEY", "ML_TEXT_SERVICE_URL", "ML_IMAGES_SERVICE_URL", "MEDIA_STORAGE_URL", "MEDIA_STORAGE_BUCKET"} {
		if required[key] == "" {
			problems = append(problems, key+": field required")
		}
	}
	switch c.EmailCodeStore {
	case EmailCodeStorePostgres, EmailCodeStoreDynamo:
	default:
		problems = append(problems, fmt.Sprintf("EMAIL_CODE_STORE: unknown backend %q", c.EmailCodeStore))
	}
	if c.ImageSizeLimit <= 0 {
		problems = append(problems, "IMAGE_SIZE_LIMIT: must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// AllowsAnyOrigin reports whether CORS is open to every origin. Credentialed
// requests are only allowed for an explicit origin list.
func (c *Config) AllowsAnyOrigin() bool {
	for _, o := range c.AllowedOrigins {
		if strings.TrimSpace(o) == "*" {
			return true
		}
	}
	return false
}

// IsLocal reports whether the process runs on a developer machine.
// Mail delivery is suppressed there.
func (c *Config) IsLocal() bool { return c.AppEnv == EnvLocal }

// ExposeErrorDetails reports whether internal error details may be sent to clients.
func (c *Config) ExposeErrorDetails() bool { return c.AppEnv == EnvLocal || c.AppEnv == EnvDev }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("90s") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(n * float64(time.Second))
	}
	return fallback
}
