package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"3000"`
	AppEnv  string `env:"APP_ENV" envDefault:"production"`

	AWSRegion      string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSEndpointURL string `env:"AWS_ENDPOINT_URL"` // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey   string `env:"AWS_SECRET_ACCESS_KEY"`
	DynamoTables   DynamoTables

	JWTPrivateKeyPath string        `env:"JWT_PRIVATE_KEY_PATH" envDefault:"./private_key.pem"`
	JWTPublicKeyPath  string        `env:"JWT_PUBLIC_KEY_PATH" envDefault:"./public_key.pem"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"168h"`

	OTPTTL             time.Duration `env:"OTP_TTL" envDefault:"10m"`
	OTPRateLimitWindow time.Duration `env:"OTP_RATE_LIMIT_WINDOW" envDefault:"10m"`
	OTPRateLimitMax    int           `env:"OTP_RATE_LIMIT_MAX" envDefault:"5"`

	// Notifier selects code delivery: "log" (diagnostic stand-in), "smtp" or "sns".
	Notifier     string `env:"NOTIFIER" envDefault:"log"`
	SMTPHost     string `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"1025"`
	SMTPFrom     string `env:"SMTP_FROM" envDefault:"noreply@example.com"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SNSRegion    string `env:"SNS_REGION" envDefault:"us-east-1"`
	SNSTopicARN  string `env:"SNS_TOPIC_ARN"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","` // CORS allowed origins
	// TrustProxyHeaders keys the per-IP limiter on X-Forwarded-For / X-Real-Ip.
	// Disable when the service is reachable without a proxy that overwrites them.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"true"`
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Accounts     string `env:"DYNAMO_TABLE_ACCOUNTS" envDefault:"accounts"`
	Credentials  string `env:"DYNAMO_TABLE_CREDENTIALS" envDefault:"credentials"`
	Sessions     string `env:"DYNAMO_TABLE_SESSIONS" envDefault:"sessions"`
	Destinations string `env:"DYNAMO_TABLE_DESTINATIONS" envDefault:"destinations"`
}

// Load reads all configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Development reports whether APP_ENV is explicitly "development".
// Plaintext verification codes are only ever surfaced there.
func (c *Config) Development() bool {
	return c.AppEnv == "development"
}
