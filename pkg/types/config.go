package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	DatabaseURL     string `envconfig:"DATABASE_URL"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Token signing
	AccessTokenSecret  string `envconfig:"ACCESS_TOKEN_SECRET"`
	RefreshTokenSecret string `envconfig:"REFRESH_TOKEN_SECRET"`
	AccessTokenTTLMin  uint   `envconfig:"ACCESS_TOKEN_TTL_MIN" default:"60"`
	RefreshTokenTTLHrs uint   `envconfig:"REFRESH_TOKEN_TTL_HRS" default:"240"`

	// File storage
	StorageBucketName string `envconfig:"STORAGE_BUCKET_NAME" default:"ecolabs-documents"`

	// Outbound mail
	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     uint   `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	AdminEmail   string `envconfig:"ADMIN_EMAIL"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes
}
