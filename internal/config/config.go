// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field corresponds to an
// environment variable. Durations are kept as integers in the unit the
// variable uses (seconds for token lifetimes, minutes for verification codes)
// to stay aligned with the values clients receive in responses.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	JWTPrivateKeyPath string // path to the PEM-encoded RSA private key
	JWTPublicKeyPath  string // path to the PEM-encoded RSA public key
	JWTKeyID          string // optional key id stamped into the token header
	JWTKeySize        int    // RSA key size used when generating a fresh pair

	AccessTokenTTLSec int // access token lifetime in seconds
	VerifyTokenTTLSec int // verification token lifetime in seconds
	VerifyCodeTTLMin  int // one-time code lifetime in minutes

	BcryptCost int // bcrypt cost for password hashing

	SMTPHost string // SMTP server host; empty disables real delivery
	SMTPPort int    // SMTP server port
	SMTPUser string // SMTP username
	SMTPPass string // SMTP password
	SMTPFrom string // sender address for outgoing mail

	AMQPURL string // RabbitMQ connection URL; empty disables the queue
}

// Load reads configuration values from environment variables and returns a
// Config. A .env file is loaded first when present so local development does
// not need exported variables. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:  must("APP_ENV"),
		Port: must("APP_PORT"),

		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		JWTPrivateKeyPath: must("JWT_PRIVATE_KEY_PATH"),
		JWTPublicKeyPath:  must("JWT_PUBLIC_KEY_PATH"),
		JWTKeyID:          os.Getenv("JWT_KEY_ID"),
		JWTKeySize:        intOr("JWT_KEY_SIZE", 2048),

		AccessTokenTTLSec: mustInt("ACCESS_TOKEN_TTL_SEC"),
		VerifyTokenTTLSec: mustInt("VERIFY_TOKEN_TTL_SEC"),
		VerifyCodeTTLMin:  mustInt("VERIFY_CODE_TTL_MIN"),

		BcryptCost: mustInt("BCRYPT_COST"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: intOr("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom: os.Getenv("SMTP_FROM"),

		AMQPURL: os.Getenv("RABBITMQ_URL"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// intOr reads an optional integer variable, falling back to def.
func intOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
