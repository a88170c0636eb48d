package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries everything the process needs, resolved once at startup and
// passed explicitly to component constructors.
type Config struct {
	HTTPAddr string

	MongoURI string
	MongoDB  string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	TokenSecret      string
	ResetBaseURL     string
	OTPTTL           time.Duration
	ResetTokenMaxAge time.Duration
}

// FromEnv builds a Config from environment variables, applying defaults where
// a variable is unset.
func FromEnv() Config {
	return Config{
		HTTPAddr:         ":" + getenv("PORT", "8080"),
		MongoURI:         getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:          getenv("MONGO_DB", "taskmanager"),
		SMTPHost:         os.Getenv("SMTP_HOST"),
		SMTPPort:         getenvInt("SMTP_PORT", 587),
		SMTPUsername:     os.Getenv("SMTP_USER"),
		SMTPPassword:     os.Getenv("SMTP_PASSWORD"),
		MailFrom:         getenv("MAIL_FROM", "Task Manager <no-reply@localhost>"),
		TokenSecret:      os.Getenv("TOKEN_SECRET"),
		ResetBaseURL:     getenv("RESET_BASE_URL", "http://localhost:8080/reset_password"),
		OTPTTL:           getenvDuration("OTP_TTL", 10*time.Minute),
		ResetTokenMaxAge: getenvDuration("RESET_TOKEN_MAX_AGE", time.Hour),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
