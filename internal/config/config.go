package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr     string // API bind address, e.g., "127.0.0.1:8080" (Windows) or ":8080" (Docker)
	LogDir   string // logs directory
	LogLevel string // debug, info, warn, error

	ProbeTimeout  time.Duration // connect + handshake budget
	ProbePort     string
	RetryAttempts int // 1 = single attempt
	RetryBackoff  time.Duration
	NotifyTimeout time.Duration

	SlackWebhook string
	SNSTopicARN  string
	AWSRegion    string

	PublicAPIKeys  []string
	AdminAPIKeys   []string
	RateRPM        int
	RateBurst      int
	AllowedOrigins []string
}

// Load reads an optional .env file (existing variables win) and then the environment.
func Load(files ...string) Config {
	_ = godotenv.Load(files...)
	return FromEnv()
}

func FromEnv() Config {
	// Bind address (Windows-friendly default)
	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	probePort := os.Getenv("PROBE_PORT")
	if probePort == "" {
		probePort = "443"
	}

	return Config{
		Addr:     addr,
		LogDir:   logDir,
		LogLevel: logLevel,

		ProbeTimeout:  millis("PROBE_TIMEOUT_MS", 3*time.Second, false),
		ProbePort:     probePort,
		RetryAttempts: positiveInt("RETRY_ATTEMPTS", 1),
		RetryBackoff:  millis("RETRY_BACKOFF_MS", 300*time.Millisecond, true),
		NotifyTimeout: millis("NOTIFY_TIMEOUT_MS", 5*time.Second, false),

		SlackWebhook: strings.TrimSpace(os.Getenv("SLACK_WEBHOOK_URL")),
		SNSTopicARN:  strings.TrimSpace(os.Getenv("SNS_TOPIC_ARN")),
		AWSRegion:    strings.TrimSpace(os.Getenv("AWS_REGION")),

		PublicAPIKeys:  list("PUBLIC_API_KEYS"),
		AdminAPIKeys:   list("ADMIN_API_KEYS"),
		RateRPM:        nonNegativeInt("RATE_RPM", 120),
		RateBurst:      positiveInt("RATE_BURST", 60),
		AllowedOrigins: list("ALLOWED_ORIGINS"),
	}
}

func positiveInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func nonNegativeInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

// millis reads a millisecond duration; zero is accepted only if allowZero.
func millis(key string, def time.Duration, allowZero bool) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && (ms > 0 || (allowZero && ms == 0)) {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return def
}

// list splits a comma-separated variable, dropping blanks.
func list(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
