// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hamed0406/sslchecker/internal/config"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg := config.Load()

	for _, name := range []string{"ADMIN_API_KEYS", "PUBLIC_API_KEYS"} {
		if v := os.Getenv(name); strings.Contains(v, " ") {
			warn(name + " contains spaces; use comma-separated with no spaces, e.g. key1,key2")
		}
	}
	if len(cfg.PublicAPIKeys) == 0 && len(cfg.AdminAPIKeys) == 0 {
		warn("no API keys configured — /check is open to anyone who can reach it.")
	} else {
		ok(fmt.Sprintf("%d API key(s) configured", len(cfg.PublicAPIKeys)+len(cfg.AdminAPIKeys)))
	}

	ok("API_ADDR=" + cfg.Addr)

	if cfg.SNSTopicARN == "" && cfg.SlackWebhook == "" {
		warn("SNS_TOPIC_ARN and SLACK_WEBHOOK_URL empty — failures will only be logged.")
	}
	if cfg.SNSTopicARN != "" {
		if !strings.HasPrefix(cfg.SNSTopicARN, "arn:") {
			fail("SNS_TOPIC_ARN does not look like an ARN: " + cfg.SNSTopicARN)
		}
		if cfg.AWSRegion == "" {
			warn("AWS_REGION empty — the SDK default chain must supply a region.")
		}
		ok("SNS_TOPIC_ARN present")
	}
	if cfg.SlackWebhook != "" {
		if !strings.HasPrefix(cfg.SlackWebhook, "https://") {
			fail("SLACK_WEBHOOK_URL must be an https URL")
		}
		ok("SLACK_WEBHOOK_URL present")
	}

	if cfg.RetryAttempts > 1 {
		warn(fmt.Sprintf("RETRY_ATTEMPTS=%d — a slow host can hold a request for up to %s.",
			cfg.RetryAttempts, cfg.ProbeTimeout*time.Duration(cfg.RetryAttempts)+cfg.RetryBackoff*time.Duration(cfg.RetryAttempts-1)))
	}
	ok("probe timeout " + cfg.ProbeTimeout.String() + ", port " + cfg.ProbePort)

	if len(cfg.AllowedOrigins) == 0 {
		warn("ALLOWED_ORIGINS empty — CORS allows every origin.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigins, ","))
	}

	ok("preflight passed")
}
