package cfg

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"
)

// Config holds the application settings for the caduceus server. Fields
// are bound to flags by RegisterFlags and filled from CADUCEUS_ env vars.
type Config struct {
	DrainSeconds          int
	ShutdownBudgetSeconds int
	APIPort               int
	APIToken              string

	DatabaseURL     string
	DBMaxConns      int
	SlowQueryMillis int

	KnowledgeBasePath string
	DirectoryPath     string

	SlackWebhookURL string
	SlackMinScore   int

	KafkaBrokers string
	KafkaTopic   string

	PacingEnabled   bool
	PacingMinMillis int
	PacingMaxMillis int
}

// RegisterFlags binds Config fields to the given FlagSet with defaults inline
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.DrainSeconds, "drain-seconds", 60, "seconds to wait for in-flight requests to drain before shutdown (1..300)")
	fs.IntVar(&c.ShutdownBudgetSeconds, "shutdown-budget-seconds", 90, "total seconds for component shutdown after drain (1..300)")
	fs.IntVar(&c.APIPort, "http-port", 8080, "API listen TCP port (1..65535)")
	fs.StringVar(&c.APIToken, "api-token", "", "bearer token required on /api routes")

	fs.StringVar(&c.DatabaseURL, "database-url", "", "PostgreSQL connection URL (empty = in-memory store)")
	fs.IntVar(&c.DBMaxConns, "db-max-conns", 0, "maximum pool connections (0 = pgx default, max 100)")
	fs.IntVar(&c.SlowQueryMillis, "db-slow-query-ms", 0, "log queries slower than this many milliseconds (0 = log all)")

	fs.StringVar(&c.KnowledgeBasePath, "knowledge-base", "", "YAML file with protocols and drug interactions overlaid on the built-in knowledge base")
	fs.StringVar(&c.DirectoryPath, "directory", "", "YAML file seeding the staff and department directory (empty = built-in)")

	fs.StringVar(&c.SlackWebhookURL, "slack-webhook-url", "", "Slack webhook URL for urgent admission notifications")
	fs.IntVar(&c.SlackMinScore, "slack-min-score", 8, "lowest priority score that triggers a Slack notification (1..10)")

	fs.StringVar(&c.KafkaBrokers, "kafka-brokers", "", "comma-separated Kafka brokers for admission events (empty = disabled)")
	fs.StringVar(&c.KafkaTopic, "kafka-topic", "caduceus.triage.admitted", "Kafka topic for admission events")

	fs.BoolVar(&c.PacingEnabled, "assistant-pacing", true, "delay assistant answers to simulate thinking time")
	fs.IntVar(&c.PacingMinMillis, "assistant-pacing-min-ms", 800, "minimum assistant pacing delay in milliseconds")
	fs.IntVar(&c.PacingMaxMillis, "assistant-pacing-max-ms", 2000, "maximum assistant pacing delay in milliseconds (<= 10000)")
}

// Validate checks all configuration fields for correctness.
// It returns an error if any field is invalid, or nil if all fields are valid.
func (c *Config) Validate() error {
	var errs []error

	// Drain and shutdown budgets
	if c.DrainSeconds <= 0 || c.DrainSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid DRAIN_SECONDS %d (must be 1..300)", c.DrainSeconds))
	}
	if c.ShutdownBudgetSeconds <= 0 || c.ShutdownBudgetSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid SHUTDOWN_BUDGET_SECONDS %d (must be 1..300)", c.ShutdownBudgetSeconds))
	}
	if c.ShutdownBudgetSeconds <= c.DrainSeconds {
		errs = append(errs, fmt.Errorf("SHUTDOWN_BUDGET_SECONDS %d must be greater than DRAIN_SECONDS %d", c.ShutdownBudgetSeconds, c.DrainSeconds))
	}

	if c.APIPort <= 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT %d (must be 1..65535)", c.APIPort))
	}
	if c.APIToken == "" {
		errs = append(errs, errors.New("API_TOKEN is required"))
	}

	if c.DBMaxConns < 0 || c.DBMaxConns > 100 {
		errs = append(errs, fmt.Errorf("invalid DB_MAX_CONNS %d (must be 0..100)", c.DBMaxConns))
	}
	if c.SlowQueryMillis < 0 {
		errs = append(errs, fmt.Errorf("invalid DB_SLOW_QUERY_MS %d (must be >= 0)", c.SlowQueryMillis))
	}

	if c.SlackMinScore < 1 || c.SlackMinScore > 10 {
		errs = append(errs, fmt.Errorf("invalid SLACK_MIN_SCORE %d (must be 1..10)", c.SlackMinScore))
	}

	if len(c.Brokers()) > 0 && strings.TrimSpace(c.KafkaTopic) == "" {
		errs = append(errs, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set"))
	}

	if c.PacingEnabled {
		if c.PacingMinMillis < 0 {
			errs = append(errs, fmt.Errorf("invalid ASSISTANT_PACING_MIN_MS %d (must be >= 0)", c.PacingMinMillis))
		}
		if c.PacingMaxMillis < c.PacingMinMillis || c.PacingMaxMillis > 10000 {
			errs = append(errs, fmt.Errorf("invalid ASSISTANT_PACING_MAX_MS %d (must be %d..10000)", c.PacingMaxMillis, c.PacingMinMillis))
		}
	}

	return errors.Join(errs...)
}

// Brokers splits KafkaBrokers on commas, dropping empty entries.
func (c *Config) Brokers() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// PacingWindow returns the configured assistant delay bounds.
func (c *Config) PacingWindow() (lo, hi time.Duration) {
	return time.Duration(c.PacingMinMillis) * time.Millisecond, time.Duration(c.PacingMaxMillis) * time.Millisecond
}

// SlowQuery returns the slow query logging threshold.
func (c *Config) SlowQuery() time.Duration {
	return time.Duration(c.SlowQueryMillis) * time.Millisecond
}
