package cfg

import (
	"flag"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// validBase returns a Config with all required fields set to valid values.
func validBase() Config {
	return Config{
		DrainSeconds:          60,
		ShutdownBudgetSeconds: 90,
		APIPort:               8080,
		APIToken:              "test-token-123",
		SlackMinScore:         8,
		KafkaTopic:            "caduceus.triage.admitted",
		PacingEnabled:         true,
		PacingMinMillis:       800,
		PacingMaxMillis:       2000,
	}
}

func TestRegisterFlags_Defaults(t *testing.T) {
	t.Parallel()

	var c Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlags(fs)

	if err := fs.Parse(nil); err != nil {
		t.Fatalf("parse empty args: %v", err)
	}

	want := validBase()
	want.APIToken = ""
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("defaults (-want +got):\n%s", diff)
	}
}

func TestRegisterFlags_Override(t *testing.T) {
	t.Parallel()

	var c Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlags(fs)

	args := []string{
		"-drain-seconds", "30",
		"-shutdown-budget-seconds", "120",
		"-http-port", "9090",
		"-api-token", "tok",
		"-database-url", "postgres://localhost/caduceus",
		"-db-max-conns", "20",
		"-knowledge-base", "/etc/caduceus/kb.yaml",
		"-directory", "/etc/caduceus/directory.yaml",
		"-slack-min-score", "6",
		"-kafka-brokers", "k1:9092, k2:9092",
		"-assistant-pacing=false",
	}
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse args: %v", err)
	}

	if c.DrainSeconds != 30 {
		t.Errorf("DrainSeconds = %d, want 30", c.DrainSeconds)
	}
	if c.ShutdownBudgetSeconds != 120 {
		t.Errorf("ShutdownBudgetSeconds = %d, want 120", c.ShutdownBudgetSeconds)
	}
	if c.APIPort != 9090 {
		t.Errorf("APIPort = %d, want 9090", c.APIPort)
	}
	if c.DatabaseURL != "postgres://localhost/caduceus" {
		t.Errorf("DatabaseURL = %q", c.DatabaseURL)
	}
	if c.DBMaxConns != 20 {
		t.Errorf("DBMaxConns = %d, want 20", c.DBMaxConns)
	}
	if c.KnowledgeBasePath != "/etc/caduceus/kb.yaml" || c.DirectoryPath != "/etc/caduceus/directory.yaml" {
		t.Errorf("paths = %q, %q", c.KnowledgeBasePath, c.DirectoryPath)
	}
	if c.SlackMinScore != 6 {
		t.Errorf("SlackMinScore = %d, want 6", c.SlackMinScore)
	}
	if diff := cmp.Diff([]string{"k1:9092", "k2:9092"}, c.Brokers()); diff != "" {
		t.Errorf("Brokers (-want +got):\n%s", diff)
	}
	if c.PacingEnabled {
		t.Error("PacingEnabled = true, want false")
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	with := func(mut func(*Config)) Config {
		c := validBase()
		mut(&c)
		return c
	}

	tests := []struct {
		name      string
		cfg       Config
		wantErr   bool
		errSubstr []string // substrings that must appear in error message
	}{
		{name: "defaults are valid", cfg: validBase()},
		{name: "minimum valid values", cfg: with(func(c *Config) {
			c.DrainSeconds, c.ShutdownBudgetSeconds, c.APIPort, c.SlackMinScore = 1, 2, 1, 1
		})},
		{name: "maximum valid values", cfg: with(func(c *Config) {
			c.DrainSeconds, c.ShutdownBudgetSeconds, c.APIPort, c.SlackMinScore = 299, 300, 65535, 10
			c.DBMaxConns, c.PacingMaxMillis = 100, 10000
		})},
		// DrainSeconds boundaries
		{name: "drain zero", cfg: with(func(c *Config) { c.DrainSeconds = 0 }), wantErr: true, errSubstr: []string{"DRAIN_SECONDS"}},
		{name: "drain negative", cfg: with(func(c *Config) { c.DrainSeconds = -1 }), wantErr: true, errSubstr: []string{"DRAIN_SECONDS"}},
		{name: "drain above max", cfg: with(func(c *Config) { c.DrainSeconds, c.ShutdownBudgetSeconds = 301, 302 }), wantErr: true, errSubstr: []string{"DRAIN_SECONDS"}},
		{name: "drain at upper bound", cfg: with(func(c *Config) { c.DrainSeconds, c.ShutdownBudgetSeconds = 300, 300 }), wantErr: true},
		// ShutdownBudgetSeconds boundaries
		{name: "budget zero", cfg: with(func(c *Config) { c.ShutdownBudgetSeconds = 0 }), wantErr: true, errSubstr: []string{"SHUTDOWN_BUDGET_SECONDS"}},
		{name: "budget above max", cfg: with(func(c *Config) { c.ShutdownBudgetSeconds = 301 }), wantErr: true, errSubstr: []string{"SHUTDOWN_BUDGET_SECONDS"}},
		// Cross-field: budget vs drain
		{name: "budget equals drain", cfg: with(func(c *Config) { c.ShutdownBudgetSeconds = 60 }), wantErr: true, errSubstr: []string{"must be greater than"}},
		{name: "budget is drain plus one", cfg: with(func(c *Config) { c.ShutdownBudgetSeconds = 61 })},
		// APIPort boundaries
		{name: "port zero", cfg: with(func(c *Config) { c.APIPort = 0 }), wantErr: true, errSubstr: []string{"HTTP_PORT"}},
		{name: "port above max", cfg: with(func(c *Config) { c.APIPort = 65536 }), wantErr: true, errSubstr: []string{"HTTP_PORT"}},
		{name: "empty api token", cfg: with(func(c *Config) { c.APIToken = "" }), wantErr: true, errSubstr: []string{"API_TOKEN"}},
		// Database
		{name: "negative max conns", cfg: with(func(c *Config) { c.DBMaxConns = -1 }), wantErr: true, errSubstr: []string{"DB_MAX_CONNS"}},
		{name: "too many conns", cfg: with(func(c *Config) { c.DBMaxConns = 101 }), wantErr: true, errSubstr: []string{"DB_MAX_CONNS"}},
		{name: "negative slow query", cfg: with(func(c *Config) { c.SlowQueryMillis = -5 }), wantErr: true, errSubstr: []string{"DB_SLOW_QUERY_MS"}},
		// Slack
		{name: "slack score zero", cfg: with(func(c *Config) { c.SlackMinScore = 0 }), wantErr: true, errSubstr: []string{"SLACK_MIN_SCORE"}},
		{name: "slack score eleven", cfg: with(func(c *Config) { c.SlackMinScore = 11 }), wantErr: true, errSubstr: []string{"SLACK_MIN_SCORE"}},
		// Kafka
		{name: "brokers without topic", cfg: with(func(c *Config) { c.KafkaBrokers, c.KafkaTopic = "k:9092", " " }), wantErr: true, errSubstr: []string{"KAFKA_TOPIC"}},
		{name: "no brokers no topic", cfg: with(func(c *Config) { c.KafkaBrokers, c.KafkaTopic = " , ", "" })},
		// Pacing
		{name: "pacing max below min", cfg: with(func(c *Config) { c.PacingMinMillis, c.PacingMaxMillis = 500, 100 }), wantErr: true, errSubstr: []string{"ASSISTANT_PACING_MAX_MS"}},
		{name: "pacing negative min", cfg: with(func(c *Config) { c.PacingMinMillis = -1 }), wantErr: true, errSubstr: []string{"ASSISTANT_PACING_MIN_MS"}},
		{name: "pacing max too large", cfg: with(func(c *Config) { c.PacingMaxMillis = 10001 }), wantErr: true, errSubstr: []string{"ASSISTANT_PACING_MAX_MS"}},
		{name: "pacing disabled ignores window", cfg: with(func(c *Config) {
			c.PacingEnabled, c.PacingMinMillis, c.PacingMaxMillis = false, 500, 100
		})},
		// Error accumulation: all fields invalid
		{
			name:      "all fields invalid",
			cfg:       Config{PacingEnabled: true, PacingMinMillis: -1, PacingMaxMillis: -2, KafkaBrokers: "k"},
			wantErr:   true,
			errSubstr: []string{"DRAIN_SECONDS", "SHUTDOWN_BUDGET_SECONDS", "HTTP_PORT", "API_TOKEN", "SLACK_MIN_SCORE", "KAFKA_TOPIC", "ASSISTANT_PACING_MIN_MS", "ASSISTANT_PACING_MAX_MS"},
		},
		{
			name:      "extreme negative values",
			cfg:       Config{DrainSeconds: math.MinInt32, ShutdownBudgetSeconds: math.MinInt32, APIPort: math.MinInt32},
			wantErr:   true,
			errSubstr: []string{"DRAIN_SECONDS", "SHUTDOWN_BUDGET_SECONDS", "HTTP_PORT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				errMsg := err.Error()
				for _, sub := range tt.errSubstr {
					if !strings.Contains(errMsg, sub) {
						t.Errorf("error %q does not contain %q", errMsg, sub)
					}
				}
			}
		})
	}
}

func TestDurations(t *testing.T) {
	t.Parallel()

	c := validBase()
	c.SlowQueryMillis = 250
	lo, hi := c.PacingWindow()
	if lo != 800*time.Millisecond || hi != 2*time.Second {
		t.Errorf("PacingWindow = %v..%v, want 800ms..2s", lo, hi)
	}
	if got := c.SlowQuery(); got != 250*time.Millisecond {
		t.Errorf("SlowQuery = %v, want 250ms", got)
	}
}

func FuzzValidate(f *testing.F) {
	seeds := []struct {
		drain, budget, port, score int
		token                      string
	}{
		{60, 90, 8080, 8, "tok"},
		{1, 2, 1, 1, "t"},
		{299, 300, 65535, 10, "t"},
		{0, 0, 0, 0, ""},
		{-1, -1, -1, -1, ""},
		{300, 300, 65535, 8, "t"},
		{301, 302, 65536, 11, ""},
		{150, 100, 8080, 5, "t"},
		{math.MinInt32, math.MinInt32, math.MinInt32, math.MinInt32, ""},
		{math.MaxInt32, math.MaxInt32, math.MaxInt32, math.MaxInt32, ""},
	}
	for _, s := range seeds {
		f.Add(s.drain, s.budget, s.port, s.score, s.token)
	}

	f.Fuzz(func(t *testing.T, drain, budget, port, score int, token string) {
		c := validBase()
		c.DrainSeconds = drain
		c.ShutdownBudgetSeconds = budget
		c.APIPort = port
		c.SlackMinScore = score
		c.APIToken = token
		err := c.Validate()

		allValid := drain >= 1 && drain <= 300 &&
			budget >= 1 && budget <= 300 &&
			port >= 1 && port <= 65535 &&
			budget > drain &&
			score >= 1 && score <= 10 &&
			token != ""

		if allValid && err != nil {
			t.Errorf("expected no error for valid config %+v, got: %v", c, err)
		}
		if !allValid && err == nil {
			t.Errorf("expected error for invalid config %+v, got nil", c)
		}
	})
}
