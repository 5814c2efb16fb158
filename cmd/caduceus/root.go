package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/caduceus/internal/triage"
	"github.com/linnemanlabs/caduceus/internal/triage/sqlitestore"
)

const (
	appName = "caduceus"
	dbEnv   = "CADUCEUS_DB"
)

type processRand struct{}

func (processRand) IntN(n int) int { return rand.IntN(n) }

// app carries the persistent flags shared by every subcommand.
type app struct {
	dbPath  string
	format  string
	verbose bool
	logCfg  log.Config
	logger  log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: log.Nop()}

	root := &cobra.Command{
		Use:           appName,
		Short:         "Rule-based triage and clinical knowledge assistant",
		Long:          "Scores patient intakes, keeps a local waiting queue and answers staff questions from the built-in knowledge base.",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.format != "json" && a.format != "text" {
				return fmt.Errorf("invalid --format %q (want json or text)", a.format)
			}
			if !a.verbose {
				return nil
			}
			if err := a.logCfg.Validate(); err != nil {
				return err
			}
			lg, err := log.New(a.logCfg.ToOptions(appName))
			if err != nil {
				return fmt.Errorf("logger init: %w", err)
			}
			a.logger = lg.With("component", "cli")
			cmd.SetContext(log.WithContext(cmd.Context(), a.logger))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.dbPath, "db", "d", "", "History database path (default: $"+dbEnv+" or ~/.caduceus/history.db)")
	pf.StringVarP(&a.format, "format", "f", "text", "Output format: json or text")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Write structured logs")

	// go-core registers its flags on a stdlib FlagSet
	gfs := flag.NewFlagSet(appName, flag.ContinueOnError)
	a.logCfg.RegisterFlags(gfs)
	pf.AddGoFlagSet(gfs)

	root.AddCommand(
		newAssessCmd(a),
		newAskCmd(a),
		newQueueCmd(a),
		newSeenCmd(a),
	)
	return root
}

func (a *app) historyPath() string {
	if a.dbPath != "" {
		return a.dbPath
	}
	if env := os.Getenv(dbEnv); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".caduceus", "history.db")
}

// openService opens the history database and wraps it in a triage service.
// The returned func waits for dispatch and closes the database.
func (a *app) openService() (*triage.Service, func(), error) {
	store, err := sqlitestore.Open(a.historyPath())
	if err != nil {
		return nil, nil, fmt.Errorf("open history: %w", err)
	}
	svc := triage.NewService(store, triage.NewScorer(triage.DefaultCatalog(), processRand{}), a.logger, nil, nil, nil)
	return svc, func() {
		svc.Wait()
		_ = store.Close()
	}, nil
}

func (a *app) writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
