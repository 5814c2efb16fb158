package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/linnemanlabs/go-core/log"

	cc "github.com/linnemanlabs/caduceus/internal/cfg"
	"github.com/linnemanlabs/caduceus/internal/directory"
	"github.com/linnemanlabs/caduceus/internal/events"
	"github.com/linnemanlabs/caduceus/internal/knowledge"
	"github.com/linnemanlabs/caduceus/internal/notify/slack"
	"github.com/linnemanlabs/caduceus/internal/postgres"
	"github.com/linnemanlabs/caduceus/internal/triage"
	"github.com/linnemanlabs/caduceus/internal/triage/memstore"
	"github.com/linnemanlabs/caduceus/internal/triage/pgstore"
)

// processRand draws from the math/rand/v2 top-level source.
type processRand struct{}

func (processRand) IntN(n int) int { return rand.IntN(n) }

// components is everything the API needs, plus the hooks to tear it down.
type components struct {
	triage    *triage.Service
	assistant *knowledge.Responder
	directory *directory.Store

	closers []closer
}

type closer struct {
	name string
	fn   func(context.Context) error
}

// close runs teardown in reverse construction order.
func (c *components) close(ctx context.Context, L log.Logger) {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].fn(ctx); err != nil {
			L.Error(ctx, err, c.closers[i].name+" shutdown")
		}
	}
}

func newComponents(ctx context.Context, appCfg *cc.Config, reg prometheus.Registerer, L log.Logger) (_ *components, err error) {
	c := &components{}
	defer func() {
		if err != nil {
			c.close(context.Background(), L)
		}
	}()

	triageStore, err := c.openTriageStore(ctx, appCfg, reg, L)
	if err != nil {
		return nil, err
	}

	seed := directory.DefaultSeed()
	if appCfg.DirectoryPath != "" {
		if seed, err = directory.LoadSeed(appCfg.DirectoryPath); err != nil {
			return nil, fmt.Errorf("directory seed: %w", err)
		}
		L.Info(ctx, "loaded directory seed", "path", appCfg.DirectoryPath, "staff", len(seed.Staff), "departments", len(seed.Departments))
	}
	c.directory = directory.NewStore(seed)

	catalog := knowledge.DefaultCatalog()
	if appCfg.KnowledgeBasePath != "" {
		if catalog, err = knowledge.LoadCatalog(appCfg.KnowledgeBasePath); err != nil {
			return nil, fmt.Errorf("knowledge base: %w", err)
		}
		L.Info(ctx, "loaded knowledge base", "path", appCfg.KnowledgeBasePath, "protocols", len(catalog.Protocols), "drugs", len(catalog.Drugs))
	}

	var pacer knowledge.Pacer = knowledge.NoPacer{}
	if appCfg.PacingEnabled {
		lo, hi := appCfg.PacingWindow()
		pacer = knowledge.RandomPacer{Min: lo, Max: hi, Rand: processRand{}}
	}
	c.assistant = knowledge.NewResponder(catalog, processRand{}, pacer, knowledge.NewMetrics(reg))

	// notifier and publisher stay nil interfaces when disabled
	var notifier triage.Notifier
	if appCfg.SlackWebhookURL != "" {
		notifier = slack.New(appCfg.SlackWebhookURL, appCfg.SlackMinScore, L)
		L.Info(ctx, "notifier enabled", "type", "slack", "min_score", appCfg.SlackMinScore)
	}

	var publisher triage.Publisher
	if brokers := appCfg.Brokers(); len(brokers) > 0 {
		pub := events.NewPublisher(brokers, appCfg.KafkaTopic, L)
		c.closers = append(c.closers, closer{"kafka publisher", func(context.Context) error { return pub.Close() }})
		publisher = pub
		L.Info(ctx, "event publisher enabled", "type", "kafka", "brokers", brokers, "topic", appCfg.KafkaTopic)
	}

	svc := triage.NewService(triageStore, triage.NewScorer(triage.DefaultCatalog(), processRand{}), L, triage.NewMetrics(reg), notifier, publisher)
	// pending dispatches must finish before the publisher closes
	c.closers = append(c.closers, closer{"triage dispatch", func(ctx context.Context) error {
		done := make(chan struct{})
		go func() {
			svc.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return fmt.Errorf("waiting for triage dispatch: %w", ctx.Err())
		}
	}})
	c.triage = svc

	return c, nil
}

func (c *components) openTriageStore(ctx context.Context, appCfg *cc.Config, reg prometheus.Registerer, L log.Logger) (triage.Store, error) {
	if appCfg.DatabaseURL == "" {
		L.Info(ctx, "using in-memory store (no database-url configured)")
		return memstore.New(), nil
	}

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "caduceus_db_query_duration_seconds",
		Help:    "Duration of individual database queries.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "outcome"})
	reg.MustRegister(dbQueryDuration)
	postgres.SetQueryObserver(postgres.QueryObserverFunc(
		func(_ context.Context, method, route, outcome string, dur time.Duration) {
			dbQueryDuration.WithLabelValues(method, route, outcome).Observe(dur.Seconds())
		},
	))

	pool, err := postgres.NewPool(ctx, appCfg.DatabaseURL, postgres.PoolOptions{
		MaxConns:       int32(appCfg.DBMaxConns), //nolint:gosec // bounded 0..100 by Validate
		SlowQuery:      appCfg.SlowQuery(),
		ConnectTimeout: 10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	c.closers = append(c.closers, closer{"postgres pool", func(context.Context) error {
		pool.Close()
		return nil
	}})

	store, err := pgstore.New(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("pgstore init: %w", err)
	}
	L.Info(ctx, "using postgres store")
	return store, nil
}
