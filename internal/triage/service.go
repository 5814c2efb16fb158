package triage

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/linnemanlabs/go-core/log"
	"github.com/linnemanlabs/go-core/xerrors"
)

var tracer = otel.Tracer("github.com/linnemanlabs/caduceus/internal/triage")

// ErrEmptySymptoms is returned by Admit when there is nothing to assess.
// Assess itself accepts empty text.
var ErrEmptySymptoms = errors.New("symptoms are required")

// Notifier is told about every admitted record at or above its threshold.
type Notifier interface {
	Notify(ctx context.Context, r *Record) error
}

// Publisher emits admitted records to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, r *Record) error
}

// AdmitRequest is an intake submission.
type AdmitRequest struct {
	PatientName string `json:"patient_name"`
	Request
}

// Service is the business boundary for intake triage.
type Service struct {
	store     Store
	scorer    *Scorer
	logger    log.Logger
	metrics   *Metrics
	notifier  Notifier
	publisher Publisher
	now       func() time.Time

	wg sync.WaitGroup
}

// NewService creates a new triage service. metrics, notifier and publisher may be nil.
func NewService(store Store, scorer *Scorer, logger log.Logger, metrics *Metrics, notifier Notifier, publisher Publisher) *Service {
	if store == nil {
		panic(xerrors.New("triage store is required"))
	}
	if scorer == nil {
		panic(xerrors.New("triage scorer is required"))
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{
		store:     store,
		scorer:    scorer,
		logger:    logger,
		metrics:   metrics,
		notifier:  notifier,
		publisher: publisher,
		now:       time.Now,
	}
}

// Assess scores a request without persisting it.
func (s *Service) Assess(ctx context.Context, req Request) Assessment {
	_, span := tracer.Start(ctx, "triage.Assess")
	defer span.End()

	a := s.scorer.Assess(req)
	s.observe(a)
	annotate(span, a)
	return a
}

// Admit assesses a request, stores the resulting record and dispatches
// notifications in the background.
func (s *Service) Admit(ctx context.Context, req AdmitRequest) (*Record, error) {
	ctx, span := tracer.Start(ctx, "triage.Admit")
	defer span.End()

	if strings.TrimSpace(req.Symptoms) == "" {
		s.countAdmit("rejected")
		return nil, ErrEmptySymptoms
	}
	if req.Gender == "" {
		req.Gender = GenderUnknown
	}

	a := s.scorer.Assess(req.Request)
	s.observe(a)
	annotate(span, a)

	rec := &Record{
		ID:          ulid.Make().String(),
		PatientName: req.PatientName,
		Age:         req.Age,
		Gender:      req.Gender,
		Symptoms:    req.Symptoms,
		Vitals:      req.Vitals,
		Assessment:  a,
		Status:      StatusWaiting,
		CreatedAt:   s.now().UTC(),
	}
	span.SetAttributes(attribute.String("caduceus.record.id", rec.ID))

	if err := s.store.Put(ctx, rec); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.countAdmit("error")
		return nil, err
	}
	s.countAdmit("admitted")

	L := s.logger.With("record_id", rec.ID, "level", a.PriorityLevel)
	L.Info(ctx, "patient admitted",
		"score", a.PriorityScore,
		"department", a.RecommendedDepartment,
		"matched", len(a.MatchedSymptoms),
	)

	// dispatch on a copy so callers can keep using rec
	cp := *rec
	s.wg.Add(1)
	go s.dispatch(context.WithoutCancel(ctx), &cp)

	return rec, nil
}

// Get retrieves a record by ID.
func (s *Service) Get(ctx context.Context, id string) (*Record, bool, error) {
	return s.store.Get(ctx, id)
}

// Queue returns waiting records, most urgent first.
func (s *Service) Queue(ctx context.Context, limit int) ([]*Record, error) {
	return s.store.ListWaiting(ctx, limit)
}

// MarkSeen moves a waiting record out of the queue. Marking an already seen
// record is a no-op.
func (s *Service) MarkSeen(ctx context.Context, id string) (*Record, bool, error) {
	rec, ok, err := s.store.Get(ctx, id)
	if err != nil || !ok {
		return nil, ok, err
	}
	if rec.Status == StatusSeen {
		return rec, true, nil
	}
	rec.Status = StatusSeen
	rec.SeenAt = s.now().UTC()
	if err := s.store.Put(ctx, rec); err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// Wait blocks until background dispatches started by Admit have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) dispatch(ctx context.Context, rec *Record) {
	defer s.wg.Done()

	L := s.logger.With("record_id", rec.ID)

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, rec)
		s.countNotify("events", err)
		if err != nil {
			L.Error(ctx, err, "failed to publish assessment")
		}
	}

	if s.notifier != nil {
		err := s.notifier.Notify(ctx, rec)
		s.countNotify("notifier", err)
		if err != nil {
			L.Error(ctx, err, "failed to send notification")
		}
	}
}

func (s *Service) observe(a Assessment) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveAssessment(a)
}

func (s *Service) countAdmit(result string) {
	if s.metrics == nil {
		return
	}
	s.metrics.AdmissionsTotal.WithLabelValues(result).Inc()
}

func (s *Service) countNotify(channel string, err error) {
	if s.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.DispatchTotal.WithLabelValues(channel, status).Inc()
}

func annotate(span trace.Span, a Assessment) {
	span.SetAttributes(
		attribute.Int("caduceus.triage.score", a.PriorityScore),
		attribute.String("caduceus.triage.level", string(a.PriorityLevel)),
		attribute.String("caduceus.triage.department", a.RecommendedDepartment),
	)
}
