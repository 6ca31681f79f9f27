package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zjrosen/contractmeta/internal/domain/contract"
	"github.com/zjrosen/contractmeta/internal/log"
	"github.com/zjrosen/contractmeta/internal/tracing"
)

// Service errors
var (
	ErrEmptyName        = errors.New("contract name cannot be empty")
	ErrInvalidTimestamp = errors.New("timestamp must be a date in YYYY-MM-DD format")
	ErrEmptyExtraKey    = errors.New("extra metadata key cannot be empty")
)

// Request describes the contract to build.
type Request struct {
	Name      string            // Required: contract name (e.g., "TokenX")
	Author    string            // Optional: written under "author"
	Timestamp string            // Optional: fixed deploy date; empty uses the service clock
	Signer    string            // Optional: written under "signer"
	Extra     map[string]string // Optional: additional deploy-time keys
}

// Service runs the staged build for a Request, wiring IDs, logging and tracing
// into the domain builder.
type Service struct {
	tracer trace.Tracer
	now    func() time.Time
	newID  func() string
}

// Option configures a Service.
type Option func(*Service)

// WithTracer sets the tracer used for build spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithClock sets the clock used for the default deploy timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator sets the function producing builder correlation IDs.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewService creates a service with a no-op tracer, the wall clock and UUID IDs.
func NewService(opts ...Option) *Service {
	s := &Service{
		tracer: noop.NewTracerProvider().Tracer("noop"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build validates req and runs it through every builder stage, returning the
// deployed contract.
func (s *Service) Build(ctx context.Context, req Request) (*contract.Deployed, error) {
	hook, err := s.deployHook(req)
	if err != nil {
		return nil, err
	}

	id := s.newID()
	_, span := s.tracer.Start(ctx, tracing.SpanContractBuild, trace.WithAttributes(
		attribute.String(tracing.AttrContractID, id),
		attribute.String(tracing.AttrContractName, req.Name),
	))
	defer span.End()

	b := contract.New(req.Name,
		contract.WithID(id),
		contract.WithObserver(logObserver{}),
		contract.WithObserver(&spanObserver{span: span}),
	)
	if req.Author != "" {
		b = b.WithAuthor(req.Author)
	}
	d := b.Validate().OnDeploy(hook)

	keys := len(d.Snapshot())
	span.SetAttributes(
		attribute.String(tracing.AttrStage, d.Stage().String()),
		attribute.Int(tracing.AttrMetadataKeys, keys),
	)
	span.SetStatus(codes.Ok, "")
	log.Info(log.CatContract, "contract deployed", "id", id, "name", req.Name, "keys", keys)
	return d, nil
}

// Extract takes ownership of a deployed contract's metadata. The still-shared
// fallback is logged and recorded on the span before it is returned.
func (s *Service) Extract(ctx context.Context, d *contract.Deployed) (map[string]string, error) {
	_, span := s.tracer.Start(ctx, tracing.SpanContractExtract, trace.WithAttributes(
		attribute.String(tracing.AttrContractID, d.ID()),
	))
	defer span.End()

	d.AddObserver(&spanObserver{span: span})
	m, err := d.IntoInner()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(tracing.AttrErrorMessage, err.Error()))
		log.Warn(log.CatContract, "metadata extraction fell back to empty mapping", "id", d.ID(), "error", err)
		return m, fmt.Errorf("extracting metadata: %w", err)
	}
	span.SetAttributes(attribute.Int(tracing.AttrMetadataKeys, len(m)))
	return m, nil
}

func (s *Service) deployHook(req Request) (contract.DeployHook, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}

	hooks := make([]contract.DeployHook, 0, 2+len(req.Extra))
	if req.Timestamp != "" {
		if _, err := time.Parse(contract.DateLayout, req.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTimestamp, req.Timestamp)
		}
		hooks = append(hooks, contract.Set(contract.KeyTimestamp, req.Timestamp))
	} else {
		hooks = append(hooks, contract.Timestamp(s.now))
	}
	if req.Signer != "" {
		hooks = append(hooks, contract.Signer(req.Signer))
	}
	for k, v := range req.Extra {
		if k == "" {
			return nil, ErrEmptyExtraKey
		}
		hooks = append(hooks, contract.Set(k, v))
	}
	return contract.Chain(hooks...), nil
}
