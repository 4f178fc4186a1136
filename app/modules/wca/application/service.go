package wcaservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	wcaclient "github.com/Black-And-White-Club/wcif-bot/app/modules/wca/infrastructure/client"
	wcametrics "github.com/Black-And-White-Club/wcif-bot/app/modules/wca/infrastructure/metrics"
	wcifservice "github.com/Black-And-White-Club/wcif-bot/app/modules/wcif/application"
	wcifdomain "github.com/Black-And-White-Club/wcif-bot/app/modules/wcif/domain"
	wcifcodec "github.com/Black-And-White-Club/wcif-bot/app/modules/wcif/infrastructure/codec"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "SyncService"

// ErrMutationFailed wraps errors returned by Update callbacks.
var ErrMutationFailed = errors.New("mutation failed")

// SyncService implements Service.
type SyncService struct {
	client  WCIFClient
	logger  *slog.Logger
	metrics wcametrics.Metrics
	tracer  trace.Tracer
}

// NewSyncService creates a new SyncService.
func NewSyncService(
	client WCIFClient,
	logger *slog.Logger,
	metrics wcametrics.Metrics,
	tracer trace.Tracer,
) *SyncService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncService{
		client:  client,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
	}
}

// Load fetches and parses the competition's WCIF.
func (s *SyncService) Load(ctx context.Context, competitionID string) (*wcifservice.Container, error) {
	return withTelemetry(s, ctx, "Load", competitionID, func(ctx context.Context) (*wcifservice.Container, error) {
		return s.load(ctx, competitionID)
	})
}

func (s *SyncService) load(ctx context.Context, competitionID string) (*wcifservice.Container, error) {
	raw, err := s.client.Fetch(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch wcif: %w", err)
	}
	c, err := wcifcodec.Parse([]byte(raw), wcifservice.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Push serializes the container and patches it to the competition.
func (s *SyncService) Push(ctx context.Context, competitionID string, c *wcifservice.Container) (string, error) {
	return withTelemetry(s, ctx, "Push", competitionID, func(ctx context.Context) (string, error) {
		return s.push(ctx, competitionID, c)
	})
}

func (s *SyncService) push(ctx context.Context, competitionID string, c *wcifservice.Container) (string, error) {
	data, err := wcifcodec.Serialize(c.Wcif())
	if err != nil {
		return "", err
	}
	resp, err := s.client.Send(ctx, competitionID, string(data))
	if err != nil {
		return "", fmt.Errorf("failed to send wcif: %w", err)
	}
	return resp, nil
}

// Update loads the competition, applies mutate and pushes the result. Nothing
// is sent when mutate fails.
func (s *SyncService) Update(ctx context.Context, competitionID string, mutate func(*wcifservice.Container) error) (*wcifservice.Container, error) {
	return withTelemetry(s, ctx, "Update", competitionID, func(ctx context.Context) (*wcifservice.Container, error) {
		return s.update(ctx, competitionID, mutate)
	})
}

func (s *SyncService) update(ctx context.Context, competitionID string, mutate func(*wcifservice.Container) error) (*wcifservice.Container, error) {
	c, err := s.load(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	if err := mutate(c); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMutationFailed, err)
	}
	if _, err := s.push(ctx, competitionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddGroups splits a round activity into groups on the WCA side.
func (s *SyncService) AddGroups(ctx context.Context, competitionID, eventID string, round, groups int) ([]wcifdomain.Activity, error) {
	identifier := fmt.Sprintf("%s/%s", competitionID, wcifdomain.RoundID(eventID, round))
	return withTelemetry(s, ctx, "AddGroups", identifier, func(ctx context.Context) ([]wcifdomain.Activity, error) {
		var added []wcifdomain.Activity
		_, err := s.update(ctx, competitionID, func(c *wcifservice.Container) error {
			var err error
			added, err = c.AddGroupsToEvent(eventID, round, groups)
			return err
		})
		if err != nil {
			return nil, err
		}
		return added, nil
	})
}

// ManagedCompetitions lists the competitions the user manages, ordered as
// returned by the WCA.
func (s *SyncService) ManagedCompetitions(ctx context.Context, includeCancelled bool) ([]wcaclient.Competition, error) {
	return withTelemetry(s, ctx, "ManagedCompetitions", "me", func(ctx context.Context) ([]wcaclient.Competition, error) {
		all, err := s.client.ListCompetitions(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list competitions: %w", err)
		}
		if includeCancelled {
			return all, nil
		}
		out := make([]wcaclient.Competition, 0, len(all))
		for _, c := range all {
			if !c.IsCancelled() {
				out = append(out, c)
			}
		}
		return out, nil
	})
}

// isDomainFailure reports errors caused by the document or the request rather
// than by infrastructure.
func isDomainFailure(err error) bool {
	var pe *wcifcodec.ParseError
	return errors.As(err, &pe) ||
		errors.Is(err, wcifservice.ErrNotFound) ||
		errors.Is(err, wcifservice.ErrInvalidGroupCount) ||
		errors.Is(err, wcaclient.ErrScopeNotGranted) ||
		errors.Is(err, ErrMutationFailed)
}

func withTelemetry[T any](
	s *SyncService,
	ctx context.Context,
	operationName string,
	identifier string,
	op func(ctx context.Context) (T, error),
) (result T, err error) {
	ctx = ensureCorrelationID(ctx)

	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
			attribute.String("correlation_id", CorrelationID(ctx)),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)
	}

	startTime := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
		}
	}()

	s.logger.InfoContext(ctx, "Operation triggered",
		correlationAttr(ctx),
		slog.String("operation", operationName),
		slog.String("identifier", identifier),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				correlationAttr(ctx),
				slog.String("identifier", identifier),
				slog.Any("error", err),
			)
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			}
			span.RecordError(err)
			var zero T
			result = zero
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		if isDomainFailure(err) {
			s.logger.WarnContext(ctx, "Operation returned failure result",
				correlationAttr(ctx),
				slog.String("operation", operationName),
				slog.String("identifier", identifier),
				slog.Any("error", err),
			)
		} else {
			s.logger.ErrorContext(ctx, "Operation failed with error",
				correlationAttr(ctx),
				slog.String("operation", operationName),
				slog.String("identifier", identifier),
				slog.Any("error", wrappedErr),
			)
		}
		if s.metrics != nil {
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		}
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	s.logger.InfoContext(ctx, "Operation completed successfully",
		correlationAttr(ctx),
		slog.String("operation", operationName),
		slog.String("identifier", identifier),
	)
	if s.metrics != nil {
		s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	}
	return result, nil
}
