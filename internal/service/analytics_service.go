package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Huerte/AcademiQly/internal/analytics"
	"github.com/Huerte/AcademiQly/internal/dto"
	"github.com/Huerte/AcademiQly/internal/grading"
	"github.com/Huerte/AcademiQly/internal/observability"
	"github.com/Huerte/AcademiQly/internal/repository"
)

const recentWindow = 30 * 24 * time.Hour

// AnalyticsService builds the cohort report.
type AnalyticsService interface {
	Report(ctx context.Context, query dto.AnalyticsReportQuery) (dto.AnalyticsReportResponse, error)
}

type analyticsService struct {
	repo             repository.AnalyticsRepository
	sweeper          Sweeper
	cache            *redis.Client
	cacheTTL         time.Duration
	defaultThreshold int
	logger           zerolog.Logger
	now              func() time.Time
}

// NewAnalyticsService constructs the analytics service. cache may be nil.
func NewAnalyticsService(repo repository.AnalyticsRepository, sweeper Sweeper, cache *redis.Client, ttl time.Duration, defaultThreshold int, logger zerolog.Logger) AnalyticsService {
	return &analyticsService{
		repo:             repo,
		sweeper:          sweeper,
		cache:            cache,
		cacheTTL:         ttl,
		defaultThreshold: defaultThreshold,
		logger:           logger.With().Str("component", "analytics_service").Logger(),
		now:              time.Now,
	}
}

func (s *analyticsService) Report(ctx context.Context, query dto.AnalyticsReportQuery) (dto.AnalyticsReportResponse, error) {
	if query.From != nil && query.To != nil && !query.From.Before(*query.To) {
		return dto.AnalyticsReportResponse{}, fmt.Errorf("%w: from must be before to", ErrValidation)
	}

	tracer := otel.Tracer("github.com/Huerte/AcademiQly/internal/service/analytics")
	ctx, span := tracer.Start(ctx, "analytics.aggregate")
	defer span.End()

	start := time.Now()

	if s.sweeper != nil {
		if _, err := s.sweeper.Sweep(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "sweep_failed")
			return dto.AnalyticsReportResponse{}, err
		}
	}

	cacheKey := ""
	if s.cache != nil {
		version, err := s.repo.DataVersion(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "data_version_failed")
			return dto.AnalyticsReportResponse{}, err
		}
		cacheKey = reportCacheKey(query, version)
		span.SetAttributes(attribute.String("analytics.cache_key", cacheKey))

		cached, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var response dto.AnalyticsReportResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				span.SetAttributes(attribute.Bool("analytics.cache_hit", true))
				observability.AnalyticsReportDuration().WithLabelValues("hit").Observe(time.Since(start).Seconds())
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read analytics cache")
			span.RecordError(err)
		}
	}

	now := s.now()
	dataset, err := s.loadDataset(ctx, query, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load_dataset_failed")
		return dto.AnalyticsReportResponse{}, err
	}

	response := dto.AnalyticsReportResponse{Report: analytics.Compute(dataset, now)}
	span.SetAttributes(
		attribute.Int("analytics.record_count", len(dataset.Records)),
		attribute.Int("analytics.graded_count", response.GradedSubmissions),
	)

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store analytics cache")
				span.RecordError(err)
			}
		}
	}

	observability.AnalyticsReportDuration().WithLabelValues("miss").Observe(time.Since(start).Seconds())
	return response, nil
}

func (s *analyticsService) loadDataset(ctx context.Context, query dto.AnalyticsReportQuery, now time.Time) (analytics.Dataset, error) {
	totals, err := s.repo.Totals(ctx, now.Add(-recentWindow))
	if err != nil {
		return analytics.Dataset{}, err
	}

	records, err := s.repo.ListRecords(ctx, repository.AnalyticsScope{RoomID: query.RoomID, From: query.From, To: query.To})
	if err != nil {
		return analytics.Dataset{}, err
	}

	threshold := grading.Threshold(nil, s.defaultThreshold)
	if average, ok, err := s.repo.AveragePassingThreshold(ctx); err != nil {
		return analytics.Dataset{}, err
	} else if ok {
		threshold = grading.Threshold(&average, s.defaultThreshold)
	}

	departments, err := s.repo.TeachersByDepartment(ctx)
	if err != nil {
		return analytics.Dataset{}, err
	}

	active, err := s.repo.ActiveTeachers(ctx, analytics.TopLimit)
	if err != nil {
		return analytics.Dataset{}, err
	}

	return analytics.Dataset{
		Totals:               totals,
		Records:              records,
		DefaultThreshold:     threshold,
		TeachersByDepartment: departments,
		ActiveTeachers:       active,
	}, nil
}

// reportCacheKey embeds the data version so any write to the underlying
// records moves readers to a fresh key.
func reportCacheKey(query dto.AnalyticsReportQuery, version string) string {
	parts := []string{"analytics:report", "v=" + reportVersionDigest(version)}
	if query.RoomID != nil {
		parts = append(parts, fmt.Sprintf("room=%d", *query.RoomID))
	}
	if query.From != nil {
		parts = append(parts, "from="+query.From.UTC().Format(time.RFC3339))
	}
	if query.To != nil {
		parts = append(parts, "to="+query.To.UTC().Format(time.RFC3339))
	}
	return strings.Join(parts, ":")
}

func reportVersionDigest(version string) string {
	sum := sha256.Sum256([]byte(version))
	return hex.EncodeToString(sum[:8])
}
