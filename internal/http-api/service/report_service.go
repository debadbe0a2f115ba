package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"libraryhub/internal/http-api/models"
	"libraryhub/internal/http-api/repository"
)

// ReportLimit is how many rows each report section shows.
const ReportLimit = 5

const reportCacheKey = "libraryhub:reports:summary"

// Cache stores serialized values by key. A nil Cache disables caching.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Report struct {
	TopBooks      []models.Book   `json:"top_books"`
	TopMembers    []models.Member `json:"top_members"`
	RecentRentals []models.Rental `json:"recent_rentals"`
}

type ReportService interface {
	Summary(ctx context.Context) (*Report, error)
}

type reportService struct {
	repos  repository.Repos
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewReportService(repos repository.Repos, cache Cache, ttl time.Duration, logger *zap.Logger) ReportService {
	return &reportService{repos: repos, cache: cache, ttl: ttl, logger: logger}
}

// Summary returns the most rented books, the highest paying members and the latest rentals.
func (s *reportService) Summary(ctx context.Context) (*Report, error) {
	if report, ok := s.cached(ctx); ok {
		return report, nil
	}

	books, err := s.repos.Books.TopRented(ctx, ReportLimit)
	if err != nil {
		return nil, err
	}
	members, err := s.repos.Members.TopPaying(ctx, ReportLimit)
	if err != nil {
		return nil, err
	}
	rentals, err := s.repos.Rentals.Recent(ctx, ReportLimit)
	if err != nil {
		return nil, err
	}

	report := &Report{TopBooks: books, TopMembers: members, RecentRentals: rentals}
	s.store(ctx, report)
	return report, nil
}

func (s *reportService) cached(ctx context.Context) (*Report, bool) {
	if s.cache == nil || s.ttl <= 0 {
		return nil, false
	}
	raw, ok, err := s.cache.Get(ctx, reportCacheKey)
	if err != nil {
		s.logger.Warn("report cache read failed", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var report Report
	if err := json.Unmarshal(raw, &report); err != nil {
		s.logger.Warn("discarding unreadable cached report", zap.Error(err))
		return nil, false
	}
	return &report, true
}

func (s *reportService) store(ctx context.Context, report *Report) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		s.logger.Warn("failed to encode report", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, reportCacheKey, raw, s.ttl); err != nil {
		s.logger.Warn("report cache write failed", zap.Error(err))
	}
}

// invalidateReports drops the cached summary after a write that changes it.
// Failures are logged; the entry expires on its own.
func invalidateReports(ctx context.Context, cache Cache, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Delete(ctx, reportCacheKey); err != nil {
		logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}
