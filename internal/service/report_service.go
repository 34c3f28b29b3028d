package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/muselink/muselink-api/internal/dto"
	appErrors "github.com/muselink/muselink-api/pkg/errors"
)

type reportRepository interface {
	RevenueByInstrument(ctx context.Context) ([]dto.InstrumentRevenueRow, error)
	RevenueByStudent(ctx context.Context) ([]dto.StudentRevenueRow, error)
	PopularInstruments(ctx context.Context) ([]dto.InstrumentPopularityRow, error)
	RepeatCustomers(ctx context.Context) (*dto.RepeatCustomerStats, error)
	Overview(ctx context.Context) (*dto.OverviewStats, error)
}

// ReportConfig tunes report caching.
type ReportConfig struct {
	CacheTTL time.Duration
}

// ReportService serves admin reporting, both live aggregates over real
// data and the canned demo dashboard series.
type ReportService struct {
	reports reportRepository
	cache   cacheStore
	logger  *zap.Logger
	config  ReportConfig
}

// NewReportService constructs a ReportService instance.
func NewReportService(reports reportRepository, cache cacheStore, logger *zap.Logger, config ReportConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{reports: reports, cache: cache, logger: logger, config: config}
}

// RevenueByInstrument aggregates live completed-payment revenue per
// instrument.
func (s *ReportService) RevenueByInstrument(ctx context.Context) ([]dto.InstrumentRevenueRow, error) {
	var rows []dto.InstrumentRevenueRow
	if hit := s.cacheGet(ctx, "reports:revenue-by-instrument", &rows); hit {
		return rows, nil
	}
	rows, err := s.reports.RevenueByInstrument(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build revenue report")
	}
	s.cacheSet(ctx, "reports:revenue-by-instrument", rows)
	return rows, nil
}

// RevenueByStudent aggregates live completed-payment revenue per student.
func (s *ReportService) RevenueByStudent(ctx context.Context) ([]dto.StudentRevenueRow, error) {
	var rows []dto.StudentRevenueRow
	if hit := s.cacheGet(ctx, "reports:revenue-by-student", &rows); hit {
		return rows, nil
	}
	rows, err := s.reports.RevenueByStudent(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build revenue report")
	}
	s.cacheSet(ctx, "reports:revenue-by-student", rows)
	return rows, nil
}

// PopularInstruments counts live enrollments per instrument.
func (s *ReportService) PopularInstruments(ctx context.Context) ([]dto.InstrumentPopularityRow, error) {
	var rows []dto.InstrumentPopularityRow
	if hit := s.cacheGet(ctx, "reports:popular-instruments", &rows); hit {
		return rows, nil
	}
	rows, err := s.reports.PopularInstruments(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build popularity report")
	}
	s.cacheSet(ctx, "reports:popular-instruments", rows)
	return rows, nil
}

// RepeatCustomers reports the live repeat-student ratio.
func (s *ReportService) RepeatCustomers(ctx context.Context) (*dto.RepeatCustomerStats, error) {
	stats, err := s.reports.RepeatCustomers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build repeat customer report")
	}
	return stats, nil
}

// Overview returns the live platform-wide snapshot.
func (s *ReportService) Overview(ctx context.Context) (*dto.OverviewStats, error) {
	var stats dto.OverviewStats
	if hit := s.cacheGet(ctx, "reports:overview", &stats); hit {
		return &stats, nil
	}
	fresh, err := s.reports.Overview(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build overview")
	}
	s.cacheSet(ctx, "reports:overview", fresh)
	return fresh, nil
}

// QuarterlyRevenue returns the canned demo revenue trend shown on the
// admin dashboard before real volume accumulates.
func (s *ReportService) QuarterlyRevenue() []dto.QuarterRevenue {
	return []dto.QuarterRevenue{
		{Quarter: "Q1", Amount: 12500},
		{Quarter: "Q2", Amount: 18200},
		{Quarter: "Q3", Amount: 21400},
		{Quarter: "Q4", Amount: 26800},
	}
}

// ReferralSources returns the canned demo referral breakdown.
func (s *ReportService) ReferralSources() []dto.ReferralSource {
	return []dto.ReferralSource{
		{Source: "Word of mouth", Percentage: 42},
		{Source: "Social media", Percentage: 28},
		{Source: "Search", Percentage: 19},
		{Source: "Flyers", Percentage: 11},
	}
}

// DemoRepeatCustomers returns the canned demo repeat-customer stats.
func (s *ReportService) DemoRepeatCustomers() dto.RepeatCustomerStats {
	return dto.RepeatCustomerStats{
		TotalStudents:  120,
		RepeatStudents: 78,
		Percentage:     65,
	}
}

func (s *ReportService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	err := s.cache.Get(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
	}
	return false
}

func (s *ReportService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.config.CacheTTL); err != nil {
		s.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}
