package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muselink/muselink-api/internal/dto"
)

type mockReportRepo struct {
	instrumentRows []dto.InstrumentRevenueRow
	studentRows    []dto.StudentRevenueRow
	popularityRows []dto.InstrumentPopularityRow
	repeatStats    *dto.RepeatCustomerStats
	overview       *dto.OverviewStats
	calls          map[string]int
}

func (m *mockReportRepo) count(name string) {
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[name]++
}

func (m *mockReportRepo) RevenueByInstrument(ctx context.Context) ([]dto.InstrumentRevenueRow, error) {
	m.count("revenue-by-instrument")
	return m.instrumentRows, nil
}

func (m *mockReportRepo) RevenueByStudent(ctx context.Context) ([]dto.StudentRevenueRow, error) {
	m.count("revenue-by-student")
	return m.studentRows, nil
}

func (m *mockReportRepo) PopularInstruments(ctx context.Context) ([]dto.InstrumentPopularityRow, error) {
	m.count("popular-instruments")
	return m.popularityRows, nil
}

func (m *mockReportRepo) RepeatCustomers(ctx context.Context) (*dto.RepeatCustomerStats, error) {
	m.count("repeat-customers")
	return m.repeatStats, nil
}

func (m *mockReportRepo) Overview(ctx context.Context) (*dto.OverviewStats, error) {
	m.count("overview")
	return m.overview, nil
}

func TestRevenueByInstrumentCached(t *testing.T) {
	repo := &mockReportRepo{instrumentRows: []dto.InstrumentRevenueRow{
		{Instrument: "Piano", Revenue: 420, PaymentCount: 7},
	}}
	cache := &recordingCache{}
	svc := NewReportService(repo, cache, nil, ReportConfig{})

	rows, err := svc.RevenueByInstrument(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Piano", rows[0].Instrument)
	assert.Contains(t, cache.store, "reports:revenue-by-instrument")

	_, err = svc.RevenueByInstrument(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls["revenue-by-instrument"])
}

func TestOverviewWithoutCache(t *testing.T) {
	repo := &mockReportRepo{overview: &dto.OverviewStats{
		TotalStudents: 8,
		TotalTeachers: 8,
		TotalLessons:  3,
		TotalRevenue:  350,
	}}
	svc := NewReportService(repo, nil, nil, ReportConfig{})

	stats, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, stats.TotalStudents)
	assert.InDelta(t, 350.0, stats.TotalRevenue, 0.001)
}

func TestDemoDashboardSeries(t *testing.T) {
	svc := NewReportService(&mockReportRepo{}, nil, nil, ReportConfig{})

	quarters := svc.QuarterlyRevenue()
	require.Len(t, quarters, 4)
	assert.Equal(t, "Q1", quarters[0].Quarter)
	assert.InDelta(t, 26800.0, quarters[3].Amount, 0.001)

	sources := svc.ReferralSources()
	require.Len(t, sources, 4)
	var totalShare float64
	for _, source := range sources {
		totalShare += source.Percentage
	}
	assert.InDelta(t, 100.0, totalShare, 0.001)

	repeat := svc.DemoRepeatCustomers()
	assert.Equal(t, 120, repeat.TotalStudents)
	assert.Equal(t, 78, repeat.RepeatStudents)
}
