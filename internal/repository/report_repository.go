package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/muselink/muselink-api/internal/dto"
)

// ReportRepository runs aggregate queries for admin reporting.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new instance of ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// RevenueByInstrument aggregates completed payment revenue per instrument,
// highest earners first.
func (r *ReportRepository) RevenueByInstrument(ctx context.Context) ([]dto.InstrumentRevenueRow, error) {
	const query = `SELECT tp.instrument, COALESCE(SUM(p.amount), 0) AS revenue, COUNT(p.id) AS payment_count
		FROM payments p
		JOIN teacher_profiles tp ON tp.teacher_id = p.teacher_id
		WHERE p.status = 'Completed'
		GROUP BY tp.instrument
		ORDER BY revenue DESC`
	var rows []dto.InstrumentRevenueRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("revenue by instrument: %w", err)
	}
	return rows, nil
}

// RevenueByStudent aggregates completed payment revenue per student,
// highest spenders first.
func (r *ReportRepository) RevenueByStudent(ctx context.Context) ([]dto.StudentRevenueRow, error) {
	const query = `SELECT p.student_id, a.first_name || ' ' || a.last_name AS student_name, COALESCE(SUM(p.amount), 0) AS revenue
		FROM payments p
		JOIN accounts a ON a.id = p.student_id
		WHERE p.status = 'Completed'
		GROUP BY p.student_id, student_name
		ORDER BY revenue DESC`
	var rows []dto.StudentRevenueRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("revenue by student: %w", err)
	}
	return rows, nil
}

// PopularInstruments counts enrollments per instrument.
func (r *ReportRepository) PopularInstruments(ctx context.Context) ([]dto.InstrumentPopularityRow, error) {
	const query = `SELECT tp.instrument, COUNT(*) AS enrollment_count
		FROM enrollments e
		JOIN teacher_profiles tp ON tp.teacher_id = e.teacher_id
		GROUP BY tp.instrument
		ORDER BY enrollment_count DESC`
	var rows []dto.InstrumentPopularityRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("popular instruments: %w", err)
	}
	return rows, nil
}

// RepeatCustomers counts students with at least one enrollment and the
// subset enrolled with more than one teacher or day.
func (r *ReportRepository) RepeatCustomers(ctx context.Context) (*dto.RepeatCustomerStats, error) {
	const query = `SELECT
		COUNT(*) AS total_students,
		COUNT(*) FILTER (WHERE enrollment_count > 1) AS repeat_students
		FROM (SELECT student_id, COUNT(*) AS enrollment_count FROM enrollments GROUP BY student_id) s`
	var stats dto.RepeatCustomerStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("repeat customers: %w", err)
	}
	if stats.TotalStudents > 0 {
		stats.Percentage = float64(stats.RepeatStudents) / float64(stats.TotalStudents) * 100
	}
	return &stats, nil
}

// Overview gathers platform-wide counts in a single round trip.
func (r *ReportRepository) Overview(ctx context.Context) (*dto.OverviewStats, error) {
	const query = `SELECT
		(SELECT COUNT(*) FROM accounts WHERE role = 'student') AS total_students,
		(SELECT COUNT(*) FROM accounts WHERE role = 'teacher') AS total_teachers,
		(SELECT COUNT(*) FROM lessons) AS total_lessons,
		(SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'Completed') AS total_revenue,
		(SELECT COALESCE(SUM(admin_fee), 0) FROM payments WHERE status = 'Completed') AS total_admin_fees,
		(SELECT COUNT(*) FROM lessons WHERE status = 'scheduled') AS scheduled_count,
		(SELECT COUNT(*) FROM lessons WHERE status = 'completed') AS completed_count,
		(SELECT COUNT(*) FROM lessons WHERE status = 'cancelled') AS cancelled_count,
		(SELECT COUNT(*) FROM enrollments) AS enrollment_count`
	var stats dto.OverviewStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("report overview: %w", err)
	}
	return &stats, nil
}
