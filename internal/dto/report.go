package dto

import "github.com/muselink/muselink-api/internal/models"

// InstrumentRevenueRow aggregates completed payments per instrument.
type InstrumentRevenueRow struct {
	Instrument   string  `db:"instrument" json:"instrument"`
	Revenue      float64 `db:"revenue" json:"revenue"`
	PaymentCount int     `db:"payment_count" json:"paymentCount"`
}

// StudentRevenueRow aggregates completed payments per student.
type StudentRevenueRow struct {
	StudentID   string  `db:"student_id" json:"studentId"`
	StudentName string  `db:"student_name" json:"studentName"`
	Revenue     float64 `db:"revenue" json:"revenue"`
}

// InstrumentPopularityRow counts enrollments per instrument.
type InstrumentPopularityRow struct {
	Instrument      string `db:"instrument" json:"instrument"`
	EnrollmentCount int    `db:"enrollment_count" json:"enrollmentCount"`
}

// RepeatCustomerStats is the repeat-customer ratio report.
type RepeatCustomerStats struct {
	TotalStudents  int     `db:"total_students" json:"totalStudents"`
	RepeatStudents int     `db:"repeat_students" json:"repeatStudents"`
	Percentage     float64 `json:"percentage"`
}

// OverviewStats is a snapshot of platform-wide counts.
type OverviewStats struct {
	TotalStudents   int     `db:"total_students" json:"totalStudents"`
	TotalTeachers   int     `db:"total_teachers" json:"totalTeachers"`
	TotalLessons    int     `db:"total_lessons" json:"totalLessons"`
	TotalRevenue    float64 `db:"total_revenue" json:"totalRevenue"`
	TotalAdminFees  float64 `db:"total_admin_fees" json:"totalAdminFees"`
	ScheduledCount  int     `db:"scheduled_count" json:"scheduledCount"`
	CompletedCount  int     `db:"completed_count" json:"completedCount"`
	CancelledCount  int     `db:"cancelled_count" json:"cancelledCount"`
	EnrollmentCount int     `db:"enrollment_count" json:"enrollmentCount"`
}

// QuarterRevenue is one bar of the demo quarterly trend.
type QuarterRevenue struct {
	Quarter string  `json:"quarter"`
	Amount  float64 `json:"amount"`
}

// ReferralSource is one slice of the demo referral breakdown.
type ReferralSource struct {
	Source     string  `json:"source"`
	Percentage float64 `json:"percentage"`
}

// CreateExportRequest queues a background report export.
type CreateExportRequest struct {
	Type   string `json:"type" validate:"required"`
	Format string `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportStatusRequest polls a queued export.
type ExportStatusRequest struct {
	ExportID string `json:"exportId" validate:"required"`
}

// ExportJobResponse acknowledges a queued export.
type ExportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ExportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ExportStatusResponse reports export progress and result location.
type ExportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ExportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
