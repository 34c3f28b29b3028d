package models

import "time"

// ReportType enumerates exportable report categories.
type ReportType string

const (
	ReportTypeRevenueByInstrument ReportType = "revenue-by-instrument"
	ReportTypeRevenueByStudent    ReportType = "revenue-by-student"
	ReportTypePopularInstruments  ReportType = "popular-instruments"
	ReportTypeOverview            ReportType = "overview"
)

// ValidReportType reports whether raw names an exportable report.
func ValidReportType(raw string) bool {
	switch ReportType(raw) {
	case ReportTypeRevenueByInstrument, ReportTypeRevenueByStudent, ReportTypePopularInstruments, ReportTypeOverview:
		return true
	}
	return false
}

// ReportFormat enumerates supported export formats.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// ExportStatus captures background export lifecycle states.
type ExportStatus string

const (
	ExportStatusQueued     ExportStatus = "QUEUED"
	ExportStatusProcessing ExportStatus = "PROCESSING"
	ExportStatusFinished   ExportStatus = "FINISHED"
	ExportStatusFailed     ExportStatus = "FAILED"
)

// ReportExport is a persisted background export job.
type ReportExport struct {
	ID           string       `db:"id" json:"id"`
	Type         ReportType   `db:"report_type" json:"type"`
	Format       ReportFormat `db:"format" json:"format"`
	Status       ExportStatus `db:"status" json:"status"`
	Progress     int          `db:"progress" json:"progress"`
	ResultURL    *string      `db:"result_url" json:"resultUrl,omitempty"`
	ErrorMessage *string      `db:"error_message" json:"error,omitempty"`
	CreatedBy    string       `db:"created_by" json:"createdBy"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
	FinishedAt   *time.Time   `db:"finished_at" json:"finishedAt,omitempty"`
}
