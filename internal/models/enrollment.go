package models

import "time"

// Enrollment is a recurring (student, teacher, weekday) relationship counted
// against the teacher's capacity. The triple is the primary key: a student
// may study with the same teacher on several distinct days, and re-enrolling
// an existing triple is an idempotent no-op.
type Enrollment struct {
	StudentID string    `db:"student_id" json:"studentId"`
	TeacherID string    `db:"teacher_id" json:"teacherId"`
	DayOfWeek string    `db:"day_of_week" json:"day"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// EnrollmentDetail joins an enrollment with its teacher's public info.
type EnrollmentDetail struct {
	DayOfWeek    string `db:"day_of_week" json:"day"`
	TeacherName  string `db:"teacher_name" json:"teacherName"`
	TeacherEmail string `db:"teacher_email" json:"teacherEmail"`
	Instrument   string `db:"instrument" json:"instrument"`
	Bio          string `db:"bio" json:"bio"`
}

// EnrollRequest creates an enrollment; both parties are keyed by email.
type EnrollRequest struct {
	StudentEmail string `json:"studentEmail" validate:"required,email"`
	TeacherEmail string `json:"teacherEmail" validate:"required,email"`
	Day          string `json:"day" validate:"required"`
}

// ListEnrollmentsRequest lists a student's recurring enrollments.
type ListEnrollmentsRequest struct {
	StudentEmail string `json:"studentEmail" validate:"required,email"`
}
