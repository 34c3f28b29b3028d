package models

import "time"

// LessonStatus captures the dated-booking lifecycle.
type LessonStatus string

const (
	LessonStatusScheduled LessonStatus = "scheduled"
	LessonStatusCompleted LessonStatus = "completed"
	LessonStatusCancelled LessonStatus = "cancelled"
)

// LessonType distinguishes delivery formats.
type LessonType string

const (
	LessonTypeInPerson LessonType = "InPerson"
	LessonTypeVirtual  LessonType = "Virtual"
)

// Lesson is a single dated booking. While status is scheduled, the
// (teacher, date, time) triple is exclusive; cancelling frees the slot.
type Lesson struct {
	ID          string       `db:"id" json:"id"`
	TeacherID   string       `db:"teacher_id" json:"teacherId"`
	StudentID   *string      `db:"student_id" json:"studentId,omitempty"`
	StudentName string       `db:"student_name" json:"studentName"`
	Instrument  string       `db:"instrument" json:"instrument"`
	LessonDate  string       `db:"lesson_date" json:"lessonDate"`
	LessonTime  string       `db:"lesson_time" json:"lessonTime"`
	LessonType  LessonType   `db:"lesson_type" json:"lessonType"`
	Status      LessonStatus `db:"status" json:"status"`
	CreatedAt   time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updatedAt"`
}

// BookLessonRequest books a dated slot with a teacher.
type BookLessonRequest struct {
	TeacherEmail string `json:"teacherEmail" validate:"required,email"`
	StudentEmail string `json:"studentEmail" validate:"required,email"`
	LessonDate   string `json:"lessonDate" validate:"required,datetime=2006-01-02"`
	LessonTime   string `json:"lessonTime" validate:"required"`
	Instrument   string `json:"instrument"`
	LessonType   string `json:"lessonType"`
}

// ListLessonsRequest lists dated lessons for one side of the booking.
// Exactly one of the two emails must be supplied.
type ListLessonsRequest struct {
	TeacherEmail string `json:"teacherEmail" validate:"omitempty,email"`
	StudentEmail string `json:"studentEmail" validate:"omitempty,email"`
}

// UpdateLessonStatusRequest completes or cancels a booking.
type UpdateLessonStatusRequest struct {
	LessonID string `json:"lessonId" validate:"required"`
	Status   string `json:"status" validate:"required,oneof=completed cancelled"`
}
