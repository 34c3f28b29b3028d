package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/muselink/muselink-api/internal/models"
	appErrors "github.com/muselink/muselink-api/pkg/errors"
)

// EnrollmentRepository provides database access for student enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository creates a new instance of EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Enroll records an enrollment and claims a roster seat in one
// transaction. A repeated (student, teacher, day) triple is a no-op and
// does not consume a seat. When the insert is new, the seat is claimed
// with a guarded increment; zero rows affected means the roster is full
// and the transaction rolls back with ErrCapacityExceeded.
func (r *EnrollmentRepository) Enroll(ctx context.Context, enrollment *models.Enrollment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin enroll: %w", err)
	}
	defer tx.Rollback()

	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = time.Now().UTC()
	}

	const insertQuery = `INSERT INTO enrollments (student_id, teacher_id, day_of_week, created_at)
		VALUES (:student_id, :teacher_id, :day_of_week, :created_at)
		ON CONFLICT (student_id, teacher_id, day_of_week) DO NOTHING`
	res, err := tx.NamedExecContext(ctx, insertQuery, enrollment)
	if err != nil {
		return fmt.Errorf("insert enrollment: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert enrollment rows: %w", err)
	}
	if inserted == 0 {
		// Already enrolled for this day; the seat was claimed the
		// first time around.
		return tx.Commit()
	}

	const claimQuery = `UPDATE teacher_profiles
		SET current_class_count = current_class_count + 1,
			is_full = (current_class_count + 1 >= class_limit),
			updated_at = $2
		WHERE teacher_id = $1 AND current_class_count < class_limit`
	claim, err := tx.ExecContext(ctx, claimQuery, enrollment.TeacherID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("claim roster seat: %w", err)
	}
	claimed, err := claim.RowsAffected()
	if err != nil {
		return fmt.Errorf("claim roster seat rows: %w", err)
	}
	if claimed == 0 {
		return appErrors.ErrCapacityExceeded
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit enroll: %w", err)
	}
	return nil
}

// Exists reports whether the (student, teacher, day) triple is already
// enrolled.
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, teacherID, dayOfWeek string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM enrollments WHERE student_id = $1 AND teacher_id = $2 AND day_of_week = $3)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, studentID, teacherID, dayOfWeek); err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return exists, nil
}

// ListDetailsByStudent returns a student's enrollments joined with the
// teacher's identity and profile, ordered Monday through Sunday.
func (r *EnrollmentRepository) ListDetailsByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	const query = `SELECT e.day_of_week, a.first_name || ' ' || a.last_name AS teacher_name, a.email AS teacher_email, p.instrument, p.bio
		FROM enrollments e
		JOIN accounts a ON a.id = e.teacher_id
		JOIN teacher_profiles p ON p.teacher_id = e.teacher_id
		WHERE e.student_id = $1
		ORDER BY CASE e.day_of_week
			WHEN 'Monday' THEN 1
			WHEN 'Tuesday' THEN 2
			WHEN 'Wednesday' THEN 3
			WHEN 'Thursday' THEN 4
			WHEN 'Friday' THEN 5
			WHEN 'Saturday' THEN 6
			WHEN 'Sunday' THEN 7
		END`
	var details []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &details, query, studentID); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return details, nil
}

// CountByTeacher returns the number of enrollments against a teacher.
func (r *EnrollmentRepository) CountByTeacher(ctx context.Context, teacherID string) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE teacher_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, teacherID); err != nil {
		return 0, fmt.Errorf("count enrollments: %w", err)
	}
	return total, nil
}
