package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/muselink/muselink-api/internal/models"
	appErrors "github.com/muselink/muselink-api/pkg/errors"
)

// LessonRepository provides database access for dated lesson bookings.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository creates a new instance of LessonRepository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// ExistsScheduled reports whether a scheduled lesson already occupies the
// teacher's (date, time) slot.
func (r *LessonRepository) ExistsScheduled(ctx context.Context, teacherID, lessonDate, lessonTime string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM lessons WHERE teacher_id = $1 AND lesson_date = $2 AND lesson_time = $3 AND status = 'scheduled')`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, teacherID, lessonDate, lessonTime); err != nil {
		return false, fmt.Errorf("check lesson slot: %w", err)
	}
	return exists, nil
}

// Create inserts a lesson. The partial unique index on scheduled lessons
// backs the conflict check; a unique violation surfaces as ErrSlotConflict
// so a concurrent double booking cannot slip through.
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	if lesson.ID == "" {
		lesson.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if lesson.CreatedAt.IsZero() {
		lesson.CreatedAt = now
	}
	lesson.UpdatedAt = now

	const query = `INSERT INTO lessons (id, teacher_id, student_id, student_name, instrument, lesson_date, lesson_time, lesson_type, status, created_at, updated_at) VALUES (:id, :teacher_id, :student_id, :student_name, :instrument, :lesson_date, :lesson_time, :lesson_type, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, lesson); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return appErrors.ErrSlotConflict
		}
		return fmt.Errorf("create lesson: %w", err)
	}
	return nil
}

// FindByID returns a lesson by identifier.
func (r *LessonRepository) FindByID(ctx context.Context, id string) (*models.Lesson, error) {
	const query = `SELECT id, teacher_id, student_id, student_name, instrument, lesson_date, lesson_time, lesson_type, status, created_at, updated_at FROM lessons WHERE id = $1 LIMIT 1`
	var lesson models.Lesson
	if err := r.db.GetContext(ctx, &lesson, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find lesson: %w", err)
	}
	return &lesson, nil
}

// ListByTeacher returns a teacher's lessons ordered by date and time.
func (r *LessonRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Lesson, error) {
	const query = `SELECT id, teacher_id, student_id, student_name, instrument, lesson_date, lesson_time, lesson_type, status, created_at, updated_at FROM lessons WHERE teacher_id = $1 ORDER BY lesson_date, lesson_time`
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, teacherID); err != nil {
		return nil, fmt.Errorf("list lessons by teacher: %w", err)
	}
	return lessons, nil
}

// ListByStudent returns a student's lessons ordered by date and time.
func (r *LessonRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Lesson, error) {
	const query = `SELECT id, teacher_id, student_id, student_name, instrument, lesson_date, lesson_time, lesson_type, status, created_at, updated_at FROM lessons WHERE student_id = $1 ORDER BY lesson_date, lesson_time`
	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, query, studentID); err != nil {
		return nil, fmt.Errorf("list lessons by student: %w", err)
	}
	return lessons, nil
}

// UpdateStatus transitions a lesson's status.
func (r *LessonRepository) UpdateStatus(ctx context.Context, id string, status models.LessonStatus) error {
	const query = `UPDATE lessons SET status = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update lesson status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update lesson status rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
