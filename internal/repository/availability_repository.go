package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/muselink/muselink-api/internal/models"
)

// AvailabilityRepository provides database access for weekly availability
// slots.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository creates a new instance of AvailabilityRepository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ReplaceAll swaps a teacher's full weekly schedule for the given slots in
// a single transaction.
func (r *AvailabilityRepository) ReplaceAll(ctx context.Context, teacherID string, slots []models.AvailabilitySlot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace availability: %w", err)
	}
	defer tx.Rollback()

	const deleteQuery = `DELETE FROM availability_slots WHERE teacher_id = $1`
	if _, err := tx.ExecContext(ctx, deleteQuery, teacherID); err != nil {
		return fmt.Errorf("clear availability: %w", err)
	}

	const insertQuery = `INSERT INTO availability_slots (teacher_id, day_of_week, start_time, end_time, available, created_at, updated_at) VALUES (:teacher_id, :day_of_week, :start_time, :end_time, :available, :created_at, :updated_at)`
	now := time.Now().UTC()
	for i := range slots {
		slots[i].TeacherID = teacherID
		slots[i].CreatedAt = now
		slots[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, insertQuery, slots[i]); err != nil {
			return fmt.Errorf("insert availability slot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace availability: %w", err)
	}
	return nil
}

// Upsert inserts a single slot or updates the end time and available flag
// of an existing one keyed by (teacher, day, start).
func (r *AvailabilityRepository) Upsert(ctx context.Context, slot *models.AvailabilitySlot) error {
	now := time.Now().UTC()
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = now
	}
	slot.UpdatedAt = now

	const query = `INSERT INTO availability_slots (teacher_id, day_of_week, start_time, end_time, available, created_at, updated_at)
		VALUES (:teacher_id, :day_of_week, :start_time, :end_time, :available, :created_at, :updated_at)
		ON CONFLICT (teacher_id, day_of_week, start_time)
		DO UPDATE SET end_time = EXCLUDED.end_time, available = EXCLUDED.available, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("upsert availability slot: %w", err)
	}
	return nil
}

// ListByTeacher returns a teacher's available slots ordered Monday through
// Sunday, then by start time within a day. Slots toggled off stay stored
// but are not listed.
func (r *AvailabilityRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.AvailabilitySlot, error) {
	const query = `SELECT teacher_id, day_of_week, start_time, end_time, available, created_at, updated_at
		FROM availability_slots
		WHERE teacher_id = $1 AND available
		ORDER BY CASE day_of_week
			WHEN 'Monday' THEN 1
			WHEN 'Tuesday' THEN 2
			WHEN 'Wednesday' THEN 3
			WHEN 'Thursday' THEN 4
			WHEN 'Friday' THEN 5
			WHEN 'Saturday' THEN 6
			WHEN 'Sunday' THEN 7
		END, start_time`
	var slots []models.AvailabilitySlot
	if err := r.db.SelectContext(ctx, &slots, query, teacherID); err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return slots, nil
}
