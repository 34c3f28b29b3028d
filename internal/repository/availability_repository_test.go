package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muselink/muselink-api/internal/models"
)

func TestReplaceAllSwapsSchedule(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM availability_slots WHERE teacher_id").
		WithArgs("teach-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO availability_slots").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO availability_slots").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	slots := []models.AvailabilitySlot{
		{DayOfWeek: "Monday", StartTime: "10:00", EndTime: "14:00", Available: true},
		{DayOfWeek: "Friday", StartTime: "09:00", EndTime: "12:00", Available: false},
	}
	require.NoError(t, repo.ReplaceAll(context.Background(), "teach-1", slots))
	assert.Equal(t, "teach-1", slots[0].TeacherID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRefreshesExistingSlot(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectExec("ON CONFLICT .teacher_id, day_of_week, start_time.").
		WillReturnResult(sqlmock.NewResult(0, 1))

	slot := &models.AvailabilitySlot{TeacherID: "teach-1", DayOfWeek: "Monday", StartTime: "10:00", EndTime: "15:00", Available: true}
	require.NoError(t, repo.Upsert(context.Background(), slot))
	assert.False(t, slot.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByTeacherOnlyAvailableSlots(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"teacher_id", "day_of_week", "start_time", "end_time", "available", "created_at", "updated_at"}).
		AddRow("teach-1", "Monday", "10:00", "14:00", true, now, now).
		AddRow("teach-1", "Thursday", "09:00", "12:00", true, now, now)
	mock.ExpectQuery("WHERE teacher_id = .1 AND available").
		WithArgs("teach-1").
		WillReturnRows(rows)

	slots, err := repo.ListByTeacher(context.Background(), "teach-1")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "Monday", slots[0].DayOfWeek)
	assert.NoError(t, mock.ExpectationsWereMet())
}
