package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muselink/muselink-api/internal/models"
	appErrors "github.com/muselink/muselink-api/pkg/errors"
)

func TestLessonCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectExec("INSERT INTO lessons").WillReturnResult(sqlmock.NewResult(0, 1))

	studentID := "stud-1"
	lesson := &models.Lesson{
		TeacherID:   "teach-1",
		StudentID:   &studentID,
		StudentName: "Alex Smith",
		Instrument:  "Piano",
		LessonDate:  "2026-09-14",
		LessonTime:  "10:00",
		LessonType:  models.LessonTypeInPerson,
		Status:      models.LessonStatusScheduled,
	}
	require.NoError(t, repo.Create(context.Background(), lesson))
	assert.NotEmpty(t, lesson.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonCreateUniqueViolation(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectExec("INSERT INTO lessons").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_lessons_teacher_slot"})

	err := repo.Create(context.Background(), &models.Lesson{
		TeacherID:  "teach-1",
		LessonDate: "2026-09-14",
		LessonTime: "10:00",
		Status:     models.LessonStatusScheduled,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSlotConflict.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsScheduled(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("teach-1", "2026-09-14", "10:00").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	taken, err := repo.ExistsScheduled(context.Background(), "teach-1", "2026-09-14", "10:00")
	require.NoError(t, err)
	assert.True(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonUpdateStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectExec("UPDATE lessons SET status").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "les-1", models.LessonStatusCancelled))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonUpdateStatusMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectExec("UPDATE lessons SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", models.LessonStatusCompleted)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByTeacher(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	now := time.Now()
	studentID := "stud-1"
	rows := sqlmock.NewRows([]string{"id", "teacher_id", "student_id", "student_name", "instrument", "lesson_date", "lesson_time", "lesson_type", "status", "created_at", "updated_at"}).
		AddRow("les-1", "teach-1", studentID, "Alex Smith", "Piano", "2026-09-14", "10:00", string(models.LessonTypeInPerson), string(models.LessonStatusScheduled), now, now)
	mock.ExpectQuery("SELECT .+ FROM lessons WHERE teacher_id").
		WithArgs("teach-1").
		WillReturnRows(rows)

	lessons, err := repo.ListByTeacher(context.Background(), "teach-1")
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, models.LessonStatusScheduled, lessons[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
