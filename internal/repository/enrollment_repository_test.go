package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muselink/muselink-api/internal/models"
	appErrors "github.com/muselink/muselink-api/pkg/errors"
)

func TestEnrollClaimsSeat(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO enrollments").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE teacher_profiles").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Enroll(context.Background(), &models.Enrollment{
		StudentID: "stud-1",
		TeacherID: "teach-1",
		DayOfWeek: "Monday",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollIdempotentRepeat(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	// Conflicting insert affects zero rows; no seat is claimed and the
	// transaction still commits.
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO enrollments").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Enroll(context.Background(), &models.Enrollment{
		StudentID: "stud-1",
		TeacherID: "teach-1",
		DayOfWeek: "Monday",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollFullRosterRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO enrollments").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE teacher_profiles").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Enroll(context.Background(), &models.Enrollment{
		StudentID: "stud-1",
		TeacherID: "teach-1",
		DayOfWeek: "Monday",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCapacityExceeded.Code, appErrors.FromError(err).Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentExists(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("stud-1", "teach-1", "Monday").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.Exists(context.Background(), "stud-1", "teach-1", "Monday")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDetailsByStudentWeekdayOrder(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"day_of_week", "teacher_name", "teacher_email", "instrument", "bio"}).
		AddRow("Monday", "Sarah Johnson", "sarah.johnson@musicschool.com", "Piano", "Classically trained").
		AddRow("Wednesday", "Michael Chen", "michael.chen@musicschool.com", "Guitar", "Session guitarist")
	mock.ExpectQuery("FROM enrollments e").
		WithArgs("stud-1").
		WillReturnRows(rows)

	details, err := repo.ListDetailsByStudent(context.Background(), "stud-1")
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, "Monday", details[0].DayOfWeek)
	assert.Equal(t, "Sarah Johnson", details[0].TeacherName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
