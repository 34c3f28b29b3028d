package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/muselink/muselink-api/internal/models"
	appErrors "github.com/muselink/muselink-api/pkg/errors"
)

type lessonRepository interface {
	ExistsScheduled(ctx context.Context, teacherID, lessonDate, lessonTime string) (bool, error)
	Create(ctx context.Context, lesson *models.Lesson) error
	FindByID(ctx context.Context, id string) (*models.Lesson, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Lesson, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Lesson, error)
	UpdateStatus(ctx context.Context, id string, status models.LessonStatus) error
}

// LessonService manages dated lesson bookings.
type LessonService struct {
	lessons   lessonRepository
	accounts  enrollmentAccountRepository
	teachers  enrollmentTeacherRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLessonService constructs a LessonService instance.
func NewLessonService(lessons lessonRepository, accounts enrollmentAccountRepository, teachers enrollmentTeacherRepository, validate *validator.Validate, logger *zap.Logger) *LessonService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &LessonService{lessons: lessons, accounts: accounts, teachers: teachers, validator: validate, logger: logger}
}

// BookLesson books a dated slot with a teacher. A scheduled lesson already
// holding the (date, time) slot rejects the booking; the database's
// partial unique index backstops the pre-check under concurrency.
func (s *LessonService) BookLesson(ctx context.Context, req models.BookLessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	teacher, err := s.teachers.FindDetailByEmail(ctx, strings.ToLower(strings.TrimSpace(req.TeacherEmail)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	student, err := s.accounts.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.StudentEmail)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	taken, err := s.lessons.ExistsScheduled(ctx, teacher.TeacherID, req.LessonDate, req.LessonTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slot")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrSlotConflict, "the teacher already has a lesson at this time")
	}

	instrument := req.Instrument
	if instrument == "" {
		instrument = teacher.Instrument
	}
	lessonType := models.LessonType(req.LessonType)
	if lessonType != models.LessonTypeVirtual {
		lessonType = models.LessonTypeInPerson
	}

	lesson := &models.Lesson{
		TeacherID:   teacher.TeacherID,
		StudentID:   &student.ID,
		StudentName: student.FullName(),
		Instrument:  instrument,
		LessonDate:  req.LessonDate,
		LessonTime:  req.LessonTime,
		LessonType:  lessonType,
		Status:      models.LessonStatusScheduled,
	}
	if err := s.lessons.Create(ctx, lesson); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lesson")
	}

	return lesson, nil
}

// ListLessons returns dated lessons for a teacher or a student, depending
// on which email the request carries.
func (s *LessonService) ListLessons(ctx context.Context, req models.ListLessonsRequest) ([]models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson lookup payload")
	}
	if (req.TeacherEmail == "") == (req.StudentEmail == "") {
		return nil, appErrors.Clone(appErrors.ErrValidation, "exactly one of teacherEmail or studentEmail is required")
	}

	if req.TeacherEmail != "" {
		teacher, err := s.teachers.FindDetailByEmail(ctx, strings.ToLower(strings.TrimSpace(req.TeacherEmail)))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
		}
		lessons, err := s.lessons.ListByTeacher(ctx, teacher.TeacherID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
		}
		return lessons, nil
	}

	student, err := s.accounts.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.StudentEmail)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	lessons, err := s.lessons.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}
	return lessons, nil
}

// UpdateStatus completes or cancels a booking. Cancelling releases the
// (teacher, date, time) slot for rebooking.
func (s *LessonService) UpdateStatus(ctx context.Context, req models.UpdateLessonStatusRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}

	lesson, err := s.lessons.FindByID(ctx, req.LessonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}
	if lesson.Status != models.LessonStatusScheduled {
		return nil, appErrors.Clone(appErrors.ErrConflict, "only scheduled lessons can change status")
	}

	status := models.LessonStatus(req.Status)
	if err := s.lessons.UpdateStatus(ctx, lesson.ID, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update lesson")
	}
	lesson.Status = status
	return lesson, nil
}
