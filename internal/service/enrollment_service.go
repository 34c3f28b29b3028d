package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/muselink/muselink-api/internal/models"
	appErrors "github.com/muselink/muselink-api/pkg/errors"
)

type enrollmentRepository interface {
	Enroll(ctx context.Context, enrollment *models.Enrollment) error
	ListDetailsByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error)
}

type enrollmentAccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
}

type enrollmentTeacherRepository interface {
	FindDetailByEmail(ctx context.Context, email string) (*models.TeacherProfileDetail, error)
}

// EnrollmentService manages capacity-checked recurring enrollments.
type EnrollmentService struct {
	enrollments enrollmentRepository
	accounts    enrollmentAccountRepository
	teachers    enrollmentTeacherRepository
	cache       cacheStore
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(enrollments enrollmentRepository, accounts enrollmentAccountRepository, teachers enrollmentTeacherRepository, cache cacheStore, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EnrollmentService{enrollments: enrollments, accounts: accounts, teachers: teachers, cache: cache, validator: validate, logger: logger}
}

// Enroll registers a student with a teacher for a weekday. A full roster
// rejects the enrollment; repeating an existing (student, teacher, day)
// triple succeeds without consuming another seat.
func (s *EnrollmentService) Enroll(ctx context.Context, req models.EnrollRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	if !models.ValidDay(req.Day) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day of week %q", req.Day))
	}

	student, err := s.accounts.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.StudentEmail)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	teacher, err := s.teachers.FindDetailByEmail(ctx, strings.ToLower(strings.TrimSpace(req.TeacherEmail)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	// Early refusal on a known-full roster. The guarded increment inside
	// Enroll still decides under concurrency.
	if teacher.CurrentClassCount >= teacher.ClassLimit {
		return appErrors.Clone(appErrors.ErrCapacityExceeded, "teacher has reached their class limit")
	}

	err = s.enrollments.Enroll(ctx, &models.Enrollment{
		StudentID: student.ID,
		TeacherID: teacher.TeacherID,
		DayOfWeek: req.Day,
	})
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return err
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll")
	}

	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, "teachers:list:*"); err != nil {
			s.logger.Warn("teacher directory cache invalidation failed", zap.Error(err))
		}
	}

	return nil
}

// ListEnrollments returns the student's recurring enrollments ordered
// Monday first.
func (s *EnrollmentService) ListEnrollments(ctx context.Context, req models.ListEnrollmentsRequest) ([]models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment lookup payload")
	}

	student, err := s.accounts.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.StudentEmail)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	details, err := s.enrollments.ListDetailsByStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return details, nil
}
