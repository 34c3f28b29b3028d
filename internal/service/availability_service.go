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

type availabilityRepository interface {
	ReplaceAll(ctx context.Context, teacherID string, slots []models.AvailabilitySlot) error
	Upsert(ctx context.Context, slot *models.AvailabilitySlot) error
	ListByTeacher(ctx context.Context, teacherID string) ([]models.AvailabilitySlot, error)
}

type availabilityTeacherRepository interface {
	FindDetailByEmail(ctx context.Context, email string) (*models.TeacherProfileDetail, error)
}

// AvailabilityService manages weekly teaching schedules.
type AvailabilityService struct {
	slots     availabilityRepository
	teachers  availabilityTeacherRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService constructs an AvailabilityService instance.
func NewAvailabilityService(slots availabilityRepository, teachers availabilityTeacherRepository, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AvailabilityService{slots: slots, teachers: teachers, validator: validate, logger: logger}
}

// SetAvailability replaces the teacher's entire weekly schedule with the
// submitted slots. Days absent from the payload end up with no slots.
func (s *AvailabilityService) SetAvailability(ctx context.Context, req models.SetAvailabilityRequest) ([]models.AvailabilitySlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}

	slots := make([]models.AvailabilitySlot, 0, len(req.Availability))
	for _, spec := range req.Availability {
		if !models.ValidDay(spec.DayOfWeek) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day of week %q", spec.DayOfWeek))
		}
		slots = append(slots, models.AvailabilitySlot{
			DayOfWeek: spec.DayOfWeek,
			StartTime: spec.StartTime,
			EndTime:   spec.EndTime,
			Available: spec.IsAvailable,
		})
	}

	teacher, err := s.findTeacher(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if err := s.slots.ReplaceAll(ctx, teacher.TeacherID, slots); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace availability")
	}

	return s.listOrdered(ctx, teacher.TeacherID)
}

// AddAvailability upserts a single slot. An existing (day, start) window
// gets its end time refreshed and is re-marked available.
func (s *AvailabilityService) AddAvailability(ctx context.Context, req models.AddAvailabilityRequest) ([]models.AvailabilitySlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	if !models.ValidDay(req.Day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day of week %q", req.Day))
	}

	teacher, err := s.findTeacher(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	slot := &models.AvailabilitySlot{
		TeacherID: teacher.TeacherID,
		DayOfWeek: req.Day,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Available: true,
	}
	if err := s.slots.Upsert(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save availability slot")
	}

	return s.listOrdered(ctx, teacher.TeacherID)
}

// GetAvailability returns the teacher's available slots ordered Monday
// first.
func (s *AvailabilityService) GetAvailability(ctx context.Context, req models.GetAvailabilityRequest) ([]models.AvailabilitySlot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability lookup payload")
	}

	teacher, err := s.findTeacher(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	return s.listOrdered(ctx, teacher.TeacherID)
}

func (s *AvailabilityService) findTeacher(ctx context.Context, email string) (*models.TeacherProfileDetail, error) {
	teacher, err := s.teachers.FindDetailByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}

func (s *AvailabilityService) listOrdered(ctx context.Context, teacherID string) ([]models.AvailabilitySlot, error) {
	slots, err := s.slots.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list availability")
	}
	return slots, nil
}
