package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muselink/muselink-api/internal/models"
	appErrors "github.com/muselink/muselink-api/pkg/errors"
)

type teacherProfileRepository interface {
	FindByTeacherID(ctx context.Context, teacherID string) (*models.TeacherProfile, error)
	FindDetailByEmail(ctx context.Context, email string) (*models.TeacherProfileDetail, error)
	Create(ctx context.Context, profile *models.TeacherProfile) error
	Update(ctx context.Context, profile *models.TeacherProfile) error
	List(ctx context.Context, instrument string, page, pageSize int) ([]models.TeacherListItem, int, error)
}

type teacherAccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
}

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// TeacherServiceConfig tunes directory caching.
type TeacherServiceConfig struct {
	ListCacheTTL time.Duration
}

// TeacherService manages teacher profiles and the public directory.
type TeacherService struct {
	profiles  teacherProfileRepository
	accounts  teacherAccountRepository
	cache     cacheStore
	validator *validator.Validate
	logger    *zap.Logger
	config    TeacherServiceConfig
}

// NewTeacherService constructs a TeacherService instance.
func NewTeacherService(profiles teacherProfileRepository, accounts teacherAccountRepository, cache cacheStore, validate *validator.Validate, logger *zap.Logger, config TeacherServiceConfig) *TeacherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TeacherService{profiles: profiles, accounts: accounts, cache: cache, validator: validate, logger: logger, config: config}
}

// CreateProfile creates or refreshes a teacher profile keyed by email.
// When no account exists for the email one is provisioned without
// credentials, so profiles can be entered ahead of the teacher signing up.
func (s *TeacherService) CreateProfile(ctx context.Context, req models.CreateTeacherProfileRequest) (*models.TeacherProfileDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up account")
		}
		first, last := models.SplitFullName(req.Name)
		account = &models.Account{
			ID:        uuid.NewString(),
			FirstName: first,
			LastName:  last,
			Email:     email,
			Role:      models.RoleTeacher,
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to provision teacher account")
		}
	}
	if account.Role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email belongs to a non-teacher account")
	}

	classLimit := 10
	if req.ClassLimit != nil {
		classLimit = *req.ClassLimit
	}

	existing, err := s.profiles.FindByTeacherID(ctx, account.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up profile")
	}

	if existing != nil {
		existing.Instrument = req.Instrument
		existing.Bio = req.Bio
		existing.ContactInfo = req.ContactInfo
		existing.ClassLimit = classLimit
		existing.RatePerSession = req.RatePerSession
		if err := s.profiles.Update(ctx, existing); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
		}
	} else {
		profile := &models.TeacherProfile{
			TeacherID:      account.ID,
			Instrument:     req.Instrument,
			Bio:            req.Bio,
			ContactInfo:    req.ContactInfo,
			ClassLimit:     classLimit,
			RatePerSession: req.RatePerSession,
		}
		if err := s.profiles.Create(ctx, profile); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create profile")
		}
	}

	s.invalidateDirectory(ctx)
	return s.GetProfile(ctx, models.GetTeacherProfileRequest{Email: email})
}

// UpdateProfile updates an existing profile keyed by email.
func (s *TeacherService) UpdateProfile(ctx context.Context, req models.UpdateTeacherProfileRequest) (*models.TeacherProfileDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	detail, err := s.profiles.FindDetailByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}

	profile := detail.TeacherProfile
	profile.Instrument = req.Instrument
	profile.Bio = req.Bio
	profile.ContactInfo = req.ContactInfo
	if req.ClassLimit != nil {
		profile.ClassLimit = *req.ClassLimit
	}
	profile.RatePerSession = req.RatePerSession
	if err := s.profiles.Update(ctx, &profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}

	s.invalidateDirectory(ctx)
	return s.GetProfile(ctx, models.GetTeacherProfileRequest{Email: email})
}

// GetProfile returns a profile with account identity by email.
func (s *TeacherService) GetProfile(ctx context.Context, req models.GetTeacherProfileRequest) (*models.TeacherProfileDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile lookup payload")
	}

	detail, err := s.profiles.FindDetailByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	return detail, nil
}

// ListTeachers returns the public directory with an optional instrument
// filter. Pages are cached briefly; profile writes invalidate the cache.
func (s *TeacherService) ListTeachers(ctx context.Context, req models.ListTeachersRequest, page, pageSize int) ([]models.TeacherListItem, *models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	type cachedPage struct {
		Teachers   []models.TeacherListItem `json:"teachers"`
		Pagination models.Pagination        `json:"pagination"`
	}

	key := fmt.Sprintf("teachers:list:%s:%d:%d", strings.ToLower(strings.TrimSpace(req.Instrument)), page, pageSize)
	if s.cache != nil {
		var cached cachedPage
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached.Teachers, &cached.Pagination, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("teacher directory cache read failed", zap.Error(err))
		}
	}

	teachers, total, err := s.profiles.List(ctx, req.Instrument, page, pageSize)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	pagination := &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, cachedPage{Teachers: teachers, Pagination: *pagination}, s.config.ListCacheTTL); err != nil {
			s.logger.Warn("teacher directory cache write failed", zap.Error(err))
		}
	}

	return teachers, pagination, nil
}

func (s *TeacherService) invalidateDirectory(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "teachers:list:*"); err != nil {
		s.logger.Warn("teacher directory cache invalidation failed", zap.Error(err))
	}
}
