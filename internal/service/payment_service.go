package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muselink/muselink-api/internal/models"
	appErrors "github.com/muselink/muselink-api/pkg/errors"
)

type paymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	HistoryByStudent(ctx context.Context, studentID string) ([]models.PaymentDetail, error)
	EarningsByTeacher(ctx context.Context, teacherID string) (*models.TeacherEarnings, error)
}

// PaymentConfig tunes the platform cut taken from each payment.
type PaymentConfig struct {
	AdminFeePercent float64
}

// PaymentService records simulated payments and earnings summaries. No
// gateway is involved; every recorded payment is immediately Completed.
type PaymentService struct {
	payments  paymentRepository
	accounts  enrollmentAccountRepository
	teachers  enrollmentTeacherRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    PaymentConfig
}

// NewPaymentService constructs a PaymentService instance.
func NewPaymentService(payments paymentRepository, accounts enrollmentAccountRepository, teachers enrollmentTeacherRepository, validate *validator.Validate, logger *zap.Logger, config PaymentConfig) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PaymentService{payments: payments, accounts: accounts, teachers: teachers, validator: validate, logger: logger, config: config}
}

// ProcessPayment records a payment from a student to a teacher, deducting
// the configured platform fee.
func (s *PaymentService) ProcessPayment(ctx context.Context, req models.ProcessPaymentRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}

	student, err := s.accounts.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.StudentEmail)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	teacher, err := s.teachers.FindDetailByEmail(ctx, strings.ToLower(strings.TrimSpace(req.TeacherEmail)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	adminFee := math.Round(req.Amount*s.config.AdminFeePercent) / 100

	payment := &models.Payment{
		StudentID:     student.ID,
		TeacherID:     teacher.TeacherID,
		Amount:        req.Amount,
		AdminFee:      adminFee,
		Method:        req.Method,
		Status:        models.PaymentStatusCompleted,
		TransactionID: fmt.Sprintf("TXN-%d-%s", time.Now().UTC().Unix(), strings.ToUpper(uuid.NewString()[:8])),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record payment")
	}

	return payment, nil
}

// PaymentHistory returns a student's payments, newest first.
func (s *PaymentService) PaymentHistory(ctx context.Context, req models.PaymentHistoryRequest) ([]models.PaymentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid history payload")
	}

	student, err := s.accounts.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.StudentEmail)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	history, err := s.payments.HistoryByStudent(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment history")
	}
	return history, nil
}

// TeacherEarningsSummary aggregates a teacher's completed payments.
func (s *PaymentService) TeacherEarningsSummary(ctx context.Context, req models.TeacherEarningsRequest) (*models.TeacherEarnings, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid earnings payload")
	}

	teacher, err := s.teachers.FindDetailByEmail(ctx, strings.ToLower(strings.TrimSpace(req.TeacherEmail)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	earnings, err := s.payments.EarningsByTeacher(ctx, teacher.TeacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate earnings")
	}
	earnings.TeacherID = teacher.TeacherID
	return earnings, nil
}
