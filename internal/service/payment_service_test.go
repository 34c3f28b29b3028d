package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muselink/muselink-api/internal/models"
	appErrors "github.com/muselink/muselink-api/pkg/errors"
)

type mockPaymentRepo struct {
	created  *models.Payment
	history  []models.PaymentDetail
	earnings *models.TeacherEarnings
}

func (m *mockPaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	payment.ID = "pay-1"
	m.created = payment
	return nil
}

func (m *mockPaymentRepo) HistoryByStudent(ctx context.Context, studentID string) ([]models.PaymentDetail, error) {
	return m.history, nil
}

func (m *mockPaymentRepo) EarningsByTeacher(ctx context.Context, teacherID string) (*models.TeacherEarnings, error) {
	return m.earnings, nil
}

func newPaymentService(payments *mockPaymentRepo, feePercent float64) *PaymentService {
	return NewPaymentService(payments,
		&mockAccountRepo{accountByEmail: &models.Account{ID: "stud-1", Email: "alex.smith@student.com"}},
		&mockTeacherDetailRepo{detail: pianoTeacher(3, 8)},
		nil, nil, PaymentConfig{AdminFeePercent: feePercent})
}

func TestProcessPayment(t *testing.T) {
	payments := &mockPaymentRepo{}
	svc := newPaymentService(payments, 10)

	payment, err := svc.ProcessPayment(context.Background(), models.ProcessPaymentRequest{
		StudentEmail: "alex.smith@student.com",
		TeacherEmail: "sarah.johnson@musicschool.com",
		Amount:       50,
		Method:       "CreditCard",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, payment.Status)
	assert.InDelta(t, 5.0, payment.AdminFee, 0.001)
	assert.True(t, strings.HasPrefix(payment.TransactionID, "TXN-"))
	assert.Equal(t, "stud-1", payment.StudentID)
	assert.Equal(t, "teach-1", payment.TeacherID)
}

func TestProcessPaymentFeeRoundsToCents(t *testing.T) {
	payments := &mockPaymentRepo{}
	svc := newPaymentService(payments, 10)

	payment, err := svc.ProcessPayment(context.Background(), models.ProcessPaymentRequest{
		StudentEmail: "alex.smith@student.com",
		TeacherEmail: "sarah.johnson@musicschool.com",
		Amount:       33.33,
		Method:       "Cash",
	})
	require.NoError(t, err)
	assert.InDelta(t, 3.33, payment.AdminFee, 0.001)
}

func TestProcessPaymentRejectsNonPositiveAmount(t *testing.T) {
	svc := newPaymentService(&mockPaymentRepo{}, 10)

	_, err := svc.ProcessPayment(context.Background(), models.ProcessPaymentRequest{
		StudentEmail: "alex.smith@student.com",
		TeacherEmail: "sarah.johnson@musicschool.com",
		Amount:       0,
		Method:       "Cash",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPaymentHistory(t *testing.T) {
	payments := &mockPaymentRepo{history: []models.PaymentDetail{
		{Payment: models.Payment{ID: "pay-2", Amount: 60}, TeacherName: "Michael Chen"},
		{Payment: models.Payment{ID: "pay-1", Amount: 50}, TeacherName: "Sarah Johnson"},
	}}
	svc := newPaymentService(payments, 10)

	history, err := svc.PaymentHistory(context.Background(), models.PaymentHistoryRequest{StudentEmail: "alex.smith@student.com"})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Michael Chen", history[0].TeacherName)
}

func TestTeacherEarningsSummary(t *testing.T) {
	payments := &mockPaymentRepo{earnings: &models.TeacherEarnings{
		GrossAmount:  500,
		TotalFees:    50,
		NetAmount:    450,
		PaymentCount: 10,
	}}
	svc := newPaymentService(payments, 10)

	earnings, err := svc.TeacherEarningsSummary(context.Background(), models.TeacherEarningsRequest{TeacherEmail: "sarah.johnson@musicschool.com"})
	require.NoError(t, err)
	assert.Equal(t, "teach-1", earnings.TeacherID)
	assert.InDelta(t, 450.0, earnings.NetAmount, 0.001)
	assert.Equal(t, 10, earnings.PaymentCount)
}
