package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/muselink/muselink-api/internal/models"
)

// PaymentRepository provides database access for lesson payments.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository creates a new instance of PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment record.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = now
	}
	payment.UpdatedAt = now

	const query = `INSERT INTO payments (id, student_id, teacher_id, amount, admin_fee, method, status, transaction_id, created_at, updated_at) VALUES (:id, :student_id, :teacher_id, :amount, :admin_fee, :method, :status, :transaction_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// HistoryByStudent returns a student's payments joined with the teacher's
// name, newest first.
func (r *PaymentRepository) HistoryByStudent(ctx context.Context, studentID string) ([]models.PaymentDetail, error) {
	const query = `SELECT p.id, p.student_id, p.teacher_id, p.amount, p.admin_fee, p.method, p.status, p.transaction_id, p.created_at, p.updated_at,
		a.first_name || ' ' || a.last_name AS teacher_name
		FROM payments p
		JOIN accounts a ON a.id = p.teacher_id
		WHERE p.student_id = $1
		ORDER BY p.created_at DESC`
	var payments []models.PaymentDetail
	if err := r.db.SelectContext(ctx, &payments, query, studentID); err != nil {
		return nil, fmt.Errorf("payment history: %w", err)
	}
	return payments, nil
}

// EarningsByTeacher aggregates completed payments for a teacher.
func (r *PaymentRepository) EarningsByTeacher(ctx context.Context, teacherID string) (*models.TeacherEarnings, error) {
	const query = `SELECT
		COALESCE(SUM(amount), 0) AS gross_amount,
		COALESCE(SUM(admin_fee), 0) AS total_fees,
		COALESCE(SUM(amount - admin_fee), 0) AS net_amount,
		COUNT(*) AS payment_count
		FROM payments WHERE teacher_id = $1 AND status = 'Completed'`
	var earnings models.TeacherEarnings
	if err := r.db.GetContext(ctx, &earnings, query, teacherID); err != nil {
		return nil, fmt.Errorf("teacher earnings: %w", err)
	}
	return &earnings, nil
}
