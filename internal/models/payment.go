package models

import "time"

// PaymentStatus mirrors the schema's status column. Only Completed is ever
// written today: no gateway is called and recording always succeeds.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusFailed    PaymentStatus = "Failed"
	PaymentStatusRefunded  PaymentStatus = "Refunded"
)

// Payment records a simulated transaction between a student and a teacher.
type Payment struct {
	ID            string        `db:"id" json:"id"`
	StudentID     string        `db:"student_id" json:"studentId"`
	TeacherID     string        `db:"teacher_id" json:"teacherId"`
	Amount        float64       `db:"amount" json:"amount"`
	AdminFee      float64       `db:"admin_fee" json:"adminFee"`
	Method        string        `db:"method" json:"method"`
	Status        PaymentStatus `db:"status" json:"status"`
	TransactionID string        `db:"transaction_id" json:"transactionId"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updatedAt"`
}

// PaymentDetail joins a payment with the counterparties' names.
type PaymentDetail struct {
	Payment
	StudentName string `db:"student_name" json:"studentName"`
	TeacherName string `db:"teacher_name" json:"teacherName"`
}

// ProcessPaymentRequest records a payment; parties are keyed by email.
type ProcessPaymentRequest struct {
	StudentEmail string  `json:"studentEmail" validate:"required,email"`
	TeacherEmail string  `json:"teacherEmail" validate:"required,email"`
	Amount       float64 `json:"amount" validate:"required,gt=0"`
	Method       string  `json:"method" validate:"required"`
}

// PaymentHistoryRequest lists a student's payments.
type PaymentHistoryRequest struct {
	StudentEmail string `json:"studentEmail" validate:"required,email"`
}

// TeacherEarningsRequest summarises a teacher's take.
type TeacherEarningsRequest struct {
	TeacherEmail string `json:"teacherEmail" validate:"required,email"`
}

// TeacherEarnings aggregates completed payments for one teacher.
type TeacherEarnings struct {
	TeacherID    string  `db:"teacher_id" json:"teacherId"`
	GrossAmount  float64 `db:"gross_amount" json:"grossAmount"`
	TotalFees    float64 `db:"total_fees" json:"totalFees"`
	NetAmount    float64 `db:"net_amount" json:"netAmount"`
	PaymentCount int     `db:"payment_count" json:"paymentCount"`
}
