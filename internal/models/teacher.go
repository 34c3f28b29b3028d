package models

import "time"

// TeacherProfile is the 1:1 extension of a teacher account. The capacity
// counter pair (CurrentClassCount, ClassLimit) backs the enrollment
// invariant: current_class_count never exceeds class_limit. IsFull is a
// denormalized cache of that comparison, recomputed on every enrollment.
type TeacherProfile struct {
	TeacherID         string    `db:"teacher_id" json:"id"`
	Instrument        string    `db:"instrument" json:"instrument"`
	Bio               string    `db:"bio" json:"bio"`
	ContactInfo       string    `db:"contact_info" json:"contactInfo"`
	ClassLimit        int       `db:"class_limit" json:"classLimit"`
	CurrentClassCount int       `db:"current_class_count" json:"currentClass"`
	IsFull            bool      `db:"is_full" json:"classFull"`
	RatePerSession    float64   `db:"rate_per_session" json:"ratePerSession"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}

// TeacherProfileDetail joins the profile with its owning account.
type TeacherProfileDetail struct {
	TeacherProfile
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
}

// TeacherListItem is the projection returned by the teacher directory.
type TeacherListItem struct {
	UserID            string  `db:"teacher_id" json:"userId"`
	Name              string  `db:"name" json:"name"`
	Email             string  `db:"email" json:"email"`
	Instrument        string  `db:"instrument" json:"instrument"`
	Bio               string  `db:"bio" json:"bio"`
	ClassLimit        int     `db:"class_limit" json:"classLimit"`
	CurrentClassCount int     `db:"current_class_count" json:"currentClass"`
	IsFull            bool    `db:"is_full" json:"classFull"`
	RatePerSession    float64 `db:"rate_per_session" json:"ratePerSession"`
	AvailabilityCount int     `db:"availability_count" json:"availabilityCount"`
}

// CreateTeacherProfileRequest creates a profile keyed by teacher email.
type CreateTeacherProfileRequest struct {
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Instrument     string  `json:"instrument" validate:"required"`
	Bio            string  `json:"bio" validate:"required"`
	ContactInfo    string  `json:"contactInfo"`
	ClassLimit     *int    `json:"classLimit" validate:"omitempty,min=1"`
	RatePerSession float64 `json:"ratePerSession" validate:"omitempty,min=0"`
}

// UpdateTeacherProfileRequest mirrors create; email identifies the profile.
type UpdateTeacherProfileRequest struct {
	Name           string  `json:"name" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Instrument     string  `json:"instrument" validate:"required"`
	Bio            string  `json:"bio" validate:"required"`
	ContactInfo    string  `json:"contactInfo"`
	ClassLimit     *int    `json:"classLimit" validate:"omitempty,min=1"`
	RatePerSession float64 `json:"ratePerSession" validate:"omitempty,min=0"`
}

// GetTeacherProfileRequest fetches a profile by email.
type GetTeacherProfileRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ListTeachersRequest filters the directory by instrument substring.
type ListTeachersRequest struct {
	Instrument string `json:"instrument"`
}
