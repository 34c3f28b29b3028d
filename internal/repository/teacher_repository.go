package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/muselink/muselink-api/internal/models"
)

// TeacherRepository provides database access for teacher profiles.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository creates a new instance of TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// FindByTeacherID returns a teacher profile by account identifier.
func (r *TeacherRepository) FindByTeacherID(ctx context.Context, teacherID string) (*models.TeacherProfile, error) {
	const query = `SELECT teacher_id, instrument, bio, contact_info, class_limit, current_class_count, is_full, rate_per_session, created_at, updated_at FROM teacher_profiles WHERE teacher_id = $1 LIMIT 1`
	var profile models.TeacherProfile
	if err := r.db.GetContext(ctx, &profile, query, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher profile: %w", err)
	}
	return &profile, nil
}

// FindDetailByEmail returns a teacher profile joined with account fields,
// looked up by the teacher's email.
func (r *TeacherRepository) FindDetailByEmail(ctx context.Context, email string) (*models.TeacherProfileDetail, error) {
	const query = `SELECT p.teacher_id, p.instrument, p.bio, p.contact_info, p.class_limit, p.current_class_count, p.is_full, p.rate_per_session, p.created_at, p.updated_at,
		a.first_name || ' ' || a.last_name AS name, a.email
		FROM teacher_profiles p
		JOIN accounts a ON a.id = p.teacher_id
		WHERE a.email = $1 LIMIT 1`
	var detail models.TeacherProfileDetail
	if err := r.db.GetContext(ctx, &detail, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher detail by email: %w", err)
	}
	return &detail, nil
}

// Create inserts a teacher profile.
func (r *TeacherRepository) Create(ctx context.Context, profile *models.TeacherProfile) error {
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	const query = `INSERT INTO teacher_profiles (teacher_id, instrument, bio, contact_info, class_limit, current_class_count, is_full, rate_per_session, created_at, updated_at) VALUES (:teacher_id, :instrument, :bio, :contact_info, :class_limit, :current_class_count, :is_full, :rate_per_session, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("create teacher profile: %w", err)
	}
	return nil
}

// Update updates mutable profile fields. The is_full flag is recomputed
// so that a raised class limit reopens a previously full roster.
func (r *TeacherRepository) Update(ctx context.Context, profile *models.TeacherProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	const query = `UPDATE teacher_profiles SET instrument = :instrument, bio = :bio, contact_info = :contact_info, class_limit = :class_limit, rate_per_session = :rate_per_session, is_full = (current_class_count >= :class_limit), updated_at = :updated_at WHERE teacher_id = :teacher_id`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("update teacher profile: %w", err)
	}
	return nil
}

// List returns teacher profiles joined with account identity and the count
// of availability slots currently marked available. A full roster lists
// zero available slots regardless of its schedule. An instrument filter
// matches case-insensitively on a substring.
func (r *TeacherRepository) List(ctx context.Context, instrument string, page, pageSize int) ([]models.TeacherListItem, int, error) {
	baseQuery := `FROM teacher_profiles p JOIN accounts a ON a.id = p.teacher_id WHERE 1=1`
	var args []interface{}

	if strings.TrimSpace(instrument) != "" {
		baseQuery += fmt.Sprintf(" AND p.instrument ILIKE $%d", len(args)+1)
		args = append(args, "%"+strings.TrimSpace(instrument)+"%")
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf(`SELECT p.teacher_id, p.instrument, p.bio, p.class_limit, p.current_class_count, p.is_full, p.rate_per_session,
		a.first_name || ' ' || a.last_name AS name, a.email,
		CASE WHEN p.is_full THEN 0 ELSE (SELECT COUNT(*) FROM availability_slots s WHERE s.teacher_id = p.teacher_id AND s.available) END AS availability_count
		%s ORDER BY name ASC LIMIT %d OFFSET %d`, baseQuery, pageSize, offset)

	var teachers []models.TeacherListItem
	if err := r.db.SelectContext(ctx, &teachers, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list teachers: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count teachers: %w", err)
	}

	return teachers, total, nil
}
