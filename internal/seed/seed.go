package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/muselink/muselink-api/internal/models"
	"github.com/muselink/muselink-api/internal/repository"
)

// demoPassword is shared by every seeded account.
const demoPassword = "password123"

type demoTeacher struct {
	name       string
	email      string
	instrument string
	bio        string
	classLimit int
	startTime  string
	endTime    string
}

type demoEnrollment struct {
	studentEmail string
	teacherEmail string
	day          string
}

// Seeder fills an empty database with demo marketplace data.
type Seeder struct {
	accounts    *repository.AccountRepository
	teachers    *repository.TeacherRepository
	slots       *repository.AvailabilityRepository
	enrollments *repository.EnrollmentRepository
	logger      *zap.Logger
}

// New constructs a Seeder.
func New(accounts *repository.AccountRepository, teachers *repository.TeacherRepository, slots *repository.AvailabilityRepository, enrollments *repository.EnrollmentRepository, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{accounts: accounts, teachers: teachers, slots: slots, enrollments: enrollments, logger: logger}
}

// Run seeds demo students, teachers, weekly availability and enrollments.
// It is idempotent: a database that already holds teachers is left alone.
func (s *Seeder) Run(ctx context.Context) error {
	existing, err := s.accounts.CountByRole(ctx, models.RoleTeacher)
	if err != nil {
		return fmt.Errorf("check seed state: %w", err)
	}
	if existing > 0 {
		s.logger.Info("demo seed skipped, database already populated")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}
	hashed := string(hash)

	students := []struct{ name, email string }{
		{"Alex Smith", "alex.smith@student.com"},
		{"Emma Davis", "emma.davis@student.com"},
		{"Noah Wilson", "noah.wilson@student.com"},
		{"Olivia Martinez", "olivia.martinez@student.com"},
		{"Liam Thompson", "liam.thompson@student.com"},
		{"Sophia White", "sophia.white@student.com"},
		{"William Harris", "william.harris@student.com"},
		{"Isabella Clark", "isabella.clark@student.com"},
	}
	for _, st := range students {
		first, last := models.SplitFullName(st.name)
		account := &models.Account{
			FirstName:    first,
			LastName:     last,
			Email:        st.email,
			PasswordHash: &hashed,
			Role:         models.RoleStudent,
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			return fmt.Errorf("seed student %s: %w", st.email, err)
		}
	}

	teachers := []demoTeacher{
		{"Sarah Johnson", "sarah.johnson@music.com", "Piano", "Classical pianist with 15 years of teaching experience. Specializes in classical and contemporary piano techniques.", 8, "09:00", "17:00"},
		{"Michael Chen", "michael.chen@music.com", "Guitar", "Professional guitarist and music producer. Expert in acoustic, electric, and classical guitar styles.", 10, "10:00", "18:00"},
		{"Emily Rodriguez", "emily.rodriguez@music.com", "Violin", "Orchestral violinist with extensive teaching background. Focuses on classical technique and performance skills.", 6, "08:00", "16:00"},
		{"David Williams", "david.williams@music.com", "Drums", "Session drummer and percussion instructor. Specializes in rock, jazz, and world music styles.", 12, "11:00", "19:00"},
		{"Lisa Anderson", "lisa.anderson@music.com", "Voice", "Opera singer and vocal coach. Helps students develop proper technique and performance confidence.", 8, "09:00", "17:00"},
		{"James Taylor", "james.taylor@music.com", "Bass", "Professional bassist with jazz and rock background. Teaches both electric and upright bass techniques.", 10, "10:00", "18:00"},
		{"Maria Garcia", "maria.garcia@music.com", "Flute", "Classical flutist and chamber music specialist. Experienced in teaching all skill levels.", 8, "08:00", "16:00"},
		{"Robert Brown", "robert.brown@music.com", "Saxophone", "Jazz saxophonist and music educator. Specializes in jazz improvisation and contemporary styles.", 10, "11:00", "19:00"},
	}
	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

	for _, t := range teachers {
		first, last := models.SplitFullName(t.name)
		account := &models.Account{
			FirstName:    first,
			LastName:     last,
			Email:        t.email,
			PasswordHash: &hashed,
			Role:         models.RoleTeacher,
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			return fmt.Errorf("seed teacher %s: %w", t.email, err)
		}
		if err := s.teachers.Create(ctx, &models.TeacherProfile{
			TeacherID:  account.ID,
			Instrument: t.instrument,
			Bio:        t.bio,
			ClassLimit: t.classLimit,
		}); err != nil {
			return fmt.Errorf("seed profile %s: %w", t.email, err)
		}

		slots := make([]models.AvailabilitySlot, 0, len(days))
		for _, day := range days {
			slots = append(slots, models.AvailabilitySlot{
				DayOfWeek: day,
				StartTime: t.startTime,
				EndTime:   t.endTime,
				Available: true,
			})
		}
		if err := s.slots.ReplaceAll(ctx, account.ID, slots); err != nil {
			return fmt.Errorf("seed availability %s: %w", t.email, err)
		}
	}

	enrollments := []demoEnrollment{
		{"alex.smith@student.com", "sarah.johnson@music.com", "Monday"},
		{"alex.smith@student.com", "sarah.johnson@music.com", "Wednesday"},
		{"emma.davis@student.com", "michael.chen@music.com", "Tuesday"},
		{"emma.davis@student.com", "michael.chen@music.com", "Thursday"},
		{"noah.wilson@student.com", "david.williams@music.com", "Monday"},
		{"noah.wilson@student.com", "david.williams@music.com", "Friday"},
		{"olivia.martinez@student.com", "emily.rodriguez@music.com", "Tuesday"},
		{"olivia.martinez@student.com", "emily.rodriguez@music.com", "Thursday"},
		{"liam.thompson@student.com", "lisa.anderson@music.com", "Wednesday"},
		{"liam.thompson@student.com", "lisa.anderson@music.com", "Friday"},
	}
	for _, e := range enrollments {
		student, err := s.accounts.FindByEmail(ctx, e.studentEmail)
		if err != nil {
			return fmt.Errorf("seed enrollment lookup %s: %w", e.studentEmail, err)
		}
		teacher, err := s.teachers.FindDetailByEmail(ctx, e.teacherEmail)
		if err != nil {
			return fmt.Errorf("seed enrollment lookup %s: %w", e.teacherEmail, err)
		}
		if err := s.enrollments.Enroll(ctx, &models.Enrollment{
			StudentID: student.ID,
			TeacherID: teacher.TeacherID,
			DayOfWeek: e.day,
		}); err != nil {
			return fmt.Errorf("seed enrollment %s -> %s: %w", e.studentEmail, e.teacherEmail, err)
		}
	}

	s.logger.Info("demo seed complete",
		zap.Int("students", len(students)),
		zap.Int("teachers", len(teachers)),
		zap.Int("enrollments", len(enrollments)))
	return nil
}
