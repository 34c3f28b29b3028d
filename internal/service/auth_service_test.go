package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/muselink/muselink-api/internal/models"
	appErrors "github.com/muselink/muselink-api/pkg/errors"
)

type mockAccountRepo struct {
	accountByEmail    *models.Account
	findByEmailErr    error
	created           *models.Account
	createErr         error
	sessions          map[string]*models.Session
	deletedSessions   []string
	accountSessionsOf string
	updatedHash       string
}

func (m *mockAccountRepo) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	if m.accountByEmail == nil {
		return nil, sql.ErrNoRows
	}
	return m.accountByEmail, nil
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id string) (*models.Account, error) {
	if m.accountByEmail != nil && m.accountByEmail.ID == id {
		return m.accountByEmail, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccountRepo) Create(ctx context.Context, account *models.Account) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = account
	return nil
}

func (m *mockAccountRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	m.updatedHash = passwordHash
	return nil
}

func (m *mockAccountRepo) CreateSession(ctx context.Context, session *models.Session) error {
	if m.sessions == nil {
		m.sessions = make(map[string]*models.Session)
	}
	m.sessions[session.TokenID] = session
	return nil
}

func (m *mockAccountRepo) FindSession(ctx context.Context, tokenID string) (*models.Session, error) {
	session, ok := m.sessions[tokenID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return session, nil
}

func (m *mockAccountRepo) DeleteSession(ctx context.Context, tokenID string) error {
	delete(m.sessions, tokenID)
	m.deletedSessions = append(m.deletedSessions, tokenID)
	return nil
}

func (m *mockAccountRepo) DeleteAccountSessions(ctx context.Context, accountID string) error {
	m.accountSessionsOf = accountID
	return nil
}

func (m *mockAccountRepo) PurgeExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

type mockProfileRepo struct {
	created *models.TeacherProfile
}

func (m *mockProfileRepo) Create(ctx context.Context, profile *models.TeacherProfile) error {
	m.created = profile
	return nil
}

func newAuthService(accounts *mockAccountRepo, profiles *mockProfileRepo) *AuthService {
	return NewAuthService(accounts, profiles, validator.New(), zap.NewNop(), AuthConfig{
		SessionSecret: "secret",
		SessionTTL:    time.Hour,
		Issuer:        "muselink-api",
	})
}

func bcryptHash(t *testing.T, password string) *string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	s := string(hash)
	return &s
}

func TestSignupStudent(t *testing.T) {
	accounts := &mockAccountRepo{}
	profiles := &mockProfileRepo{}
	svc := newAuthService(accounts, profiles)

	res, err := svc.Signup(context.Background(), models.SignupRequest{
		FirstName:   "Alex",
		LastName:    "Smith",
		Email:       "Alex.Smith@Student.com",
		Password:    "password123",
		AccountType: "student",
	})
	require.NoError(t, err)
	assert.Equal(t, "alex.smith@student.com", res.User.Email)
	assert.Equal(t, models.RoleStudent, res.User.AccountType)
	require.NotNil(t, accounts.created)
	assert.NotEqual(t, "password123", *accounts.created.PasswordHash)
	assert.Nil(t, profiles.created)
}

func TestSignupTeacherCreatesDefaultProfile(t *testing.T) {
	accounts := &mockAccountRepo{}
	profiles := &mockProfileRepo{}
	svc := newAuthService(accounts, profiles)

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		FirstName:   "Sarah",
		LastName:    "Johnson",
		Email:       "sarah.johnson@musicschool.com",
		Password:    "password123",
		AccountType: "teacher",
	})
	require.NoError(t, err)
	require.NotNil(t, profiles.created)
	assert.Equal(t, accounts.created.ID, profiles.created.TeacherID)
	assert.Equal(t, "Not specified", profiles.created.Instrument)
	assert.Equal(t, 10, profiles.created.ClassLimit)
}

func TestSignupDuplicateEmail(t *testing.T) {
	accounts := &mockAccountRepo{accountByEmail: &models.Account{ID: "1", Email: "taken@student.com"}}
	svc := newAuthService(accounts, &mockProfileRepo{})

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		FirstName:   "A",
		LastName:    "B",
		Email:       "taken@student.com",
		Password:    "password123",
		AccountType: "student",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateEmail.Code, appErrors.FromError(err).Code)
}

func TestSignupRejectsAdminRole(t *testing.T) {
	svc := newAuthService(&mockAccountRepo{}, &mockProfileRepo{})

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		FirstName:   "A",
		LastName:    "B",
		Email:       "a@b.com",
		Password:    "password123",
		AccountType: "admin",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLoginSuccess(t *testing.T) {
	accounts := &mockAccountRepo{accountByEmail: &models.Account{
		ID:           "acc-1",
		Email:        "alex.smith@student.com",
		PasswordHash: bcryptHash(t, "password123"),
		Role:         models.RoleStudent,
	}}
	svc := newAuthService(accounts, &mockProfileRepo{})

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "alex.smith@student.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.SessionToken)
	assert.Len(t, accounts.sessions, 1)

	claims, err := svc.ValidateSession(context.Background(), res.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	accounts := &mockAccountRepo{accountByEmail: &models.Account{
		ID:           "acc-1",
		Email:        "alex.smith@student.com",
		PasswordHash: bcryptHash(t, "password123"),
	}}
	svc := newAuthService(accounts, &mockProfileRepo{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "alex.smith@student.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginLegacyCredentialRequiresReset(t *testing.T) {
	legacy := "184594917"
	accounts := &mockAccountRepo{accountByEmail: &models.Account{
		ID:           "acc-1",
		Email:        "old.timer@student.com",
		PasswordHash: &legacy,
	}}
	svc := newAuthService(accounts, &mockProfileRepo{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "old.timer@student.com", Password: "184594917"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPasswordResetRequired.Code, appErrors.FromError(err).Code)
}

func TestLoginCredentiallessAccount(t *testing.T) {
	accounts := &mockAccountRepo{accountByEmail: &models.Account{ID: "acc-1", Email: "ghost@teacher.com"}}
	svc := newAuthService(accounts, &mockProfileRepo{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@teacher.com", Password: "anything"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestValidateSessionRevoked(t *testing.T) {
	accounts := &mockAccountRepo{accountByEmail: &models.Account{
		ID:           "acc-1",
		Email:        "alex.smith@student.com",
		PasswordHash: bcryptHash(t, "password123"),
	}}
	svc := newAuthService(accounts, &mockProfileRepo{})

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "alex.smith@student.com", Password: "password123"})
	require.NoError(t, err)

	for tokenID := range accounts.sessions {
		require.NoError(t, svc.Logout(context.Background(), tokenID))
	}

	_, err = svc.ValidateSession(context.Background(), res.SessionToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSessionExpired.Code, appErrors.FromError(err).Code)
}

func TestLogoutAbsentSessionIsNoop(t *testing.T) {
	accounts := &mockAccountRepo{}
	svc := newAuthService(accounts, &mockProfileRepo{})

	require.NoError(t, svc.Logout(context.Background(), "already-revoked"))
	require.NoError(t, svc.Logout(context.Background(), "already-revoked"))
	assert.Equal(t, []string{"already-revoked", "already-revoked"}, accounts.deletedSessions)
}

func TestValidateSessionLapsedRowDeleted(t *testing.T) {
	accounts := &mockAccountRepo{accountByEmail: &models.Account{
		ID:           "acc-1",
		Email:        "alex.smith@student.com",
		PasswordHash: bcryptHash(t, "password123"),
	}}
	svc := newAuthService(accounts, &mockProfileRepo{})

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "alex.smith@student.com", Password: "password123"})
	require.NoError(t, err)

	for _, session := range accounts.sessions {
		session.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	}

	_, err = svc.ValidateSession(context.Background(), res.SessionToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSessionExpired.Code, appErrors.FromError(err).Code)
	assert.Len(t, accounts.deletedSessions, 1)
}

func TestValidateSessionBadToken(t *testing.T) {
	svc := newAuthService(&mockAccountRepo{}, &mockProfileRepo{})

	_, err := svc.ValidateSession(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestResetPasswordRevokesSessions(t *testing.T) {
	legacy := "99120841"
	accounts := &mockAccountRepo{accountByEmail: &models.Account{
		ID:           "acc-1",
		Email:        "old.timer@student.com",
		PasswordHash: &legacy,
	}}
	svc := newAuthService(accounts, &mockProfileRepo{})

	err := svc.ResetPassword(context.Background(), models.ResetPasswordRequest{
		Email:       "old.timer@student.com",
		NewPassword: "freshpass1",
	})
	require.NoError(t, err)
	assert.Equal(t, "acc-1", accounts.accountSessionsOf)
	assert.Equal(t, models.CredentialAdaptive, models.ClassifyCredential(accounts.updatedHash))
}
