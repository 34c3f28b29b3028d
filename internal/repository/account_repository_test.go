package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muselink/muselink-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func TestAccountFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	now := time.Now()
	hash := "$2a$10$abcdef"
	rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "password_hash", "role", "created_at", "updated_at"}).
		AddRow("acc-1", "Alex", "Smith", "alex.smith@student.com", hash, string(models.RoleStudent), now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, first_name, last_name, email, password_hash, role, created_at, updated_at FROM accounts WHERE email = $1 LIMIT 1")).
		WithArgs("alex.smith@student.com").
		WillReturnRows(rows)

	account, err := repo.FindByEmail(context.Background(), "alex.smith@student.com")
	require.NoError(t, err)
	assert.Equal(t, "Alex Smith", account.FullName())
	require.NotNil(t, account.PasswordHash)
	assert.Equal(t, hash, *account.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountFindByEmailMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE email").
		WithArgs("nobody@student.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "nobody@student.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectExec("INSERT INTO accounts").WillReturnResult(sqlmock.NewResult(0, 1))

	account := &models.Account{
		FirstName: "Alex",
		LastName:  "Smith",
		Email:     "alex.smith@student.com",
		Role:      models.RoleStudent,
	}
	require.NoError(t, repo.Create(context.Background(), account))
	assert.NotEmpty(t, account.ID)
	assert.False(t, account.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionLifecycle(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	now := time.Now().UTC()
	mock.ExpectExec("INSERT INTO sessions").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.CreateSession(context.Background(), &models.Session{
		TokenID:   "tok-1",
		AccountID: "acc-1",
		ExpiresAt: now.Add(time.Hour),
	}))

	rows := sqlmock.NewRows([]string{"token_id", "account_id", "created_at", "expires_at", "ip_address", "user_agent"}).
		AddRow("tok-1", "acc-1", now, now.Add(time.Hour), "127.0.0.1", "test-agent")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT token_id, account_id, created_at, expires_at, ip_address, user_agent FROM sessions WHERE token_id = $1 LIMIT 1")).
		WithArgs("tok-1").
		WillReturnRows(rows)
	session, err := repo.FindSession(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", session.AccountID)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE token_id = $1")).
		WithArgs("tok-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.DeleteSession(context.Background(), "tok-1"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurgeExpiredSessions(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM sessions WHERE expires_at < $1")).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	purged, err := repo.PurgeExpiredSessions(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), purged)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByRole(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAccountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM accounts WHERE role = $1")).
		WithArgs(models.RoleTeacher).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(8))

	total, err := repo.CountByRole(context.Background(), models.RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, 8, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
