package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"

	"github.com/mkorolev87/simple-auth/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func userRows(users ...models.UserDB) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"user_id", "email", "username", "password_hash", "first_name", "last_name",
		"is_active", "is_staff", "is_admin", "date_joined",
	})
	for _, u := range users {
		rows.AddRow(u.UserID, u.Email, u.Username, u.PasswordHash, u.FirstName, u.LastName,
			u.IsActive, u.IsStaff, u.IsAdmin, u.DateJoined)
	}
	return rows
}

func TestUserReadRepository_GetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)
	ctx := context.Background()

	want := models.UserDB{
		UserID:       uuid.New(),
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: "hash",
		IsActive:     true,
		DateJoined:   time.Now(),
	}

	mock.ExpectQuery("SELECT user_id, email, username").
		WithArgs("alice@example.com").
		WillReturnRows(userRows(want))

	got, err := repo.GetByEmail(ctx, "alice@example.com")
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, want.UserID, got.UserID)
	assert.Equal(t, want.Email, got.Email)
	assert.True(t, got.IsActive)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserReadRepository_GetByEmail_NoRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT user_id, email, username").
		WithArgs("nobody@example.com").
		WillReturnRows(userRows())

	got, err := repo.GetByEmail(ctx, "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserReadRepository_GetByEmail_DBError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT user_id, email, username").
		WithArgs("alice@example.com").
		WillReturnError(errors.New("connection refused"))

	got, err := repo.GetByEmail(ctx, "alice@example.com")
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestUserReadRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)
	ctx := context.Background()

	want := models.UserDB{
		UserID:   uuid.New(),
		Email:    "bob@example.com",
		Username: "bob",
		IsActive: true,
	}

	mock.ExpectQuery("SELECT user_id, email, username").
		WithArgs(want.UserID).
		WillReturnRows(userRows(want))

	got, err := repo.GetByID(ctx, want.UserID)
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, want.Username, got.Username)
}

func TestUserReadRepository_FilterByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)
	ctx := context.Background()

	want := models.UserDB{UserID: uuid.New(), Email: "carol@example.com", Username: "carol"}

	mock.ExpectQuery("SELECT user_id, email, username").
		WithArgs("carol@example.com").
		WillReturnRows(userRows(want))

	got, err := repo.FilterByEmail(ctx, "carol@example.com")
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, want.UserID, got[0].UserID)
}

func TestUserReadRepository_FilterByEmail_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT user_id, email, username").
		WithArgs("nobody@example.com").
		WillReturnRows(userRows())

	got, err := repo.FilterByEmail(ctx, "nobody@example.com")
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestUserReadRepository_ExistsByUsernameOrEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("alice", "alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByUsernameOrEmail(ctx, "alice", "alice@example.com")
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestUserWriteRepository_Save(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)
	ctx := context.Background()

	user := &models.UserDB{
		UserID:       uuid.New(),
		Email:        "alice@example.com",
		Username:     "alice",
		PasswordHash: "hash",
		IsActive:     true,
	}

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.UserID, user.Email, user.Username, user.PasswordHash,
			user.FirstName, user.LastName, user.IsActive, user.IsStaff, user.IsAdmin).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(ctx, user)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_Save_UniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)
	ctx := context.Background()

	user := &models.UserDB{UserID: uuid.New(), Email: "dup@example.com", Username: "dup"}

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New(`duplicate key value violates unique constraint "users_email_key"`))

	err := repo.Save(ctx, user)
	assert.Error(t, err)
}
