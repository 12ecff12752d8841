package repository

import (
	"context"
	"errors"
	"testing"

	"lineup/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestProfileRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	const id = "7f0a1f3e-8a1c-4c62-9d5e-0b1d2c3e4f5a"

	tests := []struct {
		name          string
		mockBehavior  func()
		expectedError bool
	}{
		{
			name: "Success",
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "username", "email"}).
					AddRow(id, "casey", "casey@example.com")
				mock.ExpectQuery(`SELECT \* FROM "profiles"`).
					WithArgs(id, 1).
					WillReturnRows(rows)
			},
		},
		{
			name: "Not Found",
			mockBehavior: func() {
				mock.ExpectQuery(`SELECT \* FROM "profiles"`).
					WithArgs(id, 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			profile, err := repo.GetByID(ctx, id)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, profile)
			} else if assert.NotNil(t, profile) {
				assert.Equal(t, "casey", profile.Username)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// A not-found result returns immediately; only transient errors are retried,
// so the database sees the read at most twice.
func TestProfileRepository_GetByID_RetriesTransientErrorOnce(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)

	const id = "7f0a1f3e-8a1c-4c62-9d5e-0b1d2c3e4f5a"
	transient := errors.New("connection timeout")

	mock.ExpectQuery(`SELECT \* FROM "profiles"`).
		WithArgs(id, 1).
		WillReturnError(transient)
	mock.ExpectQuery(`SELECT \* FROM "profiles"`).
		WithArgs(id, 1).
		WillReturnError(transient)

	profile, err := repo.GetByID(context.Background(), id)
	assert.Error(t, err)
	assert.Nil(t, profile)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_GetByEmail_NotFoundIsNotAnError(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "profiles"`).
		WithArgs("missing@example.com", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	profile, err := repo.GetByEmail(context.Background(), "missing@example.com")
	assert.NoError(t, err)
	assert.Nil(t, profile)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepository_UsernameExists(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	tests := []struct {
		name     string
		count    int64
		expected bool
	}{
		{name: "Taken", count: 1, expected: true},
		{name: "Available", count: 0, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := sqlmock.NewRows([]string{"count"}).AddRow(tt.count)
			mock.ExpectQuery(`SELECT count\(\*\) FROM "profiles"`).
				WithArgs("casey").
				WillReturnRows(rows)

			exists, err := repo.UsernameExists(ctx, "casey")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, exists)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProfileRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "profiles"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	profile := &models.Profile{
		Username: "casey",
		Email:    "casey@example.com",
		Password: "hashed",
	}
	err := repo.Create(context.Background(), profile)
	assert.NoError(t, err)
	assert.NotEmpty(t, profile.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
