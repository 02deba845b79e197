package postgres

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wapanel/golang_services/internal/ledger_service/domain"
	"github.com/wapanel/golang_services/internal/ledger_service/repository"
)

var businessUserColumnNames = []string{
	"id", "parent_reseller_id", "status", "name", "username", "email", "phone", "password_hash",
	"business_name", "whatsapp_number",
	"credits_allocated", "credits_used", "credits_remaining", "created_at", "updated_at",
}

func setupBusinessUserTest(t *testing.T) (repository.BusinessUserRepository, pgxmock.PgxPoolIface) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := NewPgBusinessUserRepository(logger)
	return repo, mockPool
}

func sampleBusinessUser(parentResellerID string) *domain.BusinessUser {
	now := time.Now().UTC()
	return &domain.BusinessUser{
		ID:               uuid.NewString(),
		ParentResellerID: parentResellerID,
		Status:           "active",
		Name:             "Corner Shop",
		Username:         "cornershop",
		Email:            "shop@example.com",
		Phone:            "+919876543210",
		PasswordHash:     "$2a$10$hash",
		BusinessName:     "Corner Shop LLC",
		WhatsAppNumber:   "+919876543210",
		CreditsAllocated: 40,
		CreditsUsed:      1,
		CreditsRemaining: 39,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func businessUserRow(pool pgxmock.PgxPoolIface, u *domain.BusinessUser) *pgxmock.Rows {
	return pool.NewRows(businessUserColumnNames).AddRow(
		u.ID, u.ParentResellerID, u.Status, u.Name, u.Username, u.Email, u.Phone, u.PasswordHash,
		u.BusinessName, u.WhatsAppNumber,
		u.CreditsAllocated, u.CreditsUsed, u.CreditsRemaining, u.CreatedAt, u.UpdatedAt,
	)
}

func TestPgBusinessUserRepository_Create(t *testing.T) {
	repo, mockPool := setupBusinessUserTest(t)
	defer mockPool.Close()

	user := sampleBusinessUser(uuid.NewString())

	t.Run("Success", func(t *testing.T) {
		mockPool.ExpectExec(`INSERT INTO business_users`).
			WithArgs(
				user.ID, user.ParentResellerID, user.Status, user.Name, user.Username, user.Email, user.Phone, user.PasswordHash,
				user.BusinessName, user.WhatsAppNumber,
				user.CreditsAllocated, user.CreditsUsed, user.CreditsRemaining, user.CreatedAt, user.UpdatedAt,
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		created, err := repo.Create(context.Background(), mockPool, user)
		require.NoError(t, err)
		assert.Equal(t, user, created)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		mockPool.ExpectExec(`INSERT INTO business_users`).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "business_users_username_key"})

		created, err := repo.Create(context.Background(), mockPool, user)
		assert.Nil(t, created)
		assert.ErrorIs(t, err, domain.ErrDuplicateAccount)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgBusinessUserRepository_GetByIDForUpdate(t *testing.T) {
	repo, mockPool := setupBusinessUserTest(t)
	defer mockPool.Close()

	user := sampleBusinessUser(uuid.NewString())

	t.Run("Found", func(t *testing.T) {
		mockPool.ExpectQuery(`SELECT (.+) FROM business_users WHERE id = \$1 FOR UPDATE`).
			WithArgs(user.ID).
			WillReturnRows(businessUserRow(mockPool, user))

		found, err := repo.GetByIDForUpdate(context.Background(), mockPool, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.Equal(t, 39.0, found.CreditsRemaining)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mockPool.ExpectQuery(`SELECT (.+) FROM business_users WHERE id = \$1 FOR UPDATE`).
			WithArgs("ghost").
			WillReturnError(pgx.ErrNoRows)

		found, err := repo.GetByIDForUpdate(context.Background(), mockPool, "ghost")
		assert.Nil(t, found)
		assert.ErrorIs(t, err, domain.ErrBusinessUserNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgBusinessUserRepository_UpdateWallet(t *testing.T) {
	repo, mockPool := setupBusinessUserTest(t)
	defer mockPool.Close()

	user := sampleBusinessUser(uuid.NewString())

	t.Run("Success", func(t *testing.T) {
		mockPool.ExpectExec(`UPDATE business_users`).
			WithArgs(user.ID, user.CreditsAllocated, user.CreditsUsed, user.CreditsRemaining, user.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateWallet(context.Background(), mockPool, user)
		require.NoError(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mockPool.ExpectExec(`UPDATE business_users`).
			WithArgs(user.ID, user.CreditsAllocated, user.CreditsUsed, user.CreditsRemaining, user.UpdatedAt).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateWallet(context.Background(), mockPool, user)
		assert.ErrorIs(t, err, domain.ErrBusinessUserNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestPgBusinessUserRepository_List(t *testing.T) {
	repo, mockPool := setupBusinessUserTest(t)
	defer mockPool.Close()

	parentID := uuid.NewString()
	user := sampleBusinessUser(parentID)

	t.Run("FilteredByParent", func(t *testing.T) {
		mockPool.ExpectQuery(`SELECT (.+) FROM business_users WHERE parent_reseller_id = \$1 ORDER BY created_at DESC, id DESC LIMIT \$2 OFFSET \$3`).
			WithArgs(parentID, 100, 0).
			WillReturnRows(businessUserRow(mockPool, user))

		users, err := repo.List(context.Background(), mockPool, repository.BusinessUserFilter{
			ParentResellerID: &parentID,
			Offset:           0,
			Limit:            100,
		})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, user.ID, users[0].ID)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("Unfiltered", func(t *testing.T) {
		mockPool.ExpectQuery(`SELECT (.+) FROM business_users ORDER BY created_at DESC, id DESC LIMIT \$1 OFFSET \$2`).
			WithArgs(100, 0).
			WillReturnRows(businessUserRow(mockPool, user))

		users, err := repo.List(context.Background(), mockPool, repository.BusinessUserFilter{Offset: 0, Limit: 100})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
