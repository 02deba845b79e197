package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wapanel/golang_services/internal/ledger_service/domain"
	"github.com/wapanel/golang_services/internal/ledger_service/repository"
)

const businessUserColumns = `id, parent_reseller_id, status, name, username, email, phone, password_hash,
	business_name, whatsapp_number,
	credits_allocated, credits_used, credits_remaining, created_at, updated_at`

type pgBusinessUserRepository struct {
	logger *slog.Logger
}

// NewPgBusinessUserRepository creates a BusinessUserRepository backed by PostgreSQL.
func NewPgBusinessUserRepository(logger *slog.Logger) repository.BusinessUserRepository {
	return &pgBusinessUserRepository{logger: logger.With("repository", "business_user_pg")}
}

func (r *pgBusinessUserRepository) Create(ctx context.Context, q repository.Querier, user *domain.BusinessUser) (*domain.BusinessUser, error) {
	query := `
		INSERT INTO business_users (` + businessUserColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := q.Exec(ctx, query,
		user.ID, user.ParentResellerID, user.Status, user.Name, user.Username, user.Email, user.Phone, user.PasswordHash,
		user.BusinessName, user.WhatsAppNumber,
		user.CreditsAllocated, user.CreditsUsed, user.CreditsRemaining, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, domain.ErrDuplicateAccount
		}
		return nil, fmt.Errorf("failed to insert business user: %w", err)
	}
	return user, nil
}

func (r *pgBusinessUserRepository) GetByID(ctx context.Context, q repository.Querier, id string) (*domain.BusinessUser, error) {
	query := `SELECT ` + businessUserColumns + ` FROM business_users WHERE id = $1`
	return r.scanOne(q.QueryRow(ctx, query, id))
}

func (r *pgBusinessUserRepository) GetByIDForUpdate(ctx context.Context, q repository.Querier, id string) (*domain.BusinessUser, error) {
	query := `SELECT ` + businessUserColumns + ` FROM business_users WHERE id = $1 FOR UPDATE`
	return r.scanOne(q.QueryRow(ctx, query, id))
}

func (r *pgBusinessUserRepository) scanOne(row pgx.Row) (*domain.BusinessUser, error) {
	user := &domain.BusinessUser{}
	err := row.Scan(
		&user.ID, &user.ParentResellerID, &user.Status, &user.Name, &user.Username, &user.Email, &user.Phone, &user.PasswordHash,
		&user.BusinessName, &user.WhatsAppNumber,
		&user.CreditsAllocated, &user.CreditsUsed, &user.CreditsRemaining, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBusinessUserNotFound
		}
		return nil, fmt.Errorf("failed to scan business user: %w", err)
	}
	return user, nil
}

func (r *pgBusinessUserRepository) UpdateWallet(ctx context.Context, q repository.Querier, user *domain.BusinessUser) error {
	query := `
		UPDATE business_users
		SET credits_allocated = $2, credits_used = $3, credits_remaining = $4, updated_at = $5
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		user.ID, user.CreditsAllocated, user.CreditsUsed, user.CreditsRemaining, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update business user wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBusinessUserNotFound
	}
	return nil
}

func (r *pgBusinessUserRepository) List(ctx context.Context, q repository.Querier, filter repository.BusinessUserFilter) ([]domain.BusinessUser, error) {
	query := `SELECT ` + businessUserColumns + ` FROM business_users`
	args := []interface{}{}
	if filter.ParentResellerID != nil {
		args = append(args, *filter.ParentResellerID)
		query += ` WHERE parent_reseller_id = $1`
	}
	query += ` ORDER BY created_at DESC, id DESC`
	args = append(args, filter.Limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list business users: %w", err)
	}
	defer rows.Close()

	var users []domain.BusinessUser
	for rows.Next() {
		var user domain.BusinessUser
		err := rows.Scan(
			&user.ID, &user.ParentResellerID, &user.Status, &user.Name, &user.Username, &user.Email, &user.Phone, &user.PasswordHash,
			&user.BusinessName, &user.WhatsAppNumber,
			&user.CreditsAllocated, &user.CreditsUsed, &user.CreditsRemaining, &user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan business user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}
