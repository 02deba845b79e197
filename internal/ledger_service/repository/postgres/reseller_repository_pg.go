package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wapanel/golang_services/internal/ledger_service/domain"
	"github.com/wapanel/golang_services/internal/ledger_service/repository"
)

const uniqueViolationCode = "23505"

const resellerColumns = `id, status, name, username, email, phone, password_hash,
	business_name, business_description, erp_system, gstin,
	full_address, pincode, country, bank_name,
	total_credits, available_credits, used_credits, created_at, updated_at`

type pgResellerRepository struct {
	logger *slog.Logger
}

// NewPgResellerRepository creates a ResellerRepository backed by PostgreSQL.
func NewPgResellerRepository(logger *slog.Logger) repository.ResellerRepository {
	return &pgResellerRepository{logger: logger.With("repository", "reseller_pg")}
}

func (r *pgResellerRepository) Create(ctx context.Context, q repository.Querier, reseller *domain.Reseller) (*domain.Reseller, error) {
	query := `
		INSERT INTO resellers (` + resellerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`
	_, err := q.Exec(ctx, query,
		reseller.ID, reseller.Status, reseller.Name, reseller.Username, reseller.Email, reseller.Phone, reseller.PasswordHash,
		reseller.BusinessName, reseller.BusinessDescription, reseller.ERPSystem, reseller.GSTIN,
		reseller.FullAddress, reseller.Pincode, reseller.Country, reseller.BankName,
		reseller.TotalCredits, reseller.AvailableCredits, reseller.UsedCredits, reseller.CreatedAt, reseller.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, domain.ErrDuplicateAccount
		}
		return nil, fmt.Errorf("failed to insert reseller: %w", err)
	}
	return reseller, nil
}

func (r *pgResellerRepository) GetByID(ctx context.Context, q repository.Querier, id string) (*domain.Reseller, error) {
	query := `SELECT ` + resellerColumns + ` FROM resellers WHERE id = $1`
	return r.scanOne(q.QueryRow(ctx, query, id))
}

func (r *pgResellerRepository) GetByIDForUpdate(ctx context.Context, q repository.Querier, id string) (*domain.Reseller, error) {
	query := `SELECT ` + resellerColumns + ` FROM resellers WHERE id = $1 FOR UPDATE`
	return r.scanOne(q.QueryRow(ctx, query, id))
}

func (r *pgResellerRepository) scanOne(row pgx.Row) (*domain.Reseller, error) {
	reseller := &domain.Reseller{}
	err := row.Scan(
		&reseller.ID, &reseller.Status, &reseller.Name, &reseller.Username, &reseller.Email, &reseller.Phone, &reseller.PasswordHash,
		&reseller.BusinessName, &reseller.BusinessDescription, &reseller.ERPSystem, &reseller.GSTIN,
		&reseller.FullAddress, &reseller.Pincode, &reseller.Country, &reseller.BankName,
		&reseller.TotalCredits, &reseller.AvailableCredits, &reseller.UsedCredits, &reseller.CreatedAt, &reseller.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrResellerNotFound
		}
		return nil, fmt.Errorf("failed to scan reseller: %w", err)
	}
	return reseller, nil
}

func (r *pgResellerRepository) UpdateWallet(ctx context.Context, q repository.Querier, reseller *domain.Reseller) error {
	query := `
		UPDATE resellers
		SET total_credits = $2, available_credits = $3, used_credits = $4, updated_at = $5
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		reseller.ID, reseller.TotalCredits, reseller.AvailableCredits, reseller.UsedCredits, reseller.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update reseller wallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrResellerNotFound
	}
	return nil
}

func (r *pgResellerRepository) List(ctx context.Context, q repository.Querier, offset, limit int) ([]domain.Reseller, error) {
	query := `SELECT ` + resellerColumns + ` FROM resellers ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list resellers: %w", err)
	}
	defer rows.Close()

	var resellers []domain.Reseller
	for rows.Next() {
		var reseller domain.Reseller
		err := rows.Scan(
			&reseller.ID, &reseller.Status, &reseller.Name, &reseller.Username, &reseller.Email, &reseller.Phone, &reseller.PasswordHash,
			&reseller.BusinessName, &reseller.BusinessDescription, &reseller.ERPSystem, &reseller.GSTIN,
			&reseller.FullAddress, &reseller.Pincode, &reseller.Country, &reseller.BankName,
			&reseller.TotalCredits, &reseller.AvailableCredits, &reseller.UsedCredits, &reseller.CreatedAt, &reseller.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reseller row: %w", err)
		}
		resellers = append(resellers, reseller)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return resellers, nil
}
