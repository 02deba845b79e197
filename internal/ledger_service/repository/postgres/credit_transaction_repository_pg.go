package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/wapanel/golang_services/internal/ledger_service/domain"
	"github.com/wapanel/golang_services/internal/ledger_service/repository"
)

type pgCreditTransactionRepository struct {
	logger *slog.Logger
}

// NewPgCreditTransactionRepository creates a CreditTransactionRepository
// backed by PostgreSQL. The table is append-only; no update or delete
// statements exist here.
func NewPgCreditTransactionRepository(logger *slog.Logger) repository.CreditTransactionRepository {
	return &pgCreditTransactionRepository{logger: logger.With("repository", "credit_transaction_pg")}
}

func (r *pgCreditTransactionRepository) Create(ctx context.Context, q repository.Querier, transaction *domain.CreditTransaction) (*domain.CreditTransaction, error) {
	query := `
		INSERT INTO credit_transactions (id, from_reseller_id, to_business_user_id, credits, shared_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := q.Exec(ctx, query,
		transaction.ID, transaction.FromResellerID, transaction.ToBusinessUserID, transaction.Credits, transaction.SharedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert credit transaction: %w", err)
	}
	return transaction, nil
}

func (r *pgCreditTransactionRepository) List(ctx context.Context, q repository.Querier, filter repository.CreditTransactionFilter) ([]domain.CreditTransaction, error) {
	query := `SELECT id, from_reseller_id, to_business_user_id, credits, shared_at FROM credit_transactions`
	args := []interface{}{}
	where := ""
	if filter.FromResellerID != nil {
		args = append(args, *filter.FromResellerID)
		where = ` WHERE from_reseller_id = $` + strconv.Itoa(len(args))
	}
	if filter.ToBusinessUserID != nil {
		args = append(args, *filter.ToBusinessUserID)
		if where == "" {
			where = ` WHERE to_business_user_id = $` + strconv.Itoa(len(args))
		} else {
			where += ` AND to_business_user_id = $` + strconv.Itoa(len(args))
		}
	}
	query += where

	// Most recent first; the id tiebreak keeps the order stable under
	// concurrent inserts sharing a timestamp.
	query += ` ORDER BY shared_at DESC, id DESC`
	args = append(args, filter.Limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit transactions: %w", err)
	}
	defer rows.Close()

	var transactions []domain.CreditTransaction
	for rows.Next() {
		var tx domain.CreditTransaction
		if err := rows.Scan(&tx.ID, &tx.FromResellerID, &tx.ToBusinessUserID, &tx.Credits, &tx.SharedAt); err != nil {
			return nil, fmt.Errorf("failed to scan credit transaction row: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}
