package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wapanel/golang_services/internal/ledger_service/domain"
	"github.com/wapanel/golang_services/internal/ledger_service/repository"
)

type pgUsageLogRepository struct {
	logger *slog.Logger
}

// NewPgUsageLogRepository creates a UsageLogRepository backed by PostgreSQL.
// Append-only, like the credit transaction table.
func NewPgUsageLogRepository(logger *slog.Logger) repository.UsageLogRepository {
	return &pgUsageLogRepository{logger: logger.With("repository", "usage_log_pg")}
}

func (r *pgUsageLogRepository) Create(ctx context.Context, q repository.Querier, log *domain.UsageLog) (*domain.UsageLog, error) {
	query := `
		INSERT INTO usage_logs (id, business_user_id, message_id, credits_deducted, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.Exec(ctx, query,
		log.ID, log.BusinessUserID, log.MessageID, log.CreditsDeducted, log.BalanceAfter, log.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert usage log: %w", err)
	}
	return log, nil
}

func (r *pgUsageLogRepository) ListByBusinessUserID(ctx context.Context, q repository.Querier, businessUserID string, offset, limit int) ([]domain.UsageLog, error) {
	query := `
		SELECT id, business_user_id, message_id, credits_deducted, balance_after, created_at
		FROM usage_logs
		WHERE business_user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := q.Query(ctx, query, businessUserID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list usage logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.UsageLog
	for rows.Next() {
		var log domain.UsageLog
		if err := rows.Scan(&log.ID, &log.BusinessUserID, &log.MessageID, &log.CreditsDeducted, &log.BalanceAfter, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan usage log row: %w", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}
