package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/wapanel/golang_services/internal/ledger_service/domain"
	"github.com/wapanel/golang_services/internal/ledger_service/repository"
)

type pgMessageRepository struct {
	logger *slog.Logger
}

// NewPgMessageRepository creates a MessageRepository backed by PostgreSQL.
func NewPgMessageRepository(logger *slog.Logger) repository.MessageRepository {
	return &pgMessageRepository{logger: logger.With("repository", "message_pg")}
}

func (r *pgMessageRepository) Create(ctx context.Context, q repository.Querier, message *domain.Message) (*domain.Message, error) {
	query := `
		INSERT INTO messages (id, business_user_id, mode, sender_number, receiver_number,
		                      message_type, template_name, body, status, credits_used, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := q.Exec(ctx, query,
		message.ID, message.BusinessUserID, message.Mode, message.SenderNumber, message.ReceiverNumber,
		message.MessageType, message.TemplateName, message.Body, message.Status, message.CreditsUsed, message.SentAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert message: %w", err)
	}
	return message, nil
}

func (r *pgMessageRepository) GetByID(ctx context.Context, q repository.Querier, id string) (*domain.Message, error) {
	query := `
		SELECT id, business_user_id, mode, sender_number, receiver_number,
		       message_type, template_name, body, status, credits_used, sent_at
		FROM messages WHERE id = $1
	`
	message := &domain.Message{}
	err := q.QueryRow(ctx, query, id).Scan(
		&message.ID, &message.BusinessUserID, &message.Mode, &message.SenderNumber, &message.ReceiverNumber,
		&message.MessageType, &message.TemplateName, &message.Body, &message.Status, &message.CreditsUsed, &message.SentAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to scan message: %w", err)
	}
	return message, nil
}
