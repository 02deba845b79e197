package postgres

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wapanel/golang_services/internal/ledger_service/domain"
	"github.com/wapanel/golang_services/internal/ledger_service/repository"
)

func setupMessageTest(t *testing.T) (repository.MessageRepository, pgxmock.PgxPoolIface) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := NewPgMessageRepository(logger)
	return repo, mockPool
}

func TestPgMessageRepository_Create(t *testing.T) {
	repo, mockPool := setupMessageTest(t)
	defer mockPool.Close()

	message := &domain.Message{
		ID:             uuid.NewString(),
		BusinessUserID: uuid.NewString(),
		Mode:           domain.DeliveryModeOfficial,
		SenderNumber:   "+14155550100",
		ReceiverNumber: "+919876543210",
		MessageType:    domain.MessageTypeText,
		Body:           "hello",
		Status:         domain.MessageStatusSent,
		CreditsUsed:    1,
		SentAt:         time.Now().UTC(),
	}

	mockPool.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			message.ID, message.BusinessUserID, message.Mode, message.SenderNumber, message.ReceiverNumber,
			message.MessageType, message.TemplateName, message.Body, message.Status, message.CreditsUsed, message.SentAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	created, err := repo.Create(context.Background(), mockPool, message)
	require.NoError(t, err)
	assert.Equal(t, message, created)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPgMessageRepository_GetByID(t *testing.T) {
	repo, mockPool := setupMessageTest(t)
	defer mockPool.Close()

	messageID := uuid.NewString()
	templateName := "order_update"

	t.Run("Found", func(t *testing.T) {
		rows := mockPool.NewRows([]string{
			"id", "business_user_id", "mode", "sender_number", "receiver_number",
			"message_type", "template_name", "body", "status", "credits_used", "sent_at",
		}).AddRow(
			messageID, "bu-1", domain.DeliveryModeOfficial, "+14155550100", "+919876543210",
			domain.MessageTypeTemplate, &templateName, "hello", domain.MessageStatusSent, 1.0, time.Now().UTC(),
		)

		mockPool.ExpectQuery(`SELECT (.+) FROM messages WHERE id = \$1`).
			WithArgs(messageID).
			WillReturnRows(rows)

		message, err := repo.GetByID(context.Background(), mockPool, messageID)
		require.NoError(t, err)
		require.NotNil(t, message)
		assert.Equal(t, messageID, message.ID)
		assert.Equal(t, domain.MessageTypeTemplate, message.MessageType)
		require.NotNil(t, message.TemplateName)
		assert.Equal(t, "order_update", *message.TemplateName)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mockPool.ExpectQuery(`SELECT (.+) FROM messages WHERE id = \$1`).
			WithArgs("ghost").
			WillReturnError(pgx.ErrNoRows)

		message, err := repo.GetByID(context.Background(), mockPool, "ghost")
		assert.Nil(t, message)
		assert.ErrorIs(t, err, domain.ErrMessageNotFound)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
