package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/wapanel/golang_services/internal/ledger_service/domain"
	"github.com/wapanel/golang_services/internal/platform/messagebroker"
)

// NATS subjects for committed ledger events.
const (
	SubjectCreditsDistributed = "ledger.credits.distributed"
	SubjectMessageSent        = "ledger.messages.sent"
)

// Publisher emits ledger events to NATS after a unit has committed.
type Publisher struct {
	nats   *messagebroker.NatsClient
	logger *slog.Logger
}

// NewPublisher creates a NATS-backed ledger event publisher.
func NewPublisher(nats *messagebroker.NatsClient, logger *slog.Logger) *Publisher {
	return &Publisher{nats: nats, logger: logger.With("adapter", "ledger_events")}
}

// CreditsDistributed publishes a committed credit distribution.
func (p *Publisher) CreditsDistributed(ctx context.Context, transaction *domain.CreditTransaction) error {
	payload, err := json.Marshal(transaction)
	if err != nil {
		return fmt.Errorf("failed to marshal credit transaction event: %w", err)
	}
	return p.nats.Publish(ctx, SubjectCreditsDistributed, payload)
}

// MessageSent publishes a committed message send.
func (p *Publisher) MessageSent(ctx context.Context, message *domain.Message) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message event: %w", err)
	}
	return p.nats.Publish(ctx, SubjectMessageSent, payload)
}
