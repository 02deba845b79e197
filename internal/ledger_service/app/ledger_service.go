package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wapanel/golang_services/internal/ledger_service/domain"
	"github.com/wapanel/golang_services/internal/ledger_service/repository"
)

// LedgerEventPublisher notifies downstream consumers after a ledger unit has
// committed. Publishing is best-effort: the commit, not the event, is the
// point of truth.
type LedgerEventPublisher interface {
	CreditsDistributed(ctx context.Context, transaction *domain.CreditTransaction) error
	MessageSent(ctx context.Context, message *domain.Message) error
}

// SendMessageInput carries the validated fields of one outbound send attempt
// into the ledger engine.
type SendMessageInput struct {
	Mode           domain.DeliveryMode
	SenderNumber   string
	ReceiverNumber string
	MessageType    domain.MessageType
	TemplateName   *string
	Body           string
}

// LedgerService validates and applies balance-mutating operations as atomic
// units. Every Distribute/Consume call runs inside one database transaction
// with row-level locks on the accounts it touches, so two concurrent callers
// that both pass the sufficiency check cannot both commit an overdraft.
type LedgerService struct {
	db               repository.TxBeginner
	resellerRepo     repository.ResellerRepository
	businessUserRepo repository.BusinessUserRepository
	creditTxRepo     repository.CreditTransactionRepository
	usageLogRepo     repository.UsageLogRepository
	messageRepo      repository.MessageRepository
	pricing          domain.Pricing
	events           LedgerEventPublisher
	logger           *slog.Logger
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(
	db repository.TxBeginner,
	resellerRepo repository.ResellerRepository,
	businessUserRepo repository.BusinessUserRepository,
	creditTxRepo repository.CreditTransactionRepository,
	usageLogRepo repository.UsageLogRepository,
	messageRepo repository.MessageRepository,
	pricing domain.Pricing,
	events LedgerEventPublisher,
	logger *slog.Logger,
) *LedgerService {
	return &LedgerService{
		db:               db,
		resellerRepo:     resellerRepo,
		businessUserRepo: businessUserRepo,
		creditTxRepo:     creditTxRepo,
		usageLogRepo:     usageLogRepo,
		messageRepo:      messageRepo,
		pricing:          pricing,
		events:           events,
		logger:           logger.With("service", "ledger"),
	}
}

// Distribute moves amount from a reseller's spendable balance into an owned
// business user's spendable balance and appends one CreditTransaction, all
// inside a single database transaction. On any error the unit rolls back and
// balances are exactly as before the call.
func (s *LedgerService) Distribute(ctx context.Context, fromResellerID, toBusinessUserID string, amount float64) (*domain.CreditTransaction, error) {
	start := time.Now()
	var created *domain.CreditTransaction

	txErr := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		// Lock order is fixed: reseller row first, then business user row.
		// Consume only locks business user rows, so the orders never cross.
		reseller, err := s.resellerRepo.GetByIDForUpdate(ctx, tx, fromResellerID)
		if err != nil {
			return err
		}
		user, err := s.businessUserRepo.GetByIDForUpdate(ctx, tx, toBusinessUserID)
		if err != nil {
			return err
		}

		if user.ParentResellerID != reseller.ID {
			return domain.ErrNotOwned
		}

		if err := reseller.DebitCredits(amount); err != nil {
			return err
		}
		if err := user.ReceiveCredits(amount); err != nil {
			return err
		}

		now := time.Now().UTC()
		reseller.UpdatedAt = now
		user.UpdatedAt = now
		if err := s.resellerRepo.UpdateWallet(ctx, tx, reseller); err != nil {
			return fmt.Errorf("failed to persist reseller wallet: %w", err)
		}
		if err := s.businessUserRepo.UpdateWallet(ctx, tx, user); err != nil {
			return fmt.Errorf("failed to persist business user wallet: %w", err)
		}

		transaction := &domain.CreditTransaction{
			ID:               uuid.NewString(),
			FromResellerID:   reseller.ID,
			ToBusinessUserID: user.ID,
			Credits:          amount,
			SharedAt:         now,
		}
		created, err = s.creditTxRepo.Create(ctx, tx, transaction)
		if err != nil {
			return fmt.Errorf("failed to record credit transaction: %w", err)
		}
		return nil
	})

	ledgerOperationDurationHist.WithLabelValues("distribute").Observe(time.Since(start).Seconds())
	if txErr != nil {
		ledgerDistributionsTotal.WithLabelValues(outcomeLabel(txErr)).Inc()
		s.logger.WarnContext(ctx, "Credit distribution rejected",
			"from_reseller_id", fromResellerID, "to_business_user_id", toBusinessUserID,
			"amount", amount, "error", txErr)
		return nil, txErr
	}

	ledgerDistributionsTotal.WithLabelValues("success").Inc()
	s.logger.InfoContext(ctx, "Credits distributed",
		"transaction_id", created.ID, "from_reseller_id", created.FromResellerID,
		"to_business_user_id", created.ToBusinessUserID, "credits", created.Credits)

	if err := s.events.CreditsDistributed(ctx, created); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish credits distributed event",
			"transaction_id", created.ID, "error", err)
	}
	return created, nil
}

// Consume charges a business user for one outbound message, creates the
// Message record and appends one UsageLog carrying the post-deduction
// balance. A rejected send produces neither a Message nor a UsageLog.
func (s *LedgerService) Consume(ctx context.Context, businessUserID string, input SendMessageInput) (*domain.Message, error) {
	start := time.Now()

	if input.ReceiverNumber == "" {
		ledgerConsumptionsTotal.WithLabelValues("validation", string(input.Mode)).Inc()
		return nil, domain.ErrMissingRecipient
	}
	cost, err := s.pricing.CostFor(input.Mode)
	if err != nil {
		ledgerConsumptionsTotal.WithLabelValues("validation", string(input.Mode)).Inc()
		return nil, err
	}
	messageType := input.MessageType
	if messageType == "" {
		messageType = domain.MessageTypeText
	}

	var created *domain.Message
	txErr := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		user, err := s.businessUserRepo.GetByIDForUpdate(ctx, tx, businessUserID)
		if err != nil {
			return err
		}

		if err := user.SpendCredits(cost); err != nil {
			return err
		}

		now := time.Now().UTC()
		user.UpdatedAt = now
		if err := s.businessUserRepo.UpdateWallet(ctx, tx, user); err != nil {
			return fmt.Errorf("failed to persist business user wallet: %w", err)
		}

		message := &domain.Message{
			ID:             uuid.NewString(),
			BusinessUserID: user.ID,
			Mode:           input.Mode,
			SenderNumber:   input.SenderNumber,
			ReceiverNumber: input.ReceiverNumber,
			MessageType:    messageType,
			TemplateName:   input.TemplateName,
			Body:           input.Body,
			Status:         domain.MessageStatusSent,
			CreditsUsed:    cost,
			SentAt:         now,
		}
		created, err = s.messageRepo.Create(ctx, tx, message)
		if err != nil {
			return fmt.Errorf("failed to record message: %w", err)
		}

		usageLog := &domain.UsageLog{
			ID:              uuid.NewString(),
			BusinessUserID:  user.ID,
			MessageID:       message.ID,
			CreditsDeducted: cost,
			BalanceAfter:    user.CreditsRemaining,
			CreatedAt:       now,
		}
		if _, err := s.usageLogRepo.Create(ctx, tx, usageLog); err != nil {
			return fmt.Errorf("failed to record usage log: %w", err)
		}
		return nil
	})

	ledgerOperationDurationHist.WithLabelValues("consume").Observe(time.Since(start).Seconds())
	if txErr != nil {
		ledgerConsumptionsTotal.WithLabelValues(outcomeLabel(txErr), string(input.Mode)).Inc()
		s.logger.WarnContext(ctx, "Message send rejected",
			"business_user_id", businessUserID, "mode", input.Mode, "cost", cost, "error", txErr)
		return nil, txErr
	}

	ledgerConsumptionsTotal.WithLabelValues("success", string(input.Mode)).Inc()
	s.logger.InfoContext(ctx, "Message sent and credits consumed",
		"message_id", created.ID, "business_user_id", created.BusinessUserID,
		"mode", created.Mode, "credits_used", created.CreditsUsed)

	if err := s.events.MessageSent(ctx, created); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish message sent event",
			"message_id", created.ID, "error", err)
	}
	return created, nil
}

// outcomeLabel folds the error taxonomy into a metric label.
func outcomeLabel(err error) string {
	var insufficient *domain.InsufficientCreditsError
	switch {
	case errors.Is(err, domain.ErrResellerNotFound), errors.Is(err, domain.ErrBusinessUserNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrNotOwned):
		return "forbidden"
	case errors.As(err, &insufficient):
		return "insufficient_credits"
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrUnknownDeliveryMode),
		errors.Is(err, domain.ErrMissingRecipient):
		return "validation"
	default:
		return "error"
	}
}
