package app

import (
	"context"
	"log/slog"

	"github.com/wapanel/golang_services/internal/ledger_service/domain"
	"github.com/wapanel/golang_services/internal/ledger_service/repository"
)

// defaultListLimit applies when a caller omits or zeroes the page limit.
const defaultListLimit = 100

// QueryService is the read-only side: get-by-id, filtered lists and
// paginated history over accounts and audit records. No mutation.
type QueryService struct {
	db               repository.Querier
	resellerRepo     repository.ResellerRepository
	businessUserRepo repository.BusinessUserRepository
	creditTxRepo     repository.CreditTransactionRepository
	usageLogRepo     repository.UsageLogRepository
	messageRepo      repository.MessageRepository
	logger           *slog.Logger
}

// NewQueryService creates a new QueryService.
func NewQueryService(
	db repository.Querier,
	resellerRepo repository.ResellerRepository,
	businessUserRepo repository.BusinessUserRepository,
	creditTxRepo repository.CreditTransactionRepository,
	usageLogRepo repository.UsageLogRepository,
	messageRepo repository.MessageRepository,
	logger *slog.Logger,
) *QueryService {
	return &QueryService{
		db:               db,
		resellerRepo:     resellerRepo,
		businessUserRepo: businessUserRepo,
		creditTxRepo:     creditTxRepo,
		usageLogRepo:     usageLogRepo,
		messageRepo:      messageRepo,
		logger:           logger.With("service", "query"),
	}
}

func normalizePage(skip, limit int) (offset, lim int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	return skip, limit
}

// GetReseller returns the reseller with the given id, or ErrResellerNotFound.
func (s *QueryService) GetReseller(ctx context.Context, id string) (*domain.Reseller, error) {
	return s.resellerRepo.GetByID(ctx, s.db, id)
}

// GetBusinessUser returns the business user with the given id, or
// ErrBusinessUserNotFound.
func (s *QueryService) GetBusinessUser(ctx context.Context, id string) (*domain.BusinessUser, error) {
	return s.businessUserRepo.GetByID(ctx, s.db, id)
}

// GetMessage returns the message with the given id, or ErrMessageNotFound.
func (s *QueryService) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	return s.messageRepo.GetByID(ctx, s.db, id)
}

// ListResellers returns a page of reseller accounts.
func (s *QueryService) ListResellers(ctx context.Context, skip, limit int) ([]domain.Reseller, error) {
	offset, lim := normalizePage(skip, limit)
	return s.resellerRepo.List(ctx, s.db, offset, lim)
}

// ListBusinessUsers returns a page of business users, optionally filtered by
// owning reseller.
func (s *QueryService) ListBusinessUsers(ctx context.Context, parentResellerID *string, skip, limit int) ([]domain.BusinessUser, error) {
	offset, lim := normalizePage(skip, limit)
	return s.businessUserRepo.List(ctx, s.db, repository.BusinessUserFilter{
		ParentResellerID: parentResellerID,
		Offset:           offset,
		Limit:            lim,
	})
}

// CreditHistory returns distribution audit records, most recent first,
// optionally filtered by either side of the transfer.
func (s *QueryService) CreditHistory(ctx context.Context, fromResellerID, toBusinessUserID *string, skip, limit int) ([]domain.CreditTransaction, error) {
	offset, lim := normalizePage(skip, limit)
	return s.creditTxRepo.List(ctx, s.db, repository.CreditTransactionFilter{
		FromResellerID:   fromResellerID,
		ToBusinessUserID: toBusinessUserID,
		Offset:           offset,
		Limit:            lim,
	})
}

// UsageHistory returns consumption audit records for one business user, most
// recent first.
func (s *QueryService) UsageHistory(ctx context.Context, businessUserID string, skip, limit int) ([]domain.UsageLog, error) {
	offset, lim := normalizePage(skip, limit)
	return s.usageLogRepo.ListByBusinessUserID(ctx, s.db, businessUserID, offset, lim)
}
