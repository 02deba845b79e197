package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wapanel/golang_services/internal/ledger_service/domain"
)

// Querier is the common interface satisfied by pgxpool.Pool and pgx.Tx so
// repository methods can run inside or outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// TxBeginner starts database transactions; satisfied by pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ResellerRepository persists reseller accounts.
type ResellerRepository interface {
	Create(ctx context.Context, q Querier, reseller *domain.Reseller) (*domain.Reseller, error)
	GetByID(ctx context.Context, q Querier, id string) (*domain.Reseller, error)
	// GetByIDForUpdate loads the reseller with a row-level lock so the
	// sufficiency check and the wallet mutation form one serializable unit.
	GetByIDForUpdate(ctx context.Context, q Querier, id string) (*domain.Reseller, error)
	UpdateWallet(ctx context.Context, q Querier, reseller *domain.Reseller) error
	List(ctx context.Context, q Querier, offset, limit int) ([]domain.Reseller, error)
}

// BusinessUserRepository persists business user accounts.
type BusinessUserRepository interface {
	Create(ctx context.Context, q Querier, user *domain.BusinessUser) (*domain.BusinessUser, error)
	GetByID(ctx context.Context, q Querier, id string) (*domain.BusinessUser, error)
	GetByIDForUpdate(ctx context.Context, q Querier, id string) (*domain.BusinessUser, error)
	UpdateWallet(ctx context.Context, q Querier, user *domain.BusinessUser) error
	List(ctx context.Context, q Querier, filter BusinessUserFilter) ([]domain.BusinessUser, error)
}

// BusinessUserFilter narrows business user listings.
type BusinessUserFilter struct {
	ParentResellerID *string
	Offset           int
	Limit            int
}

// CreditTransactionFilter narrows credit history listings.
type CreditTransactionFilter struct {
	FromResellerID   *string
	ToBusinessUserID *string
	Offset           int
	Limit            int
}

// CreditTransactionRepository persists the append-only distribution audit
// trail. There is deliberately no update or delete.
type CreditTransactionRepository interface {
	Create(ctx context.Context, q Querier, transaction *domain.CreditTransaction) (*domain.CreditTransaction, error)
	List(ctx context.Context, q Querier, filter CreditTransactionFilter) ([]domain.CreditTransaction, error)
}

// UsageLogRepository persists the append-only consumption audit trail.
type UsageLogRepository interface {
	Create(ctx context.Context, q Querier, log *domain.UsageLog) (*domain.UsageLog, error)
	ListByBusinessUserID(ctx context.Context, q Querier, businessUserID string, offset, limit int) ([]domain.UsageLog, error)
}

// MessageRepository persists outbound messages.
type MessageRepository interface {
	Create(ctx context.Context, q Querier, message *domain.Message) (*domain.Message, error)
	GetByID(ctx context.Context, q Querier, id string) (*domain.Message, error)
}
