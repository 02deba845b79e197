package app

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"

	"github.com/wapanel/golang_services/internal/ledger_service/domain"
	"github.com/wapanel/golang_services/internal/ledger_service/repository"
)

// --- Transaction fakes ---

// fakeTx is a minimal pgx.Tx that records whether the atomic unit committed
// or rolled back. Repositories are mocked, so the SQL surface is inert.
type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }

func (t *fakeTx) Commit(ctx context.Context) error {
	if t.committed || t.rolledBack {
		return pgx.ErrTxClosed
	}
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if t.committed || t.rolledBack {
		return pgx.ErrTxClosed
	}
	t.rolledBack = true
	return nil
}

func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *fakeTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *fakeTx) Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *fakeTx) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return nil, nil
}
func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row { return nil }
func (t *fakeTx) Conn() *pgx.Conn                                                       { return nil }

// fakeDB hands out fakeTx instances and keeps the last one for assertions.
type fakeDB struct {
	lastTx   *fakeTx
	beginErr error
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	if db.beginErr != nil {
		return nil, db.beginErr
	}
	db.lastTx = &fakeTx{}
	return db.lastTx, nil
}

// --- Repository mocks ---

type MockResellerRepository struct {
	mock.Mock
}

func (m *MockResellerRepository) Create(ctx context.Context, q repository.Querier, reseller *domain.Reseller) (*domain.Reseller, error) {
	args := m.Called(ctx, q, reseller)
	if args.Get(0) == nil {
		if args.Error(1) != nil {
			return nil, args.Error(1)
		}
		return reseller, nil
	}
	return args.Get(0).(*domain.Reseller), args.Error(1)
}

func (m *MockResellerRepository) GetByID(ctx context.Context, q repository.Querier, id string) (*domain.Reseller, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reseller), args.Error(1)
}

func (m *MockResellerRepository) GetByIDForUpdate(ctx context.Context, q repository.Querier, id string) (*domain.Reseller, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reseller), args.Error(1)
}

func (m *MockResellerRepository) UpdateWallet(ctx context.Context, q repository.Querier, reseller *domain.Reseller) error {
	args := m.Called(ctx, q, reseller)
	return args.Error(0)
}

func (m *MockResellerRepository) List(ctx context.Context, q repository.Querier, offset, limit int) ([]domain.Reseller, error) {
	args := m.Called(ctx, q, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reseller), args.Error(1)
}

type MockBusinessUserRepository struct {
	mock.Mock
}

func (m *MockBusinessUserRepository) Create(ctx context.Context, q repository.Querier, user *domain.BusinessUser) (*domain.BusinessUser, error) {
	args := m.Called(ctx, q, user)
	if args.Get(0) == nil {
		if args.Error(1) != nil {
			return nil, args.Error(1)
		}
		return user, nil
	}
	return args.Get(0).(*domain.BusinessUser), args.Error(1)
}

func (m *MockBusinessUserRepository) GetByID(ctx context.Context, q repository.Querier, id string) (*domain.BusinessUser, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BusinessUser), args.Error(1)
}

func (m *MockBusinessUserRepository) GetByIDForUpdate(ctx context.Context, q repository.Querier, id string) (*domain.BusinessUser, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BusinessUser), args.Error(1)
}

func (m *MockBusinessUserRepository) UpdateWallet(ctx context.Context, q repository.Querier, user *domain.BusinessUser) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockBusinessUserRepository) List(ctx context.Context, q repository.Querier, filter repository.BusinessUserFilter) ([]domain.BusinessUser, error) {
	args := m.Called(ctx, q, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BusinessUser), args.Error(1)
}

type MockCreditTransactionRepository struct {
	mock.Mock
}

func (m *MockCreditTransactionRepository) Create(ctx context.Context, q repository.Querier, transaction *domain.CreditTransaction) (*domain.CreditTransaction, error) {
	args := m.Called(ctx, q, transaction)
	if args.Get(0) == nil {
		if args.Error(1) != nil {
			return nil, args.Error(1)
		}
		return transaction, nil
	}
	return args.Get(0).(*domain.CreditTransaction), args.Error(1)
}

func (m *MockCreditTransactionRepository) List(ctx context.Context, q repository.Querier, filter repository.CreditTransactionFilter) ([]domain.CreditTransaction, error) {
	args := m.Called(ctx, q, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CreditTransaction), args.Error(1)
}

type MockUsageLogRepository struct {
	mock.Mock
}

func (m *MockUsageLogRepository) Create(ctx context.Context, q repository.Querier, log *domain.UsageLog) (*domain.UsageLog, error) {
	args := m.Called(ctx, q, log)
	if args.Get(0) == nil {
		if args.Error(1) != nil {
			return nil, args.Error(1)
		}
		return log, nil
	}
	return args.Get(0).(*domain.UsageLog), args.Error(1)
}

func (m *MockUsageLogRepository) ListByBusinessUserID(ctx context.Context, q repository.Querier, businessUserID string, offset, limit int) ([]domain.UsageLog, error) {
	args := m.Called(ctx, q, businessUserID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UsageLog), args.Error(1)
}

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, q repository.Querier, message *domain.Message) (*domain.Message, error) {
	args := m.Called(ctx, q, message)
	if args.Get(0) == nil {
		if args.Error(1) != nil {
			return nil, args.Error(1)
		}
		return message, nil
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockMessageRepository) GetByID(ctx context.Context, q repository.Querier, id string) (*domain.Message, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

// --- Event publisher mock ---

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) CreditsDistributed(ctx context.Context, transaction *domain.CreditTransaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockEventPublisher) MessageSent(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}
