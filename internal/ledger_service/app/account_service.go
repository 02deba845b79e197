package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wapanel/golang_services/internal/ledger_service/domain"
	"github.com/wapanel/golang_services/internal/ledger_service/repository"
)

// CreateResellerInput carries the fields needed to register a reseller.
type CreateResellerInput struct {
	Name     string
	Username string
	Email    string
	Phone    string
	Password string

	BusinessName        string
	BusinessDescription string
	ERPSystem           string
	GSTIN               string
	FullAddress         string
	Pincode             string
	Country             string
	BankName            string

	// InitialCredits seeds the wallet: total = available at creation,
	// used = 0.
	InitialCredits float64
}

// CreateBusinessUserInput carries the fields needed to register a business
// user under a reseller. Wallets start empty; credits arrive only through
// distributions.
type CreateBusinessUserInput struct {
	ParentResellerID string
	Name             string
	Username         string
	Email            string
	Phone            string
	Password         string
	BusinessName     string
	WhatsAppNumber   string
}

// AccountService creates and maintains the two account kinds. It holds no
// ledger policy; balance mutations go through LedgerService.
type AccountService struct {
	db               repository.Querier
	resellerRepo     repository.ResellerRepository
	businessUserRepo repository.BusinessUserRepository
	logger           *slog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(
	db repository.Querier,
	resellerRepo repository.ResellerRepository,
	businessUserRepo repository.BusinessUserRepository,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		db:               db,
		resellerRepo:     resellerRepo,
		businessUserRepo: businessUserRepo,
		logger:           logger.With("service", "accounts"),
	}
}

// CreateReseller registers a new reseller account with a seeded wallet.
func (s *AccountService) CreateReseller(ctx context.Context, input CreateResellerInput) (*domain.Reseller, error) {
	if err := domain.ValidateAmount(input.InitialCredits); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	reseller := &domain.Reseller{
		ID:           uuid.NewString(),
		Status:       "active",
		Name:         input.Name,
		Username:     input.Username,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: string(hash),

		BusinessName:        input.BusinessName,
		BusinessDescription: input.BusinessDescription,
		ERPSystem:           input.ERPSystem,
		GSTIN:               input.GSTIN,
		FullAddress:         input.FullAddress,
		Pincode:             input.Pincode,
		Country:             input.Country,
		BankName:            input.BankName,

		TotalCredits:     input.InitialCredits,
		AvailableCredits: input.InitialCredits,
		UsedCredits:      0,

		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := reseller.Reconcile(); err != nil {
		return nil, err
	}

	created, err := s.resellerRepo.Create(ctx, s.db, reseller)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Reseller created", "reseller_id", created.ID, "username", created.Username)
	return created, nil
}

// CreateBusinessUser registers a new business user owned by an existing
// reseller. The parent reference is immutable after creation.
func (s *AccountService) CreateBusinessUser(ctx context.Context, input CreateBusinessUserInput) (*domain.BusinessUser, error) {
	if _, err := s.resellerRepo.GetByID(ctx, s.db, input.ParentResellerID); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.BusinessUser{
		ID:               uuid.NewString(),
		ParentResellerID: input.ParentResellerID,
		Status:           "active",
		Name:             input.Name,
		Username:         input.Username,
		Email:            input.Email,
		Phone:            input.Phone,
		PasswordHash:     string(hash),
		BusinessName:     input.BusinessName,
		WhatsAppNumber:   input.WhatsAppNumber,

		CreditsAllocated: 0,
		CreditsUsed:      0,
		CreditsRemaining: 0,

		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.businessUserRepo.Create(ctx, s.db, user)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Business user created",
		"business_user_id", created.ID, "parent_reseller_id", created.ParentResellerID, "username", created.Username)
	return created, nil
}
