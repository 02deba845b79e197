package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/wapanel/golang_services/internal/ledger_service/app"
	"github.com/wapanel/golang_services/internal/ledger_service/domain"
)

// AccountProvisioner defines the account operations the handler needs. An
// interface keeps the handler testable with a mock service.
type AccountProvisioner interface {
	CreateReseller(ctx context.Context, input app.CreateResellerInput) (*domain.Reseller, error)
	CreateBusinessUser(ctx context.Context, input app.CreateBusinessUserInput) (*domain.BusinessUser, error)
}

// AccountReader is the read side used for account lookups and listings.
type AccountReader interface {
	GetReseller(ctx context.Context, id string) (*domain.Reseller, error)
	GetBusinessUser(ctx context.Context, id string) (*domain.BusinessUser, error)
	ListResellers(ctx context.Context, skip, limit int) ([]domain.Reseller, error)
	ListBusinessUsers(ctx context.Context, parentResellerID *string, skip, limit int) ([]domain.BusinessUser, error)
	UsageHistory(ctx context.Context, businessUserID string, skip, limit int) ([]domain.UsageLog, error)
}

// AccountHandler handles HTTP requests for reseller and business user accounts.
type AccountHandler struct {
	accounts AccountProvisioner
	queries  AccountReader
	logger   *slog.Logger
	validate *validator.Validate
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts AccountProvisioner, queries AccountReader, logger *slog.Logger, validate *validator.Validate) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		queries:  queries,
		logger:   logger.With("component", "account_handler"),
		validate: validate,
	}
}

// RegisterRoutes sets up the routing for account operations.
func (h *AccountHandler) RegisterRoutes(r chi.Router) {
	r.Post("/resellers", h.CreateReseller)
	r.Get("/resellers", h.ListResellers)
	r.Get("/resellers/{resellerID}", h.GetReseller)

	r.Post("/business-users", h.CreateBusinessUser)
	r.Get("/business-users", h.ListBusinessUsers)
	r.Get("/business-users/{businessUserID}", h.GetBusinessUser)
	r.Get("/business-users/{businessUserID}/usage", h.GetUsageHistory)
}

func (h *AccountHandler) CreateReseller(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reqDTO CreateResellerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.StructCtx(ctx, reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	reseller, err := h.accounts.CreateReseller(ctx, app.CreateResellerInput{
		Name:                reqDTO.Name,
		Username:            reqDTO.Username,
		Email:               reqDTO.Email,
		Phone:               reqDTO.Phone,
		Password:            reqDTO.Password,
		BusinessName:        reqDTO.BusinessName,
		BusinessDescription: reqDTO.BusinessDescription,
		ERPSystem:           reqDTO.ERPSystem,
		GSTIN:               reqDTO.GSTIN,
		FullAddress:         reqDTO.FullAddress,
		Pincode:             reqDTO.Pincode,
		Country:             reqDTO.Country,
		BankName:            reqDTO.BankName,
		InitialCredits:      reqDTO.InitialCredits,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "Reseller creation failed", "username", reqDTO.Username, "error", err)
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, reseller)
}

func (h *AccountHandler) GetReseller(w http.ResponseWriter, r *http.Request) {
	resellerID := chi.URLParam(r, "resellerID")
	reseller, err := h.queries.GetReseller(r.Context(), resellerID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, reseller)
}

func (h *AccountHandler) ListResellers(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePaging(r)
	resellers, err := h.queries.ListResellers(r.Context(), skip, limit)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	if resellers == nil {
		resellers = []domain.Reseller{}
	}
	respondWithJSON(w, http.StatusOK, resellers)
}

func (h *AccountHandler) CreateBusinessUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reqDTO CreateBusinessUserRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.StructCtx(ctx, reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	user, err := h.accounts.CreateBusinessUser(ctx, app.CreateBusinessUserInput{
		ParentResellerID: reqDTO.ParentResellerID,
		Name:             reqDTO.Name,
		Username:         reqDTO.Username,
		Email:            reqDTO.Email,
		Phone:            reqDTO.Phone,
		Password:         reqDTO.Password,
		BusinessName:     reqDTO.BusinessName,
		WhatsAppNumber:   reqDTO.WhatsAppNumber,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "Business user creation failed",
			"username", reqDTO.Username, "parent_reseller_id", reqDTO.ParentResellerID, "error", err)
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, user)
}

func (h *AccountHandler) GetBusinessUser(w http.ResponseWriter, r *http.Request) {
	businessUserID := chi.URLParam(r, "businessUserID")
	user, err := h.queries.GetBusinessUser(r.Context(), businessUserID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (h *AccountHandler) ListBusinessUsers(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePaging(r)
	parentResellerID := optionalQueryParam(r, "parent_reseller_id")
	users, err := h.queries.ListBusinessUsers(r.Context(), parentResellerID, skip, limit)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	if users == nil {
		users = []domain.BusinessUser{}
	}
	respondWithJSON(w, http.StatusOK, users)
}

func (h *AccountHandler) GetUsageHistory(w http.ResponseWriter, r *http.Request) {
	businessUserID := chi.URLParam(r, "businessUserID")
	skip, limit := parsePaging(r)
	logs, err := h.queries.UsageHistory(r.Context(), businessUserID, skip, limit)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	if logs == nil {
		logs = []domain.UsageLog{}
	}
	respondWithJSON(w, http.StatusOK, logs)
}
