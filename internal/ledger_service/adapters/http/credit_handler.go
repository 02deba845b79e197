package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/wapanel/golang_services/internal/ledger_service/domain"
)

// CreditDistributor is the ledger operation behind POST /credits/distribute.
type CreditDistributor interface {
	Distribute(ctx context.Context, fromResellerID, toBusinessUserID string, amount float64) (*domain.CreditTransaction, error)
}

// CreditHistoryReader serves the distribution audit trail.
type CreditHistoryReader interface {
	CreditHistory(ctx context.Context, fromResellerID, toBusinessUserID *string, skip, limit int) ([]domain.CreditTransaction, error)
}

// CreditHandler handles HTTP requests for credit distribution and its history.
type CreditHandler struct {
	ledger   CreditDistributor
	queries  CreditHistoryReader
	logger   *slog.Logger
	validate *validator.Validate
}

// NewCreditHandler creates a new CreditHandler.
func NewCreditHandler(ledger CreditDistributor, queries CreditHistoryReader, logger *slog.Logger, validate *validator.Validate) *CreditHandler {
	return &CreditHandler{
		ledger:   ledger,
		queries:  queries,
		logger:   logger.With("component", "credit_handler"),
		validate: validate,
	}
}

// RegisterRoutes sets up the routing for credit operations.
func (h *CreditHandler) RegisterRoutes(r chi.Router) {
	r.Post("/credits/distribute", h.DistributeCredits)
	r.Get("/credits/history", h.GetCreditHistory)
}

func (h *CreditHandler) DistributeCredits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reqDTO DistributeCreditsRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.StructCtx(ctx, reqDTO); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	transaction, err := h.ledger.Distribute(ctx, reqDTO.FromResellerID, reqDTO.ToBusinessUserID, reqDTO.Credits)
	if err != nil {
		h.logger.WarnContext(ctx, "Credit distribution request failed",
			"from_reseller_id", reqDTO.FromResellerID, "to_business_user_id", reqDTO.ToBusinessUserID, "error", err)
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, transaction)
}

func (h *CreditHandler) GetCreditHistory(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePaging(r)
	fromResellerID := optionalQueryParam(r, "from_reseller_id")
	toBusinessUserID := optionalQueryParam(r, "to_business_user_id")

	transactions, err := h.queries.CreditHistory(r.Context(), fromResellerID, toBusinessUserID, skip, limit)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	if transactions == nil {
		transactions = []domain.CreditTransaction{}
	}
	respondWithJSON(w, http.StatusOK, transactions)
}
