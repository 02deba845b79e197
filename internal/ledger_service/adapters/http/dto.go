package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/wapanel/golang_services/internal/ledger_service/domain"
)

// --- Request DTOs ---

type CreateResellerRequestDTO struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password" validate:"required,min=8"`

	BusinessName        string `json:"business_name,omitempty"`
	BusinessDescription string `json:"business_description,omitempty"`
	ERPSystem           string `json:"erp_system,omitempty"`
	GSTIN               string `json:"gstin,omitempty"`
	FullAddress         string `json:"full_address,omitempty"`
	Pincode             string `json:"pincode,omitempty"`
	Country             string `json:"country,omitempty"`
	BankName            string `json:"bank_name,omitempty"`

	InitialCredits float64 `json:"initial_credits" validate:"gte=0"`
}

type CreateBusinessUserRequestDTO struct {
	ParentResellerID string `json:"parent_reseller_id" validate:"required"`
	Name             string `json:"name" validate:"required"`
	Username         string `json:"username" validate:"required,min=3"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone,omitempty"`
	Password         string `json:"password" validate:"required,min=8"`
	BusinessName     string `json:"business_name,omitempty"`
	WhatsAppNumber   string `json:"whatsapp_number,omitempty"`
}

type DistributeCreditsRequestDTO struct {
	FromResellerID   string  `json:"from_reseller_id" validate:"required"`
	ToBusinessUserID string  `json:"to_business_user_id" validate:"required"`
	Credits          float64 `json:"credits" validate:"required,gt=0"`
}

type SendMessageRequestDTO struct {
	BusinessUserID string  `json:"business_user_id" validate:"required"`
	Mode           string  `json:"mode" validate:"required,oneof=official unofficial"`
	SenderNumber   string  `json:"sender_number,omitempty"`
	ReceiverNumber string  `json:"receiver_number" validate:"required"`
	MessageType    string  `json:"message_type,omitempty" validate:"omitempty,oneof=text template media"`
	TemplateName   *string `json:"template_name,omitempty"`
	Body           string  `json:"body,omitempty"`
}

// --- Response helpers ---

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			slog.Default().Error("Failed to write JSON response", "error", err)
		}
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithDomainError folds the ledger error taxonomy into HTTP status
// codes. Unknown errors return a generic 500 so internals never leak.
func respondWithDomainError(w http.ResponseWriter, err error) {
	var insufficient *domain.InsufficientCreditsError
	switch {
	case errors.Is(err, domain.ErrResellerNotFound),
		errors.Is(err, domain.ErrBusinessUserNotFound),
		errors.Is(err, domain.ErrMessageNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrNotOwned):
		respondWithError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &insufficient):
		respondWithError(w, http.StatusBadRequest, insufficient.Error())
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrUnknownDeliveryMode),
		errors.Is(err, domain.ErrMissingRecipient):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicateAccount):
		respondWithError(w, http.StatusConflict, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// parsePaging reads skip/limit query params; the query service applies its
// own defaults for missing or zero values.
func parsePaging(r *http.Request) (skip, limit int) {
	skip, _ = strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return skip, limit
}

// optionalQueryParam returns a pointer to the named query param, or nil when
// absent.
func optionalQueryParam(r *http.Request, name string) *string {
	if v := r.URL.Query().Get(name); v != "" {
		return &v
	}
	return nil
}
