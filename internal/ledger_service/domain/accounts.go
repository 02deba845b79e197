package domain

import (
	"math"
	"time"
)

// walletEpsilon absorbs float64 rounding when reconciling cumulative wallet
// fields after a mutation.
const walletEpsilon = 1e-6

// ValidateAmount rejects amounts that may not enter the ledger: negative,
// NaN or infinite values. Zero is a valid (if pointless) amount.
func ValidateAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Reseller is a top-tier account that receives credits and redistributes them
// to the business users it owns.
type Reseller struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	PasswordHash string `json:"-"`

	BusinessName        string `json:"business_name,omitempty"`
	BusinessDescription string `json:"business_description,omitempty"`
	ERPSystem           string `json:"erp_system,omitempty"`
	GSTIN               string `json:"gstin,omitempty"`
	FullAddress         string `json:"full_address,omitempty"`
	Pincode             string `json:"pincode,omitempty"`
	Country             string `json:"country,omitempty"`
	BankName            string `json:"bank_name,omitempty"`

	// Wallet. TotalCredits is the cumulative amount ever granted and must
	// equal AvailableCredits + UsedCredits after every operation.
	TotalCredits     float64 `json:"total_credits"`
	AvailableCredits float64 `json:"available_credits"`
	UsedCredits      float64 `json:"used_credits"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DebitCredits moves amount out of the spendable balance into the cumulative
// used counter. It validates the amount and checks sufficiency; the caller is
// responsible for committing the result atomically with the matching credit.
func (r *Reseller) DebitCredits(amount float64) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if r.AvailableCredits < amount {
		return &InsufficientCreditsError{AccountID: r.ID, Required: amount, Available: r.AvailableCredits}
	}
	r.AvailableCredits -= amount
	r.UsedCredits += amount
	return r.Reconcile()
}

// Reconcile verifies total = available + used. Drift is a latent bug, never
// an intended state.
func (r *Reseller) Reconcile() error {
	if math.Abs(r.TotalCredits-(r.AvailableCredits+r.UsedCredits)) > walletEpsilon {
		return ErrWalletDrift
	}
	if r.AvailableCredits < 0 {
		return ErrWalletDrift
	}
	return nil
}

// BusinessUser is an account owned by exactly one reseller; it spends credits
// on outbound messages.
type BusinessUser struct {
	ID               string `json:"id"`
	ParentResellerID string `json:"parent_reseller_id"`
	Status           string `json:"status"`
	Name             string `json:"name"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	PasswordHash     string `json:"-"`

	BusinessName   string `json:"business_name,omitempty"`
	WhatsAppNumber string `json:"whatsapp_number,omitempty"`

	// Wallet. CreditsAllocated is the cumulative amount received from the
	// parent reseller and must equal CreditsRemaining + CreditsUsed.
	CreditsAllocated float64 `json:"credits_allocated"`
	CreditsUsed      float64 `json:"credits_used"`
	CreditsRemaining float64 `json:"credits_remaining"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReceiveCredits adds amount to both the cumulative allocation and the
// spendable balance.
func (b *BusinessUser) ReceiveCredits(amount float64) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	b.CreditsAllocated += amount
	b.CreditsRemaining += amount
	return b.Reconcile()
}

// SpendCredits deducts cost from the spendable balance and adds it to the
// cumulative used counter.
func (b *BusinessUser) SpendCredits(cost float64) error {
	if err := ValidateAmount(cost); err != nil {
		return err
	}
	if b.CreditsRemaining < cost {
		return &InsufficientCreditsError{AccountID: b.ID, Required: cost, Available: b.CreditsRemaining}
	}
	b.CreditsRemaining -= cost
	b.CreditsUsed += cost
	return b.Reconcile()
}

// Reconcile verifies allocated = remaining + used.
func (b *BusinessUser) Reconcile() error {
	if math.Abs(b.CreditsAllocated-(b.CreditsRemaining+b.CreditsUsed)) > walletEpsilon {
		return ErrWalletDrift
	}
	if b.CreditsRemaining < 0 {
		return ErrWalletDrift
	}
	return nil
}
