package domain

import (
	"time"
)

// CreditTransaction is the append-only audit record of one successful credit
// distribution from a reseller to an owned business user. It is never updated
// or deleted after creation.
type CreditTransaction struct {
	ID               string    `json:"id"`
	FromResellerID   string    `json:"from_reseller_id"`
	ToBusinessUserID string    `json:"to_business_user_id"`
	Credits          float64   `json:"credits"`
	SharedAt         time.Time `json:"shared_at"`
}

// UsageLog is the append-only audit record of one successful credit
// consumption. BalanceAfter captures the spendable balance at the moment of
// deduction, giving a trail verifiable independently of the live wallet.
type UsageLog struct {
	ID              string    `json:"id"`
	BusinessUserID  string    `json:"business_user_id"`
	MessageID       string    `json:"message_id"`
	CreditsDeducted float64   `json:"credits_deducted"`
	BalanceAfter    float64   `json:"balance_after"`
	CreatedAt       time.Time `json:"created_at"`
}
