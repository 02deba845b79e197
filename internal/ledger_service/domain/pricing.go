package domain

import (
	"fmt"
	"math"
)

// Pricing maps a delivery mode to its credit cost. It is a pure value: no
// state, no I/O, so the pricing table can grow (e.g. per-message-type prices)
// without touching the ledger engine.
type Pricing struct {
	unitMessagePrice float64
}

// NewPricing creates a Pricing with the given official-channel unit price.
func NewPricing(unitMessagePrice float64) (Pricing, error) {
	if math.IsNaN(unitMessagePrice) || math.IsInf(unitMessagePrice, 0) || unitMessagePrice <= 0 {
		return Pricing{}, fmt.Errorf("unit message price must be a positive finite number, got %v", unitMessagePrice)
	}
	return Pricing{unitMessagePrice: unitMessagePrice}, nil
}

// CostFor returns the credit cost of sending one message through the given
// delivery mode. The official channel is metered at the unit price; the
// unofficial channel is flat-rate at half the unit price.
func (p Pricing) CostFor(mode DeliveryMode) (float64, error) {
	switch mode {
	case DeliveryModeOfficial:
		return p.unitMessagePrice, nil
	case DeliveryModeUnofficial:
		return p.unitMessagePrice / 2, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDeliveryMode, mode)
	}
}
