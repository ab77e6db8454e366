package model

import (
	"event_manager/apperror"
	"event_manager/constants"
	"fmt"

	"github.com/shopspring/decimal"
)

// TicketTier is one priced tier of an event. Quantity is the number of units still for sale.
type TicketTier struct {
	Price    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	Quantity int             `gorm:"not null;default:0" json:"quantity"`
}

// NewTicketTier builds a tier, rejecting a negative price or quantity.
func NewTicketTier(price decimal.Decimal, quantity int) (TicketTier, error) {
	if quantity < 0 {
		return TicketTier{}, apperror.New(apperror.InvalidRequest, "quantity must not be negative")
	}
	if price.IsNegative() {
		return TicketTier{}, apperror.New(apperror.InvalidRequest, "price must not be negative")
	}
	return TicketTier{Price: price, Quantity: quantity}, nil
}

// Tier validates the input and builds the tier it describes.
func (in TicketTierInput) Tier() (TicketTier, error) {
	if in.Price == nil || in.Quantity == nil {
		return TicketTier{}, apperror.New(apperror.InvalidRequest, "price and quantity are required")
	}
	return NewTicketTier(*in.Price, *in.Quantity)
}

func (t TicketTier) Remaining() int {
	return t.Quantity
}

// CheckQuantity rejects a non-positive reservation size.
func CheckQuantity(quantity int) error {
	if quantity <= 0 {
		return apperror.New(apperror.InvalidRequest, "quantity must be greater than zero")
	}
	return nil
}

// Reserve takes quantity units out of the tier.
func (t *TicketTier) Reserve(quantity int) error {
	if err := CheckQuantity(quantity); err != nil {
		return err
	}
	if t.Quantity < quantity {
		return apperror.Insufficient(t.Quantity)
	}
	t.Quantity -= quantity
	return nil
}

// TierColumns names the events columns backing ticketType.
func TierColumns(ticketType string) (price string, quantity string, err error) {
	switch ticketType {
	case constants.TICKET_NORMAL:
		return "normal_price", "normal_quantity", nil
	case constants.TICKET_VIP:
		return "vip_price", "vip_quantity", nil
	}
	return "", "", unknownTier(ticketType)
}

func unknownTier(ticketType string) error {
	return apperror.New(apperror.InvalidRequest, fmt.Sprintf("unknown ticket type %q", ticketType))
}

// Tier returns the tier for ticketType.
func (e *Event) Tier(ticketType string) (*TicketTier, error) {
	switch ticketType {
	case constants.TICKET_NORMAL:
		return &e.Normal, nil
	case constants.TICKET_VIP:
		return &e.Vip, nil
	}
	return nil, unknownTier(ticketType)
}

// InventorySnapshot is the public view of an event's remaining stock.
type InventorySnapshot struct {
	EventId          uint `json:"eventId"`
	NormalRemaining  int  `json:"normalRemaining"`
	VipRemaining     int  `json:"vipRemaining"`
	TotalTicketsSold int  `json:"totalTicketsSold"`
}

func (e *Event) Snapshot() InventorySnapshot {
	return InventorySnapshot{
		EventId:          e.ID,
		NormalRemaining:  e.Normal.Remaining(),
		VipRemaining:     e.Vip.Remaining(),
		TotalTicketsSold: e.TotalTicketsSold,
	}
}
