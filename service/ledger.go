package service

import (
	"errors"
	"event_manager/apperror"
	"event_manager/constants"
	"event_manager/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// reserveAttempts bounds retries when a guarded update misses but a re-read shows enough stock.
const reserveAttempts = 3

// Ledger applies inventory changes to the events table with single conditional updates.
type Ledger struct{}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Reserve takes quantity units from the tier and returns the tier as it stands after the
// reservation, price included. It fails with INSUFFICIENT_INVENTORY, carrying the remaining
// count, when the tier cannot cover the request.
func (l *Ledger) Reserve(tx *gorm.DB, eventId uint, ticketType string, quantity int) (model.TicketTier, error) {
	if err := model.CheckQuantity(quantity); err != nil {
		return model.TicketTier{}, err
	}
	_, col, err := model.TierColumns(ticketType)
	if err != nil {
		return model.TicketTier{}, err
	}

	for attempt := 0; attempt < reserveAttempts; attempt++ {
		res := tx.Model(&model.Event{}).
			Where("id = ? AND "+col+" >= ?", eventId, quantity).
			Updates(map[string]interface{}{
				col:                  gorm.Expr(col+" - ?", quantity),
				"total_tickets_sold": gorm.Expr("total_tickets_sold + ?", quantity),
			})
		if res.Error != nil {
			return model.TicketTier{}, apperror.Wrap(apperror.Internal, "could not reserve tickets", res.Error)
		}
		if res.RowsAffected == 1 {
			return l.tier(tx, eventId, ticketType)
		}

		current, err := l.tier(tx, eventId, ticketType)
		if err != nil {
			return model.TicketTier{}, err
		}
		if err := current.Reserve(quantity); err != nil {
			return model.TicketTier{}, err
		}
	}

	remaining, err := l.Remaining(tx, eventId, ticketType)
	if err != nil {
		return model.TicketTier{}, err
	}
	return model.TicketTier{}, apperror.Insufficient(remaining)
}

// Release puts quantity units back into the tier. It does not cap the tier at its original size.
func (l *Ledger) Release(tx *gorm.DB, eventId uint, ticketType string, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	_, col, err := model.TierColumns(ticketType)
	if err != nil {
		return err
	}

	res := tx.Model(&model.Event{}).
		Where("id = ?", eventId).
		Updates(map[string]interface{}{
			col:                  gorm.Expr(col+" + ?", quantity),
			"total_tickets_sold": gorm.Expr("total_tickets_sold - ?", quantity),
		})
	if res.Error != nil {
		return apperror.Wrap(apperror.Internal, "could not release tickets", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.New(apperror.NotFound, constants.EVENT_NOT_FOUND)
	}
	return nil
}

// Resize sets a tier's price and remaining quantity outright.
func (l *Ledger) Resize(tx *gorm.DB, eventId uint, ticketType string, price decimal.Decimal, quantity int) error {
	tier, err := model.NewTicketTier(price, quantity)
	if err != nil {
		return err
	}
	priceCol, col, err := model.TierColumns(ticketType)
	if err != nil {
		return err
	}

	res := tx.Model(&model.Event{}).
		Where("id = ?", eventId).
		Updates(map[string]interface{}{priceCol: tier.Price, col: tier.Quantity})
	if res.Error != nil {
		return apperror.Wrap(apperror.Internal, "could not resize tier", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.New(apperror.NotFound, constants.EVENT_NOT_FOUND)
	}
	return nil
}

func (l *Ledger) Remaining(tx *gorm.DB, eventId uint, ticketType string) (int, error) {
	tier, err := l.tier(tx, eventId, ticketType)
	if err != nil {
		return 0, err
	}
	return tier.Remaining(), nil
}

// tier reads the current row state of one tier.
func (l *Ledger) tier(tx *gorm.DB, eventId uint, ticketType string) (model.TicketTier, error) {
	var event model.Event
	if err := tx.First(&event, eventId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.TicketTier{}, apperror.New(apperror.NotFound, constants.EVENT_NOT_FOUND)
		}
		return model.TicketTier{}, apperror.Wrap(apperror.Internal, "could not read inventory", err)
	}
	tier, err := event.Tier(ticketType)
	if err != nil {
		return model.TicketTier{}, err
	}
	return *tier, nil
}
