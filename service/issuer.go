package service

import (
	"event_manager/apperror"
	"event_manager/model"
	"event_manager/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Issuer mints tickets. It never touches inventory.
type Issuer struct {
	newCode func() (string, error)
}

func NewIssuer() *Issuer {
	return &Issuer{newCode: utils.TicketCode}
}

// Mint persists one unused ticket for order with a fresh identity, code and QR payload.
func (i *Issuer) Mint(tx *gorm.DB, event *model.Event, userId uint, ticketType string, price decimal.Decimal, order *model.Order) (*model.Ticket, error) {
	code, err := utils.UniqueCode(tx, &model.Ticket{}, "ticket_code", i.newCode)
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "could not generate ticket code", err)
	}

	id := uuid.NewString()
	qr, err := utils.QRPayload(model.TicketQR{
		TicketId:   id,
		EventId:    event.ID,
		UserId:     userId,
		TicketType: ticketType,
		OrderId:    order.ID,
	})
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "could not build ticket payload", err)
	}

	ticket := &model.Ticket{
		UUID:       id,
		TicketCode: code,
		EventId:    event.ID,
		UserId:     userId,
		OrderId:    order.ID,
		TicketType: ticketType,
		Price:      price,
		QRCode:     qr,
		IsUsed:     false,
	}
	if err := tx.Create(ticket).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, "could not create ticket", err)
	}
	return ticket, nil
}

// MintForOrder mints order.Quantity tickets at the order's unit price.
func (i *Issuer) MintForOrder(tx *gorm.DB, event *model.Event, order *model.Order) ([]model.Ticket, error) {
	tickets := make([]model.Ticket, 0, order.Quantity)
	for n := 0; n < order.Quantity; n++ {
		t, err := i.Mint(tx, event, order.UserId, order.TicketType, order.Price, order)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, nil
}
