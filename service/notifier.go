package service

import (
	"context"
	"event_manager/model"
	"event_manager/utils"
	"fmt"
)

// OrderNotice carries everything a notification needs about one order.
type OrderNotice struct {
	User  model.User
	Event model.Event
	Order model.Order
}

type Notifier interface {
	OrderConfirmed(ctx context.Context, n OrderNotice) error
	OrderCancelled(ctx context.Context, n OrderNotice) error
}

type NopNotifier struct{}

func (NopNotifier) OrderConfirmed(context.Context, OrderNotice) error { return nil }
func (NopNotifier) OrderCancelled(context.Context, OrderNotice) error { return nil }

type sendFunc func(s utils.SMTPSettings, to, subject, body string, attachments map[string][]byte) error

// MailNotifier emails order confirmations, with each ticket's QR code attached, and cancellations.
type MailNotifier struct {
	settings utils.SMTPSettings
	send     sendFunc
}

func NewMailNotifier(settings utils.SMTPSettings) *MailNotifier {
	return &MailNotifier{settings: settings, send: utils.SendHTMLMail}
}

func mailData(n OrderNotice) utils.OrderMailData {
	data := utils.OrderMailData{
		CustomerName: n.User.Name,
		OrderNumber:  n.Order.OrderNumber,
		EventTitle:   n.Event.Title,
		EventDate:    n.Event.StartDate.Format("Mon, 02 Jan 2006 15:04"),
		TicketType:   n.Order.TicketType,
		Quantity:     n.Order.Quantity,
		TotalAmount:  n.Order.TotalAmount.StringFixed(2),
	}
	if n.Event.Venue != nil {
		data.VenueName = n.Event.Venue.Name
	}
	for _, t := range n.Order.Tickets {
		data.TicketCodes = append(data.TicketCodes, t.TicketCode)
	}
	return data
}

func (m *MailNotifier) OrderConfirmed(_ context.Context, n OrderNotice) error {
	subject, body, err := utils.RenderOrderConfirmation(mailData(n))
	if err != nil {
		return err
	}

	attachments := make(map[string][]byte, len(n.Order.Tickets))
	for _, t := range n.Order.Tickets {
		png, err := utils.GenerateQRCode(t.QRCode, 256)
		if err != nil {
			return fmt.Errorf("qr for %s: %w", t.TicketCode, err)
		}
		attachments[t.TicketCode+".png"] = png
	}
	return m.send(m.settings, n.User.Email, subject, body, attachments)
}

func (m *MailNotifier) OrderCancelled(_ context.Context, n OrderNotice) error {
	subject, body, err := utils.RenderOrderCancellation(mailData(n))
	if err != nil {
		return err
	}
	return m.send(m.settings, n.User.Email, subject, body, nil)
}
