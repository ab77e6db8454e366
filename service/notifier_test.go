package service

import (
	"context"
	"event_manager/model"
	"event_manager/utils"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to          string
	subject     string
	body        string
	attachments map[string][]byte
}

func TestMailNotifier(t *testing.T) {
	var sent []sentMail
	n := NewMailNotifier(utils.SMTPSettings{Host: "smtp.test", Port: 25, From: "tickets@test"})
	n.send = func(_ utils.SMTPSettings, to, subject, body string, attachments map[string][]byte) error {
		sent = append(sent, sentMail{to, subject, body, attachments})
		return nil
	}

	notice := OrderNotice{
		User:  model.User{Name: "Ada", Email: "ada@example.com"},
		Event: model.Event{Title: "Jazz Night", StartDate: time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC), Venue: &model.Venue{Name: "Blue Hall"}},
		Order: model.Order{
			OrderNumber: "ORD-20260501-0123456789",
			TicketType:  "normal",
			Quantity:    1,
			TotalAmount: decimal.NewFromInt(50),
			Tickets:     []model.Ticket{{TicketCode: "TKT-AAAAAAAAAAAA", QRCode: `{"ticketId":"x"}`}},
		},
	}

	require.NoError(t, n.OrderConfirmed(context.Background(), notice))
	require.NoError(t, n.OrderCancelled(context.Background(), notice))
	require.Len(t, sent, 2)

	assert.Equal(t, "ada@example.com", sent[0].to)
	assert.Contains(t, sent[0].subject, "ORD-20260501-0123456789")
	assert.Contains(t, sent[0].body, "Blue Hall")
	assert.Contains(t, sent[0].attachments, "TKT-AAAAAAAAAAAA.png")

	assert.Contains(t, sent[1].subject, "cancelled")
	assert.Empty(t, sent[1].attachments)
}
