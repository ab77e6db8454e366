package service

import (
	"event_manager/apperror"
	"event_manager/constants"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerReserve(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	l := NewLedger()

	tier, err := l.Reserve(db, f.event.ID, constants.TICKET_VIP, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, tier.Remaining())

	_, err = l.Reserve(db, f.event.ID, constants.TICKET_VIP, 1)
	assert.Equal(t, apperror.InsufficientInventory, apperror.KindOf(err))
	assert.Equal(t, 0, apperror.From(err).Details["remaining"])

	reserveErr := func(eventId uint, ticketType string, quantity int) error {
		_, err := l.Reserve(db, eventId, ticketType, quantity)
		return err
	}
	assert.Equal(t, apperror.InvalidRequest, apperror.KindOf(reserveErr(f.event.ID, constants.TICKET_VIP, 0)))
	assert.Equal(t, apperror.InvalidRequest, apperror.KindOf(reserveErr(f.event.ID, "balcony", 1)))
	assert.Equal(t, apperror.NotFound, apperror.KindOf(reserveErr(9999, constants.TICKET_NORMAL, 1)))

	event := reloadEvent(t, db, f.event.ID)
	assert.Equal(t, 0, event.Vip.Quantity)
	assert.Equal(t, 100, event.Normal.Quantity)
	assert.Equal(t, 10, event.TotalTicketsSold)
}

func TestLedgerReserveReturnsPriceOfUpdatedRow(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	l := NewLedger()

	// f.event still carries the seeded price; the row is repriced behind it.
	require.NoError(t, l.Resize(db, f.event.ID, constants.TICKET_NORMAL, decimal.RequireFromString("72.25"), 30))

	tier, err := l.Reserve(db, f.event.ID, constants.TICKET_NORMAL, 4)
	require.NoError(t, err)
	assert.Equal(t, "72.25", tier.Price.StringFixed(2))
	assert.Equal(t, 26, tier.Remaining())
	assert.False(t, f.event.Normal.Price.Equal(tier.Price))
}

func TestLedgerResize(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	l := NewLedger()

	require.NoError(t, l.Resize(db, f.event.ID, constants.TICKET_NORMAL, decimal.RequireFromString("65.50"), 40))
	event := reloadEvent(t, db, f.event.ID)
	assert.Equal(t, "65.50", event.Normal.Price.StringFixed(2))
	assert.Equal(t, 40, event.Normal.Quantity)

	assert.Equal(t, apperror.InvalidRequest, apperror.KindOf(l.Resize(db, f.event.ID, constants.TICKET_NORMAL, decimal.Zero, -1)))
	assert.Equal(t, apperror.InvalidRequest, apperror.KindOf(l.Resize(db, f.event.ID, constants.TICKET_NORMAL, decimal.NewFromInt(-5), 1)))
	assert.Equal(t, apperror.NotFound, apperror.KindOf(l.Resize(db, 9999, constants.TICKET_VIP, decimal.Zero, 1)))
}
