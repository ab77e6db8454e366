package model

import (
	"event_manager/apperror"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierReserve(t *testing.T) {
	tier := TicketTier{Quantity: 5}

	require.NoError(t, tier.Reserve(3))
	assert.Equal(t, 2, tier.Remaining())

	err := tier.Reserve(3)
	require.Error(t, err)
	assert.Equal(t, apperror.InsufficientInventory, apperror.KindOf(err))
	assert.Equal(t, 2, apperror.From(err).Details["remaining"])
	assert.Equal(t, 2, tier.Remaining(), "failed reserve must not change stock")

	assert.Equal(t, apperror.InvalidRequest, apperror.KindOf(tier.Reserve(0)))
}

func TestNewTicketTier(t *testing.T) {
	tier, err := NewTicketTier(decimal.RequireFromString("49.90"), 0)
	require.NoError(t, err)
	assert.Equal(t, "49.90", tier.Price.StringFixed(2))
	assert.Equal(t, 0, tier.Remaining())

	_, err = NewTicketTier(decimal.Zero, -1)
	assert.Equal(t, apperror.InvalidRequest, apperror.KindOf(err))
	_, err = NewTicketTier(decimal.NewFromInt(-1), 10)
	assert.Equal(t, apperror.InvalidRequest, apperror.KindOf(err))
}

func TestTierInput(t *testing.T) {
	price, qty := decimal.NewFromInt(80), 12
	tier, err := TicketTierInput{Price: &price, Quantity: &qty}.Tier()
	require.NoError(t, err)
	assert.Equal(t, TicketTier{Price: price, Quantity: 12}, tier)

	_, err = TicketTierInput{Price: &price}.Tier()
	assert.Equal(t, apperror.InvalidRequest, apperror.KindOf(err))

	neg := -3
	_, err = TicketTierInput{Price: &price, Quantity: &neg}.Tier()
	assert.Equal(t, apperror.InvalidRequest, apperror.KindOf(err))
}

func TestTierResolution(t *testing.T) {
	e := &Event{Normal: TicketTier{Quantity: 10}, Vip: TicketTier{Quantity: 2}}

	tier, err := e.Tier("vip")
	require.NoError(t, err)
	require.NoError(t, tier.Reserve(2))
	assert.Equal(t, 0, e.Vip.Quantity, "Tier points into the event")

	_, err = e.Tier("balcony")
	assert.Equal(t, apperror.InvalidRequest, apperror.KindOf(err))

	price, qty, err := TierColumns("normal")
	require.NoError(t, err)
	assert.Equal(t, "normal_price", price)
	assert.Equal(t, "normal_quantity", qty)
	_, _, err = TierColumns("balcony")
	assert.Equal(t, apperror.InvalidRequest, apperror.KindOf(err))

	assert.Equal(t, InventorySnapshot{NormalRemaining: 10, VipRemaining: 0}, e.Snapshot())
}
