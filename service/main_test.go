package service

import (
	"context"
	"event_manager/constants"
	"event_manager/database"
	"event_manager/model"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

type fixtures struct {
	buyer     model.User
	other     model.User
	organizer model.User
	admin     model.User
	venue     model.Venue
	category  model.Category
	event     model.Event
}

func mustCreate(t *testing.T, db *gorm.DB, v interface{}) {
	t.Helper()
	require.NoError(t, db.Create(v).Error)
}

func seedFixtures(t *testing.T, db *gorm.DB) fixtures {
	t.Helper()
	f := fixtures{
		buyer:     model.User{Name: "Buyer", Email: "buyer@example.com", Password: "x", Role: constants.ROLE_USER, IsActive: true},
		other:     model.User{Name: "Other", Email: "other@example.com", Password: "x", Role: constants.ROLE_USER, IsActive: true},
		organizer: model.User{Name: "Organizer", Email: "org@example.com", Password: "x", Role: constants.ROLE_ORGANIZER, IsActive: true},
		admin:     model.User{Name: "Admin", Email: "admin@example.com", Password: "x", Role: constants.ROLE_ADMIN, IsActive: true},
	}
	mustCreate(t, db, &f.buyer)
	mustCreate(t, db, &f.other)
	mustCreate(t, db, &f.organizer)
	mustCreate(t, db, &f.admin)

	f.venue = model.Venue{Name: "Blue Hall", Slug: "blue-hall", Address: "1 Main St", City: "Springfield", Capacity: 500, OrganizerId: f.organizer.ID}
	mustCreate(t, db, &f.venue)
	f.category = model.Category{Name: "Music", Slug: "music"}
	mustCreate(t, db, &f.category)

	f.event = newEvent(t, db, f, "Jazz Night", fixedNow.Add(72*time.Hour))
	return f
}

// newEvent creates a published event starting at start with 100 normal and 10 vip tickets.
func newEvent(t *testing.T, db *gorm.DB, f fixtures, title string, start time.Time) model.Event {
	t.Helper()
	e := model.Event{
		Title:       title,
		Slug:        uuid.NewString(),
		VenueId:     f.venue.ID,
		CategoryId:  f.category.ID,
		OrganizerId: f.organizer.ID,
		Normal:      model.TicketTier{Price: decimal.RequireFromString("50.00"), Quantity: 100},
		Vip:         model.TicketTier{Price: decimal.RequireFromString("120.00"), Quantity: 10},
		StartDate:   start,
		EndDate:     start.Add(3 * time.Hour),
		IsPublished: true,
	}
	mustCreate(t, db, &e)
	return e
}

func reloadEvent(t *testing.T, db *gorm.DB, id uint) model.Event {
	t.Helper()
	var e model.Event
	require.NoError(t, db.First(&e, id).Error)
	return e
}

func orderInput(eventId uint, ticketType string, quantity int) model.CreateOrderInput {
	total := decimal.NewFromInt(int64(quantity) * 50)
	return model.CreateOrderInput{EventId: eventId, TicketType: ticketType, Quantity: quantity, TotalAmount: &total}
}

type notifierMock struct {
	mock.Mock
}

func (m *notifierMock) OrderConfirmed(ctx context.Context, n OrderNotice) error {
	return m.Called(ctx, n).Error(0)
}

func (m *notifierMock) OrderCancelled(ctx context.Context, n OrderNotice) error {
	return m.Called(ctx, n).Error(0)
}

type recordingPublisher struct {
	mu        sync.Mutex
	snapshots []model.InventorySnapshot
}

func (p *recordingPublisher) Publish(_ context.Context, s model.InventorySnapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots = append(p.snapshots, s)
	return nil
}

func (p *recordingPublisher) last() model.InventorySnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.snapshots) == 0 {
		return model.InventorySnapshot{}
	}
	return p.snapshots[len(p.snapshots)-1]
}
