package router

import (
	"bytes"
	"encoding/json"
	"event_manager/constants"
	"event_manager/database"
	"event_manager/handler"
	"event_manager/helper"
	"event_manager/model"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	app       *fiber.App
	db        *gorm.DB
	buyer     model.User
	other     model.User
	organizer model.User
	admin     model.User
	venue     model.Venue
	category  model.Category
	event     model.Event
	tokens    map[uint]string
}

// newTestEnv wires the routes against a fresh in-memory database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	database.DB = db
	handler.Init(handler.Options{DB: db, Dispatch: func(f func()) { f() }})

	env := &testEnv{db: db, tokens: map[uint]string{}}
	hash, err := helper.HashPassword("secret123")
	require.NoError(t, err)
	env.buyer = model.User{Name: "Buyer", Email: "buyer@example.com", Password: hash, Role: constants.ROLE_USER, IsActive: true}
	env.other = model.User{Name: "Other", Email: "other@example.com", Password: hash, Role: constants.ROLE_USER, IsActive: true}
	env.organizer = model.User{Name: "Organizer", Email: "org@example.com", Password: hash, Role: constants.ROLE_ORGANIZER, IsActive: true}
	env.admin = model.User{Name: "Admin", Email: "admin@example.com", Password: hash, Role: constants.ROLE_ADMIN, IsActive: true}
	for _, u := range []*model.User{&env.buyer, &env.other, &env.organizer, &env.admin} {
		require.NoError(t, db.Create(u).Error)
		token, err := helper.GenerateAccessToken(model.TokenClaim{UserId: u.ID, Email: u.Email, Role: u.Role})
		require.NoError(t, err)
		env.tokens[u.ID] = token
	}

	env.venue = model.Venue{Name: "Blue Hall", Slug: "blue-hall", Address: "1 Main St", City: "Springfield", Capacity: 500, OrganizerId: env.organizer.ID}
	require.NoError(t, db.Create(&env.venue).Error)
	env.category = model.Category{Name: "Music", Slug: "music"}
	require.NoError(t, db.Create(&env.category).Error)

	start := time.Now().Add(72 * time.Hour).Truncate(time.Second)
	env.event = model.Event{
		Title:       "Jazz Night",
		Slug:        "jazz-night",
		VenueId:     env.venue.ID,
		CategoryId:  env.category.ID,
		OrganizerId: env.organizer.ID,
		Normal:      model.TicketTier{Price: decimal.RequireFromString("50.00"), Quantity: 100},
		Vip:         model.TicketTier{Price: decimal.RequireFromString("120.00"), Quantity: 10},
		StartDate:   start,
		EndDate:     start.Add(3 * time.Hour),
		IsPublished: true,
	}
	require.NoError(t, db.Create(&env.event).Error)

	env.app = fiber.New()
	SetupRoutes(env.app)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, user *model.User, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+e.tokens[user.ID])
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}
