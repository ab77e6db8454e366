package router

import (
	"event_manager/apperror"
	"event_manager/model"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	register := map[string]string{"name": "Alice", "email": "Alice@Example.com", "password": "hunter22"}
	resp, body := env.do(t, http.MethodPost, "/api/v1/auth/register", nil, register)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Equal(t, "alice@example.com", gjson.GetBytes(body, "data.email").String())
	assert.Equal(t, "USER", gjson.GetBytes(body, "data.role").String())
	assert.False(t, gjson.GetBytes(body, "data.password").Exists())

	resp, body = env.do(t, http.MethodPost, "/api/v1/auth/register", nil, register)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "email", gjson.GetBytes(body, "details.field").String())

	resp, _ = env.do(t, http.MethodPost, "/api/v1/auth/login", nil, map[string]string{"email": "alice@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = env.do(t, http.MethodPost, "/api/v1/auth/login", nil, map[string]string{"email": "alice@example.com", "password": "hunter22"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	access := gjson.GetBytes(body, "data.accessToken").String()
	require.NotEmpty(t, access)

	var cookieNames []string
	for _, c := range resp.Cookies() {
		cookieNames = append(cookieNames, c.Name)
	}
	assert.ElementsMatch(t, []string{"access_token", "refresh_token"}, cookieNames)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: access})
	meResp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, meResp.StatusCode)
}

func TestDeactivatedUserIsRejected(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/admin/users/%d/active", env.buyer.ID), &env.admin, map[string]bool{"isActive": false})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.False(t, gjson.GetBytes(body, "data.isActive").Bool())

	resp, body = env.do(t, http.MethodGet, "/api/v1/orders/mine", &env.buyer, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, string(apperror.Forbidden), gjson.GetBytes(body, "reason").String())

	resp, _ = env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/admin/users/%d/role", env.admin.ID), &env.admin, map[string]string{"role": "USER"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEventLifecycle(t *testing.T) {
	env := newTestEnv(t)
	start := time.Now().Add(240 * time.Hour).UTC().Truncate(time.Second)

	create := map[string]interface{}{
		"title":       "Summer Fest",
		"venueId":     env.venue.ID,
		"categoryId":  env.category.ID,
		"normalPrice": map[string]interface{}{"price": "30.00", "quantity": 200},
		"vipPrice":    map[string]interface{}{"price": "90.00", "quantity": 20},
		"startDate":   start.Format(time.RFC3339),
		"endDate":     start.Add(6 * time.Hour).Format(time.RFC3339),
		"isPublished": true,
	}
	resp, _ := env.do(t, http.MethodPost, "/api/v1/events", &env.buyer, create)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, "/api/v1/events", &env.organizer, create)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	id := gjson.GetBytes(body, "data.id").Int()
	assert.Equal(t, "summer-fest", gjson.GetBytes(body, "data.slug").String())
	assert.Equal(t, "Blue Hall", gjson.GetBytes(body, "data.venue.name").String())

	resp, body = env.do(t, http.MethodGet, "/api/v1/events/summer-fest", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, id, gjson.GetBytes(body, "data.id").Int())

	resp, body = env.do(t, http.MethodGet, "/api/v1/events?city=springfield&searchKey=summer", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, int64(1), gjson.GetBytes(body, "data.totalCount").Int())

	resp, _ = env.do(t, http.MethodGet, "/api/v1/events?from=2026-13-01", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	update := map[string]interface{}{"vipPrice": map[string]interface{}{"price": "95.00", "quantity": 5}}
	resp, body = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/events/%d", id), &env.organizer, update)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, int64(5), gjson.GetBytes(body, "data.vipPrice.quantity").Int())
	assert.Equal(t, "95", gjson.GetBytes(body, "data.vipPrice.price").String())

	badDates := map[string]interface{}{"endDate": start.Add(-time.Hour).Format(time.RFC3339)}
	resp, _ = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/events/%d", id), &env.organizer, badDates)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/admin/events/%d/publish", id), &env.admin, map[string]bool{"isPublished": false})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.do(t, http.MethodGet, "/api/v1/events/summer-fest", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/events/%d", id), &env.organizer, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDeleteEventWithLiveOrders(t *testing.T) {
	env := newTestEnv(t)
	order := createOrder(t, env, &env.buyer, "normal", 1)
	path := fmt.Sprintf("/api/v1/events/%d", env.event.ID)

	resp, body := env.do(t, http.MethodDelete, path, &env.organizer, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, string(apperror.Conflict), gjson.GetBytes(body, "reason").String())
	assert.Equal(t, int64(1), gjson.GetBytes(body, "details.orders").Int())

	var orders, tickets int64
	require.NoError(t, env.db.Model(&model.Order{}).Where("event_id = ?", env.event.ID).Count(&orders).Error)
	require.NoError(t, env.db.Model(&model.Ticket{}).Where("event_id = ?", env.event.ID).Count(&tickets).Error)
	assert.Equal(t, int64(1), orders, "a refused delete keeps the order")
	assert.Equal(t, int64(1), tickets)

	resp, _ = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/orders/%d/cancel", order.Get("id").Int()), &env.buyer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = env.do(t, http.MethodDelete, path, &env.organizer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, env.db.Model(&model.Order{}).Where("event_id = ?", env.event.ID).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestCategoryAdmin(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodPost, "/api/v1/categories", &env.organizer, map[string]string{"name": "Theatre"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, "/api/v1/categories", &env.admin, map[string]string{"name": "Theatre"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Equal(t, "theatre", gjson.GetBytes(body, "data.slug").String())

	resp, _ = env.do(t, http.MethodPost, "/api/v1/categories", &env.admin, map[string]string{"name": "music"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/categories/%d", env.category.ID), &env.admin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/api/v1/categories", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var names []string
	for _, n := range gjson.GetBytes(body, "data.#.name").Array() {
		names = append(names, strings.ToLower(n.String()))
	}
	assert.ElementsMatch(t, []string{"music", "theatre"}, names)
}
