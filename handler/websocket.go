package handler

import (
	"context"
	"event_manager/database"
	"event_manager/model"
	"strconv"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

var (
	watchers = make(map[uint]map[*websocket.Conn]bool)
	mu       sync.Mutex
)

func addWatcher(eventId uint, c *websocket.Conn) {
	mu.Lock()
	defer mu.Unlock()
	if watchers[eventId] == nil {
		watchers[eventId] = make(map[*websocket.Conn]bool)
	}
	watchers[eventId][c] = true
}

func removeWatcher(eventId uint, c *websocket.Conn) {
	mu.Lock()
	defer mu.Unlock()
	delete(watchers[eventId], c)
	if len(watchers[eventId]) == 0 {
		delete(watchers, eventId)
	}
}

// WatcherCount is the number of open inventory feeds for an event.
func WatcherCount(eventId uint) int {
	mu.Lock()
	defer mu.Unlock()
	return len(watchers[eventId])
}

// sendInitialSnapshot prefers the last published snapshot and falls back to the database.
func sendInitialSnapshot(ctx context.Context, c *websocket.Conn, eventId uint) error {
	if inventoryFeed != nil {
		if payload, err := inventoryFeed.Last(ctx, eventId); err == nil && payload != "" {
			return c.WriteMessage(websocket.TextMessage, []byte(payload))
		}
	}

	var event model.Event
	if err := database.DB.First(&event, eventId).Error; err != nil {
		c.WriteJSON(map[string]string{"message": "event not found"})
		return err
	}
	return c.WriteJSON(event.Snapshot())
}

// InventoryFeed sends the event's current inventory, then every snapshot
// published on its redis channel until the client disconnects.
func InventoryFeed(c *websocket.Conn) {
	id64, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		c.WriteJSON(map[string]string{"message": "invalid event id"})
		c.Close()
		return
	}
	eventId := uint(id64)

	addWatcher(eventId, c)
	zap.L().Debug("inventory feed opened", zap.Uint("eventId", eventId), zap.Int("watchers", WatcherCount(eventId)))
	defer func() {
		removeWatcher(eventId, c)
		c.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sendInitialSnapshot(ctx, c, eventId); err != nil {
		return
	}

	// Reads only detect the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if inventoryFeed == nil {
		<-ctx.Done()
		return
	}

	pubsub := inventoryFeed.Subscribe(ctx, eventId)
	defer pubsub.Close()
	channel := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-channel:
			if !ok {
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				zap.L().Debug("inventory feed closed", zap.Uint("eventId", eventId), zap.Error(err))
				return
			}
		}
	}
}
