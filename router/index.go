package router

import (
	"event_manager/handler"
	"event_manager/middleware"
	"event_manager/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1")

	auth := v1.Group("/auth")
	auth.Post("/register", validate.Register(), handler.Register)
	auth.Post("/login", validate.Login(), handler.Login)
	auth.Post("/refresh-token", handler.RefreshToken)
	auth.Post("/logout", handler.Logout)

	users := v1.Group("/users", middleware.Protected())
	users.Get("/me", handler.Me)
	users.Put("/me", validate.UpdateProfile(), handler.UpdateProfile)
	users.Put("/me/password", validate.ChangePassword(), handler.ChangePassword)

	categories := v1.Group("/categories")
	categories.Get("/", handler.GetCategories)
	categories.Get("/:id", validate.GetById("id"), handler.GetCategoryById)
	categories.Post("/", middleware.Protected(), middleware.AdminOnly(), validate.Category(), handler.CreateCategory)
	categories.Put("/:id", middleware.Protected(), middleware.AdminOnly(), validate.GetById("id"), validate.Category(), handler.UpdateCategory)
	categories.Delete("/:id", middleware.Protected(), middleware.AdminOnly(), validate.GetById("id"), handler.DeleteCategory)

	venues := v1.Group("/venues")
	venues.Get("/", validate.FilterVenue(), handler.GetVenues)
	venues.Get("/:id", validate.GetById("id"), handler.GetVenueById)
	venues.Post("/", middleware.Protected(), middleware.OrganizerOrAdmin(), validate.Venue(), handler.CreateVenue)
	venues.Put("/:id", middleware.Protected(), middleware.OrganizerOrAdmin(), validate.GetById("id"), validate.Venue(), handler.UpdateVenue)
	venues.Delete("/:id", middleware.Protected(), middleware.OrganizerOrAdmin(), validate.GetById("id"), handler.DeleteVenue)

	events := v1.Group("/events")
	events.Get("/", validate.FilterEvent(), handler.GetEvents)
	events.Get("/mine", middleware.Protected(), middleware.OrganizerOrAdmin(), validate.FilterEvent(), handler.GetMyEvents)
	events.Get("/:idOrSlug", handler.GetEvent)
	events.Post("/", middleware.Protected(), middleware.OrganizerOrAdmin(), validate.CreateEvent(), handler.CreateEvent)
	events.Put("/:id", middleware.Protected(), middleware.OrganizerOrAdmin(), validate.GetById("id"), validate.UpdateEvent(), handler.UpdateEvent)
	events.Delete("/:id", middleware.Protected(), middleware.OrganizerOrAdmin(), validate.GetById("id"), handler.DeleteEvent)
	events.Post("/:id/image", middleware.Protected(), middleware.OrganizerOrAdmin(), validate.GetById("id"), handler.UploadEventImage)

	ws := v1.Group("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	ws.Get("/events/:id/inventory", websocket.New(handler.InventoryFeed))

	orders := v1.Group("/orders", middleware.Protected())
	orders.Post("/", validate.CreateOrder(), handler.CreateOrder)
	orders.Get("/mine", validate.Paginate(), handler.GetMyOrders)
	orders.Get("/:id", validate.GetById("id"), handler.GetOrder)
	orders.Put("/:id/cancel", validate.GetById("id"), handler.CancelOrder)

	tickets := v1.Group("/tickets", middleware.Protected())
	tickets.Get("/mine", validate.FilterTicket(), handler.GetMyTickets)
	tickets.Get("/:id/download", validate.GetById("id"), handler.DownloadTicket)
	tickets.Get("/order/:orderId/download", validate.GetById("orderId"), handler.DownloadOrderTickets)
	tickets.Post("/check-in/:code", middleware.OrganizerOrAdmin(), validate.TicketCode(), handler.CheckInTicket)

	reports := v1.Group("/reports", middleware.Protected(), middleware.OrganizerOrAdmin())
	reports.Get("/attendance", handler.GetAttendanceReport)

	admin := v1.Group("/admin", middleware.Protected(), middleware.AdminOnly())
	admin.Get("/orders", validate.FilterOrder(), handler.GetOrders)
	admin.Put("/orders/:id/status", validate.GetById("id"), validate.UpdatePaymentStatus(), handler.UpdatePaymentStatus)
	admin.Delete("/orders/:id", validate.GetById("id"), handler.PurgeOrder)
	admin.Patch("/events/:id/publish", validate.GetById("id"), validate.PublishEvent(), handler.PublishEvent)
	admin.Get("/users", validate.FilterUser(), handler.GetUsers)
	admin.Patch("/users/:id/active", validate.GetById("id"), validate.UpdateUserActive(), handler.UpdateUserActive)
	admin.Patch("/users/:id/role", validate.GetById("id"), validate.UpdateUserRole(), handler.UpdateUserRole)
	admin.Get("/statistics", validate.StatisticMonth(), handler.GetAdminStatistics)
}
