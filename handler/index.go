package handler

import (
	"errors"
	"event_manager/apperror"
	"event_manager/constants"
	"event_manager/model"
	"event_manager/service"
	"event_manager/utils"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options carries the infrastructure the handlers run on. Redis and
// Cloudinary are optional.
type Options struct {
	DB         *gorm.DB
	Redis      *redis.Client
	Cloudinary *cloudinary.Cloudinary
	SMTP       utils.SMTPSettings
	// Dispatch overrides how post-commit side effects run.
	Dispatch func(func())
}

var (
	orderService  *service.OrderService
	ticketService *service.TicketService
	renderer      *service.Renderer
	publisher     service.InventoryPublisher = service.NopPublisher{}
	inventoryFeed *service.RedisPublisher
	cld           *cloudinary.Cloudinary
	smtpSettings  utils.SMTPSettings
)

func Init(opts Options) {
	publisher = service.NopPublisher{}
	inventoryFeed = nil
	if opts.Redis != nil {
		inventoryFeed = service.NewRedisPublisher(opts.Redis)
		publisher = inventoryFeed
	}

	var notifier service.Notifier = service.NopNotifier{}
	if opts.SMTP.Enabled() {
		notifier = service.NewMailNotifier(opts.SMTP)
	}

	orderService = service.NewOrderService(opts.DB, notifier, publisher)
	if opts.Dispatch != nil {
		orderService.Dispatch = opts.Dispatch
	}
	ticketService = service.NewTicketService(opts.DB)
	renderer = service.NewRenderer()
	cld = opts.Cloudinary
	smtpSettings = opts.SMTP
}

func inputId(c *fiber.Ctx) uint {
	id, _ := c.Locals("inputId").(uint)
	return id
}

func notFound(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.New(apperror.NotFound, message)
	}
	return apperror.Wrap(apperror.Internal, constants.ERROR_INTERNAL_ERROR, err)
}

// canManage reports whether user is an admin or the organizer owning the resource.
func canManage(user *model.User, ownerId uint) bool {
	if user == nil {
		return false
	}
	return user.Role == constants.ROLE_ADMIN || user.ID == ownerId
}
