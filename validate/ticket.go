package validate

import (
	"event_manager/apperror"
	"event_manager/model"
	"event_manager/utils"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var ticketCodePattern = regexp.MustCompile(`^TKT-[0-9A-F]{12}$`)

func FilterTicket() fiber.Handler {
	return query[model.FilterTicketInput]()
}

// TicketCode normalizes the :code param and stores it in Locals("ticketCode").
func TicketCode() fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := strings.ToUpper(strings.TrimSpace(c.Params("code")))
		if !ticketCodePattern.MatchString(code) {
			return utils.AppErrorResponse(c, apperror.New(apperror.InvalidRequest, "ticket code is malformed"))
		}
		c.Locals("ticketCode", code)
		return c.Next()
	}
}
