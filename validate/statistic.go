package validate

import (
	"event_manager/apperror"
	"event_manager/utils"

	"github.com/gofiber/fiber/v2"
)

// StatisticMonth accepts an optional ?month=MM-YYYY.
func StatisticMonth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		month := c.Query("month")
		if month != "" && !utils.IsValidMMYYYY(month) {
			return utils.AppErrorResponse(c, apperror.New(apperror.InvalidRequest, "month must be MM-YYYY").With("field", "month"))
		}

		c.Locals("inputMonth", month)
		return c.Next()
	}
}
