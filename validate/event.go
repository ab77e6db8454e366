package validate

import (
	"event_manager/apperror"
	"event_manager/constants"
	"event_manager/model"
	"event_manager/utils"
	"time"

	"github.com/gofiber/fiber/v2"
)

func CreateEvent() fiber.Handler {
	return body[model.CreateEventInput]()
}

func UpdateEvent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.UpdateEventInput
		if err := c.BodyParser(&input); err != nil {
			return utils.AppErrorResponse(c, apperror.Wrap(apperror.InvalidRequest, constants.ERROR_INPUT, err))
		}
		if err := checkStruct(&input); err != nil {
			return utils.AppErrorResponse(c, err)
		}
		if input.StartDate != nil && input.EndDate != nil && !input.EndDate.After(*input.StartDate) {
			return utils.AppErrorResponse(c, apperror.New(apperror.InvalidRequest, "endDate must be after startDate").With("field", "endDate"))
		}

		c.Locals("input", input)
		return c.Next()
	}
}

func PublishEvent() fiber.Handler {
	return body[model.PublishEventInput]()
}

func FilterEvent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var filter model.FilterEventInput
		if err := c.QueryParser(&filter); err != nil {
			return utils.AppErrorResponse(c, apperror.Wrap(apperror.InvalidRequest, constants.ERROR_INPUT, err))
		}
		for field, v := range map[string]string{"from": filter.From, "to": filter.To} {
			if v == "" {
				continue
			}
			if _, err := time.Parse("2006-01-02", v); err != nil {
				return utils.AppErrorResponse(c, apperror.Wrap(apperror.InvalidRequest, field+" must be YYYY-MM-DD", err).With("field", field))
			}
		}

		c.Locals("filter", filter)
		return c.Next()
	}
}
