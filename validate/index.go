package validate

import (
	"event_manager/apperror"
	"event_manager/constants"
	"event_manager/utils"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

var validate = utils.NewValidator()

func GetById(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := c.Params(key)
		valueKey, err := strconv.ParseUint(params, 10, 64)
		if err != nil || valueKey == 0 {
			return utils.AppErrorResponse(c, apperror.Wrap(apperror.InvalidRequest, constants.DATA_INPUT_IS_NOT_NUMBER, err))
		}

		c.Locals("inputId", uint(valueKey))
		return c.Next()
	}
}

func checkStruct(input interface{}) error {
	if err := validate.Struct(input); err != nil {
		field := utils.FirstInvalidField(err)
		return apperror.Wrap(apperror.InvalidRequest, fmt.Sprintf("%s is missing or invalid", field), err).
			With("field", field)
	}
	return nil
}

// body parses and validates the JSON body into T and stores it in Locals("input").
func body[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input T
		if err := c.BodyParser(&input); err != nil {
			return utils.AppErrorResponse(c, apperror.Wrap(apperror.InvalidRequest, constants.ERROR_INPUT, err))
		}
		if err := checkStruct(&input); err != nil {
			return utils.AppErrorResponse(c, err)
		}

		c.Locals("input", input)
		return c.Next()
	}
}

// query parses and validates query parameters into T and stores it in Locals("filter").
func query[T any]() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var filter T
		if err := c.QueryParser(&filter); err != nil {
			return utils.AppErrorResponse(c, apperror.Wrap(apperror.InvalidRequest, constants.ERROR_INPUT, err))
		}
		if err := checkStruct(&filter); err != nil {
			return utils.AppErrorResponse(c, err)
		}

		c.Locals("filter", filter)
		return c.Next()
	}
}
