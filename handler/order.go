package handler

import (
	"event_manager/apperror"
	"event_manager/constants"
	"event_manager/helper"
	"event_manager/model"
	"event_manager/utils"

	"github.com/gofiber/fiber/v2"
)

func CreateOrder(c *fiber.Ctx) error {
	user, _ := helper.CurrentUser(c)
	input, ok := c.Locals("input").(model.CreateOrderInput)
	if !ok || user == nil {
		return utils.AppErrorResponse(c, apperror.New(apperror.InvalidRequest, constants.ERROR_PARSE_DATA_TO_LOCALS))
	}

	summary, err := orderService.CreateOrder(c.UserContext(), user.ID, input)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, summary)
}

func GetMyOrders(c *fiber.Ctx) error {
	user, _ := helper.CurrentUser(c)
	page, _ := c.Locals("filter").(model.Pagination)

	result, err := orderService.ListUserOrders(c.UserContext(), user.ID, page)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, result)
}

func GetOrder(c *fiber.Ctx) error {
	order, err := orderService.GetOrder(c.UserContext(), inputId(c), helper.CurrentClaim(c))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

func CancelOrder(c *fiber.Ctx) error {
	user, _ := helper.CurrentUser(c)
	result, err := orderService.CancelOrder(c.UserContext(), inputId(c), user.ID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, result)
}

func GetOrders(c *fiber.Ctx) error {
	filter, _ := c.Locals("filter").(model.FilterOrderInput)
	result, err := orderService.ListOrders(c.UserContext(), filter)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, result)
}

func UpdatePaymentStatus(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.UpdatePaymentStatusInput)
	if !ok {
		return utils.AppErrorResponse(c, apperror.New(apperror.InvalidRequest, constants.ERROR_PARSE_DATA_TO_LOCALS))
	}
	order, err := orderService.UpdatePaymentStatus(c.UserContext(), inputId(c), input.Status)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, order)
}

func PurgeOrder(c *fiber.Ctx) error {
	id := inputId(c)
	if err := orderService.PurgeOrder(c.UserContext(), id); err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": id})
}
