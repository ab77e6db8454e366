package handler

import (
	"bufio"
	"bytes"
	"event_manager/apperror"
	"event_manager/helper"
	"event_manager/model"
	"event_manager/utils"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func GetMyTickets(c *fiber.Ctx) error {
	user, _ := helper.CurrentUser(c)
	filter, _ := c.Locals("filter").(model.FilterTicketInput)

	result, err := ticketService.ListUserTickets(c.UserContext(), user.ID, filter)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, result)
}

func DownloadTicket(c *fiber.Ctx) error {
	user, _ := helper.CurrentUser(c)
	ticket, err := ticketService.OwnedTicket(c.UserContext(), inputId(c), user.ID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	var buf bytes.Buffer
	if err := renderer.RenderTicket(&buf, ticket); err != nil {
		return utils.AppErrorResponse(c, apperror.Wrap(apperror.Internal, "could not render ticket", err))
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="ticket-%s.pdf"`, ticket.TicketCode))
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

// DownloadOrderTickets streams a zip archive with one PDF per ticket of the order.
func DownloadOrderTickets(c *fiber.Ctx) error {
	user, _ := helper.CurrentUser(c)
	order, tickets, err := ticketService.OwnedOrderTickets(c.UserContext(), inputId(c), user.ID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s-tickets.zip"`, order.OrderNumber))
	c.Status(fiber.StatusOK)
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		if err := renderer.RenderOrderArchive(w, tickets); err != nil {
			zap.L().Error("order archive failed", zap.String("orderNumber", order.OrderNumber), zap.Error(err))
		}
		if err := w.Flush(); err != nil {
			zap.L().Warn("order archive flush failed", zap.Error(err))
		}
	})
	return nil
}

func CheckInTicket(c *fiber.Ctx) error {
	code, _ := c.Locals("ticketCode").(string)
	ticket, err := ticketService.CheckIn(c.UserContext(), code, helper.CurrentClaim(c))
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, ticket)
}
