package validate

import (
	"event_manager/model"

	"github.com/gofiber/fiber/v2"
)

func CreateOrder() fiber.Handler {
	return body[model.CreateOrderInput]()
}

func UpdatePaymentStatus() fiber.Handler {
	return body[model.UpdatePaymentStatusInput]()
}

func FilterOrder() fiber.Handler {
	return query[model.FilterOrderInput]()
}

func Paginate() fiber.Handler {
	return query[model.Pagination]()
}
