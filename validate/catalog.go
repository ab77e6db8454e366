package validate

import (
	"event_manager/model"

	"github.com/gofiber/fiber/v2"
)

func Category() fiber.Handler {
	return body[model.CategoryInput]()
}

func Venue() fiber.Handler {
	return body[model.VenueInput]()
}

func FilterVenue() fiber.Handler {
	return query[model.FilterVenueInput]()
}
