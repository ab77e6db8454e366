package validate

import (
	"event_manager/model"

	"github.com/gofiber/fiber/v2"
)

func Register() fiber.Handler {
	return body[model.RegisterInput]()
}

func Login() fiber.Handler {
	return body[model.LoginInput]()
}

func UpdateProfile() fiber.Handler {
	return body[model.UpdateProfileInput]()
}

func ChangePassword() fiber.Handler {
	return body[model.ChangePasswordInput]()
}

func UpdateUserRole() fiber.Handler {
	return body[model.UpdateUserRoleInput]()
}

func UpdateUserActive() fiber.Handler {
	return body[model.UpdateUserActiveInput]()
}

func FilterUser() fiber.Handler {
	return query[model.FilterUserInput]()
}
