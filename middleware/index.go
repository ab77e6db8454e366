package middleware

import (
	"errors"
	"event_manager/apperror"
	"event_manager/constants"
	"event_manager/helper"
	"event_manager/utils"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func tokenFromRequest(c *fiber.Ctx) string {
	token := c.Cookies("access_token")
	if token == "" {
		auth := c.Get("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	return token
}

// Protected requires a valid access token for an active user and stores the user in Locals("currentUser").
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromRequest(c)
		if token == "" {
			return utils.AppErrorResponse(c, apperror.New(apperror.Unauthorized, constants.NOT_LOGGED_IN))
		}

		jwtToken, err := helper.ParseToken(token)
		if err != nil || !jwtToken.Valid {
			return utils.AppErrorResponse(c, apperror.Wrap(apperror.Unauthorized, "Invalid token", err))
		}
		claim, err := helper.ClaimFromToken(jwtToken, "access")
		if err != nil {
			return utils.AppErrorResponse(c, apperror.Wrap(apperror.Unauthorized, "Invalid token", err))
		}

		user, err := helper.LoadUser(claim)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.AppErrorResponse(c, apperror.New(apperror.Unauthorized, constants.USER_NOT_FOUND))
			}
			return utils.AppErrorResponse(c, apperror.Wrap(apperror.Internal, constants.ERROR_INTERNAL_ERROR, err))
		}
		if !user.IsActive {
			return utils.AppErrorResponse(c, apperror.New(apperror.Forbidden, constants.ACCOUNT_NOT_ACTIVE))
		}

		c.Locals("user", jwtToken)
		c.Locals("currentUser", user)
		return c.Next()
	}
}

// RequireRoles must run after Protected.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := helper.CurrentUser(c)
		if !ok {
			return utils.AppErrorResponse(c, apperror.New(apperror.Unauthorized, constants.NOT_LOGGED_IN))
		}
		if !utils.IsValidValueOfConstant(user.Role, roles) {
			return utils.AppErrorResponse(c, apperror.New(apperror.Forbidden, constants.NOT_PERMISSION))
		}
		return c.Next()
	}
}

func AdminOnly() fiber.Handler {
	return RequireRoles(constants.ROLE_ADMIN)
}

func OrganizerOrAdmin() fiber.Handler {
	return RequireRoles(constants.ROLE_ORGANIZER, constants.ROLE_ADMIN)
}
