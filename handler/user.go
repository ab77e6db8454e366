package handler

import (
	"event_manager/apperror"
	"event_manager/constants"
	"event_manager/database"
	"event_manager/helper"
	"event_manager/model"
	"event_manager/utils"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func Me(c *fiber.Ctx) error {
	user, ok := helper.CurrentUser(c)
	if !ok {
		return utils.AppErrorResponse(c, apperror.New(apperror.Unauthorized, constants.NOT_LOGGED_IN))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, user)
}

func UpdateProfile(c *fiber.Ctx) error {
	user, _ := helper.CurrentUser(c)
	input, ok := c.Locals("input").(model.UpdateProfileInput)
	if !ok || user == nil {
		return utils.AppErrorResponse(c, apperror.New(apperror.InvalidRequest, constants.ERROR_PARSE_DATA_TO_LOCALS))
	}
	db := database.DB

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		if *input.Phone == "" {
			updates["phone"] = nil
		} else {
			taken, err := helper.PhoneTaken(db, *input.Phone, user.ID)
			if err != nil {
				return utils.AppErrorResponse(c, err)
			}
			if taken {
				return utils.AppErrorResponse(c, apperror.New(apperror.Conflict, constants.PHONE_EXISTS).With("field", "phone"))
			}
			updates["phone"] = *input.Phone
		}
	}
	if len(updates) > 0 {
		if err := db.Model(user).Updates(updates).Error; err != nil {
			return utils.AppErrorResponse(c, apperror.Wrap(apperror.Internal, constants.ERROR_EDIT, err))
		}
	}

	var fresh model.User
	if err := db.First(&fresh, user.ID).Error; err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fresh)
}

func ChangePassword(c *fiber.Ctx) error {
	user, _ := helper.CurrentUser(c)
	input, ok := c.Locals("input").(model.ChangePasswordInput)
	if !ok || user == nil {
		return utils.AppErrorResponse(c, apperror.New(apperror.InvalidRequest, constants.ERROR_PARSE_DATA_TO_LOCALS))
	}
	if !helper.CheckPasswordHash(input.CurrentPassword, user.Password) {
		return utils.AppErrorResponse(c, apperror.New(apperror.InvalidRequest, constants.INVALID_PASSWORD).With("field", "currentPassword"))
	}

	hash, err := helper.HashPassword(input.NewPassword)
	if err != nil {
		return utils.AppErrorResponse(c, apperror.Wrap(apperror.Internal, constants.CAN_NOT_HASH_PASSWORD, err))
	}
	if err := database.DB.Model(user).Update("password", hash).Error; err != nil {
		return utils.AppErrorResponse(c, apperror.Wrap(apperror.Internal, constants.ERROR_EDIT, err))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": "password changed"})
}

func GetUsers(c *fiber.Ctx) error {
	filter, _ := c.Locals("filter").(model.FilterUserInput)
	limit, page := utils.NormalizePagination(filter.Limit, filter.Page)

	query := database.DB.Model(&model.User{})
	if key := strings.TrimSpace(filter.SearchKey); key != "" {
		search := utils.LikePattern(key)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", search, search)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return utils.AppErrorResponse(c, err)
	}
	var users []model.User
	if err := utils.ApplyPagination(query, &limit, &page).Order("id DESC").Find(&users).Error; err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       users,
		Limit:      &limit,
		Page:       &page,
		TotalCount: total,
	})
}

// moderateUser applies updates to a user other than the requesting admin.
func moderateUser(c *fiber.Ctx, updates map[string]interface{}) error {
	id := inputId(c)
	admin, _ := helper.CurrentUser(c)
	if admin != nil && admin.ID == id {
		return utils.AppErrorResponse(c, apperror.New(apperror.InvalidRequest, "admins cannot moderate their own account"))
	}

	db := database.DB
	var user model.User
	if err := db.First(&user, id).Error; err != nil {
		return utils.AppErrorResponse(c, notFound(err, constants.USER_NOT_FOUND))
	}
	if err := db.Model(&user).Updates(updates).Error; err != nil {
		return utils.AppErrorResponse(c, apperror.Wrap(apperror.Internal, constants.ERROR_EDIT, err))
	}
	if err := db.First(&user, id).Error; err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, user)
}

func UpdateUserActive(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.UpdateUserActiveInput)
	if !ok {
		return utils.AppErrorResponse(c, apperror.New(apperror.InvalidRequest, constants.ERROR_PARSE_DATA_TO_LOCALS))
	}
	return moderateUser(c, map[string]interface{}{"is_active": *input.IsActive})
}

func UpdateUserRole(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.UpdateUserRoleInput)
	if !ok {
		return utils.AppErrorResponse(c, apperror.New(apperror.InvalidRequest, constants.ERROR_PARSE_DATA_TO_LOCALS))
	}
	return moderateUser(c, map[string]interface{}{"role": input.Role})
}
