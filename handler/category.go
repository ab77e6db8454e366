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
	"github.com/jinzhu/copier"
)

func GetCategories(c *fiber.Ctx) error {
	var categories []model.Category
	if err := database.DB.Order("name ASC").Find(&categories).Error; err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, categories)
}

func GetCategoryById(c *fiber.Ctx) error {
	var category model.Category
	if err := database.DB.First(&category, inputId(c)).Error; err != nil {
		return utils.AppErrorResponse(c, notFound(err, constants.CATEGORY_NOT_FOUND))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, category)
}

func categoryNameTaken(name string, excludeId uint) (bool, error) {
	var count int64
	query := database.DB.Model(&model.Category{}).Where("LOWER(name) = ?", strings.ToLower(name))
	if excludeId != 0 {
		query = query.Where("id <> ?", excludeId)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func CreateCategory(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.CategoryInput)
	if !ok {
		return utils.AppErrorResponse(c, apperror.New(apperror.InvalidRequest, constants.ERROR_PARSE_DATA_TO_LOCALS))
	}
	input.Name = strings.TrimSpace(input.Name)

	taken, err := categoryNameTaken(input.Name, 0)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	if taken {
		return utils.AppErrorResponse(c, apperror.New(apperror.Conflict, constants.CATEGORY_NAME_EXISTS).With("field", "name"))
	}

	var category model.Category
	if err := copier.Copy(&category, &input); err != nil {
		return utils.AppErrorResponse(c, err)
	}
	category.Slug = helper.GenerateUniqueSlug(database.DB, &model.Category{}, category.Name, 0)

	if err := database.DB.Create(&category).Error; err != nil {
		return utils.AppErrorResponse(c, apperror.Wrap(apperror.Internal, constants.ERROR_CREATE, err))
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, category)
}

func UpdateCategory(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.CategoryInput)
	if !ok {
		return utils.AppErrorResponse(c, apperror.New(apperror.InvalidRequest, constants.ERROR_PARSE_DATA_TO_LOCALS))
	}
	db := database.DB

	var category model.Category
	if err := db.First(&category, inputId(c)).Error; err != nil {
		return utils.AppErrorResponse(c, notFound(err, constants.CATEGORY_NOT_FOUND))
	}

	input.Name = strings.TrimSpace(input.Name)
	taken, err := categoryNameTaken(input.Name, category.ID)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	if taken {
		return utils.AppErrorResponse(c, apperror.New(apperror.Conflict, constants.CATEGORY_NAME_EXISTS).With("field", "name"))
	}

	if input.Name != category.Name {
		category.Slug = helper.GenerateUniqueSlug(db, &model.Category{}, input.Name, category.ID)
	}
	category.Name = input.Name
	category.Description = input.Description
	if err := db.Save(&category).Error; err != nil {
		return utils.AppErrorResponse(c, apperror.Wrap(apperror.Internal, constants.ERROR_EDIT, err))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, category)
}

func DeleteCategory(c *fiber.Ctx) error {
	db := database.DB
	id := inputId(c)

	var category model.Category
	if err := db.First(&category, id).Error; err != nil {
		return utils.AppErrorResponse(c, notFound(err, constants.CATEGORY_NOT_FOUND))
	}

	var events int64
	if err := db.Model(&model.Event{}).Where("category_id = ?", id).Count(&events).Error; err != nil {
		return utils.AppErrorResponse(c, err)
	}
	if events > 0 {
		return utils.AppErrorResponse(c, apperror.New(apperror.Conflict, "category is used by events").With("events", events))
	}

	if err := db.Delete(&category).Error; err != nil {
		return utils.AppErrorResponse(c, apperror.Wrap(apperror.Internal, constants.ERROR_DELETE, err))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": id})
}
