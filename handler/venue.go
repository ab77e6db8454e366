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
	"gorm.io/gorm"
)

func GetVenues(c *fiber.Ctx) error {
	filter, _ := c.Locals("filter").(model.FilterVenueInput)
	limit, page := utils.NormalizePagination(filter.Limit, filter.Page)

	query := database.DB.Model(&model.Venue{})
	if key := strings.TrimSpace(filter.SearchKey); key != "" {
		search := utils.LikePattern(key)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", search, search)
	}
	if filter.City != "" {
		query = query.Where("LOWER(city) = ?", strings.ToLower(strings.TrimSpace(filter.City)))
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return utils.AppErrorResponse(c, err)
	}
	var venues []model.Venue
	if err := utils.ApplyPagination(query, &limit, &page).Order("name ASC").Find(&venues).Error; err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       venues,
		Limit:      &limit,
		Page:       &page,
		TotalCount: total,
	})
}

func GetVenueById(c *fiber.Ctx) error {
	var venue model.Venue
	if err := database.DB.First(&venue, inputId(c)).Error; err != nil {
		return utils.AppErrorResponse(c, notFound(err, constants.VENUE_NOT_FOUND))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, venue)
}

func CreateVenue(c *fiber.Ctx) error {
	user, _ := helper.CurrentUser(c)
	input, ok := c.Locals("input").(model.VenueInput)
	if !ok || user == nil {
		return utils.AppErrorResponse(c, apperror.New(apperror.InvalidRequest, constants.ERROR_PARSE_DATA_TO_LOCALS))
	}

	var venue model.Venue
	if err := copier.Copy(&venue, &input); err != nil {
		return utils.AppErrorResponse(c, err)
	}
	venue.OrganizerId = user.ID
	venue.Slug = helper.GenerateUniqueSlug(database.DB, &model.Venue{}, venue.Name, 0)

	if err := database.DB.Create(&venue).Error; err != nil {
		return utils.AppErrorResponse(c, apperror.Wrap(apperror.Internal, constants.ERROR_CREATE, err))
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, venue)
}

func UpdateVenue(c *fiber.Ctx) error {
	user, _ := helper.CurrentUser(c)
	input, ok := c.Locals("input").(model.VenueInput)
	if !ok {
		return utils.AppErrorResponse(c, apperror.New(apperror.InvalidRequest, constants.ERROR_PARSE_DATA_TO_LOCALS))
	}
	db := database.DB

	var venue model.Venue
	if err := db.First(&venue, inputId(c)).Error; err != nil {
		return utils.AppErrorResponse(c, notFound(err, constants.VENUE_NOT_FOUND))
	}
	if !canManage(user, venue.OrganizerId) {
		return utils.AppErrorResponse(c, apperror.New(apperror.Forbidden, constants.NOT_PERMISSION))
	}

	if input.Name != venue.Name {
		venue.Slug = helper.GenerateUniqueSlug(db, &model.Venue{}, input.Name, venue.ID)
	}
	if err := copier.Copy(&venue, &input); err != nil {
		return utils.AppErrorResponse(c, err)
	}
	if err := db.Save(&venue).Error; err != nil {
		return utils.AppErrorResponse(c, apperror.Wrap(apperror.Internal, constants.ERROR_EDIT, err))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, venue)
}

func DeleteVenue(c *fiber.Ctx) error {
	user, _ := helper.CurrentUser(c)
	db := database.DB
	id := inputId(c)

	var venue model.Venue
	if err := db.First(&venue, id).Error; err != nil {
		return utils.AppErrorResponse(c, notFound(err, constants.VENUE_NOT_FOUND))
	}
	if !canManage(user, venue.OrganizerId) {
		return utils.AppErrorResponse(c, apperror.New(apperror.Forbidden, constants.NOT_PERMISSION))
	}

	var events int64
	if err := db.Model(&model.Event{}).Where("venue_id = ?", id).Count(&events).Error; err != nil {
		return utils.AppErrorResponse(c, err)
	}
	if events > 0 {
		return utils.AppErrorResponse(c, apperror.New(apperror.Conflict, "venue hosts events").With("events", events))
	}

	if err := db.Delete(&venue).Error; err != nil {
		return utils.AppErrorResponse(c, apperror.Wrap(apperror.Internal, constants.ERROR_DELETE, err))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": id})
}
