package handler

import (
	"context"
	"errors"
	"event_manager/apperror"
	"event_manager/constants"
	"event_manager/database"
	"event_manager/helper"
	"event_manager/model"
	"event_manager/utils"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func eventDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Venue").Preload("Category")
}

func listEvents(c *fiber.Ctx, query *gorm.DB, filter model.FilterEventInput) error {
	limit, page := utils.NormalizePagination(filter.Limit, filter.Page)

	if key := strings.TrimSpace(filter.SearchKey); key != "" {
		query = query.Where("LOWER(events.title) LIKE ?", utils.LikePattern(key))
	}
	if filter.CategoryId != 0 {
		query = query.Where("events.category_id = ?", filter.CategoryId)
	}
	if filter.VenueId != 0 {
		query = query.Where("events.venue_id = ?", filter.VenueId)
	}
	if filter.City != "" {
		query = query.Joins("JOIN venues ON venues.id = events.venue_id").
			Where("LOWER(venues.city) = ?", strings.ToLower(strings.TrimSpace(filter.City)))
	}
	if filter.From != "" {
		from, _ := time.Parse("2006-01-02", filter.From)
		query = query.Where("events.start_date >= ?", from)
	}
	if filter.To != "" {
		to, _ := time.Parse("2006-01-02", filter.To)
		query = query.Where("events.start_date < ?", to.AddDate(0, 0, 1))
	}
	if filter.Upcoming {
		query = query.Where("events.start_date > ?", time.Now())
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return utils.AppErrorResponse(c, err)
	}

	var events []model.Event
	err := eventDetails(utils.ApplyPagination(query, &limit, &page)).
		Order("events.start_date ASC").
		Find(&events).Error
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, &model.ResponseCustom{
		Rows:       events,
		Limit:      &limit,
		Page:       &page,
		TotalCount: total,
	})
}

func GetEvents(c *fiber.Ctx) error {
	filter, _ := c.Locals("filter").(model.FilterEventInput)
	query := database.DB.Model(&model.Event{}).
		Where("events.is_published = ? AND events.is_archived = ?", true, false)
	return listEvents(c, query, filter)
}

func GetMyEvents(c *fiber.Ctx) error {
	user, _ := helper.CurrentUser(c)
	filter, _ := c.Locals("filter").(model.FilterEventInput)
	query := database.DB.Model(&model.Event{}).Where("events.organizer_id = ?", user.ID)
	return listEvents(c, query, filter)
}

// GetEvent resolves :idOrSlug to a published event.
func GetEvent(c *fiber.Ctx) error {
	key := c.Params("idOrSlug")
	query := eventDetails(database.DB).Where("is_published = ?", true)
	if id, err := strconv.ParseUint(key, 10, 64); err == nil {
		query = query.Where("id = ?", id)
	} else {
		query = query.Where("slug = ?", key)
	}

	var event model.Event
	if err := query.First(&event).Error; err != nil {
		return utils.AppErrorResponse(c, notFound(err, constants.EVENT_NOT_FOUND))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, event)
}

func checkEventRefs(db *gorm.DB, venueId, categoryId uint) error {
	if venueId != 0 {
		var venue model.Venue
		if err := db.First(&venue, venueId).Error; err != nil {
			return notFound(err, constants.VENUE_NOT_FOUND)
		}
	}
	if categoryId != 0 {
		var category model.Category
		if err := db.First(&category, categoryId).Error; err != nil {
			return notFound(err, constants.CATEGORY_NOT_FOUND)
		}
	}
	return nil
}

func CreateEvent(c *fiber.Ctx) error {
	user, _ := helper.CurrentUser(c)
	input, ok := c.Locals("input").(model.CreateEventInput)
	if !ok || user == nil {
		return utils.AppErrorResponse(c, apperror.New(apperror.InvalidRequest, constants.ERROR_PARSE_DATA_TO_LOCALS))
	}
	db := database.DB

	if err := checkEventRefs(db, input.VenueId, input.CategoryId); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	var event model.Event
	err := copier.Copy(&event, &input)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	if event.Normal, err = input.NormalPrice.Tier(); err != nil {
		return utils.AppErrorResponse(c, err)
	}
	if event.Vip, err = input.VipPrice.Tier(); err != nil {
		return utils.AppErrorResponse(c, err)
	}
	event.OrganizerId = user.ID
	event.Slug = helper.GenerateUniqueSlug(db, &model.Event{}, event.Title, 0)

	if err := db.Create(&event).Error; err != nil {
		return utils.AppErrorResponse(c, apperror.Wrap(apperror.Internal, constants.ERROR_CREATE, err))
	}
	zap.L().Info("event created", zap.Uint("eventId", event.ID), zap.Uint("organizerId", user.ID))

	if err := eventDetails(db).First(&event, event.ID).Error; err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, event)
}

// loadManagedEvent loads the :id event for its organizer or an admin.
func loadManagedEvent(c *fiber.Ctx) (*model.Event, error) {
	user, _ := helper.CurrentUser(c)
	var event model.Event
	if err := database.DB.First(&event, inputId(c)).Error; err != nil {
		return nil, notFound(err, constants.EVENT_NOT_FOUND)
	}
	if !canManage(user, event.OrganizerId) {
		return nil, apperror.New(apperror.Forbidden, constants.NOT_PERMISSION)
	}
	return &event, nil
}

func publishSnapshot(ctx context.Context, db *gorm.DB, eventId uint) {
	var event model.Event
	if err := db.First(&event, eventId).Error; err != nil {
		return
	}
	if err := publisher.Publish(ctx, event.Snapshot()); err != nil {
		zap.L().Warn("inventory publish failed", zap.Uint("eventId", eventId), zap.Error(err))
	}
}

func UpdateEvent(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.UpdateEventInput)
	if !ok {
		return utils.AppErrorResponse(c, apperror.New(apperror.InvalidRequest, constants.ERROR_PARSE_DATA_TO_LOCALS))
	}
	event, err := loadManagedEvent(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	db := database.DB

	start, end := event.StartDate, event.EndDate
	if input.StartDate != nil {
		start = *input.StartDate
	}
	if input.EndDate != nil {
		end = *input.EndDate
	}
	if !end.After(start) {
		return utils.AppErrorResponse(c, apperror.New(apperror.InvalidRequest, "endDate must be after startDate").With("field", "endDate"))
	}

	var venueId, categoryId uint
	if input.VenueId != nil {
		venueId = *input.VenueId
	}
	if input.CategoryId != nil {
		categoryId = *input.CategoryId
	}
	if err := checkEventRefs(db, venueId, categoryId); err != nil {
		return utils.AppErrorResponse(c, err)
	}

	updates := map[string]interface{}{"start_date": start, "end_date": end}
	if input.Title != nil && *input.Title != event.Title {
		updates["title"] = *input.Title
		updates["slug"] = helper.GenerateUniqueSlug(db, &model.Event{}, *input.Title, event.ID)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if venueId != 0 {
		updates["venue_id"] = venueId
	}
	if categoryId != 0 {
		updates["category_id"] = categoryId
	}
	if input.IsPublished != nil {
		updates["is_published"] = *input.IsPublished
	}

	ledger := orderService.Ledger()
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Event{}).Where("id = ?", event.ID).Updates(updates).Error; err != nil {
			return err
		}
		if t := input.NormalPrice; t != nil {
			if err := ledger.Resize(tx, event.ID, constants.TICKET_NORMAL, *t.Price, *t.Quantity); err != nil {
				return err
			}
		}
		if t := input.VipPrice; t != nil {
			if err := ledger.Resize(tx, event.ID, constants.TICKET_VIP, *t.Price, *t.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	if input.NormalPrice != nil || input.VipPrice != nil {
		publishSnapshot(c.UserContext(), db, event.ID)
	}

	var updated model.Event
	if err := eventDetails(db).First(&updated, event.ID).Error; err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, updated)
}

// DeleteEvent refuses while the event has orders that still hold inventory.
func DeleteEvent(c *fiber.Ctx) error {
	event, err := loadManagedEvent(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	db := database.DB

	err = db.Transaction(func(tx *gorm.DB) error {
		// Reservations update the event row, so holding its lock keeps new orders out until commit.
		var locked model.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&locked, event.ID).Error; err != nil {
			return notFound(err, constants.EVENT_NOT_FOUND)
		}

		var live int64
		if err := tx.Model(&model.Order{}).
			Where("event_id = ? AND payment_status <> ?", event.ID, constants.PAYMENT_CANCELLED).
			Count(&live).Error; err != nil {
			return err
		}
		if live > 0 {
			return apperror.New(apperror.Conflict, "event has active orders").With("orders", live)
		}

		if err := tx.Where("event_id = ?", event.ID).Delete(&model.Ticket{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", event.ID).Delete(&model.Order{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Event{}, event.ID).Error
	})
	if err != nil {
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			return utils.AppErrorResponse(c, appErr)
		}
		return utils.AppErrorResponse(c, apperror.Wrap(apperror.Internal, constants.ERROR_DELETE, err))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": event.ID})
}

func UploadEventImage(c *fiber.Ctx) error {
	event, err := loadManagedEvent(c)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return utils.AppErrorResponse(c, apperror.Wrap(apperror.InvalidRequest, "image file is required", err).With("field", "image"))
	}
	if !strings.HasPrefix(fileHeader.Header.Get("Content-Type"), "image/") {
		return utils.AppErrorResponse(c, apperror.New(apperror.InvalidRequest, "file must be an image").With("field", "image"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	defer file.Close()

	url, err := helper.UploadEventImage(c.UserContext(), cld, event.ID, file)
	if err != nil {
		if errors.Is(err, helper.ErrCloudinaryDisabled) {
			return utils.AppErrorResponse(c, apperror.Wrap(apperror.Internal, "image upload is not configured", err))
		}
		return utils.AppErrorResponse(c, apperror.Wrap(apperror.Internal, "image upload failed", err))
	}

	if err := database.DB.Model(event).Update("image_url", url).Error; err != nil {
		return utils.AppErrorResponse(c, apperror.Wrap(apperror.Internal, constants.ERROR_EDIT, err))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": event.ID, "imageUrl": url})
}

func PublishEvent(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.PublishEventInput)
	if !ok {
		return utils.AppErrorResponse(c, apperror.New(apperror.InvalidRequest, constants.ERROR_PARSE_DATA_TO_LOCALS))
	}
	db := database.DB

	var event model.Event
	if err := db.First(&event, inputId(c)).Error; err != nil {
		return utils.AppErrorResponse(c, notFound(err, constants.EVENT_NOT_FOUND))
	}
	if err := db.Model(&event).Update("is_published", *input.IsPublished).Error; err != nil {
		return utils.AppErrorResponse(c, apperror.Wrap(apperror.Internal, constants.ERROR_EDIT, err))
	}
	event.IsPublished = *input.IsPublished
	return utils.SuccessResponse(c, fiber.StatusOK, event)
}
