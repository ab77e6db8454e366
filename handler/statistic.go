package handler

import (
	"event_manager/apperror"
	"event_manager/constants"
	"event_manager/database"
	"event_manager/helper"
	"event_manager/model"
	"event_manager/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func paidRevenue(db *gorm.DB, from, to *time.Time) (decimal.Decimal, error) {
	query := db.Model(&model.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("payment_status = ?", constants.PAYMENT_PAID)
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at < ?", *to)
	}

	var revenue decimal.Decimal
	if err := query.Row().Scan(&revenue); err != nil {
		return decimal.Zero, err
	}
	return revenue, nil
}

// GetAdminStatistics aggregates the platform. ?month=MM-YYYY picks the
// month compared against the one before it; it defaults to the current month.
func GetAdminStatistics(c *fiber.Ctx) error {
	db := database.DB
	now := time.Now()

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if month, _ := c.Locals("inputMonth").(string); month != "" {
		parsed, err := time.ParseInLocation("01-2006", month, now.Location())
		if err != nil {
			return utils.AppErrorResponse(c, apperror.Wrap(apperror.InvalidRequest, "month must be MM-YYYY", err))
		}
		monthStart = parsed
	}
	monthEnd := monthStart.AddDate(0, 1, 0)
	prevStart := monthStart.AddDate(0, -1, 0)

	stats := model.AdminStatistics{OrdersByStatus: map[string]int64{}}

	db.Model(&model.User{}).Count(&stats.TotalUsers)
	db.Model(&model.User{}).Where("role = ?", constants.ROLE_ORGANIZER).Count(&stats.TotalOrganizers)
	db.Model(&model.Event{}).Count(&stats.TotalEvents)
	db.Model(&model.Event{}).Where("is_published = ?", true).Count(&stats.PublishedEvents)
	db.Model(&model.Event{}).Where("start_date > ?", now).Count(&stats.UpcomingEvents)
	db.Model(&model.Ticket{}).Count(&stats.TicketsIssued)
	db.Model(&model.Ticket{}).Where("is_used = ?", true).Count(&stats.TicketsCheckedIn)

	var byStatus []struct {
		PaymentStatus string
		Total         int64
	}
	if err := db.Model(&model.Order{}).
		Select("payment_status, COUNT(*) AS total").
		Group("payment_status").
		Scan(&byStatus).Error; err != nil {
		return utils.AppErrorResponse(c, err)
	}
	for _, s := range byStatus {
		stats.OrdersByStatus[s.PaymentStatus] = s.Total
		stats.TotalOrders += s.Total
	}

	var err error
	if stats.Revenue, err = paidRevenue(db, nil, nil); err != nil {
		return utils.AppErrorResponse(c, err)
	}
	if stats.RevenueThisMonth, err = paidRevenue(db, &monthStart, &monthEnd); err != nil {
		return utils.AppErrorResponse(c, err)
	}
	previous, err := paidRevenue(db, &prevStart, &monthStart)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	stats.RevenueGrowth = utils.CalculateGrowth(stats.RevenueThisMonth.InexactFloat64(), previous.InexactFloat64())

	if err := db.Model(&model.Event{}).
		Select("id AS event_id, title, total_tickets_sold AS tickets_sold").
		Order("total_tickets_sold DESC, id ASC").
		Limit(5).
		Scan(&stats.TopEvents).Error; err != nil {
		return utils.AppErrorResponse(c, err)
	}
	if stats.TopEvents == nil {
		stats.TopEvents = []model.TopEvent{}
	}

	return utils.SuccessResponse(c, fiber.StatusOK, stats)
}

// GetAttendanceReport compares issued and checked-in tickets per event over
// ?from=YYYY-MM-DD&to=YYYY-MM-DD (last 30 days by default). Organizers only
// see their own events.
func GetAttendanceReport(c *fiber.Ctx) error {
	user, _ := helper.CurrentUser(c)
	now := time.Now()
	from, to := now.AddDate(0, 0, -30), now

	for key, target := range map[string]*time.Time{"from": &from, "to": &to} {
		v := c.Query(key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseInLocation("2006-01-02", v, now.Location())
		if err != nil {
			return utils.AppErrorResponse(c, apperror.Wrap(apperror.InvalidRequest, key+" must be YYYY-MM-DD", err).With("field", key))
		}
		*target = parsed
	}
	if to.Before(from) {
		return utils.AppErrorResponse(c, apperror.New(apperror.InvalidRequest, "to must not be before from"))
	}

	var organizerId *uint
	if user.Role != constants.ROLE_ADMIN {
		organizerId = &user.ID
	}

	items, summary, err := utils.GetAttendanceReport(database.DB, from, to, organizerId)
	if err != nil {
		return utils.AppErrorResponse(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"from":    from.Format("2006-01-02"),
		"to":      to.Format("2006-01-02"),
		"items":   items,
		"summary": summary,
	})
}
