package service

import (
	"context"
	"event_manager/apperror"
	"event_manager/constants"
	"event_manager/model"
	"event_manager/monitoring"
	"event_manager/utils"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TicketService serves ticket lookups for their owners and door check-in.
type TicketService struct {
	db  *gorm.DB
	Now func() time.Time
}

func NewTicketService(db *gorm.DB) *TicketService {
	return &TicketService{db: db, Now: time.Now}
}

func ticketDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Event").Preload("Event.Venue").Preload("User")
}

func (s *TicketService) ListUserTickets(ctx context.Context, userId uint, filter model.FilterTicketInput) (*model.ResponseCustom, error) {
	limit, p := utils.NormalizePagination(filter.Limit, filter.Page)

	query := s.db.WithContext(ctx).Model(&model.Ticket{}).Where("user_id = ?", userId)
	if filter.EventId != 0 {
		query = query.Where("event_id = ?", filter.EventId)
	}
	switch filter.Status {
	case "used":
		query = query.Where("is_used = ?", true)
	case "unused":
		query = query.Where("is_used = ?", false)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, "could not count tickets", err)
	}

	var tickets []model.Ticket
	err := utils.ApplyPagination(query, &limit, &p).
		Preload("Event").
		Preload("Event.Venue").
		Order("id DESC").
		Find(&tickets).Error
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "could not list tickets", err)
	}
	return &model.ResponseCustom{Rows: tickets, Limit: &limit, Page: &p, TotalCount: total}, nil
}

// OwnedTicket loads a ticket with its event, venue and holder, for its owner only.
func (s *TicketService) OwnedTicket(ctx context.Context, ticketId, userId uint) (*model.Ticket, error) {
	var ticket model.Ticket
	if err := ticketDetails(s.db.WithContext(ctx)).First(&ticket, ticketId).Error; err != nil {
		return nil, notFoundOr(err, constants.TICKET_NOT_FOUND)
	}
	if ticket.UserId != userId {
		return nil, apperror.New(apperror.Forbidden, "only the ticket holder can download this ticket")
	}
	return &ticket, nil
}

// OwnedOrderTickets loads every ticket of the owner's order, ordered by id.
func (s *TicketService) OwnedOrderTickets(ctx context.Context, orderId, userId uint) (*model.Order, []model.Ticket, error) {
	db := s.db.WithContext(ctx)

	var order model.Order
	if err := db.First(&order, orderId).Error; err != nil {
		return nil, nil, notFoundOr(err, constants.ORDER_NOT_FOUND)
	}
	if order.UserId != userId {
		return nil, nil, apperror.New(apperror.Forbidden, "only the order owner can download these tickets")
	}

	var tickets []model.Ticket
	if err := ticketDetails(db).Where("order_id = ?", order.ID).Order("id ASC").Find(&tickets).Error; err != nil {
		return nil, nil, apperror.Wrap(apperror.Internal, "could not load tickets", err)
	}
	if len(tickets) == 0 {
		return nil, nil, apperror.New(apperror.NotFound, "order has no tickets")
	}
	return &order, tickets, nil
}

// CheckIn redeems a ticket by code. Organizers may only redeem tickets for their own events.
func (s *TicketService) CheckIn(ctx context.Context, code string, requester model.TokenClaim) (*model.Ticket, error) {
	db := s.db.WithContext(ctx)

	var ticket model.Ticket
	if err := db.Preload("Event").Where("ticket_code = ?", code).First(&ticket).Error; err != nil {
		return nil, notFoundOr(err, constants.TICKET_NOT_FOUND)
	}

	switch requester.Role {
	case constants.ROLE_ADMIN:
	case constants.ROLE_ORGANIZER:
		if ticket.Event == nil || ticket.Event.OrganizerId != requester.UserId {
			return nil, apperror.New(apperror.Forbidden, constants.NOT_PERMISSION)
		}
	default:
		return nil, apperror.New(apperror.Forbidden, constants.NOT_PERMISSION)
	}

	now := s.Now()
	res := db.Model(&model.Ticket{}).
		Where("id = ? AND is_used = ?", ticket.ID, false).
		Updates(map[string]interface{}{"is_used": true, "used_at": now})
	if res.Error != nil {
		return nil, apperror.Wrap(apperror.Internal, "could not check in ticket", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperror.New(apperror.Conflict, "ticket has already been used")
	}

	ticket.IsUsed = true
	ticket.UsedAt = &now
	monitoring.RecordCheckIn()
	zap.L().Info("ticket checked in", zap.String("ticketCode", ticket.TicketCode), zap.Uint("by", requester.UserId))
	return &ticket, nil
}
