package service

import (
	"context"
	"errors"
	"event_manager/apperror"
	"event_manager/constants"
	"event_manager/model"
	"event_manager/monitoring"
	"event_manager/utils"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderService runs the purchase and cancellation workflow.
type OrderService struct {
	db        *gorm.DB
	ledger    *Ledger
	issuer    *Issuer
	notifier  Notifier
	publisher InventoryPublisher
	validate  *validator.Validate

	// Now is the clock used for event-end and cancellation-window checks.
	Now func() time.Time
	// Dispatch runs post-commit side effects.
	Dispatch func(func())
}

func NewOrderService(db *gorm.DB, notifier Notifier, publisher InventoryPublisher) *OrderService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &OrderService{
		db:        db,
		ledger:    NewLedger(),
		issuer:    NewIssuer(),
		notifier:  notifier,
		publisher: publisher,
		validate:  utils.NewValidator(),
		Now:       time.Now,
		Dispatch:  func(f func()) { go f() },
	}
}

func (s *OrderService) Ledger() *Ledger {
	return s.ledger
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.New(apperror.NotFound, message)
	}
	return apperror.Wrap(apperror.Internal, "database error", err)
}

// asAppError keeps taxonomy errors and wraps everything else as INTERNAL.
func asAppError(err error, message string) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.Wrap(apperror.Internal, message, err)
}

func summarize(order *model.Order, event *model.Event) *model.OrderSummary {
	summary := &model.OrderSummary{
		Id:            order.ID,
		OrderNumber:   order.OrderNumber,
		EventId:       order.EventId,
		TicketType:    order.TicketType,
		Quantity:      order.Quantity,
		Price:         order.Price,
		TotalAmount:   order.TotalAmount,
		PaymentStatus: order.PaymentStatus,
		CreatedAt:     order.CreatedAt,
		Tickets:       make([]model.TicketSummary, 0, len(order.Tickets)),
	}
	if event != nil {
		summary.EventTitle = event.Title
	}
	for _, t := range order.Tickets {
		summary.Tickets = append(summary.Tickets, model.TicketSummary{
			Id:         t.ID,
			TicketCode: t.TicketCode,
			TicketType: t.TicketType,
			Price:      t.Price,
		})
	}
	return summary
}

// CreateOrder reserves inventory, records a pending order and mints its tickets in one transaction.
func (s *OrderService) CreateOrder(ctx context.Context, userId uint, input model.CreateOrderInput) (*model.OrderSummary, error) {
	defer monitoring.ObserveDuration("create")()

	summary, err := s.createOrder(ctx, userId, input)
	if err != nil {
		kind := apperror.KindOf(err)
		if kind == apperror.InsufficientInventory {
			monitoring.RecordInventoryRejection(input.TicketType)
		}
		monitoring.RecordOrder("create", input.TicketType, string(kind))
		return nil, err
	}
	monitoring.RecordOrder("create", input.TicketType, "ok")
	monitoring.RecordTicketsIssued(input.TicketType, len(summary.Tickets))
	return summary, nil
}

func (s *OrderService) createOrder(ctx context.Context, userId uint, input model.CreateOrderInput) (*model.OrderSummary, error) {
	if userId == 0 {
		return nil, apperror.New(apperror.InvalidRequest, "userId is required")
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, apperror.Wrap(apperror.InvalidRequest, fmt.Sprintf("%s is missing or invalid", utils.FirstInvalidField(err)), err)
	}

	db := s.db.WithContext(ctx)

	var event model.Event
	if err := db.First(&event, input.EventId).Error; err != nil {
		return nil, notFoundOr(err, constants.EVENT_NOT_FOUND)
	}

	now := s.Now()
	if event.HasEnded(now) {
		return nil, apperror.New(apperror.EventEnded, "event has already ended")
	}

	var order model.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		// The price is read from the row the reservation just updated.
		tier, err := s.ledger.Reserve(tx, event.ID, input.TicketType, input.Quantity)
		if err != nil {
			return err
		}

		number, err := utils.UniqueCode(tx, &model.Order{}, "order_number", func() (string, error) {
			return utils.OrderNumber(now)
		})
		if err != nil {
			return apperror.Wrap(apperror.Internal, "could not generate order number", err)
		}

		order = model.Order{
			OrderNumber:   number,
			UserId:        userId,
			EventId:       event.ID,
			TicketType:    input.TicketType,
			Price:         tier.Price,
			Quantity:      input.Quantity,
			TotalAmount:   *input.TotalAmount,
			PaymentStatus: constants.PAYMENT_PENDING,
		}
		if err := tx.Create(&order).Error; err != nil {
			return apperror.Wrap(apperror.Internal, "could not create order", err)
		}

		tickets, err := s.issuer.MintForOrder(tx, &event, &order)
		if err != nil {
			return err
		}
		order.Tickets = tickets
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "could not create order")
	}

	zap.L().Info("order created",
		zap.String("orderNumber", order.OrderNumber),
		zap.Uint("eventId", event.ID),
		zap.String("ticketType", order.TicketType),
		zap.Int("quantity", order.Quantity))

	s.afterCommit(order, false)
	return summarize(&order, &event), nil
}

// CancelOrder cancels the caller's order, releases its inventory and deletes its tickets.
func (s *OrderService) CancelOrder(ctx context.Context, orderId, userId uint) (*model.CancelOrderResult, error) {
	defer monitoring.ObserveDuration("cancel")()

	result, err := s.cancelOrder(ctx, orderId, userId)
	if err != nil {
		monitoring.RecordOrder("cancel", "", string(apperror.KindOf(err)))
		return nil, err
	}
	monitoring.RecordOrder("cancel", result.TicketType, "ok")
	return result, nil
}

func (s *OrderService) cancelOrder(ctx context.Context, orderId, userId uint) (*model.CancelOrderResult, error) {
	db := s.db.WithContext(ctx)

	var order model.Order
	if err := db.Preload("Event").First(&order, orderId).Error; err != nil {
		return nil, notFoundOr(err, constants.ORDER_NOT_FOUND)
	}
	if order.UserId != userId {
		return nil, apperror.New(apperror.Forbidden, "only the owner can cancel this order")
	}
	if err := checkCancellable(order.PaymentStatus); err != nil {
		return nil, err
	}
	if order.Event == nil {
		return nil, apperror.New(apperror.NotFound, constants.EVENT_NOT_FOUND)
	}

	now := s.Now()
	window := time.Duration(constants.CANCELLATION_WINDOW_HOURS) * time.Hour
	if order.Event.StartDate.Sub(now) < window {
		return nil, apperror.New(apperror.CancellationWindowClosed,
			fmt.Sprintf("orders can only be cancelled more than %d hours before the event", constants.CANCELLATION_WINDOW_HOURS))
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Order{}).
			Where("id = ? AND payment_status IN ?", order.ID, constants.CancellableStatuses).
			Updates(map[string]interface{}{
				"payment_status": constants.PAYMENT_CANCELLED,
				"cancelled_at":   now,
			})
		if res.Error != nil {
			return apperror.Wrap(apperror.Internal, "could not cancel order", res.Error)
		}
		if res.RowsAffected == 0 {
			var status []string
			if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).Pluck("payment_status", &status).Error; err != nil {
				return apperror.Wrap(apperror.Internal, "could not cancel order", err)
			}
			if len(status) == 0 {
				return apperror.New(apperror.NotFound, constants.ORDER_NOT_FOUND)
			}
			if err := checkCancellable(status[0]); err != nil {
				return err
			}
			return apperror.New(apperror.Conflict, "order status changed concurrently")
		}

		if err := s.ledger.Release(tx, order.EventId, order.TicketType, order.Quantity); err != nil {
			return err
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&model.Ticket{}).Error; err != nil {
			return apperror.Wrap(apperror.Internal, "could not delete tickets", err)
		}
		return nil
	})
	if err != nil {
		return nil, asAppError(err, "could not cancel order")
	}

	order.PaymentStatus = constants.PAYMENT_CANCELLED
	order.CancelledAt = &now
	order.Tickets = nil

	zap.L().Info("order cancelled",
		zap.String("orderNumber", order.OrderNumber),
		zap.Int("released", order.Quantity))

	s.afterCommit(order, true)
	return &model.CancelOrderResult{
		OrderId:          order.ID,
		OrderNumber:      order.OrderNumber,
		PaymentStatus:    order.PaymentStatus,
		ReleasedQuantity: order.Quantity,
		TicketType:       order.TicketType,
		CancelledAt:      now,
	}, nil
}

// checkCancellable allows only pending and paid orders to be cancelled.
func checkCancellable(status string) error {
	if status == constants.PAYMENT_CANCELLED {
		return apperror.New(apperror.AlreadyCancelled, "order is already cancelled")
	}
	if !utils.IsValidValueOfConstant(status, constants.CancellableStatuses) {
		return apperror.New(apperror.InvalidRequest, fmt.Sprintf("a %s order cannot be cancelled", status))
	}
	return nil
}

// afterCommit publishes the event's inventory and notifies the buyer. Failures are only logged.
func (s *OrderService) afterCommit(order model.Order, cancelled bool) {
	s.Dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		db := s.db.WithContext(ctx)

		var event model.Event
		if err := db.Preload("Venue").First(&event, order.EventId).Error; err != nil {
			zap.L().Warn("reload event after commit", zap.Uint("eventId", order.EventId), zap.Error(err))
			return
		}
		if err := s.publisher.Publish(ctx, event.Snapshot()); err != nil {
			monitoring.RecordSideEffectFailure("publish")
			zap.L().Warn("publish inventory", zap.Uint("eventId", event.ID), zap.Error(err))
		}

		var user model.User
		if err := db.First(&user, order.UserId).Error; err != nil {
			zap.L().Warn("load user for notification", zap.Uint("userId", order.UserId), zap.Error(err))
			return
		}

		notice := OrderNotice{User: user, Event: event, Order: order}
		var err error
		if cancelled {
			err = s.notifier.OrderCancelled(ctx, notice)
		} else {
			err = s.notifier.OrderConfirmed(ctx, notice)
		}
		if err != nil {
			monitoring.RecordSideEffectFailure("mail")
			zap.L().Warn("order notification failed",
				zap.String("orderNumber", order.OrderNumber),
				zap.Bool("cancelled", cancelled),
				zap.Error(err))
		}
	})
}

// UpdatePaymentStatus moves a pending order to paid or failed. Setting the current status is a no-op.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderId uint, status string) (*model.Order, error) {
	if !utils.IsValidValueOfConstant(status, constants.PaymentStatuses) {
		return nil, apperror.New(apperror.InvalidRequest, fmt.Sprintf("unknown payment status %q", status))
	}

	db := s.db.WithContext(ctx)

	var order model.Order
	if err := db.First(&order, orderId).Error; err != nil {
		return nil, notFoundOr(err, constants.ORDER_NOT_FOUND)
	}
	if order.PaymentStatus == constants.PAYMENT_CANCELLED {
		return nil, apperror.New(apperror.AlreadyCancelled, "order is already cancelled")
	}
	if order.PaymentStatus == status {
		return &order, nil
	}
	if order.PaymentStatus != constants.PAYMENT_PENDING || !utils.IsValidValueOfConstant(status, []string{constants.PAYMENT_PAID, constants.PAYMENT_FAILED}) {
		return nil, apperror.New(apperror.InvalidRequest,
			fmt.Sprintf("cannot change payment status from %s to %s", order.PaymentStatus, status))
	}

	res := db.Model(&model.Order{}).
		Where("id = ? AND payment_status = ?", order.ID, constants.PAYMENT_PENDING).
		Update("payment_status", status)
	if res.Error != nil {
		return nil, apperror.Wrap(apperror.Internal, "could not update payment status", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperror.New(apperror.Conflict, "order status changed concurrently")
	}

	order.PaymentStatus = status
	monitoring.RecordOrder("status", order.TicketType, status)
	zap.L().Info("payment status updated", zap.String("orderNumber", order.OrderNumber), zap.String("status", status))
	return &order, nil
}

// PurgeOrder hard deletes an order and its tickets, releasing inventory unless the order was cancelled.
func (s *OrderService) PurgeOrder(ctx context.Context, orderId uint) error {
	var order model.Order
	var released bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderId).Error; err != nil {
			return notFoundOr(err, constants.ORDER_NOT_FOUND)
		}

		res := tx.Model(&model.Order{}).
			Where("id = ? AND payment_status <> ?", order.ID, constants.PAYMENT_CANCELLED).
			Update("payment_status", constants.PAYMENT_CANCELLED)
		if res.Error != nil {
			return apperror.Wrap(apperror.Internal, "could not purge order", res.Error)
		}
		if res.RowsAffected == 1 {
			if err := s.ledger.Release(tx, order.EventId, order.TicketType, order.Quantity); err != nil {
				return err
			}
			released = true
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&model.Ticket{}).Error; err != nil {
			return apperror.Wrap(apperror.Internal, "could not delete tickets", err)
		}
		if err := tx.Delete(&model.Order{}, order.ID).Error; err != nil {
			return apperror.Wrap(apperror.Internal, "could not delete order", err)
		}
		return nil
	})
	if err != nil {
		return asAppError(err, "could not purge order")
	}

	zap.L().Info("order purged", zap.String("orderNumber", order.OrderNumber), zap.Bool("released", released))
	if released {
		s.Dispatch(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			var event model.Event
			if err := s.db.WithContext(ctx).First(&event, order.EventId).Error; err != nil {
				return
			}
			if err := s.publisher.Publish(ctx, event.Snapshot()); err != nil {
				monitoring.RecordSideEffectFailure("publish")
				zap.L().Warn("publish inventory", zap.Uint("eventId", event.ID), zap.Error(err))
			}
		})
	}
	return nil
}

func orderDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Event").
		Preload("Event.Venue").
		Preload("Event.Category").
		Preload("Tickets", func(db *gorm.DB) *gorm.DB {
			return db.Order("tickets.id ASC")
		})
}

// GetOrder returns an order to its owner or to an admin.
func (s *OrderService) GetOrder(ctx context.Context, orderId uint, requester model.TokenClaim) (*model.Order, error) {
	var order model.Order
	if err := orderDetails(s.db.WithContext(ctx)).First(&order, orderId).Error; err != nil {
		return nil, notFoundOr(err, constants.ORDER_NOT_FOUND)
	}
	if order.UserId != requester.UserId && requester.Role != constants.ROLE_ADMIN {
		return nil, apperror.New(apperror.Forbidden, constants.NOT_PERMISSION)
	}
	return &order, nil
}

// ListUserOrders returns the user's orders, newest first, with event, venue, category and tickets.
func (s *OrderService) ListUserOrders(ctx context.Context, userId uint, page model.Pagination) (*model.ResponseCustom, error) {
	limit, p := utils.NormalizePagination(page.Limit, page.Page)
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&model.Order{}).Where("user_id = ?", userId).Count(&total).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, "could not count orders", err)
	}

	var orders []model.Order
	err := utils.ApplyPagination(orderDetails(db).Where("user_id = ?", userId), &limit, &p).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "could not list orders", err)
	}

	return &model.ResponseCustom{Rows: orders, Limit: &limit, Page: &p, TotalCount: total}, nil
}

// ListOrders is the admin view over all orders.
func (s *OrderService) ListOrders(ctx context.Context, filter model.FilterOrderInput) (*model.ResponseCustom, error) {
	limit, p := utils.NormalizePagination(filter.Limit, filter.Page)

	query := s.db.WithContext(ctx).Model(&model.Order{})
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}
	if filter.EventId != 0 {
		query = query.Where("event_id = ?", filter.EventId)
	}
	if filter.UserId != 0 {
		query = query.Where("user_id = ?", filter.UserId)
	}
	if filter.SearchKey != "" {
		query = query.Where("LOWER(order_number) LIKE ?", utils.LikePattern(filter.SearchKey))
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, apperror.Wrap(apperror.Internal, "could not count orders", err)
	}

	var orders []model.Order
	err := utils.ApplyPagination(query, &limit, &p).
		Preload("User").
		Preload("Event").
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, apperror.Wrap(apperror.Internal, "could not list orders", err)
	}

	return &model.ResponseCustom{Rows: orders, Limit: &limit, Page: &p, TotalCount: total}, nil
}
