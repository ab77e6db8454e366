package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	DTO
	OrderNumber   string          `gorm:"size:32;uniqueIndex;not null" json:"orderNumber"`
	UserId        uint            `gorm:"index;not null" json:"userId"`
	User          *User           `gorm:"foreignKey:UserId" json:"user,omitempty"`
	EventId       uint            `gorm:"index;not null" json:"eventId"`
	Event         *Event          `gorm:"foreignKey:EventId" json:"event,omitempty"`
	TicketType    string          `gorm:"size:10;not null" json:"ticketType"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"totalAmount"`
	PaymentStatus string          `gorm:"size:20;not null;index" json:"paymentStatus"`
	CancelledAt   *time.Time      `json:"cancelledAt,omitempty"`
	Tickets       []Ticket        `gorm:"foreignKey:OrderId;constraint:OnDelete:CASCADE" json:"tickets,omitempty"`
}

type CreateOrderInput struct {
	EventId     uint             `json:"eventId" validate:"required"`
	TicketType  string           `json:"ticketType" validate:"required,oneof=normal vip"`
	Quantity    int              `json:"quantity" validate:"required,gt=0"`
	TotalAmount *decimal.Decimal `json:"totalAmount" validate:"required,gte=0"`
}

type UpdatePaymentStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending paid failed cancelled"`
}

type FilterOrderInput struct {
	Pagination
	SearchKey     string `query:"searchKey"`
	PaymentStatus string `query:"paymentStatus" validate:"omitempty,oneof=pending paid failed cancelled"`
	EventId       uint   `query:"eventId"`
	UserId        uint   `query:"userId"`
}

// TicketSummary is the public part of a ticket returned right after purchase.
type TicketSummary struct {
	Id         uint            `json:"id"`
	TicketCode string          `json:"ticketCode"`
	TicketType string          `json:"ticketType"`
	Price      decimal.Decimal `json:"price"`
}

type OrderSummary struct {
	Id            uint            `json:"id"`
	OrderNumber   string          `json:"orderNumber"`
	EventId       uint            `json:"eventId"`
	EventTitle    string          `json:"eventTitle"`
	TicketType    string          `json:"ticketType"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaymentStatus string          `json:"paymentStatus"`
	CreatedAt     time.Time       `json:"createdAt"`
	Tickets       []TicketSummary `json:"tickets"`
}

type CancelOrderResult struct {
	OrderId          uint      `json:"orderId"`
	OrderNumber      string    `json:"orderNumber"`
	PaymentStatus    string    `json:"paymentStatus"`
	ReleasedQuantity int       `json:"releasedQuantity"`
	TicketType       string    `json:"ticketType"`
	CancelledAt      time.Time `json:"cancelledAt"`
}
