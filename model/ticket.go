package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Ticket struct {
	DTO
	UUID       string          `gorm:"column:uuid;size:36;uniqueIndex;not null" json:"uuid"`
	TicketCode string          `gorm:"size:20;uniqueIndex;not null" json:"ticketCode"`
	EventId    uint            `gorm:"index;not null" json:"eventId"`
	Event      *Event          `gorm:"foreignKey:EventId" json:"event,omitempty"`
	UserId     uint            `gorm:"index;not null" json:"userId"`
	User       *User           `gorm:"foreignKey:UserId" json:"user,omitempty"`
	OrderId    uint            `gorm:"index;not null" json:"orderId"`
	TicketType string          `gorm:"size:10;not null" json:"ticketType"`
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	QRCode     string          `gorm:"type:text" json:"qrCode,omitempty"`
	IsUsed     bool            `gorm:"not null;index" json:"isUsed"`
	UsedAt     *time.Time      `json:"usedAt,omitempty"`
}

// TicketQR is the payload stored on a ticket when it is issued.
type TicketQR struct {
	TicketId   string `json:"ticketId"`
	EventId    uint   `json:"eventId"`
	UserId     uint   `json:"userId"`
	TicketType string `json:"ticketType"`
	OrderId    uint   `json:"orderId"`
}

// DownloadQR is the payload printed on a downloaded ticket.
type DownloadQR struct {
	TicketId   string `json:"ticketId"`
	TicketCode string `json:"ticketCode"`
	EventId    uint   `json:"eventId"`
	UserId     uint   `json:"userId"`
	Timestamp  int64  `json:"timestamp"`
}

type FilterTicketInput struct {
	Pagination
	EventId uint   `query:"eventId"`
	Status  string `query:"status" validate:"omitempty,oneof=used unused"`
}
