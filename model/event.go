package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Event struct {
	DTO
	Title            string     `gorm:"size:200;not null" json:"title"`
	Slug             string     `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Description      string     `gorm:"type:text" json:"description"`
	ImageUrl         string     `gorm:"size:500" json:"imageUrl"`
	VenueId          uint       `gorm:"index;not null" json:"venueId"`
	Venue            *Venue     `gorm:"foreignKey:VenueId" json:"venue,omitempty"`
	CategoryId       uint       `gorm:"index;not null" json:"categoryId"`
	Category         *Category  `gorm:"foreignKey:CategoryId" json:"category,omitempty"`
	OrganizerId      uint       `gorm:"index;not null" json:"organizerId"`
	Organizer        *User      `gorm:"foreignKey:OrganizerId" json:"organizer,omitempty"`
	Normal           TicketTier `gorm:"embedded;embeddedPrefix:normal_" json:"normalPrice"`
	Vip              TicketTier `gorm:"embedded;embeddedPrefix:vip_" json:"vipPrice"`
	TotalTicketsSold int        `gorm:"not null;default:0" json:"totalTicketsSold"`
	StartDate        time.Time  `gorm:"not null;index" json:"startDate"`
	EndDate          time.Time  `gorm:"not null;index" json:"endDate"`
	IsPublished      bool       `gorm:"not null;index" json:"isPublished"`
	IsArchived       bool       `gorm:"not null" json:"isArchived"`
}

func (e *Event) HasEnded(now time.Time) bool {
	return e.EndDate.Before(now)
}

type TicketTierInput struct {
	Price    *decimal.Decimal `json:"price" validate:"required,gte=0"`
	Quantity *int             `json:"quantity" validate:"required,gte=0"`
}

type CreateEventInput struct {
	Title       string          `json:"title" validate:"required,min=3,max=200"`
	Description string          `json:"description" validate:"omitempty,max=10000"`
	VenueId     uint            `json:"venueId" validate:"required"`
	CategoryId  uint            `json:"categoryId" validate:"required"`
	NormalPrice TicketTierInput `json:"normalPrice" validate:"required"`
	VipPrice    TicketTierInput `json:"vipPrice" validate:"required"`
	StartDate   time.Time       `json:"startDate" validate:"required"`
	EndDate     time.Time       `json:"endDate" validate:"required,gtfield=StartDate"`
	IsPublished bool            `json:"isPublished"`
}

type UpdateEventInput struct {
	Title       *string          `json:"title" validate:"omitempty,min=3,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=10000"`
	VenueId     *uint            `json:"venueId" validate:"omitempty,gt=0"`
	CategoryId  *uint            `json:"categoryId" validate:"omitempty,gt=0"`
	NormalPrice *TicketTierInput `json:"normalPrice" validate:"omitempty"`
	VipPrice    *TicketTierInput `json:"vipPrice" validate:"omitempty"`
	StartDate   *time.Time       `json:"startDate"`
	EndDate     *time.Time       `json:"endDate"`
	IsPublished *bool            `json:"isPublished"`
}

type PublishEventInput struct {
	IsPublished *bool `json:"isPublished" validate:"required"`
}

type FilterEventInput struct {
	Pagination
	SearchKey  string `query:"searchKey"`
	CategoryId uint   `query:"categoryId"`
	VenueId    uint   `query:"venueId"`
	City       string `query:"city"`
	From       string `query:"from"`
	To         string `query:"to"`
	Upcoming   bool   `query:"upcoming"`
}
