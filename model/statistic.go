package model

import "github.com/shopspring/decimal"

type AdminStatistics struct {
	TotalUsers       int64            `json:"totalUsers"`
	TotalOrganizers  int64            `json:"totalOrganizers"`
	TotalEvents      int64            `json:"totalEvents"`
	PublishedEvents  int64            `json:"publishedEvents"`
	UpcomingEvents   int64            `json:"upcomingEvents"`
	TotalOrders      int64            `json:"totalOrders"`
	OrdersByStatus   map[string]int64 `json:"ordersByStatus"`
	TicketsIssued    int64            `json:"ticketsIssued"`
	TicketsCheckedIn int64            `json:"ticketsCheckedIn"`
	Revenue          decimal.Decimal  `json:"revenue"`
	RevenueThisMonth decimal.Decimal  `json:"revenueThisMonth"`
	RevenueGrowth    float64          `json:"revenueGrowth"`
	TopEvents        []TopEvent       `json:"topEvents"`
}

type TopEvent struct {
	EventId     uint   `json:"eventId"`
	Title       string `json:"title"`
	TicketsSold int    `json:"ticketsSold"`
}
