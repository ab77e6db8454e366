package utils

import (
	"math"
	"time"

	"gorm.io/gorm"
)

type AttendanceReportItem struct {
	EventId        uint    `json:"eventId"`
	Title          string  `json:"title"`
	StartDate      string  `json:"startDate"`
	TotalTickets   int     `json:"totalTickets"`
	CheckInTickets int     `json:"checkInTickets"`
	NoShowTickets  int     `json:"noShowTickets"`
	NoShowRate     float64 `json:"noShowRate"`
	NoShowValue    float64 `json:"noShowValue"`
}

type AttendanceReportSummary struct {
	Events           int     `json:"events"`
	TotalTickets     int     `json:"totalTickets"`
	CheckInTickets   int     `json:"checkInTickets"`
	AverageNoShow    float64 `json:"averageNoShow"`
	TotalNoShowValue float64 `json:"totalNoShowValue"`
}

// CalculateAverage is the no-show rate weighted by tickets per event.
func CalculateAverage(report []AttendanceReportItem) float64 {
	var totalTickets, totalNoShow int64
	for _, r := range report {
		totalTickets += int64(r.TotalTickets)
		totalNoShow += int64(r.NoShowTickets)
	}
	if totalTickets == 0 {
		return 0
	}
	return roundFloat(float64(totalNoShow)/float64(totalTickets)*100, 2)
}

func CalculateTotalLoss(report []AttendanceReportItem) float64 {
	var total float64
	for _, r := range report {
		total += r.NoShowValue
	}
	return roundFloat(total, 2)
}

func roundFloat(val float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Round(val*p) / p
}

// GetAttendanceReport lists issued vs checked-in tickets for events starting
// in [from, to]. organizerId narrows the report to one organizer's events.
func GetAttendanceReport(db *gorm.DB, from, to time.Time, organizerId *uint) ([]AttendanceReportItem, *AttendanceReportSummary, error) {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	to = time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 999999999, to.Location())

	type row struct {
		EventId        uint
		Title          string
		StartDate      time.Time
		TotalTickets   int
		CheckInTickets int
		NoShowValue    float64
	}

	query := db.Table("events e").
		Select(`e.id AS event_id, e.title, e.start_date,
			COUNT(t.id) AS total_tickets,
			COALESCE(SUM(CASE WHEN t.is_used THEN 1 ELSE 0 END), 0) AS check_in_tickets,
			COALESCE(SUM(CASE WHEN t.is_used THEN 0 ELSE t.price END), 0) AS no_show_value`).
		Joins("LEFT JOIN tickets t ON t.event_id = e.id").
		Where("e.start_date BETWEEN ? AND ?", from, to).
		Group("e.id, e.title, e.start_date").
		Order("e.start_date ASC")
	if organizerId != nil {
		query = query.Where("e.organizer_id = ?", *organizerId)
	}

	var rows []row
	if err := query.Scan(&rows).Error; err != nil {
		return nil, nil, err
	}

	items := make([]AttendanceReportItem, 0, len(rows))
	summary := &AttendanceReportSummary{}
	for _, r := range rows {
		item := AttendanceReportItem{
			EventId:        r.EventId,
			Title:          r.Title,
			StartDate:      r.StartDate.Format("2006-01-02"),
			TotalTickets:   r.TotalTickets,
			CheckInTickets: r.CheckInTickets,
			NoShowTickets:  r.TotalTickets - r.CheckInTickets,
			NoShowValue:    roundFloat(r.NoShowValue, 2),
		}
		if item.TotalTickets > 0 {
			item.NoShowRate = roundFloat(float64(item.NoShowTickets)/float64(item.TotalTickets)*100, 2)
		}
		items = append(items, item)

		summary.Events++
		summary.TotalTickets += item.TotalTickets
		summary.CheckInTickets += item.CheckInTickets
	}
	summary.AverageNoShow = CalculateAverage(items)
	summary.TotalNoShowValue = CalculateTotalLoss(items)
	return items, summary, nil
}
