package service

import (
	"archive/zip"
	"bytes"
	_ "embed"
	"event_manager/model"
	"event_manager/utils"
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

const (
	qrSize     = 50.0
	fontFamily = "DejaVu"
)

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	fontRegular []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	fontBold []byte
)

// Renderer produces printable ticket documents.
type Renderer struct {
	Now func() time.Time
	qr  func(content string, size int) ([]byte, error)
}

func NewRenderer() *Renderer {
	return &Renderer{Now: time.Now, qr: utils.GenerateQRCode}
}

// RenderTicket writes a one-page PDF for ticket in the embedded UTF-8 font. The ticket's Event
// (with Venue) and User should be loaded. A QR failure leaves a placeholder instead of aborting.
func (r *Renderer) RenderTicket(w io.Writer, ticket *model.Ticket) error {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetCompression(false)
	pdf.SetTitle("Ticket "+ticket.TicketCode, true)
	pdf.SetCreator("event_manager", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddUTF8FontFromBytes(fontFamily, "", fontRegular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", fontBold)
	pdf.AddPage()

	title, venue, when := "Event", "", ""
	if ticket.Event != nil {
		title = ticket.Event.Title
		when = ticket.Event.StartDate.Format("Mon, 02 Jan 2006 15:04")
		if ticket.Event.Venue != nil {
			venue = ticket.Event.Venue.Name
			if ticket.Event.Venue.City != "" {
				venue += ", " + ticket.Event.Venue.City
			}
		}
	}
	attendee := ""
	if ticket.User != nil {
		attendee = ticket.User.Name
	}

	pdf.SetFillColor(33, 37, 41)
	pdf.Rect(0, 0, 148, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont(fontFamily, "B", 18)
	pdf.SetXY(10, 9)
	pdf.CellFormat(128, 10, title, "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(10, 36)
	rows := [][2]string{
		{"Venue", venue},
		{"Date", when},
		{"Ticket", ticket.TicketCode},
		{"Type", ticket.TicketType},
		{"Price", ticket.Price.StringFixed(2)},
		{"Attendee", attendee},
	}
	for _, row := range rows {
		pdf.SetX(10)
		pdf.SetFont(fontFamily, "B", 11)
		pdf.CellFormat(28, 8, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 11)
		pdf.CellFormat(100, 8, row[1], "", 1, "L", false, 0, "")
	}

	x, y := (148-qrSize)/2, 96.0
	r.drawQR(pdf, ticket, x, y)

	pdf.SetFont(fontFamily, "", 8)
	pdf.SetXY(10, 190)
	pdf.CellFormat(128, 5, "Present this ticket at the entrance. Each code is valid for one admission.", "", 0, "C", false, 0, "")

	return pdf.Output(w)
}

func (r *Renderer) drawQR(pdf *fpdf.Fpdf, ticket *model.Ticket, x, y float64) {
	payload, err := utils.QRPayload(model.DownloadQR{
		TicketId:   ticket.UUID,
		TicketCode: ticket.TicketCode,
		EventId:    ticket.EventId,
		UserId:     ticket.UserId,
		Timestamp:  r.Now().UnixMilli(),
	})
	var png []byte
	if err == nil {
		png, err = r.qr(payload, 256)
	}
	if err != nil {
		zap.L().Warn("qr generation failed, using placeholder", zap.String("ticketCode", ticket.TicketCode), zap.Error(err))
		pdf.SetFillColor(200, 200, 200)
		pdf.Rect(x, y, qrSize, qrSize, "F")
		pdf.SetFont(fontFamily, "", 9)
		pdf.SetXY(x, y+qrSize/2-3)
		pdf.CellFormat(qrSize, 6, "QR unavailable", "", 0, "C", false, 0, "")
		return
	}

	name := "qr-" + ticket.TicketCode
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	pdf.ImageOptions(name, x, y, qrSize, qrSize, false, opts, 0, "")
}

// RenderOrderArchive streams a zip with one ticket-<code>.pdf entry per ticket.
func (r *Renderer) RenderOrderArchive(w io.Writer, tickets []model.Ticket) error {
	zw := zip.NewWriter(w)
	for i := range tickets {
		entry, err := zw.Create(fmt.Sprintf("ticket-%s.pdf", tickets[i].TicketCode))
		if err != nil {
			return err
		}
		if err := r.RenderTicket(entry, &tickets[i]); err != nil {
			return fmt.Errorf("render %s: %w", tickets[i].TicketCode, err)
		}
	}
	return zw.Close()
}
