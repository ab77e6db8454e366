package service

import (
	"archive/zip"
	"bytes"
	"errors"
	"event_manager/model"
	"io"
	"strings"
	"testing"
	"time"
	"unicode/utf16"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTicket(code string) model.Ticket {
	return model.Ticket{
		DTO:        model.DTO{ID: 7},
		UUID:       "3f1c2d4e-0000-4000-8000-000000000001",
		TicketCode: code,
		EventId:    3,
		UserId:     5,
		OrderId:    9,
		TicketType: "vip",
		Price:      decimal.RequireFromString("120"),
		Event: &model.Event{
			Title:     "Jazz Night",
			StartDate: time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC),
			Venue:     &model.Venue{Name: "Blue Hall", City: "Springfield"},
		},
		User: &model.User{Name: "Ada Lovelace"},
	}
}

// pdfText is s as it appears in a content stream set in a UTF-8 font.
func pdfText(s string) string {
	var b strings.Builder
	for _, u := range utf16.Encode([]rune(s)) {
		b.WriteByte(byte(u >> 8))
		b.WriteByte(byte(u))
	}
	return b.String()
}

func TestRenderTicketContainsDetails(t *testing.T) {
	r := NewRenderer()
	ticket := sampleTicket("TKT-ABCDEF012345")

	var buf bytes.Buffer
	require.NoError(t, r.RenderTicket(&buf, &ticket))

	pdf := buf.String()
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, pdf, pdfText("TKT-ABCDEF012345"))
	assert.Contains(t, pdf, pdfText("Jazz Night"))
	assert.Contains(t, pdf, pdfText("Blue Hall, Springfield"))
	assert.Contains(t, pdf, pdfText("120.00"))
	assert.Contains(t, pdf, pdfText("Ada Lovelace"))
	assert.NotContains(t, pdf, pdfText("QR unavailable"))
	assert.Contains(t, pdf, "/Subtype /Image")
}

func TestRenderTicketQRFailureUsesPlaceholder(t *testing.T) {
	r := NewRenderer()
	r.qr = func(string, int) ([]byte, error) { return nil, errors.New("encoder exploded") }
	ticket := sampleTicket("TKT-000000000042")

	var buf bytes.Buffer
	require.NoError(t, r.RenderTicket(&buf, &ticket))
	assert.Contains(t, buf.String(), pdfText("QR unavailable"))
	assert.Contains(t, buf.String(), pdfText("TKT-000000000042"))
}

func TestRenderTicketKeepsNonLatinText(t *testing.T) {
	r := NewRenderer()
	ticket := sampleTicket("TKT-ABCDEF012346")
	ticket.Event.Title = "Концерт Ωμέγα"
	ticket.User.Name = "Zoë Ðorđević"

	var buf bytes.Buffer
	require.NoError(t, r.RenderTicket(&buf, &ticket))

	pdf := buf.String()
	assert.Contains(t, pdf, pdfText("Концерт Ωμέγα"))
	assert.Contains(t, pdf, pdfText("Zoë Ðorđević"))
	assert.Contains(t, pdf, "/Encoding /Identity-H")
	assert.NotContains(t, pdf, "(....... .....)")
}

func TestRenderOrderArchive(t *testing.T) {
	r := NewRenderer()
	tickets := []model.Ticket{sampleTicket("TKT-000000000001"), sampleTicket("TKT-000000000002"), sampleTicket("TKT-000000000003")}

	var buf bytes.Buffer
	require.NoError(t, r.RenderOrderArchive(&buf, tickets))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 3)

	for i, f := range zr.File {
		assert.Equal(t, "ticket-"+tickets[i].TicketCode+".pdf", f.Name)
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		assert.Contains(t, string(body), pdfText(tickets[i].TicketCode))
	}
}
