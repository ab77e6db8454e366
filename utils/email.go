package utils

import (
	"bytes"
	"event_manager/config"
	"fmt"
	"html/template"
	"io"
	"net/smtp"

	"github.com/jordan-wright/email"
	"gopkg.in/gomail.v2"
)

type SMTPSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func SMTPFromEnv() SMTPSettings {
	return SMTPSettings{
		Host:     config.Config("SMTP_HOST"),
		Port:     config.ConfigInt("SMTP_PORT", 587),
		Username: config.Config("SMTP_USERNAME"),
		Password: config.Config("SMTP_PASSWORD"),
		From:     config.ConfigDefault("SMTP_FROM", "no-reply@event-manager.local"),
	}
}

// Enabled reports whether a mail host is configured.
func (s SMTPSettings) Enabled() bool {
	return s.Host != ""
}

// OrderMailData feeds the order confirmation and cancellation templates.
type OrderMailData struct {
	CustomerName string
	OrderNumber  string
	EventTitle   string
	EventDate    string
	VenueName    string
	TicketType   string
	Quantity     int
	TotalAmount  string
	TicketCodes  []string
}

var orderConfirmationTmpl = template.Must(template.New("confirmation").Parse(`<h2>Thanks for your order, {{.CustomerName}}!</h2>
<p>Order <strong>{{.OrderNumber}}</strong> for <strong>{{.EventTitle}}</strong></p>
<p>{{.EventDate}}{{if .VenueName}} at {{.VenueName}}{{end}}</p>
<p>{{.Quantity}} x {{.TicketType}} ticket(s), total {{.TotalAmount}}</p>
<ul>{{range .TicketCodes}}<li>{{.}}</li>{{end}}</ul>
<p>You can download your tickets from your account at any time.</p>`))

var orderCancellationTmpl = template.Must(template.New("cancellation").Parse(`<h2>Your order has been cancelled</h2>
<p>Order <strong>{{.OrderNumber}}</strong> for <strong>{{.EventTitle}}</strong> ({{.EventDate}}) was cancelled.</p>
<p>{{.Quantity}} x {{.TicketType}} ticket(s) have been released.</p>`))

func RenderOrderConfirmation(data OrderMailData) (string, string, error) {
	return renderMail(orderConfirmationTmpl, "Order confirmation #"+data.OrderNumber, data)
}

func RenderOrderCancellation(data OrderMailData) (string, string, error) {
	return renderMail(orderCancellationTmpl, "Order cancelled #"+data.OrderNumber, data)
}

func renderMail(tmpl *template.Template, subject string, data OrderMailData) (string, string, error) {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("render %s mail: %w", tmpl.Name(), err)
	}
	return subject, body.String(), nil
}

// SendHTMLMail delivers one HTML message over SMTP. attachments maps file names to content.
func SendHTMLMail(s SMTPSettings, to, subject, body string, attachments map[string][]byte) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	for name, content := range attachments {
		data := content
		m.Attach(name, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}

	d := gomail.NewDialer(s.Host, s.Port, s.Username, s.Password)
	return d.DialAndSend(m)
}

// SendWelcomeEmail greets a newly registered user.
func SendWelcomeEmail(s SMTPSettings, to, name string) error {
	e := email.NewEmail()
	e.From = s.From
	e.To = []string{to}
	e.Subject = "Welcome to Event Manager"
	e.Text = []byte(fmt.Sprintf("Hi %s,\n\nYour account is ready. Browse upcoming events and grab your tickets.\n", name))

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}
	return e.Send(addr, auth)
}
