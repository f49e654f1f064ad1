// Package mail renders and delivers invoice emails.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/pahana-edu/billing/internal/billing"
)

// Sender delivers a single rendered message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender delivers mail through a plain SMTP relay.
type SMTPSender struct {
	Addr string
	From string
}

func NewSMTPSender(host string, port int, from string) *SMTPSender {
	return &SMTPSender{Addr: fmt.Sprintf("%s:%d", host, port), From: from}
}

func (s *SMTPSender) Send(_ context.Context, to, subject, body string) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := smtp.SendMail(s.Addr, nil, s.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// Mailer renders invoices and hands them to a Sender.
type Mailer struct {
	sender  Sender
	printer *message.Printer
}

func NewMailer(sender Sender) *Mailer {
	return &Mailer{sender: sender, printer: message.NewPrinter(language.English)}
}

// SendInvoice renders the bill as a plain-text invoice and delivers it to
// the customer's address.
func (m *Mailer) SendInvoice(ctx context.Context, content billing.BillContent) error {
	if content.CustomerEmail == "" {
		return fmt.Errorf("bill %s: customer has no email address", content.BillNo)
	}
	subject := fmt.Sprintf("Your Invoice %s from Pahana Edu Bookshop", content.BillNo)
	return m.sender.Send(ctx, content.CustomerEmail, subject, m.renderInvoice(content))
}

func (m *Mailer) renderInvoice(content billing.BillContent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\r\n\r\n", content.CustomerName)
	fmt.Fprintf(&b, "Thank you for your purchase at Pahana Edu Bookshop.\r\n\r\n")
	fmt.Fprintf(&b, "Invoice No : %s\r\n", content.BillNo)
	fmt.Fprintf(&b, "Date       : %s\r\n\r\n", content.CreatedAt.Format("2006-01-02 15:04"))

	fmt.Fprintf(&b, "%-30s %5s %12s %12s\r\n", "Item", "Qty", "Unit Price", "Subtotal")
	b.WriteString(strings.Repeat("-", 62) + "\r\n")
	for _, line := range content.BillItems {
		fmt.Fprintf(&b, "%-30s %5d %12s %12s\r\n",
			truncate(line.ItemName, 30), line.Quantity,
			m.amount(line.UnitPrice), m.amount(line.Subtotal))
	}
	b.WriteString(strings.Repeat("-", 62) + "\r\n")
	fmt.Fprintf(&b, "%-36s %24s\r\n\r\n", "Total", "Rs. "+m.amount(content.TotalAmount))

	b.WriteString("We appreciate your business.\r\n\r\n")
	b.WriteString("Pahana Edu Bookshop\r\n")
	return b.String()
}

func (m *Mailer) amount(v float64) string {
	return m.printer.Sprint(number.Decimal(v,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
