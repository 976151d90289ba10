package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/mailersend/mailersend-go"

	"github.com/wildoasis/cabin-bookings/pkg/events"
)

type MailerSendClient struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	enabled bool
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSendClient {
	m := &MailerSendClient{
		enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}

	if m.enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}

	return m
}

func (m *MailerSendClient) SendAccessCode(email, code, magicLink string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := "Your Wild Oasis sign-in code"
	html := fmt.Sprintf(`
		<h2>Welcome back to The Wild Oasis</h2>
		<p>Your sign-in code is: <strong>%s</strong></p>
		<p>Or sign in with one click:</p>
		<p><a href="%s">Sign in to The Wild Oasis</a></p>
		<p>This code expires shortly. If you didn't request it, you can ignore this email.</p>
	`, code, magicLink)
	text := fmt.Sprintf("Your Wild Oasis sign-in code is: %s\n\nOr sign in with this link: %s", code, magicLink)

	return m.send(email, "", subject, text, html)
}

func (m *MailerSendClient) SendBookingConfirmation(ev events.BookingCreatedEvent) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	nights := int(ev.EndDate.Sub(ev.StartDate).Hours() / 24)
	subject := "Your Wild Oasis reservation"
	html := fmt.Sprintf(`
		<h2>Reservation received</h2>
		<p>Hi %s,</p>
		<p>We've received your reservation for %d night(s), %s to %s, for %d guest(s).</p>
		<p>Total: $%.2f. Your booking is unconfirmed until check-in details are settled.</p>
		<p>See you at The Wild Oasis!</p>
	`, ev.GuestName, nights,
		ev.StartDate.Format("Jan 2, 2006"), ev.EndDate.Format("Jan 2, 2006"),
		ev.NumGuests, ev.TotalPrice)
	text := fmt.Sprintf("Reservation received: %s to %s, %d guest(s), total $%.2f.",
		ev.StartDate.Format("Jan 2, 2006"), ev.EndDate.Format("Jan 2, 2006"),
		ev.NumGuests, ev.TotalPrice)

	return m.send(ev.GuestEmail, ev.GuestName, subject, text, html)
}

func (m *MailerSendClient) send(toEmail, toName, subject, text, html string) error {
	message := m.client.Email.NewMessage()
	message.SetFrom(m.from)
	message.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	message.SetSubject(subject)
	message.SetText(text)
	message.SetHTML(html)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := m.client.Email.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
