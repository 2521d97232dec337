package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail over SMTP. Callers treat delivery as a
// best-effort side channel: a send error never fails the surrounding
// operation.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewMailer(host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// SendInvitation emails the pairing link to the invitee. The dial-and-send
// runs in a goroutine raced against ctx since gomail has no context support;
// a timed-out send is reported as an error like any other delivery failure.
func (m *Mailer) SendInvitation(ctx context.Context, to, inviterName, link string) error {
	if m.host == "" {
		return fmt.Errorf("smtp not configured")
	}

	if inviterName == "" {
		inviterName = "Someone special"
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("%s invited you to Tandem", inviterName))
	msg.SetBody("text/html", invitationBody(inviterName, link))

	d := gomail.NewDialer(m.host, m.port, m.username, m.password)

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func invitationBody(inviterName, link string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
  <body style="font-family: -apple-system, 'Segoe UI', Roboto, sans-serif; color: #333;">
    <div style="max-width: 600px; margin: 40px auto;">
      <h1 style="color: #E91E63;">You're invited!</h1>
      <p><strong>%s</strong> has invited you to join them on Tandem, a shared
      calendar for couples to plan dates, trips and goals together.</p>
      <p style="margin: 32px 0;">
        <a href="%s" style="background: #E91E63; color: white; padding: 14px 32px; text-decoration: none; border-radius: 8px;">Accept invitation</a>
      </p>
      <p style="font-size: 14px; color: #666;">Or copy this link into your browser:<br><a href="%s">%s</a></p>
      <p style="font-size: 14px; color: #666;">This invitation expires in 7 days.
      If you didn't expect it, you can safely ignore this email.</p>
    </div>
  </body>
</html>`, inviterName, link, link, link)
}
