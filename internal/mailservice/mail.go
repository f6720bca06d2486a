package mailservice

import (
	"net/url"
	"strings"
	"time"

	"github.com/go-mail/mail/v2"
)

// unsubscribable is implemented by email data that belongs to the newsletter.
type unsubscribable interface {
	unsubscribeLink() string
}

func (d welcomeEmailData) unsubscribeLink() string    { return d.UnsubscribeURL }
func (d newsletterEmailData) unsubscribeLink() string { return d.UnsubscribeURL }

func NewMailer(host string, port int, username, password, sender string, r Renderer) *Mail {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 5 * time.Second

	return &Mail{
		dialer:   dialer,
		renderer: r,
		sender:   sender,
	}
}

// send opens a fresh SMTP connection per message, so it is safe for concurrent use.
func (m *Mail) send(recipient string, data any, templateFile string) error {
	e, err := m.renderer.Render(templateFile, data)
	if err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", e.Subject)
	if u, ok := data.(unsubscribable); ok && u.unsubscribeLink() != "" {
		msg.SetHeader("List-Unsubscribe", "<"+u.unsubscribeLink()+">")
	}
	msg.SetBody("text/plain", e.Plain)
	msg.AddAlternative("text/html", e.HTML)

	return m.dialer.DialAndSend(msg)
}

func unsubscribeURL(siteURL, email string) string {
	return strings.TrimRight(siteURL, "/") + "/newsletter/unsubscribe?email=" + url.QueryEscape(email)
}
