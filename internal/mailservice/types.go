package mailservice

import (
	"context"
	"sync"
	"time"

	"github.com/go-mail/mail/v2"
	"github.com/yuin/goldmark"

	"github.com/sushihentaime/writeflow/internal/common"
)

const (
	otpTemplate        = "otp_email.tmpl"
	welcomeTemplate    = "newsletter_welcome.tmpl"
	newsletterTemplate = "newsletter.tmpl"

	maxRetries = 5
	baseDelay  = 500 * time.Millisecond
)

type MailService struct {
	mb         common.MessageConsumer
	m          Mailer
	logger     MailLogger
	siteURL    string
	retryDelay time.Duration
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
}

type MailLogger interface {
	Error(msg string, args ...any)
	Info(msg string, args ...any)
}

type Mail struct {
	dialer   Dialer
	renderer Renderer
	sender   string
}

type Mailer interface {
	send(recipient string, data any, templateFile string) error
}

type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type Renderer interface {
	Render(name string, data any) (*Email, error)
}

// Broadcaster delivers a Markdown newsletter to many recipients at once.
type Broadcaster struct {
	m       Mailer
	md      goldmark.Markdown
	siteURL string
}

type otpEmailData struct {
	Name    string
	Code    string
	Minutes int
}

type welcomeEmailData struct {
	Email          string
	UnsubscribeURL string
}
