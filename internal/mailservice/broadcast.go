package mailservice

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"sync/atomic"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/sync/errgroup"
)

type newsletterEmailData struct {
	Subject        string
	Content        template.HTML
	Text           string
	UnsubscribeURL string
}

func NewBroadcaster(m Mailer, siteURL string) *Broadcaster {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
	)

	return &Broadcaster{m: m, md: md, siteURL: siteURL}
}

// RenderMarkdown converts newsletter content to HTML. Raw HTML in the source is omitted.
func (b *Broadcaster) RenderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := b.md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("could not render newsletter: %w", err)
	}

	return template.HTML(buf.String()), nil
}

// Broadcast sends one email per recipient, all at once. It returns the number
// of emails that were accepted by the mail server and the first error seen.
func (b *Broadcaster) Broadcast(ctx context.Context, recipients []string, subject, content string) (int, error) {
	html, err := b.RenderMarkdown(content)
	if err != nil {
		return 0, err
	}

	var sent atomic.Int64
	g, ctx := errgroup.WithContext(ctx)

	for _, recipient := range recipients {
		recipient := recipient
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			data := newsletterEmailData{
				Subject:        subject,
				Content:        html,
				Text:           content,
				UnsubscribeURL: unsubscribeURL(b.siteURL, recipient),
			}

			if err := b.m.send(recipient, data, newsletterTemplate); err != nil {
				return fmt.Errorf("could not send newsletter to %s: %w", recipient, err)
			}

			sent.Add(1)
			return nil
		})
	}

	err = g.Wait()
	return int(sent.Load()), err
}
