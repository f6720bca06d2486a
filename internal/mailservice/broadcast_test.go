package mailservice

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestRenderMarkdown(t *testing.T) {
	b := NewBroadcaster(new(MockMailer), "http://localhost:3000")

	testCases := []struct {
		name     string
		content  string
		expected template.HTML
	}{
		{name: "heading", content: "# Hello", expected: "<h1>Hello</h1>\n"},
		{name: "hard wraps", content: "line one\nline two", expected: "<p>line one<br>\nline two</p>\n"},
		{name: "strikethrough", content: "~~old~~", expected: "<p><del>old</del></p>\n"},
		{name: "raw html omitted", content: "<script>alert(1)</script>", expected: "<!-- raw HTML omitted -->\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			html, err := b.RenderMarkdown(tc.content)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, html)
		})
	}
}

func TestBroadcast(t *testing.T) {
	defer goleak.VerifyNone(t)

	mailer := new(MockMailer)
	b := NewBroadcaster(mailer, "http://localhost:3000")

	recipients := make([]string, 25)
	for i := range recipients {
		recipients[i] = fmt.Sprintf("reader%d@example.com", i)
	}

	mailer.On("send", mock.AnythingOfType("string"), mock.MatchedBy(func(d newsletterEmailData) bool {
		return d.Subject == "Weekly" && d.Content == "<p><strong>news</strong></p>\n" && d.UnsubscribeURL != ""
	}), newsletterTemplate).Return(nil)

	sent, err := b.Broadcast(context.Background(), recipients, "Weekly", "**news**")
	require.NoError(t, err)
	assert.Equal(t, len(recipients), sent)
	mailer.AssertNumberOfCalls(t, "send", len(recipients))

	for _, r := range recipients {
		mailer.AssertCalled(t, "send", r, mock.Anything, newsletterTemplate)
	}
}

func TestBroadcastFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	mailer := new(MockMailer)
	b := NewBroadcaster(mailer, "http://localhost:3000")

	sendErr := errors.New("mailbox unavailable")
	mailer.On("send", "bad@example.com", mock.Anything, newsletterTemplate).Return(sendErr)
	mailer.On("send", "good@example.com", mock.Anything, newsletterTemplate).Return(nil)

	sent, err := b.Broadcast(context.Background(), []string{"bad@example.com", "good@example.com"}, "Weekly", "news")
	assert.ErrorIs(t, err, sendErr)
	assert.LessOrEqual(t, sent, 1)
}

func TestBroadcastNoRecipients(t *testing.T) {
	b := NewBroadcaster(new(MockMailer), "http://localhost:3000")

	sent, err := b.Broadcast(context.Background(), nil, "Weekly", "news")
	require.NoError(t, err)
	assert.Zero(t, sent)
}
