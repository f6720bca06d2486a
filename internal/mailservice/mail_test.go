package mailservice

import (
	"errors"
	"testing"

	"github.com/go-mail/mail/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSendEmail(t *testing.T) {
	rendered := &Email{Subject: "Test Subject", Plain: "Test Plain Body", HTML: "Test HTML Body"}

	testCases := []struct {
		name            string
		data            any
		renderErr       error
		dialErr         error
		expectDial      bool
		wantUnsubscribe []string
		expectedErr     bool
	}{
		{name: "success", data: otpEmailData{Code: "123456"}, expectDial: true},
		{
			name:            "newsletter mail carries unsubscribe header",
			data:            welcomeEmailData{Email: "a@example.com", UnsubscribeURL: "https://writeflow.dev/u"},
			expectDial:      true,
			wantUnsubscribe: []string{"<https://writeflow.dev/u>"},
		},
		{name: "template error", renderErr: errors.New("bad template"), expectedErr: true},
		{name: "smtp error", dialErr: errors.New("connection refused"), expectDial: true, expectedErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockRenderer := new(MockRenderer)
			mockDialer := new(MockDialer)

			mailer := Mail{
				dialer:   mockDialer,
				renderer: mockRenderer,
				sender:   "sender@example.com",
			}

			if tc.renderErr != nil {
				mockRenderer.On("Render", "template.tmpl", mock.Anything).Return(nil, tc.renderErr)
			} else {
				mockRenderer.On("Render", "template.tmpl", mock.Anything).Return(rendered, nil)
			}

			var sent *mail.Message
			if tc.expectDial {
				mockDialer.On("DialAndSend", mock.AnythingOfType("[]*mail.Message")).
					Run(func(args mock.Arguments) {
						sent = args.Get(0).([]*mail.Message)[0]
					}).
					Return(tc.dialErr)
			}

			err := mailer.send("test@example.com", tc.data, "template.tmpl")
			assert.Equal(t, tc.expectedErr, err != nil)

			if sent != nil {
				assert.Equal(t, []string{"Test Subject"}, sent.GetHeader("Subject"))
				assert.Equal(t, tc.wantUnsubscribe, sent.GetHeader("List-Unsubscribe"))
			}

			mockRenderer.AssertExpectations(t)
			mockDialer.AssertExpectations(t)
		})
	}
}

func TestUnsubscribeURL(t *testing.T) {
	assert.Equal(t,
		"https://writeflow.dev/newsletter/unsubscribe?email=a%2Bb%40example.com",
		unsubscribeURL("https://writeflow.dev/", "a+b@example.com"))
}
