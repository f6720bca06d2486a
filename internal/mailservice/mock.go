package mailservice

import (
	"github.com/go-mail/mail/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"
	"github.com/sushihentaime/writeflow/internal/common"
)

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(name string, data any) (*Email, error) {
	args := m.Called(name, data)
	e, _ := args.Get(0).(*Email)
	return e, args.Error(1)
}

type MockDialer struct {
	mock.Mock
}

func (d *MockDialer) DialAndSend(m ...*mail.Message) error {
	args := d.Called(m)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) send(recipient string, data any, templateFile string) error {
	args := m.Called(recipient, data, templateFile)
	return args.Error(0)
}

type MockMessageConsumer struct {
	mock.Mock
}

func (m *MockMessageConsumer) Consume(key common.BindingKey, exchange common.Exchange, queue common.Queue) (<-chan amqp.Delivery, error) {
	args := m.Called(key, exchange, queue)
	if ch, ok := args.Get(0).(chan amqp.Delivery); ok {
		return ch, args.Error(1)
	}
	return nil, args.Error(1)
}
