package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Notification é a unidade de entrega: um destinatário, um template.
// Quem consome a fila decide se vira e-mail, push ou ambos.
type Notification struct {
	Kind        string   `json:"kind"`
	TenderID    string   `json:"tenderId,omitempty"`
	CompanyID   string   `json:"companyId"`
	Email       string   `json:"email"`
	Subject     string   `json:"subject"`
	Content     string   `json:"content,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
	SenderName  string   `json:"senderName,omitempty"`
	PortalURL   string   `json:"portalUrl,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
	Close() error
}

// RabbitNotifier publica uma mensagem durável por destinatário.
type RabbitNotifier struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewRabbitNotifier(uri, queue string) (*RabbitNotifier, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	// garante que a fila exista (durável)
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &RabbitNotifier{conn: conn, ch: ch, queue: queue}, nil
}

func (r *RabbitNotifier) Notify(ctx context.Context, n Notification) error {
	if ctx == nil {
		c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		ctx = c
	}

	body, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return r.ch.PublishWithContext(
		ctx,
		"",      // default exchange
		r.queue, // routing key = nome da fila
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
			Headers: amqp.Table{
				"kind":       n.Kind,
				"company_id": n.CompanyID,
				"tender_id":  n.TenderID,
			},
		},
	)
}

func (r *RabbitNotifier) Close() error {
	var errCh, errConn error
	if r.ch != nil {
		errCh = r.ch.Close()
	}
	if r.conn != nil {
		errConn = r.conn.Close()
	}
	return errors.Join(errCh, errConn)
}
