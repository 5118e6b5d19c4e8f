package repository

import (
	"encoding/json"

	"customs_clearance_service/internal/messaging/domain"
	"customs_clearance_service/pkg/database"

	"github.com/streadway/amqp"
)

// AlertDispatcher hands urgent and deadline alerts to the out-of-band
// delivery workers (sms, email).
type AlertDispatcher interface {
	Dispatch(alert domain.OutboundAlert) error
}

type rabbitAlertDispatcher struct {
	rabbit   database.RabbitRepo
	exchange string
}

// NewRabbitAlertDispatcher create an AlertDispatcher on the alert exchange
func NewRabbitAlertDispatcher(rabbit database.RabbitRepo, exchange string) AlertDispatcher {
	return &rabbitAlertDispatcher{
		rabbit:   rabbit,
		exchange: exchange,
	}
}

func (d *rabbitAlertDispatcher) Dispatch(alert domain.OutboundAlert) error {
	body, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	return d.rabbit.Publish(d.exchange, alert.Channel, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}
