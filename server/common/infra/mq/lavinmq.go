package mq

import amqp "github.com/rabbitmq/amqp091-go"

const FilesExchange = "files.events"

func NewConnection(url string) (*amqp.Connection, error) {
	return amqp.Dial(url)
}

// NewFilesChannel opens a channel with the files topic exchange declared.
func NewFilesChannel(conn *amqp.Connection) (*amqp.Channel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if err := ch.ExchangeDeclare(FilesExchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, err
	}
	return ch, nil
}
