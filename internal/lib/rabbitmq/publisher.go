// Package rabbitmq публикует события о пользователях в RabbitMQ.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/session-auth/internal/models"
)

// Channel — часть *amqp.Channel, нужная для публикации.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// PublishMessage публикует сообщение в RabbitMQ в виде JSON.
func PublishMessage(ch Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UserRegistered — событие о регистрации нового пользователя.
// Хэш пароля в событие не попадает.
type UserRegistered struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	RegisteredAt time.Time `json:"registered_at"`
}

// UserEventPublisher публикует события о пользователях в указанный exchange.
type UserEventPublisher struct {
	ch         Channel
	exchange   string
	routingKey string
	now        func() time.Time
}

// NewUserEventPublisher создает издателя событий.
func NewUserEventPublisher(ch Channel, exchange, routingKey string) *UserEventPublisher {
	return &UserEventPublisher{
		ch:         ch,
		exchange:   exchange,
		routingKey: routingKey,
		now:        time.Now,
	}
}

// PublishUserRegistered публикует событие user.registered.
func (p *UserEventPublisher) PublishUserRegistered(ctx context.Context, user models.User) error {
	const op = "rabbitmq.PublishUserRegistered"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	event := UserRegistered{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         string(user.Role),
		RegisteredAt: p.now().UTC(),
	}
	if err := PublishMessage(p.ch, p.exchange, p.routingKey, event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
