package repository

import (
	"context"

	"gigmarket/internal/domain/entity"
)

// MessageRepository is the durable, append-only log backing order chat
// channels. Append assigns the message ID and timestamp at write time;
// ListByOrder returns the full channel history ordered ascending by
// timestamp, ties broken by ID, so every reader observes the same
// sequence.
type MessageRepository interface {
	Append(ctx context.Context, message *entity.Message) error
	ListByOrder(ctx context.Context, orderID string) ([]*entity.Message, error)
}
