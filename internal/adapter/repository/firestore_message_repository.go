package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"gigmarket/internal/domain/entity"
	"gigmarket/internal/domain/repository"
	"gigmarket/pkg/errors"
)

type firestoreMessageRepository struct {
	client *firestore.Client
}

func NewFirestoreMessageRepository(client *firestore.Client) repository.MessageRepository {
	return &firestoreMessageRepository{
		client: client,
	}
}

func (r *firestoreMessageRepository) messages(orderID string) *firestore.CollectionRef {
	return r.client.Collection("chats").Doc(orderID).Collection("messages")
}

// Append assigns the message ID and timestamp here, at the write
// boundary. The caller broadcasts the exact object persisted, so the
// live event always carries the store-assigned fields.
func (r *firestoreMessageRepository) Append(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.Timestamp = time.Now().UTC()

	_, err := r.messages(message.OrderID).Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.StoreUnavailable("Failed to append message", err)
	}

	return nil
}

func (r *firestoreMessageRepository) ListByOrder(ctx context.Context, orderID string) ([]*entity.Message, error) {
	// Secondary order by id keeps the sequence deterministic when two
	// appends land on the same timestamp.
	query := r.messages(orderID).
		OrderBy("timestamp", firestore.Asc).
		OrderBy("id", firestore.Asc)

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.StoreUnavailable("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, errors.Internal("Failed to parse message data", err)
		}

		messages = append(messages, &message)
	}

	return messages, nil
}
