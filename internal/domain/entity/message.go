package entity

import "time"

// Message is a single chat message in an order channel. Messages are
// immutable once created; ID and Timestamp are assigned by the store at
// append time and are authoritative for ordering (timestamp ascending,
// ties broken by ID).
type Message struct {
	ID        string    `json:"message_id" firestore:"id"`
	OrderID   string    `json:"order_id" firestore:"orderId"`
	SenderID  string    `json:"sender_id" firestore:"senderId"`
	Content   string    `json:"content" firestore:"content"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp"`
}
