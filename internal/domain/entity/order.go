package entity

import "time"

// Order status values. Sellers move an order through in_progress and
// delivered; buyers close it out with completed. Either side may cancel.
const (
	OrderStatusPending    = "pending"
	OrderStatusInProgress = "in_progress"
	OrderStatusDelivered  = "delivered"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Order ties exactly one buyer and one seller to one gig. BuyerID,
// SellerID and GigID never change after creation; the chat layer treats
// them as ground truth for channel authorization.
type Order struct {
	ID        string    `json:"id" firestore:"id"`
	GigID     string    `json:"gig_id" firestore:"gigId"`
	BuyerID   string    `json:"buyer_id" firestore:"buyerId"`
	SellerID  string    `json:"seller_id" firestore:"sellerId"`
	Price     float64   `json:"price" firestore:"price"`
	Status    string    `json:"status" firestore:"status"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// IsParticipant reports whether userID is the order's buyer or seller.
func (o *Order) IsParticipant(userID string) bool {
	return userID == o.BuyerID || userID == o.SellerID
}
