package entity

import "time"

type Review struct {
	ID            string    `json:"id" firestore:"id"`
	GigID         string    `json:"gig_id" firestore:"gigId"`
	OrderID       string    `json:"order_id" firestore:"orderId"`
	BuyerID       string    `json:"buyer_id" firestore:"buyerId"`
	BuyerUsername string    `json:"buyer_username" firestore:"buyerUsername"`
	SellerID      string    `json:"seller_id" firestore:"sellerId"`
	Rating        int       `json:"rating" firestore:"rating"`
	Comment       string    `json:"comment" firestore:"comment"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
}
