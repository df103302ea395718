package entity

import "time"

type Gig struct {
	ID           string    `json:"id" firestore:"id"`
	SellerID     string    `json:"seller_id" firestore:"sellerId"`
	Username     string    `json:"username" firestore:"username"`
	Title        string    `json:"title" firestore:"title"`
	Description  string    `json:"description" firestore:"description"`
	Category     string    `json:"category" firestore:"category"`
	SubCategory  string    `json:"sub_category,omitempty" firestore:"subCategory,omitempty"`
	Price        float64   `json:"price" firestore:"price"`
	DeliveryTime int       `json:"delivery_time" firestore:"deliveryTime"`
	Revisions    int       `json:"revisions" firestore:"revisions"`
	Images       []string  `json:"images" firestore:"images"`
	Rating       float64   `json:"rating" firestore:"rating"`
	NumReviews   int       `json:"num_reviews" firestore:"numReviews"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt    time.Time `json:"updated_at" firestore:"updatedAt"`
}
