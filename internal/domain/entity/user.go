package entity

import "time"

// User roles.
const (
	RoleClient     = "client"
	RoleFreelancer = "freelancer"
	RoleAdmin      = "admin"
)

type User struct {
	ID        string    `json:"id" firestore:"id"`
	Email     string    `json:"email" firestore:"email"`
	Username  string    `json:"username" firestore:"username"`
	Bio       string    `json:"bio,omitempty" firestore:"bio,omitempty"`
	Role      string    `json:"role" firestore:"role"`
	PhotoURL  string    `json:"photo_url,omitempty" firestore:"photoURL,omitempty"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}
