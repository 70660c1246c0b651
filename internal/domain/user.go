package domain

import "time"

// User is the subset of the account record the monitor needs to reach a user by email.
// Accounts are created by the authentication service; this service only reads them.
type User struct {
	UserID    string    `json:"id" dynamodbav:"user_id"`
	Email     string    `json:"email" dynamodbav:"email"`
	FullName  string    `json:"full_name" dynamodbav:"full_name"`
	Role      string    `json:"role" dynamodbav:"role"`
	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
