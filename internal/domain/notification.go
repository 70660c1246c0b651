package domain

import "time"

// NotificationTypeInApp is the only notification type produced by the monitor.
const NotificationTypeInApp = "in_app"

type Notification struct {
	NotificationID string     `json:"id" dynamodbav:"notification_id"`
	UserID         string     `json:"user_id" dynamodbav:"user_id"`
	CaseNumber     string     `json:"case_number,omitempty" dynamodbav:"case_number,omitempty"`
	Title          string     `json:"title" dynamodbav:"title"`
	Message        string     `json:"message" dynamodbav:"message"`
	IsRead         bool       `json:"is_read" dynamodbav:"is_read"`
	Type           string     `json:"type" dynamodbav:"type"`
	CreatedAt      time.Time  `json:"created_at" dynamodbav:"created_at"`
	SentAt         *time.Time `json:"sent_at,omitempty" dynamodbav:"sent_at"`
	ReadAt         *time.Time `json:"read_at,omitempty" dynamodbav:"read_at"`
}
