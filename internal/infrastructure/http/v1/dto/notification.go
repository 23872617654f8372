package dto

import (
	"time"

	"campuscore/internal/domain/notification"
)

// CreateNotificationRequest for sending notifications.
type CreateNotificationRequest struct {
	RecipientID string `json:"recipientId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Message     string `json:"message" binding:"required"`

	Type     string `json:"type"`
	Priority string `json:"priority"`

	ActionURL string     `json:"actionUrl"`
	ExpiresAt *time.Time `json:"expiresAt"`

	RelatedModel    string `json:"relatedModel"`
	RelatedObjectID string `json:"relatedObjectId"`
}

// ToEntity converts the request to a notification.
func (r CreateNotificationRequest) ToEntity() *notification.Notification {
	n := notification.New(r.RecipientID, r.Title, r.Message)
	if r.Type != "" {
		n.Type = notification.Type(r.Type)
	}
	if r.Priority != "" {
		n.Priority = notification.Priority(r.Priority)
	}
	n.ActionURL = r.ActionURL
	n.ExpiresAt = r.ExpiresAt
	n.RelatedModel = r.RelatedModel
	n.RelatedObjectID = r.RelatedObjectID
	return n
}
