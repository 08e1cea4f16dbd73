package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types shown on the client.
const (
	NotificationInfo     = "info"
	NotificationError    = "error"
	NotificationWarning  = "warning"
	NotificationSuccess  = "success"
	NotificationApproval = "Approval"
)

// Target groups for a notification.
const (
	TargetAll        = "All"
	TargetAdmin      = "Admin"
	TargetIndividual = "Individual"
	TargetCustom     = "Custom"
)

// ReadReceipt records when a user read a notification.
type ReadReceipt struct {
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	ReadAt time.Time          `bson:"readAt" json:"readAt"`
}

// Notification is either a broadcast (empty CreatedFor) or addressed to the
// users listed in CreatedFor.
type Notification struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	CreatedBy        primitive.ObjectID   `bson:"createdBy" json:"createdBy"`
	CreatedFor       []primitive.ObjectID `bson:"createdFor,omitempty" json:"createdFor,omitempty"`
	Title            string               `bson:"title" json:"title"`
	Message          string               `bson:"message" json:"message"`
	NotificationType string               `bson:"notificationType" json:"notificationType"`
	TargetGroup      string               `bson:"targetGroup" json:"targetGroup"`
	Link             string               `bson:"link,omitempty" json:"link,omitempty"`
	IsReadBy         []ReadReceipt        `bson:"isReadBy,omitempty" json:"isReadBy,omitempty"`
	CreatedAt        time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time            `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
