package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a scheduled gathering. EventType is the category label used to
// group attendance statistics (e.g. "sabha", "workshop").
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	EventType   string             `bson:"eventType" json:"eventType"`
	Venue       string             `bson:"venue,omitempty" json:"venue,omitempty"`
	StartAt     time.Time          `bson:"startAt,omitempty" json:"startAt,omitempty"`
	EndAt       time.Time          `bson:"endAt,omitempty" json:"endAt,omitempty"`
	CreatedBy   primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
