package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Talent is a skill entry attached to a user profile.
type Talent struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	TalentType  string             `bson:"talentType" json:"talentType"`
	Heading     string             `bson:"heading" json:"heading"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Images      []string           `bson:"images,omitempty" json:"images,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
