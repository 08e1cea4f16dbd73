package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is member-authored content held back until an admin approves it.
type Post struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Content    string             `bson:"content" json:"content"`
	Images     []string           `bson:"images,omitempty" json:"images,omitempty"`
	CreatedBy  primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	IsApproved bool               `bson:"isApproved" json:"isApproved"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Like marks one user's like on one post; the (postId, createdBy) pair is
// unique so toggling is a delete-or-insert.
type Like struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID    primitive.ObjectID `bson:"postId" json:"postId"`
	CreatedBy primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
