package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ChiragRathod25/balmandal-backend/config"
	"github.com/ChiragRathod25/balmandal-backend/middleware"
	"github.com/ChiragRathod25/balmandal-backend/models"
	"github.com/ChiragRathod25/balmandal-backend/utils"
)

// CreateEventInput is the request body for creating an event.
type CreateEventInput struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description,omitempty"`
	EventType   string    `json:"eventType" binding:"required"`
	Venue       string    `json:"venue,omitempty"`
	StartAt     time.Time `json:"startAt,omitempty"`
	EndAt       time.Time `json:"endAt,omitempty"`
}

// UpdateEventInput allows partial updates
type UpdateEventInput struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	EventType   *string    `json:"eventType,omitempty"`
	Venue       *string    `json:"venue,omitempty"`
	StartAt     *time.Time `json:"startAt,omitempty"`
	EndAt       *time.Time `json:"endAt,omitempty"`
}

// CreateEvent creates a new event.
func CreateEvent(c *gin.Context) {
	var input CreateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, "title and eventType are required")
		return
	}

	principal, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Fail(c, http.StatusUnauthorized, "authentication required")
		return
	}

	event := models.Event{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Description: input.Description,
		EventType:   input.EventType,
		Venue:       input.Venue,
		StartAt:     input.StartAt,
		EndAt:       input.EndAt,
		CreatedBy:   principal.ID,
		CreatedAt:   time.Now().UTC(),
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	if _, err := config.DB.Collection(config.EventsCollection).InsertOne(ctx, event); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not create event")
		return
	}

	utils.Respond(c, http.StatusCreated, event, "Event created successfully")
}

// ListEvents returns all events, newest first.
func ListEvents(c *gin.Context) {
	ctx, cancel := opCtx(c)
	defer cancel()

	cursor, err := config.DB.Collection(config.EventsCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"startAt": -1}))
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not fetch events")
		return
	}

	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not fetch events")
		return
	}

	utils.Respond(c, http.StatusOK, events, "Events fetched successfully")
}

// GetEvent fetches a single event by its hex id
func GetEvent(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("eventId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid event id")
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	var event models.Event
	if err := config.DB.Collection(config.EventsCollection).FindOne(ctx, bson.M{"_id": eventID}).Decode(&event); err != nil {
		utils.Fail(c, http.StatusNotFound, "event not found")
		return
	}

	utils.Respond(c, http.StatusOK, event, "Event fetched successfully")
}

// UpdateEvent applies a partial update to an event.
func UpdateEvent(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("eventId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid event id")
		return
	}

	var input UpdateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	update := bson.M{}
	if input.Title != nil {
		update["title"] = *input.Title
	}
	if input.Description != nil {
		update["description"] = *input.Description
	}
	if input.EventType != nil {
		update["eventType"] = *input.EventType
	}
	if input.Venue != nil {
		update["venue"] = *input.Venue
	}
	if input.StartAt != nil {
		update["startAt"] = *input.StartAt
	}
	if input.EndAt != nil {
		update["endAt"] = *input.EndAt
	}
	if len(update) == 0 {
		utils.Fail(c, http.StatusBadRequest, "no fields to update")
		return
	}
	update["updatedAt"] = time.Now().UTC()

	ctx, cancel := opCtx(c)
	defer cancel()

	var updated models.Event
	err = config.DB.Collection(config.EventsCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": eventID}, bson.M{"$set": update},
			options.FindOneAndUpdate().SetReturnDocument(options.After)).
		Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.Fail(c, http.StatusNotFound, "event not found")
			return
		}
		utils.Fail(c, http.StatusInternalServerError, "could not update event")
		return
	}

	utils.Respond(c, http.StatusOK, updated, "Event updated successfully")
}

// DeleteEvent removes an event by id.
func DeleteEvent(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("eventId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid event id")
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	var deleted models.Event
	err = config.DB.Collection(config.EventsCollection).
		FindOneAndDelete(ctx, bson.M{"_id": eventID}).Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.Fail(c, http.StatusNotFound, "event not found")
			return
		}
		utils.Fail(c, http.StatusInternalServerError, "could not delete event")
		return
	}

	utils.Respond(c, http.StatusOK, deleted, "Event deleted successfully")
}
